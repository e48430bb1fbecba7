// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

// ExclusionSet holds item ids that must not appear in a response.
// It is computed fresh per request and never shared across requests.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from any number of id lists.
func NewExclusionSet(lists ...[]string) ExclusionSet {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	set := make(ExclusionSet, n)
	for _, l := range lists {
		for _, id := range l {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is excluded.
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts ids into the set in place.
func (s ExclusionSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// With returns a copy of the set extended by ids. The receiver is unchanged.
func (s ExclusionSet) With(ids ...string) ExclusionSet {
	out := make(ExclusionSet, len(s)+len(ids))
	for id := range s {
		out[id] = struct{}{}
	}
	out.Add(ids...)
	return out
}

// IDs returns the excluded ids in sorted order.
func (s ExclusionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return sortedIDs(ids)
}

// Exclude drops candidates whose item id is in the set, preserving order.
// It also drops repeated ids so a pool never carries the same item twice.
func Exclude(candidates []Candidate, set ExclusionSet) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if set.Contains(c.Item.ID) {
			continue
		}
		if _, dup := seen[c.Item.ID]; dup {
			continue
		}
		seen[c.Item.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// candidateIDs returns the item ids of a candidate pool.
func candidateIDs(candidates []Candidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Item.ID)
	}
	return ids
}
