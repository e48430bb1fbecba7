// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package recommend

import (
	"math/rand"
	"sync"
)

// defaultSeed is used when the configured seed is zero.
const defaultSeed = 42

// RandSource supplies the randomness for presentation shuffles.
type RandSource interface {
	// Intn returns a pseudorandom integer in [0, n).
	Intn(n int) int
}

// lockedRand is a seeded *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns a concurrency-safe source seeded with seed.
func NewRandSource(seed int64) RandSource {
	if seed == 0 {
		seed = defaultSeed
	}
	return &lockedRand{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for presentation shuffling
	}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// shuffle applies a Fisher-Yates shuffle to pool in place.
func shuffle(pool []Candidate, rnd RandSource) {
	for i := len(pool) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}
