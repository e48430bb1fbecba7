// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/feedrank/internal/recommend"
)

func TestLoadCatalog_Validation(t *testing.T) {
	t.Parallel()

	base := "viewers:\n  - id: alice\ntags:\n  - id: go\n"
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty document", "", ""},
		{"minimal", base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\n    tags: [go]\n", ""},
		{"unknown field", "viewrs: []\n", "field viewrs not found"},
		{"duplicate viewer", "viewers:\n  - id: a\n  - id: a\n", "duplicate id"},
		{"viewer without id", "viewers:\n  - username: x\n", "id is required"},
		{"duplicate tag", "tags:\n  - id: go\n  - id: go\n", "duplicate id"},
		{"unknown creator", base + "items:\n  - id: v1\n    creator_id: bob\n    title: t\n", "unknown creator"},
		{"unknown tag", base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\n    tags: [rust]\n", "unknown tag"},
		{"missing title", base + "items:\n  - id: v1\n    creator_id: alice\n", "title are required"},
		{"bad duration", base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\n    published_ago: soon\n", "invalid duration"},
		{"negative duration", base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\n    published_ago: -1h\n", "must not be negative"},
		{
			"absolute and relative",
			base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\n    published_ago: 1h\n    published_at: 2026-01-01T00:00:00Z\n",
			"exclusive",
		},
		{"watch of unknown item", base + "watches:\n  - viewer_id: alice\n    item_id: v9\n", "unknown item"},
		{"watch by unknown viewer", base + "items:\n  - id: v1\n    creator_id: alice\n    title: t\nwatches:\n  - viewer_id: zed\n    item_id: v1\n", "unknown viewer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("LoadCatalog() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadCatalog() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogFile(path)
	checkNoError(t, err)
	if len(c.Viewers) != 3 || len(c.Tags) != 3 || len(c.Items) != 6 || len(c.Watches) != 2 {
		t.Errorf("catalog sizes = %d/%d/%d/%d", len(c.Viewers), len(c.Tags), len(c.Items), len(c.Watches))
	}
	if c.Items[3].PublishedAt == nil {
		t.Error("published_at was not decoded")
	}

	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadCatalogFile() should fail for a missing file")
	}
}

func TestDB_SeedCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	catalog, err := LoadCatalog(strings.NewReader(testCatalog))
	checkNoError(t, err)

	result, err := db.SeedCatalog(ctx, catalog)
	checkNoError(t, err)
	if result != (SeedResult{Viewers: 3, Tags: 3, Items: 6, Watches: 2}) {
		t.Errorf("SeedCatalog() = %+v", result)
	}

	carol, err := db.Exists(ctx, "carol")
	checkNoError(t, err)
	if !carol {
		t.Error("viewer without username was not seeded")
	}

	// Re-seeding retags v2 and bumps its counters in place.
	catalog.Items[1].Tags = []string{"db"}
	catalog.Items[1].Views = 999
	_, err = db.SeedCatalog(ctx, catalog)
	checkNoError(t, err)

	v2, err := db.Get(ctx, "v2")
	checkNoError(t, err)
	if len(v2.Tags) != 1 || v2.Tags[0].ID != "db" {
		t.Errorf("v2 tags after reseed = %+v, want [db]", v2.Tags)
	}
	if v2.ViewCount != 999 {
		t.Errorf("v2 views after reseed = %d, want 999", v2.ViewCount)
	}

	goItems, err := db.Find(ctx, recommend.ContentQuery{TagIDs: []string{"go"}, Limit: 10})
	checkNoError(t, err)
	checkIDs(t, "go items after reseed", itemIDs(goItems), []string{"v1"})
}

func TestDB_SeedCatalog_Invalid(t *testing.T) {
	db := setupTestDB(t)

	bad := &Catalog{Items: []CatalogItem{{ID: "v1", Title: "t", CreatorID: "ghost"}}}
	if _, err := db.SeedCatalog(context.Background(), bad); err == nil {
		t.Fatal("SeedCatalog() should validate the catalog")
	}
}
