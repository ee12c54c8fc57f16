// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive", "ledger.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleBatch(batchID, stamp string, at time.Time, stems ...string) []types.ArchiveRecord {
	records := make([]types.ArchiveRecord, len(stems))
	for i, stem := range stems {
		records[i] = types.ArchiveRecord{
			BatchID:     batchID,
			Timestamp:   stamp,
			SourcePath:  "/root/resume/published/" + stem + ".pdf",
			ArchivePath: "/root/archive/resumes/" + stem + stamp + ".pdf",
			Size:        int64(100 + i),
			SHA256:      "abc123",
			ModTime:     at.Add(-time.Hour),
			ArchivedAt:  at,
		}
	}
	return records
}

// --- tests ---

func TestNewStoreCreatesDatabase(t *testing.T) {
	store := testStore(t)
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	t1 := time.Date(2024, 3, 5, 19, 30, 10, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	if err := store.Record(ctx, sampleBatch("b1", "_20240305__14-30_10", t1, "Resume", "References")); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, sampleBatch("b2", "_20240307__14-30_10", t2, "Resume")); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].BatchID != "b2" {
		t.Errorf("newest record first: got batch %q", all[0].BatchID)
	}
	if !all[0].ArchivedAt.Equal(t2) {
		t.Errorf("archived_at = %v, want %v", all[0].ArchivedAt, t2)
	}

	byBatch, err := store.List(ctx, QueryOptions{BatchID: "b1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byBatch) != 2 {
		t.Errorf("batch b1: got %d records, want 2", len(byBatch))
	}
	for _, r := range byBatch {
		if r.Timestamp != "_20240305__14-30_10" {
			t.Errorf("timestamp = %q", r.Timestamp)
		}
	}

	byStem, err := store.List(ctx, QueryOptions{Stem: "Resume"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStem) != 2 {
		t.Errorf("stem Resume: got %d records, want 2", len(byStem))
	}

	limited, err := store.List(ctx, QueryOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1: got %d records", len(limited))
	}
}

func TestBatches(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	t1 := time.Date(2024, 3, 5, 19, 30, 10, 0, time.UTC)
	if err := store.Record(ctx, sampleBatch("b1", "_a", t1, "Resume", "References")); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, sampleBatch("b2", "_b", t1.Add(time.Hour), "Resume")); err != nil {
		t.Fatal(err)
	}

	batches, err := store.Batches(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if batches[0].BatchID != "b2" || batches[0].Files != 1 {
		t.Errorf("first batch = %+v", batches[0])
	}
	if batches[1].BatchID != "b1" || batches[1].Files != 2 {
		t.Errorf("second batch = %+v", batches[1])
	}
}

func TestRecordIsAtomic(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	at := time.Now()
	if err := store.Record(ctx, sampleBatch("b1", "_a", at, "Resume")); err != nil {
		t.Fatal(err)
	}

	ctxCancel, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Record(ctxCancel, sampleBatch("b2", "_b", at, "Letter")); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	all, err := store.List(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("got %d records, want 1", len(all))
	}
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 5, 19, 30, 10, 0, time.UTC)
	if err := store.Record(ctx, sampleBatch("b1", "_a", at, "Resume", "References")); err != nil {
		t.Fatal(err)
	}

	yamlPath, err := store.ExportYAML(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []types.ArchiveRecord
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("parsing export.yaml: %v", err)
	}
	if len(fromYAML) != 2 {
		t.Errorf("export.yaml has %d records, want 2", len(fromYAML))
	}

	jsonPath, err := store.ExportJSON(ctx, QueryOptions{Stem: "Resume"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(jsonPath) != filepath.Dir(store.Path()) {
		t.Errorf("export written to %s, want beside database", jsonPath)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []types.ArchiveRecord
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("parsing export.json: %v", err)
	}
	if len(fromJSON) != 1 || fromJSON[0].ArchivePath != "/root/archive/resumes/Resume_a.pdf" {
		t.Errorf("export.json = %+v", fromJSON)
	}
}

func TestExportEmpty(t *testing.T) {
	store := testStore(t)
	path, err := store.ExportJSON(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty export = %q, want []", data)
	}
}
