package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elonfeng/shareradar/pkg/source"
)

func testDB(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []source.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return []source.Record{
		{ID: "t1", Weight: 2, Author: "alice", Text: "great read", PostedAt: now.Add(-time.Hour), CollectedAt: now},
		{ID: "t2", Weight: 0, Author: "bob", Text: "sharing this", PostedAt: now.Add(-30 * time.Minute), CollectedAt: now},
	}
}

func TestOpenEnablesWAL(t *testing.T) {
	db := testDB(t)

	var mode string
	if err := db.db.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("expected WAL journal mode, got %q", mode)
	}

	var timeout int
	if err := db.db.Get(&timeout, "PRAGMA busy_timeout"); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("expected 5000ms busy timeout, got %d", timeout)
	}
}

func TestHistoryEmptyKeyIsFresh(t *testing.T) {
	db := testDB(t)

	history, err := db.History(context.Background(), "https://example.com/none")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}

	score, err := db.LastAlertedScore(context.Background(), "https://example.com/none")
	if err != nil {
		t.Fatalf("last alerted: %v", err)
	}
	if score != 0 {
		t.Errorf("expected zero baseline for unknown key, got %d", score)
	}
}

func TestSaveHistoryKeepsFirstSeen(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	key := "https://example.com/a"

	if err := db.SaveHistory(ctx, key, sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Re-saving the same IDs with different weights must not replace the
	// stored representatives.
	changed := sampleRecords()
	changed[0].Weight = 99
	if err := db.SaveHistory(ctx, key, changed); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	history, err := db.History(ctx, key)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	for _, r := range history {
		if r.ID == "t1" && r.Weight != 2 {
			t.Errorf("first-seen weight replaced: got %d", r.Weight)
		}
	}
}

func TestHistoryIsPerKey(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveHistory(ctx, "https://example.com/a", sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveHistory(ctx, "https://example.com/b", sampleRecords()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}

	a, _ := db.History(ctx, "https://example.com/a")
	b, _ := db.History(ctx, "https://example.com/b")
	if len(a) != 2 || len(b) != 1 {
		t.Errorf("expected 2 and 1 records, got %d and %d", len(a), len(b))
	}
}

func TestCommitAlertScore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	key := "https://example.com/a"

	if err := db.CommitAlertScore(ctx, key, 4); err != nil {
		t.Fatalf("commit: %v", err)
	}
	score, err := db.LastAlertedScore(ctx, key)
	if err != nil {
		t.Fatalf("last alerted: %v", err)
	}
	if score != 4 {
		t.Errorf("expected 4, got %d", score)
	}

	// Commit again with a higher score: upsert, not insert.
	if err := db.CommitAlertScore(ctx, key, 9); err != nil {
		t.Fatalf("re-commit: %v", err)
	}
	score, _ = db.LastAlertedScore(ctx, key)
	if score != 9 {
		t.Errorf("expected 9, got %d", score)
	}
}

func TestArticleStates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.SaveHistory(ctx, "https://example.com/a", sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.CommitAlertScore(ctx, "https://example.com/a", 4); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := db.SaveHistory(ctx, "https://example.com/b", sampleRecords()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}

	states, err := db.ArticleStates(ctx)
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}

	// Ordered by score descending: a (2 records + weights 2) first.
	if states[0].Key != "https://example.com/a" {
		t.Errorf("expected a first, got %s", states[0].Key)
	}
	if states[0].Score != 4 || states[0].Records != 2 {
		t.Errorf("unexpected state for a: %+v", states[0])
	}
	if states[0].LastAlertedScore != 4 || states[0].LastAlertedAt == nil {
		t.Errorf("expected alert state for a: %+v", states[0])
	}
	if states[1].LastAlertedScore != 0 || states[1].LastAlertedAt != nil {
		t.Errorf("expected no alert state for b: %+v", states[1])
	}
}
