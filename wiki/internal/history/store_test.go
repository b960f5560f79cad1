package history

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreRecordAndRecent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "history", "fetch.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	store.RecordAsync(&Entry{Op: "search", Key: "strawberry", Status: "ok", DurationMs: 12, Timestamp: 100})
	store.RecordAsync(&Entry{Op: "page", Key: "Strawberry", Status: "ok", DurationMs: 40, Timestamp: 200})
	store.RecordAsync(&Entry{Op: "page", Key: "Strawbery", Status: "not_found", Error: "page not found", Timestamp: 300})

	// Close drains the buffer, so everything queued is visible afterwards.
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Key != "Strawbery" || entries[2].Key != "strawberry" {
		t.Errorf("entries not newest-first: %q ... %q", entries[0].Key, entries[2].Key)
	}
	if entries[0].Status != "not_found" || entries[0].Error == "" {
		t.Errorf("failure entry = %+v, want status and error preserved", entries[0])
	}
	if entries[1].DurationMs != 40 {
		t.Errorf("duration = %d, want 40", entries[1].DurationMs)
	}
}

func TestStoreRecentLimit(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fetch.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for i := range 5 {
		store.RecordAsync(&Entry{Op: "search", Key: "q", Status: "ok", Timestamp: int64(i)})
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Timestamp != 4 {
		t.Errorf("first entry timestamp = %d, want newest (4)", entries[0].Timestamp)
	}
}
