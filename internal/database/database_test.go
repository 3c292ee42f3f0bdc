package database

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *RemovalDB {
	t.Helper()
	db, err := NewRemovalDB(filepath.Join(t.TempDir(), "removals.db"))
	if err != nil {
		t.Fatalf("NewRemovalDB: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestRecordAndQueryRemovals(t *testing.T) {
	db := openTestDB(t)

	records := []RemovalRecord{
		{Action: ActionRemove, Path: "/tmp/a", ObjectType: "file", FilesRemoved: 1},
		{Action: ActionRemove, Path: "/tmp/tree", ObjectType: "directory", FilesRemoved: 3, DirsRemoved: 2, Retries: 1},
		{Action: ActionError, Path: "/tmp/locked", ObjectType: "file", Code: "EBUSY", ErrorMessage: "device or resource busy"},
		{Action: ActionSkip, Path: "/etc", ObjectType: "directory", ErrorMessage: "protected path"},
	}
	for _, rec := range records {
		if err := db.RecordRemoval(rec); err != nil {
			t.Fatalf("RecordRemoval(%s): %v", rec.Path, err)
		}
	}

	recent, err := db.GetRecentRemovals(10)
	if err != nil {
		t.Fatalf("GetRecentRemovals: %v", err)
	}
	if len(recent) != len(records) {
		t.Fatalf("recent = %d records, want %d", len(recent), len(records))
	}

	errored, err := db.GetRemovalsByAction(ActionError)
	if err != nil {
		t.Fatalf("GetRemovalsByAction: %v", err)
	}
	if len(errored) != 1 || errored[0].Code != "EBUSY" {
		t.Errorf("errored = %+v", errored)
	}

	busy, err := db.GetRemovalsByCode("EBUSY")
	if err != nil {
		t.Fatalf("GetRemovalsByCode: %v", err)
	}
	if len(busy) != 1 || busy[0].Path != "/tmp/locked" {
		t.Errorf("busy = %+v", busy)
	}

	tmp, err := db.GetRemovalsByPath("/tmp/%")
	if err != nil {
		t.Fatalf("GetRemovalsByPath: %v", err)
	}
	if len(tmp) != 3 {
		t.Errorf("path match = %d records, want 3", len(tmp))
	}
}

func TestRemovalStats(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC()
	seed := []RemovalRecord{
		{Timestamp: now, Action: ActionRemove, Path: "/tmp/a", ObjectType: "file", FilesRemoved: 2, DirsRemoved: 1, Retries: 3, Repairs: 1},
		{Timestamp: now, Action: ActionError, Path: "/tmp/b", ObjectType: "file", Code: "EPERM"},
		{Timestamp: now, Action: ActionSkip, Path: "/etc", ObjectType: "directory"},
		// Outside the window; must not be counted
		{Timestamp: now.AddDate(0, 0, -40), Action: ActionRemove, Path: "/tmp/old", ObjectType: "file", FilesRemoved: 5},
	}
	for _, rec := range seed {
		if err := db.RecordRemoval(rec); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := db.GetRemovalStats(30)
	if err != nil {
		t.Fatalf("GetRemovalStats: %v", err)
	}
	if stats.TotalRemovals != 1 || stats.TotalErrors != 1 || stats.TotalSkipped != 1 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.FilesRemoved != 2 || stats.DirsRemoved != 1 {
		t.Errorf("entry counts = %+v", stats)
	}
	if stats.TotalRetries != 3 || stats.TotalRepairs != 1 {
		t.Errorf("retry counts = %+v", stats)
	}
	if stats.ByCode["EPERM"] != 1 {
		t.Errorf("ByCode = %+v", stats.ByCode)
	}
	if stats.ByAction[ActionRemove] != 1 {
		t.Errorf("ByAction = %+v", stats.ByAction)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "removals.db")
	for i := 0; i < 2; i++ {
		db, err := NewRemovalDB(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}
