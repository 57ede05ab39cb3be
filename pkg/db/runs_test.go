package db

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return db
}

func TestInsertAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	started := time.Now()
	if err := db.InsertRun("run-1", "manifest.json", "./local_www", started); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.FinishRun("run-1", started.Add(time.Second), 5, 1, 2, 1, 4096); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Downloaded != 5 {
		t.Errorf("run.Downloaded = %d, want 5", run.Downloaded)
	}
	if run.Failed != 1 {
		t.Errorf("run.Failed = %d, want 1", run.Failed)
	}
	if run.TotalBytes != 4096 {
		t.Errorf("run.TotalBytes = %d, want 4096", run.TotalBytes)
	}
	if !run.FinishedAt.Valid {
		t.Error("run.FinishedAt not set after FinishRun")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun("nope"); err == nil {
		t.Error("GetRun() error = nil for unknown run, want error")
	}
}

func TestInsertAndGetResources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.InsertRun("run-1", "m.json", "out", time.Now()); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	resources := []Resource{
		{RunID: "run-1", URL: "https://example.com/a.css", LocalPath: "example.com/a.css", Status: "downloaded", HTTPStatus: 200, SizeBytes: 10, ContentHash: "abc"},
		{RunID: "run-1", URL: "https://example.com/b.js", Status: "failed", HTTPStatus: 500, ErrorType: "http_error", ErrorMessage: "unexpected status code 500"},
	}
	for _, r := range resources {
		if err := db.InsertResource(r); err != nil {
			t.Fatalf("InsertResource() error = %v", err)
		}
	}

	got, err := db.GetRunResources("run-1")
	if err != nil {
		t.Fatalf("GetRunResources() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(resources) = %d, want 2", len(got))
	}
	if got[0].URL != "https://example.com/a.css" || got[0].Status != "downloaded" {
		t.Errorf("resources[0] = %+v", got[0])
	}
	if got[1].ErrorType != "http_error" {
		t.Errorf("resources[1].ErrorType = %q, want http_error", got[1].ErrorType)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		if err := db.InsertRun(id, "m.json", "out", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("InsertRun(%s) error = %v", id, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].RunID != "new" || runs[1].RunID != "mid" {
		t.Errorf("runs order = [%s, %s], want [new, mid]", runs[0].RunID, runs[1].RunID)
	}
}
