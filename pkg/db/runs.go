package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one download run recorded in the ledger.
type Run struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      sql.NullTime
	Manifest        string
	OutRoot         string
	Downloaded      int
	SkippedTracker  int
	SkippedExisting int
	Failed          int
	TotalBytes      int64
}

// Resource is one manifest entry's outcome within a run.
type Resource struct {
	ResourceID   int64
	RunID        string
	URL          string
	LocalPath    string
	Status       string
	HTTPStatus   int
	SizeBytes    int64
	ContentHash  string
	ErrorType    string
	ErrorMessage string
}

// InsertRun records the start of a run.
func (db *DB) InsertRun(runID, manifestPath, outRoot string, startedAt time.Time) error {
	_, err := db.Exec(
		"INSERT INTO runs (run_id, started_at, manifest, out_root) VALUES (?, ?, ?, ?)",
		runID, startedAt, manifestPath, outRoot,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun records the end of a run with its final counters.
func (db *DB) FinishRun(runID string, finishedAt time.Time, downloaded, skippedTracker, skippedExisting, failed int, totalBytes int64) error {
	_, err := db.Exec(
		`UPDATE runs SET finished_at = ?, downloaded = ?, skipped_tracker = ?,
		 skipped_existing = ?, failed = ?, total_bytes = ? WHERE run_id = ?`,
		finishedAt, downloaded, skippedTracker, skippedExisting, failed, totalBytes, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertResource records one entry's outcome for a run.
func (db *DB) InsertResource(r Resource) error {
	_, err := db.Exec(
		`INSERT INTO resources (run_id, url, local_path, status, http_status,
		 size_bytes, content_hash, error_type, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.URL, r.LocalPath, r.Status, r.HTTPStatus,
		r.SizeBytes, r.ContentHash, r.ErrorType, r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT run_id, started_at, finished_at, manifest, out_root,
		 downloaded, skipped_tracker, skipped_existing, failed, total_bytes
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.Manifest, &r.OutRoot,
			&r.Downloaded, &r.SkippedTracker, &r.SkippedExisting, &r.Failed, &r.TotalBytes); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id.
func (db *DB) GetRun(runID string) (*Run, error) {
	var r Run
	err := db.QueryRow(
		`SELECT run_id, started_at, finished_at, manifest, out_root,
		 downloaded, skipped_tracker, skipped_existing, failed, total_bytes
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.Manifest, &r.OutRoot,
		&r.Downloaded, &r.SkippedTracker, &r.SkippedExisting, &r.Failed, &r.TotalBytes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// GetRunResources returns a run's resource rows in insertion order.
func (db *DB) GetRunResources(runID string) ([]Resource, error) {
	rows, err := db.Query(
		`SELECT resource_id, run_id, url, local_path, status, http_status,
		 size_bytes, content_hash, error_type, error_message
		 FROM resources WHERE run_id = ? ORDER BY resource_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ResourceID, &r.RunID, &r.URL, &r.LocalPath, &r.Status,
			&r.HTTPStatus, &r.SizeBytes, &r.ContentHash, &r.ErrorType, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}
