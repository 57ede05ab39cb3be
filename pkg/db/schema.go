package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs table: one row per download run
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    manifest TEXT NOT NULL,
    out_root TEXT NOT NULL,

    -- Outcome counters, filled when the run finishes
    downloaded INTEGER DEFAULT 0,
    skipped_tracker INTEGER DEFAULT 0,
    skipped_existing INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0,
    total_bytes INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Resources table: one row per manifest entry per run
CREATE TABLE IF NOT EXISTS resources (
    resource_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    url TEXT NOT NULL,
    local_path TEXT,
    status TEXT NOT NULL,          -- downloaded, skipped-tracker, skipped-existing, failed
    http_status INTEGER DEFAULT 0,
    size_bytes INTEGER DEFAULT 0,
    content_hash TEXT,
    error_type TEXT,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_resources_run ON resources(run_id);
CREATE INDEX IF NOT EXISTS idx_resources_status ON resources(status);
`
