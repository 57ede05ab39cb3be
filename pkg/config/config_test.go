package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 30s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxAttempts != 3 {
		t.Errorf("Fetch.MaxAttempts = %d, want 3", c.Fetch.MaxAttempts)
	}
	if c.Fetch.Backoff != 500*time.Millisecond {
		t.Errorf("Fetch.Backoff = %v, want 500ms", c.Fetch.Backoff)
	}
	if len(c.Blocklist) == 0 {
		t.Error("Blocklist is empty, want default patterns")
	}
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
blocklist:
  - ads.internal
fetch:
  max_attempts: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(c.Blocklist) != 1 || c.Blocklist[0] != "ads.internal" {
		t.Errorf("Blocklist = %v, want [ads.internal]", c.Blocklist)
	}
	if c.Fetch.MaxAttempts != 5 {
		t.Errorf("Fetch.MaxAttempts = %d, want 5", c.Fetch.MaxAttempts)
	}
	if c.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v, want default 30s", c.Fetch.Timeout)
	}
	if c.Fetch.UserAgent == "" {
		t.Error("Fetch.UserAgent empty, want default")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() missing file error = nil, want error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fetch: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() malformed YAML error = nil, want error")
	}
}
