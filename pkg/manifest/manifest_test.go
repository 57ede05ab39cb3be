package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `[
		{"url": "https://example.com/app.js", "type": "application/javascript"},
		{"url": "https://example.com/", "path": "index.html"}
	]`)

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].URL != "https://example.com/app.js" {
		t.Errorf("entries[0].URL = %q, want %q", entries[0].URL, "https://example.com/app.js")
	}
	if entries[0].Type != "application/javascript" {
		t.Errorf("entries[0].Type = %q, want %q", entries[0].Type, "application/javascript")
	}
	if entries[1].Path != "index.html" {
		t.Errorf("entries[1].Path = %q, want %q", entries[1].Path, "index.html")
	}
}

func TestLoad_SanitizesURLs(t *testing.T) {
	path := writeManifest(t, `[{"url": " https://example.com/page, "}]`)

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if entries[0].URL != "https://example.com/page" {
		t.Errorf("entries[0].URL = %q, want sanitized URL", entries[0].URL)
	}
}

func TestLoad_DeduplicatesFirstWins(t *testing.T) {
	path := writeManifest(t, `[
		{"url": "https://example.com/a.css", "type": "text/css"},
		{"url": "https://example.com/b.js"},
		{"url": "https://example.com/a.css", "type": "text/plain"}
	]`)

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Type != "text/css" {
		t.Errorf("first occurrence should win, got Type = %q", entries[0].Type)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"not a list", `{"url": "https://example.com"}`},
		{"missing url", `[{"path": "index.html"}]`},
		{"bad scheme", `[{"url": "ftp://example.com/file"}]`},
		{"empty url", `[{"url": ""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error does not wrap ErrInvalid: %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("missing file error does not wrap ErrInvalid: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := []Entry{
		{URL: "https://example.com/style.css", Path: "example.com/style.css", Type: "text/css"},
		{URL: "https://example.com/"},
	}

	if err := Save(path, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}
