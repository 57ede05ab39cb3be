// Package manifest loads and saves the capture manifest: a JSON list of
// resources to fetch, each with a URL and optional path/type hints.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"offliner/internal/common"
)

// ErrInvalid is wrapped by every manifest load failure so callers can
// distinguish manifest problems from IO or network errors.
var ErrInvalid = errors.New("invalid manifest")

// Entry is one resource in the manifest.
type Entry struct {
	URL  string `json:"url"`
	Path string `json:"path,omitempty"`
	Type string `json:"type,omitempty"`
}

// Load reads a manifest file and returns its entries in file order.
// URLs are sanitized (whitespace, stray punctuation) before validation;
// a duplicate URL keeps only its first occurrence.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalid, path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON list of resources: %v", ErrInvalid, path, err)
	}

	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if e.URL == "" {
			return nil, fmt.Errorf("%w: entry %d has no url field", ErrInvalid, i)
		}
		e.URL = common.SanitizeURL(e.URL)
		if err := common.ValidateURL(e.URL); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalid, i, err)
		}
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		out = append(out, e)
	}
	return out, nil
}

// Save writes entries as an indented JSON list, creating parent
// directories as needed.
func Save(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
