// Package storage writes captured resources under a single output root,
// creating parent directories as needed and refusing paths that would
// escape the root.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Storage struct {
	root string
}

// New creates the root directory if missing and returns a store confined
// to it.
func New(root string) (*Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("error creating root %s: %w", abs, err)
	}
	return &Storage{root: abs}, nil
}

// Root returns the absolute output root.
func (s *Storage) Root() string {
	return s.root
}

// resolve maps a slash-separated relative path to an absolute path under
// the root, rejecting escapes.
func (s *Storage) resolve(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", rel)
	}
	return full, nil
}

func (s *Storage) SaveFile(rel string, content []byte) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("error creating parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("error saving file %s: %w", rel, err)
	}
	return nil
}

func (s *Storage) ReadFile(rel string) ([]byte, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", rel, err)
	}
	return data, nil
}

func (s *Storage) HasFile(rel string) bool {
	full, err := s.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// FileSize returns the on-disk size of a stored file.
func (s *Storage) FileSize(rel string) (int64, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, fmt.Errorf("error getting file stats for %s: %w", rel, err)
	}
	return info.Size(), nil
}
