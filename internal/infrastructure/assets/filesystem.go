// Package assets stores branding images (logo, signature) on the local
// filesystem. Paths persisted in the branding record are relative to the
// store root, so the root can move without rewriting the database.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for empty or traversal paths.
var ErrInvalidPath = errors.New("assets: invalid path")

// FilesystemStore reads and writes asset files under a single root directory.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates the root directory if needed and returns a store.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("assets: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("assets: failed to create root %s: %w", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

// Load reads the asset at the given relative path.
func (s *FilesystemStore) Load(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to read %s: %w", path, err)
	}
	return data, nil
}

// Save writes the asset at the given relative path, replacing any existing
// file. Returns the stored relative path.
func (s *FilesystemStore) Save(_ context.Context, path string, data []byte) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("assets: failed to create directory for %s: %w", path, err)
	}

	// Write to a temp file first so a crash mid-write never leaves a
	// truncated image behind the stored path.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("assets: failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("assets: failed to store %s: %w", path, err)
	}
	return path, nil
}

// resolve joins the relative path with the root and rejects traversal.
func (s *FilesystemStore) resolve(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath
	}

	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return filepath.Join(s.root, clean), nil
}
