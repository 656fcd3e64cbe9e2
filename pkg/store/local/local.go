// Package local implements the storage contract over a rooted directory tree.
//
// This file contains the store type, constructor, path resolution with the
// containment check, metadata mapping, and the health probe.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/store"
)

// Store implements store.Store on the local filesystem.
//
// Every caller path is resolved below root. Directories map to real
// directories, so listing, moving and deleting are direct filesystem calls.
//
// Thread Safety:
// Safe for concurrent use. The filesystem provides per-call atomicity only;
// concurrent writers to the same path race.
type Store struct {
	root string
}

var _ store.Store = (*Store)(nil)

// New creates a local store rooted at root.
//
// The root is made absolute and created with permissions 0755 if absent.
//
// Parameters:
//   - ctx: Context for cancellation
//   - root: Root directory for all stored files
//
// Returns:
//   - *Store: Initialized store
//   - error: Returns error if root is empty or cannot be created
func New(ctx context.Context, root string) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if root == "" {
		return nil, fmt.Errorf("local store: root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}

	logger.Info("Local store initialized: root=%s", abs)

	return &Store{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a relative path to an absolute location inside root.
//
// "" and "." map to root. The result is checked with filepath.Rel so that no
// path, validated or not, resolves outside root.
func (s *Store) resolve(p string) (string, error) {
	clean := store.CleanPath(p)
	if clean == "" {
		return s.root, nil
	}

	abs := filepath.Join(s.root, filepath.FromSlash(clean))

	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", store.NewError(store.ErrInvalidPath, "path escapes root", p, err)
	}

	return abs, nil
}

// metadataFor builds the metadata record for an already-resolved location.
func (s *Store) metadataFor(rel, abs string, info fs.FileInfo) store.FileMetadata {
	modified := info.ModTime()
	created := birthTime(abs, info)

	if info.IsDir() {
		return store.NewDirectoryMetadata(rel, created, modified)
	}
	return store.NewFileMetadata(rel, info.Size(), created, modified)
}

// stat resolves p and returns its metadata.
func (s *Store) stat(p string) (store.FileMetadata, error) {
	abs, err := s.resolve(p)
	if err != nil {
		return store.FileMetadata{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return store.FileMetadata{}, mapError("stat failed", p, err)
	}

	return s.metadataFor(p, abs, info), nil
}

// GetMetadata returns a fresh snapshot of path.
func (s *Store) GetMetadata(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return store.FileMetadata{}, err
	}
	return s.stat(path)
}

// IsHealthy reports whether root exists, is a directory, and is readable
// and writable by this process.
func (s *Store) IsHealthy(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	info, err := os.Stat(s.root)
	if err != nil {
		logger.Debug("Local health check: stat %s: %v", s.root, err)
		return false
	}
	if !info.IsDir() {
		logger.Debug("Local health check: %s is not a directory", s.root)
		return false
	}

	if err := checkAccess(s.root); err != nil {
		logger.Debug("Local health check: %s not accessible: %v", s.root, err)
		return false
	}

	return true
}

// mapError converts an os error into a StoreError with the matching code.
func mapError(message, p string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return store.NewError(store.ErrNotFound, message, p, err)
	case errors.Is(err, fs.ErrExist):
		return store.NewError(store.ErrAlreadyExists, message, p, err)
	default:
		return store.NewError(store.ErrStorageFailure, message, p, err)
	}
}
