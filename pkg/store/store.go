// Package store defines the storage contract shared by every backend.
//
// A Store exposes a hierarchical view (files, directories, parent/child
// paths) over some medium. Two realizations live in sub-packages:
//   - local: a rooted directory tree on disk
//   - objectstore: a flat bucket of keys with emulated directories
//
// The package also owns the pieces that must behave identically across
// backends: path validation and normalization, the FileMetadata record,
// listing filters, and the error taxonomy.
package store

import (
	"context"
	"io"
)

// Kind identifies a backend realization.
type Kind string

const (
	// KindLocal is the on-disk directory tree backend
	KindLocal Kind = "local"

	// KindObjectStore is the flat key object store backend
	KindObjectStore Kind = "objectstore"
)

// ============================================================================
// Store Interface
// ============================================================================

// Store is the storage contract.
//
// Paths are relative, forward-slash separated, and already validated by
// the caller (see ValidatePath). Backends re-check containment on their own
// and never let a path escape their root.
//
// Operations are synchronous and blocking. The store adds no locking and no
// cross-operation ordering: concurrent callers racing on the same path get
// whatever the medium gives them.
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// ========================================================================
	// Creation
	// ========================================================================

	// CreateFile creates an empty file at path.
	//
	// Returns:
	//   - FileMetadata: fresh metadata of the new file
	//   - error: ErrAlreadyExists if path exists, or storage errors
	CreateFile(ctx context.Context, path string) (FileMetadata, error)

	// CreateDirectory creates a directory at path (and its parents where the
	// medium has real directories). Creating an existing directory succeeds.
	CreateDirectory(ctx context.Context, path string) (FileMetadata, error)

	// ========================================================================
	// Content Streams
	// ========================================================================

	// ReadFile opens path for reading.
	//
	// The caller must close the returned reader on every exit path.
	//
	// Returns:
	//   - io.ReadCloser: content stream
	//   - error: ErrNotFound if path doesn't exist, ErrIsDirectory for directories
	ReadFile(ctx context.Context, path string) (io.ReadCloser, error)

	// WriteFile opens path for writing, creating or truncating it.
	//
	// Closing the writer finalizes the content. Some backends only transmit
	// the content on Close (see objectstore), so the error returned by Close
	// must be checked: it is the write's result.
	WriteFile(ctx context.Context, path string) (io.WriteCloser, error)

	// AppendFile opens path for appending, creating it if absent.
	//
	// Returns ErrNotSupported on backends without an append primitive.
	AppendFile(ctx context.Context, path string) (io.WriteCloser, error)

	// ========================================================================
	// Namespace Changes
	// ========================================================================

	// Move relocates src to dst, replacing dst if it exists.
	//
	// Atomicity depends on the medium: a local rename is atomic, an object
	// store copy-then-delete is not.
	//
	// Returns:
	//   - FileMetadata: metadata at dst
	//   - error: ErrNotFound if src doesn't exist, or storage errors
	Move(ctx context.Context, src, dst string) (FileMetadata, error)

	// Rename changes the final segment of path to newName, keeping it in the
	// same parent (computed textually, see ParentPrefix).
	Rename(ctx context.Context, path, newName string) (FileMetadata, error)

	// Delete removes path. Directories are removed with their contents.
	//
	// Returns ErrNotFound if path doesn't exist.
	Delete(ctx context.Context, path string) error

	// ========================================================================
	// Queries
	// ========================================================================

	// List returns the immediate children of dir passing filter.
	//
	// A missing dir yields an empty slice, not an error. An existing
	// non-directory yields ErrNotDirectory. No ordering is guaranteed.
	List(ctx context.Context, dir string, filter Filter) ([]FileMetadata, error)

	// ListRecursive returns every descendant of dir passing filter, never
	// dir itself. Same missing/non-directory rules as List.
	ListRecursive(ctx context.Context, dir string, filter Filter) ([]FileMetadata, error)

	// GetMetadata returns a fresh snapshot of path.
	//
	// Returns ErrNotFound if path doesn't exist.
	GetMetadata(ctx context.Context, path string) (FileMetadata, error)

	// IsHealthy probes the medium on demand. Any failure reports false.
	IsHealthy(ctx context.Context) bool
}
