// Package facade is the single entry point callers use to reach storage.
//
// A Filesystem carries the kind of the active backend plus the concrete
// backend of that kind, and dispatches every operation on the kind. Callers
// never see which backend serves them; they get store.FileMetadata values
// and errors carrying a store.ErrorCode.
//
// The facade owns the cross-cutting work both backends share:
//   - path validation before any backend is touched
//   - operation metrics and stream byte counting
//   - DEBUG logging of each operation, WARN on failures
package facade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/store"
	"github.com/marmos91/fshandler/pkg/store/local"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
)

// Options configures a Filesystem.
type Options struct {
	// Metrics receives operation metrics. nil disables collection.
	Metrics Metrics
}

// Filesystem dispatches storage operations to the configured backend.
//
// Thread Safety:
// Safe for concurrent use; all state is fixed at construction and the
// backends are themselves safe for concurrent use.
type Filesystem struct {
	kind    store.Kind
	local   *local.Store
	object  *objectstore.Store
	metrics Metrics
}

var _ store.Store = (*Filesystem)(nil)

// NewLocal returns a Filesystem served by the local backend.
func NewLocal(s *local.Store, opts Options) *Filesystem {
	return &Filesystem{kind: store.KindLocal, local: s, metrics: metricsOrNoop(opts.Metrics)}
}

// NewObjectStore returns a Filesystem served by the object store backend.
func NewObjectStore(s *objectstore.Store, opts Options) *Filesystem {
	return &Filesystem{kind: store.KindObjectStore, object: s, metrics: metricsOrNoop(opts.Metrics)}
}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// Kind returns the kind of the active backend.
func (f *Filesystem) Kind() store.Kind {
	return f.kind
}

// Close releases the backend. The object store drops its client; the local
// backend holds nothing to release.
func (f *Filesystem) Close() error {
	switch f.kind {
	case store.KindObjectStore:
		if f.object == nil {
			return nil
		}
		return f.object.Close()
	default:
		return nil
	}
}

// backend selects the concrete backend for the configured kind.
func (f *Filesystem) backend() (store.Store, error) {
	switch f.kind {
	case store.KindLocal:
		if f.local != nil {
			return f.local, nil
		}
	case store.KindObjectStore:
		if f.object != nil {
			return f.object, nil
		}
	}
	return nil, store.NewError(store.ErrStorageFailure, fmt.Sprintf("no backend configured for kind %q", f.kind), "", nil)
}

// track records metrics and logs the outcome of an operation.
// Call as: defer f.track("op", path, time.Now(), &err)
func (f *Filesystem) track(operation, path string, start time.Time, errp *error) {
	duration := time.Since(start)
	err := *errp
	f.metrics.ObserveOperation(string(f.kind), operation, duration, err)

	if err != nil {
		logger.Warn("%s %s on %s failed after %v: %v", operation, path, f.kind, duration, err)
		return
	}
	logger.Debug("%s %s on %s completed in %v", operation, path, f.kind, duration)
}

// ============================================================================
// Creation
// ============================================================================

// CreateFile creates an empty file at path.
func (f *Filesystem) CreateFile(ctx context.Context, path string) (meta store.FileMetadata, err error) {
	defer f.track("create_file", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return store.FileMetadata{}, err
	}
	b, err := f.backend()
	if err != nil {
		return store.FileMetadata{}, err
	}
	return b.CreateFile(ctx, path)
}

// CreateDirectory creates a directory at path.
func (f *Filesystem) CreateDirectory(ctx context.Context, path string) (meta store.FileMetadata, err error) {
	defer f.track("create_directory", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return store.FileMetadata{}, err
	}
	b, err := f.backend()
	if err != nil {
		return store.FileMetadata{}, err
	}
	return b.CreateDirectory(ctx, path)
}

// ============================================================================
// Content Streams
// ============================================================================

// ReadFile opens path for reading. Bytes read are counted on Close.
func (f *Filesystem) ReadFile(ctx context.Context, path string) (r io.ReadCloser, err error) {
	defer f.track("read_file", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return nil, err
	}
	b, err := f.backend()
	if err != nil {
		return nil, err
	}

	r, err = b.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &meteredReader{ReadCloser: r, metrics: f.metrics, backend: string(f.kind)}, nil
}

// WriteFile opens path for writing. The error returned by Close is the
// result of the write and must be checked.
func (f *Filesystem) WriteFile(ctx context.Context, path string) (w io.WriteCloser, err error) {
	defer f.track("write_file", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return nil, err
	}
	b, err := f.backend()
	if err != nil {
		return nil, err
	}

	w, err = b.WriteFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &meteredWriter{WriteCloser: w, metrics: f.metrics, backend: string(f.kind)}, nil
}

// AppendFile opens path for appending. Fails with ErrNotSupported on the
// object store.
func (f *Filesystem) AppendFile(ctx context.Context, path string) (w io.WriteCloser, err error) {
	defer f.track("append_file", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return nil, err
	}
	b, err := f.backend()
	if err != nil {
		return nil, err
	}

	w, err = b.AppendFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &meteredWriter{WriteCloser: w, metrics: f.metrics, backend: string(f.kind)}, nil
}

// ============================================================================
// Namespace Changes
// ============================================================================

// Move relocates src to dst.
func (f *Filesystem) Move(ctx context.Context, src, dst string) (meta store.FileMetadata, err error) {
	defer f.track("move", src+" -> "+dst, time.Now(), &err)

	if err = store.ValidatePath(src); err != nil {
		return store.FileMetadata{}, err
	}
	if err = store.ValidatePath(dst); err != nil {
		return store.FileMetadata{}, err
	}
	b, err := f.backend()
	if err != nil {
		return store.FileMetadata{}, err
	}
	return b.Move(ctx, src, dst)
}

// Rename changes the final segment of path to newName.
func (f *Filesystem) Rename(ctx context.Context, path, newName string) (meta store.FileMetadata, err error) {
	defer f.track("rename", path+" -> "+newName, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return store.FileMetadata{}, err
	}
	if err = store.ValidateNewName(newName); err != nil {
		return store.FileMetadata{}, err
	}
	b, err := f.backend()
	if err != nil {
		return store.FileMetadata{}, err
	}
	return b.Rename(ctx, path, newName)
}

// Delete removes path.
func (f *Filesystem) Delete(ctx context.Context, path string) (err error) {
	defer f.track("delete", path, time.Now(), &err)

	if err = store.ValidatePath(path); err != nil {
		return err
	}
	b, err := f.backend()
	if err != nil {
		return err
	}
	return b.Delete(ctx, path)
}

// ============================================================================
// Queries
// ============================================================================

// List returns the immediate children of dir passing filter.
func (f *Filesystem) List(ctx context.Context, dir string, filter store.Filter) (entries []store.FileMetadata, err error) {
	defer f.track("list", dir, time.Now(), &err)

	if err = store.ValidateOptionalPath(dir); err != nil {
		return nil, err
	}
	b, err := f.backend()
	if err != nil {
		return nil, err
	}
	return b.List(ctx, dir, filter)
}

// ListRecursive returns every descendant of dir passing filter.
func (f *Filesystem) ListRecursive(ctx context.Context, dir string, filter store.Filter) (entries []store.FileMetadata, err error) {
	defer f.track("list_recursive", dir, time.Now(), &err)

	if err = store.ValidateOptionalPath(dir); err != nil {
		return nil, err
	}
	b, err := f.backend()
	if err != nil {
		return nil, err
	}
	return b.ListRecursive(ctx, dir, filter)
}

// GetMetadata returns a fresh snapshot of path.
func (f *Filesystem) GetMetadata(ctx context.Context, path string) (meta store.FileMetadata, err error) {
	defer f.track("get_metadata", path, time.Now(), &err)

	if err = store.ValidateOptionalPath(path); err != nil {
		return store.FileMetadata{}, err
	}
	b, err := f.backend()
	if err != nil {
		return store.FileMetadata{}, err
	}
	return b.GetMetadata(ctx, path)
}

// IsHealthy probes the backend and records the result.
func (f *Filesystem) IsHealthy(ctx context.Context) bool {
	start := time.Now()

	healthy := false
	if b, err := f.backend(); err == nil {
		healthy = b.IsHealthy(ctx)
	}

	var err error
	if !healthy {
		err = errUnhealthy
	}
	f.metrics.ObserveOperation(string(f.kind), "is_healthy", time.Since(start), err)
	f.metrics.SetHealthy(string(f.kind), healthy)

	logger.Debug("is_healthy on %s: %v", f.kind, healthy)
	return healthy
}

var errUnhealthy = errors.New("backend unhealthy")
