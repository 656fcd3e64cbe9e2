package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/marmos91/fshandler/pkg/store"
)

// CreateFile puts a zero-length object at path.
//
// The existence check and the put are two calls, so a concurrent creator
// can still win the race.
func (s *Store) CreateFile(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return store.FileMetadata{}, err
	}

	key, err := objectKey(path)
	if err != nil {
		return store.FileMetadata{}, err
	}

	for _, probe := range []string{key, key + "/"} {
		found, err := s.exists(ctx, probe)
		if err != nil {
			return store.FileMetadata{}, mapClientError("failed to check object", path, err)
		}
		if found {
			return store.FileMetadata{}, store.NewError(store.ErrAlreadyExists, "object already exists", path, nil)
		}
	}

	if err := s.client.PutObject(ctx, key, nil); err != nil {
		return store.FileMetadata{}, mapClientError("failed to create object", path, err)
	}

	return s.GetMetadata(ctx, key)
}

// CreateDirectory puts the zero-byte marker "path/".
//
// The returned path is marker-stripped. Creating an existing directory
// rewrites its marker and succeeds.
func (s *Store) CreateDirectory(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return store.FileMetadata{}, err
	}

	key, err := objectKey(path)
	if err != nil {
		return store.FileMetadata{}, err
	}

	found, err := s.exists(ctx, key)
	if err != nil {
		return store.FileMetadata{}, mapClientError("failed to check object", path, err)
	}
	if found {
		return store.FileMetadata{}, store.NewError(store.ErrAlreadyExists, "a file exists at this path", path, nil)
	}

	marker := key + "/"
	if err := s.client.PutObject(ctx, marker, nil); err != nil {
		return store.FileMetadata{}, mapClientError("failed to create directory marker", path, err)
	}

	info, err := s.client.HeadObject(ctx, marker)
	if err != nil {
		return store.FileMetadata{}, mapClientError("failed to stat directory marker", path, err)
	}
	return objectMetadata(info), nil
}

// ReadFile streams the object at path.
func (s *Store) ReadFile(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	key, err := objectKey(path)
	if err != nil {
		return nil, err
	}

	body, err := s.client.GetObject(ctx, key)
	if err == nil {
		return body, nil
	}

	if errors.Is(err, ErrNoSuchKey) {
		if isDir, _ := s.exists(ctx, key+"/"); isDir {
			return nil, store.NewError(store.ErrIsDirectory, "cannot read a directory", path, nil)
		}
	}
	return nil, mapClientError("failed to read object", path, err)
}

// WriteFile returns a writer that buffers the whole content in memory and
// uploads it when closed.
//
// Nothing reaches the bucket before Close, and the upload error (if any)
// is returned by Close. File size is therefore bounded by available memory.
// If ctx is cancelled before Close, the buffer is discarded.
func (s *Store) WriteFile(ctx context.Context, path string) (io.WriteCloser, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	key, err := objectKey(path)
	if err != nil {
		return nil, err
	}

	return &objectWriter{store: s, ctx: ctx, key: key}, nil
}

// AppendFile is not supported: object stores have no append primitive.
func (s *Store) AppendFile(ctx context.Context, path string) (io.WriteCloser, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	return nil, store.NewError(store.ErrNotSupported, "append is not supported by the object store", path, nil)
}

// objectWriter accumulates writes and uploads them in one PutObject on Close.
type objectWriter struct {
	store  *Store
	ctx    context.Context
	key    string
	buffer bytes.Buffer
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, store.NewError(store.ErrClosed, "write after close", w.key, nil)
	}
	return w.buffer.Write(p)
}

// Close uploads the buffered content.
func (w *objectWriter) Close() error {
	if w.closed {
		return store.NewError(store.ErrClosed, "stream already closed", w.key, nil)
	}
	w.closed = true

	if err := w.store.checkOpen(w.ctx); err != nil {
		return err
	}

	if err := w.store.client.PutObject(w.ctx, w.key, w.buffer.Bytes()); err != nil {
		return mapClientError("failed to upload object", w.key, err)
	}
	return nil
}
