package local

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/marmos91/fshandler/pkg/store"
)

const streamBufferSize = 64 * 1024

// CreateFile creates an empty file, creating parent directories as needed.
//
// Fails with ErrAlreadyExists if anything already exists at path.
func (s *Store) CreateFile(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return store.FileMetadata{}, err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return store.FileMetadata{}, err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return store.FileMetadata{}, mapError("failed to create parent directories", path, err)
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return store.FileMetadata{}, mapError("failed to create file", path, err)
	}
	if err := f.Close(); err != nil {
		return store.FileMetadata{}, mapError("failed to create file", path, err)
	}

	return s.stat(path)
}

// CreateDirectory creates path and any missing parents.
//
// Fails with ErrAlreadyExists if a file exists at path.
func (s *Store) CreateDirectory(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return store.FileMetadata{}, err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return store.FileMetadata{}, err
	}

	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return store.FileMetadata{}, store.NewError(store.ErrAlreadyExists, "a file exists at this path", path, nil)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return store.FileMetadata{}, mapError("failed to create directory", path, err)
	}

	return s.stat(path)
}

// ReadFile opens a buffered reader over path.
func (s *Store) ReadFile(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, mapError("failed to open file", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, mapError("failed to stat file", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, store.NewError(store.ErrIsDirectory, "cannot read a directory", path, nil)
	}

	return &bufferedReader{Reader: bufio.NewReaderSize(f, streamBufferSize), file: f}, nil
}

// WriteFile opens path for writing, truncating existing content.
func (s *Store) WriteFile(ctx context.Context, path string) (io.WriteCloser, error) {
	return s.openWriter(ctx, path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

// AppendFile opens path for appending, creating it if absent.
func (s *Store) AppendFile(ctx context.Context, path string) (io.WriteCloser, error) {
	return s.openWriter(ctx, path, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
}

func (s *Store) openWriter(ctx context.Context, path string, flag int) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if abs == s.root {
		return nil, store.NewError(store.ErrIsDirectory, "cannot write to the root", path, nil)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, mapError("failed to create parent directories", path, err)
	}

	f, err := os.OpenFile(abs, flag, 0644)
	if err != nil {
		return nil, mapError("failed to open file for writing", path, err)
	}

	return &bufferedWriter{Writer: bufio.NewWriterSize(f, streamBufferSize), file: f, path: path}, nil
}

// bufferedReader closes the underlying file.
type bufferedReader struct {
	*bufio.Reader
	file *os.File
}

func (r *bufferedReader) Close() error {
	return r.file.Close()
}

// bufferedWriter flushes pending bytes before closing the file.
type bufferedWriter struct {
	*bufio.Writer
	file   *os.File
	path   string
	closed bool
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, store.NewError(store.ErrClosed, "write after close", w.path, nil)
	}
	return w.Writer.Write(p)
}

func (w *bufferedWriter) Close() error {
	if w.closed {
		return store.NewError(store.ErrClosed, "stream already closed", w.path, nil)
	}
	w.closed = true

	flushErr := w.Flush()
	closeErr := w.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return store.NewError(store.ErrStorageFailure, "failed to finalize write", w.path, err)
	}
	return nil
}
