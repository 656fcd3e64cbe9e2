package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/marmos91/fshandler/pkg/store"
)

// Move renames src to dst, creating dst's parent directories first.
//
// os.Rename is atomic within one filesystem and replaces an existing file
// at dst.
func (s *Store) Move(ctx context.Context, src, dst string) (store.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return store.FileMetadata{}, err
	}

	srcAbs, err := s.resolve(src)
	if err != nil {
		return store.FileMetadata{}, err
	}
	dstAbs, err := s.resolve(dst)
	if err != nil {
		return store.FileMetadata{}, err
	}
	if srcAbs == s.root || dstAbs == s.root {
		return store.FileMetadata{}, store.NewError(store.ErrInvalidPath, "cannot move the root", src, nil)
	}

	info, err := os.Lstat(srcAbs)
	if err != nil {
		return store.FileMetadata{}, mapError("move source not found", src, err)
	}
	if info.IsDir() && strings.HasPrefix(dstAbs, srcAbs+string(filepath.Separator)) {
		return store.FileMetadata{}, store.NewError(store.ErrInvalidPath, "cannot move a directory into itself", dst, nil)
	}

	if err := os.MkdirAll(filepath.Dir(dstAbs), 0755); err != nil {
		return store.FileMetadata{}, mapError("failed to create destination parent", dst, err)
	}

	if err := os.Rename(srcAbs, dstAbs); err != nil {
		return store.FileMetadata{}, mapError("failed to move "+src, dst, err)
	}

	return s.stat(dst)
}

// Rename moves path to a sibling named newName.
func (s *Store) Rename(ctx context.Context, path, newName string) (store.FileMetadata, error) {
	return s.Move(ctx, path, store.ParentPrefix(store.CleanPath(path))+newName)
}

// Delete removes path; directories are removed recursively.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if abs == s.root {
		return store.NewError(store.ErrInvalidPath, "cannot delete the root", path, nil)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return mapError("failed to delete", path, err)
	}

	if info.IsDir() {
		err = os.RemoveAll(abs)
	} else {
		err = os.Remove(abs)
	}
	if err != nil {
		return mapError("failed to delete", path, err)
	}

	return nil
}
