package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marmos91/fshandler/pkg/store"
)

// List returns the immediate children of dir passing filter.
//
// A missing dir yields an empty slice so that polling callers never see an
// error for a directory that hasn't been created yet.
func (s *Store) List(ctx context.Context, dir string, filter store.Filter) ([]store.FileMetadata, error) {
	abs, ok, err := s.openListing(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []store.FileMetadata{}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, mapError("failed to read directory", dir, err)
	}

	base := store.CleanPath(dir)
	result := make([]store.FileMetadata, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// removed between ReadDir and Info
				continue
			}
			return nil, mapError("failed to stat entry", store.JoinPath(base, entry.Name()), err)
		}

		meta := s.metadataFor(store.JoinPath(base, entry.Name()), filepath.Join(abs, entry.Name()), info)
		if filter.Matches(meta) {
			result = append(result, meta)
		}
	}

	return result, nil
}

// ListRecursive walks the tree below dir, excluding dir itself.
func (s *Store) ListRecursive(ctx context.Context, dir string, filter store.Filter) ([]store.FileMetadata, error) {
	abs, ok, err := s.openListing(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []store.FileMetadata{}, nil
	}

	base := store.CleanPath(dir)
	result := make([]store.FileMetadata, 0)

	walkErr := filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p != abs {
				return nil
			}
			return err
		}
		if p == abs {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		meta := s.metadataFor(store.JoinPath(base, filepath.ToSlash(rel)), p, info)
		if filter.Matches(meta) {
			result = append(result, meta)
		}
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mapError("failed to walk directory", dir, walkErr)
	}

	return result, nil
}

// openListing resolves dir and checks it is a listable directory.
//
// Returns ok=false without error when dir doesn't exist.
func (s *Store) openListing(ctx context.Context, dir string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	abs, err := s.resolve(dir)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, mapError("failed to stat directory", dir, err)
	}
	if !info.IsDir() {
		return "", false, store.NewError(store.ErrNotDirectory, "not a directory", dir, nil)
	}

	return abs, true, nil
}
