package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/store"
)

// Move relocates src to dst in two phases: copy, then delete the source.
//
// The move is NOT atomic. If the delete fails after a successful copy both
// keys remain and the returned error names the straggling source.
//
// A src that names a pseudo-directory moves every key under "src/".
func (s *Store) Move(ctx context.Context, src, dst string) (store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return store.FileMetadata{}, err
	}

	srcKey, err := objectKey(src)
	if err != nil {
		return store.FileMetadata{}, err
	}
	dstKey, err := objectKey(dst)
	if err != nil {
		return store.FileMetadata{}, err
	}
	if srcKey == dstKey {
		return s.GetMetadata(ctx, dstKey)
	}

	err = s.client.CopyObject(ctx, srcKey, dstKey)
	switch {
	case err == nil:
		if err := s.client.DeleteObject(ctx, srcKey); err != nil {
			logger.Warn("Move %s -> %s: copy succeeded but source delete failed: %v", srcKey, dstKey, err)
			return store.FileMetadata{}, mapClientError("move left the source object in place", src, err)
		}
	case errors.Is(err, ErrNoSuchKey):
		if strings.HasPrefix(dstKey+"/", srcKey+"/") {
			return store.FileMetadata{}, store.NewError(store.ErrInvalidPath, "cannot move a directory into itself", dst, nil)
		}
		moved, err := s.movePrefix(ctx, srcKey+"/", dstKey+"/")
		if err != nil {
			return store.FileMetadata{}, err
		}
		if moved == 0 {
			return store.FileMetadata{}, store.NewError(store.ErrNotFound, "move source not found", src, nil)
		}
	default:
		return store.FileMetadata{}, mapClientError("failed to copy object", src, err)
	}

	return s.GetMetadata(ctx, dstKey)
}

// movePrefix copies every key under srcPrefix to dstPrefix, then deletes the
// sources. Returns the number of keys moved.
func (s *Store) movePrefix(ctx context.Context, srcPrefix, dstPrefix string) (int, error) {
	var keys []string
	err := s.scan(ctx, ListInput{Prefix: srcPrefix}, func(page *ListPage) error {
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}
		return nil
	})
	if err != nil {
		return 0, mapClientError("failed to list directory", srcPrefix, err)
	}

	for _, key := range keys {
		target := dstPrefix + strings.TrimPrefix(key, srcPrefix)
		if err := s.client.CopyObject(ctx, key, target); err != nil {
			return 0, mapClientError("failed to copy object", key, err)
		}
	}

	for _, key := range keys {
		if err := s.client.DeleteObject(ctx, key); err != nil {
			logger.Warn("Move %s -> %s: copy succeeded but source delete failed for %s: %v", srcPrefix, dstPrefix, key, err)
			return 0, mapClientError("move left source objects in place", key, err)
		}
	}

	return len(keys), nil
}

// Rename moves path to a sibling named newName.
func (s *Store) Rename(ctx context.Context, path, newName string) (store.FileMetadata, error) {
	return s.Move(ctx, path, store.ParentPrefix(store.CleanPath(path))+newName)
}

// Delete removes path.
//
// A path ending in "/" is a directory prefix: every key under it is listed
// page by page and deleted one at a time. A path without the trailing "/"
// deletes the object of that name, or, if none exists, the pseudo-directory
// of that name.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	key, err := objectKey(path)
	if err != nil {
		return err
	}

	if !store.HasTrailingSlash(path) {
		found, err := s.exists(ctx, key)
		if err != nil {
			return mapClientError("failed to check object", path, err)
		}
		if found {
			if err := s.client.DeleteObject(ctx, key); err != nil {
				return mapClientError("failed to delete object", path, err)
			}
			return nil
		}
	}

	deleted, err := s.deletePrefix(ctx, key+"/")
	if err != nil {
		return err
	}
	if deleted == 0 {
		return store.NewError(store.ErrNotFound, "object not found", path, nil)
	}
	return nil
}

// deletePrefix deletes every key under prefix, following continuation
// tokens until the listing is no longer truncated.
func (s *Store) deletePrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	rounds := 0

	err := s.scan(ctx, ListInput{Prefix: prefix}, func(page *ListPage) error {
		rounds++
		for _, obj := range page.Objects {
			if err := s.client.DeleteObject(ctx, obj.Key); err != nil {
				return fmt.Errorf("delete %s: %w", obj.Key, err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return deleted, mapClientError("failed to delete directory", prefix, err)
	}

	logger.Debug("Deleted prefix %s: %d keys in %d rounds", prefix, deleted, rounds)
	return deleted, nil
}
