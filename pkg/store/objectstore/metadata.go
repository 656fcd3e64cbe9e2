package objectstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/store"
)

// GetMetadata returns a fresh snapshot of path.
//
// The key itself is probed first, then the directory marker "path/", then
// any key under "path/". Object stores keep no creation time, so
// CreationTime repeats LastModified; directories without a marker report
// zero times.
func (s *Store) GetMetadata(ctx context.Context, path string) (store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return store.FileMetadata{}, err
	}

	if err := store.ValidateOptionalPath(path); err != nil {
		return store.FileMetadata{}, err
	}
	key := store.CleanPath(path)
	if key == "" {
		return store.NewDirectoryMetadata("", time.Time{}, time.Time{}), nil
	}

	info, err := s.client.HeadObject(ctx, key)
	if err == nil {
		return objectMetadata(info), nil
	}
	if !errors.Is(err, ErrNoSuchKey) {
		return store.FileMetadata{}, mapClientError("failed to stat object", path, err)
	}

	marker, err := s.client.HeadObject(ctx, key+"/")
	if err == nil {
		return objectMetadata(marker), nil
	}
	if !errors.Is(err, ErrNoSuchKey) {
		return store.FileMetadata{}, mapClientError("failed to stat directory marker", path, err)
	}

	implicit, err := s.hasChildren(ctx, key+"/")
	if err != nil {
		return store.FileMetadata{}, mapClientError("failed to stat directory", path, err)
	}
	if !implicit {
		return store.FileMetadata{}, store.NewError(store.ErrNotFound, "object not found", path, nil)
	}
	return store.NewDirectoryMetadata(key, time.Time{}, time.Time{}), nil
}

// hasChildren reports whether any key lives under prefix. Directories
// written without a marker exist only through their children.
func (s *Store) hasChildren(ctx context.Context, prefix string) (bool, error) {
	page, err := s.client.ListObjects(ctx, ListInput{Prefix: prefix, MaxKeys: 1})
	if err != nil {
		return false, err
	}
	return len(page.Objects) > 0 || len(page.CommonPrefixes) > 0, nil
}

// IsHealthy probes the bucket. Any failure, including a closed store,
// reports false.
func (s *Store) IsHealthy(ctx context.Context) bool {
	if err := s.checkOpen(ctx); err != nil {
		return false
	}
	if err := s.client.HeadBucket(ctx); err != nil {
		logger.Debug("Object store health check failed: bucket=%s: %v", s.client.Bucket(), err)
		return false
	}
	return true
}

// exists reports whether key is stored.
func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoSuchKey):
		return false, nil
	default:
		return false, err
	}
}

// objectMetadata maps object attributes to a metadata record. Keys ending
// in "/" are directory markers.
func objectMetadata(info ObjectInfo) store.FileMetadata {
	if strings.HasSuffix(info.Key, "/") {
		return store.NewDirectoryMetadata(info.Key, info.LastModified, info.LastModified)
	}
	return store.NewFileMetadata(info.Key, info.Size, info.LastModified, info.LastModified)
}
