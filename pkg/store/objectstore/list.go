package objectstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marmos91/fshandler/pkg/store"
)

// List returns the immediate children of dir.
//
// The listing uses the "/" delimiter so one call returns one level: files
// directly under dir come back as objects and sub-directories as common
// prefixes. Sub-directories are included (with times taken from their
// marker when one exists) so both backends list the same shape. The prefix
// marker itself is never returned.
func (s *Store) List(ctx context.Context, dir string, filter store.Filter) ([]store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	prefix, err := dirPrefix(dir)
	if err != nil {
		return nil, err
	}

	var entries []store.FileMetadata
	err = s.scan(ctx, ListInput{Prefix: prefix, Delimiter: "/"}, func(page *ListPage) error {
		for _, obj := range page.Objects {
			rest := strings.TrimPrefix(obj.Key, prefix)
			if rest == "" || strings.Contains(rest, "/") {
				continue
			}
			entries = append(entries, objectMetadata(obj))
		}

		for _, cp := range page.CommonPrefixes {
			meta, err := s.prefixMetadata(ctx, cp)
			if err != nil {
				return err
			}
			entries = append(entries, meta)
		}
		return nil
	})
	if err != nil {
		return nil, mapClientError("failed to list directory", dir, err)
	}

	if len(entries) == 0 {
		if err := s.checkListable(ctx, dir, prefix); err != nil {
			return nil, err
		}
		return []store.FileMetadata{}, nil
	}

	return store.ApplyFilter(entries, filter), nil
}

// ListRecursive returns every key under dir except dir's own marker.
//
// Nested directories only appear if their marker object exists; implicit
// directories (keys with a "/" but no marker) are not synthesized.
func (s *Store) ListRecursive(ctx context.Context, dir string, filter store.Filter) ([]store.FileMetadata, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	prefix, err := dirPrefix(dir)
	if err != nil {
		return nil, err
	}

	var entries []store.FileMetadata
	err = s.scan(ctx, ListInput{Prefix: prefix}, func(page *ListPage) error {
		for _, obj := range page.Objects {
			if obj.Key == prefix {
				continue
			}
			entries = append(entries, objectMetadata(obj))
		}
		return nil
	})
	if err != nil {
		return nil, mapClientError("failed to list directory", dir, err)
	}

	if len(entries) == 0 {
		if err := s.checkListable(ctx, dir, prefix); err != nil {
			return nil, err
		}
		return []store.FileMetadata{}, nil
	}

	return store.ApplyFilter(entries, filter), nil
}

// checkListable distinguishes an empty/missing directory (nil) from a file
// being listed as a directory (ErrNotDirectory).
func (s *Store) checkListable(ctx context.Context, dir, prefix string) error {
	if prefix == "" {
		return nil
	}

	found, err := s.exists(ctx, strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return mapClientError("failed to check object", dir, err)
	}
	if found {
		return store.NewError(store.ErrNotDirectory, "not a directory", dir, nil)
	}
	return nil
}

// prefixMetadata builds the directory record for a common prefix.
func (s *Store) prefixMetadata(ctx context.Context, prefix string) (store.FileMetadata, error) {
	info, err := s.client.HeadObject(ctx, prefix)
	if err != nil {
		if errors.Is(err, ErrNoSuchKey) {
			return store.NewDirectoryMetadata(prefix, time.Time{}, time.Time{}), nil
		}
		return store.FileMetadata{}, err
	}
	return objectMetadata(info), nil
}

// scan calls fn for every page of the listing, following continuation
// tokens until the page is no longer truncated.
func (s *Store) scan(ctx context.Context, input ListInput, fn func(*ListPage) error) error {
	input.MaxKeys = s.pageSize

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.client.ListObjects(ctx, input)
		if err != nil {
			return err
		}

		if err := fn(page); err != nil {
			return err
		}

		if !page.IsTruncated || page.NextContinuationToken == "" {
			return nil
		}
		input.ContinuationToken = page.NextContinuationToken
	}
}
