// Package objectstore implements the storage contract over a flat bucket of
// keys.
//
// Directories are emulated: a directory "a/b" is a zero-byte object stored
// under the key "a/b/" (the marker). Files are objects whose key is their
// path. The public paths returned in metadata never carry the marker "/".
//
// This file contains the store type, constructor, lifecycle, and key
// helpers.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/internal/ratelimiter"
	"github.com/marmos91/fshandler/pkg/store"
)

// DefaultListPageSize is the MaxKeys used for paginated listings.
const DefaultListPageSize int32 = 1000

// Options configures the object store backend.
type Options struct {
	// ListPageSize is the number of keys requested per listing page.
	// Default: DefaultListPageSize
	ListPageSize int32

	// RequestsPerSecond paces client calls. 0 disables pacing.
	RequestsPerSecond uint

	// Burst is the number of calls allowed above the sustained rate.
	// Default: RequestsPerSecond
	Burst uint
}

// Store implements store.Store over a Client.
//
// Thread Safety:
// Safe for concurrent use. The object store guarantees per-object
// consistency only; multi-key operations (prefix delete, move) are not
// atomic.
type Store struct {
	client   Client
	pageSize int32

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ store.Store = (*Store)(nil)

// New creates an object store backend and ensures its bucket exists.
//
// The bucket is probed with HeadBucket and created when the client reports
// ErrNoSuchBucket. Any other probe failure aborts construction.
//
// Parameters:
//   - ctx: Context for the bucket probe/creation
//   - client: Driver bound to the bucket
//   - opts: Backend options
//
// Returns:
//   - *Store: Ready backend owning client (released by Close)
//   - error: Bucket probe or creation failure
func New(ctx context.Context, client Client, opts Options) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("object store: client is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limiter := ratelimiter.New(opts.RequestsPerSecond, opts.Burst); !limiter.Unlimited() {
		client = &rateLimitedClient{Client: client, limiter: limiter}
	}

	if err := client.HeadBucket(ctx); err != nil {
		if !errors.Is(err, ErrNoSuchBucket) {
			return nil, fmt.Errorf("failed to access bucket %s: %w", client.Bucket(), err)
		}

		logger.Info("Bucket %s does not exist, creating it", client.Bucket())
		if err := client.CreateBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", client.Bucket(), err)
		}
	}

	pageSize := opts.ListPageSize
	if pageSize <= 0 {
		pageSize = DefaultListPageSize
	}

	logger.Info("Object store initialized: bucket=%s, page_size=%d, requests_per_second=%d",
		client.Bucket(), pageSize, opts.RequestsPerSecond)

	return &Store{client: client, pageSize: pageSize}, nil
}

// Bucket returns the bucket the store is bound to.
func (s *Store) Bucket() string {
	return s.client.Bucket()
}

// Close releases the client. Only the first call does anything; every
// operation after Close fails with ErrClosed.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.client.Close()
		logger.Debug("Object store closed: bucket=%s", s.client.Bucket())
	})
	return s.closeErr
}

// checkOpen fails fast on cancelled contexts and released stores.
func (s *Store) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return store.NewError(store.ErrClosed, "object store is closed", "", nil)
	}
	return nil
}

// objectKey maps a path naming a file to its key.
func objectKey(p string) (string, error) {
	if err := store.ValidateOptionalPath(p); err != nil {
		return "", err
	}
	key := store.CleanPath(p)
	if key == "" {
		return "", store.NewError(store.ErrInvalidPath, "path must not be the root", p, nil)
	}
	return key, nil
}

// dirPrefix maps a directory path to its listing prefix ("" for the root).
func dirPrefix(p string) (string, error) {
	if err := store.ValidateOptionalPath(p); err != nil {
		return "", err
	}
	clean := store.CleanPath(p)
	if clean == "" {
		return "", nil
	}
	return clean + "/", nil
}

// mapClientError converts a driver error into a StoreError.
func mapClientError(message, p string, err error) error {
	var se *store.StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, ErrNoSuchKey) {
		return store.NewError(store.ErrNotFound, message, p, err)
	}
	return store.NewError(store.ErrStorageFailure, message, p, err)
}
