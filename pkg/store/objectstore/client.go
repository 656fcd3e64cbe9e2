package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// Client is the flat key namespace the object store backend is built on.
//
// A Client is bound to one bucket. Keys are opaque strings; the backend
// layers directories on top with the trailing-"/" marker convention.
// Drivers live in sub-packages (s3client, badgerclient).
type Client interface {
	// Bucket returns the bound bucket name.
	Bucket() string

	// HeadBucket checks the bucket exists. Returns ErrNoSuchBucket if not.
	HeadBucket(ctx context.Context) error

	// CreateBucket creates the bound bucket.
	CreateBucket(ctx context.Context) error

	// PutObject stores body under key, replacing any previous object.
	PutObject(ctx context.Context, key string, body []byte) error

	// GetObject streams the object. Returns ErrNoSuchKey if missing.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// HeadObject returns object attributes. Returns ErrNoSuchKey if missing.
	HeadObject(ctx context.Context, key string) (ObjectInfo, error)

	// CopyObject duplicates srcKey to dstKey server-side.
	// Returns ErrNoSuchKey if srcKey is missing.
	CopyObject(ctx context.Context, srcKey, dstKey string) error

	// DeleteObject removes key. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error

	// ListObjects returns one page of keys under input.Prefix.
	ListObjects(ctx context.Context, input ListInput) (*ListPage, error)

	// Close releases the client's resources.
	Close() error
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListInput selects one page of a listing.
//
// With a Delimiter, keys containing the delimiter after Prefix are grouped
// into CommonPrefixes (one level of hierarchy). ContinuationToken is the
// opaque cursor from the previous page's NextContinuationToken.
type ListInput struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int32
}

// ListPage is one page of listing results.
type ListPage struct {
	Objects               []ObjectInfo
	CommonPrefixes        []string
	NextContinuationToken string
	IsTruncated           bool
}

var (
	// ErrNoSuchKey is returned by drivers when an object doesn't exist.
	ErrNoSuchKey = errors.New("no such key")

	// ErrNoSuchBucket is returned by drivers when the bucket doesn't exist.
	ErrNoSuchBucket = errors.New("no such bucket")
)
