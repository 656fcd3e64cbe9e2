// Package badgerclient implements objectstore.Client on an embedded BadgerDB.
//
// It provides the same flat key namespace as S3 (prefix and delimiter
// listings, continuation tokens, server-side copy) without any external
// service, either on disk or fully in memory.
package badgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
)

// Config configures a badger-backed client.
type Config struct {
	// Bucket is the bucket name all keys are stored under
	Bucket string

	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps the whole database in memory (nothing is persisted)
	InMemory bool
}

// Client is a badger-backed objectstore.Client.
type Client struct {
	db     *badger.DB
	bucket string
	ownsDB bool
}

var _ objectstore.Client = (*Client)(nil)

// objectRecord is the JSON value stored under the "m:" key.
type objectRecord struct {
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("badger client: bucket is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger client: path is required unless in_memory is set")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %q: %w", cfg.Path, err)
	}

	return &Client{db: db, bucket: cfg.Bucket, ownsDB: true}, nil
}

// New wraps an already open database. Close does not close db.
func New(db *badger.DB, bucket string) *Client {
	return &Client{db: db, bucket: bucket}
}

// Bucket returns the bound bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// HeadBucket checks the bucket marker exists.
func (c *Client) HeadBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(keyBucket(c.bucket))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return objectstore.ErrNoSuchBucket
		}
		return err
	})
}

// CreateBucket writes the bucket marker.
func (c *Client) CreateBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyBucket(c.bucket), nil)
	})
}

// PutObject stores body and its info record in one transaction.
func (c *Client) PutObject(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record, err := json.Marshal(objectRecord{Size: int64(len(body)), LastModified: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode object record: %w", err)
	}

	data := make([]byte, len(body))
	copy(data, body)

	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyMeta(c.bucket, key), record); err != nil {
			return err
		}
		return txn.Set(keyData(c.bucket, key), data)
	})
}

// GetObject returns the object body.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyData(c.bucket, key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("get %s: %w", key, objectstore.ErrNoSuchKey)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// HeadObject returns the info record of key.
func (c *Client) HeadObject(ctx context.Context, key string) (objectstore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return objectstore.ObjectInfo{}, err
	}

	var info objectstore.ObjectInfo
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyMeta(c.bucket, key))
		if err != nil {
			return err
		}
		info, err = decodeInfo(key, item)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return objectstore.ObjectInfo{}, fmt.Errorf("head %s: %w", key, objectstore.ErrNoSuchKey)
	}
	if err != nil {
		return objectstore.ObjectInfo{}, fmt.Errorf("head %s: %w", key, err)
	}
	return info, nil
}

// CopyObject duplicates srcKey to dstKey with a fresh modification time.
func (c *Client) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyData(c.bucket, srcKey))
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		record, err := json.Marshal(objectRecord{Size: int64(len(data)), LastModified: time.Now().UTC()})
		if err != nil {
			return err
		}

		if err := txn.Set(keyMeta(c.bucket, dstKey), record); err != nil {
			return err
		}
		return txn.Set(keyData(c.bucket, dstKey), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("copy %s: %w", srcKey, objectstore.ErrNoSuchKey)
	}
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// DeleteObject removes key. Missing keys are ignored.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyMeta(c.bucket, key)); err != nil {
			return err
		}
		return txn.Delete(keyData(c.bucket, key))
	})
}

// Close closes the database if this client opened it.
func (c *Client) Close() error {
	if !c.ownsDB {
		return nil
	}
	return c.db.Close()
}

func decodeInfo(key string, item *badger.Item) (objectstore.ObjectInfo, error) {
	var record objectRecord
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	if err != nil {
		return objectstore.ObjectInfo{}, fmt.Errorf("failed to decode object record for %s: %w", key, err)
	}
	return objectstore.ObjectInfo{Key: key, Size: record.Size, LastModified: record.LastModified}, nil
}

// objectKeyOf strips the namespace and bucket from a raw "m:" key.
func (c *Client) objectKeyOf(raw []byte) string {
	return strings.TrimPrefix(string(raw), keyMetaPrefix(c.bucket))
}
