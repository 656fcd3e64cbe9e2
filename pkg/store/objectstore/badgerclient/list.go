package badgerclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
)

// defaultMaxKeys matches the S3 ListObjectsV2 page limit.
const defaultMaxKeys = 1000

// Continuation tokens record what the previous page ended on, so the next
// page can resume right after it:
//
//	"o:<key>"    last entry was an object; resume after that key
//	"p:<prefix>" last entry was a common prefix; resume after every key
//	             sharing it
const (
	tokenObject = "o:"
	tokenPrefix = "p:"
)

// ListObjects returns one page of keys under input.Prefix, grouping by
// input.Delimiter the way S3 does.
func (c *Client) ListObjects(ctx context.Context, input objectstore.ListInput) (*objectstore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxKeys := int(input.MaxKeys)
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}

	scanPrefix := keyMeta(c.bucket, input.Prefix)
	start, err := c.seekKey(scanPrefix, input.ContinuationToken)
	if err != nil {
		return nil, err
	}

	page := &objectstore.ListPage{}
	var lastToken string

	err = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		emitted := 0
		lastPrefix := ""

		for it.Seek(start); it.ValidForPrefix(scanPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			key := c.objectKeyOf(item.KeyCopy(nil))

			var commonPrefix string
			if input.Delimiter != "" {
				rest := strings.TrimPrefix(key, input.Prefix)
				if idx := strings.Index(rest, input.Delimiter); idx >= 0 {
					commonPrefix = input.Prefix + rest[:idx+len(input.Delimiter)]
					if commonPrefix == lastPrefix {
						continue
					}
				}
			}

			if emitted == maxKeys {
				page.IsTruncated = true
				page.NextContinuationToken = lastToken
				return nil
			}

			if commonPrefix != "" {
				page.CommonPrefixes = append(page.CommonPrefixes, commonPrefix)
				lastPrefix = commonPrefix
				lastToken = tokenPrefix + commonPrefix
			} else {
				info, err := decodeInfo(key, item)
				if err != nil {
					return err
				}
				page.Objects = append(page.Objects, info)
				lastToken = tokenObject + key
			}
			emitted++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", input.Prefix, err)
	}

	return page, nil
}

// seekKey returns the raw key the iteration starts from.
func (c *Client) seekKey(scanPrefix []byte, token string) ([]byte, error) {
	switch {
	case token == "":
		return scanPrefix, nil
	case strings.HasPrefix(token, tokenObject):
		// First key strictly after the object
		return append(keyMeta(c.bucket, strings.TrimPrefix(token, tokenObject)), 0x00), nil
	case strings.HasPrefix(token, tokenPrefix):
		// 0xff never occurs in UTF-8 keys, so this skips the whole group
		return append(keyMeta(c.bucket, strings.TrimPrefix(token, tokenPrefix)), 0xff), nil
	default:
		return nil, fmt.Errorf("invalid continuation token %q", token)
	}
}
