package objectstore

import (
	"context"
	"io"

	"github.com/marmos91/fshandler/internal/ratelimiter"
)

// rateLimitedClient takes a token before every call that reaches the
// service. Bucket and Close pass through.
type rateLimitedClient struct {
	Client
	limiter *ratelimiter.RateLimiter
}

func (c *rateLimitedClient) HeadBucket(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.Client.HeadBucket(ctx)
}

func (c *rateLimitedClient) CreateBucket(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.Client.CreateBucket(ctx)
}

func (c *rateLimitedClient) PutObject(ctx context.Context, key string, body []byte) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.Client.PutObject(ctx, key, body)
}

func (c *rateLimitedClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.GetObject(ctx, key)
}

func (c *rateLimitedClient) HeadObject(ctx context.Context, key string) (ObjectInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return ObjectInfo{}, err
	}
	return c.Client.HeadObject(ctx, key)
}

func (c *rateLimitedClient) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.Client.CopyObject(ctx, srcKey, dstKey)
}

func (c *rateLimitedClient) DeleteObject(ctx context.Context, key string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.Client.DeleteObject(ctx, key)
}

func (c *rateLimitedClient) ListObjects(ctx context.Context, input ListInput) (*ListPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.ListObjects(ctx, input)
}
