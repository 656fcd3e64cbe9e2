// Package s3client implements objectstore.Client on Amazon S3 and
// S3-compatible services (MinIO, Localstack) using the AWS SDK v2.
package s3client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
)

const (
	// DefaultMaxRetries is the retry attempt count when none is configured.
	// Higher than the SDK default of 3 to ride out transient 5xx and timeouts.
	DefaultMaxRetries = 10

	// DefaultMaxConnections bounds connections per host.
	DefaultMaxConnections = 50

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 60 * time.Second
)

// API is the subset of *s3.Client used by Client.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config configures the S3 client.
type Config struct {
	Bucket string
	Region string

	// Endpoint overrides the S3 endpoint (MinIO, Localstack). Setting it
	// also enables path-style addressing.
	Endpoint string

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle enables path-style addressing without an Endpoint.
	ForcePathStyle bool

	// MaxRetries is the retry attempt count. Default: DefaultMaxRetries
	MaxRetries int

	// MaxConnections bounds connections per host. Default: DefaultMaxConnections
	MaxConnections int

	// Timeout is the per-request HTTP timeout. Default: DefaultTimeout
	Timeout time.Duration
}

// Client is an S3-backed objectstore.Client.
type Client struct {
	api       API
	bucket    string
	region    string
	transport *http.Transport
}

var _ objectstore.Client = (*Client)(nil)

// New builds an SDK client from cfg.
//
// The HTTP transport is owned by the returned Client so Close can release
// its pooled connections.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 client: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 client: region is required")
	}

	// ========================================================================
	// Step 1: HTTP transport
	// ========================================================================

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = maxConns
	transport.MaxIdleConnsPerHost = maxConns
	httpClient := &http.Client{Transport: transport, Timeout: timeout}

	// ========================================================================
	// Step 2: AWS config
	// ========================================================================

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions,
		awsConfig.WithRegion(cfg.Region),
		awsConfig.WithHTTPClient(httpClient),
	)

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// ========================================================================
	// Step 3: S3 client
	// ========================================================================

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Client{api: api, bucket: cfg.Bucket, region: cfg.Region, transport: transport}, nil
}

// NewFromAPI wraps an existing API implementation. Close is a no-op for
// clients built this way.
func NewFromAPI(api API, bucket, region string) *Client {
	return &Client{api: api, bucket: bucket, region: region}
}

// Bucket returns the bound bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// HeadBucket checks the bucket exists and is reachable.
func (c *Client) HeadBucket(ctx context.Context) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		return mapError(fmt.Sprintf("head bucket %s", c.bucket), err, objectstore.ErrNoSuchBucket)
	}
	return nil
}

// CreateBucket creates the bound bucket in the configured region.
func (c *Client) CreateBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucket)}

	// us-east-1 is the default location and rejects an explicit constraint
	if c.region != "" && c.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}
	return nil
}

// PutObject uploads body in a single request.
func (c *Client) PutObject(ctx context.Context, key string, body []byte) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return mapError(fmt.Sprintf("put %s", key), err, objectstore.ErrNoSuchKey)
	}
	return nil
}

// GetObject streams the object body. The caller closes it.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(fmt.Sprintf("get %s", key), err, objectstore.ErrNoSuchKey)
	}
	return out.Body, nil
}

// HeadObject returns the object's size and modification time.
func (c *Client) HeadObject(ctx context.Context, key string) (objectstore.ObjectInfo, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return objectstore.ObjectInfo{}, mapError(fmt.Sprintf("head %s", key), err, objectstore.ErrNoSuchKey)
	}

	return objectstore.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// CopyObject duplicates srcKey to dstKey server-side.
func (c *Client) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(c.bucket, srcKey)),
	})
	if err != nil {
		return mapError(fmt.Sprintf("copy %s to %s", srcKey, dstKey), err, objectstore.ErrNoSuchKey)
	}
	return nil
}

// DeleteObject removes key. S3 reports success for missing keys.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError(fmt.Sprintf("delete %s", key), err, objectstore.ErrNoSuchKey)
	}
	return nil
}

// ListObjects returns one ListObjectsV2 page.
func (c *Client) ListObjects(ctx context.Context, input objectstore.ListInput) (*objectstore.ListPage, error) {
	params := &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)}
	if input.Prefix != "" {
		params.Prefix = aws.String(input.Prefix)
	}
	if input.Delimiter != "" {
		params.Delimiter = aws.String(input.Delimiter)
	}
	if input.ContinuationToken != "" {
		params.ContinuationToken = aws.String(input.ContinuationToken)
	}
	if input.MaxKeys > 0 {
		params.MaxKeys = aws.Int32(input.MaxKeys)
	}

	out, err := c.api.ListObjectsV2(ctx, params)
	if err != nil {
		return nil, mapError(fmt.Sprintf("list %q", input.Prefix), err, objectstore.ErrNoSuchBucket)
	}

	page := &objectstore.ListPage{
		Objects:               make([]objectstore.ObjectInfo, 0, len(out.Contents)),
		NextContinuationToken: aws.ToString(out.NextContinuationToken),
		IsTruncated:           aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, objectstore.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	for _, cp := range out.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}

	return page, nil
}

// Close releases idle pooled connections.
func (c *Client) Close() error {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}

// copySource builds the URL-encoded "bucket/key" CopySource value. Path
// separators stay literal.
func copySource(bucket, key string) string {
	return bucket + "/" + strings.ReplaceAll(url.PathEscape(key), "%2F", "/")
}
