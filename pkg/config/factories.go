package config

import (
	"context"
	"fmt"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/facade"
	"github.com/marmos91/fshandler/pkg/store/local"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
	"github.com/marmos91/fshandler/pkg/store/objectstore/badgerclient"
	"github.com/marmos91/fshandler/pkg/store/objectstore/s3client"
	"github.com/mitchellh/mapstructure"
)

// LocalOptions are the storage.local options.
type LocalOptions struct {
	// Path is the root directory. Created if missing.
	Path string `mapstructure:"path" validate:"required"`
}

// ObjectStoreOptions are the storage.objectstore options.
type ObjectStoreOptions struct {
	// Driver selects the object client
	// Valid values: s3, badger
	Driver string `mapstructure:"driver" validate:"required,oneof=s3 badger"`

	// Bucket is created on startup if it doesn't exist
	Bucket string `mapstructure:"bucket" validate:"required"`

	// ListPageSize is the MaxKeys of each listing page (S3 caps it at 1000)
	ListPageSize int32 `mapstructure:"list_page_size" validate:"gte=0,lte=1000"`

	// RequestsPerSecond paces calls to the service (0 = unlimited)
	RequestsPerSecond uint `mapstructure:"requests_per_second"`

	// Burst is the number of calls allowed above the sustained rate
	Burst uint `mapstructure:"burst"`

	// S3 driver options
	S3 S3Options `mapstructure:"s3"`

	// Badger driver options
	Badger BadgerOptions `mapstructure:"badger"`
}

// S3Options are the storage.objectstore.s3 options.
type S3Options struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	MaxRetries      int    `mapstructure:"max_retries" validate:"gte=0"`
}

// BadgerOptions are the storage.objectstore.badger options.
type BadgerOptions struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// CreateFilesystem creates the facade over the backend selected by
// cfg.Storage.Type.
//
// Supported types:
//   - "local": pkg/store/local rooted at storage.local.path
//   - "objectstore": pkg/store/objectstore over the S3 or Badger driver
//
// Parameters:
//   - ctx: Context for initialization (bucket probe/creation)
//   - cfg: Complete configuration (defaults applied)
//   - metrics: Operation metrics, nil for none
//
// Returns:
//   - *facade.Filesystem: Ready filesystem; the caller must Close it
//   - error: Configuration or initialization error
func CreateFilesystem(ctx context.Context, cfg *Config, metrics facade.Metrics) (*facade.Filesystem, error) {
	opts := facade.Options{Metrics: metrics}

	switch cfg.Storage.Type {
	case "local":
		s, err := createLocalStore(ctx, cfg.Storage.Local)
		if err != nil {
			return nil, err
		}
		return facade.NewLocal(s, opts), nil
	case "objectstore":
		s, err := createObjectStore(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		return facade.NewObjectStore(s, opts), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Storage.Type)
	}
}

// createLocalStore creates the local backend.
func createLocalStore(ctx context.Context, options map[string]any) (*local.Store, error) {
	opts, err := decodeLocalOptions(options)
	if err != nil {
		return nil, err
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("local storage: path is required")
	}

	s, err := local.New(ctx, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create local storage: %w", err)
	}
	return s, nil
}

// createObjectStore creates the object store backend and its driver.
func createObjectStore(ctx context.Context, cfg *StorageConfig) (*objectstore.Store, error) {
	opts, err := decodeObjectStoreOptions(cfg.ObjectStore)
	if err != nil {
		return nil, err
	}

	client, err := createObjectClient(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	s, err := objectstore.New(ctx, client, objectstore.Options{
		ListPageSize:      opts.ListPageSize,
		RequestsPerSecond: opts.RequestsPerSecond,
		Burst:             opts.Burst,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create object storage: %w", err)
	}
	return s, nil
}

// createObjectClient creates the driver named by opts.Driver.
func createObjectClient(ctx context.Context, cfg *StorageConfig, opts *ObjectStoreOptions) (objectstore.Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("object storage: bucket is required")
	}

	switch opts.Driver {
	case "s3":
		if opts.S3.Region == "" {
			return nil, fmt.Errorf("object storage: s3.region is required")
		}

		client, err := s3client.New(ctx, s3client.Config{
			Bucket:          opts.Bucket,
			Region:          opts.S3.Region,
			Endpoint:        opts.S3.Endpoint,
			AccessKeyID:     opts.S3.AccessKeyID,
			SecretAccessKey: opts.S3.SecretAccessKey,
			ForcePathStyle:  opts.S3.ForcePathStyle,
			MaxRetries:      opts.S3.MaxRetries,
			MaxConnections:  cfg.MaxConnections,
			Timeout:         cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}

		logger.Info("S3 client configured: bucket=%s, region=%s, endpoint=%s",
			opts.Bucket, opts.S3.Region, opts.S3.Endpoint)
		return client, nil

	case "badger":
		client, err := badgerclient.Open(badgerclient.Config{
			Bucket:   opts.Bucket,
			Path:     opts.Badger.Path,
			InMemory: opts.Badger.InMemory,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create badger client: %w", err)
		}

		logger.Info("Badger client configured: bucket=%s, path=%s, in_memory=%v",
			opts.Bucket, opts.Badger.Path, opts.Badger.InMemory)
		return client, nil

	default:
		return nil, fmt.Errorf("unknown object storage driver: %q", opts.Driver)
	}
}

func decodeLocalOptions(options map[string]any) (*LocalOptions, error) {
	var opts LocalOptions
	if err := decodeOptions(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode local storage config: %w", err)
	}
	return &opts, nil
}

func decodeObjectStoreOptions(options map[string]any) (*ObjectStoreOptions, error) {
	var opts ObjectStoreOptions
	if err := decodeOptions(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode object storage config: %w", err)
	}
	return &opts, nil
}

// decodeOptions decodes a free-form options map into out. Values coming
// from environment variables are strings, so input is weakly typed.
func decodeOptions(options map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(options)
}
