package config

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
)

func TestCreateFilesystem_Local(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "root")

	cfg := GetDefaultConfig()
	cfg.Storage.Local["path"] = root

	fs, err := CreateFilesystem(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create local filesystem: %v", err)
	}
	defer func() { _ = fs.Close() }()

	if fs.Kind() != store.KindLocal {
		t.Errorf("Expected local kind, got %v", fs.Kind())
	}
	if !fs.IsHealthy(ctx) {
		t.Error("Expected local filesystem to be healthy")
	}
}

func TestCreateFilesystem_LocalMissingPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Local = map[string]any{}

	if _, err := CreateFilesystem(context.Background(), cfg, nil); err == nil {
		t.Fatal("Expected error for missing local path")
	}
}

func TestCreateFilesystem_BadgerInMemory(t *testing.T) {
	ctx := context.Background()

	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["driver"] = "badger"
	cfg.Storage.ObjectStore["badger"] = map[string]any{"in_memory": true}

	fs, err := CreateFilesystem(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create object filesystem: %v", err)
	}
	defer func() { _ = fs.Close() }()

	if fs.Kind() != store.KindObjectStore {
		t.Errorf("Expected objectstore kind, got %v", fs.Kind())
	}

	w, err := fs.WriteFile(ctx, "docs/readme.txt")
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := io.WriteString(w, "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	meta, err := fs.GetMetadata(ctx, "docs/readme.txt")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if meta.Size != 5 {
		t.Errorf("Expected size 5, got %d", meta.Size)
	}
}

func TestCreateFilesystem_BadgerOnDisk(t *testing.T) {
	ctx := context.Background()

	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["driver"] = "badger"
	cfg.Storage.ObjectStore["badger"] = map[string]any{"path": filepath.Join(t.TempDir(), "objects")}

	fs, err := CreateFilesystem(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create object filesystem: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestCreateFilesystem_UnknownType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = "unknown"

	if _, err := CreateFilesystem(context.Background(), cfg, nil); err == nil {
		t.Fatal("Expected error for unknown storage type")
	}
}

func TestCreateFilesystem_UnknownDriver(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["driver"] = "gcs"

	if _, err := CreateFilesystem(context.Background(), cfg, nil); err == nil {
		t.Fatal("Expected error for unknown object storage driver")
	}
}

func TestCreateFilesystem_MissingBucket(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["driver"] = "badger"
	cfg.Storage.ObjectStore["bucket"] = ""
	cfg.Storage.ObjectStore["badger"] = map[string]any{"in_memory": true}

	if _, err := CreateFilesystem(context.Background(), cfg, nil); err == nil {
		t.Fatal("Expected error for missing bucket")
	}
}

func TestCreateFilesystem_S3MissingRegion(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["s3"] = map[string]any{"region": ""}

	if _, err := CreateFilesystem(context.Background(), cfg, nil); err == nil {
		t.Fatal("Expected error for missing s3 region")
	}
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	cfg := GetDefaultConfig()

	result := InitializeMetrics(cfg)
	if result.Enabled() {
		t.Error("Expected metrics disabled")
	}
	if result.StoreMetrics != nil {
		t.Error("Expected nil store metrics when disabled")
	}
	if srv := result.NewServer(nil); srv != nil {
		t.Error("Expected nil server when disabled")
	}
}

func TestCreateFilesystem_RateLimited(t *testing.T) {
	ctx := context.Background()

	cfg := GetDefaultConfig()
	cfg.Storage.Type = "objectstore"
	cfg.Storage.ObjectStore["driver"] = "badger"
	cfg.Storage.ObjectStore["badger"] = map[string]any{"in_memory": true}
	cfg.Storage.ObjectStore["requests_per_second"] = "500"
	cfg.Storage.ObjectStore["burst"] = 50

	fs, err := CreateFilesystem(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create rate limited filesystem: %v", err)
	}
	defer func() { _ = fs.Close() }()

	if _, err := fs.CreateDirectory(ctx, "paced"); err != nil {
		t.Fatalf("CreateDirectory failed: %v", err)
	}
}
