//go:build integration
// +build integration

package s3client_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/marmos91/fshandler/pkg/store"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
	"github.com/marmos91/fshandler/pkg/store/objectstore/s3client"
	storetesting "github.com/marmos91/fshandler/pkg/store/testing"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestObjectStore_S3Integration runs the store conformance suite against a
// real S3-compatible service (Localstack).
//
// Prerequisites (one of):
//   - Localstack running on localhost:4566 (override with LOCALSTACK_ENDPOINT)
//   - Docker available and FSHANDLER_TESTCONTAINERS=1, to start one on demand
//
// Run with: go test -tags=integration ./pkg/store/objectstore/s3client/...
//
// To start Localstack:
//
//	docker run --rm -p 4566:4566 localstack/localstack
func TestObjectStore_S3Integration(t *testing.T) {
	endpoint := localstackEndpoint(t)

	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			return newIntegrationStore(t, endpoint)
		},
		SupportsAppend: false,
	}
	suite.Run(t)
}

// newIntegrationStore creates a store over a fresh bucket. Every test gets
// its own bucket so tests never see each other's keys.
func newIntegrationStore(t *testing.T, endpoint string) store.Store {
	t.Helper()
	ctx := context.Background()

	client, err := s3client.New(ctx, s3client.Config{
		Bucket:          "fshandler-test-" + uuid.NewString(),
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		MaxRetries:      3,
	})
	require.NoError(t, err)

	s, err := objectstore.New(ctx, client, objectstore.Options{ListPageSize: 100})
	require.NoError(t, err)

	t.Cleanup(func() {
		entries, _ := s.ListRecursive(ctx, "", nil)
		for _, e := range entries {
			_ = s.Delete(ctx, e.Path)
		}
		_ = s.Close()
	})
	return s
}

func localstackEndpoint(t *testing.T) string {
	t.Helper()

	if os.Getenv("FSHANDLER_TESTCONTAINERS") != "1" {
		endpoint := os.Getenv("LOCALSTACK_ENDPOINT")
		if endpoint == "" {
			endpoint = "http://localhost:4566"
		}
		return endpoint
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "localstack/localstack:3.8",
		ExposedPorts: []string{"4566/tcp"},
		Env:          map[string]string{"SERVICES": "s3"},
		WaitingFor:   wait.ForHTTP("/_localstack/health").WithPort("4566/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4566")
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, port.Port())
}
