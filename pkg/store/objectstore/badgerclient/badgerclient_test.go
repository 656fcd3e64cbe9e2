package badgerclient

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/marmos91/fshandler/pkg/store/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := Open(Config{Bucket: "test-bucket", InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.CreateBucket(context.Background()))
	return client
}

func putKeys(t *testing.T, client *Client, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, client.PutObject(context.Background(), key, []byte(key)))
	}
}

func TestOpen(t *testing.T) {
	t.Run("RequiresBucket", func(t *testing.T) {
		_, err := Open(Config{InMemory: true})
		assert.Error(t, err)
	})

	t.Run("RequiresPathOnDisk", func(t *testing.T) {
		_, err := Open(Config{Bucket: "b"})
		assert.Error(t, err)
	})

	t.Run("PersistsOnDisk", func(t *testing.T) {
		dir := t.TempDir()
		ctx := context.Background()

		client, err := Open(Config{Bucket: "b", Path: dir})
		require.NoError(t, err)
		require.NoError(t, client.CreateBucket(ctx))
		require.NoError(t, client.PutObject(ctx, "kept.txt", []byte("kept")))
		require.NoError(t, client.Close())

		reopened, err := Open(Config{Bucket: "b", Path: dir})
		require.NoError(t, err)
		defer reopened.Close()

		require.NoError(t, reopened.HeadBucket(ctx))
		info, err := reopened.HeadObject(ctx, "kept.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(4), info.Size)
	})
}

func TestBucket(t *testing.T) {
	ctx := context.Background()

	client, err := Open(Config{Bucket: "fresh", InMemory: true})
	require.NoError(t, err)
	defer client.Close()

	assert.ErrorIs(t, client.HeadBucket(ctx), objectstore.ErrNoSuchBucket)
	require.NoError(t, client.CreateBucket(ctx))
	assert.NoError(t, client.HeadBucket(ctx))
	assert.Equal(t, "fresh", client.Bucket())
}

func TestObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.PutObject(ctx, "docs/a.txt", []byte("hello")))

	info, err := client.HeadObject(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "docs/a.txt", info.Key)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.LastModified.IsZero())

	body, err := client.GetObject(ctx, "docs/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, client.CopyObject(ctx, "docs/a.txt", "docs/b.txt"))
	copied, err := client.HeadObject(ctx, "docs/b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), copied.Size)

	require.NoError(t, client.DeleteObject(ctx, "docs/a.txt"))
	_, err = client.HeadObject(ctx, "docs/a.txt")
	assert.ErrorIs(t, err, objectstore.ErrNoSuchKey)
	_, err = client.GetObject(ctx, "docs/a.txt")
	assert.ErrorIs(t, err, objectstore.ErrNoSuchKey)

	// Deleting twice is not an error
	assert.NoError(t, client.DeleteObject(ctx, "docs/a.txt"))

	err = client.CopyObject(ctx, "missing", "elsewhere")
	assert.ErrorIs(t, err, objectstore.ErrNoSuchKey)
}

func TestBucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	first := newTestClient(t)
	second := New(first.db, "other-bucket")

	putKeys(t, first, "shared.txt")

	_, err := second.HeadObject(ctx, "shared.txt")
	assert.ErrorIs(t, err, objectstore.ErrNoSuchKey)

	page, err := second.ListObjects(ctx, objectstore.ListInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Objects)

	// Shared db is not closed by the borrowing client
	require.NoError(t, second.Close())
	assert.NoError(t, first.HeadBucket(ctx))
}

func TestListObjects(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	putKeys(t, client,
		"project/",
		"project/a.txt",
		"project/b.java",
		"project/sub/",
		"project/sub/c.txt",
		"projects.txt",
		"readme.md",
	)

	t.Run("Delimiter", func(t *testing.T) {
		page, err := client.ListObjects(ctx, objectstore.ListInput{Prefix: "project/", Delimiter: "/"})
		require.NoError(t, err)

		assert.Equal(t, []string{"project/", "project/a.txt", "project/b.java"}, objectKeys(page))
		assert.Equal(t, []string{"project/sub/"}, page.CommonPrefixes)
		assert.False(t, page.IsTruncated)
	})

	t.Run("RootDelimiter", func(t *testing.T) {
		page, err := client.ListObjects(ctx, objectstore.ListInput{Delimiter: "/"})
		require.NoError(t, err)

		assert.Equal(t, []string{"projects.txt", "readme.md"}, objectKeys(page))
		assert.Equal(t, []string{"project/"}, page.CommonPrefixes)
	})

	t.Run("Recursive", func(t *testing.T) {
		page, err := client.ListObjects(ctx, objectstore.ListInput{Prefix: "project/"})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"project/", "project/a.txt", "project/b.java", "project/sub/", "project/sub/c.txt",
		}, objectKeys(page))
		assert.Empty(t, page.CommonPrefixes)
	})

	t.Run("MissingPrefix", func(t *testing.T) {
		page, err := client.ListObjects(ctx, objectstore.ListInput{Prefix: "nothing/"})
		require.NoError(t, err)
		assert.Empty(t, page.Objects)
		assert.False(t, page.IsTruncated)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		_, err := client.ListObjects(ctx, objectstore.ListInput{ContinuationToken: "bogus"})
		assert.Error(t, err)
	})
}

func TestListObjectsPagination(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	var want []string
	for i := 0; i < 25; i++ {
		key := fmt.Sprintf("bulk/file-%03d", i)
		want = append(want, key)
	}
	putKeys(t, client, want...)

	var got []string
	pages := 0
	input := objectstore.ListInput{Prefix: "bulk/", MaxKeys: 10}
	for {
		page, err := client.ListObjects(ctx, input)
		require.NoError(t, err)
		pages++
		assert.LessOrEqual(t, len(page.Objects), 10)
		got = append(got, objectKeys(page)...)

		if !page.IsTruncated {
			break
		}
		require.NotEmpty(t, page.NextContinuationToken)
		input.ContinuationToken = page.NextContinuationToken
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, want, got)
}

func TestListObjectsPaginationWithPrefixes(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	putKeys(t, client,
		"a/1", "a/2", "a/3",
		"b.txt",
		"c/1", "c/2",
		"d.txt",
	)

	var objects, prefixes []string
	input := objectstore.ListInput{Delimiter: "/", MaxKeys: 1}
	for {
		page, err := client.ListObjects(ctx, input)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Objects)+len(page.CommonPrefixes), 1)

		objects = append(objects, objectKeys(page)...)
		prefixes = append(prefixes, page.CommonPrefixes...)
		if !page.IsTruncated {
			break
		}
		input.ContinuationToken = page.NextContinuationToken
	}

	assert.Equal(t, []string{"b.txt", "d.txt"}, objects)
	assert.Equal(t, []string{"a/", "c/"}, prefixes)
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, client.PutObject(ctx, "k", nil), context.Canceled)
	_, err := client.ListObjects(ctx, objectstore.ListInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func objectKeys(page *objectstore.ListPage) []string {
	keys := make([]string, 0, len(page.Objects))
	for _, obj := range page.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}
