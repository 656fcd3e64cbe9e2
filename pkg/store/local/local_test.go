package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	storetesting "github.com/marmos91/fshandler/pkg/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStore_Conformance(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			return newTestStore(t)
		},
		SupportsAppend: true,
	}
	suite.Run(t)
}

func TestNew_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")

	s, err := New(context.Background(), root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, filepath.IsAbs(s.Root()))
}

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}

func TestNew_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := New(context.Background(), file)
	assert.Error(t, err)
}

func TestResolve_Containment(t *testing.T) {
	s := newTestStore(t)

	accepted := []string{"", ".", "a", "a/b/c.txt", "./a", "a/./b", "dir/"}
	for _, p := range accepted {
		abs, err := s.resolve(p)
		require.NoError(t, err, "path %q", p)

		rel, err := filepath.Rel(s.Root(), abs)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(rel, ".."), "path %q resolved outside root: %s", p, abs)
	}

	rejected := []string{"..", "../x", "a/../../x", "a/b/../../../etc"}
	for _, p := range rejected {
		_, err := s.resolve(p)
		assert.True(t, store.IsInvalidPath(err), "path %q should be rejected, got %v", p, err)
	}
}

func TestResolve_RootAliases(t *testing.T) {
	s := newTestStore(t)

	for _, p := range []string{"", "."} {
		abs, err := s.resolve(p)
		require.NoError(t, err)
		assert.Equal(t, s.Root(), abs)
	}
}

func TestGetMetadata_Root(t *testing.T) {
	s := newTestStore(t)

	meta, err := s.GetMetadata(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, meta.IsDirectory)
	assert.Equal(t, "", meta.Path)
	assert.Equal(t, "", meta.Name)
}

func TestDirectorySize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateDirectory(ctx, "d")
	require.NoError(t, err)
	w, err := s.WriteFile(ctx, "d/file.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("content"))
	require.NoError(t, w.Close())

	meta, err := s.GetMetadata(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, store.DirectorySize, meta.Size)
}

func TestReadFile_Directory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateDirectory(ctx, "d")
	require.NoError(t, err)

	_, err = s.ReadFile(ctx, "d")
	storetesting.AssertErrorCode(t, store.ErrIsDirectory, err)
}

func TestWriteFile_CloseTwice(t *testing.T) {
	s := newTestStore(t)

	w, err := s.WriteFile(context.Background(), "f.txt")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	storetesting.AssertErrorCode(t, store.ErrClosed, w.Close())
	_, err = w.Write([]byte("late"))
	storetesting.AssertErrorCode(t, store.ErrClosed, err)
}

func TestWriteFile_LandsOnDisk(t *testing.T) {
	s := newTestStore(t)

	w, err := s.WriteFile(context.Background(), "a/b/c.txt")
	require.NoError(t, err)
	_, err = io.WriteString(w, "on disk")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(s.Root(), "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "on disk", string(data))
}

func TestDelete_Root(t *testing.T) {
	s := newTestStore(t)

	err := s.Delete(context.Background(), "")
	assert.True(t, store.IsInvalidPath(err))
}

func TestMove_CreatesDestinationParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateFile(ctx, "a.txt")
	require.NoError(t, err)

	meta, err := s.Move(ctx, "a.txt", "x/y/z.txt")
	require.NoError(t, err)
	assert.Equal(t, "x/y/z.txt", meta.Path)

	_, err = os.Stat(filepath.Join(s.Root(), "x", "y", "z.txt"))
	assert.NoError(t, err)
}

func TestRename_Directory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateFile(ctx, "old/inner.txt")
	require.NoError(t, err)

	meta, err := s.Rename(ctx, "old", "new")
	require.NoError(t, err)
	assert.True(t, meta.IsDirectory)

	_, err = s.GetMetadata(ctx, "new/inner.txt")
	assert.NoError(t, err)
}

func TestIsHealthy_RootRemoved(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.IsHealthy(context.Background()))

	require.NoError(t, os.RemoveAll(s.Root()))
	assert.False(t, s.IsHealthy(context.Background()))
}

func TestIsHealthy_CancelledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.IsHealthy(ctx))
}

func TestListRecursive_WalkOrderIncludesNested(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"r/1.txt", "r/a/2.txt", "r/a/b/3.txt"} {
		_, err := s.CreateFile(ctx, p)
		require.NoError(t, err)
	}

	entries, err := s.ListRecursive(ctx, "r", nil)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.ElementsMatch(t, []string{"r/1.txt", "r/a", "r/a/2.txt", "r/a/b", "r/a/b/3.txt"}, paths)
}
