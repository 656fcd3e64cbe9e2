package testing

import (
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode checks that err carries the expected StoreError code.
func AssertErrorCode(t *testing.T, expected store.ErrorCode, err error) {
	t.Helper()
	require.Error(t, err)
	var se *store.StoreError
	if !errors.As(err, &se) {
		t.Errorf("Expected StoreError with code %s, got %T: %v", expected, err, err)
		return
	}
	assert.Equal(t, expected, se.Code, "unexpected error code: %v", err)
}

// mustWriteFile writes data through WriteFile and fails the test on error,
// including an error returned by Close.
func mustWriteFile(t *testing.T, s store.Store, path string, data []byte) {
	t.Helper()
	w, err := s.WriteFile(testContext(), path)
	require.NoError(t, err, "WriteFile should succeed")

	_, err = w.Write(data)
	require.NoError(t, err, "Write should succeed")
	require.NoError(t, w.Close(), "Close should finalize the write")
}

// mustReadFile reads the whole content of path.
func mustReadFile(t *testing.T, s store.Store, path string) []byte {
	t.Helper()
	r, err := s.ReadFile(testContext(), path)
	require.NoError(t, err, "ReadFile should succeed")
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	require.NoError(t, err, "Reading content should succeed")
	return data
}

// mustCreateDirectory creates a directory and fails the test on error.
func mustCreateDirectory(t *testing.T, s store.Store, path string) store.FileMetadata {
	t.Helper()
	meta, err := s.CreateDirectory(testContext(), path)
	require.NoError(t, err, "CreateDirectory should succeed")
	return meta
}

// mustGetMetadata stats path and fails the test on error.
func mustGetMetadata(t *testing.T, s store.Store, path string) store.FileMetadata {
	t.Helper()
	meta, err := s.GetMetadata(testContext(), path)
	require.NoError(t, err, "GetMetadata should succeed")
	return meta
}

// mustList lists dir and fails the test on error.
func mustList(t *testing.T, s store.Store, dir string, filter store.Filter) []store.FileMetadata {
	t.Helper()
	entries, err := s.List(testContext(), dir, filter)
	require.NoError(t, err, "List should succeed")
	return entries
}

// mustListRecursive lists dir recursively and fails the test on error.
func mustListRecursive(t *testing.T, s store.Store, dir string, filter store.Filter) []store.FileMetadata {
	t.Helper()
	entries, err := s.ListRecursive(testContext(), dir, filter)
	require.NoError(t, err, "ListRecursive should succeed")
	return entries
}

// assertContentEquals checks the content stored at path.
func assertContentEquals(t *testing.T, s store.Store, path string, expected []byte) {
	t.Helper()
	actual := mustReadFile(t, s, path)
	assert.Equal(t, expected, actual, "Content mismatch at %s", path)
}

// assertNotFound checks that path doesn't exist.
func assertNotFound(t *testing.T, s store.Store, path string) {
	t.Helper()
	_, err := s.GetMetadata(testContext(), path)
	AssertErrorCode(t, store.ErrNotFound, err)
}

// sortedPaths returns the entry paths in lexical order.
func sortedPaths(entries []store.FileMetadata) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	sort.Strings(paths)
	return paths
}

// generateTestData creates test data of specified size.
func generateTestData(size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = byte(i % 256)
	}
	return data
}
