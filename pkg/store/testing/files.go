package testing

import (
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFileTests executes create/read/write/append and metadata tests.
func (suite *StoreTestSuite) RunFileTests(t *testing.T) {
	t.Run("WriteRead_RoundTrip", suite.testWriteReadRoundTrip)
	t.Run("WriteRead_Empty", suite.testWriteReadEmpty)
	t.Run("WriteRead_Large", suite.testWriteReadLarge)
	t.Run("Write_Truncates", suite.testWriteTruncates)
	t.Run("ReadFile_NotFound", suite.testReadNotFound)
	t.Run("CreateFile_Success", suite.testCreateFile)
	t.Run("CreateFile_AlreadyExists", suite.testCreateFileExists)
	t.Run("CreateDirectory_Success", suite.testCreateDirectory)
	t.Run("CreateDirectory_Idempotent", suite.testCreateDirectoryIdempotent)
	t.Run("CreateDirectory_OverFile", suite.testCreateDirectoryOverFile)
	t.Run("AppendFile", suite.testAppendFile)
	t.Run("GetMetadata_NotFound", suite.testGetMetadataNotFound)
	t.Run("IsHealthy", suite.testIsHealthy)
}

// ============================================================================
// Round-trip Tests
// ============================================================================

func (suite *StoreTestSuite) testWriteReadRoundTrip(t *testing.T) {
	s := suite.NewStore(t)

	data := []byte("Hello, World!")
	mustWriteFile(t, s, "docs/hello.txt", data)

	assertContentEquals(t, s, "docs/hello.txt", data)

	meta := mustGetMetadata(t, s, "docs/hello.txt")
	assert.Equal(t, "hello.txt", meta.Name)
	assert.Equal(t, "docs/hello.txt", meta.Path)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.False(t, meta.IsDirectory)
	assert.False(t, meta.LastModifiedTime.IsZero())
	assert.False(t, meta.CreationTime.IsZero())
}

func (suite *StoreTestSuite) testWriteReadEmpty(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "empty.bin", []byte{})

	assert.Empty(t, mustReadFile(t, s, "empty.bin"))
	assert.Equal(t, int64(0), mustGetMetadata(t, s, "empty.bin").Size)
}

func (suite *StoreTestSuite) testWriteReadLarge(t *testing.T) {
	s := suite.NewStore(t)

	// 2MB crosses every internal buffer size
	data := generateTestData(2 * 1024 * 1024)
	mustWriteFile(t, s, "large.bin", data)

	assertContentEquals(t, s, "large.bin", data)
}

func (suite *StoreTestSuite) testWriteTruncates(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "f.txt", []byte("a much longer first version"))
	mustWriteFile(t, s, "f.txt", []byte("short"))

	assertContentEquals(t, s, "f.txt", []byte("short"))
}

func (suite *StoreTestSuite) testReadNotFound(t *testing.T) {
	s := suite.NewStore(t)

	_, err := s.ReadFile(testContext(), "missing.txt")
	AssertErrorCode(t, store.ErrNotFound, err)
}

// ============================================================================
// Create Tests
// ============================================================================

func (suite *StoreTestSuite) testCreateFile(t *testing.T) {
	s := suite.NewStore(t)

	meta, err := s.CreateFile(testContext(), "new.txt")
	require.NoError(t, err)
	assert.Equal(t, "new.txt", meta.Path)
	assert.Equal(t, "new.txt", meta.Name)
	assert.Equal(t, int64(0), meta.Size)
	assert.False(t, meta.IsDirectory)

	assert.Empty(t, mustReadFile(t, s, "new.txt"))
}

func (suite *StoreTestSuite) testCreateFileExists(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "taken.txt", []byte("keep me"))

	_, err := s.CreateFile(testContext(), "taken.txt")
	AssertErrorCode(t, store.ErrAlreadyExists, err)
	assertContentEquals(t, s, "taken.txt", []byte("keep me"))
}

func (suite *StoreTestSuite) testCreateDirectory(t *testing.T) {
	s := suite.NewStore(t)

	meta := mustCreateDirectory(t, s, "project")
	assert.Equal(t, "project", meta.Path)
	assert.Equal(t, "project", meta.Name)
	assert.True(t, meta.IsDirectory)
	assert.Equal(t, store.DirectorySize, meta.Size)

	stat := mustGetMetadata(t, s, "project")
	assert.True(t, stat.IsDirectory)
	assert.Equal(t, "project", stat.Path)
}

func (suite *StoreTestSuite) testCreateDirectoryIdempotent(t *testing.T) {
	s := suite.NewStore(t)

	mustCreateDirectory(t, s, "again")
	meta := mustCreateDirectory(t, s, "again")
	assert.True(t, meta.IsDirectory)
}

func (suite *StoreTestSuite) testCreateDirectoryOverFile(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "taken", []byte("x"))

	_, err := s.CreateDirectory(testContext(), "taken")
	AssertErrorCode(t, store.ErrAlreadyExists, err)
	assertContentEquals(t, s, "taken", []byte("x"))
}

// ============================================================================
// Append Tests
// ============================================================================

func (suite *StoreTestSuite) testAppendFile(t *testing.T) {
	s := suite.NewStore(t)

	if !suite.SupportsAppend {
		w, err := s.AppendFile(testContext(), "log.txt")
		assert.Nil(t, w)
		AssertErrorCode(t, store.ErrNotSupported, err)
		assertNotFound(t, s, "log.txt")
		return
	}

	for _, chunk := range []string{"one\n", "two\n"} {
		w, err := s.AppendFile(testContext(), "log.txt")
		require.NoError(t, err)
		_, err = w.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	assertContentEquals(t, s, "log.txt", []byte("one\ntwo\n"))
}

// ============================================================================
// Metadata and Health Tests
// ============================================================================

func (suite *StoreTestSuite) testGetMetadataNotFound(t *testing.T) {
	s := suite.NewStore(t)
	assertNotFound(t, s, "nope/nothing.txt")
}

func (suite *StoreTestSuite) testIsHealthy(t *testing.T) {
	s := suite.NewStore(t)
	assert.True(t, s.IsHealthy(testContext()))
}
