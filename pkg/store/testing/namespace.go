package testing

import (
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNamespaceTests executes move, rename and delete tests.
func (suite *StoreTestSuite) RunNamespaceTests(t *testing.T) {
	t.Run("Move_Success", suite.testMove)
	t.Run("Move_Overwrites", suite.testMoveOverwrites)
	t.Run("Move_SourceNotFound", suite.testMoveNotFound)
	t.Run("Move_DirectoryIntoItself", suite.testMoveDirectoryIntoItself)
	t.Run("Rename_PreservesContent", suite.testRenamePreservesContent)
	t.Run("Rename_TopLevel", suite.testRenameTopLevel)
	t.Run("Delete_File", suite.testDeleteFile)
	t.Run("Delete_NotFound", suite.testDeleteNotFound)
	t.Run("Delete_DirectoryRecursive", suite.testDeleteDirectory)
}

func (suite *StoreTestSuite) testMove(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "a.txt", []byte("payload"))

	meta, err := s.Move(testContext(), "a.txt", "sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "sub/b.txt", meta.Path)
	assert.Equal(t, "b.txt", meta.Name)
	assert.Equal(t, int64(7), meta.Size)

	assertNotFound(t, s, "a.txt")
	assertContentEquals(t, s, "sub/b.txt", []byte("payload"))
}

func (suite *StoreTestSuite) testMoveOverwrites(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "src.txt", []byte("new"))
	mustWriteFile(t, s, "dst.txt", []byte("old content"))

	_, err := s.Move(testContext(), "src.txt", "dst.txt")
	require.NoError(t, err)

	assertContentEquals(t, s, "dst.txt", []byte("new"))
}

func (suite *StoreTestSuite) testMoveNotFound(t *testing.T) {
	s := suite.NewStore(t)

	_, err := s.Move(testContext(), "ghost.txt", "b.txt")
	AssertErrorCode(t, store.ErrNotFound, err)
	assertNotFound(t, s, "b.txt")
}

func (suite *StoreTestSuite) testMoveDirectoryIntoItself(t *testing.T) {
	s := suite.NewStore(t)

	mustCreateDirectory(t, s, "loop")
	mustWriteFile(t, s, "loop/a.txt", []byte("a"))

	_, err := s.Move(testContext(), "loop", "loop/inner")
	AssertErrorCode(t, store.ErrInvalidPath, err)
	assertContentEquals(t, s, "loop/a.txt", []byte("a"))
}

func (suite *StoreTestSuite) testRenamePreservesContent(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "dir/old.txt", []byte("same bytes"))

	meta, err := s.Rename(testContext(), "dir/old.txt", "new.txt")
	require.NoError(t, err)
	assert.Equal(t, "dir/new.txt", meta.Path)

	assertNotFound(t, s, "dir/old.txt")
	mustGetMetadata(t, s, "dir/new.txt")
	assertContentEquals(t, s, "dir/new.txt", []byte("same bytes"))
}

func (suite *StoreTestSuite) testRenameTopLevel(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "top.txt", []byte("root level"))

	meta, err := s.Rename(testContext(), "top.txt", "renamed.txt")
	require.NoError(t, err)
	assert.Equal(t, "renamed.txt", meta.Path)

	assertNotFound(t, s, "top.txt")
	assertContentEquals(t, s, "renamed.txt", []byte("root level"))
}

func (suite *StoreTestSuite) testDeleteFile(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "gone.txt", []byte("x"))
	require.NoError(t, s.Delete(testContext(), "gone.txt"))

	assertNotFound(t, s, "gone.txt")
}

func (suite *StoreTestSuite) testDeleteNotFound(t *testing.T) {
	s := suite.NewStore(t)

	err := s.Delete(testContext(), "never-existed.txt")
	AssertErrorCode(t, store.ErrNotFound, err)
}

func (suite *StoreTestSuite) testDeleteDirectory(t *testing.T) {
	s := suite.NewStore(t)

	mustCreateDirectory(t, s, "tree")
	mustWriteFile(t, s, "tree/a.txt", []byte("a"))
	mustWriteFile(t, s, "tree/deep/b.txt", []byte("b"))
	mustWriteFile(t, s, "treehouse.txt", []byte("sibling with shared prefix"))

	require.NoError(t, s.Delete(testContext(), "tree"))

	assertNotFound(t, s, "tree")
	assertNotFound(t, s, "tree/a.txt")
	assertNotFound(t, s, "tree/deep/b.txt")
	assert.Empty(t, mustListRecursive(t, s, "tree", nil))
	assertContentEquals(t, s, "treehouse.txt", []byte("sibling with shared prefix"))
}
