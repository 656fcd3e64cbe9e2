package testing

import (
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunScenarioTests executes end-to-end usage scenarios.
func (suite *StoreTestSuite) RunScenarioTests(t *testing.T) {
	t.Run("DirectoryThenFile", suite.testScenarioDirectoryThenFile)
	t.Run("ListWithSuffixFilter", suite.testScenarioListWithSuffixFilter)
	t.Run("MoveKeepsSize", suite.testScenarioMoveKeepsSize)
}

func (suite *StoreTestSuite) testScenarioDirectoryThenFile(t *testing.T) {
	s := suite.NewStore(t)

	mustCreateDirectory(t, s, "project")
	_, err := s.CreateFile(testContext(), "project/a.txt")
	require.NoError(t, err)
	mustWriteFile(t, s, "project/a.txt", []byte("hi"))

	meta := mustGetMetadata(t, s, "project/a.txt")
	assert.Equal(t, int64(2), meta.Size)
	assert.False(t, meta.IsDirectory)
}

func (suite *StoreTestSuite) testScenarioListWithSuffixFilter(t *testing.T) {
	s := suite.NewStore(t)

	for _, name := range []string{"x.txt", "y.txt", "z.java"} {
		_, err := s.CreateFile(testContext(), name)
		require.NoError(t, err)
	}

	f, err := store.GlobFilter("*.txt")
	require.NoError(t, err)

	entries := mustList(t, s, "", f)
	assert.Equal(t, []string{"x.txt", "y.txt"}, sortedPaths(entries))
}

func (suite *StoreTestSuite) testScenarioMoveKeepsSize(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "a.txt", []byte("twelve bytes"))
	before := mustGetMetadata(t, s, "a.txt")

	_, err := s.Move(testContext(), "a.txt", "b.txt")
	require.NoError(t, err)

	assertNotFound(t, s, "a.txt")
	after := mustGetMetadata(t, s, "b.txt")
	assert.Equal(t, before.Size, after.Size)
}
