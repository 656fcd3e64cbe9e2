package testing

import (
	"strings"
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunListingTests executes List and ListRecursive tests.
func (suite *StoreTestSuite) RunListingTests(t *testing.T) {
	t.Run("List_MissingDirectoryIsEmpty", suite.testListMissing)
	t.Run("List_NotADirectory", suite.testListNotDirectory)
	t.Run("List_ImmediateChildren", suite.testListImmediateChildren)
	t.Run("List_Root", suite.testListRoot)
	t.Run("List_FilterNarrows", suite.testListFilterNarrows)
	t.Run("ListRecursive_ExcludesSelf", suite.testListRecursiveExcludesSelf)
	t.Run("ListRecursive_MissingDirectoryIsEmpty", suite.testListRecursiveMissing)
	t.Run("ListRecursive_Filter", suite.testListRecursiveFilter)
}

// populateTree creates:
//
//	project/            (directory)
//	project/a.txt
//	project/b.java
//	project/sub/        (directory)
//	project/sub/c.txt
func populateTree(t *testing.T, s store.Store) {
	t.Helper()
	mustCreateDirectory(t, s, "project")
	mustWriteFile(t, s, "project/a.txt", []byte("a"))
	mustWriteFile(t, s, "project/b.java", []byte("bb"))
	mustCreateDirectory(t, s, "project/sub")
	mustWriteFile(t, s, "project/sub/c.txt", []byte("ccc"))
}

func (suite *StoreTestSuite) testListMissing(t *testing.T) {
	s := suite.NewStore(t)

	entries := mustList(t, s, "missingDir", nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	f, err := store.GlobFilter("*.txt")
	require.NoError(t, err)
	assert.Empty(t, mustList(t, s, "missingDir", f))
}

func (suite *StoreTestSuite) testListNotDirectory(t *testing.T) {
	s := suite.NewStore(t)

	mustWriteFile(t, s, "plain.txt", []byte("not a dir"))

	_, err := s.List(testContext(), "plain.txt", nil)
	AssertErrorCode(t, store.ErrNotDirectory, err)

	_, err = s.ListRecursive(testContext(), "plain.txt", nil)
	AssertErrorCode(t, store.ErrNotDirectory, err)
}

func (suite *StoreTestSuite) testListImmediateChildren(t *testing.T) {
	s := suite.NewStore(t)
	populateTree(t, s)

	entries := mustList(t, s, "project", nil)
	assert.Equal(t, []string{"project/a.txt", "project/b.java", "project/sub"}, sortedPaths(entries))

	for _, e := range entries {
		switch e.Path {
		case "project/sub":
			assert.True(t, e.IsDirectory)
			assert.Equal(t, "sub", e.Name)
			assert.Equal(t, store.DirectorySize, e.Size)
		case "project/b.java":
			assert.False(t, e.IsDirectory)
			assert.Equal(t, int64(2), e.Size)
		}
	}
}

func (suite *StoreTestSuite) testListRoot(t *testing.T) {
	s := suite.NewStore(t)
	populateTree(t, s)
	mustWriteFile(t, s, "readme.md", []byte("top"))

	entries := mustList(t, s, "", nil)
	assert.Equal(t, []string{"project", "readme.md"}, sortedPaths(entries))
}

func (suite *StoreTestSuite) testListFilterNarrows(t *testing.T) {
	s := suite.NewStore(t)
	populateTree(t, s)

	all := mustList(t, s, "project", nil)

	filters := map[string]store.Filter{
		"files":       store.FilesOnly,
		"directories": store.DirectoriesOnly,
		"none":        func(store.FileMetadata) bool { return false },
		"txt":         func(m store.FileMetadata) bool { return strings.HasSuffix(m.Name, ".txt") },
	}

	for name, f := range filters {
		filtered := mustList(t, s, "project", f)
		assert.LessOrEqual(t, len(filtered), len(all), "filter %s widened the result", name)
		for _, e := range filtered {
			assert.Contains(t, sortedPaths(all), e.Path, "filter %s produced an unknown entry", name)
		}
	}
}

func (suite *StoreTestSuite) testListRecursiveExcludesSelf(t *testing.T) {
	s := suite.NewStore(t)
	populateTree(t, s)

	entries := mustListRecursive(t, s, "project", nil)
	for _, e := range entries {
		assert.NotEqual(t, "project", e.Path)
	}

	assert.Equal(t,
		[]string{"project/a.txt", "project/b.java", "project/sub", "project/sub/c.txt"},
		sortedPaths(entries))
}

func (suite *StoreTestSuite) testListRecursiveMissing(t *testing.T) {
	s := suite.NewStore(t)

	entries := mustListRecursive(t, s, "missingDir", nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func (suite *StoreTestSuite) testListRecursiveFilter(t *testing.T) {
	s := suite.NewStore(t)
	populateTree(t, s)

	f, err := store.GlobFilter("*.txt")
	require.NoError(t, err)

	entries := mustListRecursive(t, s, "project", f)
	assert.Equal(t, []string{"project/a.txt", "project/sub/c.txt"}, sortedPaths(entries))
}
