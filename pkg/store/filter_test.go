package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []FileMetadata {
	now := time.Now()
	return []FileMetadata{
		NewFileMetadata("x.txt", 1, now, now),
		NewFileMetadata("y.txt", 2, now, now),
		NewFileMetadata("z.java", 3, now, now),
		NewDirectoryMetadata("docs", now, now),
	}
}

func TestGlobFilter(t *testing.T) {
	f, err := GlobFilter("*.txt")
	require.NoError(t, err)

	got := ApplyFilter(sampleEntries(), f)
	require.Len(t, got, 2)
	assert.Equal(t, "x.txt", got[0].Name)
	assert.Equal(t, "y.txt", got[1].Name)
}

func TestGlobFilter_EmptyPatternKeepsAll(t *testing.T) {
	f, err := GlobFilter("")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Len(t, ApplyFilter(sampleEntries(), f), 4)
}

func TestGlobFilter_Malformed(t *testing.T) {
	_, err := GlobFilter("[")
	assert.True(t, IsInvalidPath(err))
}

func TestApplyFilter_NarrowsNeverWidens(t *testing.T) {
	entries := sampleEntries()
	filters := []Filter{nil, FilesOnly, DirectoriesOnly, And(FilesOnly, func(m FileMetadata) bool { return m.Size > 1 })}

	for _, f := range filters {
		got := ApplyFilter(entries, f)
		assert.LessOrEqual(t, len(got), len(entries))
		for _, g := range got {
			assert.Contains(t, entries, g)
		}
	}
}

func TestAnd_AllNil(t *testing.T) {
	assert.Nil(t, And(nil, nil))
}

func TestMetadataConstructors(t *testing.T) {
	now := time.Now()
	dir := NewDirectoryMetadata("project/", now, now)
	assert.Equal(t, "project", dir.Path)
	assert.Equal(t, "project", dir.Name)
	assert.Equal(t, DirectorySize, dir.Size)
	assert.True(t, dir.IsDirectory)

	file := NewFileMetadata("project/a.txt", 2, now, now)
	assert.Equal(t, "a.txt", file.Name)
	assert.False(t, file.IsDirectory)
}
