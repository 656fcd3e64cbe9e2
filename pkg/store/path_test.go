package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "a.txt", false},
		{"nested", "project/src/main.go", false},
		{"dotted name", "a..b/file", false},
		{"current dir segment", "./a.txt", false},
		{"trailing slash", "dir/", false},
		{"empty", "", true},
		{"absolute unix", "/etc/passwd", true},
		{"absolute windows", `\windows\system32`, true},
		{"drive letter", `C:\Users`, true},
		{"drive letter forward slash", "c:/Users", true},
		{"parent only", "..", true},
		{"parent prefix", "../secret", true},
		{"parent in middle", "a/../../b", true},
		{"parent with backslash", `a\..\b`, true},
		{"nul byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidPath(err), "expected InvalidPath, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateOptionalPath_EmptyIsRoot(t *testing.T) {
	assert.NoError(t, ValidateOptionalPath(""))
	assert.True(t, IsInvalidPath(ValidateOptionalPath("/")))
	assert.True(t, IsInvalidPath(ValidateOptionalPath("x/..")))
}

func TestValidateNewName(t *testing.T) {
	assert.NoError(t, ValidateNewName("b.txt"))
	assert.NoError(t, ValidateNewName(".hidden"))

	for _, bad := range []string{"", "..", "a..b", "a/b", `a\b`} {
		err := ValidateNewName(bad)
		assert.True(t, IsInvalidPath(err), "name %q should be rejected", bad)
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":             "",
		".":            "",
		"/":            "",
		"a":            "a",
		"a/":           "a",
		"./a/./b//c/":  "a/b/c",
		`dir\sub\file`: "dir/sub/file",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPath(in), "CleanPath(%q)", in)
	}
}

func TestParentPrefix(t *testing.T) {
	assert.Equal(t, "", ParentPrefix("a.txt"))
	assert.Equal(t, "dir/", ParentPrefix("dir/a.txt"))
	assert.Equal(t, "a/b/", ParentPrefix("a/b/c"))
}

func TestBaseNameAndJoin(t *testing.T) {
	assert.Equal(t, "c", BaseName("a/b/c"))
	assert.Equal(t, "a", BaseName("a"))
	assert.Equal(t, "", BaseName(""))

	assert.Equal(t, "x", JoinPath("", "x"))
	assert.Equal(t, "d/x", JoinPath("d", "x"))
}

func TestHasTrailingSlash(t *testing.T) {
	assert.True(t, HasTrailingSlash("dir/"))
	assert.False(t, HasTrailingSlash("dir"))
}

func TestStoreError_Is(t *testing.T) {
	err := NewError(ErrNotFound, "file not found", "a.txt", errors.New("enoent"))

	assert.True(t, errors.Is(err, ErrNotFoundError))
	assert.False(t, errors.Is(err, ErrInvalidPathError))
	assert.Equal(t, "file not found: a.txt: enoent", err.Error())

	wrapped := errors.Join(errors.New("outer"), err)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, ErrStorageFailure, CodeOf(errors.New("plain")))
	assert.Equal(t, "NotSupported", ErrNotSupported.String())
}
