package store

import (
	"regexp"
	"strings"
)

// drivePathPattern matches drive-letter absolute paths like C:\ or C:/
var drivePathPattern = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// ValidatePath checks a caller-supplied path for a write-type operation.
//
// The path must be non-empty and relative. Rejected:
//   - empty paths
//   - paths starting with "/" or "\"
//   - drive-letter absolute paths ("C:\...")
//   - any ".." segment
//   - NUL bytes
//
// Returns an ErrInvalidPath StoreError on rejection.
func ValidatePath(p string) error {
	if p == "" {
		return NewError(ErrInvalidPath, "path is required", p, nil)
	}
	return ValidateOptionalPath(p)
}

// ValidateOptionalPath checks a path for a read-type operation.
//
// Same rules as ValidatePath, except that the empty path is accepted and
// means the root.
func ValidateOptionalPath(p string) error {
	if p == "" {
		return nil
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return NewError(ErrInvalidPath, "absolute paths are not allowed", p, nil)
	}
	if drivePathPattern.MatchString(p) {
		return NewError(ErrInvalidPath, "drive-letter paths are not allowed", p, nil)
	}
	if strings.ContainsRune(p, 0) {
		return NewError(ErrInvalidPath, "path contains a NUL byte", p, nil)
	}
	if hasParentSegment(p) {
		return NewError(ErrInvalidPath, "path traversal is not allowed", p, nil)
	}
	return nil
}

// ValidateNewName checks the target name of a rename.
func ValidateNewName(name string) error {
	switch {
	case name == "":
		return NewError(ErrInvalidPath, "new name is required", name, nil)
	case strings.Contains(name, ".."):
		return NewError(ErrInvalidPath, "new name must not contain '..'", name, nil)
	case strings.ContainsAny(name, `/\`):
		return NewError(ErrInvalidPath, "new name must not contain a path separator", name, nil)
	case strings.ContainsRune(name, 0):
		return NewError(ErrInvalidPath, "new name contains a NUL byte", name, nil)
	}
	return nil
}

// hasParentSegment reports whether any "/" or "\" separated segment is "..".
func hasParentSegment(p string) bool {
	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	for _, s := range segments {
		if s == ".." {
			return true
		}
	}
	return false
}

// CleanPath normalizes a validated relative path.
//
// Backslashes become slashes, empty and "." segments are dropped, and the
// trailing slash is removed. The root ("", ".", "/") cleans to "".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, "/")
}

// HasTrailingSlash reports whether p explicitly names a directory prefix.
func HasTrailingSlash(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`)
}

// ParentPrefix returns the text of p up to and including its last "/".
//
// A top-level path has no "/" and yields "", so a rename of "a.txt" to
// "b.txt" targets the root.
func ParentPrefix(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx+1]
}

// BaseName returns the final segment of a cleaned path.
func BaseName(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

// JoinPath joins a directory path and a child name.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
