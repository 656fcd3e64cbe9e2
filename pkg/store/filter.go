package store

import "path"

// Filter selects listing entries. A nil Filter keeps every entry.
type Filter func(FileMetadata) bool

// GlobFilter returns a Filter matching entry names against a shell glob
// (path.Match syntax, e.g. "*.txt").
//
// An empty pattern returns a nil Filter. A malformed pattern is reported as
// ErrInvalidPath up front instead of silently matching nothing.
func GlobFilter(pattern string) (Filter, error) {
	if pattern == "" {
		return nil, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, NewError(ErrInvalidPath, "invalid glob pattern", pattern, err)
	}
	return func(m FileMetadata) bool {
		ok, _ := path.Match(pattern, m.Name)
		return ok
	}, nil
}

// And combines filters; nil filters are skipped.
func And(filters ...Filter) Filter {
	var active []Filter
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(m FileMetadata) bool {
		for _, f := range active {
			if !f(m) {
				return false
			}
		}
		return true
	}
}

// FilesOnly keeps regular files.
func FilesOnly(m FileMetadata) bool { return !m.IsDirectory }

// DirectoriesOnly keeps directories.
func DirectoriesOnly(m FileMetadata) bool { return m.IsDirectory }

// Matches reports whether m passes f.
func (f Filter) Matches(m FileMetadata) bool {
	return f == nil || f(m)
}

// ApplyFilter returns the entries passing f, in their original order.
// The result is always a subset of entries and never nil.
func ApplyFilter(entries []FileMetadata, f Filter) []FileMetadata {
	out := make([]FileMetadata, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
