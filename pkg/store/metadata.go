package store

import "time"

// DirectorySize is the Size reported for directories by every backend.
//
// Local directories have no meaningful byte size and object-store
// pseudo-directories are zero-byte markers, so both report 0.
const DirectorySize int64 = 0

// FileMetadata is a snapshot of one file or directory.
//
// A FileMetadata is built fresh on every query and never cached. Path is
// relative to the backend root, forward-slash separated, and never carries
// a leading "/", a ".." segment, or the trailing "/" of an object-store
// directory marker. Name is the final segment of Path ("" for the root).
type FileMetadata struct {
	Name             string    `json:"name"`
	Path             string    `json:"path"`
	Size             int64     `json:"size"`
	CreationTime     time.Time `json:"creationTime"`
	LastModifiedTime time.Time `json:"lastModifiedTime"`
	IsDirectory      bool      `json:"isDirectory"`
}

// NewFileMetadata builds a record for a regular file.
func NewFileMetadata(p string, size int64, created, modified time.Time) FileMetadata {
	p = CleanPath(p)
	return FileMetadata{
		Name:             BaseName(p),
		Path:             p,
		Size:             size,
		CreationTime:     created,
		LastModifiedTime: modified,
	}
}

// NewDirectoryMetadata builds a record for a directory.
func NewDirectoryMetadata(p string, created, modified time.Time) FileMetadata {
	p = CleanPath(p)
	return FileMetadata{
		Name:             BaseName(p),
		Path:             p,
		Size:             DirectorySize,
		CreationTime:     created,
		LastModifiedTime: modified,
		IsDirectory:      true,
	}
}
