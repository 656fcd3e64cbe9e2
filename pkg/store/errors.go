package store

import "errors"

// StoreError represents a domain error from a storage operation.
//
// These are contract-level errors (path rejected, file not found, capability
// missing) as opposed to the native failures of the medium, which are kept
// in Err for diagnostics.
//
// Callers translate StoreError codes to their own responses, e.g. an HTTP
// adapter maps ErrInvalidPath to 400 and ErrNotFound to 404.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the storage path related to the error (if applicable)
	Path string

	// Err is the underlying cause (if any)
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is/As can reach it.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a StoreError with the same code.
//
// This makes the package-level sentinels usable with errors.Is:
//
//	if errors.Is(err, store.ErrNotFoundError) { ... }
func (e *StoreError) Is(target error) bool {
	var t *StoreError
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Path == "" && t.Err == nil && t.Code == e.Code
}

// ErrorCode represents the category of a storage error.
type ErrorCode int

const (
	// ErrStorageFailure is the catch-all for failures of the underlying
	// medium: permissions, I/O, network, service errors.
	ErrStorageFailure ErrorCode = iota

	// ErrInvalidPath indicates the validator rejected a path or name.
	// Never retried, always a caller error.
	ErrInvalidPath

	// ErrNotFound indicates the file, directory or object does not exist
	ErrNotFound

	// ErrAlreadyExists indicates an exclusive create found an existing entry
	ErrAlreadyExists

	// ErrNotDirectory indicates operation expected a directory but got a file
	ErrNotDirectory

	// ErrIsDirectory indicates operation expected a file but got a directory
	ErrIsDirectory

	// ErrNotSupported indicates the active backend cannot perform the
	// operation at all (e.g. append on an object store)
	ErrNotSupported

	// ErrClosed indicates the backend or stream has already been released
	ErrClosed
)

// String returns the code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrStorageFailure:
		return "StorageFailure"
	case ErrInvalidPath:
		return "InvalidPath"
	case ErrNotFound:
		return "NotFound"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrNotDirectory:
		return "NotDirectory"
	case ErrIsDirectory:
		return "IsDirectory"
	case ErrNotSupported:
		return "NotSupported"
	case ErrClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is comparisons. They only carry a code.
var (
	ErrStorageFailureError = &StoreError{Code: ErrStorageFailure}
	ErrInvalidPathError    = &StoreError{Code: ErrInvalidPath}
	ErrNotFoundError       = &StoreError{Code: ErrNotFound}
	ErrAlreadyExistsError  = &StoreError{Code: ErrAlreadyExists}
	ErrNotDirectoryError   = &StoreError{Code: ErrNotDirectory}
	ErrIsDirectoryError    = &StoreError{Code: ErrIsDirectory}
	ErrNotSupportedError   = &StoreError{Code: ErrNotSupported}
	ErrClosedError         = &StoreError{Code: ErrClosed}
)

// NewError builds a StoreError.
func NewError(code ErrorCode, message, path string, cause error) *StoreError {
	return &StoreError{Code: code, Message: message, Path: path, Err: cause}
}

// CodeOf returns the code of the first StoreError in err's chain.
// Errors that are not StoreErrors report ErrStorageFailure.
func CodeOf(err error) ErrorCode {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrStorageFailure
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == ErrNotFound
}

// IsInvalidPath reports whether err carries ErrInvalidPath.
func IsInvalidPath(err error) bool {
	return err != nil && CodeOf(err) == ErrInvalidPath
}

// IsNotSupported reports whether err carries ErrNotSupported.
func IsNotSupported(err error) bool {
	return err != nil && CodeOf(err) == ErrNotSupported
}
