// Package errors defines the closed error taxonomy kvignite uses instead
// of ad hoc fmt.Errorf everywhere: a small family of domain error types
// (ValidationError, StorageError, IndexError) built on a shared baseError,
// each carrying the context its own layer cares about (a field, a segment
// and offset, a key and operation) behind a fluent WithX() builder, and
// each classifiable by ErrorCode without parsing message text.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsIndexError reports whether err is or wraps an *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts a *StorageError from err's chain.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsIndexError extracts an *IndexError from err's chain.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetErrorCode returns err's code, or ErrorCodeInternal if it carries none.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails returns err's structured details, or an empty map if it
// carries none. Useful for attaching the whole detail bag to a log line
// without a type switch at the call site.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if d := ve.Details(); d != nil {
			return d
		}
	}
	if se, ok := AsStorageError(err); ok {
		if d := se.Details(); d != nil {
			return d
		}
	}
	if ie, ok := AsIndexError(err); ok {
		if d := ie.Details(); d != nil {
			return d
		}
	}
	return make(map[string]any)
}

// ClassifyDirectoryCreationError turns a MkdirAll failure into a
// StorageError with a code that tells the caller whether retrying makes
// sense (permissions, disk space, read-only mount) or not.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(err, ErrorCodePermissionDenied, "insufficient permissions to create store directory").
			WithPath(path).WithDetail("operation", "directory_creation")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(err, ErrorCodeDiskFull, "insufficient disk space to create store directory").
					WithPath(path).WithDetail("operation", "directory_creation")
			case syscall.EROFS:
				return NewStorageError(err, ErrorCodeFilesystemReadonly, "cannot create directory on read-only filesystem").
					WithPath(path).WithDetail("operation", "directory_creation")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "failed to create store directory").
		WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError turns a segment file open failure into a
// StorageError classified the same way as ClassifyDirectoryCreationError.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewStorageError(err, ErrorCodePermissionDenied, "insufficient permissions to open segment file").
			WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(err, ErrorCodeDiskFull, "insufficient disk space to create segment file").
					WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
			case syscall.EROFS:
				return NewStorageError(err, ErrorCodeFilesystemReadonly, "cannot create segment file on read-only filesystem").
					WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "failed to open segment file").
		WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
}
