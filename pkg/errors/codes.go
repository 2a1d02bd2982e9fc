package errors

// ErrorCode is a stable, parseable-free category for an error, used for
// programmatic handling and log/metric classification instead of string
// matching on Error().
type ErrorCode string

// Base codes apply across every layer.
const (
	ErrorCodeIO           ErrorCode = "IO_ERROR"
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Storage-layer codes.
const (
	// ErrorCodePayloadReadFailure indicates a segment read returned fewer
	// bytes than the index said it should, a short read rather than a
	// clean I/O error.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates replay hit a torn record in a
	// segment other than the last-opened one, which is unrecoverable
	// rather than tolerable.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	ErrorCodePermissionDenied   ErrorCode = "PERMISSION_DENIED"
	ErrorCodeDiskFull           ErrorCode = "DISK_FULL"
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Engine and wire-protocol codes.
const (
	// ErrorCodeKeyNotFound: a remove targeted a key absent from the
	// index. Get reports absence as a normal zero-value result instead.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeCorrupt: an on-disk record failed to decode.
	ErrorCodeCorrupt ErrorCode = "CORRUPT"

	// ErrorCodeUnknownOperation: a wire request named a verb other than get/set/rm.
	ErrorCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"

	// ErrorCodeBadRequest: a wire request was missing its key or value token.
	ErrorCodeBadRequest ErrorCode = "BAD_REQUEST"

	// ErrorCodeEngineMismatch: the requested engine differs from the one
	// a non-empty store directory was created with.
	ErrorCodeEngineMismatch ErrorCode = "ENGINE_MISMATCH"
)

// Index-layer codes.
const (
	ErrorCodeIndexKeyNotFound      ErrorCode = "INDEX_KEY_NOT_FOUND"
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"

	// ErrorCodeIndexCorrupted: the index's own bookkeeping is
	// inconsistent with segment contents, distinct from a single
	// corrupt on-disk record (ErrorCodeCorrupt).
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)
