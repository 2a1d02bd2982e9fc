package errors

// IndexError carries which key and operation were involved when an
// in-memory index failure occurred, plus (for corruption scenarios) the
// index's size and estimated memory footprint at the time.
type IndexError struct {
	*baseError
	key         string
	segmentID   uint64
	operation   string
	indexSize   int
	memoryUsage int64
}

// NewIndexError builds an IndexError from a cause, code and message.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

func (ie *IndexError) WithSegmentID(segmentID uint64) *IndexError {
	ie.segmentID = segmentID
	return ie
}

func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

func (ie *IndexError) WithMemoryUsage(usage int64) *IndexError {
	ie.memoryUsage = usage
	return ie
}

func (ie *IndexError) Key() string {
	return ie.key
}

func (ie *IndexError) SegmentID() uint64 {
	return ie.segmentID
}

func (ie *IndexError) Operation() string {
	return ie.operation
}

func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

func (ie *IndexError) MemoryUsage() int64 {
	return ie.memoryUsage
}

// NewKeyNotFoundError builds the error for a key absent from the index.
func NewKeyNotFoundError(key string) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexKeyNotFound, "key not found in index").
		WithKey(key).WithOperation("Get")
}

// NewIndexCorruptionError builds the error for when the index itself is
// in an inconsistent state relative to segment contents, e.g. a pointer
// resolves to a record whose key doesn't match the one it was filed
// under. indexSize and cause give an operator enough to judge how bad
// the inconsistency is without re-reading every segment.
func NewIndexCorruptionError(operation string, indexSize int, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexCorrupted, "index entry inconsistent with segment contents").
		WithOperation(operation).WithIndexSize(indexSize)
}
