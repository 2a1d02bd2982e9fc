package errors

// StorageError carries the on-disk location a storage-layer failure
// happened at: which segment, what byte offset, which file and path.
type StorageError struct {
	*baseError
	segmentId int
	offset    int
	fileName  string
	path      string
}

// NewStorageError builds a StorageError from a cause, code and message.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

func (se *StorageError) WithSegmentID(id int) *StorageError {
	se.segmentId = id
	return se
}

func (se *StorageError) WithOffset(offset int) *StorageError {
	se.offset = offset
	return se
}

func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

func (se *StorageError) SegmentId() int {
	return se.segmentId
}

func (se *StorageError) Offset() int {
	return se.offset
}

func (se *StorageError) FileName() string {
	return se.fileName
}

func (se *StorageError) Path() string {
	return se.path
}
