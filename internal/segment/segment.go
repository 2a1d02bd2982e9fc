// Package segment implements the on-disk segment file abstraction: a
// single append-only log file identified by a positive integer id,
// named "<id>.log", plus the pure directory scan that discovers which
// segment ids exist for a store. It also owns the active-segment
// bookkeeping the storage engine needs: one open file handle per
// segment, kept for the store's lifetime, with the active segment
// re-sought to end-of-file before every append so interleaved
// random-access reads never corrupt the write cursor.
package segment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/filesys"
)

const extension = ".log"

// Name returns the on-disk filename for segment id, "<id>.log".
func Name(id uint64) string {
	return strconv.FormatUint(id, 10) + extension
}

// Path joins dir with the filename for segment id.
func Path(dir string, id uint64) string {
	return filepath.Join(dir, Name(id))
}

// ListIDs enumerates the segment ids present in dir, ascending. Files
// whose name does not match "<decimal-id>.log" (no leading zeros) are
// ignored. This performs no I/O beyond the directory listing itself.
func ListIDs(dir string) ([]uint64, error) {
	matches, err := filesys.ReadDir(filepath.Join(dir, "*"+extension))
	if err != nil {
		return nil, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to list segment directory").
			WithPath(dir)
	}

	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		idPart := strings.TrimSuffix(base, extension)
		if idPart == "" || (len(idPart) > 1 && idPart[0] == '0') {
			continue // leading zero or empty: malformed, ignored
		}

		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil || id == 0 {
			continue // non-numeric or zero: malformed, ignored (ids are positive)
		}

		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// File is a single open segment: one append-write, random-read file
// handle plus the id that names it.
type File struct {
	id   uint64
	path string
	fd   *os.File
}

// CreateNew creates a brand-new, empty segment file. It fails if the
// file already exists.
func CreateNew(dir string, id uint64) (*File, error) {
	path := Path(dir, id)
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, kverrors.ClassifyFileOpenError(err, path, Name(id))
	}
	return &File{id: id, path: path, fd: fd}, nil
}

// OpenExisting opens a previously created segment file for append and
// random read, positioning the cursor at end-of-file.
func OpenExisting(dir string, id uint64) (*File, error) {
	path := Path(dir, id)
	fd, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, kverrors.ClassifyFileOpenError(err, path, Name(id))
	}
	if _, err := fd.Seek(0, io.SeekEnd); err != nil {
		fd.Close()
		return nil, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to seek to end of segment").
			WithPath(path).WithFileName(Name(id))
	}
	return &File{id: id, path: path, fd: fd}, nil
}

// ID returns the segment's identifier.
func (f *File) ID() uint64 { return f.id }

// Path returns the segment's on-disk path.
func (f *File) Path() string { return f.path }

// Append writes the already-encoded bytes of one record, seeking to
// end-of-file first so an interleaved ReadAt on the same handle can
// never leave the cursor somewhere unexpected. It returns the byte
// offset the write began at and the number of bytes written.
func (f *File) Append(data []byte) (offset int64, length int, err error) {
	offset, err = f.fd.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to seek to end of segment before append").
			WithPath(f.path).WithFileName(Name(f.id))
	}

	n, err := f.fd.Write(data)
	if err != nil {
		return 0, 0, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to append to segment").
			WithPath(f.path).WithFileName(Name(f.id)).WithOffset(int(offset))
	}
	return offset, n, nil
}

// ReadAt seeks to offset and reads exactly length bytes. A short read is
// treated as corruption rather than silently returning a partial value.
func (f *File) ReadAt(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := f.fd.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to read segment at offset").
			WithPath(f.path).WithFileName(Name(f.id)).WithOffset(int(offset))
	}
	if n != length {
		return nil, kverrors.NewStorageError(
			fmt.Errorf("read %d of %d expected bytes", n, length),
			kverrors.ErrorCodePayloadReadFailure,
			"short read resolving index entry",
		).WithPath(f.path).WithFileName(Name(f.id)).WithOffset(int(offset))
	}
	return buf, nil
}

// Size returns the current size of the segment file in bytes.
func (f *File) Size() (int64, error) {
	info, err := f.fd.Stat()
	if err != nil {
		return 0, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to stat segment").
			WithPath(f.path).WithFileName(Name(f.id))
	}
	return info.Size(), nil
}

// Truncate shortens the segment to size bytes and repositions the
// write cursor there. Used during recovery to drop a torn trailing
// record from the last-opened segment.
func (f *File) Truncate(size int64) error {
	if err := f.fd.Truncate(size); err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to truncate segment").
			WithPath(f.path).WithFileName(Name(f.id))
	}
	if _, err := f.fd.Seek(size, io.SeekStart); err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to reposition after truncate").
			WithPath(f.path).WithFileName(Name(f.id))
	}
	return nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	if err := f.fd.Close(); err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to close segment").
			WithPath(f.path).WithFileName(Name(f.id))
	}
	return nil
}
