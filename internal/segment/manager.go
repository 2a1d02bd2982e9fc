package segment

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/filesys"
)

// Manager owns every open segment file handle for one store directory
// and tracks which segment is currently active (the write target): one
// handle per segment, kept open for the store's lifetime, closed only
// when the store shuts down or compaction deletes the file.
//
// Manager does not decide when to compact or how to rewrite records;
// that orchestration belongs to the engine. Manager only exposes the
// segment-file primitives the engine composes: append to the active
// segment, random-read any segment, create/retire segments.
type Manager struct {
	mu       sync.Mutex
	dir      string
	log      *zap.SugaredLogger
	files    map[uint64]*File
	activeID uint64
}

// Open scans dir for existing segments, opens a handle for each, and
// returns a Manager with no active segment selected yet; the caller
// chooses the active id after replaying the index.
func Open(dir string, log *zap.SugaredLogger) (*Manager, []uint64, error) {
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, nil, kverrors.ClassifyDirectoryCreationError(err, dir)
	}

	ids, err := ListIDs(dir)
	if err != nil {
		return nil, nil, err
	}

	m := &Manager{dir: dir, log: log, files: make(map[uint64]*File, len(ids))}
	for _, id := range ids {
		f, err := OpenExisting(dir, id)
		if err != nil {
			m.closeAll()
			return nil, nil, err
		}
		m.files[id] = f
	}

	return m, ids, nil
}

// SetActive designates id as the write target. The segment must already
// be open (created via CreateActive or discovered by Open).
func (m *Manager) SetActive(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = id
}

// ActiveID returns the currently active segment id.
func (m *Manager) ActiveID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// CreateActive creates a brand-new empty segment with id and makes it
// the active segment.
func (m *Manager) CreateActive(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := CreateNew(m.dir, id)
	if err != nil {
		return err
	}
	m.files[id] = f
	m.activeID = id
	return nil
}

// AppendActive appends data to the active segment, returning its
// locator (offset, length).
func (m *Manager) AppendActive(data []byte) (id uint64, offset int64, length int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[m.activeID]
	if !ok {
		return 0, 0, 0, fmt.Errorf("segment: no active segment open (id %d)", m.activeID)
	}
	offset, length, err = f.Append(data)
	return m.activeID, offset, length, err
}

// ActiveSize returns the current size of the active segment.
func (m *Manager) ActiveSize() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[m.activeID]
	if !ok {
		return 0, fmt.Errorf("segment: no active segment open (id %d)", m.activeID)
	}
	return f.Size()
}

// ReadAt performs a random-access read against the named segment,
// resolving an index hit into bytes the record codec can decode.
func (m *Manager) ReadAt(id uint64, offset int64, length int) ([]byte, error) {
	m.mu.Lock()
	f, ok := m.files[id]
	m.mu.Unlock()

	if !ok {
		return nil, kverrors.NewIndexError(nil, kverrors.ErrorCodeIndexInvalidSegmentID, "index points at a segment with no open handle").
			WithSegmentID(id)
	}
	return f.ReadAt(offset, length)
}

// File returns the open handle for id, used by recovery to replay a
// segment's contents and to truncate a torn trailing record.
func (m *Manager) File(id uint64) (*File, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	return f, ok
}

// Remove closes and deletes every segment file whose id is <= upTo. It
// is the caller's responsibility (the engine's compact step) to ensure
// no index entry still references any of these segments before calling
// Remove.
func (m *Manager) Remove(upTo uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, f := range m.files {
		if id > upTo {
			continue
		}
		path := f.Path()
		if err := f.Close(); err != nil {
			return err
		}
		if err := filesys.DeleteFile(path); err != nil {
			return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to delete retired segment").
				WithPath(path).WithSegmentID(int(id))
		}
		delete(m.files, id)
		m.log.Debugw("retired segment", "segment", id, "path", path)
	}
	return nil
}

// Close releases every open segment handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeAll()
}

func (m *Manager) closeAll() error {
	var firstErr error
	for id, f := range m.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.files, id)
	}
	return firstErr
}
