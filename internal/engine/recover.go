package engine

import (
	"bytes"
	"context"
	"errors"
	"io"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"

	"github.com/iamNilotpal/kvignite/internal/index"
	"github.com/iamNilotpal/kvignite/internal/record"
)

// recover replays every segment in ascending id order to rebuild the
// index, then picks the active segment. A truncated trailing record is
// tolerated only on the last (highest-id) segment; anywhere else it is
// fatal.
func (e *Engine) recover(ctx context.Context, ids []uint64) error {
	for i, id := range ids {
		isLast := i == len(ids)-1
		if err := e.replaySegment(id, isLast); err != nil {
			return err
		}
	}

	if len(ids) == 0 {
		return e.segsMgr.CreateActive(1)
	}

	e.segsMgr.SetActive(ids[len(ids)-1])
	return nil
}

// replaySegment streams every record out of segment id from offset 0,
// installing Set entries in the index and evicting Remove entries.
func (e *Engine) replaySegment(id uint64, isLast bool) error {
	f, ok := e.segsMgr.File(id)
	if !ok {
		return kverrors.NewIndexError(nil, kverrors.ErrorCodeIndexInvalidSegmentID, "segment reported by directory scan has no open handle").
			WithSegmentID(id)
	}

	size, err := f.Size()
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	buf, err := f.ReadAt(0, int(size))
	if err != nil {
		return err
	}

	dec := record.NewDecoder(bytes.NewReader(buf))

	var offset int64
	for {
		rec, consumed, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, record.ErrTruncated) {
			if !isLast {
				return kverrors.NewStorageError(err, kverrors.ErrorCodeRecoveryFailed, "truncated record in a non-last segment").
					WithSegmentID(int(id)).WithOffset(int(offset))
			}
			e.log.Warnw("tolerating torn trailing record on last segment", "segment", id, "validBytes", offset)
			return f.Truncate(offset)
		}
		if err != nil {
			return kverrors.NewStorageError(err, kverrors.ErrorCodeCorrupt, "corrupt record during recovery").
				WithSegmentID(int(id)).WithOffset(int(offset))
		}

		switch rec.Kind {
		case record.KindSet:
			e.idx.Set(rec.Key, index.Pointer{SegmentID: id, Offset: offset, Length: int(consumed)})
		case record.KindRemove:
			e.idx.Remove(rec.Key)
		}

		offset += consumed
	}
}
