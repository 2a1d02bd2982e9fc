package engine

import (
	"github.com/iamNilotpal/kvignite/internal/index"
	"github.com/iamNilotpal/kvignite/internal/record"
)

// maybeCompact runs compact if the active segment has grown past the
// configured threshold. Caller must already hold e.mu.
func (e *Engine) maybeCompact() error {
	size, err := e.segsMgr.ActiveSize()
	if err != nil {
		return err
	}

	threshold := e.opts.SegmentOptions.Size
	if uint64(size) <= threshold {
		return nil
	}

	return e.compact()
}

// compact rewrites every live Set record into a fresh segment,
// retires every segment at or below the old active id, then opens a
// further fresh segment as the new write target so steady-state reads
// never target the segment currently accepting writes. No file is
// deleted until every index entry has been rewritten; a failure
// mid-rewrite leaves a mix of old and new pointers, all still backed
// by bytes on disk, so a re-open reconstructs a correct index.
func (e *Engine) compact() error {
	oldActive := e.segsMgr.ActiveID()
	rewriteID := oldActive + 1

	e.log.Infow("compacting", "oldActive", oldActive, "rewriteInto", rewriteID)

	if err := e.segsMgr.CreateActive(rewriteID); err != nil {
		return err
	}

	var rewriteErr error
	e.idx.Range(func(key string, ptr index.Pointer) bool {
		buf, err := e.segsMgr.ReadAt(ptr.SegmentID, ptr.Offset, ptr.Length)
		if err != nil {
			rewriteErr = err
			return false
		}

		rec, err := decodeOne(buf)
		if err != nil {
			rewriteErr = err
			return false
		}

		enc, err := record.Encode(record.Set(rec.Key, rec.Value))
		if err != nil {
			rewriteErr = err
			return false
		}

		id, offset, length, err := e.segsMgr.AppendActive(enc)
		if err != nil {
			rewriteErr = err
			return false
		}

		e.idx.Update(key, index.Pointer{SegmentID: id, Offset: offset, Length: length})
		return true
	})
	if rewriteErr != nil {
		return rewriteErr
	}

	if err := e.segsMgr.Remove(oldActive); err != nil {
		return err
	}

	newActive := oldActive + 2
	if err := e.segsMgr.CreateActive(newActive); err != nil {
		return err
	}

	e.log.Infow("compaction complete", "retiredThrough", oldActive, "newActive", newActive, "keys", e.idx.Len())
	return nil
}
