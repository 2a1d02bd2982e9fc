// Package engine implements the log-structured storage engine:
// open/recover, set, get, remove and compact, composed from
// internal/segment (on-disk segment files) and internal/index (the
// in-memory key -> locator map). Engine is the concrete backend behind
// the kvengine.Engine capability the request handler is written
// against.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/options"

	"github.com/iamNilotpal/kvignite/internal/index"
	"github.com/iamNilotpal/kvignite/internal/kvengine"
	"github.com/iamNilotpal/kvignite/internal/record"
	"github.com/iamNilotpal/kvignite/internal/segment"
)

var _ kvengine.Engine = (*Engine)(nil)

// ErrEngineClosed is returned by every operation once Close has run.
var ErrEngineClosed = fmt.Errorf("engine: operation failed: cannot access closed engine")

// ErrKeyNotFound is returned by Remove for a key absent from the
// index. Get reports absence through its ok return instead of an
// error.
var ErrKeyNotFound = fmt.Errorf("engine: %w", kverrors.NewKeyNotFoundError("").
	WithMessage("key not found").WithCode(kverrors.ErrorCodeKeyNotFound))

// Config bundles the dependencies Engine needs at construction time:
// a shared logger and resolved options are threaded into every
// subsystem rather than having each one reach for globals.
type Config struct {
	Logger  *zap.SugaredLogger
	Options *options.Options
}

// Engine is the log-structured storage engine. It owns the segment
// manager (on-disk state) and the index (in-memory state) and keeps
// them consistent: every index entry resolves to a live Set record in
// a segment that still exists. It assumes a single caller at a time;
// mu serializes access so it is still safe to hand to a concurrent
// front-end without redesigning the index.
type Engine struct {
	mu     sync.Mutex
	closed atomic.Bool

	log     *zap.SugaredLogger
	opts    *options.Options
	dir     string
	segsMgr *segment.Manager
	idx     *index.Index
}

// New opens (creating if absent) the store directory named by
// cfg.Options.DataDir/cfg.Options.SegmentOptions.Directory, replays
// every segment to rebuild the index, and selects the active segment.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	if cfg == nil || cfg.Logger == nil || cfg.Options == nil {
		return nil, fmt.Errorf("engine: Config, Logger and Options are required")
	}

	log := cfg.Logger
	dir := segmentDir(cfg.Options)

	log.Infow("opening storage engine", "dir", dir)

	mgr, ids, err := segment.Open(dir, log)
	if err != nil {
		return nil, err
	}

	e := &Engine{log: log, opts: cfg.Options, dir: dir, segsMgr: mgr, idx: index.New()}

	if err := e.recover(ctx, ids); err != nil {
		mgr.Close()
		return nil, err
	}

	log.Infow("storage engine ready", "segments", len(ids), "keys", e.idx.Len(), "active", mgr.ActiveID())
	return e, nil
}

// segmentDir resolves the directory segment files live in, relative to
// the configured data directory.
func segmentDir(opts *options.Options) string {
	if opts.SegmentOptions == nil || opts.SegmentOptions.Directory == "" {
		return opts.DataDir
	}
	return filepath.Join(opts.DataDir, opts.SegmentOptions.Directory)
}

// Set appends a Set record, installs its locator in the index, then
// compacts if the active segment crossed the threshold.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	enc, err := record.Encode(record.Set(key, value))
	if err != nil {
		return err
	}

	id, offset, length, err := e.segsMgr.AppendActive(enc)
	if err != nil {
		return err
	}

	e.idx.Set(key, index.Pointer{SegmentID: id, Offset: offset, Length: length})

	return e.maybeCompact()
}

// Get resolves key through the index: a miss is reported through ok,
// not an error; a hit reads the referenced bytes and validates the
// decoded record matches the requested key.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ptr, ok := e.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	buf, err := e.segsMgr.ReadAt(ptr.SegmentID, ptr.Offset, ptr.Length)
	if err != nil {
		return "", false, err
	}

	decoded, err := decodeOne(buf)
	if err != nil {
		return "", false, err
	}

	if decoded.Kind != record.KindSet || decoded.Key != key {
		return "", false, kverrors.NewIndexCorruptionError("Get", e.idx.Len(), nil).
			WithKey(key).
			WithSegmentID(ptr.SegmentID).
			WithMemoryUsage(e.idx.ApproxMemoryUsage())
	}

	return decoded.Value, true, nil
}

// Remove evicts key and appends a tombstone. A missing key fails with
// ErrKeyNotFound without touching disk.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.idx.Remove(key) {
		return ErrKeyNotFound
	}

	enc, err := record.Encode(record.Remove(key))
	if err != nil {
		return err
	}

	if _, _, _, err := e.segsMgr.AppendActive(enc); err != nil {
		return err
	}

	return e.maybeCompact()
}

// Close releases every open segment handle. Further operations return
// ErrEngineClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Infow("closing storage engine", "dir", e.dir)
	return e.segsMgr.Close()
}

// decodeOne decodes the single record encoded in buf, used to resolve
// an index hit where the caller already knows the exact byte span.
func decodeOne(buf []byte) (record.Record, error) {
	recs, err := record.DecodeAll(buf)
	if err != nil {
		return record.Record{}, err
	}
	if len(recs) != 1 {
		return record.Record{}, fmt.Errorf("%w: expected exactly one record in %d bytes, got %d", record.ErrCorrupt, len(buf), len(recs))
	}
	return recs[0], nil
}
