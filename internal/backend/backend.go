// Package backend resolves the options.Options.Engine selection into
// a concrete kvengine.Engine, and enforces the engine-mismatch guard:
// a data directory records which backend it was opened with in a
// marker file inside the directory itself, and a later run naming a
// different backend is refused at startup. Keeping the marker inside
// the store directory means multiple stores opened by one process
// never collide on a single global marker.
package backend

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/filesys"
	"github.com/iamNilotpal/kvignite/pkg/options"

	"github.com/iamNilotpal/kvignite/internal/engine"
	"github.com/iamNilotpal/kvignite/internal/kvengine"
	"github.com/iamNilotpal/kvignite/internal/sledengine"
)

const markerFile = ".engine"

// Open creates opts.DataDir if absent, checks/writes its engine marker
// file, and constructs the requested backend.
func Open(ctx context.Context, log *zap.SugaredLogger, opts *options.Options) (kvengine.Engine, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
		return nil, kverrors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	if err := checkMarker(opts.DataDir, opts.Engine); err != nil {
		return nil, err
	}

	switch opts.Engine {
	case options.EngineKVS, "":
		return engine.New(ctx, &engine.Config{Logger: log, Options: opts})
	case options.EngineSled:
		path := filepath.Join(opts.DataDir, "sled.db")
		return sledengine.Open(path, log)
	default:
		// Unreachable: validateOptions already rejected any other value.
		return nil, kverrors.NewValidationError(nil, kverrors.ErrorCodeInternal, "backend: unresolved engine selection").
			WithDetail("engine", opts.Engine)
	}
}

// validateOptions catches a resolved Options value that bypassed the
// functional-option constructors, e.g. one decoded straight from a
// config file, since Options is JSON-tagged for exactly that purpose.
func validateOptions(opts *options.Options) error {
	if opts.DataDir == "" {
		return kverrors.NewRequiredFieldError("dataDir")
	}

	if opts.SegmentOptions != nil {
		size := opts.SegmentOptions.Size
		if size != 0 && (size < options.MinSegmentSize || size > options.MaxSegmentSize) {
			return kverrors.NewFieldRangeError("segmentOptions.size", size, options.MinSegmentSize, options.MaxSegmentSize)
		}
	}

	switch opts.Engine {
	case "", options.EngineKVS, options.EngineSled:
		return nil
	default:
		return kverrors.NewConfigurationValidationError("engine", "unrecognized engine name").
			WithProvided(opts.Engine).WithExpected([]string{options.EngineKVS, options.EngineSled})
	}
}

// checkMarker compares the requested engine against the one recorded
// for this directory, writing the marker on first use. A mismatch is
// fatal.
func checkMarker(dataDir, wantEngine string) error {
	if wantEngine == "" {
		wantEngine = options.DefaultEngine
	}

	path := filepath.Join(dataDir, markerFile)

	exists, err := filesys.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return filesys.WriteFile(path, 0644, []byte(wantEngine))
	}

	recorded, err := filesys.ReadFile(path)
	if err != nil {
		return err
	}

	if string(recorded) != wantEngine {
		return kverrors.NewValidationError(nil, kverrors.ErrorCodeEngineMismatch, "requested engine differs from the one this directory was created with").
			WithDetail("requested", wantEngine).
			WithDetail("recorded", string(recorded))
	}

	return nil
}
