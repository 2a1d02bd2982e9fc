// Package options provides data structures and functions for configuring
// a kvignite instance. It defines the parameters that control storage
// behavior (data directory, segment layout, compaction threshold) and
// the front-end surface (listen address, engine backend selection).
package options

import "strings"

// segmentOptions defines configurable parameters for segment files.
type segmentOptions struct {
	// Size is the per-segment compaction threshold in bytes: once the
	// active segment exceeds this size, the engine runs a compaction.
	Size uint64 `json:"segmentSize"`

	// Directory is the subdirectory of DataDir holding segment files.
	Directory string `json:"directory"`
}

// Options defines the configuration parameters for a kvignite instance.
type Options struct {
	// DataDir is the base path where the store's files live.
	DataDir string `json:"dataDir"`

	// Addr is the listen address (server) or connect address (client)
	// for the wire protocol.
	Addr string `json:"addr"`

	// Engine selects the storage backend: "kvs" (the log-structured
	// engine) or "sled" (the embedded-tree-backed alternate).
	Engine string `json:"engine"`

	// SegmentOptions configures segment layout and the compaction
	// threshold. Only meaningful for the "kvs" engine.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies an instance's configuration.
type OptionFunc func(*Options)

// WithDataDir sets the primary data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithAddr sets the listen/connect address.
func WithAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.Addr = addr
		}
	}
}

// WithEngine selects the storage backend ("kvs" or "sled"). Any other
// value is ignored; validation of the final value happens where the
// backend is actually constructed, since that is where the error can
// carry full context.
func WithEngine(engine string) OptionFunc {
	return func(o *Options) {
		engine = strings.TrimSpace(engine)
		if engine == EngineKVS || engine == EngineSled {
			o.Engine = engine
		}
	}
}

// WithSegmentDir sets the directory (relative to DataDir) storing
// segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// WithSegmentSize sets the compaction threshold for segment files.
func WithSegmentSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinSegmentSize && size <= MaxSegmentSize {
			o.SegmentOptions.Size = size
		}
	}
}
