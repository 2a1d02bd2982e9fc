package options

const (
	// DefaultDataDir is the base directory kvignite stores its files
	// under when no directory is specified at initialization.
	DefaultDataDir = "./data"

	// MinSegmentSize is the smallest compaction threshold an operator
	// may configure. It must be at least the largest single record the
	// store accepts; this is a conservative floor.
	MinSegmentSize uint64 = 4 * 1024

	// MaxSegmentSize bounds how large a single segment may grow before
	// compaction is forced.
	MaxSegmentSize uint64 = 4 * 1024 * 1024 * 1024

	// DefaultSegmentSize is the default compaction threshold: 1 MiB.
	DefaultSegmentSize uint64 = 1 * 1024 * 1024

	// DefaultSegmentDirectory is the subdirectory within DataDir that
	// holds segment files.
	DefaultSegmentDirectory = "segments"

	// DefaultAddr is the listen/connect address for the wire protocol
	// server.
	DefaultAddr = "127.0.0.1:4000"

	// EngineKVS selects the log-structured engine.
	EngineKVS = "kvs"

	// EngineSled selects the embedded-tree-backed alternate engine.
	EngineSled = "sled"

	// DefaultEngine is the backend chosen when --engine is not given.
	DefaultEngine = EngineKVS
)

// Holds the default configuration settings for a kvignite instance.
var defaultOptions = Options{
	DataDir: DefaultDataDir,
	Addr:    DefaultAddr,
	Engine:  DefaultEngine,
	SegmentOptions: &segmentOptions{
		Size:      DefaultSegmentSize,
		Directory: DefaultSegmentDirectory,
	},
}

// NewDefaultOptions returns a fresh copy of the default Options, safe to
// mutate through the OptionFunc chain without aliasing shared state.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segCopy := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segCopy
	return opts
}
