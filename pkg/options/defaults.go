package options

const (
	// DefaultDataDir is the base directory Ignite stores its data files in
	// when no other directory is specified.
	DefaultDataDir = "/var/lib/ignitedb"

	// MinSegmentThreshold is the smallest rotation threshold Engine.Open
	// accepts, in bytes (1MB).
	MinSegmentThreshold int64 = 1 * 1024 * 1024

	// DefaultSegmentThreshold is the rotation threshold used when none is
	// configured, in bytes (1GB).
	DefaultSegmentThreshold int64 = 1 * 1024 * 1024 * 1024

	// DefaultSyncOnWrite is the default fsync-per-append behavior.
	DefaultSyncOnWrite = false

	// DefaultMaxBatchSize is the default cap on staged operations per
	// WriteBatch.
	DefaultMaxBatchSize = 10000

	// DefaultSyncOnCommit is the default fsync-on-commit behavior for
	// write batches.
	DefaultSyncOnCommit = true
)

// defaultOptions holds the baseline configuration for an Ignite database.
var defaultOptions = Options{
	DataDir:          DefaultDataDir,
	SegmentThreshold: DefaultSegmentThreshold,
	SyncOnWrite:      DefaultSyncOnWrite,
	IndexKind:        OrderedMap,
	WriteBatch: WriteBatchOptions{
		SyncOnCommit: DefaultSyncOnCommit,
		MaxBatchSize: DefaultMaxBatchSize,
	},
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
