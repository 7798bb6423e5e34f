// Package options provides data structures and functions for configuring
// the Ignite database. It defines the parameters that control Ignite's
// storage behavior and performance: directory paths, segment rotation,
// write durability, the index implementation, and how iterators and write
// batches behave.
package options

import "strings"

// IndexKind names the in-memory index implementation backing a database.
// Only OrderedMap is implemented; SkipList is accepted by the type system
// so callers can express the choice, but Engine.Open rejects it.
type IndexKind string

const (
	// OrderedMap is the only implemented index kind: a B-tree keyed on the
	// raw user key, giving ordered iteration and O(log n) seeks.
	OrderedMap IndexKind = "ordered_map"

	// SkipList is accepted as a value but not implemented.
	SkipList IndexKind = "skip_list"
)

// IteratorOptions configures a snapshot iterator returned by an Engine or
// Instance. The snapshot is materialized at creation time from whatever
// keys are live then; later writes are never observed through it.
type IteratorOptions struct {
	// Prefix restricts iteration to keys sharing this byte prefix. A nil or
	// empty prefix iterates every key.
	Prefix []byte `json:"prefix"`

	// Reverse iterates from the largest matching key to the smallest when
	// true, ascending otherwise.
	Reverse bool `json:"reverse"`
}

// WriteBatchOptions configures a WriteBatch's commit behavior.
type WriteBatchOptions struct {
	// SyncOnCommit fsyncs the active segment as part of commit(), in
	// addition to whatever Options.SyncOnWrite already does for individual
	// appends. Default true: a batch is meant to be an atomicity boundary,
	// and an atomic write that isn't durable is a weaker guarantee than
	// callers typically expect from "commit".
	SyncOnCommit bool `json:"syncOnCommit"`

	// MaxBatchSize caps the number of staged put/delete operations a
	// single batch may accumulate before commit() is required to return
	// ExceedBatchMaxSize.
	MaxBatchSize int `json:"maxBatchSize"`
}

// Options defines the configuration parameters for an Ignite database.
type Options struct {
	// DataDir is the base path where segment files and the directory lock
	// are stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// SegmentThreshold is the size in bytes an active segment may reach
	// before the engine rotates to a new one. Checked before each append:
	// if the record would push the active segment past this value, the
	// engine rotates first. A record larger than the threshold is still
	// written, alone in a fresh segment.
	//
	//  - Default: 1GB
	//  - Minimum: 1MB
	SegmentThreshold int64 `json:"segmentThreshold"`

	// SyncOnWrite fsyncs the active segment after every append when true.
	// When false, durability is only guaranteed after an explicit Sync()
	// or a clean Close().
	//
	// Default: false
	SyncOnWrite bool `json:"syncOnWrite"`

	// IndexKind selects the in-memory index implementation.
	//
	// Default: OrderedMap
	IndexKind IndexKind `json:"indexKind"`

	// WriteBatch configures the default behavior of batches created
	// against this database.
	WriteBatch WriteBatchOptions `json:"writeBatch"`
}

// OptionFunc modifies an Options value during construction.
type OptionFunc func(*Options)

// WithDefaultOptions applies every default value. Typically used as the
// first OptionFunc in a chain, before overrides.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the primary data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithSegmentThreshold sets the active-segment rotation threshold, in
// bytes. Values below MinSegmentThreshold are ignored; Engine.Open performs
// the authoritative validation and returns SegmentThresholdTooSmall.
func WithSegmentThreshold(bytes int64) OptionFunc {
	return func(o *Options) {
		if bytes >= MinSegmentThreshold {
			o.SegmentThreshold = bytes
		}
	}
}

// WithSyncOnWrite toggles fsync-per-append durability.
func WithSyncOnWrite(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncOnWrite = sync
	}
}

// WithIndexKind selects the index implementation.
func WithIndexKind(kind IndexKind) OptionFunc {
	return func(o *Options) {
		o.IndexKind = kind
	}
}

// WithWriteBatchOptions overrides the default write-batch configuration.
func WithWriteBatchOptions(wb WriteBatchOptions) OptionFunc {
	return func(o *Options) {
		o.WriteBatch = wb
	}
}
