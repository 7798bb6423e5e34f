// Package ignite provides a high-performance key/value data store designed
// for fast read and write operations, inspired by Bitcask. It combines an
// in-memory ordered index (the keydir) with an append-only log structure on
// disk to achieve high throughput. Instance is the primary entry point:
// open a database directory, then put, get, delete, iterate, and batch
// against it.
package ignite

import (
	"github.com/iamNilotpal/ignitedb/internal/batch"
	"github.com/iamNilotpal/ignitedb/internal/engine"
	"github.com/iamNilotpal/ignitedb/internal/iterator"
	"github.com/iamNilotpal/ignitedb/pkg/logger"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"go.uber.org/zap"
)

// Instance is a single opened Ignite database. It is safe for concurrent
// use by multiple goroutines.
type Instance struct {
	engine *engine.Engine
	opts   options.Options
	log    *zap.SugaredLogger
}

// Open creates or opens the database at the configured data directory,
// replaying its log to rebuild the in-memory index before returning a
// ready Instance. service names the logger so multiple instances in the
// same process can be told apart in structured output.
func Open(service string, opts ...options.OptionFunc) (*Instance, error) {
	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	log, err := logger.New(service)
	if err != nil {
		return nil, err
	}

	eng, err := engine.Open(resolved, log)
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, opts: resolved, log: log}, nil
}

// Put stores value under key, overwriting any previous value.
func (i *Instance) Put(key, value []byte) error {
	return i.engine.Put(key, value)
}

// Get retrieves the current value for key, or a KeyNotFound error if it
// has no live entry.
func (i *Instance) Get(key []byte) ([]byte, error) {
	return i.engine.Get(key)
}

// Delete removes key. Deleting an absent key is a no-op.
func (i *Instance) Delete(key []byte) error {
	return i.engine.Delete(key)
}

// ListKeys returns every live key in ascending lexicographic order.
func (i *Instance) ListKeys() [][]byte {
	return i.engine.ListKeys()
}

// Fold calls fn for every live key in ascending order, stopping early if fn
// returns false or an error.
func (i *Instance) Fold(fn func(key, value []byte) (bool, error)) error {
	return i.engine.Fold(fn)
}

// Iterator returns a snapshot iterator over the keys matching opts.
// Mutations committed after this call are never observed through it.
func (i *Instance) Iterator(opts options.IteratorOptions) *iterator.Iterator {
	return iterator.New(i.engine, opts)
}

// WriteBatch returns a new batch for staging atomic multi-key writes
// against this instance, using the instance's configured write-batch
// options. When opts is given, its first element is used as-is in their
// place; fields left at their zero value are not filled from the defaults.
func (i *Instance) WriteBatch(opts ...options.WriteBatchOptions) *batch.WriteBatch {
	resolved := i.opts.WriteBatch
	if len(opts) > 0 {
		resolved = opts[0]
	}
	return batch.New(i.engine, resolved)
}

// Sync flushes the active segment to stable storage.
func (i *Instance) Sync() error {
	return i.engine.Sync()
}

// Close flushes and releases every open segment and the advisory directory
// lock. Close is idempotent.
func (i *Instance) Close() error {
	return i.engine.Close()
}
