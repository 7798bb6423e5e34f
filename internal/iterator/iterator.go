// Package iterator pairs a keydir snapshot iterator with the engine that
// owns the underlying log, turning the keydir's (key, location) pairs into
// the (key, value) pairs the public surface hands callers.
package iterator

import (
	"github.com/iamNilotpal/ignitedb/internal/engine"
	"github.com/iamNilotpal/ignitedb/internal/keydir"
	"github.com/iamNilotpal/ignitedb/pkg/options"
)

// Iterator walks a snapshot of the keydir taken at creation time, reading
// each value from the log on demand. Mutations committed after creation
// are never observed, matching the keydir iterator it wraps.
type Iterator struct {
	eng    *engine.Engine
	kdIter *keydir.Iterator
}

// New materializes a snapshot iterator over eng's keydir filtered and
// ordered according to opts.
func New(eng *engine.Engine, opts options.IteratorOptions) *Iterator {
	return &Iterator{eng: eng, kdIter: eng.Keydir().Iterator(opts)}
}

// Rewind resets the iterator to the start of its configured direction.
func (it *Iterator) Rewind() {
	it.kdIter.Rewind()
}

// Seek positions the iterator at the first element whose key is >= k
// (forward) or <= k (reverse).
func (it *Iterator) Seek(k []byte) {
	it.kdIter.Seek(k)
}

// Next returns the current (key, value) pair and advances, or reports
// ok=false once the snapshot is exhausted. A key whose record can no
// longer be read (e.g. its segment was removed after the snapshot was
// taken) surfaces as a non-nil error rather than being silently skipped.
func (it *Iterator) Next() (key, value []byte, ok bool, err error) {
	k, loc, ok := it.kdIter.Next()
	if !ok {
		return nil, nil, false, nil
	}

	rec, err := it.eng.ReadRecordAt(loc)
	if err != nil {
		return nil, nil, false, err
	}
	return k, rec.Value, true, nil
}
