// Package keydir implements the in-memory index at the heart of the
// storage engine: an ordered mapping from user key to the on-disk location
// of its most recent record. It is backed by a B-tree, which keeps keys in
// order: listing and snapshot materialization walk the tree without any
// sort, and the snapshot iterator seeks by binary search over the slice it
// materialized.
package keydir

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/iamNilotpal/ignitedb/pkg/options"
)

// RecordLocation identifies exactly where a record lives on disk.
type RecordLocation struct {
	FileID uint32
	Offset int64
}

type entry struct {
	key []byte
	loc RecordLocation
}

func less(a, b *entry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Keydir is a thread-safe, ordered key -> RecordLocation index. The engine
// serializes mutation through its own append/commit locks, so the keydir
// only needs to protect itself against concurrent readers racing a writer,
// not against concurrent writers racing each other.
type Keydir struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[*entry]
}

// New creates an empty Keydir.
func New() *Keydir {
	return &Keydir{tree: btree.NewG(32, less)}
}

// Put unconditionally inserts or overwrites the mapping for key.
func (k *Keydir) Put(key []byte, loc RecordLocation) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.tree.ReplaceOrInsert(&entry{key: copyBytes(key), loc: loc})
	return true
}

// Get returns the location for key, if any.
func (k *Keydir) Get(key []byte) (RecordLocation, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	item, ok := k.tree.Get(&entry{key: key})
	if !ok {
		return RecordLocation{}, false
	}
	return item.loc, true
}

// Delete removes the mapping for key, if any, and reports whether it
// existed. The engine uses this to distinguish a no-op delete from one
// that must append a tombstone.
func (k *Keydir) Delete(key []byte) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	_, ok := k.tree.Delete(&entry{key: key})
	return ok
}

// Len returns the number of live keys.
func (k *Keydir) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.tree.Len()
}

// ListKeys returns every key in ascending lexicographic order. Each
// returned key is an independent copy safe to retain past this call.
func (k *Keydir) ListKeys() [][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()

	keys := make([][]byte, 0, k.tree.Len())
	k.tree.Ascend(func(e *entry) bool {
		keys = append(keys, copyBytes(e.key))
		return true
	})
	return keys
}

// Iterator returns a snapshot iterator over the keys matching opts. The
// snapshot is materialized at call time; later mutations to the keydir are
// never observed through the returned iterator.
func (k *Keydir) Iterator(opts options.IteratorOptions) *Iterator {
	k.mu.RLock()
	defer k.mu.RUnlock()

	items := make([]item, 0)
	visit := func(e *entry) bool {
		if len(opts.Prefix) > 0 && !bytes.HasPrefix(e.key, opts.Prefix) {
			return false
		}
		items = append(items, item{key: copyBytes(e.key), loc: e.loc})
		return true
	}

	if len(opts.Prefix) > 0 {
		k.tree.AscendGreaterOrEqual(&entry{key: opts.Prefix}, visit)
	} else {
		k.tree.Ascend(visit)
	}

	return newIterator(items, opts.Reverse)
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
