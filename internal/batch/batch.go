// Package batch implements an atomic, multi-key write batch staged against
// a single engine. A batch collapses its own put/delete operations in
// memory and only touches the log and the keydir once, at commit.
package batch

import (
	"sync"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/internal/engine"
	"github.com/iamNilotpal/ignitedb/internal/keydir"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/options"
)

// terminatorKey is the sentinel user key carried by a batch's commit
// record, framed with the batch's own (prefix, seq_id) just like every
// member record. A staged user key equal to it frames to the same bytes;
// recovery tells the two apart by record type, not by key.
const terminatorKey = "txn_fin"

type stagedOp struct {
	key     []byte
	value   []byte
	recType codec.RecordType
}

// WriteBatch stages puts and deletes against an Engine and applies them
// atomically on Commit: every member record and the terminator land in the
// log, then the keydir is updated in a single pass.
type WriteBatch struct {
	mu      sync.Mutex
	eng     *engine.Engine
	opts    options.WriteBatchOptions
	staging map[string]stagedOp
}

// New returns an empty batch against eng, configured by opts.
func New(eng *engine.Engine, opts options.WriteBatchOptions) *WriteBatch {
	return &WriteBatch{eng: eng, opts: opts, staging: make(map[string]stagedOp)}
}

// Put stages an upsert for key. A later Put or Delete for the same key
// within this batch overrides it.
func (b *WriteBatch) Put(key, value []byte) error {
	if len(key) == 0 {
		return errors.NewEmptyKeyError("WriteBatch.Put")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.staging[string(key)] = stagedOp{key: cloneBytes(key), value: cloneBytes(value), recType: codec.Normal}
	return nil
}

// Delete stages a removal for key. If the batch already has a pending put
// for key, it is dropped outright — a put immediately undone within the
// same batch never needs to reach disk. If the engine's committed state
// still shows key as live, a tombstone is staged so that Commit removes
// it; otherwise the key was never live outside this batch and no tombstone
// is needed.
func (b *WriteBatch) Delete(key []byte) error {
	if len(key) == 0 {
		return errors.NewEmptyKeyError("WriteBatch.Delete")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	k := string(key)
	if existing, ok := b.staging[k]; ok && existing.recType == codec.Normal {
		delete(b.staging, k)
	}

	if _, err := b.eng.Get(key); err == nil {
		b.staging[k] = stagedOp{key: cloneBytes(key), recType: codec.Deleted}
	}

	return nil
}

// Get returns the value key would have if this batch committed right now:
// a staged put's value, KeyNotFound for a staged tombstone, or the
// engine's own committed value if nothing is staged for key.
func (b *WriteBatch) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.NewEmptyKeyError("WriteBatch.Get")
	}

	b.mu.Lock()
	op, ok := b.staging[string(key)]
	b.mu.Unlock()

	if !ok {
		return b.eng.Get(key)
	}
	if op.recType == codec.Deleted {
		return nil, errors.NewKeyNotFoundStorageError(key)
	}
	return op.value, nil
}

type appliedOp struct {
	userKey []byte
	loc     keydir.RecordLocation
	recType codec.RecordType
}

// Commit appends every staged operation under a freshly allocated sequence
// id, followed by a terminator record, then applies the staged changes to
// the keydir in one pass and clears the staging map. An empty batch
// commits trivially. Committing more than opts.MaxBatchSize staged
// operations fails without writing anything.
func (b *WriteBatch) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.staging) == 0 {
		return nil
	}
	if len(b.staging) > b.opts.MaxBatchSize {
		return errors.NewExceedBatchMaxSizeError(len(b.staging), b.opts.MaxBatchSize)
	}

	seqID := b.eng.NextSeqID()
	prefix := b.eng.SessionPrefix()

	b.eng.LockCommit()
	defer b.eng.UnlockCommit()

	applied := make([]appliedOp, 0, len(b.staging))
	for _, op := range b.staging {
		loc, err := b.eng.AppendFramed(prefix, seqID, op.key, op.recType, op.value)
		if err != nil {
			return err
		}
		applied = append(applied, appliedOp{userKey: op.key, loc: loc, recType: op.recType})
	}

	if _, err := b.eng.AppendFramed(prefix, seqID, []byte(terminatorKey), codec.BatchCommit, nil); err != nil {
		return err
	}

	kd := b.eng.Keydir()
	for _, a := range applied {
		if a.recType == codec.Deleted {
			kd.Delete(a.userKey)
		} else {
			kd.Put(a.userKey, a.loc)
		}
	}

	if b.opts.SyncOnCommit {
		if err := b.eng.Sync(); err != nil {
			return err
		}
	}

	clear(b.staging)
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
