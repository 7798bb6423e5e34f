// Package engine provides the core database engine: it orchestrates the
// append log across rotating segments, the in-memory keydir, and the
// recovery procedure that rebuilds the keydir from disk at open.
//
// The engine serializes mutation through its own locks rather than relying
// on the keydir or a segment to do so independently: the active-segment
// lock guards appends and rotation, the commit lock serializes batch
// commits, and the keydir's own lock only has to arbitrate readers against
// a single in-flight writer.
package engine

import (
	"crypto/rand"
	"encoding/binary"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/internal/compaction"
	"github.com/iamNilotpal/ignitedb/internal/keydir"
	"github.com/iamNilotpal/ignitedb/internal/segment"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/filesys"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"github.com/iamNilotpal/ignitedb/pkg/seginfo"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

const lockFileName = ".ignitedb.lock"

// Engine coordinates the append-only log and the in-memory keydir. It is
// safe for concurrent use by multiple goroutines.
type Engine struct {
	opts options.Options
	log  *zap.SugaredLogger

	activeMu sync.RWMutex
	active   *segment.Segment

	immutableMu sync.RWMutex
	immutable   map[uint32]*segment.Segment

	keydir *keydir.Keydir

	sessionPrefix []byte
	seqCounter    atomic.Uint64
	commitMu      sync.Mutex

	dirLock *flock.Flock
	comp    *compaction.Compaction

	closed atomic.Bool
}

// Open validates opts, creates the database directory if needed, acquires
// an advisory directory lock, opens every existing segment, and runs
// recovery to rebuild the keydir before returning a ready Engine.
func Open(opts options.Options, log *zap.SugaredLogger) (*Engine, error) {
	if opts.DataDir == "" {
		return nil, errors.NewInvalidDatabasePathError(opts.DataDir, nil)
	}
	if opts.SegmentThreshold < options.MinSegmentThreshold {
		return nil, errors.NewSegmentThresholdTooSmallError(opts.SegmentThreshold, options.MinSegmentThreshold)
	}
	if opts.IndexKind != options.OrderedMap {
		return nil, errors.NewConfigurationValidationError(
			"IndexKind", fmt.Sprintf("unsupported index kind %q: only ordered_map is implemented", opts.IndexKind),
		)
	}

	log.Infow("opening database", "dataDir", opts.DataDir, "segmentThreshold", opts.SegmentThreshold)

	if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	dirLock := flock.New(filepath.Join(opts.DataDir, lockFileName))
	locked, err := dirLock.TryLock()
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to acquire database directory lock").
			WithPath(opts.DataDir)
	}
	if !locked {
		return nil, errors.NewDatabaseLockedError(opts.DataDir)
	}

	e := &Engine{
		opts:      opts,
		log:       log,
		immutable: make(map[uint32]*segment.Segment),
		keydir:    keydir.New(),
		dirLock:   dirLock,
		comp:      compaction.New(),
	}

	if err := e.openSegments(); err != nil {
		_ = dirLock.Unlock()
		return nil, err
	}

	prefix, err := newSessionPrefix()
	if err != nil {
		_ = e.closeSegments()
		_ = dirLock.Unlock()
		return nil, errors.NewStorageError(err, errors.ErrorCodeInternal, "failed to mint session prefix")
	}
	e.sessionPrefix = prefix
	e.seqCounter.Store(1)

	if err := e.recover(); err != nil {
		_ = e.closeSegments()
		_ = dirLock.Unlock()
		return nil, err
	}

	log.Infow(
		"database opened",
		"activeSegmentID", e.active.ID(),
		"immutableSegments", len(e.immutable),
		"liveKeys", e.keydir.Len(),
	)
	return e, nil
}

// openSegments lists every "*.bcdata" file, opens each one, and installs
// the highest-id segment as active.
func (e *Engine) openSegments() error {
	ids, err := seginfo.ListSegmentIDs(e.opts.DataDir)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		seg, err := segment.Open(e.opts.DataDir, 0)
		if err != nil {
			return err
		}
		e.active = seg
		return nil
	}

	for i, id := range ids {
		seg, err := segment.Open(e.opts.DataDir, id)
		if err != nil {
			return err
		}
		if i == len(ids)-1 {
			e.active = seg
		} else {
			e.immutable[id] = seg
		}
	}
	return nil
}

func (e *Engine) closeSegments() error {
	e.activeMu.Lock()
	activeErr := e.active.Close()
	e.activeMu.Unlock()

	e.immutableMu.Lock()
	var immErr error
	for _, seg := range e.immutable {
		if err := seg.Close(); err != nil && immErr == nil {
			immErr = err
		}
	}
	e.immutableMu.Unlock()

	if activeErr != nil {
		return activeErr
	}
	return immErr
}

// newSessionPrefix mints a process-unique byte string combining the
// current time with random bytes, used to namespace this session's writes
// from every previous session's without needing any cross-restart state.
func newSessionPrefix() ([]byte, error) {
	buf := make([]byte, 8+8)
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().UnixNano()))
	if _, err := rand.Read(buf[8:]); err != nil {
		return nil, err
	}
	return buf, nil
}

// Put stores value under key, overwriting any previous value.
func (e *Engine) Put(key, value []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if len(key) == 0 {
		return errors.NewEmptyKeyError("Put")
	}

	framed := codec.EncodeFramedKey(e.sessionPrefix, 0, key)
	loc, err := e.appendLogRecord(&codec.Record{Type: codec.Normal, Key: framed, Value: value})
	if err != nil {
		return err
	}

	e.keydir.Put(key, loc)
	return nil
}

// Get returns the current value for key, or KeyNotFound if it has no live
// entry or its latest record is a tombstone.
func (e *Engine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if len(key) == 0 {
		return nil, errors.NewEmptyKeyError("Get")
	}

	loc, ok := e.keydir.Get(key)
	if !ok {
		return nil, errors.NewKeyNotFoundStorageError(key)
	}

	rec, err := e.readRecordAt(loc)
	if err != nil {
		return nil, err
	}
	if rec.Type == codec.Deleted {
		return nil, errors.NewKeyNotFoundStorageError(key)
	}
	return rec.Value, nil
}

// Delete removes key. Deleting an absent key is a no-op that returns nil,
// matching the keydir's role as the single source of truth for liveness.
func (e *Engine) Delete(key []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if len(key) == 0 {
		return errors.NewEmptyKeyError("Delete")
	}

	if _, ok := e.keydir.Get(key); !ok {
		return nil
	}

	framed := codec.EncodeFramedKey(e.sessionPrefix, 0, key)
	if _, err := e.appendLogRecord(&codec.Record{Type: codec.Deleted, Key: framed}); err != nil {
		return err
	}

	e.keydir.Delete(key)
	return nil
}

// ListKeys returns every live key in ascending lexicographic order.
func (e *Engine) ListKeys() [][]byte {
	return e.keydir.ListKeys()
}

// Fold calls fn for every live key in ascending order, stopping early if fn
// returns false or an error. A key deleted concurrently between the listing
// and the read is skipped rather than treated as a failure.
func (e *Engine) Fold(fn func(key, value []byte) (bool, error)) error {
	for _, key := range e.keydir.ListKeys() {
		value, err := e.Get(key)
		if err != nil {
			if errors.GetErrorCode(err) == errors.ErrorCodeKeyNotFound {
				continue
			}
			return err
		}

		cont, err := fn(key, value)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// Sync flushes the active segment to stable storage.
func (e *Engine) Sync() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	e.activeMu.RLock()
	defer e.activeMu.RUnlock()
	return e.active.Sync()
}

// Close flushes and releases the active segment, every immutable segment,
// and the advisory directory lock. Close is idempotent; calling it twice
// returns ErrEngineClosed on the second call.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.log.Infow("closing database", "dataDir", e.opts.DataDir)

	e.activeMu.RLock()
	closeErr := e.active.Sync()
	e.activeMu.RUnlock()

	if err := e.closeSegments(); err != nil && closeErr == nil {
		closeErr = err
	}
	if err := e.comp.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if err := e.dirLock.Unlock(); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}

// appendLogRecord encodes rec, rotating the active segment first if the
// encoded length would push it past the configured threshold, then appends
// it and optionally fsyncs. It does not touch the keydir — callers update
// the keydir themselves once the append has succeeded, matching the
// ordering guarantee that I/O failures here leave the keydir untouched.
func (e *Engine) appendLogRecord(rec *codec.Record) (keydir.RecordLocation, error) {
	encoded := codec.Encode(rec)

	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if e.active.Cursor()+int64(len(encoded)) > e.opts.SegmentThreshold {
		if err := e.rotateLocked(); err != nil {
			return keydir.RecordLocation{}, err
		}
	}

	fileID := e.active.ID()
	preAppendOffset := e.active.Cursor()
	if _, err := e.active.Append(encoded); err != nil {
		return keydir.RecordLocation{}, err
	}
	loc := keydir.RecordLocation{FileID: fileID, Offset: preAppendOffset}

	if e.opts.SyncOnWrite {
		if err := e.active.Sync(); err != nil {
			return keydir.RecordLocation{}, err
		}
	}

	return loc, nil
}

// rotateLocked seals the current active segment and installs a freshly
// created one with the next id. Callers must hold activeMu for writing.
func (e *Engine) rotateLocked() error {
	if err := e.active.Sync(); err != nil {
		return err
	}

	sealed := e.active
	nextID := sealed.ID() + 1

	newActive, err := segment.Open(e.opts.DataDir, nextID)
	if err != nil {
		return err
	}

	e.immutableMu.Lock()
	e.immutable[sealed.ID()] = sealed
	e.immutableMu.Unlock()

	e.log.Infow("rotated active segment", "sealedID", sealed.ID(), "newActiveID", nextID)
	e.active = newActive
	return nil
}

// readRecordAt resolves loc to the segment holding it (active or
// immutable) and reads the record there.
func (e *Engine) readRecordAt(loc keydir.RecordLocation) (*codec.Record, error) {
	e.activeMu.RLock()
	if e.active.ID() == loc.FileID {
		rec, _, err := e.active.ReadRecord(loc.Offset)
		e.activeMu.RUnlock()
		if err != nil {
			return nil, wrapReadError(loc, err)
		}
		return rec, nil
	}
	e.activeMu.RUnlock()

	e.immutableMu.RLock()
	seg, ok := e.immutable[loc.FileID]
	e.immutableMu.RUnlock()
	if !ok {
		return nil, errors.NewDataFileNotFoundError(loc.FileID, seginfo.GenerateName(loc.FileID))
	}

	rec, _, err := seg.ReadRecord(loc.Offset)
	if err != nil {
		return nil, wrapReadError(loc, err)
	}
	return rec, nil
}

func wrapReadError(loc keydir.RecordLocation, err error) error {
	if stdErrors.Is(err, codec.ErrFileCorrupted) {
		return errors.NewDatabaseFileCorruptedError(loc.FileID, loc.Offset, err)
	}
	if stdErrors.Is(err, codec.ErrReadEOF) {
		return errors.NewReadEOFError(loc.FileID, loc.Offset)
	}
	return err
}

// SessionPrefix returns the byte string minted at Open and shared by every
// non-batched write of this session. Exposed for internal/batch.
func (e *Engine) SessionPrefix() []byte {
	return e.sessionPrefix
}

// NextSeqID atomically allocates the next batch sequence id. Exposed for
// internal/batch.
func (e *Engine) NextSeqID() uint64 {
	return e.seqCounter.Add(1)
}

// LockCommit and UnlockCommit expose the engine's commit lock to
// internal/batch so that a batch's member records and terminator stay
// contiguous relative to other batches' commits.
func (e *Engine) LockCommit()   { e.commitMu.Lock() }
func (e *Engine) UnlockCommit() { e.commitMu.Unlock() }

// AppendFramed encodes and appends a single record under the given framed
// key parts, returning its location. It does not update the keydir.
// Exposed for internal/batch.
func (e *Engine) AppendFramed(prefix []byte, seqID uint64, userKey []byte, recType codec.RecordType, value []byte) (keydir.RecordLocation, error) {
	framed := codec.EncodeFramedKey(prefix, seqID, userKey)
	return e.appendLogRecord(&codec.Record{Type: recType, Key: framed, Value: value})
}

// Keydir exposes the engine's keydir to internal/batch and
// internal/iterator, which need to read and mutate it directly.
func (e *Engine) Keydir() *keydir.Keydir {
	return e.keydir
}

// MaxBatchSize returns the configured cap on staged operations per batch.
func (e *Engine) MaxBatchSize() int {
	return e.opts.WriteBatch.MaxBatchSize
}

// SyncOnCommit reports whether batches commit with an extra fsync beyond
// whatever Options.SyncOnWrite already does per append.
func (e *Engine) SyncOnCommit() bool {
	return e.opts.WriteBatch.SyncOnCommit
}

// ReadRecordAt resolves a keydir location to its stored record. Exposed for
// internal/iterator, which walks a keydir snapshot and needs the value
// behind each location.
func (e *Engine) ReadRecordAt(loc keydir.RecordLocation) (*codec.Record, error) {
	return e.readRecordAt(loc)
}
