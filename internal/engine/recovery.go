package engine

import (
	stdErrors "errors"
	"slices"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/internal/keydir"
	"github.com/iamNilotpal/ignitedb/internal/segment"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
)

// pendingKey identifies one batch's staging slot during replay: the
// session prefix that minted it plus its sequence id. Prefixes are
// compared as strings since Go map keys must be comparable.
type pendingKey struct {
	prefix string
	seqID  uint64
}

// pendingEntry is one member record of a not-yet-terminated batch,
// remembered until either its terminator arrives or the segment scan ends
// and it is discarded as orphaned.
type pendingEntry struct {
	userKey []byte
	loc     keydir.RecordLocation
	recType codec.RecordType
}

// recover walks every segment in ascending id order, replaying records
// into the keydir and staging batched writes until their terminator (or
// end of log) resolves them. It sets the active segment's write cursor to
// the offset just past the last successfully parsed record, discarding any
// trailing partial write a crash may have left behind.
func (e *Engine) recover() error {
	ids := make([]uint32, 0, len(e.immutable)+1)
	for id := range e.immutable {
		ids = append(ids, id)
	}
	ids = append(ids, e.active.ID())
	slices.Sort(ids)

	pending := make(map[pendingKey][]pendingEntry)
	var activeEndOffset int64

	for _, id := range ids {
		seg := e.segmentByID(id)

		offset, err := e.replaySegment(seg, pending)
		if err != nil {
			return err
		}
		if id == e.active.ID() {
			activeEndOffset = offset
		}
	}

	e.active.SetCursor(activeEndOffset)

	if len(pending) > 0 {
		e.log.Infow("discarding orphaned batches with no terminator", "count", len(pending))
	}

	return nil
}

func (e *Engine) segmentByID(id uint32) *segment.Segment {
	if e.active.ID() == id {
		return e.active
	}
	return e.immutable[id]
}

// replaySegment scans seg from offset 0 until ReadEOF, applying or staging
// each record, and returns the offset just past the last valid record.
func (e *Engine) replaySegment(seg *segment.Segment, pending map[pendingKey][]pendingEntry) (int64, error) {
	var offset int64

	for {
		rec, size, err := seg.ReadRecord(offset)
		if stdErrors.Is(err, codec.ErrReadEOF) {
			break
		}
		if err != nil {
			return 0, errors.NewDatabaseFileCorruptedError(seg.ID(), offset, err)
		}

		prefix, seqID, userKey, err := codec.DecodeFramedKey(rec.Key)
		if err != nil {
			return 0, errors.NewDatabaseFileCorruptedError(seg.ID(), offset, err)
		}

		loc := keydir.RecordLocation{FileID: seg.ID(), Offset: offset}

		switch {
		case seqID == 0:
			applyEntry(e.keydir, userKey, loc, rec.Type)

		case rec.Type == codec.BatchCommit:
			key := pendingKey{prefix: string(prefix), seqID: seqID}
			entries, ok := pending[key]
			if !ok || len(entries) == 0 {
				return 0, errors.NewDatabaseFileCorruptedError(seg.ID(), offset, nil).
					WithDetail("reason", "batch commit terminator with no staged entries")
			}
			for _, entry := range entries {
				applyEntry(e.keydir, entry.userKey, entry.loc, entry.recType)
			}
			delete(pending, key)

		default:
			key := pendingKey{prefix: string(prefix), seqID: seqID}
			pending[key] = append(pending[key], pendingEntry{
				userKey: append([]byte(nil), userKey...),
				loc:     loc,
				recType: rec.Type,
			})
		}

		offset += size
	}

	return offset, nil
}

func applyEntry(kd *keydir.Keydir, userKey []byte, loc keydir.RecordLocation, recType codec.RecordType) {
	if recType == codec.Deleted {
		kd.Delete(userKey)
		return
	}
	kd.Put(userKey, loc)
}
