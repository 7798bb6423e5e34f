// Package segment manages a single numbered data file — one append-only
// log of encoded records. It knows its own id and write cursor and nothing
// about sibling segments, rotation policy, or the keydir; that
// orchestration belongs to the engine that owns a set of segments.
package segment

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/seginfo"
)

// Segment is a single data file: a fixed id, a stable file handle, and a
// write cursor. The cursor is authoritative — reads at offsets at or past
// it are undefined, matching how recovery sets it after replay.
type Segment struct {
	id     uint32
	file   *os.File
	cursor int64
}

// Open opens (creating if necessary) the segment file identified by id
// inside dir and positions its cursor at end-of-file. The caller is
// responsible for calling SetCursor after recovery determines the true
// end of valid data, since a crash can leave bytes past the last
// successfully replayed record.
func Open(dir string, id uint32) (*Segment, error) {
	name := seginfo.GenerateName(id)
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, name)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of segment file").
			WithFileName(name).WithPath(path)
	}

	return &Segment{id: id, file: file, cursor: offset}, nil
}

// ID returns the segment's numeric identifier.
func (s *Segment) ID() uint32 {
	return s.id
}

// Cursor returns the current write offset — the byte count of live data.
func (s *Segment) Cursor() int64 {
	return s.cursor
}

// SetCursor overrides the write cursor. Used only during recovery to pull
// the active segment's tail back to the end of the last record that
// replayed successfully, discarding any trailing partial write.
func (s *Segment) SetCursor(offset int64) {
	s.cursor = offset
}

// Append writes data at the current cursor and advances it by the number
// of bytes written. It returns an error if the underlying write is short.
func (s *Segment) Append(data []byte) (int64, error) {
	n, err := s.file.WriteAt(data, s.cursor)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write to segment file").
			WithSegmentID(int(s.id)).WithOffset(int(s.cursor))
	}
	if n != len(data) {
		return 0, errors.NewStorageError(nil, errors.ErrorCodeIO, "short write to segment file").
			WithSegmentID(int(s.id)).WithOffset(int(s.cursor)).
			WithDetail("wanted", len(data)).WithDetail("wrote", n)
	}

	written := int64(n)
	s.cursor += written
	return written, nil
}

// ReadRecord decodes the record at offset without disturbing the write
// cursor — positional reads are safe to interleave with concurrent
// appends because they never depend on file-handle seek state.
func (s *Segment) ReadRecord(offset int64) (*codec.Record, int64, error) {
	rec, size, err := codec.DecodeFramed(s.file, offset)
	if err != nil {
		return nil, 0, err
	}
	return rec, size, nil
}

// Sync flushes the segment's data and metadata to stable storage.
func (s *Segment) Sync() error {
	if err := s.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, seginfo.GenerateName(s.id), "", int(s.cursor))
	}
	return nil
}

// Close releases the segment's file handle.
func (s *Segment) Close() error {
	if err := s.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment file").
			WithSegmentID(int(s.id))
	}
	return nil
}
