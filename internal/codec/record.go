// Package codec implements the on-disk record format shared by every
// segment file: a CRC-protected, varint-framed header followed by the raw
// key and value bytes. It knows nothing about segments, rotation, or the
// keydir — it only turns a Record into bytes and back.
package codec

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

// RecordType distinguishes a live write from a tombstone from a batch
// commit marker. The zero value is Normal, so a zeroed header region
// decodes as a Normal record with empty key and value; DecodeFramed reports
// that shape as ErrReadEOF rather than as a record.
type RecordType byte

const (
	Normal RecordType = iota
	Deleted
	BatchCommit
)

var (
	// ErrReadEOF is the internal sentinel produced when no complete record
	// starts at an offset: either the header region is empty or all zero
	// bytes (genuine end of segment), or the record's body is cut short (a
	// trailing partial record left by a crash mid-append). Callers convert
	// this into "stop reading this segment".
	ErrReadEOF = errors.New("codec: read eof")

	// ErrFileCorrupted signals a CRC mismatch or a malformed varint in the
	// header, distinct from ErrReadEOF because the region isn't simply
	// absent — it contains bytes that don't parse or don't check out.
	ErrFileCorrupted = errors.New("codec: file corrupted")
)

// Record is the decoded unit of persistence. Key carries the full framed
// key (session prefix + sequence id + user key) — framing is the caller's
// concern, not the codec's.
type Record struct {
	Type  RecordType
	Key   []byte
	Value []byte
}

// MaxHeaderSize returns the largest possible header size — type byte plus
// two varints sized for their maximum encodable value (u32 max) — used to
// size the prefetch buffer at read time.
func MaxHeaderSize() int {
	return 1 + 2*binary.MaxVarintLen32
}

// Encode serializes r into its on-disk byte layout:
// [type:1][key_size:varint][value_size:varint][key][value][crc32:4 little-endian].
func Encode(r *Record) []byte {
	var lenBuf [binary.MaxVarintLen64]byte

	buf := make([]byte, 0, 1+2*binary.MaxVarintLen32+len(r.Key)+len(r.Value)+4)
	buf = append(buf, byte(r.Type))

	n := binary.PutUvarint(lenBuf[:], uint64(len(r.Key)))
	buf = append(buf, lenBuf[:n]...)

	n = binary.PutUvarint(lenBuf[:], uint64(len(r.Value)))
	buf = append(buf, lenBuf[:n]...)

	buf = append(buf, r.Key...)
	buf = append(buf, r.Value...)

	crc := crc32.ChecksumIEEE(buf)
	return binary.LittleEndian.AppendUint32(buf, crc)
}

// positionalReader is the minimal collaborator the codec needs from a
// segment's file handle: an offset-addressed read that doesn't disturb any
// shared cursor. *os.File satisfies it.
type positionalReader interface {
	ReadAt(p []byte, off int64) (int, error)
}

// DecodeFramed reads and verifies one record starting at offset, returning
// the decoded record and the number of bytes it occupies on disk so the
// caller can advance to the next record. It fails with ErrReadEOF when
// nothing can be read at offset, when the header region is all zeros, or
// when the body is truncated, and with ErrFileCorrupted on a bad varint or a
// CRC mismatch.
func DecodeFramed(r positionalReader, offset int64) (*Record, int64, error) {
	header := make([]byte, MaxHeaderSize())
	n, err := r.ReadAt(header, offset)
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, ErrReadEOF
	}

	recType := RecordType(header[0])
	pos := 1

	keySize, kn := binary.Uvarint(header[pos:])
	if kn <= 0 {
		return nil, 0, ErrFileCorrupted
	}
	pos += kn

	valueSize, vn := binary.Uvarint(header[pos:])
	if vn <= 0 {
		return nil, 0, ErrFileCorrupted
	}
	pos += vn

	if recType == Normal && keySize == 0 && valueSize == 0 {
		return nil, 0, ErrReadEOF
	}

	headerLen := pos
	bodyLen := int(keySize) + int(valueSize) + 4
	body := make([]byte, bodyLen)

	haveFromHeader := len(header) - headerLen
	if haveFromHeader > bodyLen {
		haveFromHeader = bodyLen
	}
	if haveFromHeader > 0 {
		copy(body[:haveFromHeader], header[headerLen:headerLen+haveFromHeader])
	}
	if haveFromHeader < bodyLen {
		rn, rerr := r.ReadAt(body[haveFromHeader:], offset+int64(headerLen+haveFromHeader))
		if rerr != nil && rerr != io.EOF {
			return nil, 0, rerr
		}
		if haveFromHeader+rn < bodyLen {
			// A crash mid-append leaves a trailing partial record; treat it
			// the same as end of segment rather than as corruption.
			return nil, 0, ErrReadEOF
		}
	}

	key := body[:keySize]
	value := body[keySize : keySize+valueSize]
	storedCRC := binary.LittleEndian.Uint32(body[keySize+valueSize:])

	crcSrc := make([]byte, 0, headerLen+int(keySize)+int(valueSize))
	crcSrc = append(crcSrc, header[:headerLen]...)
	crcSrc = append(crcSrc, body[:keySize+valueSize]...)
	if crc32.ChecksumIEEE(crcSrc) != storedCRC {
		return nil, 0, ErrFileCorrupted
	}

	return &Record{Type: recType, Key: key, Value: value}, int64(headerLen + bodyLen), nil
}
