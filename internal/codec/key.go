package codec

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedFramedKey indicates a framed key's prefix/seq-id varints
// don't fit inside the bytes available — always a sign of disk corruption
// or a programming error, never a valid input from a caller.
var ErrMalformedFramedKey = errors.New("codec: malformed framed key")

// EncodeFramedKey builds the bytes stored in a record's key field:
// [varint(prefix_len)][prefix][varint(seq_id)][user_key]. seqID 0 marks a
// non-batched write; any other value ties the record to a batch.
func EncodeFramedKey(prefix []byte, seqID uint64, userKey []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte

	buf := make([]byte, 0, binary.MaxVarintLen64+len(prefix)+binary.MaxVarintLen64+len(userKey))

	n := binary.PutUvarint(lenBuf[:], uint64(len(prefix)))
	buf = append(buf, lenBuf[:n]...)
	buf = append(buf, prefix...)

	n = binary.PutUvarint(lenBuf[:], seqID)
	buf = append(buf, lenBuf[:n]...)
	buf = append(buf, userKey...)

	return buf
}

// DecodeFramedKey parses the bytes produced by EncodeFramedKey back into
// their three parts. The returned slices alias framed — callers that need
// to retain them past the lifetime of the backing buffer must copy.
func DecodeFramedKey(framed []byte) (prefix []byte, seqID uint64, userKey []byte, err error) {
	prefixLen, n := binary.Uvarint(framed)
	if n <= 0 {
		return nil, 0, nil, ErrMalformedFramedKey
	}
	rest := framed[n:]
	if uint64(len(rest)) < prefixLen {
		return nil, 0, nil, ErrMalformedFramedKey
	}
	prefix = rest[:prefixLen]
	rest = rest[prefixLen:]

	seqID, n = binary.Uvarint(rest)
	if n <= 0 {
		return nil, 0, nil, ErrMalformedFramedKey
	}
	userKey = rest[n:]

	return prefix, seqID, userKey, nil
}
