package segment

import (
	"testing"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestSegmentAppendAndReadRecord(t *testing.T) {
	dir := t.TempDir()

	seg, err := Open(dir, 0)
	require.NoError(t, err)
	defer seg.Close()

	rec := &codec.Record{Type: codec.Normal, Key: []byte("key"), Value: []byte("value")}
	encoded := codec.Encode(rec)

	offset := seg.Cursor()
	written, err := seg.Append(encoded)
	require.NoError(t, err)
	require.Equal(t, int64(len(encoded)), written)
	require.Equal(t, offset+written, seg.Cursor())

	decoded, size, err := seg.ReadRecord(offset)
	require.NoError(t, err)
	require.Equal(t, int64(len(encoded)), size)
	require.Equal(t, rec.Key, decoded.Key)
	require.Equal(t, rec.Value, decoded.Value)
}

func TestSegmentReopenPreservesCursor(t *testing.T) {
	dir := t.TempDir()

	seg, err := Open(dir, 1)
	require.NoError(t, err)

	encoded := codec.Encode(&codec.Record{Type: codec.Normal, Key: []byte("k"), Value: []byte("v")})
	_, err = seg.Append(encoded)
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	reopened, err := Open(dir, 1)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, int64(len(encoded)), reopened.Cursor())
}

func TestSegmentSetCursorTruncatesVisibility(t *testing.T) {
	dir := t.TempDir()

	seg, err := Open(dir, 2)
	require.NoError(t, err)
	defer seg.Close()

	encoded := codec.Encode(&codec.Record{Type: codec.Normal, Key: []byte("k"), Value: []byte("v")})
	_, err = seg.Append(encoded)
	require.NoError(t, err)

	seg.SetCursor(0)
	require.Equal(t, int64(0), seg.Cursor())
}
