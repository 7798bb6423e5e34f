package engine

import (
	"testing"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/pkg/logger"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"github.com/stretchr/testify/require"
)

// A crash between a batch's member records and its terminator must leave
// those writes invisible on the next open: recovery discards any batch
// whose staged entries never resolved against a terminator.
func TestRecoveryDiscardsOrphanedBatch(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	eng, err := Open(opts, logger.NewNop())
	require.NoError(t, err)

	prefix := eng.SessionPrefix()
	seqID := eng.NextSeqID()
	eng.LockCommit()
	_, err = eng.AppendFramed(prefix, seqID, []byte("orphan"), codec.Normal, []byte("v"))
	eng.UnlockCommit()
	require.NoError(t, err)

	require.NoError(t, eng.Sync())
	require.NoError(t, eng.Close())

	reopened, err := Open(opts, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Get([]byte("orphan"))
	require.Error(t, err)
}

// A batch whose member records and terminator both land, in order, resolve
// into the keydir on recovery exactly as if applied live.
func TestRecoveryAppliesCompletedBatch(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	eng, err := Open(opts, logger.NewNop())
	require.NoError(t, err)

	prefix := eng.SessionPrefix()
	seqID := eng.NextSeqID()

	eng.LockCommit()
	_, err = eng.AppendFramed(prefix, seqID, []byte("a"), codec.Normal, []byte("1"))
	require.NoError(t, err)
	_, err = eng.AppendFramed(prefix, seqID, []byte("b"), codec.Normal, []byte("2"))
	require.NoError(t, err)
	_, err = eng.AppendFramed(prefix, seqID, []byte("txn_fin"), codec.BatchCommit, nil)
	require.NoError(t, err)
	eng.UnlockCommit()

	require.NoError(t, eng.Sync())
	require.NoError(t, eng.Close())

	reopened, err := Open(opts, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	a, err := reopened.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, "1", string(a))

	b, err := reopened.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, "2", string(b))
}

// A batch whose member records land before a segment rotation and whose
// terminator lands after must still resolve: the pending-batch table spans
// the whole multi-segment replay, not just a single segment's scan.
func TestRecoveryResolvesBatchAcrossRotation(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentThreshold = options.MinSegmentThreshold

	eng, err := Open(opts, logger.NewNop())
	require.NoError(t, err)

	prefix := eng.SessionPrefix()
	seqID := eng.NextSeqID()

	eng.LockCommit()
	_, err = eng.AppendFramed(prefix, seqID, []byte("a"), codec.Normal, []byte("1"))
	require.NoError(t, err)

	filler := make([]byte, 2048)
	for i := 0; i < 1000; i++ {
		key := []byte{byte(i >> 8), byte(i)}
		_, err = eng.AppendFramed(prefix, 0, key, codec.Normal, filler)
		require.NoError(t, err)
	}

	_, err = eng.AppendFramed(prefix, seqID, []byte("txn_fin"), codec.BatchCommit, nil)
	require.NoError(t, err)
	eng.UnlockCommit()

	require.NoError(t, eng.Sync())
	require.NoError(t, eng.Close())

	reopened, err := Open(opts, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	a, err := reopened.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, "1", string(a))
}
