package batch

import (
	"testing"

	"github.com/iamNilotpal/ignitedb/internal/engine"
	"github.com/iamNilotpal/ignitedb/pkg/logger"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	eng, err := engine.Open(opts, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func newTestBatch(t *testing.T, eng *engine.Engine) *WriteBatch {
	t.Helper()
	return New(eng, options.WriteBatchOptions{SyncOnCommit: false, MaxBatchSize: 10})
}

func TestBatchCommitAppliesAllPuts(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	require.NoError(t, b.Put([]byte("c"), []byte("3")))

	require.NoError(t, b.Commit())

	for k, v := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		got, err := eng.Get([]byte(k))
		require.NoError(t, err)
		require.Equal(t, v, string(got))
	}
}

func TestBatchUncommittedChangesNotVisibleOnEngine(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("a"), []byte("1")))

	_, err := eng.Get([]byte("a"))
	require.Error(t, err)
}

func TestBatchGetSeesStagedPutBeforeCommit(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("a"), []byte("1")))

	got, err := b.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, "1", string(got))
}

func TestBatchGetFallsBackToEngineForUnstagedKey(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Put([]byte("existing"), []byte("v")))

	b := newTestBatch(t, eng)
	got, err := b.Get([]byte("existing"))
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
}

func TestBatchDeleteCollapsesPendingPut(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("a")))
	require.Empty(t, b.staging)

	require.NoError(t, b.Commit())

	_, err := eng.Get([]byte("a"))
	require.Error(t, err)
}

func TestBatchDeleteOfLiveKeyStagesTombstone(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Put([]byte("a"), []byte("1")))

	b := newTestBatch(t, eng)
	require.NoError(t, b.Delete([]byte("a")))
	require.NoError(t, b.Commit())

	_, err := eng.Get([]byte("a"))
	require.Error(t, err)
}

func TestBatchCommitIsAtomicAcrossKeys(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("x"), []byte("1")))
	require.NoError(t, b.Put([]byte("y"), []byte("2")))
	require.NoError(t, b.Commit())

	x, err := eng.Get([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, "1", string(x))

	y, err := eng.Get([]byte("y"))
	require.NoError(t, err)
	require.Equal(t, "2", string(y))
}

func TestBatchCommitEmptyIsNoop(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)
	require.NoError(t, b.Commit())
}

func TestBatchCommitClearsStaging(t *testing.T) {
	eng := newTestEngine(t)
	b := newTestBatch(t, eng)

	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Commit())
	require.Empty(t, b.staging)
}

func TestBatchExceedsMaxSizeFailsWithoutWriting(t *testing.T) {
	eng := newTestEngine(t)
	b := New(eng, options.WriteBatchOptions{SyncOnCommit: false, MaxBatchSize: 1})

	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))

	err := b.Commit()
	require.Error(t, err)

	_, err = eng.Get([]byte("a"))
	require.Error(t, err)
}

func TestBatchSurvivesRestart(t *testing.T) {
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	eng, err := engine.Open(opts, logger.NewNop())
	require.NoError(t, err)

	b := New(eng, options.WriteBatchOptions{SyncOnCommit: true, MaxBatchSize: 10})
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	require.NoError(t, b.Commit())
	require.NoError(t, eng.Close())

	reopened, err := engine.Open(opts, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	a, err := reopened.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, "1", string(a))

	bb, err := reopened.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, "2", string(bb))
}
