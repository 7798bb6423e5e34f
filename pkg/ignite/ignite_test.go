package ignite

import (
	"fmt"
	"testing"

	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, extra ...options.OptionFunc) *Instance {
	t.Helper()

	dir := t.TempDir()
	opts := append([]options.OptionFunc{options.WithDataDir(dir)}, extra...)

	inst, err := Open(t.Name(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = inst.Close() })
	return inst
}

func reopen(t *testing.T, inst *Instance, extra ...options.OptionFunc) *Instance {
	t.Helper()
	dir := inst.opts.DataDir
	require.NoError(t, inst.Close())

	opts := append([]options.OptionFunc{options.WithDataDir(dir)}, extra...)
	reopened, err := Open(t.Name(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	return reopened
}

// E1 simple round trip.
func TestSimpleRoundTrip(t *testing.T) {
	inst := openTest(t)

	require.NoError(t, inst.Put([]byte("key1"), []byte("value1")))
	require.NoError(t, inst.Put([]byte("key2"), []byte("value2")))

	v, err := inst.Get([]byte("key1"))
	require.NoError(t, err)
	require.Equal(t, "value1", string(v))

	require.NoError(t, inst.Delete([]byte("key1")))
	_, err = inst.Get([]byte("key1"))
	require.Error(t, err)
	require.Equal(t, errors.ErrorCodeKeyNotFound, errors.GetErrorCode(err))

	inst = reopen(t, inst)

	_, err = inst.Get([]byte("key1"))
	require.Error(t, err)

	v, err = inst.Get([]byte("key2"))
	require.NoError(t, err)
	require.Equal(t, "value2", string(v))
}

// E2 overwrite semantics.
func TestOverwriteSemantics(t *testing.T) {
	inst := openTest(t)

	require.NoError(t, inst.Put([]byte("k"), []byte("a")))
	require.NoError(t, inst.Put([]byte("k"), []byte("b")))

	v, err := inst.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, "b", string(v))

	inst = reopen(t, inst)

	v, err = inst.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, "b", string(v))
}

// E3 rotation, scaled down from the full million-key scenario: the minimum
// threshold forces several rotations over twenty thousand keys, and every key
// must remain gettable across a close/open cycle regardless of which
// segment it landed in.
func TestRotationPreservesAddressability(t *testing.T) {
	const n = 20000

	inst := openTest(t, options.WithSegmentThreshold(options.MinSegmentThreshold))

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("bitcast-rs-test-key-%09d", i)
		value := fmt.Sprintf("%0100d", i)
		require.NoError(t, inst.Put([]byte(key), []byte(value)))
	}

	inst = reopen(t, inst, options.WithSegmentThreshold(options.MinSegmentThreshold))

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("bitcast-rs-test-key-%09d", i)
		want := fmt.Sprintf("%0100d", i)
		got, err := inst.Get([]byte(key))
		require.NoError(t, err)
		require.Equal(t, want, string(got))
	}
}

// E4 batch atomicity.
func TestBatchAtomicity(t *testing.T) {
	inst := openTest(t)
	require.NoError(t, inst.Put([]byte("c"), []byte("3")))

	b := inst.WriteBatch()
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("a"), []byte("2")))
	require.NoError(t, b.Put([]byte("a"), []byte("3")))
	require.NoError(t, b.Put([]byte("b"), []byte("10")))
	require.NoError(t, b.Delete([]byte("c")))
	require.NoError(t, b.Commit())

	check := func() {
		v, err := inst.Get([]byte("a"))
		require.NoError(t, err)
		require.Equal(t, "3", string(v))

		v, err = inst.Get([]byte("b"))
		require.NoError(t, err)
		require.Equal(t, "10", string(v))

		_, err = inst.Get([]byte("c"))
		require.Error(t, err)
	}
	check()

	inst = reopen(t, inst)
	check()
}

// E5 batch visibility.
func TestBatchVisibility(t *testing.T) {
	inst := openTest(t)

	b := inst.WriteBatch()
	require.NoError(t, b.Put([]byte("k"), []byte("v1")))

	v, err := b.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, "v1", string(v))

	_, err = inst.Get([]byte("k"))
	require.Error(t, err)

	// Dropping the batch without committing leaves the instance untouched.
	_, err = inst.Get([]byte("k"))
	require.Error(t, err)
}

// E6 prefix iterator.
func TestPrefixIterator(t *testing.T) {
	inst := openTest(t)

	for k, v := range map[string]string{
		"key":         "v",
		"key1":        "v1",
		"prefix_key":  "v",
		"prefix_key1": "v1",
	} {
		require.NoError(t, inst.Put([]byte(k), []byte(v)))
	}

	it := inst.Iterator(options.IteratorOptions{Prefix: []byte("prefix_")})
	k, v, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "prefix_key", string(k))
	require.Equal(t, "v", string(v))

	k, v, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "prefix_key1", string(k))
	require.Equal(t, "v1", string(v))

	_, _, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
