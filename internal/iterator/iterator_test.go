package iterator

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

func drain(it *Iterator) ([]string, []string) {
	var keys, values []string
	for {
		k, v, ok, err := it.Next()
		if err != nil || !ok {
			break
		}
		keys = append(keys, string(k))
		values = append(values, string(v))
	}
	return keys, values
}

func TestIteratorPrefixForwardAndReverse(t *testing.T) {
	eng := newTestEngine(t)

	for k, v := range map[string]string{
		"key":         "v",
		"key1":        "v1",
		"prefix_key":  "v",
		"prefix_key1": "v1",
	} {
		require.NoError(t, eng.Put([]byte(k), []byte(v)))
	}

	it := New(eng, options.IteratorOptions{Prefix: []byte("prefix_")})
	keys, values := drain(it)
	require.Equal(t, []string{"prefix_key", "prefix_key1"}, keys)
	require.Equal(t, []string{"v", "v1"}, values)

	it = New(eng, options.IteratorOptions{Prefix: []byte("prefix_")})
	it.Seek([]byte("prefix_key1"))
	keys, _ = drain(it)
	require.Equal(t, []string{"prefix_key1"}, keys)

	it = New(eng, options.IteratorOptions{Prefix: []byte("prefix_"), Reverse: true})
	it.Seek([]byte("prefix_key2"))
	keys, values = drain(it)
	require.Equal(t, []string{"prefix_key1", "prefix_key"}, keys)
	require.Equal(t, []string{"v1", "v"}, values)
}

func TestIteratorAscendingFullScan(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Put([]byte("b"), []byte("2")))
	require.NoError(t, eng.Put([]byte("a"), []byte("1")))
	require.NoError(t, eng.Put([]byte("c"), []byte("3")))

	it := New(eng, options.IteratorOptions{})
	keys, values := drain(it)
	require.Equal(t, []string{"a", "b", "c"}, keys)
	require.Equal(t, []string{"1", "2", "3"}, values)
}

func TestIteratorSnapshotIsolation(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Put([]byte("a"), []byte("1")))

	it := New(eng, options.IteratorOptions{})
	require.NoError(t, eng.Put([]byte("b"), []byte("2")))

	keys, _ := drain(it)
	require.Equal(t, []string{"a"}, keys)
}

func TestIteratorRewind(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Put([]byte("a"), []byte("1")))
	require.NoError(t, eng.Put([]byte("b"), []byte("2")))

	it := New(eng, options.IteratorOptions{})
	keys1, _ := drain(it)
	it.Rewind()
	keys2, _ := drain(it)
	require.Equal(t, keys1, keys2)
}
