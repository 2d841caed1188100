package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *LocalFS {
	t.Helper()
	fs, err := NewLocalFS(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestLocalFS_WriteReadRoundTrip(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, "history/GOOGL.json", []byte(`{"daily":{}}`)))

	data, err := fs.Read(ctx, "history/GOOGL.json")
	require.NoError(t, err)
	assert.Equal(t, `{"daily":{}}`, string(data))
}

func TestLocalFS_ExistsAndDelete(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	ok, err := fs.Exists(ctx, "missing.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Write(ctx, "a/b.json", []byte("x")))
	ok, err = fs.Exists(ctx, "a/b.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, fs.Delete(ctx, "a/b.json"))
	ok, err = fs.Exists(ctx, "a/b.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalFS_List(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, "history/GOOGL.json", []byte("1")))
	require.NoError(t, fs.Write(ctx, "history/TSM.json", []byte("2")))
	require.NoError(t, fs.Write(ctx, "backtests/run.json", []byte("3")))

	keys, err := fs.List(ctx, "history")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"history/GOOGL.json", "history/TSM.json"}, keys)
}

func TestLocalFS_ListMissingPrefix(t *testing.T) {
	fs := newTestFS(t)

	keys, err := fs.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
