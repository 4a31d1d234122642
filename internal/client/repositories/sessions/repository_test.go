package sessions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behavior every store must share. setNow moves the
// store's clock.
func testRepository(t *testing.T, r Repository, setNow func(time.Time)) {
	ctx := context.Background()

	t.Run("get absent", func(t *testing.T) {
		v, err := r.Get(ctx, "nobody", KeyToken)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set all then get", func(t *testing.T) {
		require.NoError(t, r.SetAll(ctx, "a", map[string][]byte{
			KeyToken: []byte("tok1"),
			KeyUser:  []byte(`{"id":"u1"}`),
		}))

		tok, err := r.Get(ctx, "a", KeyToken)
		require.NoError(t, err)
		assert.Equal(t, []byte("tok1"), tok)

		all, err := r.List(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{KeyToken: []byte("tok1"), KeyUser: []byte(`{"id":"u1"}`)}, all)
	})

	t.Run("set all replaces", func(t *testing.T) {
		require.NoError(t, r.SetAll(ctx, "a", map[string][]byte{KeyUser: []byte(`{"id":"u2"}`)}))

		tok, err := r.Get(ctx, "a", KeyToken)
		require.NoError(t, err)
		assert.Nil(t, tok, "keys missing from SetAll must be dropped")
	})

	t.Run("set overwrites single key", func(t *testing.T) {
		require.NoError(t, r.Set(ctx, "a", KeyUser, []byte(`{"id":"u3"}`)))
		v, err := r.Get(ctx, "a", KeyUser)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":"u3"}`), v)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		require.NoError(t, r.SetAll(ctx, "b", map[string][]byte{KeyToken: []byte("tokB")}))
		require.NoError(t, r.Clear(ctx, "a"))

		v, err := r.Get(ctx, "a", KeyUser)
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = r.Get(ctx, "b", KeyToken)
		require.NoError(t, err)
		assert.Equal(t, []byte("tokB"), v)

		empty, err := r.List(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	if setNow == nil {
		return
	}

	t.Run("purge drops idle namespaces", func(t *testing.T) {
		base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		setNow(base)
		require.NoError(t, r.SetAll(ctx, "old", map[string][]byte{KeyToken: []byte("x"), KeyUser: []byte("{}")}))
		setNow(base.Add(2 * time.Hour))
		require.NoError(t, r.SetAll(ctx, "fresh", map[string][]byte{KeyToken: []byte("y")}))
		require.NoError(t, r.Clear(ctx, "b"))

		n, err := r.Purge(ctx, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		v, err := r.Get(ctx, "old", KeyToken)
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = r.Get(ctx, "fresh", KeyToken)
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), v)
	})

	t.Run("purge keeps live namespaces", func(t *testing.T) {
		require.NoError(t, r.Clear(ctx, "fresh"))
		base := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
		setNow(base)
		require.NoError(t, r.SetAll(ctx, "live", map[string][]byte{KeyToken: []byte("l")}))
		require.NoError(t, r.SetAll(ctx, "idle", map[string][]byte{KeyToken: []byte("i")}))
		setNow(base.Add(2 * time.Hour))

		n, err := r.Purge(ctx, base.Add(time.Hour), "live", "unknown")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		v, err := r.Get(ctx, "live", KeyToken)
		require.NoError(t, err)
		assert.Equal(t, []byte("l"), v)

		// kept namespaces count as written at the purge
		n, err = r.Purge(ctx, base.Add(90*time.Minute))
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	testRepository(t, r, func(now time.Time) { r.now = func() time.Time { return now } })
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Set(ctx, "a", KeyToken, []byte("tok")))

	v, _ := r.Get(ctx, "a", KeyToken)
	v[0] = 'X'

	again, _ := r.Get(ctx, "a", KeyToken)
	assert.Equal(t, []byte("tok"), again)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(context.Background(), Options{Kind: "etcd"})
	assert.EqualError(t, err, `unknown session store "etcd"`)
}

func TestOpen_Memory(t *testing.T) {
	r, err := Open(context.Background(), Options{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, r)
	assert.NoError(t, r.Close())
}

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "sessions.db")
	r, err := Open(context.Background(), Options{Kind: KindSQLite, SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Set(context.Background(), "cli", KeyToken, []byte("tok")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
