package sessions

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, path string) *SQLiteRepository {
	t.Helper()
	r, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRepository(t *testing.T) {
	r := openSQLite(t, ":memory:")
	testRepository(t, r, func(now time.Time) { r.now = func() time.Time { return now } })
}

func TestSQLiteRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	r, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, r.SetAll(ctx, "cli", map[string][]byte{KeyToken: []byte("tok1")}))
	require.NoError(t, r.Close())

	r2 := openSQLite(t, path)
	v, err := r2.Get(ctx, "cli", KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok1"), v)
}

func TestSQLiteRepository_ClosedDBWrapsErrors(t *testing.T) {
	ctx := context.Background()
	r, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Get(ctx, "a", KeyToken)
	assert.ErrorContains(t, err, "failed to get session[a/token]")

	err = r.SetAll(ctx, "a", map[string][]byte{KeyToken: []byte("x")})
	assert.ErrorContains(t, err, "failed to set session[a]")

	err = r.Clear(ctx, "a")
	assert.ErrorContains(t, err, "failed to clear session[a]")
}
