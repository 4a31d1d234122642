package session

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/fakebackend"
	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ManagerPerSID(t *testing.T) {
	r := NewRegistry(sessions.NewMemoryRepository(), apiclient.New("http://127.0.0.1:0"), logging.Nop(), time.Hour)

	a := r.Manager("a")
	assert.Same(t, a, r.Manager("a"))
	assert.NotSame(t, a, r.Manager("b"))
	assert.Equal(t, "a", a.Namespace())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Evict(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(sessions.NewMemoryRepository(), apiclient.New("http://127.0.0.1:0"), logging.Nop(), time.Hour)
	r.now = func() time.Time { return now }

	r.Manager("old")
	now = now.Add(50 * time.Minute)
	r.Manager("fresh")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, r.Evict())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SweepPurgesStore(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryRepository()
	require.NoError(t, store.SetAll(ctx, "gone", map[string][]byte{sessions.KeyToken: []byte("t")}))

	r := NewRegistry(store, apiclient.New("http://127.0.0.1:0"), logging.Nop(), time.Minute)
	r.Manager("gone")
	r.now = func() time.Time { return time.Now().Add(time.Hour) }

	r.Sweep(ctx)

	assert.Equal(t, 0, r.Len())
	v, err := store.Get(ctx, "gone", sessions.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRegistry_EvictedManagerRehydrates(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryRepository()
	r := NewRegistry(store, apiclient.New("http://127.0.0.1:0"), logging.Nop(), time.Hour)

	require.NoError(t, store.SetAll(ctx, "sid", map[string][]byte{
		sessions.KeyToken: []byte("tok"),
		sessions.KeyUser:  []byte(`{"id":"u1","roles":["ADMIN"]}`),
	}))
	first := r.Manager("sid")
	require.NoError(t, first.Hydrate(ctx))

	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	r.Evict()

	second := r.Manager("sid")
	assert.NotSame(t, first, second)
	require.NoError(t, second.Hydrate(ctx))
	require.NotNil(t, second.Current())
	assert.Equal(t, "tok", second.Token())
}

func TestRegistry_SweepKeepsActiveSession(t *testing.T) {
	ctx := context.Background()
	b := fakebackend.New()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	b.AddUser("Ada", "Admin", "admin@uni.test", "pw", models.RoleAdmin)

	store := sessions.NewMemoryRepository()
	client := apiclient.New(srv.URL+fakebackend.BasePath, apiclient.WithLogger(logging.Nop()))
	r := NewRegistry(store, client, logging.Nop(), time.Hour)

	_, err := r.Manager("sid").Login(ctx, "admin@uni.test", "pw")
	require.NoError(t, err)

	// the user keeps browsing well past the TTL without writing storage
	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	m := r.Manager("sid")
	r.Sweep(ctx)

	require.NotNil(t, m.Current())
	tok, err := store.Get(ctx, "sid", sessions.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, m.Token(), string(tok))

	// a later sweep after real inactivity drops both copies
	r.now = func() time.Time { return time.Now().Add(4 * time.Hour) }
	r.Sweep(ctx)
	assert.Equal(t, 0, r.Len())
	tok, err = store.Get(ctx, "sid", sessions.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, tok)
}
