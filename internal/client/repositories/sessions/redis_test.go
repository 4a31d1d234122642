package sessions

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// openTestRedis connects to UMS_TEST_REDIS_ADDR when set and otherwise starts
// a throwaway Redis container.
func openTestRedis(t *testing.T) *RedisRepository {
	t.Helper()
	ctx := context.Background()
	addr := os.Getenv("UMS_TEST_REDIS_ADDR")
	if addr == "" {
		addr = startRedisContainer(ctx, t)
	}
	r, err := OpenRedis(ctx, addr, os.Getenv("UMS_TEST_REDIS_PASSWORD"), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func startRedisContainer(ctx context.Context, t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate redis container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return net.JoinHostPort(host, port.Port())
}

func TestRedisRepository(t *testing.T) {
	r := openTestRedis(t)
	testRepository(t, prefixed{r, uuid.NewString() + ":"}, nil)
}

func TestRedisRepository_TTLRefreshedOnWrite(t *testing.T) {
	r := openTestRedis(t)
	ctx := context.Background()
	ns := uuid.NewString()
	t.Cleanup(func() { _ = r.Clear(ctx, ns) })

	require.NoError(t, r.SetAll(ctx, ns, map[string][]byte{KeyToken: []byte("tok")}))
	ttl, err := r.rdb.TTL(ctx, redisKey(ns)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	_, err = r.rdb.HGet(ctx, redisKey(ns), "missing").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisRepository_PurgeExtendsKept(t *testing.T) {
	r := openTestRedis(t)
	ctx := context.Background()
	live, idle := uuid.NewString(), uuid.NewString()
	t.Cleanup(func() {
		_ = r.Clear(ctx, live)
		_ = r.Clear(ctx, idle)
	})

	for _, ns := range []string{live, idle} {
		require.NoError(t, r.SetAll(ctx, ns, map[string][]byte{KeyToken: []byte("tok")}))
		require.NoError(t, r.rdb.Expire(ctx, redisKey(ns), 5*time.Second).Err())
	}

	n, err := r.Purge(ctx, time.Now(), live)
	require.NoError(t, err)
	assert.Zero(t, n)

	ttl, err := r.rdb.TTL(ctx, redisKey(live)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	ttl, err = r.rdb.TTL(ctx, redisKey(idle)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 5*time.Second)
}

func TestRedisRepository_ClearDropsKey(t *testing.T) {
	r := openTestRedis(t)
	ctx := context.Background()
	ns := uuid.NewString()

	require.NoError(t, r.SetAll(ctx, ns, map[string][]byte{KeyToken: []byte("tok"), KeyUser: []byte("{}")}))
	require.NoError(t, r.Clear(ctx, ns))

	n, err := r.rdb.Exists(ctx, redisKey(ns)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

// prefixed keeps concurrent test runs against a shared Redis apart.
type prefixed struct {
	*RedisRepository
	prefix string
}

func (p prefixed) Get(ctx context.Context, ns, key string) ([]byte, error) {
	return p.RedisRepository.Get(ctx, p.prefix+ns, key)
}
func (p prefixed) Set(ctx context.Context, ns, key string, v []byte) error {
	return p.RedisRepository.Set(ctx, p.prefix+ns, key, v)
}
func (p prefixed) SetAll(ctx context.Context, ns string, v map[string][]byte) error {
	return p.RedisRepository.SetAll(ctx, p.prefix+ns, v)
}
func (p prefixed) List(ctx context.Context, ns string) (map[string][]byte, error) {
	return p.RedisRepository.List(ctx, p.prefix+ns)
}
func (p prefixed) Clear(ctx context.Context, ns string) error {
	return p.RedisRepository.Clear(ctx, p.prefix+ns)
}
func (p prefixed) Purge(ctx context.Context, before time.Time, keep ...string) (int64, error) {
	ns := make([]string, len(keep))
	for i, k := range keep {
		ns[i] = p.prefix + k
	}
	return p.RedisRepository.Purge(ctx, before, ns...)
}
