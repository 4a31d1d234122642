package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8080/api/v1", c.BackendURL)
	assert.Equal(t, "ums_sid", c.CookieName)
	assert.Equal(t, "sqlite", c.SessionStore)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 10, c.PageSize)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	t.Chdir(t.TempDir())

	got := LoadConfig(nil)
	assert.Empty(t, cmp.Diff(defaults(), got))
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		body   string
		mutate func(c *Config)
	}{
		{
			name: "yaml",
			file: "cfg.yaml",
			body: "backend_url: http://api:9000/api/v1\nsession_store: redis\nredis_addr: cache:6379\nsession_ttl: 30m\ncookie_secure: true\n",
			mutate: func(c *Config) {
				c.BackendURL = "http://api:9000/api/v1"
				c.SessionStore = "redis"
				c.RedisAddr = "cache:6379"
				c.SessionTTL = 30 * time.Minute
				c.CookieSecure = true
			},
		},
		{
			name: "json",
			file: "cfg.json",
			body: `{"listen_addr": ":8081", "page_size": 25, "purge_interval": "1m", "log_format": "text"}`,
			mutate: func(c *Config) {
				c.ListenAddr = ":8081"
				c.PageSize = 25
				c.PurgeInterval = time.Minute
				c.LogFormat = "text"
			},
		},
		{
			name:   "empty json keeps defaults",
			file:   "empty.json",
			body:   `{}`,
			mutate: func(*Config) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.body)
			got := defaults()
			parseFile(got, []string{"-c", path})

			want := defaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseFile_Panics(t *testing.T) {
	bad := writeFile(t, "bad.json", `{ this is not valid json`)
	require.Panics(t, func() { parseFile(defaults(), []string{"-config", bad}) })
	require.Panics(t, func() { parseFile(defaults(), []string{"-c", "/does/not/exist.yaml"}) })
}

func TestParseEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UMS_BACKEND_URL", "http://env/api/v1")
	t.Setenv("UMS_COOKIE_SECURE", "true")
	t.Setenv("UMS_SESSION_TTL", "2h")
	t.Setenv("UMS_PAGE_SIZE", "not-a-number")

	got := defaults()
	parseEnv(got)

	want := defaults()
	want.BackendURL = "http://env/api/v1"
	want.CookieSecure = true
	want.SessionTTL = 2 * time.Hour
	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UMS_LOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("UMS_LOG_LEVEL") })

	got := defaults()
	parseEnv(got)
	assert.Equal(t, "debug", got.LogLevel)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		mutate      func(c *Config)
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://b/api/v1", "-l", ":9999", "-s", "memory"},
			mutate: func(c *Config) {
				c.BackendURL = "http://b/api/v1"
				c.ListenAddr = ":9999"
				c.SessionStore = "memory"
			},
		},
		{
			name:   "unrelated flags are ignored",
			args:   []string{"-c", "cfg.yaml", "-v", "-s", "postgres"},
			mutate: func(c *Config) { c.SessionStore = "postgres" },
		},
		{name: "missing value", args: []string{"-a"}, expectPanic: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(got, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(got, tt.args) })
			want := defaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "cfg.yaml", "backend_url: http://file/api/v1\nlisten_addr: :1111\nsession_store: postgres\n")
	t.Setenv("UMS_LISTEN_ADDR", ":2222")

	got := LoadConfig([]string{"-c", path, "-s", "memory"})

	assert.Equal(t, "http://file/api/v1", got.BackendURL)
	assert.Equal(t, ":2222", got.ListenAddr)
	assert.Equal(t, "memory", got.SessionStore)
}
