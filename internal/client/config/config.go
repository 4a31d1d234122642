package config

import (
	"time"
)

type Config struct {
	BackendURL string
	ListenAddr string

	SessionStore  string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string

	CookieName   string
	CookieSecure bool

	// SessionTTL is how long an untouched session survives. PurgeInterval is
	// how often expired ones are swept.
	SessionTTL    time.Duration
	PurgeInterval time.Duration

	PageSize        int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates c with defaults suitable for local development.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8080/api/v1"
	c.ListenAddr = ":3000"
	c.SessionStore = "sqlite"
	c.SQLitePath = "data/sessions.db"
	c.CookieName = "ums_sid"
	c.CookieSecure = false
	c.SessionTTL = 24 * time.Hour
	c.PurgeInterval = 10 * time.Minute
	c.PageSize = 10
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the config file, the environment and the
// flags found in args (usually os.Args[1:]). Later sources win. It panics on
// an unreadable config file or a malformed flag.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
