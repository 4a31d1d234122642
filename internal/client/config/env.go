package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with UMS_* variables. A .env file in the working
// directory is loaded first; variables already set in the process win over
// it. Malformed numbers and durations are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.BackendURL, os.Getenv("UMS_BACKEND_URL"))
	setString(&cfg.ListenAddr, os.Getenv("UMS_LISTEN_ADDR"))
	setString(&cfg.SessionStore, os.Getenv("UMS_SESSION_STORE"))
	setString(&cfg.SQLitePath, os.Getenv("UMS_SQLITE_PATH"))
	setString(&cfg.PostgresDSN, os.Getenv("UMS_POSTGRES_DSN"))
	setString(&cfg.RedisAddr, os.Getenv("UMS_REDIS_ADDR"))
	setString(&cfg.RedisPassword, os.Getenv("UMS_REDIS_PASSWORD"))
	setString(&cfg.CookieName, os.Getenv("UMS_COOKIE_NAME"))
	if v, err := strconv.ParseBool(os.Getenv("UMS_COOKIE_SECURE")); err == nil {
		cfg.CookieSecure = v
	}
	cfg.SessionTTL = getenvDuration("UMS_SESSION_TTL", cfg.SessionTTL)
	cfg.PurgeInterval = getenvDuration("UMS_PURGE_INTERVAL", cfg.PurgeInterval)
	if v, err := strconv.Atoi(os.Getenv("UMS_PAGE_SIZE")); err == nil && v > 0 {
		cfg.PageSize = v
	}
	setString(&cfg.LogLevel, os.Getenv("UMS_LOG_LEVEL"))
	setString(&cfg.LogFormat, os.Getenv("UMS_LOG_FORMAT"))
	cfg.ShutdownTimeout = getenvDuration("UMS_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
