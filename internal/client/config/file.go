package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/ums/internal/flagx"
	"github.com/dmitrijs2005/ums/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape. Pointer and zero values mean "not set" so
// a partial file only overrides what it names.
type FileConfig struct {
	BackendURL      string         `json:"backend_url" yaml:"backend_url"`
	ListenAddr      string         `json:"listen_addr" yaml:"listen_addr"`
	SessionStore    string         `json:"session_store" yaml:"session_store"`
	SQLitePath      string         `json:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN     string         `json:"postgres_dsn" yaml:"postgres_dsn"`
	RedisAddr       string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string         `json:"redis_password" yaml:"redis_password"`
	CookieName      string         `json:"cookie_name" yaml:"cookie_name"`
	CookieSecure    *bool          `json:"cookie_secure" yaml:"cookie_secure"`
	SessionTTL      timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	PurgeInterval   timex.Duration `json:"purge_interval" yaml:"purge_interval"`
	PageSize        int            `json:"page_size" yaml:"page_size"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
	LogFormat       string         `json:"log_format" yaml:"log_format"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays cfg with the file named by -c/-config, if any. It
// panics on read or decode errors.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.BackendURL, fc.BackendURL)
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.SessionStore, fc.SessionStore)
	setString(&cfg.SQLitePath, fc.SQLitePath)
	setString(&cfg.PostgresDSN, fc.PostgresDSN)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPassword, fc.RedisPassword)
	setString(&cfg.CookieName, fc.CookieName)
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	if fc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.PurgeInterval.Duration > 0 {
		cfg.PurgeInterval = fc.PurgeInterval.Duration
	}
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
