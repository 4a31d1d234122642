package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ums/internal/filex"
)

const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindRedis    = "redis"
	KindMemory   = "memory"
)

type Options struct {
	Kind          string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

// Open returns the repository selected by o.Kind.
func Open(ctx context.Context, o Options) (Repository, error) {
	switch o.Kind {
	case KindSQLite, "":
		path, err := filex.EnsureFileDir(o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("session store directory: %w", err)
		}
		return OpenSQLite(ctx, path)
	case KindPostgres:
		return OpenPostgres(ctx, o.PostgresDSN)
	case KindRedis:
		return OpenRedis(ctx, o.RedisAddr, o.RedisPassword, o.TTL)
	case KindMemory:
		return NewMemoryRepository(), nil
	}
	return nil, fmt.Errorf("unknown session store %q", o.Kind)
}
