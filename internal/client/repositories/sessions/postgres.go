package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ums/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepository lets several web nodes share browser sessions.
type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := dbx.Migrate(ctx, db, "postgres", migrationsFor("postgres")); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresRepository(db), nil
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE namespace = $1 AND key = $2`,
		namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s/%s]: %w", namespace, key, err)
	}
	return value, nil
}

func (r *PostgresRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := postgresUpsert(ctx, r.db, namespace, key, value, r.now()); err != nil {
		return fmt.Errorf("failed to set session[%s/%s]: %w", namespace, key, err)
	}
	return nil
}

func (r *PostgresRepository) SetAll(ctx context.Context, namespace string, values map[string][]byte) error {
	now := r.now()
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = $1`, namespace); err != nil {
			return err
		}
		for _, key := range sortedKeys(values) {
			if err := postgresUpsert(ctx, tx, namespace, key, values[key], now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", namespace, err)
	}
	return nil
}

func postgresUpsert(ctx context.Context, db dbx.DBTX, namespace, key string, value []byte, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session_values (namespace, key, value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, namespace, key, value, now)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session_values WHERE namespace = $1`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list session[%s]: %w", namespace, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Clear(ctx context.Context, namespace string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = $1`, namespace); err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", namespace, err)
	}
	return nil
}

func (r *PostgresRepository) Purge(ctx context.Context, before time.Time, keep ...string) (int64, error) {
	var n int64
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if len(keep) > 0 {
			args := []any{r.now()}
			for _, ns := range keep {
				args = append(args, ns)
			}
			q := `UPDATE session_values SET updated_at = $1 WHERE namespace IN (` + placeholders(len(keep), "$") + `)`
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `
		DELETE FROM session_values WHERE namespace IN (
			SELECT namespace FROM session_values GROUP BY namespace HAVING MAX(updated_at) < $1
		)`, before)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
