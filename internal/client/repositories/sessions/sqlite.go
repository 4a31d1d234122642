package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ums/internal/dbx"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: a ":memory:" database lives only as long as it does.
	db.SetMaxOpenConns(1)

	if err := dbx.Migrate(ctx, db, "sqlite3", migrationsFor("sqlite")); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteRepository(db), nil
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE namespace = ? AND key = ?`,
		namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s/%s]: %w", namespace, key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := sqliteUpsert(ctx, r.db, namespace, key, value, r.now()); err != nil {
		return fmt.Errorf("failed to set session[%s/%s]: %w", namespace, key, err)
	}
	return nil
}

func (r *SQLiteRepository) SetAll(ctx context.Context, namespace string, values map[string][]byte) error {
	now := r.now()
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = ?`, namespace); err != nil {
			return err
		}
		for _, key := range sortedKeys(values) {
			if err := sqliteUpsert(ctx, tx, namespace, key, values[key], now); err != nil {
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

func sqliteUpsert(ctx context.Context, db dbx.DBTX, namespace, key string, value []byte, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session_values (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, namespace, key, value, now.Unix())
	return err
}

func (r *SQLiteRepository) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session_values WHERE namespace = ?`, namespace)
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

func (r *SQLiteRepository) Clear(ctx context.Context, namespace string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", namespace, err)
	}
	return nil
}

func (r *SQLiteRepository) Purge(ctx context.Context, before time.Time, keep ...string) (int64, error) {
	var n int64
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if len(keep) > 0 {
			args := []any{r.now().Unix()}
			for _, ns := range keep {
				args = append(args, ns)
			}
			q := `UPDATE session_values SET updated_at = ? WHERE namespace IN (` + placeholders(len(keep), "?") + `)`
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `
		DELETE FROM session_values WHERE namespace IN (
			SELECT namespace FROM session_values GROUP BY namespace HAVING MAX(updated_at) < ?
		)`, before.Unix())
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

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
