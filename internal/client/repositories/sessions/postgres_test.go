package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pgNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newPostgresWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewPostgresRepository(db)
	r.now = func() time.Time { return pgNow }
	return r, mock
}

const (
	pgSelect = `(?s)^SELECT\s+value\s+FROM\s+session_values\s+WHERE\s+namespace\s*=\s*\$1\s+AND\s+key\s*=\s*\$2\s*$`
	pgDelete = `(?s)^DELETE\s+FROM\s+session_values\s+WHERE\s+namespace\s*=\s*\$1\s*$`
	pgUpsert = `(?s)^\s*INSERT\s+INTO\s+session_values\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\).*ON\s+CONFLICT`
	pgList   = `(?s)^SELECT\s+key,\s*value\s+FROM\s+session_values\s+WHERE\s+namespace\s*=\s*\$1\s*$`
	pgTouch  = `(?s)^UPDATE\s+session_values\s+SET\s+updated_at\s*=\s*\$1\s+WHERE\s+namespace\s+IN\s*\(\$2,\s*\$3\)$`
	pgPurge  = `(?s)^\s*DELETE\s+FROM\s+session_values\s+WHERE\s+namespace\s+IN\s*\(.*HAVING\s+MAX\(updated_at\)\s*<\s*\$1`
)

func TestPostgresGet_Found(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectQuery(pgSelect).
		WithArgs("sid1", KeyToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("tok1")))

	v, err := r.Get(context.Background(), "sid1", KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok1"), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_Absent(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectQuery(pgSelect).WithArgs("sid1", KeyUser).WillReturnError(sql.ErrNoRows)

	v, err := r.Get(context.Background(), "sid1", KeyUser)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPostgresGet_DBError(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectQuery(pgSelect).WithArgs("sid1", KeyUser).WillReturnError(errors.New("db down"))

	_, err := r.Get(context.Background(), "sid1", KeyUser)
	assert.EqualError(t, err, "failed to get session[sid1/user]: db down")
}

func TestPostgresSetAll_Transactional(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(pgDelete).WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(pgUpsert).WithArgs("sid1", KeyToken, []byte("tok1"), pgNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(pgUpsert).WithArgs("sid1", KeyUser, []byte(`{"id":"u1"}`), pgNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.SetAll(context.Background(), "sid1", map[string][]byte{
		KeyUser:  []byte(`{"id":"u1"}`),
		KeyToken: []byte("tok1"),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetAll_RollsBack(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(pgDelete).WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(pgUpsert).WithArgs("sid1", KeyToken, []byte("tok1"), pgNow).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := r.SetAll(context.Background(), "sid1", map[string][]byte{KeyToken: []byte("tok1")})
	assert.EqualError(t, err, "failed to set session[sid1]: constraint")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectQuery(pgList).WithArgs("sid1").WillReturnRows(
		sqlmock.NewRows([]string{"key", "value"}).
			AddRow(KeyToken, []byte("tok1")).
			AddRow(KeyUser, []byte("{}")))

	got, err := r.List(context.Background(), "sid1")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{KeyToken: []byte("tok1"), KeyUser: []byte("{}")}, got)
}

func TestPostgresClear(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectExec(pgDelete).WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, r.Clear(context.Background(), "sid1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPurge(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	cutoff := pgNow.Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(pgPurge).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectCommit()

	n, err := r.Purge(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPurge_KeepsLiveNamespaces(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	cutoff := pgNow.Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(pgTouch).WithArgs(pgNow, "sid1", "sid2").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(pgPurge).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := r.Purge(context.Background(), cutoff, "sid1", "sid2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSet(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectExec(pgUpsert).WithArgs("sid1", KeyUser, []byte("{}"), pgNow).WillReturnError(errors.New("boom"))

	err := r.Set(context.Background(), "sid1", KeyUser, []byte("{}"))
	assert.EqualError(t, err, "failed to set session[sid1/user]: boom")
}
