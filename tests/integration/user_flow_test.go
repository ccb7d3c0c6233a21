//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/dhima/dbutils/pkg/dbutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MYSQL_TEST_DSN points at a scratch schema, e.g.
// root:123456@tcp(localhost:3306)/spring?parseTime=true&charset=utf8
func openMySQL(t *testing.T) *dbutils.Handle {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	ctx := context.Background()
	h, err := dbutils.Open(ctx, dbutils.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	err = h.Transaction(ctx, func(tx *dbutils.Tx) error {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS t_user"); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `CREATE TABLE t_user (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password VARCHAR(64) NOT NULL,
			score DECIMAL(6,2) NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
		return err
	})
	require.NoError(t, err)
	return h
}

func TestUserFlow_AgainstMySQL(t *testing.T) {
	ctx := context.Background()
	h := openMySQL(t)

	n, err := h.Insert(ctx, "INSERT INTO t_user (username, password) VALUES (?, ?)", "admin", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	row, err := h.SelectOne(ctx, "SELECT username, password FROM t_user WHERE username = ?", "admin")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, map[string]any{"username": "admin", "password": "pw1"}, row.Map())

	n, err = h.Update(ctx, "UPDATE t_user SET password = ? WHERE username = ?", "pw2", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rs, err := h.SelectAll(ctx, "SELECT username, password FROM t_user")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	pw, _ := rs[0].Get("password")
	assert.Equal(t, dbutils.TextValue("pw2"), pw)

	n, err = h.Delete(ctx, "DELETE FROM t_user WHERE username = ?", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rs, err = h.SelectAll(ctx, "SELECT * FROM t_user")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestColumnKinds_AgainstMySQL(t *testing.T) {
	ctx := context.Background()
	h := openMySQL(t)

	_, err := h.Insert(ctx, "INSERT INTO t_user (username, password, score) VALUES (?, ?, ?)", "kinds", "pw", "12.50")
	require.NoError(t, err)

	// text protocol (no args) and binary protocol (with args) decode the same way
	for _, args := range [][]any{nil, {"kinds"}} {
		query := "SELECT id, username, score, created_at FROM t_user"
		if args != nil {
			query += " WHERE username = ?"
		}
		row, err := h.SelectOne(ctx, query, args...)
		require.NoError(t, err)
		require.NotNil(t, row)

		id, _ := row.Get("id")
		assert.Equal(t, dbutils.KindInt, id.Kind())
		name, _ := row.Get("username")
		assert.Equal(t, dbutils.TextValue("kinds"), name)
		score, _ := row.Get("score")
		assert.Equal(t, dbutils.TextValue("12.50"), score)
		created, _ := row.Get("created_at")
		assert.Equal(t, dbutils.KindTime, created.Kind())
	}
}

func TestDuplicateKey_AgainstMySQL(t *testing.T) {
	ctx := context.Background()
	h := openMySQL(t)

	_, err := h.Insert(ctx, "INSERT INTO t_user (username, password) VALUES (?, ?)", "dup", "a")
	require.NoError(t, err)
	_, err = h.Insert(ctx, "INSERT INTO t_user (username, password) VALUES (?, ?)", "dup", "b")

	var qErr *dbutils.QueryError
	require.True(t, errors.As(err, &qErr))
	code, ok := qErr.MySQLNumber()
	assert.True(t, ok)
	assert.Equal(t, uint16(1062), code)
}

func TestReadOnly_RejectsCTEDelete_AgainstMySQL(t *testing.T) {
	ctx := context.Background()
	h := openMySQL(t)

	_, err := h.Insert(ctx, "INSERT INTO t_user (username, password) VALUES (?, ?)", "admin", "pw1")
	require.NoError(t, err)

	err = h.ReadOnly(ctx, func(q dbutils.Querier) error {
		_, err := q.SelectAll(ctx, "WITH x AS (SELECT 1) DELETE FROM t_user")
		return err
	})
	assert.Error(t, err)

	rs, err := h.SelectAll(ctx, "SELECT id FROM t_user")
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestUnsignedBigint_AgainstMySQL(t *testing.T) {
	ctx := context.Background()
	h := openMySQL(t)

	row, err := h.SelectOne(ctx, "SELECT CAST(18446744073709551615 AS UNSIGNED) AS big")
	require.NoError(t, err)
	require.NotNil(t, row)

	v, _ := row.Get("big")
	u, ok := v.Uint()
	assert.True(t, ok)
	assert.Equal(t, uint64(18446744073709551615), u)
}

func TestOpen_BadCredentials_ReturnsConnectionError(t *testing.T) {
	if os.Getenv("MYSQL_TEST_DSN") == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	_, err := dbutils.Open(context.Background(), dbutils.Config{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "nobody",
		Password: "wrong",
		Database: "nothing",
	})

	var cErr *dbutils.ConnectionError
	assert.True(t, errors.As(err, &cErr))
}
