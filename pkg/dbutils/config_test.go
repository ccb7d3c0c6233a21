package dbutils

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSourceName_MySQLDefaults(t *testing.T) {
	dsn, err := Config{Host: "localhost", User: "root", Password: "123456", Database: "spring"}.DataSourceName()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "123456", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "localhost:3306", parsed.Addr)
	assert.Equal(t, "spring", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, "utf8", parsed.Params["charset"])
}

func TestDataSourceName_CustomPortAndCharset(t *testing.T) {
	dsn, err := Config{Host: "db", User: "u", Database: "d", Port: 3307, Charset: "utf8mb4"}.DataSourceName()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "utf8mb4", parsed.Params["charset"])
}

func TestDataSourceName_ExplicitDSNWins(t *testing.T) {
	dsn, err := Config{Host: "ignored", DSN: "u:p@tcp(h:1)/x"}.DataSourceName()
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:1)/x", dsn)
}

func TestDataSourceName_OtherDriverNeedsDSN(t *testing.T) {
	_, err := Config{Driver: "sqlite"}.DataSourceName()
	assert.Error(t, err)
}

func TestQueryError_MySQLNumber(t *testing.T) {
	err := &QueryError{Op: "insert", Err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}}

	n, ok := err.MySQLNumber()

	assert.True(t, ok)
	assert.Equal(t, uint16(1062), n)
	assert.Contains(t, err.Error(), "Duplicate entry")
}
