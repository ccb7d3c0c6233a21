package dbutils

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrConnectionClosed is returned by every operation on a closed Handle.
var ErrConnectionClosed = errors.New("dbutils: connection closed")

// ConnectionError reports a failure to open or authenticate the connection.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("dbutils: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError reports a statement the driver or server rejected.
type QueryError struct {
	Op    string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("dbutils: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// MySQLNumber returns the server error number when the failure came from MySQL.
func (e *QueryError) MySQLNumber() (uint16, bool) {
	var mErr *mysql.MySQLError
	if errors.As(e.Err, &mErr) {
		return mErr.Number, true
	}
	return 0, false
}

func queryErr(op, query string, err error) error {
	return &QueryError{Op: op, Query: query, Err: err}
}
