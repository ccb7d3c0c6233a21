package dbutils

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// Querier runs the read operations. *Handle and *Tx both satisfy it.
type Querier interface {
	SelectAll(ctx context.Context, query string, args ...any) (ResultSet, error)
	SelectN(ctx context.Context, query string, n int, args ...any) (ResultSet, error)
	SelectOne(ctx context.Context, query string, args ...any) (*Row, error)
}

// Tx is an open transaction handed to the function passed to
// Handle.Transaction or Handle.ReadOnly. It is only valid until that
// function returns.
type Tx struct {
	tx     *sql.Tx
	logger *zap.Logger
}

// SelectAll returns every row of query.
func (t *Tx) SelectAll(ctx context.Context, query string, args ...any) (ResultSet, error) {
	return selectRows(ctx, t.tx, t.logger, "select_all", query, -1, args)
}

// SelectN returns at most n rows of query.
func (t *Tx) SelectN(ctx context.Context, query string, n int, args ...any) (ResultSet, error) {
	if n < 0 {
		n = 0
	}
	return selectRows(ctx, t.tx, t.logger, "select_n", query, n, args)
}

// SelectOne returns the first row of query, or nil.
func (t *Tx) SelectOne(ctx context.Context, query string, args ...any) (*Row, error) {
	rs, err := selectRows(ctx, t.tx, t.logger, "select_one", query, 1, args)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	return &rs[0], nil
}

// Exec runs a mutation without committing and returns the rows affected.
func (t *Tx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	return execStatement(ctx, t.tx, t.logger, "exec", stmt, args)
}
