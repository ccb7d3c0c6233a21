// Package dbutils wraps a single database connection behind six
// pass-through operations: SelectAll, SelectN, SelectOne, Insert, Update and
// Delete.
//
// A Handle owns exactly one connection. Every mutation runs in its own
// transaction that is committed on success and rolled back on failure; use
// Transaction when several statements must commit together. Calls are
// serialized, so a Handle may be shared but never runs two statements at
// once; a caller whose context ends while waiting gives up with ctx.Err().
package dbutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Handle owns one open connection.
type Handle struct {
	sem    chan struct{}
	db     *sql.DB
	conn   *sql.Conn
	closed bool
	logger *zap.Logger
}

// Option customizes a Handle.
type Option func(*Handle)

// WithLogger sets the logger used for statement tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Open connects and authenticates using cfg.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Handle, error) {
	cfg = cfg.withDefaults()
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, &ConnectionError{Op: "build dsn", Err: err}
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	return New(ctx, db, opts...)
}

// New takes ownership of db and pins a single connection from it. db is
// closed if the connection cannot be established.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Handle, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Op: "connect", Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, &ConnectionError{Op: "ping", Err: err}
	}

	h := &Handle{sem: make(chan struct{}, 1), db: db, conn: conn, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// SelectAll runs query and returns every row.
func (h *Handle) SelectAll(ctx context.Context, query string, args ...any) (ResultSet, error) {
	return h.selectRows(ctx, "select_all", query, -1, args)
}

// SelectN runs query and returns at most n rows. n <= 0 yields an empty set.
func (h *Handle) SelectN(ctx context.Context, query string, n int, args ...any) (ResultSet, error) {
	if n < 0 {
		n = 0
	}
	return h.selectRows(ctx, "select_n", query, n, args)
}

// SelectOne runs query and returns its first row, or nil when nothing matched.
func (h *Handle) SelectOne(ctx context.Context, query string, args ...any) (*Row, error) {
	rs, err := h.selectRows(ctx, "select_one", query, 1, args)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, nil
	}
	return &rs[0], nil
}

// Insert executes stmt in its own transaction and returns the rows affected.
func (h *Handle) Insert(ctx context.Context, stmt string, args ...any) (int64, error) {
	return h.mutate(ctx, "insert", stmt, args)
}

// Update executes stmt in its own transaction and returns the rows affected.
func (h *Handle) Update(ctx context.Context, stmt string, args ...any) (int64, error) {
	return h.mutate(ctx, "update", stmt, args)
}

// Delete executes stmt in its own transaction and returns the rows affected.
func (h *Handle) Delete(ctx context.Context, stmt string, args ...any) (int64, error) {
	return h.mutate(ctx, "delete", stmt, args)
}

// Ping checks the connection is still alive.
func (h *Handle) Ping(ctx context.Context) error {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.release()
	if err := h.conn.PingContext(ctx); err != nil {
		return &ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

// Transaction runs fn inside a single transaction on the handle's connection.
// The transaction commits when fn returns nil and rolls back otherwise. fn
// must not call methods on h itself.
func (h *Handle) Transaction(ctx context.Context, fn func(*Tx) error) (err error) {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.release()

	sqlTx, err := h.conn.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("begin", "", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&Tx{tx: sqlTx, logger: h.logger}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return queryErr("commit", "", err)
	}
	return nil
}

// ReadOnly runs fn inside a read-only transaction that is always rolled
// back, so nothing fn executes can persist. fn's error is returned as is. fn
// must not call methods on h itself.
func (h *Handle) ReadOnly(ctx context.Context, fn func(Querier) error) error {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.release()

	sqlTx, err := h.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return queryErr("begin", "", err)
	}

	err = fn(&Tx{tx: sqlTx, logger: h.logger})
	if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err == nil {
		return queryErr("rollback", "", rbErr)
	}
	return err
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.sem <- struct{}{}
	defer h.release()
	return h.closed
}

// Close releases the connection and then the underlying database. A second
// call returns ErrConnectionClosed.
func (h *Handle) Close() error {
	h.sem <- struct{}{}
	defer h.release()

	if h.closed {
		return ErrConnectionClosed
	}
	h.closed = true

	connErr := h.conn.Close()
	dbErr := h.db.Close()
	if err := errors.Join(connErr, dbErr); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// acquire takes the handle's single slot and fails with ErrConnectionClosed
// once Close has run.
func (h *Handle) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if h.closed {
		h.release()
		return ErrConnectionClosed
	}
	return nil
}

func (h *Handle) release() { <-h.sem }

func (h *Handle) selectRows(ctx context.Context, op, query string, limit int, args []any) (ResultSet, error) {
	if err := h.acquire(ctx); err != nil {
		return nil, err
	}
	defer h.release()

	return selectRows(ctx, h.conn, h.logger, op, query, limit, args)
}

func (h *Handle) mutate(ctx context.Context, op, stmt string, args []any) (n int64, err error) {
	if err := h.acquire(ctx); err != nil {
		return 0, err
	}
	defer h.release()

	tx, err := h.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, queryErr(op, stmt, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	n, err = execStatement(ctx, tx, h.logger, op, stmt, args)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, queryErr(op, stmt, err)
	}
	return n, nil
}

// queryer is the subset shared by *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func selectRows(ctx context.Context, q queryer, logger *zap.Logger, op, query string, limit int, args []any) (ResultSet, error) {
	start := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryErr(op, query, err)
	}
	rs, err := collect(rows, limit)
	if err != nil {
		return nil, queryErr(op, query, err)
	}

	logger.Debug("query executed",
		zap.String("op", op),
		zap.String("query", query),
		zap.Int("rows", len(rs)),
		zap.Duration("duration", time.Since(start)),
	)
	return rs, nil
}

func execStatement(ctx context.Context, q queryer, logger *zap.Logger, op, stmt string, args []any) (int64, error) {
	start := time.Now()
	res, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, queryErr(op, stmt, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryErr(op, stmt, fmt.Errorf("rows affected: %w", err))
	}

	logger.Debug("statement executed",
		zap.String("op", op),
		zap.String("query", stmt),
		zap.Int64("rows_affected", n),
		zap.Duration("duration", time.Since(start)),
	)
	return n, nil
}
