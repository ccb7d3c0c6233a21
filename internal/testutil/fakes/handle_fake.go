package fakes

import (
	"context"
	"sync"

	"github.com/dhima/dbutils/pkg/dbutils"
)

// Call records one invocation on FakeHandle.
type Call struct {
	Op    string
	Query string
	N     int
	Args  []any
}

// FakeHandle returns canned results and records every call.
type FakeHandle struct {
	mu    sync.Mutex
	Calls []Call

	ReadOnlyCalls int

	Rows         dbutils.ResultSet
	RowsAffected int64
	Err          error
	PingErr      error
}

func (f *FakeHandle) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
}

// LastCall returns the most recent call, or the zero Call.
func (f *FakeHandle) LastCall() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return Call{}
	}
	return f.Calls[len(f.Calls)-1]
}

func (f *FakeHandle) SelectAll(_ context.Context, query string, args ...any) (dbutils.ResultSet, error) {
	f.record(Call{Op: "select_all", Query: query, Args: args})
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Rows, nil
}

func (f *FakeHandle) SelectN(_ context.Context, query string, n int, args ...any) (dbutils.ResultSet, error) {
	f.record(Call{Op: "select_n", Query: query, N: n, Args: args})
	if f.Err != nil {
		return nil, f.Err
	}
	if n < len(f.Rows) {
		return f.Rows[:n], nil
	}
	return f.Rows, nil
}

func (f *FakeHandle) SelectOne(_ context.Context, query string, args ...any) (*dbutils.Row, error) {
	f.record(Call{Op: "select_one", Query: query, Args: args})
	if f.Err != nil || len(f.Rows) == 0 {
		return nil, f.Err
	}
	row := f.Rows[0]
	return &row, nil
}

func (f *FakeHandle) Insert(_ context.Context, stmt string, args ...any) (int64, error) {
	return f.exec("insert", stmt, args)
}

func (f *FakeHandle) Update(_ context.Context, stmt string, args ...any) (int64, error) {
	return f.exec("update", stmt, args)
}

func (f *FakeHandle) Delete(_ context.Context, stmt string, args ...any) (int64, error) {
	return f.exec("delete", stmt, args)
}

// ReadOnly runs fn against the fake itself and counts the call.
func (f *FakeHandle) ReadOnly(_ context.Context, fn func(dbutils.Querier) error) error {
	f.mu.Lock()
	f.ReadOnlyCalls++
	f.mu.Unlock()
	return fn(f)
}

func (f *FakeHandle) Ping(_ context.Context) error {
	f.record(Call{Op: "ping"})
	return f.PingErr
}

func (f *FakeHandle) exec(op, stmt string, args []any) (int64, error) {
	f.record(Call{Op: op, Query: stmt, Args: args})
	if f.Err != nil {
		return 0, f.Err
	}
	return f.RowsAffected, nil
}
