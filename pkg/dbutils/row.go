package dbutils

import (
	"bytes"
	"database/sql"
	"encoding/json"
)

// Row maps column names to values in select-list order.
type Row struct {
	columns []string
	values  []Value
	index   map[string]int
}

// ResultSet is the ordered list of rows a query produced.
type ResultSet []Row

// NewRow builds a row from parallel column and value slices. When a column
// name repeats, Get resolves to the last occurrence.
func NewRow(columns []string, values []Value) Row {
	r := Row{
		columns: columns,
		values:  values,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		r.index[c] = i
	}
	return r
}

// Columns returns the column names in select-list order.
func (r Row) Columns() []string { return r.columns }

// Values returns the values aligned with Columns.
func (r Row) Values() []Value { return r.values }

// Len returns the number of columns.
func (r Row) Len() int { return len(r.columns) }

// Get returns the value of the named column.
func (r Row) Get(column string) (Value, bool) {
	i, ok := r.index[column]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Map returns the row as a plain map, losing column order.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i].Interface()
	}
	return m
}

// MarshalJSON encodes the row as a JSON object keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// rowScanner reads rows off a *sql.Rows keeping the column metadata around.
type rowScanner struct {
	rows    *sql.Rows
	columns []string
	types   []string
}

func newRowScanner(rows *sql.Rows) (*rowScanner, error) {
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	s := &rowScanner{
		rows:    rows,
		columns: make([]string, len(cts)),
		types:   make([]string, len(cts)),
	}
	for i, ct := range cts {
		s.columns[i] = ct.Name()
		s.types[i] = ct.DatabaseTypeName()
	}
	return s, nil
}

func (s *rowScanner) scan() (Row, error) {
	raw := make([]any, len(s.columns))
	dest := make([]any, len(s.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return Row{}, err
	}

	values := make([]Value, len(raw))
	for i, v := range raw {
		val, err := newValue(v, s.types[i])
		if err != nil {
			return Row{}, err
		}
		values[i] = val
	}
	return NewRow(s.columns, values), nil
}

// collect drains up to limit rows; limit < 0 means all of them.
func collect(rows *sql.Rows, limit int) (ResultSet, error) {
	defer rows.Close()

	s, err := newRowScanner(rows)
	if err != nil {
		return nil, err
	}

	out := make(ResultSet, 0)
	for (limit < 0 || len(out) < limit) && rows.Next() {
		row, err := s.scan()
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
