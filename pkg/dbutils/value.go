package dbutils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which field of a Value is set.
type Kind uint8

const (
	// KindNull is SQL NULL.
	KindNull Kind = iota
	// KindInt is a signed integer.
	KindInt
	// KindFloat is a FLOAT, DOUBLE or REAL column.
	KindFloat
	// KindText is character data, including DECIMAL and temporal text.
	KindText
	// KindBytes is binary data.
	KindBytes
	// KindTime is a parsed DATE, DATETIME or TIMESTAMP.
	KindTime
	// KindBool is a boolean.
	KindBool
	// KindUint is an unsigned integer above math.MaxInt64.
	KindUint
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single column value as returned by the driver.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
	b    []byte
	t    time.Time
}

// NullValue returns SQL NULL.
func NullValue() Value { return Value{} }

// IntValue wraps a signed integer.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// UintValue wraps an unsigned integer. Values that fit in int64 become
// KindInt so equal numbers compare equal.
func UintValue(v uint64) Value {
	if v <= math.MaxInt64 {
		return IntValue(int64(v))
	}
	return Value{kind: KindUint, u: v}
}

// FloatValue wraps a float.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// TextValue wraps a string.
func TextValue(v string) Value { return Value{kind: KindText, s: v} }

// BytesValue wraps binary data without copying it.
func BytesValue(v []byte) Value { return Value{kind: KindBytes, b: v} }

// TimeValue wraps a time.
func TimeValue(v time.Time) Value { return Value{kind: KindTime, t: v} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value {
	if v {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// Kind reports which accessor holds the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the signed integer and whether the value is KindInt.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Uint returns the value as uint64. It succeeds for KindUint and for
// non-negative KindInt.
func (v Value) Uint() (uint64, bool) {
	switch {
	case v.kind == KindUint:
		return v.u, true
	case v.kind == KindInt && v.i >= 0:
		return uint64(v.i), true
	}
	return 0, false
}

// Float returns the float and whether the value is KindFloat.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Text returns the string and whether the value is KindText.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Bytes returns the binary data and whether the value is KindBytes.
func (v Value) Bytes() ([]byte, bool) { return v.b, v.kind == KindBytes }

// Time returns the time and whether the value is KindTime.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// Bool returns the boolean and whether the value is KindBool.
func (v Value) Bool() (bool, bool) { return v.i != 0, v.kind == KindBool }

// Interface returns the value as a plain Go value, nil for NULL.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBytes:
		return v.b
	case KindTime:
		return v.t
	case KindBool:
		return v.i != 0
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBytes:
		return string(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// MarshalJSON encodes NULL as null, bytes as base64 and times as RFC 3339.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// newValue converts a value scanned into *any. dbType is the column's
// database type name; MySQL hands text and numeric columns back as []byte
// over the text protocol, so the declared type decides the decoding.
func newValue(raw any, dbType string) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return NullValue(), nil
	case int64:
		return IntValue(val), nil
	case int32:
		return IntValue(int64(val)), nil
	case int:
		return IntValue(int64(val)), nil
	case uint64:
		return UintValue(val), nil
	case float64:
		return FloatValue(val), nil
	case float32:
		return FloatValue(float64(val)), nil
	case bool:
		return BoolValue(val), nil
	case string:
		return TextValue(val), nil
	case time.Time:
		return TimeValue(val), nil
	case []byte:
		return decodeBytes(val, dbType)
	default:
		return Value{}, fmt.Errorf("unsupported driver value %T", raw)
	}
}

func decodeBytes(b []byte, dbType string) (Value, error) {
	// Scanning into *any may reuse the driver's buffer.
	cp := make([]byte, len(b))
	copy(cp, b)

	typ := strings.ToUpper(dbType)
	switch {
	case isIntegerType(typ):
		n, err := strconv.ParseInt(string(cp), 10, 64)
		if err != nil {
			u, uErr := strconv.ParseUint(string(cp), 10, 64)
			if uErr != nil {
				return Value{}, fmt.Errorf("parse %s column: %w", dbType, err)
			}
			return UintValue(u), nil
		}
		return IntValue(n), nil
	case typ == "FLOAT" || typ == "DOUBLE" || typ == "REAL":
		f, err := strconv.ParseFloat(string(cp), 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s column: %w", dbType, err)
		}
		return FloatValue(f), nil
	case isTextType(typ):
		return TextValue(string(cp)), nil
	default:
		return BytesValue(cp), nil
	}
}

func isIntegerType(typ string) bool {
	typ = strings.TrimPrefix(typ, "UNSIGNED ")
	switch typ {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		return true
	}
	return false
}

func isTextType(typ string) bool {
	switch typ {
	case "CHAR", "VARCHAR", "NCHAR", "NVARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT",
		"ENUM", "SET", "JSON", "DECIMAL", "NUMERIC", "DATE", "DATETIME", "TIMESTAMP", "TIME":
		return true
	}
	return false
}
