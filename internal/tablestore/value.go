package tablestore

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which scalar a Value holds.
type Kind int

const (
	// KindNull is the SQL NULL value.
	KindNull Kind = iota
	// KindInteger is a 64-bit signed integer.
	KindInteger
	// KindReal is a 64-bit float.
	KindReal
	// KindText is a UTF-8 string.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single column value: text, integer, real or null.
// The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Integer returns an integer Value.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Real returns a real Value.
func Real(f float64) Value { return Value{kind: KindReal, f: f} }

// ValueOf converts a Go scalar into a Value. Supported inputs are nil,
// string, []byte, bool, all integer kinds, float32/float64, time.Time and
// Value itself.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case []byte:
		return Text(string(v)), nil
	case bool:
		if v {
			return Integer(1), nil
		}
		return Integer(0), nil
	case int:
		return Integer(int64(v)), nil
	case int8:
		return Integer(int64(v)), nil
	case int16:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint8:
		return Integer(int64(v)), nil
	case uint16:
		return Integer(int64(v)), nil
	case uint32:
		return Integer(int64(v)), nil
	case float32:
		return Real(float64(v)), nil
	case float64:
		return Real(v), nil
	case time.Time:
		return Text(v.UTC().Format(time.RFC3339Nano)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// fromDriver converts a value scanned by database/sql into a Value.
func fromDriver(src any) Value {
	switch v := src.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(v)
	case float64:
		return Real(v)
	case string:
		return Text(v)
	case []byte:
		return Text(string(v))
	case bool:
		if v {
			return Integer(1)
		}
		return Integer(0)
	case time.Time:
		return Text(v.Format(time.RFC3339Nano))
	default:
		return Text(fmt.Sprint(v))
	}
}

// Kind reports which scalar v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns the integer held by v. Text is parsed; anything else is 0.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return int64(v.f)
	case KindText:
		n, _ := strconv.ParseInt(v.s, 10, 64)
		return n
	default:
		return 0
	}
}

// Float64 returns v as a float. Text is parsed; null is 0.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.i)
	case KindReal:
		return v.f
	case KindText:
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	default:
		return 0
	}
}

// String returns the text form of v. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return ""
	}
}

// Any returns v as a plain Go value suitable for binding or encoding:
// nil, int64, float64 or string.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return v.f
	case KindText:
		return v.s
	default:
		return nil
	}
}

// Row maps column names to values. It is used both as insert data and as an
// equality filter.
type Row map[string]Value

// RowOf builds a Row from a map of Go scalars, see ValueOf.
func RowOf(m map[string]any) (Row, error) {
	row := make(Row, len(m))
	for col, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		row[col] = v
	}
	return row, nil
}

// Record is one result row. Values are in the table's column order.
type Record struct {
	columns []string
	values  []Value
}

// Columns returns the column names in table order.
func (r Record) Columns() []string { return r.columns }

// Values returns the column values in table order.
func (r Record) Values() []Value { return r.values }

// Len returns the number of columns.
func (r Record) Len() int { return len(r.values) }

// At returns the value at position i.
func (r Record) At(i int) Value { return r.values[i] }

// Get returns the value of the named column.
func (r Record) Get(column string) (Value, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// Row returns the record as a Row keyed by column name.
func (r Record) Row() Row {
	row := make(Row, len(r.columns))
	for i, c := range r.columns {
		row[c] = r.values[i]
	}
	return row
}
