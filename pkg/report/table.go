// Package report turns sweep results into typed tables and writes them to
// files, S3 objects or PostgreSQL.
package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindUint
	KindFloat
)

// SQLType returns the PostgreSQL column type for the kind
func (k Kind) SQLType() string {
	switch k {
	case KindInt:
		return "bigint"
	case KindUint:
		return "numeric(20,0)"
	case KindFloat:
		return "double precision"
	default:
		return "text"
	}
}

// Column describes one table column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a named, typed result table. Row values are string, int,
// uint64, float64 or nil, matching the column kinds; nil is a missing value.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// NewTable creates an empty table.
func NewTable(name string, columns ...Column) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. It panics when the row width does not match the
// columns, which is always a programming error.
func (t *Table) Append(values ...any) {
	if len(values) != len(t.Columns) {
		panic(fmt.Sprintf("report: table %s has %d columns, row has %d", t.Name, len(t.Columns), len(values)))
	}
	t.Rows = append(t.Rows, values)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SQLName derives a PostgreSQL identifier from the table name: the file
// extension is dropped and anything outside [a-z0-9_] becomes '_'.
func (t *Table) SQLName() string {
	base := filepath.Base(t.Name)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FormatValue renders a cell the way CSV output shows it. Infinities are
// written as "inf" and "-inf"; nil is the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		switch {
		case math.IsInf(x, 1):
			return "inf"
		case math.IsInf(x, -1):
			return "-inf"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
