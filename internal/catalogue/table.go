// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     catalogue
// Description: Column oriented tables and their FITS, VOTable, SQLite and
//              YAML encodings
// License:     MIT
// ============================================================================

package catalogue

import (
	"fmt"
	"strconv"
	"strings"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// Kind is the value type of a column
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindBool
	// KindArray holds repeated FITS cells; values are slices
	KindArray
	// KindOpaque is a column that could not be decoded; cells are nil
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column describes one table column
type Column struct {
	Name string
	Kind Kind
}

// Table is an in-memory catalogue. Each row holds one value per column:
// string, float64, int64, bool, a slice for KindArray, or nil when the
// cell is empty or its column is KindOpaque.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// NewTable creates an empty table with the given columns
func NewTable(name string, cols ...Column) *Table {
	return &Table{Name: name, Columns: append([]Column(nil), cols...)}
}

// Append adds a row. The number of values must match the columns.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return skyerr.Newf("row has %d values, table has %d columns", len(values), len(t.Columns)).
			WithCode(skyerr.CodeFormat)
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1. Names compare
// case-insensitively when there is no exact match.
func (t *Table) Index(name string) int {
	fold := -1
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
		if fold < 0 && strings.EqualFold(c.Name, name) {
			fold = i
		}
	}
	return fold
}

// StringAt returns a cell rendered as text
func (t *Table) StringAt(row int, col string) (string, error) {
	v, err := t.cell(row, col)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(x), nil
	}
}

// FloatAt returns a numeric cell as float64. Text cells are parsed.
func (t *Table) FloatAt(row int, col string) (float64, error) {
	v, err := t.cell(row, col)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, cellError(row, col, "not a number")
		}
		return f, nil
	case nil:
		return 0, cellError(row, col, "empty")
	default:
		return 0, cellError(row, col, fmt.Sprintf("%T is not numeric", v))
	}
}

func (t *Table) cell(row int, col string) (any, error) {
	idx := t.Index(col)
	if idx < 0 {
		return nil, skyerr.Newf("no column %q", col).
			WithCode(skyerr.CodeMissingField).
			WithDetail("column", col)
	}
	if row < 0 || row >= len(t.Rows) {
		return nil, skyerr.Newf("row %d out of range", row).WithCode(skyerr.CodeInternal)
	}
	return t.Rows[row][idx], nil
}

func cellError(row int, col, reason string) error {
	return skyerr.Newf("row %d column %q: %s", row, col, reason).
		WithCode(skyerr.CodeFormat).
		WithDetail("column", col).
		WithDetail("row", row)
}
