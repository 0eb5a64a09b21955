// Package table holds the in-memory survey table bootstrap statistics are computed over.
//
// A Table is column oriented. Categorical columns store dictionary codes into a closed set of
// levels, with -1 marking a missing value. Numeric columns store float64 values, with NaN marking
// a missing value. Tables are never mutated once built: Take and Select return new tables, sharing
// level dictionaries with their parent.
package table

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

// MissingCode is the code of a missing categorical value.
const MissingCode int32 = -1

type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is implemented by *CategoricalColumn and *NumericColumn.
type Column interface {
	ColumnName() string
	Kind() Kind
	Len() int
	take(indices []int) Column
}

// CategoricalColumn is a factor: Codes index into Levels.
type CategoricalColumn struct {
	Name   string
	Levels []string
	Codes  []int32
}

func (c *CategoricalColumn) ColumnName() string { return c.Name }
func (c *CategoricalColumn) Kind() Kind         { return Categorical }
func (c *CategoricalColumn) Len() int           { return len(c.Codes) }

// Value returns the level at row and false if the value is missing.
func (c *CategoricalColumn) Value(row int) (string, bool) {
	code := c.Codes[row]
	if code == MissingCode {
		return "", false
	}
	return c.Levels[code], true
}

func (c *CategoricalColumn) take(indices []int) Column {
	codes := make([]int32, len(indices))
	for i, idx := range indices {
		codes[i] = c.Codes[idx]
	}
	return &CategoricalColumn{Name: c.Name, Levels: c.Levels, Codes: codes}
}

// NumericColumn holds measurements; NaN marks a missing value.
type NumericColumn struct {
	Name   string
	Values []float64
}

func (c *NumericColumn) ColumnName() string { return c.Name }
func (c *NumericColumn) Kind() Kind         { return Numeric }
func (c *NumericColumn) Len() int           { return len(c.Values) }

func (c *NumericColumn) take(indices []int) Column {
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = c.Values[idx]
	}
	return &NumericColumn{Name: c.Name, Values: values}
}

// IsMissing reports whether v represents a missing numeric value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NewCategorical builds a categorical column from raw values. Levels are assigned in order of first
// appearance; values for which missing returns true are stored as MissingCode.
func NewCategorical(name string, values []string, missing func(string) bool) *CategoricalColumn {
	col := &CategoricalColumn{Name: name, Codes: make([]int32, len(values))}
	index := make(map[string]int32)
	for i, v := range values {
		if missing != nil && missing(v) {
			col.Codes[i] = MissingCode
			continue
		}
		code, ok := index[v]
		if !ok {
			code = int32(len(col.Levels))
			index[v] = code
			col.Levels = append(col.Levels, v)
		}
		col.Codes[i] = code
	}
	return col
}

// NewNumeric builds a numeric column. NaN values are missing.
func NewNumeric(name string, values ...float64) *NumericColumn {
	return &NumericColumn{Name: name, Values: values}
}

// Table is an immutable, rectangular set of named columns.
type Table struct {
	numRows int
	columns []Column
	index   map[string]int
}

// New builds a table from columns, which must have distinct names and equal lengths.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: columns, index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, exists := t.index[c.ColumnName()]; exists {
			return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
				Name:    "column",
				Value:   c.ColumnName(),
				Message: "duplicate column name",
			})
		}
		if i > 0 && c.Len() != t.numRows {
			return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
				Name:    "column",
				Value:   c.ColumnName(),
				Message: fmt.Sprintf("has %d rows but table has %d", c.Len(), t.numRows),
			})
		}
		t.numRows = c.Len()
		t.index[c.ColumnName()] = i
	}
	return t, nil
}

// MustNew is New but panics on error. Intended for tests and static fixtures.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) NumRows() int {
	return t.numRows
}

// ColumnNames returns all column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.ColumnName()
	}
	return names
}

// ColumnNamesOfKind returns the names of all columns of kind k, in table order.
func (t *Table) ColumnNamesOfKind(k Kind) []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind() == k {
			names = append(names, c.ColumnName())
		}
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "column",
			Value:   name,
			Message: "no such column",
		})
	}
	return t.columns[i], nil
}

// Categorical returns the named column, which must be categorical.
func (t *Table) Categorical(name string) (*CategoricalColumn, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	cat, ok := c.(*CategoricalColumn)
	if !ok {
		return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "column",
			Value:   name,
			Message: fmt.Sprintf("is %s, not categorical", c.Kind()),
		})
	}
	return cat, nil
}

// Numeric returns the named column, which must be numeric.
func (t *Table) Numeric(name string) (*NumericColumn, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	num, ok := c.(*NumericColumn)
	if !ok {
		return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "column",
			Value:   name,
			Message: fmt.Sprintf("is %s, not numeric", c.Kind()),
		})
	}
	return num, nil
}

// Select returns a table holding only the named columns, in the given order. Columns are shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	selected, err := New(columns...)
	if err != nil {
		return nil, err
	}
	// A projection keeps the row count even when it has no columns.
	selected.numRows = t.numRows
	return selected, nil
}

// Drop returns a table without the named columns. Every name must exist.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := t.Column(name); err != nil {
			return nil, err
		}
		drop[name] = true
	}
	var keep []string
	for _, c := range t.columns {
		if !drop[c.ColumnName()] {
			keep = append(keep, c.ColumnName())
		}
	}
	return t.Select(keep...)
}

// Take returns a new table whose i-th row is row indices[i] of t. Indices may repeat.
// It panics if an index is out of range.
func (t *Table) Take(indices []int) *Table {
	columns := make([]Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = c.take(indices)
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &Table{numRows: len(indices), columns: columns, index: index}
}
