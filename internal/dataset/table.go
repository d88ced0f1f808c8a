package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrUnknownColumn is returned when a requested column is not in the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoColumns is returned when an operation needs at least one column.
	ErrNoColumns = errors.New("no columns selected")
	// ErrNotNumeric is returned when a numeric operation meets a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Table is a loaded dataset: named columns and ordered rows.
// A Table is never mutated; operations return new tables.
type Table struct {
	Name string
	Path string
	df   dataframe.DataFrame
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) { return t.df.Dims() }

// Columns returns the column names in table order.
func (t *Table) Columns() []string { return t.df.Names() }

func (t *Table) hasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Head returns the first min(n, rows) rows. n below 1 is treated as 1.
func (t *Table) Head(n int) *Table {
	if n < 1 {
		n = 1
	}
	if n >= t.df.Nrow() {
		return t
	}
	return &Table{Name: t.Name, Path: t.Path, df: t.df.Subset(seq(n))}
}

// Select projects the table onto cols. The result keeps the table's own
// column order regardless of the order cols were given in.
func (t *Table) Select(cols []string) (*Table, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	want := make(map[string]bool, len(cols))
	for _, c := range cols {
		if !t.hasColumn(c) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		want[c] = true
	}
	ordered := make([]string, 0, len(want))
	for _, name := range t.df.Names() {
		if want[name] {
			ordered = append(ordered, name)
		}
	}
	df := t.df.Select(ordered)
	if df.Err != nil {
		return nil, fmt.Errorf("select columns: %w", df.Err)
	}
	return &Table{Name: t.Name, Path: t.Path, df: df}, nil
}

// LastColumn returns the name of the right-most column (the target/class
// column by convention).
func (t *Table) LastColumn() (string, error) {
	names := t.df.Names()
	if len(names) == 0 {
		return "", ErrNoColumns
	}
	return names[len(names)-1], nil
}

func (t *Table) column(name string) (series.Series, error) {
	if !t.hasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("column %q: %w", name, s.Err)
	}
	return s, nil
}

// ValueCount is the number of occurrences of one distinct value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts tallies the distinct non-missing values of col, most frequent
// first. Ties keep first-appearance order.
func (t *Table) ValueCounts(col string) ([]ValueCount, error) {
	s, err := t.column(col)
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	var out []ValueCount
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := formatElem(e)
		if j, ok := idx[v]; ok {
			out[j].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// ColumnType pairs a column with its detected storage type.
type ColumnType struct {
	Column string `json:"column"`
	DType  string `json:"dtype"`
}

// DTypes reports the detected type of every column using the familiar
// int64/float64/bool/object names. An integer column with missing values
// reports float64, since NaN has no integer representation.
func (t *Table) DTypes() []ColumnType {
	names := t.df.Names()
	types := t.df.Types()
	out := make([]ColumnType, len(names))
	for i, n := range names {
		dtype := dtypeName(types[i])
		if types[i] == series.Int && t.df.Col(n).HasNaN() {
			dtype = "float64"
		}
		out[i] = ColumnType{Column: n, DType: dtype}
	}
	return out
}

func dtypeName(st series.Type) string {
	switch st {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

// IsNumeric reports whether col holds int or float values.
func (t *Table) IsNumeric(col string) bool {
	s, err := t.column(col)
	if err != nil {
		return false
	}
	return s.Type() == series.Int || s.Type() == series.Float
}

// NumericColumns returns the int and float columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	names := t.df.Names()
	for i, st := range t.df.Types() {
		if st == series.Int || st == series.Float {
			out = append(out, names[i])
		}
	}
	return out
}

// Numeric returns the values of col as floats; missing values are NaN.
func (t *Table) Numeric(col string) ([]float64, error) {
	s, err := t.column(col)
	if err != nil {
		return nil, err
	}
	if s.Type() != series.Int && s.Type() != series.Float {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, col, dtypeName(s.Type()))
	}
	vals := make([]float64, s.Len())
	for i := range vals {
		e := s.Elem(i)
		if e.IsNA() {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = e.Float()
	}
	return vals, nil
}

// Strings returns the values of col formatted for display; missing values
// are reported with ok=false.
func (t *Table) Strings(col string) (vals []string, ok []bool, err error) {
	s, err := t.column(col)
	if err != nil {
		return nil, nil, err
	}
	vals = make([]string, s.Len())
	ok = make([]bool, s.Len())
	for i := range vals {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		vals[i] = formatElem(e)
		ok[i] = true
	}
	return vals, ok, nil
}

// Records returns the header followed by every row, formatted for display.
func (t *Table) Records() [][]string {
	names := t.df.Names()
	nrow := t.df.Nrow()
	out := make([][]string, 0, nrow+1)
	out = append(out, append([]string(nil), names...))
	cols := make([]series.Series, len(names))
	for j, n := range names {
		cols[j] = t.df.Col(n)
	}
	for i := 0; i < nrow; i++ {
		row := make([]string, len(names))
		for j := range cols {
			e := cols[j].Elem(i)
			if e.IsNA() {
				row[j] = "NaN"
				continue
			}
			row[j] = formatElem(e)
		}
		out = append(out, row)
	}
	return out
}

func formatElem(e series.Element) string {
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}
