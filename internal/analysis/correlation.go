package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// pearson returns the correlation of x and y over the rows where both are
// present, or NaN when it is undefined (fewer than two shared rows or a
// constant column).
func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// Correlation computes pairwise-complete Pearson correlations among the
// numeric columns of t. Non-numeric columns are ignored.
func Correlation(t *dataset.Table) (*CorrMatrix, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("correlate %s: %w", t.Name, ErrNoNumericColumns)
	}
	data := make([][]float64, len(cols))
	for i, c := range cols {
		v, err := t.Numeric(c)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pearson(data[a], data[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}, nil
}

// TopPairs lists the off-diagonal pairs ordered by |r|, strongest first.
// Undefined coefficients are skipped.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// Rows formats the matrix for display with a leading header row.
func (m *CorrMatrix) Rows() [][]string {
	out := make([][]string, 0, len(m.Columns)+1)
	out = append(out, append([]string{""}, m.Columns...))
	for i, c := range m.Columns {
		row := []string{c}
		for _, v := range m.Values[i] {
			row = append(row, formatFloat(v))
		}
		out = append(out, row)
	}
	return out
}
