package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// ErrNoNumericColumns is returned when a statistic needs numeric data and the
// table has none.
var ErrNoNumericColumns = errors.New("no numeric columns")

// ColumnStats is one row of a transposed descriptive-statistics table.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Q50    float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// DescribeHeader labels the fields of ColumnStats in display order.
var DescribeHeader = []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Row formats the stats for display, matching DescribeHeader.
func (c ColumnStats) Row() []string {
	return []string{
		c.Column,
		fmt.Sprintf("%d", c.Count),
		formatFloat(c.Mean), formatFloat(c.Std), formatFloat(c.Min),
		formatFloat(c.Q25), formatFloat(c.Q50), formatFloat(c.Q75), formatFloat(c.Max),
	}
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column, in table order. Missing values are skipped.
func Describe(t *dataset.Table) ([]ColumnStats, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("describe %s: %w", t.Name, ErrNoNumericColumns)
	}
	out := make([]ColumnStats, 0, len(cols))
	for _, name := range cols {
		raw, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		vals := dropNaN(raw)
		cs := ColumnStats{Column: name, Count: len(vals)}
		if len(vals) == 0 {
			nan := math.NaN()
			cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, cs)
			continue
		}
		sort.Float64s(vals)
		cs.Mean = stat.Mean(vals, nil)
		cs.Std = math.NaN()
		if len(vals) > 1 {
			cs.Std = stat.StdDev(vals, nil)
		}
		cs.Min = vals[0]
		cs.Max = vals[len(vals)-1]
		cs.Q25 = quantile(vals, 0.25)
		cs.Q50 = quantile(vals, 0.5)
		cs.Q75 = quantile(vals, 0.75)
		out = append(out, cs)
	}
	return out, nil
}

func dropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
