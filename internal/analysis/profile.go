package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many head rows to include in the report.
	SampleRows int
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// Correlations lists the strongest Pearson pairs among numeric columns.
	Correlations bool
	// CorrLimit caps the number of correlation pairs listed.
	CorrLimit int
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
		Correlations:     true,
		CorrLimit:        10,
	}
}

// Report is a markdown-friendly profile of a loaded table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Header   []string
	Samples  [][]string
	Pairs    []PairCorr
	Warnings []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	DType   string
	Kind    string // numeric|datetime|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues    []dataset.ValueCount
	ExampleTexts []string
}

// Profile summarizes every column of t.
func Profile(t *dataset.Table, opt Options) (*Report, error) {
	rows, _ := t.Shape()
	rep := &Report{Name: t.Name, Rows: rows}
	dtypes := t.DTypes()
	for _, ct := range dtypes {
		var (
			s   ColumnSummary
			err error
		)
		if t.IsNumeric(ct.Column) {
			s, err = profileNumeric(t, ct.Column, opt)
		} else {
			s, err = profileText(t, ct.Column)
		}
		if err != nil {
			return nil, fmt.Errorf("profile column %q: %w", ct.Column, err)
		}
		s.DType = ct.DType
		rep.Cols = append(rep.Cols, s)
	}

	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 5
	}
	if sampleRows > 0 && rows > 0 {
		recs := t.Head(sampleRows).Records()
		rep.Header = recs[0]
		rep.Samples = recs[1:]
	}

	if opt.Correlations && len(t.NumericColumns()) >= 2 {
		m, err := Correlation(t)
		if err != nil {
			return nil, err
		}
		rep.Pairs = m.TopPairs(opt.CorrLimit)
	}
	for _, c := range rep.Cols {
		if c.NonNull == 0 && rows > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", safeName(c.Name)))
		}
	}
	return rep, nil
}

func profileNumeric(t *dataset.Table, col string, opt Options) (ColumnSummary, error) {
	raw, err := t.Numeric(col)
	if err != nil {
		return ColumnSummary{}, err
	}
	s := ColumnSummary{Name: col, Kind: "numeric", Min: math.Inf(1), Max: math.Inf(-1)}
	// Welford running mean/variance
	var n int
	var mean, m2 float64
	var vals []float64
	for _, x := range raw {
		if math.IsNaN(x) {
			s.Missing++
			continue
		}
		s.NonNull++
		n++
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		vals = append(vals, x)
	}
	if n == 0 {
		s.Kind = "unknown"
		s.Min, s.Max = 0, 0
		return s, nil
	}
	s.Mean = mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	uniq := map[float64]struct{}{}
	for _, v := range vals {
		uniq[v] = struct{}{}
	}
	s.Unique = len(uniq)
	if opt.Outliers && len(vals) >= 8 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		median, mad := medianMAD(vals)
		if mad > 0 {
			for _, v := range vals {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					s.OutliersCount++
				}
				if az > s.OutliersMaxAbsZ {
					s.OutliersMaxAbsZ = az
				}
			}
		}
		s.OutlierThreshold = thr
	}
	return s, nil
}

func profileText(t *dataset.Table, col string) (ColumnSummary, error) {
	vals, ok, err := t.Strings(col)
	if err != nil {
		return ColumnSummary{}, err
	}
	s := ColumnSummary{Name: col}
	cats := map[string]int{}
	var dtCnt, txtCnt int
	for i, v := range vals {
		if !ok[i] || strings.TrimSpace(v) == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		if _, isTime := parseTimeMaybe(v); isTime {
			dtCnt++
			continue
		}
		txtCnt++
		if len(cats) <= 10000 && len(v) <= 64 {
			cats[v]++
		}
		if len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, v)
		}
	}
	s.Unique = len(cats)
	switch {
	case s.NonNull == 0:
		s.Kind = "unknown"
	case dtCnt >= txtCnt:
		s.Kind = "datetime"
		s.ExampleTexts = nil
	case len(cats) > 0 && len(cats)*2 <= txtCnt:
		s.Kind = "categorical"
		tops := make([]dataset.ValueCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, dataset.ValueCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
		s.ExampleTexts = nil
	default:
		s.Kind = "text"
	}
	return s, nil
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Markdown renders a compact profile suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s/%s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.DType, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" - min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" - top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" - e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		writeMarkdownRow(&b, r.Header, safeName)
		seps := make([]string, len(r.Header))
		for i := range seps {
			seps[i] = "---"
		}
		writeMarkdownRow(&b, seps, func(s string) string { return s })
		for _, row := range r.Samples {
			writeMarkdownRow(&b, row, func(val string) string {
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				return safeVal(val)
			})
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string, format func(string) string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(format(c))
	}
	b.WriteString(" |\n")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
