package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
)

var metricsRows = []string{
	"date,group,score,weight,category,note",
	"2024-08-10,1,10.0,70,alpha,first",
	"2024-08-11,1,11.0,71,alpha,second",
	"2024-08-12,1,9.5,,beta,third",
	"2024-08-13,2,10.5,75,alpha,fourth",
	"2024-08-14,2,9.8,74,beta,fifth",
	"2024-08-15,2,10.2,73,alpha,sixth",
	"2024-08-16,1,8.8,68,gamma,seventh",
	"2024-08-17,2,9.7,76,beta,eighth",
	"2024-08-18,1,50.0,95,alpha,ninth",
	"2024-08-19,3,10.1,72,gamma,tenth",
}

var (
	scores  = []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50, 10.1}
	weights = []float64{70, 71, 75, 74, 73, 68, 76, 95, 72} // row 3 missing
)

func loadMetrics(t *testing.T) *dataset.Table {
	t.Helper()
	p := filepath.Join(t.TempDir(), "metrics.csv")
	if err := os.WriteFile(p, []byte(strings.Join(metricsRows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func TestDescribeNumericColumns(t *testing.T) {
	tbl := loadMetrics(t)
	stats, err := Describe(tbl)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("described %d columns, want 3 (group, score, weight)", len(stats))
	}
	if stats[0].Column != "group" || stats[1].Column != "score" || stats[2].Column != "weight" {
		t.Fatalf("columns = %s, %s, %s", stats[0].Column, stats[1].Column, stats[2].Column)
	}

	score := stats[1]
	if score.Count != len(scores) {
		t.Fatalf("score count = %d", score.Count)
	}
	if !almostEqual(score.Mean, mean(scores), 1e-9) {
		t.Fatalf("score mean = %f, want %f", score.Mean, mean(scores))
	}
	if !almostEqual(score.Std, sampleStd(scores), 1e-9) {
		t.Fatalf("score std = %f, want %f", score.Std, sampleStd(scores))
	}
	if score.Min != 8.8 || score.Max != 50 {
		t.Fatalf("score min/max = %f/%f", score.Min, score.Max)
	}
	// sorted: 8.8 9.5 9.7 9.8 10 10.1 10.2 10.5 11 50
	if !almostEqual(score.Q50, 10.05, 1e-9) {
		t.Fatalf("score median = %f", score.Q50)
	}
	if !almostEqual(score.Q25, 9.725, 1e-9) {
		t.Fatalf("score q25 = %f", score.Q25)
	}
	if !almostEqual(score.Q75, 10.425, 1e-9) {
		t.Fatalf("score q75 = %f", score.Q75)
	}

	weight := stats[2]
	if weight.Count != 9 {
		t.Fatalf("weight count = %d, want 9 (one missing)", weight.Count)
	}
	if !almostEqual(weight.Mean, mean(weights), 1e-9) {
		t.Fatalf("weight mean = %f", weight.Mean)
	}
	if row := weight.Row(); len(row) != len(DescribeHeader) || row[0] != "weight" || row[1] != "9" {
		t.Fatalf("row = %#v", row)
	}
}

func TestDescribeWithoutNumericColumns(t *testing.T) {
	tbl := loadMetrics(t)
	text, err := tbl.Select([]string{"category", "note"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, err := Describe(text); !errors.Is(err, ErrNoNumericColumns) {
		t.Fatalf("want ErrNoNumericColumns, got %v", err)
	}
	if _, err := Correlation(text); !errors.Is(err, ErrNoNumericColumns) {
		t.Fatalf("want ErrNoNumericColumns, got %v", err)
	}
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	tbl := loadMetrics(t)
	m, err := Correlation(tbl)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if !equalStrings(m.Columns, []string{"group", "score", "weight"}) {
		t.Fatalf("corr columns = %#v", m.Columns)
	}
	for i := range m.Columns {
		if m.Values[i][i] != 1 {
			t.Fatalf("diagonal[%d] = %f", i, m.Values[i][i])
		}
	}
	// score vs weight over the 9 rows where weight is present
	scoreSub := []float64{10, 11, 10.5, 9.8, 10.2, 8.8, 9.7, 50, 10.1}
	want := correlation(scoreSub, weights)
	if !almostEqual(m.Values[1][2], want, 1e-9) || !almostEqual(m.Values[2][1], want, 1e-9) {
		t.Fatalf("corr score~weight = %f, want %f", m.Values[1][2], want)
	}

	pairs := m.TopPairs(1)
	if len(pairs) != 1 || pairs[0].A != "score" || pairs[0].B != "weight" {
		t.Fatalf("top pair = %#v", pairs)
	}
	if rows := m.Rows(); len(rows) != 4 || rows[0][1] != "group" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestCorrelationConstantColumnIsNaN(t *testing.T) {
	p := filepath.Join(t.TempDir(), "const.csv")
	if err := os.WriteFile(p, []byte("a,b\n1,5\n2,5\n3,5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := Correlation(tbl)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if !math.IsNaN(m.Values[0][1]) || !math.IsNaN(m.Values[1][1]) {
		t.Fatalf("expected NaN for constant column, got %v", m.Values)
	}
	if len(m.TopPairs(0)) != 0 {
		t.Fatalf("undefined pairs should be skipped")
	}
}

func TestGroupCount(t *testing.T) {
	tbl := loadMetrics(t)
	g, err := GroupCount(tbl, "group", []string{"score", "weight"})
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	if !equalStrings(g.Groups, []string{"1", "2", "3"}) {
		t.Fatalf("groups = %#v", g.Groups)
	}
	want := [][]int{{5, 4}, {4, 4}, {1, 1}}
	for i := range want {
		for j := range want[i] {
			if g.Counts[i][j] != want[i][j] {
				t.Fatalf("counts = %#v, want %#v", g.Counts, want)
			}
		}
	}
	if rows := g.Rows(); rows[0][0] != "group" || rows[1][1] != "5" {
		t.Fatalf("rows = %#v", rows)
	}

	if _, err := GroupCount(tbl, "nope", []string{"score"}); !errors.Is(err, dataset.ErrUnknownColumn) {
		t.Fatalf("want ErrUnknownColumn, got %v", err)
	}
	if _, err := GroupCount(tbl, "group", nil); !errors.Is(err, dataset.ErrNoColumns) {
		t.Fatalf("want ErrNoColumns, got %v", err)
	}
}

func TestProfileAndMarkdown(t *testing.T) {
	tbl := loadMetrics(t)
	opt := DefaultOptions()
	opt.SampleRows = 3
	rep, err := Profile(tbl, opt)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if rep.Rows != 10 || len(rep.Cols) != 6 {
		t.Fatalf("rows=%d cols=%d", rep.Rows, len(rep.Cols))
	}
	kinds := map[string]string{}
	for _, c := range rep.Cols {
		kinds[c.Name] = c.Kind
	}
	if kinds["date"] != "datetime" || kinds["score"] != "numeric" || kinds["category"] != "categorical" || kinds["note"] != "text" {
		t.Fatalf("kinds = %#v", kinds)
	}

	score := rep.Cols[2]
	count, maxZ := robustOutlierStats(scores, 3.5)
	if score.OutliersCount != count || !almostEqual(score.OutliersMaxAbsZ, maxZ, 1e-6) {
		t.Fatalf("score outliers = %d (%f), want %d (%f)", score.OutliersCount, score.OutliersMaxAbsZ, count, maxZ)
	}
	if !almostEqual(score.Std, sampleStd(scores), 1e-9) {
		t.Fatalf("score std = %f", score.Std)
	}
	weight := rep.Cols[3]
	if weight.Missing != 1 || weight.NonNull != 9 {
		t.Fatalf("weight missing/non-null = %d/%d", weight.Missing, weight.NonNull)
	}
	cat := rep.Cols[4]
	if len(cat.TopValues) == 0 || cat.TopValues[0].Value != "alpha" || cat.TopValues[0].Count != 5 {
		t.Fatalf("category top = %#v", cat.TopValues)
	}
	if len(rep.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(rep.Samples))
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: metrics.csv",
		"Rows: 10",
		"- score: numeric/float64",
		"outliers: 1 above |z|>3.5",
		"- category: categorical/object (non-null 10, missing 0.0%) - top: alpha(5)",
		"[CORRELATIONS]",
		"score ~ weight",
		"[HEAD ROWS]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func robustOutlierStats(vals []float64, threshold float64) (count int, maxAbs float64) {
	med, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - med) / mad)
		if az > threshold {
			count++
		}
		if az > maxAbs {
			maxAbs = az
		}
	}
	return
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		diff := v - m
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func correlation(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("length mismatch")
	}
	ma := mean(a)
	mb := mean(b)
	var num, da2, db2 float64
	for i := range a {
		da := a[i] - ma
		db := b[i] - mb
		num += da * db
		da2 += da * da
		db2 += db * db
	}
	if da2 == 0 || db2 == 0 {
		return 0
	}
	return num / math.Sqrt(da2*db2)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestJSONEncodesNaNAsNull(t *testing.T) {
	b, err := json.Marshal(ColumnStats{Column: "x", Count: 1, Mean: 2, Std: math.NaN()})
	if err != nil {
		t.Fatalf("marshal stats: %v", err)
	}
	if !strings.Contains(string(b), `"std":null`) || !strings.Contains(string(b), `"mean":2`) {
		t.Fatalf("stats json = %s", b)
	}

	m := &CorrMatrix{Columns: []string{"a", "b"}, Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}}}
	b, err = json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal matrix: %v", err)
	}
	if string(b) != `{"columns":["a","b"],"values":[[1,null],[null,1]]}` {
		t.Fatalf("matrix json = %s", b)
	}
}

func TestCorrelationLargeMagnitudeColumns(t *testing.T) {
	p := filepath.Join(t.TempDir(), "epoch.csv")
	body := "ts,y,z\n" +
		"1700000000.1,1,5\n" +
		"1700000000.2,2,3\n" +
		"1700000000.3,3,4\n" +
		"1700000000.4,4,1\n" +
		"1700000000.5,5,2\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := dataset.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := Correlation(tbl)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if !almostEqual(m.Values[0][1], 1, 1e-6) {
		t.Fatalf("corr ts~y = %v, want 1", m.Values[0][1])
	}
	if m.Values[0][0] != 1 {
		t.Fatalf("corr ts~ts = %v, want 1", m.Values[0][0])
	}
	// y and z are small; ts~z must match y~z since ts is y shifted and scaled
	want := correlation([]float64{1, 2, 3, 4, 5}, []float64{5, 3, 4, 1, 2})
	if !almostEqual(m.Values[0][2], want, 1e-4) || !almostEqual(m.Values[1][2], want, 1e-9) {
		t.Fatalf("corr ts~z = %v, y~z = %v, want %v", m.Values[0][2], m.Values[1][2], want)
	}
}
