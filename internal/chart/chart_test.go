package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func small() Options {
	return Options{Width: 320, Height: 240, Title: "test"}
}

func assertPNG(t *testing.T, img []byte, err error) {
	t.Helper()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic), "output is not a PNG")
}

func sampleSeries() []Series {
	return []Series{
		{Name: "a", Values: []float64{1, 2, 3, math.NaN(), 5, 4}},
		{Name: "b", Values: []float64{2, 2.5, 1, 0.5, 3, 6}},
	}
}

func TestPlotKinds(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			img, err := Plot(kind, sampleSeries(), small())
			assertPNG(t, img, err)
		})
	}
}

func TestPlotErrors(t *testing.T) {
	_, err := Plot("scatter", sampleSeries(), small())
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Plot("line", nil, small())
	assert.ErrorIs(t, err, ErrNoData)

	allMissing := []Series{{Name: "x", Values: []float64{math.NaN(), math.NaN()}}}
	for _, kind := range []string{"area", "line", "hist", "box", "kde"} {
		_, err := Plot(kind, allMissing, small())
		assert.ErrorIs(t, err, ErrNoData, kind)
	}

	constant := []Series{{Name: "c", Values: []float64{3, 3, 3}}}
	_, err = Plot("kde", constant, small())
	assert.ErrorIs(t, err, ErrZeroVariance)
}

func TestSinglePointLine(t *testing.T) {
	img, err := Line([]Series{{Name: "one", Values: []float64{7}}}, small())
	assertPNG(t, img, err)
}

func TestPieAndValueCountBar(t *testing.T) {
	counts := []dataset.ValueCount{{Value: "setosa", Count: 3}, {Value: "virginica", Count: 2}, {Value: "versicolor", Count: 2}}
	img, err := Pie(counts, small())
	assertPNG(t, img, err)

	img, err = ValueCountBar(counts, small())
	assertPNG(t, img, err)

	_, err = Pie(nil, small())
	assert.ErrorIs(t, err, ErrNoData)
	_, err = ValueCountBar(nil, small())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHeatmap(t *testing.T) {
	m := &analysis.CorrMatrix{
		Columns: []string{"x", "y", "z"},
		Values: [][]float64{
			{1, 0.5, math.NaN()},
			{0.5, 1, -0.25},
			{math.NaN(), -0.25, 1},
		},
	}
	img, err := Heatmap(m, true, small())
	assertPNG(t, img, err)

	img, err = Heatmap(m, false, small())
	assertPNG(t, img, err)

	_, err = Heatmap(&analysis.CorrMatrix{}, false, small())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGroupedBar(t *testing.T) {
	g := &analysis.GroupCounts{
		Key:     "species",
		Columns: []string{"sepal_length", "petal_width"},
		Groups:  []string{"setosa", "versicolor"},
		Counts:  [][]int{{3, 3}, {2, 1}},
	}
	img, err := GroupedBar(g, small())
	assertPNG(t, img, err)

	_, err = GroupedBar(&analysis.GroupCounts{Key: "k"}, small())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDensityIntegratesToOne(t *testing.T) {
	vals := []float64{1, 2, 2.5, 3, 4, 4.2, 5, 7}
	xys, err := Density(vals)
	require.NoError(t, err)
	require.Len(t, xys, kdePoints)

	// min-0.5r .. max+0.5r with r=6
	assert.InDelta(t, -2.0, xys[0].X, 1e-9)
	assert.InDelta(t, 10.0, xys[len(xys)-1].X, 1e-9)

	var area float64
	for i := 1; i < len(xys); i++ {
		area += (xys[i].X - xys[i-1].X) * (xys[i].Y + xys[i-1].Y) / 2
	}
	assert.InDelta(t, 1.0, area, 0.05)
}

func TestTableSeriesKeepsNumericColumns(t *testing.T) {
	p := filepath.Join(t.TempDir(), "mixed.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,label,b\n1,x,2.5\n2,y,\n"), 0o644))
	tbl, err := dataset.Load(p)
	require.NoError(t, err)

	series, err := TableSeries(tbl)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "a", series[0].Name)
	assert.Equal(t, []float64{1, 2}, series[0].Values)
	assert.Equal(t, "b", series[1].Name)
	assert.True(t, math.IsNaN(series[1].Values[1]))

	text, err := tbl.Select([]string{"label"})
	require.NoError(t, err)
	_, err = TableSeries(text)
	assert.ErrorIs(t, err, ErrNoData)
}
