// Package chart renders dataset visualizations to PNG.
//
// Pie, value-count bars, area and line charts are drawn with go-chart; the
// heatmap, grouped bars, histograms, box plots and density curves use
// gonum/plot.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var (
	// ErrNoData is returned when there is nothing numeric to plot.
	ErrNoData = errors.New("no numeric data to plot")
	// ErrUnknownKind is returned for an unsupported plot kind.
	ErrUnknownKind = errors.New("unknown plot kind")
)

// Kinds lists the plot kinds accepted by Plot, in menu order.
var Kinds = []string{"area", "bar", "line", "hist", "box", "kde"}

// Options controls output size and title.
type Options struct {
	Width  int
	Height int
	Title  string
}

// DefaultOptions returns the default chart size.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 480}
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 480
	}
	return w, h
}

// Series is one named column of values; NaN marks a missing value.
type Series struct {
	Name   string
	Values []float64
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Plot renders series with the given kind: area, bar, line, hist, box or kde.
func Plot(kind string, series []Series, opt Options) ([]byte, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	switch kind {
	case "area":
		return Area(series, opt)
	case "line":
		return Line(series, opt)
	case "bar":
		return Bar(series, opt)
	case "hist":
		return Hist(series, opt)
	case "box":
		return Box(series, opt)
	case "kde":
		return KDE(series, opt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// pixels converts a pixel count to a vg length at the 96 DPI used for PNG output.
func pixels(px int) vg.Length {
	return vg.Length(float64(px)/96) * vg.Inch
}

func savePNG(p *plot.Plot, opt Options) ([]byte, error) {
	w, h := opt.size()
	wt, err := p.WriterTo(pixels(w), pixels(h), "png")
	if err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write plot: %w", err)
	}
	return buf.Bytes(), nil
}

// palette is shared by both renderers so a column keeps its color across charts.
var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

func seriesColor(i int) color.RGBA {
	return palette[i%len(palette)]
}

// TableSeries collects the numeric columns of t as series. Text columns are
// skipped; ErrNoData is returned when none remain.
func TableSeries(t *dataset.Table) ([]Series, error) {
	var out []Series
	for _, c := range t.NumericColumns() {
		vals, err := t.Numeric(c)
		if err != nil {
			return nil, err
		}
		out = append(out, Series{Name: c, Values: vals})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
