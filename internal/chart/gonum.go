package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrZeroVariance is returned by KDE when every value is identical.
var ErrZeroVariance = errors.New("density estimate needs values with non-zero variance")

const kdePoints = 1000

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column drawn on the top row.
type corrGrid struct {
	m *analysis.CorrMatrix
}

func (g corrGrid) Dims() (c, r int)   { n := len(g.m.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// Heatmap renders a correlation matrix on a blue-red scale fixed to [-1, 1].
// With annotate set each cell carries its coefficient.
func Heatmap(m *analysis.CorrMatrix, annotate bool, opt Options) ([]byte, error) {
	n := len(m.Columns)
	if n == 0 {
		return nil, ErrNoData
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 220}

	p := plot.New()
	p.Title.Text = opt.Title
	p.Add(hm)

	xticks := make([]plot.Tick, n)
	yticks := make([]plot.Tick, n)
	for i, name := range m.Columns {
		xticks[i] = plot.Tick{Value: float64(i), Label: name}
		yticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)

	if annotate {
		var xys plotter.XYs
		var labels []string
		for i := range m.Columns {
			for j := range m.Columns {
				xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
				labels = append(labels, fmt.Sprintf("%.2f", m.Values[i][j]))
			}
		}
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("heatmap labels: %w", err)
		}
		lbl.Offset = vg.Point{X: -vg.Points(10), Y: -vg.Points(4)}
		p.Add(lbl)
	}
	return savePNG(p, opt)
}

// GroupedBar draws one bar group per key value with a bar per counted column.
func GroupedBar(g *analysis.GroupCounts, opt Options) ([]byte, error) {
	if len(g.Groups) == 0 || len(g.Columns) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = g.Key
	p.Y.Label.Text = "count"
	p.Legend.Top = true

	w, _ := opt.size()
	barW := barWidth(w, len(g.Groups), len(g.Columns))
	for j, col := range g.Columns {
		vals := make(plotter.Values, len(g.Groups))
		for i := range g.Groups {
			vals[i] = float64(g.Counts[i][j])
		}
		bc, err := plotter.NewBarChart(vals, barW)
		if err != nil {
			return nil, fmt.Errorf("bar %s: %w", col, err)
		}
		bc.Color = seriesColor(j)
		bc.LineStyle.Width = 0
		bc.Offset = barOffset(j, len(g.Columns), barW)
		p.Add(bc)
		p.Legend.Add(col, bc)
	}
	p.NominalX(g.Groups...)
	return savePNG(p, opt)
}

// Bar draws the values of each series as bars over the row index; missing
// values are drawn as zero.
func Bar(series []Series, opt Options) ([]byte, error) {
	rows := 0
	for _, s := range series {
		if len(s.Values) > rows {
			rows = len(s.Values)
		}
	}
	if rows == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = "index"
	p.Legend.Top = true

	w, _ := opt.size()
	barW := barWidth(w, rows, len(series))
	for j, s := range series {
		vals := make(plotter.Values, rows)
		for i, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				vals[i] = v
			}
		}
		bc, err := plotter.NewBarChart(vals, barW)
		if err != nil {
			return nil, fmt.Errorf("bar %s: %w", s.Name, err)
		}
		bc.Color = seriesColor(j)
		bc.LineStyle.Width = 0
		bc.Offset = barOffset(j, len(series), barW)
		p.Add(bc)
		p.Legend.Add(s.Name, bc)
	}
	if rows <= 30 {
		names := make([]string, rows)
		for i := range names {
			names[i] = fmt.Sprint(i)
		}
		p.NominalX(names...)
	}
	return savePNG(p, opt)
}

func barWidth(px, groups, perGroup int) vg.Length {
	bw := pixels(px) * 0.7 / vg.Length(groups*perGroup)
	if bw < vg.Points(0.5) {
		bw = vg.Points(0.5)
	}
	return bw
}

func barOffset(j, k int, w vg.Length) vg.Length {
	return vg.Length(float64(j)-float64(k-1)/2) * w
}

// Hist overlays a 10-bin histogram per series.
func Hist(series []Series, opt Options) ([]byte, error) {
	p := plot.New()
	p.Title.Text = opt.Title
	p.Y.Label.Text = "frequency"
	p.Legend.Top = true
	drawn := 0
	for j, s := range series {
		vals := finite(s.Values)
		if len(vals) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(vals), 10)
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", s.Name, err)
		}
		c := seriesColor(j)
		c.A = 140
		h.FillColor = c
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		p.Legend.Add(s.Name, h)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	return savePNG(p, opt)
}

// Box draws a box-and-whisker per series side by side.
func Box(series []Series, opt Options) ([]byte, error) {
	p := plot.New()
	p.Title.Text = opt.Title
	var names []string
	w, _ := opt.size()
	boxW := pixels(w) * 0.5 / vg.Length(len(series))
	for _, s := range series {
		vals := finite(s.Values)
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(boxW, float64(len(names)), plotter.Values(vals))
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", s.Name, err)
		}
		b.FillColor = seriesColor(len(names))
		p.Add(b)
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return nil, ErrNoData
	}
	p.NominalX(names...)
	return savePNG(p, opt)
}

// KDE draws a Gaussian kernel density estimate per series using Scott's
// bandwidth.
func KDE(series []Series, opt Options) ([]byte, error) {
	p := plot.New()
	p.Title.Text = opt.Title
	p.Y.Label.Text = "density"
	p.Legend.Top = true
	drawn := 0
	for j, s := range series {
		vals := finite(s.Values)
		if len(vals) == 0 {
			continue
		}
		xys, err := Density(vals)
		if err != nil {
			return nil, fmt.Errorf("density %s: %w", s.Name, err)
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("density %s: %w", s.Name, err)
		}
		l.Color = seriesColor(j)
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.Name, l)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	return savePNG(p, opt)
}

// Density evaluates a Gaussian KDE of vals at evenly spaced points spanning
// the data range extended by half of it on each side.
func Density(vals []float64) (plotter.XYs, error) {
	if len(vals) < 2 {
		return nil, ErrZeroVariance
	}
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, ErrZeroVariance
	}
	bw := sd * math.Pow(float64(len(vals)), -0.2)
	lo, hi := floats.Min(vals), floats.Max(vals)
	span := hi - lo
	grid := make([]float64, kdePoints)
	floats.Span(grid, lo-0.5*span, hi+0.5*span)

	norm := 1 / (float64(len(vals)) * bw * math.Sqrt(2*math.Pi))
	out := make(plotter.XYs, kdePoints)
	for i, x := range grid {
		var sum float64
		for _, v := range vals {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = plotter.XY{X: x, Y: sum * norm}
	}
	return out, nil
}
