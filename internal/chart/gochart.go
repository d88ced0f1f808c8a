package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func drawingColor(i int, alpha uint8) drawing.Color {
	c := seriesColor(i)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Pie renders a pie of value counts, each slice labelled with its share.
func Pie(counts []dataset.ValueCount, opt Options) ([]byte, error) {
	var total int
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return nil, ErrNoData
	}
	w, h := opt.size()
	values := make([]gochart.Value, 0, len(counts))
	for i, c := range counts {
		pct := float64(c.Count) * 100 / float64(total)
		values = append(values, gochart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s %.1f%%", c.Value, pct),
			Style: gochart.Style{FillColor: drawingColor(i, 255)},
		})
	}
	pie := gochart.PieChart{
		Title:  opt.Title,
		Width:  w,
		Height: h,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie: %w", err)
	}
	return buf.Bytes(), nil
}

// ValueCountBar renders one bar per distinct value.
func ValueCountBar(counts []dataset.ValueCount, opt Options) ([]byte, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	w, h := opt.size()
	bars := make([]gochart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = gochart.Value{
			Value: float64(c.Count),
			Label: c.Value,
			Style: gochart.Style{FillColor: drawingColor(0, 255), StrokeColor: drawingColor(0, 255)},
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	barWidth := (w - 120) / (2 * len(counts))
	if barWidth < 4 {
		barWidth = 4
	}
	if barWidth > 80 {
		barWidth = 80
	}
	bc := gochart.BarChart{
		Title:      opt.Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar: %w", err)
	}
	return buf.Bytes(), nil
}

// Area renders each series over the row index with the area under it filled.
func Area(series []Series, opt Options) ([]byte, error) {
	return indexChart(series, opt, true)
}

// Line renders each series over the row index.
func Line(series []Series, opt Options) ([]byte, error) {
	return indexChart(series, opt, false)
}

func indexChart(series []Series, opt Options, fill bool) ([]byte, error) {
	var out []gochart.Series
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		var xs, ys []float64
		for k, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs = append(xs, float64(k))
			ys = append(ys, v)
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
		if len(xs) == 0 {
			continue
		}
		// go-chart needs two X values to build a range
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		st := gochart.Style{StrokeColor: drawingColor(i, 255), StrokeWidth: 2}
		if fill {
			st.FillColor = drawingColor(i, 96)
		}
		out = append(out, gochart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	if fill && minY > 0 {
		minY = 0
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	w, h := opt.size()
	ch := gochart.Chart{
		Title:      opt.Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      w,
		Height:     h,
		XAxis:      gochart.XAxis{Name: "index"},
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: minY, Max: maxY}},
		Series:     out,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
