// Package explorer runs the dataset explorer page script. A run takes the
// complete widget state, re-executes every step from the top and returns the
// resulting page. Nothing is kept between runs.
package explorer

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/chart"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"go.uber.org/zap"
)

const (
	// AppTitle heads every page.
	AppTitle = "Common ML Dataset Explorer"
	// DefaultPlotType is preselected in the customizable plot menu.
	DefaultPlotType = "area"
)

// Script renders the explorer page for a datasets folder.
type Script struct {
	Dir         string
	DefaultRows int
	MaxRows     int
	Sidebar     Sidebar
	Chart       chart.Options
	Logger      *zap.Logger
}

// Run executes the script once. The first failing step appends an error
// block and ends the run; everything rendered before it stays on the page.
func (s *Script) Run(ctx context.Context, w Widgets) *Page {
	p := &Page{Title: AppTitle, Sidebar: s.Sidebar}
	if err := s.run(ctx, w, p); err != nil {
		s.logger().Warn("explorer run stopped",
			zap.String("file", p.File),
			zap.Error(err))
		p.add(KindError, err.Error())
	}
	return p
}

func (s *Script) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Script) run(ctx context.Context, w Widgets, p *Page) error {
	p.add(KindTitle, AppTitle)
	p.add(KindSubheader, "Datasets For ML Explorer")
	p.add(KindBanner, "Explore Your Data")

	files, err := dataset.ListFiles(s.Dir)
	if err != nil {
		return err
	}
	current := filepath.Base(w.File)
	if w.File == "" && len(files) > 0 {
		current = files[0]
	}
	p.addControl(Control{Type: Select, Name: ParamFile, Label: "Select A file", Options: files, Value: current})
	path, err := dataset.Pick(s.Dir, w.File, files)
	if err != nil {
		return err
	}
	p.File = path
	p.add(KindInfo, fmt.Sprintf("You Selected %s", path))

	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := dataset.LoadWithOptions(path, dataset.LoadOptions{MaxRows: s.MaxRows})
	if err != nil {
		return err
	}
	s.logger().Debug("dataset loaded", zap.String("file", path), zap.Strings("columns", t.Columns()))
	cols := t.Columns()

	p.addControl(Control{Type: Checkbox, Name: ParamShowDataset, Label: "Show Dataset", Checked: w.ShowDataset})
	if w.ShowDataset {
		rows := w.Rows
		if rows < 1 {
			rows = s.DefaultRows
		}
		if rows < 1 {
			rows = 1
		}
		p.addControl(Control{Type: Number, Name: ParamRows, Label: "Number of Rows to View", Value: strconv.Itoa(rows), Min: 1})
		p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: t.Head(rows).Records()})
	}

	p.addControl(Control{Type: Button, Name: ParamColumnNames, Label: "Column Names"})
	if w.ColumnNames {
		p.Blocks = append(p.Blocks, Block{Kind: KindList, Items: cols})
	}

	p.addControl(Control{Type: Checkbox, Name: ParamShape, Label: "Shape of Dataset", Checked: w.Shape})
	if w.Shape {
		by := w.ShapeBy
		if by != ShapeByColumns {
			by = ShapeByRows
		}
		p.addControl(Control{Type: Radio, Name: ParamShapeBy, Label: "Show Dimension By", Options: []string{ShapeByRows, ShapeByColumns}, Value: by})
		nrows, ncols := t.Shape()
		if by == ShapeByRows {
			p.add(KindText, "Number of Rows")
			p.add(KindValue, strconv.Itoa(nrows))
		} else {
			p.add(KindText, "Number of Columns")
			p.add(KindValue, strconv.Itoa(ncols))
		}
	}

	p.addControl(Control{Type: Checkbox, Name: ParamSelectColumns, Label: "Select Columns To Show", Checked: w.SelectColumns})
	if w.SelectColumns {
		selected := keepKnown(w.Selected, cols)
		p.addControl(Control{Type: MultiSelect, Name: ParamSelected, Label: "Select", Options: cols, Values: selected})
		if len(selected) == 0 {
			p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: [][]string{{}}})
		} else {
			sub, err := t.Select(selected)
			if err != nil {
				return err
			}
			p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: sub.Records()})
		}
	}

	p.addControl(Control{Type: Button, Name: ParamValueCounts, Label: "Value Counts"})
	if w.ValueCounts {
		p.add(KindText, "Value Counts By Target/Class")
		last, counts, err := lastColumnCounts(t)
		if err != nil {
			return err
		}
		rows := [][]string{{last, "count"}}
		for _, vc := range counts {
			rows = append(rows, []string{vc.Value, strconv.Itoa(vc.Count)})
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: rows})
	}

	p.addControl(Control{Type: Button, Name: ParamDataTypes, Label: "Data Types"})
	if w.DataTypes {
		rows := [][]string{{"column", "dtype"}}
		for _, ct := range t.DTypes() {
			rows = append(rows, []string{ct.Column, ct.DType})
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: rows})
	}

	p.addControl(Control{Type: Checkbox, Name: ParamSummary, Label: "Summary", Checked: w.Summary})
	if w.Summary {
		stats, err := analysis.Describe(t)
		if err != nil {
			return err
		}
		rows := [][]string{analysis.DescribeHeader}
		for _, st := range stats {
			rows = append(rows, st.Row())
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindTable, Rows: rows})
	}

	p.add(KindSubheader, "Data Visualization")

	p.addControl(Control{Type: Checkbox, Name: ParamCorrelation, Label: "Correlation Plot", Checked: w.Correlation})
	if w.Correlation {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := analysis.Correlation(t)
		if err != nil {
			return err
		}
		img, err := chart.Heatmap(m, true, s.chartOptions("Correlation"))
		if err != nil {
			return err
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindImage, Image: img, Text: "Correlation"})
	}

	p.addControl(Control{Type: Checkbox, Name: ParamPie, Label: "Pie Plot", Checked: w.Pie})
	if w.Pie {
		p.addControl(Control{Type: Button, Name: ParamPieGenerate, Label: "Generate Pie Plot"})
		if w.PieGenerate {
			p.add(KindSuccess, "Generating A Pie Plot")
			if err := ctx.Err(); err != nil {
				return err
			}
			last, counts, err := lastColumnCounts(t)
			if err != nil {
				return err
			}
			img, err := chart.Pie(counts, s.chartOptions(last))
			if err != nil {
				return err
			}
			p.Blocks = append(p.Blocks, Block{Kind: KindImage, Image: img, Text: last})
		}
	}

	p.addControl(Control{Type: Checkbox, Name: ParamCountPlot, Label: "Plot of Value Counts", Checked: w.CountPlot})
	if w.CountPlot {
		p.add(KindText, "Value Counts By Target")
		primary := w.PrimaryColumn
		if !contains(cols, primary) && len(cols) > 0 {
			primary = cols[0]
		}
		selected := keepKnown(w.CountColumns, cols)
		p.addControl(Control{Type: Select, Name: ParamPrimary, Label: "Primary Column to GroupBy", Options: cols, Value: primary})
		p.addControl(Control{Type: MultiSelect, Name: ParamCountColumns, Label: "Select Columns", Options: cols, Values: selected})
		p.addControl(Control{Type: Button, Name: ParamCountGenerate, Label: "Plot"})
		if w.CountGenerate {
			p.add(KindText, "Generate Plot")
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := s.countPlot(t, primary, selected)
			if err != nil {
				return err
			}
			p.Blocks = append(p.Blocks, Block{Kind: KindImage, Image: img, Text: "Value Counts"})
		}
	}

	p.add(KindSubheader, "Customizable Plot")
	kind := w.PlotType
	if !contains(chart.Kinds, kind) {
		kind = DefaultPlotType
	}
	plotCols := keepKnown(w.PlotColumns, cols)
	p.addControl(Control{Type: Select, Name: ParamPlotType, Label: "Select Type of Plot", Options: chart.Kinds, Value: kind})
	p.addControl(Control{Type: MultiSelect, Name: ParamPlotColumns, Label: "Select Columns To Plot", Options: cols, Values: plotCols})
	p.addControl(Control{Type: Button, Name: ParamGenerate, Label: "Generate Plot"})
	if w.Generate {
		p.add(KindSuccess, fmt.Sprintf("Generating Customizable Plot of %s for %s", kind, listLiteral(plotCols)))
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := s.customPlot(t, kind, plotCols)
		if err != nil {
			return err
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindImage, Image: img, Text: kind})
	}

	p.addControl(Control{Type: Button, Name: ParamThanks, Label: "Thanks"})
	if w.Thanks {
		p.add(KindBalloons, "")
	}
	return nil
}

func (s *Script) chartOptions(title string) chart.Options {
	opt := s.Chart
	opt.Title = title
	return opt
}

func (s *Script) countPlot(t *dataset.Table, primary string, selected []string) ([]byte, error) {
	if len(selected) == 0 {
		last, counts, err := lastColumnCounts(t)
		if err != nil {
			return nil, err
		}
		return chart.ValueCountBar(counts, s.chartOptions(last))
	}
	g, err := analysis.GroupCount(t, primary, selected)
	if err != nil {
		return nil, err
	}
	return chart.GroupedBar(g, s.chartOptions(primary))
}

func (s *Script) customPlot(t *dataset.Table, kind string, cols []string) ([]byte, error) {
	if len(cols) == 0 {
		return nil, chart.ErrNoData
	}
	sub, err := t.Select(cols)
	if err != nil {
		return nil, err
	}
	series, err := chart.TableSeries(sub)
	if err != nil {
		return nil, err
	}
	return chart.Plot(kind, series, s.chartOptions(""))
}

func lastColumnCounts(t *dataset.Table) (string, []dataset.ValueCount, error) {
	last, err := t.LastColumn()
	if err != nil {
		return "", nil, err
	}
	counts, err := t.ValueCounts(last)
	if err != nil {
		return "", nil, err
	}
	return last, counts, nil
}

// keepKnown drops selections that are not options of the current table,
// e.g. state left over from a previously selected file.
func keepKnown(selected, options []string) []string {
	var out []string
	for _, s := range selected {
		if contains(options, s) && !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func listLiteral(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
