package explorer

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Query parameter names carrying widget state between runs.
const (
	ParamFile          = "file"
	ParamShowDataset   = "show_dataset"
	ParamRows          = "rows"
	ParamColumnNames   = "column_names"
	ParamShape         = "shape"
	ParamShapeBy       = "shape_by"
	ParamSelectColumns = "select_columns"
	ParamSelected      = "selected"
	ParamValueCounts   = "value_counts"
	ParamDataTypes     = "data_types"
	ParamSummary       = "summary"
	ParamCorrelation   = "correlation"
	ParamPie           = "pie"
	ParamPieGenerate   = "pie_generate"
	ParamCountPlot     = "count_plot"
	ParamPrimary       = "primary"
	ParamCountColumns  = "count_columns"
	ParamCountGenerate = "count_generate"
	ParamPlotType      = "plot_type"
	ParamPlotColumns   = "plot_columns"
	ParamGenerate      = "generate"
	ParamThanks        = "thanks"
)

// Dimension choices for the shape radio.
const (
	ShapeByRows    = "Rows"
	ShapeByColumns = "Columns"
)

// Widgets is the complete control state of one run. Checkbox fields persist
// across runs because the page resubmits them; button fields are true only
// on the run in which the button was pressed.
type Widgets struct {
	File string

	ShowDataset bool
	Rows        int

	ColumnNames bool // button

	Shape   bool
	ShapeBy string

	SelectColumns bool
	Selected      []string

	ValueCounts bool // button
	DataTypes   bool // button
	Summary     bool
	Correlation bool

	Pie         bool
	PieGenerate bool // button

	CountPlot     bool
	PrimaryColumn string
	CountColumns  []string
	CountGenerate bool // button

	PlotType    string
	PlotColumns []string
	Generate    bool // button

	Thanks bool // button
}

// DecodeWidgets reads widget state from query values. Missing or malformed
// entries fall back to the control defaults; Rows is 0 when absent so the
// script can apply its configured default.
func DecodeWidgets(v url.Values) Widgets {
	w := Widgets{
		File:          strings.TrimSpace(v.Get(ParamFile)),
		ShowDataset:   cast.ToBool(v.Get(ParamShowDataset)),
		ColumnNames:   cast.ToBool(v.Get(ParamColumnNames)),
		Shape:         cast.ToBool(v.Get(ParamShape)),
		ShapeBy:       v.Get(ParamShapeBy),
		SelectColumns: cast.ToBool(v.Get(ParamSelectColumns)),
		Selected:      nonEmpty(v[ParamSelected]),
		ValueCounts:   cast.ToBool(v.Get(ParamValueCounts)),
		DataTypes:     cast.ToBool(v.Get(ParamDataTypes)),
		Summary:       cast.ToBool(v.Get(ParamSummary)),
		Correlation:   cast.ToBool(v.Get(ParamCorrelation)),
		Pie:           cast.ToBool(v.Get(ParamPie)),
		PieGenerate:   cast.ToBool(v.Get(ParamPieGenerate)),
		CountPlot:     cast.ToBool(v.Get(ParamCountPlot)),
		PrimaryColumn: v.Get(ParamPrimary),
		CountColumns:  nonEmpty(v[ParamCountColumns]),
		CountGenerate: cast.ToBool(v.Get(ParamCountGenerate)),
		PlotType:      v.Get(ParamPlotType),
		PlotColumns:   nonEmpty(v[ParamPlotColumns]),
		Generate:      cast.ToBool(v.Get(ParamGenerate)),
		Thanks:        cast.ToBool(v.Get(ParamThanks)),
	}
	if raw := strings.TrimSpace(v.Get(ParamRows)); raw != "" {
		if n, err := cast.ToIntE(raw); err == nil {
			w.Rows = n
			if n < 1 {
				w.Rows = 1
			}
		}
	}
	return w
}

// Values encodes w as query values; false and empty fields are omitted.
func (w Widgets) Values() url.Values {
	v := url.Values{}
	setStr := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	setBool := func(k string, b bool) {
		if b {
			v.Set(k, "true")
		}
	}
	setStr(ParamFile, w.File)
	setBool(ParamShowDataset, w.ShowDataset)
	if w.Rows > 0 {
		v.Set(ParamRows, strconv.Itoa(w.Rows))
	}
	setBool(ParamColumnNames, w.ColumnNames)
	setBool(ParamShape, w.Shape)
	setStr(ParamShapeBy, w.ShapeBy)
	setBool(ParamSelectColumns, w.SelectColumns)
	v[ParamSelected] = append([]string(nil), w.Selected...)
	setBool(ParamValueCounts, w.ValueCounts)
	setBool(ParamDataTypes, w.DataTypes)
	setBool(ParamSummary, w.Summary)
	setBool(ParamCorrelation, w.Correlation)
	setBool(ParamPie, w.Pie)
	setBool(ParamPieGenerate, w.PieGenerate)
	setBool(ParamCountPlot, w.CountPlot)
	setStr(ParamPrimary, w.PrimaryColumn)
	v[ParamCountColumns] = append([]string(nil), w.CountColumns...)
	setBool(ParamCountGenerate, w.CountGenerate)
	setStr(ParamPlotType, w.PlotType)
	v[ParamPlotColumns] = append([]string(nil), w.PlotColumns...)
	setBool(ParamGenerate, w.Generate)
	setBool(ParamThanks, w.Thanks)
	for k, vals := range v {
		if len(vals) == 0 {
			delete(v, k)
		}
	}
	return v
}

func nonEmpty(vals []string) []string {
	var out []string
	for _, s := range vals {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
