package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/chart"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/KaramelBytes/mlexplorer/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	plotKind    string
	plotColumns []string
	plotPrimary string
	plotOutput  string
	plotWidth   int
	plotHeight  int
	plotTitle   string
	plotAnnot   bool
)

var plotKinds = append([]string{"heatmap", "pie", "count"}, chart.Kinds...)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render a chart of a dataset to a PNG file",
	Long: `Render one of the explorer charts to PNG:
  heatmap  correlation matrix of the numeric columns
  pie      value shares of the last column
  count    value counts of the last column, or counts of --columns grouped by --primary
  area|bar|line|hist|box|kde  the numeric --columns (all numeric columns if omitted)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotOutput == "" {
			return fmt.Errorf("--output is required")
		}
		t, err := openDataset(args[0], dataset.LoadOptions{MaxRows: maxRows()})
		if err != nil {
			return err
		}
		opt := chartOptions()
		if plotWidth > 0 {
			opt.Width = plotWidth
		}
		if plotHeight > 0 {
			opt.Height = plotHeight
		}
		opt.Title = plotTitle

		img, err := renderPlot(t, plotKind, opt)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(plotOutput, img); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		logger.Debug("chart written", zap.String("kind", plotKind), zap.String("output", plotOutput), zap.Int("bytes", len(img)))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s plot to %s\n", plotKind, plotOutput)
		return nil
	},
}

func renderPlot(t *dataset.Table, kind string, opt chart.Options) ([]byte, error) {
	switch kind {
	case "heatmap":
		m, err := analysis.Correlation(t)
		if err != nil {
			return nil, err
		}
		return chart.Heatmap(m, plotAnnot, opt)
	case "pie", "count":
		if kind == "count" && len(plotColumns) > 0 {
			primary := plotPrimary
			if primary == "" {
				primary = t.Columns()[0]
			}
			g, err := analysis.GroupCount(t, primary, plotColumns)
			if err != nil {
				return nil, err
			}
			return chart.GroupedBar(g, opt)
		}
		last, err := t.LastColumn()
		if err != nil {
			return nil, err
		}
		counts, err := t.ValueCounts(last)
		if err != nil {
			return nil, err
		}
		if kind == "pie" {
			return chart.Pie(counts, opt)
		}
		return chart.ValueCountBar(counts, opt)
	default:
		sub := t
		if len(plotColumns) > 0 {
			var err error
			if sub, err = t.Select(plotColumns); err != nil {
				return nil, err
			}
		}
		series, err := chart.TableSeries(sub)
		if err != nil {
			return nil, err
		}
		return chart.Plot(kind, series, opt)
	}
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotKind, "kind", "k", "heatmap", "plot kind: "+strings.Join(plotKinds, "|"))
	plotCmd.Flags().StringSliceVar(&plotColumns, "columns", nil, "comma-separated columns to plot or count")
	plotCmd.Flags().StringVar(&plotPrimary, "primary", "", "count: column to group by (default first column)")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "PNG file to write")
	plotCmd.Flags().IntVar(&plotWidth, "width", 0, "image width in pixels (default from config)")
	plotCmd.Flags().IntVar(&plotHeight, "height", 0, "image height in pixels (default from config)")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "chart title")
	plotCmd.Flags().BoolVar(&plotAnnot, "annotate", true, "heatmap: print coefficients in cells")
}
