package cmd

import (
	"fmt"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/KaramelBytes/mlexplorer/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaDelimiter  string
	anaSampleRows int
	anaMaxRows    int
	anaCorr       bool
	anaCorrLimit  int
	anaSheetName  string
	anaOutliers   bool
	anaOutlierThr float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a dataset and produce a concise Markdown summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		load := dataset.LoadOptions{MaxRows: anaMaxRows, Sheet: anaSheetName}
		if !cmd.Flags().Changed("max-rows") {
			load.MaxRows = maxRows()
		}
		delim, err := parseDelimiter(anaDelimiter)
		if err != nil {
			return err
		}
		load.Delimiter = delim

		opt := analysis.DefaultOptions()
		opt.SampleRows = anaSampleRows
		opt.Correlations = anaCorr
		opt.CorrLimit = anaCorrLimit
		opt.Outliers = anaOutliers
		if anaOutlierThr > 0 {
			opt.OutlierThreshold = anaOutlierThr
		}

		t, err := openDataset(args[0], load)
		if err != nil {
			return err
		}
		rep, err := analysis.Profile(t, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (by extension if omitted)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited, default from config)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "list the strongest Pearson correlations among numeric columns")
	analyzeCmd.Flags().IntVar(&anaCorrLimit, "corr-limit", 10, "maximum correlation pairs to list")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "XLSX: sheet name to analyze (default first sheet)")
}
