package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/KaramelBytes/mlexplorer/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	abOutDir     string
	abSampleRows int
	abMaxRows    int
	abCorr       bool
	abOutliers   bool
	abOutlierThr float64
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch [files...]",
	Short: "Profile several datasets (default: every file in the datasets folder)",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := batchInputs(args)
		if err != nil {
			return err
		}
		if abOutDir == "" {
			return fmt.Errorf("--out-dir is required")
		}

		opt := analysis.DefaultOptions()
		opt.SampleRows = abSampleRows
		opt.Correlations = abCorr
		opt.Outliers = abOutliers
		if abOutlierThr > 0 {
			opt.OutlierThreshold = abOutlierThr
		}
		load := dataset.LoadOptions{MaxRows: abMaxRows}
		if !cmd.Flags().Changed("max-rows") {
			load.MaxRows = maxRows()
		}

		out := cmd.OutOrStdout()
		used := map[string]int{}
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := dataset.LoadWithOptions(path, load)
			if err != nil {
				return err
			}
			rep, err := analysis.Profile(t, opt)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			used[base]++
			name := base + ".summary.md"
			// same base name from another folder
			if n := used[base]; n > 1 {
				name = fmt.Sprintf("%s__%d.summary.md", base, n)
				if !abQuiet {
					fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", name)
				}
			}
			outFile := filepath.Join(abOutDir, name)
			if err := utils.SafeWriteFile(outFile, []byte(rep.Markdown())); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			logger.Debug("summary written", zap.String("dataset", path), zap.String("output", outFile))
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// batchInputs expands glob arguments, or lists the datasets folder when no
// arguments are given.
func batchInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		dir := datasetsDir()
		names, err := dataset.ListFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no dataset files in %s", dir)
		}
		files := make([]string, len(names))
		for i, n := range names {
			files[i] = filepath.Join(dir, n)
		}
		return files, nil
	}
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "folder to write <name>.summary.md files into")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	analyzeBatchCmd.Flags().IntVar(&abMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited, default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", true, "list the strongest Pearson correlations among numeric columns")
	analyzeBatchCmd.Flags().BoolVar(&abOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeBatchCmd.Flags().Float64Var(&abOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
