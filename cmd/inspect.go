package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/mlexplorer/internal/analysis"
	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/KaramelBytes/mlexplorer/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	insRows    int
	insColumns []string
	insColumn  string
	insBy      string
	insJSON    bool
)

var inspectOps = []string{"head", "columns", "shape", "select", "value-counts", "dtypes", "describe", "corr", "group-counts"}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file> <" + strings.Join(inspectOps, "|") + ">",
	Short: "Inspect a dataset: head rows, columns, shape, value counts, dtypes, summary",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openDataset(args[0], dataset.LoadOptions{MaxRows: maxRows()})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch op := args[1]; op {
		case "head":
			rows := insRows
			if !cmd.Flags().Changed("rows") {
				rows = defaultRows()
			}
			return writeRecords(out, t.Head(rows).Records())
		case "columns":
			return writeList(out, t.Columns())
		case "shape":
			return writeShape(out, t)
		case "select":
			if len(insColumns) == 0 {
				return fmt.Errorf("select: --columns is required")
			}
			sub, err := t.Select(insColumns)
			if err != nil {
				return err
			}
			return writeRecords(out, sub.Records())
		case "value-counts":
			col := insColumn
			if col == "" {
				if col, err = t.LastColumn(); err != nil {
					return err
				}
			}
			counts, err := t.ValueCounts(col)
			if err != nil {
				return err
			}
			if insJSON {
				return writeJSON(out, counts)
			}
			rows := [][]string{{col, "count"}}
			for _, vc := range counts {
				rows = append(rows, []string{vc.Value, strconv.Itoa(vc.Count)})
			}
			return writeTable(out, rows)
		case "dtypes":
			types := t.DTypes()
			if insJSON {
				return writeJSON(out, types)
			}
			rows := [][]string{{"column", "dtype"}}
			for _, ct := range types {
				rows = append(rows, []string{ct.Column, ct.DType})
			}
			return writeTable(out, rows)
		case "describe":
			stats, err := analysis.Describe(t)
			if err != nil {
				return err
			}
			if insJSON {
				return writeJSON(out, stats)
			}
			rows := [][]string{analysis.DescribeHeader}
			for _, st := range stats {
				rows = append(rows, st.Row())
			}
			return writeTable(out, rows)
		case "corr":
			m, err := analysis.Correlation(t)
			if err != nil {
				return err
			}
			if insJSON {
				return writeJSON(out, m)
			}
			return writeTable(out, m.Rows())
		case "group-counts":
			if len(insColumns) == 0 {
				return fmt.Errorf("group-counts: --columns is required")
			}
			key := insColumn
			if key == "" {
				key = t.Columns()[0]
			}
			g, err := analysis.GroupCount(t, key, insColumns)
			if err != nil {
				return err
			}
			if insJSON {
				return writeJSON(out, g)
			}
			return writeTable(out, g.Rows())
		default:
			return fmt.Errorf("unknown operation %q (use %s)", op, strings.Join(inspectOps, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&insRows, "rows", "n", 5, "head: number of rows to show (default from config)")
	inspectCmd.Flags().StringSliceVar(&insColumns, "columns", nil, "select, group-counts: comma-separated columns")
	inspectCmd.Flags().StringVar(&insColumn, "column", "", "value-counts: column to tally (default last column); group-counts: key column (default first column)")
	inspectCmd.Flags().StringVar(&insBy, "by", "", "shape: report only 'rows' or 'columns'")
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "print JSON instead of a table")
}

// openDataset loads arg as a path, or as a file name inside the datasets folder.
func openDataset(arg string, opt dataset.LoadOptions) (*dataset.Table, error) {
	path := arg
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(arg) {
		alt := filepath.Join(datasetsDir(), arg)
		if _, altErr := os.Stat(alt); altErr == nil {
			path = alt
		}
	}
	t, err := dataset.LoadWithOptions(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", zap.String("file", path))
	return t, nil
}

func writeShape(out io.Writer, t *dataset.Table) error {
	rows, cols := t.Shape()
	if insJSON {
		return writeJSON(out, map[string]int{"rows": rows, "columns": cols})
	}
	switch strings.ToLower(insBy) {
	case "rows":
		fmt.Fprintf(out, "Number of Rows\n%d\n", rows)
	case "columns":
		fmt.Fprintf(out, "Number of Columns\n%d\n", cols)
	case "":
		fmt.Fprintf(out, "(%d, %d)\n", rows, cols)
	default:
		return fmt.Errorf("unsupported --by: %s (use rows|columns)", insBy)
	}
	return nil
}

func writeRecords(out io.Writer, records [][]string) error {
	if insJSON {
		header := records[0]
		rows := make([]map[string]string, 0, len(records)-1)
		for _, rec := range records[1:] {
			row := make(map[string]string, len(header))
			for i, h := range header {
				row[h] = rec[i]
			}
			rows = append(rows, row)
		}
		return writeJSON(out, rows)
	}
	return writeTable(out, records)
}

func writeList(out io.Writer, items []string) error {
	if insJSON {
		return writeJSON(out, items)
	}
	for _, it := range items {
		fmt.Fprintf(out, "- %s\n", it)
	}
	return nil
}

func writeTable(out io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t")+"\t")
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
