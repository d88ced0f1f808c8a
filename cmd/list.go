package cmd

import (
	"fmt"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dataset files in the datasets folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := dataset.ListFiles(datasetsDir())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		for _, f := range files {
			fmt.Fprintf(out, "- %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
