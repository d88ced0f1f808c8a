package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/mlexplorer/internal/explorer"
	"github.com/KaramelBytes/mlexplorer/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive explorer page",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.ListenAddr
		}
		if addr == "" {
			addr = "127.0.0.1:8501"
		}
		dir := datasetsDir()
		if _, err := os.Stat(dir); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: datasets folder %s: %v\n", dir, err)
		}
		script := &explorer.Script{
			Dir:         dir,
			DefaultRows: defaultRows(),
			MaxRows:     maxRows(),
			Sidebar:     sidebar(),
			Chart:       chartOptions(),
			Logger:      logger,
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exploring %s at http://%s\n", dir, addr)
		return server.New(script, logger).Serve(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
}
