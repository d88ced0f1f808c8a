package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/mlexplorer/internal/chart"
	cfgpkg "github.com/KaramelBytes/mlexplorer/internal/config"
	"github.com/KaramelBytes/mlexplorer/internal/explorer"
	"github.com/KaramelBytes/mlexplorer/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagDatasets string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mlexplorer",
	Short: "Explore and chart tabular ML datasets",
	Long: `mlexplorer picks a dataset file from a folder, shows its shape, columns and
summary statistics, and draws canned charts. Run "mlexplorer serve" for the
interactive page or use the inspect/analyze/plot commands from a terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if cfg != nil {
			level = cfg.LogLevel
		}
		l, err := logging.New(level, debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mlexplorer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDatasets, "datasets", "", "datasets folder (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

func datasetsDir() string {
	if flagDatasets != "" {
		return flagDatasets
	}
	if cfg != nil && cfg.DatasetsDir != "" {
		return cfg.DatasetsDir
	}
	return "./datasets"
}

func defaultRows() int {
	if cfg != nil && cfg.DefaultRows > 0 {
		return cfg.DefaultRows
	}
	return 5
}

func maxRows() int {
	if cfg != nil {
		return cfg.MaxRows
	}
	return 0
}

func chartOptions() chart.Options {
	opt := chart.DefaultOptions()
	if cfg != nil {
		if cfg.ChartWidth > 0 {
			opt.Width = cfg.ChartWidth
		}
		if cfg.ChartHeight > 0 {
			opt.Height = cfg.ChartHeight
		}
	}
	return opt
}

func sidebar() explorer.Sidebar {
	sb := explorer.DefaultSidebar()
	if cfg == nil {
		return sb
	}
	if cfg.SidebarAboutApp != "" {
		sb.AboutApp = cfg.SidebarAboutApp
	}
	if cfg.SidebarAbout != "" {
		sb.About = cfg.SidebarAbout
	}
	if len(cfg.SidebarFooter) > 0 {
		sb.Footer = cfg.SidebarFooter
	}
	sb.DatasetsURL = cfg.DatasetsURL
	return sb
}
