package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/mlexplorer/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set mlexplorer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "datasets_dir: %s\n", cfg.DatasetsDir)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "default_rows: %d\n", cfg.DefaultRows)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.DatasetsURL != "" {
			fmt.Fprintf(out, "datasets_url: %s\n", cfg.DatasetsURL)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "datasets_dir":
			cfg.DatasetsDir = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "default_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for default_rows: %v (must be >= 1)", val)
			}
			cfg.DefaultRows = i
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "chart_width", "chart_height":
			i, err := strconv.Atoi(val)
			if err != nil || i < 16 {
				return fmt.Errorf("invalid size for %s: %v", key, val)
			}
			if key == "chart_width" {
				cfg.ChartWidth = i
			} else {
				cfg.ChartHeight = i
			}
		case "log_level":
			if _, err := zapcore.ParseLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
			cfg.LogLevel = strings.ToLower(val)
		case "datasets_url":
			cfg.DatasetsURL = val
		case "sidebar_about_app":
			cfg.SidebarAboutApp = val
		case "sidebar_about":
			cfg.SidebarAbout = val
		case "sidebar_footer":
			cfg.SidebarFooter = strings.Split(val, ";")
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
