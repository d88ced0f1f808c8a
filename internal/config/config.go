package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DatasetsDir string `mapstructure:"datasets_dir" yaml:"datasets_dir"`
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	// Rows shown by "Show Dataset" before the viewer picks a number.
	DefaultRows int `mapstructure:"default_rows" yaml:"default_rows"`
	// MaxRows truncates loaded datasets; 0 loads everything.
	MaxRows     int    `mapstructure:"max_rows" yaml:"max_rows"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	// Sidebar
	SidebarAboutApp string   `mapstructure:"sidebar_about_app" yaml:"sidebar_about_app"`
	SidebarAbout    string   `mapstructure:"sidebar_about" yaml:"sidebar_about"`
	SidebarFooter   []string `mapstructure:"sidebar_footer" yaml:"sidebar_footer"`
	DatasetsURL     string   `mapstructure:"datasets_url" yaml:"datasets_url"`
}

// Dir returns ~/.mlexplorer.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mlexplorer"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.mlexplorer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MLEXPLORER")
	v.AutomaticEnv()

	v.SetDefault("datasets_dir", "./datasets")
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("default_rows", 5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 480)
	v.SetDefault("log_level", "info")
	v.SetDefault("sidebar_about_app", "A Simple EDA App for Exploring Common ML Dataset")
	v.SetDefault("sidebar_about", "This app allows you to easily explore and visualize your data, helping you to gain insights and understand trends.")
	v.SetDefault("sidebar_footer", []string{"Built with Go"})
	v.SetDefault("datasets_url", "https://archive.ics.uci.edu/datasets")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file leaves defaults and env in effect
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DefaultRows < 1 {
		c.DefaultRows = 1
	}
	return &c, nil
}
