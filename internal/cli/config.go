package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/pipeline"
	"github.com/matzehuels/salesmap/pkg/render/legend"
)

// envPrefix scopes environment overrides, e.g. SALESMAP_CANVAS_WIDTH.
const envPrefix = "SALESMAP"

// Config holds file and environment configuration. Command flags override it.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Canvas  CanvasConfig  `mapstructure:"canvas"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Legend  LegendConfig  `mapstructure:"legend"`
}

// DatasetConfig holds dataset fetch settings.
type DatasetConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// CanvasConfig holds treemap layout settings.
type CanvasConfig struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	PaddingOuter float64 `mapstructure:"padding_outer"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	RedisURL  string        `mapstructure:"redis_url"`
	KeyPrefix string        `mapstructure:"key_prefix"` // separates deployments sharing one Redis
	Dir       string        `mapstructure:"dir"`
}

// ServerConfig holds serve command settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LegendConfig points at an optional TOML label file.
type LegendConfig struct {
	LabelsFile string `mapstructure:"labels_file"`
}

// LoadConfig reads salesmap.yaml and SALESMAP_* environment variables.
// An explicit path must exist; otherwise a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig returns the built-in defaults, ignoring files and env.
func DefaultConfig() *Config {
	v := viper.New()
	setConfigDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("dataset.url", dataset.DefaultURL)
	v.SetDefault("dataset.timeout", 10*time.Second)
	v.SetDefault("dataset.retries", 3)

	v.SetDefault("canvas.width", pipeline.DefaultWidth)
	v.SetDefault("canvas.height", pipeline.DefaultHeight)
	v.SetDefault("canvas.padding_outer", 0.0)

	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "")
	v.SetDefault("cache.dir", "")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("legend.labels_file", "")
}

// configDir returns $XDG_CONFIG_HOME/salesmap (~/.config/salesmap).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// applyConfig fills pipeline options from cfg wherever the matching flag
// was not set on the command line.
func applyConfig(cmd *cobra.Command, cfg *Config, opts *pipeline.Options, labelsFile string) error {
	flags := cmd.Flags()
	if !flags.Changed("url") && opts.Input == "" {
		opts.URL = cfg.Dataset.URL
	}
	if !flags.Changed("width") {
		opts.Width = cfg.Canvas.Width
	}
	if !flags.Changed("height") {
		opts.Height = cfg.Canvas.Height
	}
	if !flags.Changed("padding") {
		opts.PaddingOuter = cfg.Canvas.PaddingOuter
	}
	if labelsFile == "" {
		labelsFile = cfg.Legend.LabelsFile
	}
	if labelsFile != "" {
		labels, err := legend.LoadLabels(labelsFile)
		if err != nil {
			return err
		}
		opts.Labels = labels
	}
	return nil
}
