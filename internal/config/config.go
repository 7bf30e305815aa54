// Package config handles configuration loading for heidash.
// It supports YAML config files with environment variable overrides and
// an optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/heiportal/heidash/internal/chart"
)

// EnvPrefix prefixes every environment override, e.g. HEIDASH_API_PORT.
const EnvPrefix = "HEIDASH"

// Config represents the complete application configuration.
type Config struct {
	API        APIConfig     `mapstructure:"api"     yaml:"api"     json:"api"`
	Chart      ChartConfig   `mapstructure:"chart"   yaml:"chart"   json:"chart"`
	Logging    LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	ConfigFile string        `mapstructure:"-"       yaml:"-"       json:"config_file,omitempty"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host             string   `mapstructure:"host"               yaml:"host"               json:"host"`
	Port             int      `mapstructure:"port"               yaml:"port"               json:"port"`
	CORSOrigins      []string `mapstructure:"cors_origins"       yaml:"cors_origins"       json:"cors_origins"`
	RenderTimeoutSec int      `mapstructure:"render_timeout_sec" yaml:"render_timeout_sec" json:"render_timeout_sec"`
	BatchConcurrency int      `mapstructure:"batch_concurrency"  yaml:"batch_concurrency"  json:"batch_concurrency"`
	SVGCacheTTLSec   int      `mapstructure:"svg_cache_ttl_sec"  yaml:"svg_cache_ttl_sec"  json:"svg_cache_ttl_sec"` // 0 disables
	SVGCacheSize     int      `mapstructure:"svg_cache_size"     yaml:"svg_cache_size"     json:"svg_cache_size"`
}

// Addr returns host:port.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// ChartConfig holds donut rendering defaults.
type ChartConfig struct {
	Width             int     `mapstructure:"width"               yaml:"width"               json:"width"`
	Height            int     `mapstructure:"height"              yaml:"height"              json:"height"`
	Radius            float64 `mapstructure:"radius"              yaml:"radius"              json:"radius"`
	InnerRadius       float64 `mapstructure:"inner_radius"        yaml:"inner_radius"        json:"inner_radius"`
	StartOffset       float64 `mapstructure:"start_offset"        yaml:"start_offset"        json:"start_offset"`
	MinVisiblePercent float64 `mapstructure:"min_visible_percent" yaml:"min_visible_percent" json:"min_visible_percent"`
	PercentPrecision  int     `mapstructure:"percent_precision"   yaml:"percent_precision"   json:"percent_precision"`
	GradientPrefix    string  `mapstructure:"gradient_prefix"     yaml:"gradient_prefix"     json:"gradient_prefix"`
	EmptyMessage      string  `mapstructure:"empty_message"       yaml:"empty_message"       json:"empty_message"`
	EmptySubtext      string  `mapstructure:"empty_subtext"       yaml:"empty_subtext"       json:"empty_subtext"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// ChartOptions turns the chart section into render options for the
// default categories, centered on the configured surface.
func (c *Config) ChartOptions() chart.Options {
	opts := chart.DefaultOptions()
	cc := c.Chart
	if cc.Width > 0 && cc.Height > 0 {
		opts.Geometry.Width = cc.Width
		opts.Geometry.Height = cc.Height
		opts.Geometry.CX = float64(cc.Width) / 2
		opts.Geometry.CY = float64(cc.Height) / 2
	}
	if cc.Radius > 0 {
		opts.Geometry.Radius = cc.Radius
	}
	switch {
	case cc.InnerRadius >= 0 && cc.InnerRadius < opts.Geometry.Radius:
		opts.Geometry.InnerRadius = cc.InnerRadius
	case opts.Geometry.InnerRadius >= opts.Geometry.Radius:
		// keep the default ring proportions
		opts.Geometry.InnerRadius = opts.Geometry.Radius * 2 / 3
	}
	opts.Geometry.StartOffset = cc.StartOffset
	// 0 keeps the default; chart.NoVisibilityFilter and chart.WholePercent
	// pass through.
	if cc.MinVisiblePercent != 0 {
		opts.MinVisiblePercent = cc.MinVisiblePercent
	}
	if cc.PercentPrecision != 0 {
		opts.PercentPrecision = cc.PercentPrecision
	}
	if cc.GradientPrefix != "" {
		opts.GradientPrefix = cc.GradientPrefix
	}
	if cc.EmptyMessage != "" {
		opts.EmptyMessage = cc.EmptyMessage
	}
	if cc.EmptySubtext != "" {
		opts.EmptySubtext = cc.EmptySubtext
	}
	return opts
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.heidash/config.yaml (home directory)
//  3. /etc/heidash/config.yaml (system)
//
// Environment variables override config file values.
// Format: HEIDASH_<SECTION>_<KEY>, e.g., HEIDASH_API_PORT
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".heidash"))
	v.AddConfigPath("/etc/heidash")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.render_timeout_sec", 10)
	v.SetDefault("api.batch_concurrency", 4)
	v.SetDefault("api.svg_cache_ttl_sec", 60)
	v.SetDefault("api.svg_cache_size", 512)

	// Chart defaults mirror chart.DefaultOptions
	g := chart.DefaultGeometry()
	v.SetDefault("chart.width", g.Width)
	v.SetDefault("chart.height", g.Height)
	v.SetDefault("chart.radius", g.Radius)
	v.SetDefault("chart.inner_radius", g.InnerRadius)
	v.SetDefault("chart.start_offset", g.StartOffset)
	v.SetDefault("chart.min_visible_percent", chart.MinVisiblePercent)
	v.SetDefault("chart.percent_precision", chart.PercentPrecision)
	v.SetDefault("chart.gradient_prefix", chart.DefaultGradientPrefix)
	v.SetDefault("chart.empty_message", chart.DefaultEmptyMessage)
	v.SetDefault("chart.empty_subtext", chart.DefaultEmptySubtext)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// loadDotEnv loads KEY=VALUE pairs from path into the process
// environment. Variables already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
