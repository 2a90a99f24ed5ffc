package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/render"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Chart    ChartConfig    `yaml:"chart" envPrefix:"CHART_"`
	AWS      AWSConfig      `yaml:"aws" envPrefix:"AWS_"`
	Bluesky  BlueskyConfig  `yaml:"bluesky" envPrefix:"BLUESKY_"`
	Settings SettingsConfig `yaml:"settings"`
}

// ChartConfig holds rendering defaults applied to every chart.
type ChartConfig struct {
	Width       float64 `yaml:"width" env:"WIDTH"`
	Height      float64 `yaml:"height" env:"HEIGHT"`
	Scale       float64 `yaml:"scale" env:"SCALE"`
	Format      string  `yaml:"format" env:"FORMAT"`
	ValueFormat string  `yaml:"value_format" env:"VALUE_FORMAT"`
	FontPath    string  `yaml:"font_path" env:"FONT_PATH"`
	HideGrid    bool    `yaml:"hide_grid" env:"HIDE_GRID"`
	HideTooltip bool    `yaml:"hide_tooltip" env:"HIDE_TOOLTIP"`
}

// AWSConfig names the resources used by the Lambda deployment.
type AWSConfig struct {
	SeriesTable      string `yaml:"series_table" env:"SERIES_TABLE"`
	Bucket           string `yaml:"bucket" env:"BUCKET"`
	KeyPrefix        string `yaml:"key_prefix" env:"KEY_PREFIX"`
	RendererFunction string `yaml:"renderer_function" env:"RENDERER_FUNCTION"`
}

type BlueskyConfig struct {
	Handle   string `yaml:"handle" env:"HANDLE"`
	Password string `yaml:"password" env:"PASSWORD"`
}

type SettingsConfig struct {
	DryRun bool     `yaml:"dry_run" env:"DRY_RUN"`
	Charts []string `yaml:"charts" env:"CHARTS" envSeparator:","`
}

// ApplyTo fills the chart settings a document left unset
func (c ChartConfig) ApplyTo(cc *chart.Config) {
	if cc.Width <= 0 {
		cc.Width = c.Width
	}
	if cc.Height <= 0 {
		cc.Height = c.Height
	}
	if cc.ValueFormat == "" {
		cc.ValueFormat = c.ValueFormat
	}
	cc.HideGrid = cc.HideGrid || c.HideGrid
	cc.HideTooltip = cc.HideTooltip || c.HideTooltip
}

// RenderConfig returns the renderer style with the configured scale and font
func (c ChartConfig) RenderConfig() *render.Config {
	rc := render.DefaultConfig()
	if c.Scale > 0 {
		rc.Scale = c.Scale
	}
	if c.FontPath != "" {
		rc.FontPath = c.FontPath
	}
	return rc
}

// LoadConfig loads configuration from a YAML file, then applies environment overrides
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found. Please copy config.example.yaml to config.yaml and fill in your settings", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// LoadConfigFromEnv loads configuration from environment variables (fallback)
func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields whose environment variables are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate checks the values that have no sensible default
func (c *Config) Validate() error {
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return &ConfigError{Message: "chart width and height must not be negative"}
	}
	if c.Chart.Scale <= 0 {
		return &ConfigError{Message: "chart scale must be positive"}
	}
	switch c.Chart.Format {
	case "svg", "png":
	default:
		return &ConfigError{Message: "unsupported chart format", Details: []string{c.Chart.Format}}
	}

	var empty []string
	for _, id := range c.Settings.Charts {
		if strings.TrimSpace(id) == "" {
			empty = append(empty, id)
		}
	}
	if len(empty) > 0 {
		return &ConfigError{Message: "chart ids must not be empty", Details: empty}
	}
	return nil
}

// HasBlueskyCredentials reports whether a real handle and password are set
func (c *Config) HasBlueskyCredentials() bool {
	b := c.Bluesky
	return b.Handle != "" && b.Handle != "your-handle.bsky.social" &&
		b.Password != "" && b.Password != "your-app-password"
}

// ObjectKey joins the configured key prefix with name
func (c *Config) ObjectKey(name string) string {
	prefix := strings.Trim(c.AWS.KeyPrefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (c *Config) setDefaults() {
	if c.Chart.Scale == 0 {
		c.Chart.Scale = 4
	}
	if c.Chart.Format == "" {
		c.Chart.Format = "svg"
	}
	c.Chart.Format = strings.ToLower(c.Chart.Format)
	if c.AWS.KeyPrefix == "" {
		c.AWS.KeyPrefix = "charts"
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	// Try current directory first
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}

	// Try executable directory
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return "config.yaml"
}
