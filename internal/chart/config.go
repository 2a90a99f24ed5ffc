package chart

import "fmt"

// Logical canvas size. Renderers scale it to whatever surface they draw on.
const (
	DefaultWidth  = 280.0
	DefaultHeight = 75.0
)

// DefaultValueFormat formats headline and tooltip values.
const DefaultValueFormat = "%.1f"

// Stat is one entry of the summary statistics strip under the header.
type Stat struct {
	Label string `json:"label" yaml:"label" dynamodbav:"label"`
	Value string `json:"value" yaml:"value" dynamodbav:"value"`
}

// Config holds everything about a chart that stays fixed for one render.
type Config struct {
	Width         float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Height        float64  `json:"height,omitempty" yaml:"height,omitempty"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Icon          string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	HeadlineValue float64  `json:"headlineValue,omitempty" yaml:"headlineValue,omitempty"`
	DateLabel     string   `json:"dateLabel,omitempty" yaml:"dateLabel,omitempty"`
	Stats         []Stat   `json:"stats,omitempty" yaml:"stats,omitempty"`
	XLabels       []string `json:"xLabels,omitempty" yaml:"xLabels,omitempty"`
	YLabels       []string `json:"yLabels,omitempty" yaml:"yLabels,omitempty"`
	ValueFormat   string   `json:"valueFormat,omitempty" yaml:"valueFormat,omitempty"`
	HideGrid      bool     `json:"hideGrid,omitempty" yaml:"hideGrid,omitempty"`
	HideTooltip   bool     `json:"hideTooltip,omitempty" yaml:"hideTooltip,omitempty"`
}

// DefaultConfig returns a configuration for the standard 280 x 75 canvas.
func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		ValueFormat: DefaultValueFormat,
	}
}

// withDefaults fills unset dimensions and formats without touching the caller's copy.
func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.ValueFormat == "" {
		c.ValueFormat = DefaultValueFormat
	}
	return c
}

// FormatValue formats v with the configured value format.
func (c Config) FormatValue(v float64) string {
	format := c.ValueFormat
	if format == "" {
		format = DefaultValueFormat
	}
	return fmt.Sprintf(format, v)
}
