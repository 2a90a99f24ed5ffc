package render

import (
	"fmt"
	"strings"

	"github.com/christophergentle/hourstats-chart/internal/chart"
)

// Renderer encodes a scene in one output format.
type Renderer interface {
	Render(scene chart.Scene) ([]byte, error)
	ContentType() string
}

// Output formats understood by ForFormat.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ForFormat returns the renderer for "svg" or "png".
func ForFormat(format string, config *Config) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatSVG, "":
		return NewSVGRenderer(config), nil
	case FormatPNG:
		return NewPNGRenderer(config), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (must be svg or png)", format)
	}
}

// Extension returns the file extension for a format, dot included.
func Extension(format string) string {
	if strings.ToLower(format) == FormatPNG {
		return ".png"
	}
	return ".svg"
}
