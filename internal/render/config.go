// Package render turns a chart.Scene into bytes: an SVG document that scales to fit
// its container, or a PNG raster drawn with gg.
package render

import (
	"math"

	"github.com/christophergentle/hourstats-chart/internal/chart"
)

// Config holds the visual style shared by the SVG and PNG renderers. Sizes are in
// logical canvas units, the same units as the scene.
type Config struct {
	Padding         float64
	HeaderHeight    float64
	AxisLabelHeight float64
	AxisLabelWidth  float64
	FontSize        float64
	FontFamily      string
	// FontPath is a TrueType file for PNG text. The built-in bitmap face is used
	// when it is empty or fails to load.
	FontPath string
	// Scale is the PNG pixel density per logical unit.
	Scale float64

	Background        string
	GridColor         string
	TextColor         string
	MutedTextColor    string
	CrosshairColor    string
	TooltipBackground string
	TooltipBorder     string
	// TooltipWidth is a fraction of the plot width.
	TooltipWidth float64
}

// DefaultConfig returns the dark dashboard style.
func DefaultConfig() *Config {
	return &Config{
		Padding:           4,
		HeaderHeight:      26,
		AxisLabelHeight:   9,
		AxisLabelWidth:    16,
		FontSize:          5,
		FontFamily:        "Inter, Helvetica, Arial, sans-serif",
		Scale:             4,
		Background:        "#111827", // Near black
		GridColor:         "#374151", // Dark gray
		TextColor:         "#f9fafb", // Off white
		MutedTextColor:    "#9ca3af", // Mid gray
		CrosshairColor:    "#6b7280", // Gray
		TooltipBackground: "#1f2937",
		TooltipBorder:     "#4b5563",
		TooltipWidth:      0.2,
	}
}

// layout positions the plot inside the full document.
type layout struct {
	plotX, plotY   float64
	plotW, plotH   float64
	totalW, totalH float64
}

func (c *Config) layout(scene chart.Scene) layout {
	top := c.Padding
	if !scene.Header.Empty() {
		top += c.HeaderHeight
	}
	bottom := c.Padding
	if len(scene.XLabels) > 0 {
		bottom += c.AxisLabelHeight
	}
	left := c.Padding
	if len(scene.YLabels) > 0 {
		left += c.AxisLabelWidth
	}
	right := c.Padding

	return layout{
		plotX:  left,
		plotY:  top,
		plotW:  scene.Width,
		plotH:  scene.Height,
		totalW: left + scene.Width + right,
		totalH: top + scene.Height + bottom,
	}
}

// DocumentSize is the full document size in logical units, rounded up.
func (c *Config) DocumentSize(scene chart.Scene) (int, int) {
	lay := c.layout(scene)
	return int(math.Ceil(lay.totalW)), int(math.Ceil(lay.totalH))
}

// tooltipBox is the tooltip rectangle in plot coordinates.
type tooltipBox struct {
	x, y, w, h float64
	lineHeight float64
}

func (c *Config) tooltipBox(scene chart.Scene) tooltipBox {
	lineHeight := c.FontSize + 2
	w := scene.Width * c.TooltipWidth
	rows := len(scene.Tooltip.Rows)
	if scene.Tooltip.Label != "" {
		rows++
	}
	return tooltipBox{
		x:          scene.Tooltip.Anchor.X - w/2,
		y:          scene.Tooltip.Anchor.Y + 2,
		w:          w,
		h:          float64(rows)*lineHeight + 3,
		lineHeight: lineHeight,
	}
}

// axisPositions spreads n labels evenly across length.
func axisPositions(n int, length float64) []float64 {
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{length / 2}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1) * length
	}
	return out
}
