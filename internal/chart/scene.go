package chart

import (
	"github.com/christophergentle/hourstats-chart/internal/curve"
	"github.com/christophergentle/hourstats-chart/internal/interpolate"
)

// Scene is one renderable frame in canvas units (Width x Height, origin top-left).
type Scene struct {
	Width   float64
	Height  float64
	Header  Header
	XLabels []string
	YLabels []string

	// Grid holds the horizontal guides, bottom to top.
	Grid []Line
	// Paths are in paint order; the primary series comes last.
	Paths []SeriesPath

	// Hover is the pointer position in percent, nil when the pointer is away.
	Hover     *float64
	Crosshair *Line
	Markers   []Marker
	Tooltip   *Tooltip

	format string
}

// Header carries the chart card text drawn above the plot.
type Header struct {
	Title     string
	Icon      string
	Headline  string
	DateLabel string
	Stats     []Stat
}

// Line is a straight stroke between two canvas points.
type Line struct {
	From, To curve.Point
}

// SeriesPath is one series' static curve with its stroke style.
type SeriesPath struct {
	SeriesID string
	Label    string
	Color    string
	Opacity  float64
	Width    float64
	Primary  bool
	Path     curve.Path
}

// Marker is the dot placed where the crosshair meets a series.
type Marker struct {
	SeriesID string
	Color    string
	Center   curve.Point
	Radius   float64
	Value    float64
	Primary  bool
}

// Tooltip lists every series' value at the hover position.
type Tooltip struct {
	// X is the pinned anchor in percent of the width.
	X      float64
	Anchor curve.Point
	Label  string
	Rows   []interpolate.Reading
}

// FormatValue formats a reading the way the chart config asks for.
func (s Scene) FormatValue(v float64) string {
	return Config{ValueFormat: s.format}.FormatValue(v)
}

// Interactive reports whether hover elements are present.
func (s Scene) Interactive() bool {
	return s.Hover != nil
}

// Empty reports whether there is no header text to draw.
func (h Header) Empty() bool {
	return h.Title == "" && h.Icon == "" && h.Headline == "" && h.DateLabel == "" && len(h.Stats) == 0
}
