// Package chart composes mapped curves, interpolated readings and hover state into
// a renderer-neutral Scene.
package chart

import (
	"github.com/christophergentle/hourstats-chart/internal/curve"
	"github.com/christophergentle/hourstats-chart/internal/interpolate"
	"github.com/christophergentle/hourstats-chart/internal/series"
)

// Grid lines are drawn at these percentages of the plot height.
var gridLevels = [...]float64{0, 25, 50, 75, 100}

// Tooltip anchors are pinned to this range, in percent of the width, so the box
// never clips at the chart edges.
const (
	tooltipMinX = 10.0
	tooltipMaxX = 80.0
)

// Marker radii in canvas units.
const (
	MarkerRadius        = 2.5
	PrimaryMarkerRadius = 3.5
)

// View owns one chart's series, configuration and pointer state. It is driven by a
// single event loop; calls must not run concurrently.
type View struct {
	config Config
	series []series.Series
	paths  []SeriesPath
	hover  *float64
}

// NewView builds the static geometry for all series. A nil config uses DefaultConfig.
// The series slice is kept, not copied, and must not be modified while the view is
// in use.
func NewView(config *Config, all []series.Series) *View {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := config.withDefaults()

	order := series.DrawOrder(all)
	primary := series.PrimaryIndex(all)
	paths := make([]SeriesPath, 0, len(order))
	for _, i := range order {
		s := all[i]
		paths = append(paths, SeriesPath{
			SeriesID: s.ID,
			Label:    s.Label,
			Color:    s.Color,
			Opacity:  s.LineOpacity,
			Width:    s.LineWidth,
			Primary:  i == primary,
			Path:     curve.BuildSmoothPath(s.Data, cfg.Width, cfg.Height),
		})
	}

	return &View{
		config: cfg,
		series: all,
		paths:  paths,
	}
}

// Config returns the effective configuration, defaults applied.
func (v *View) Config() Config {
	return v.config
}

// PointerMove records the pointer at clientX over a surface whose left edge is at
// left and which is width units wide. The position is stored as a percentage of the
// width clamped to [0,100]. A surface with no width is ignored.
func (v *View) PointerMove(clientX, left, width float64) {
	if width <= 0 {
		return
	}
	v.SetHover((clientX - left) / width * 100)
}

// PointerLeave clears the hover state.
func (v *View) PointerLeave() {
	v.hover = nil
}

// SetHover sets the hover position directly, clamped to [0,100].
func (v *View) SetHover(x float64) {
	x = min(max(x, 0), 100)
	v.hover = &x
}

// Hover returns the current hover position and whether there is one.
func (v *View) Hover() (float64, bool) {
	if v.hover == nil {
		return 0, false
	}
	return *v.hover, true
}

// Scene describes the current frame. Hover-only elements are nil or empty when the
// pointer is not over the chart. Each frame gets its own Paths slice; the path
// geometry inside it is shared with the view and must be treated as read-only.
func (v *View) Scene() Scene {
	cfg := v.config
	scene := Scene{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Header:  v.header(),
		XLabels: cfg.XLabels,
		YLabels: cfg.YLabels,
		Paths:   append([]SeriesPath(nil), v.paths...),
		format:  cfg.ValueFormat,
	}

	if !cfg.HideGrid {
		scene.Grid = make([]Line, 0, len(gridLevels))
		for _, level := range gridLevels {
			y := curve.ToPixel(series.DataPoint{Y: level}, cfg.Width, cfg.Height).Y
			scene.Grid = append(scene.Grid, Line{
				From: curve.Point{X: 0, Y: y},
				To:   curve.Point{X: cfg.Width, Y: y},
			})
		}
	}

	x, ok := v.Hover()
	if !ok {
		return scene
	}

	hover := x
	scene.Hover = &hover
	px := x / 100 * cfg.Width
	scene.Crosshair = &Line{
		From: curve.Point{X: px, Y: 0},
		To:   curve.Point{X: px, Y: cfg.Height},
	}

	primary := series.PrimaryIndex(v.series)
	scene.Markers = make([]Marker, 0, len(v.series))
	for _, i := range series.DrawOrder(v.series) {
		s := v.series[i]
		value := interpolate.ValueAt(s.Data, x)
		radius := MarkerRadius
		if i == primary {
			radius = PrimaryMarkerRadius
		}
		scene.Markers = append(scene.Markers, Marker{
			SeriesID: s.ID,
			Color:    s.Color,
			Center:   curve.ToPixel(series.DataPoint{X: x, Y: value}, cfg.Width, cfg.Height),
			Radius:   radius,
			Value:    value,
			Primary:  i == primary,
		})
	}

	if !cfg.HideTooltip {
		pinned := min(max(x, tooltipMinX), tooltipMaxX)
		scene.Tooltip = &Tooltip{
			X:      pinned,
			Anchor: curve.Point{X: pinned / 100 * cfg.Width, Y: 0},
			Label:  interpolate.LabelAt(v.series, x),
			Rows:   interpolate.ValuesAt(v.series, x),
		}
	}

	return scene
}

func (v *View) header() Header {
	cfg := v.config
	h := Header{
		Title:     cfg.Title,
		Icon:      cfg.Icon,
		DateLabel: cfg.DateLabel,
		Stats:     cfg.Stats,
	}
	if cfg.Title != "" || cfg.HeadlineValue != 0 {
		h.Headline = cfg.FormatValue(cfg.HeadlineValue)
	}
	return h
}
