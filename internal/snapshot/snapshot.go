// Package snapshot turns a chart document into rendered bytes using the configured
// chart defaults. The CLI and every Lambda go through it.
package snapshot

import (
	"fmt"
	"strings"

	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/render"
	"github.com/christophergentle/hourstats-chart/internal/source"
)

// Snapshot is one rendered frame of a chart.
type Snapshot struct {
	Body        []byte
	ContentType string
	Extension   string
	// Width and Height are the output size: pixels for PNG, viewBox units for SVG.
	Width  int
	Height int
	Scene  chart.Scene
	// Chart is the document's chart settings with the configured defaults applied.
	Chart chart.Config
}

// Options adjusts a single render.
type Options struct {
	// Format overrides the configured format when set.
	Format string
	// HoverX, when set, replaces whatever the document's pointer events left behind.
	HoverX *float64
}

// Render applies defaults to the document's chart settings, replays its pointer
// events and renders the resulting scene.
func Render(doc *source.Document, defaults config.ChartConfig, opts Options) (*Snapshot, error) {
	if doc == nil || len(doc.Series) == 0 {
		return nil, fmt.Errorf("chart document has no series")
	}

	format := defaults.Format
	if opts.Format != "" {
		format = opts.Format
	}
	format = strings.ToLower(format)

	cc := doc.Chart
	defaults.ApplyTo(&cc)
	applied := *doc
	applied.Chart = cc

	view := applied.View()
	if opts.HoverX != nil {
		view.SetHover(*opts.HoverX)
	}
	scene := view.Scene()

	rc := defaults.RenderConfig()
	r, err := render.ForFormat(format, rc)
	if err != nil {
		return nil, err
	}
	body, err := r.Render(scene)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	snap := &Snapshot{
		Body:        body,
		ContentType: r.ContentType(),
		Extension:   render.Extension(format),
		Scene:       scene,
		Chart:       cc,
	}
	if png, ok := r.(*render.PNGRenderer); ok {
		snap.Width, snap.Height = png.Size(scene)
	} else {
		snap.Width, snap.Height = rc.DocumentSize(scene)
	}
	return snap, nil
}
