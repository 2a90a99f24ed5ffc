package render

import (
	"bytes"
	"fmt"
	"log"
	"math"

	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// PNGRenderer rasterises scenes with gg at Config.Scale pixels per logical unit.
type PNGRenderer struct {
	config *Config
}

// NewPNGRenderer creates a PNG renderer. A nil config uses DefaultConfig.
func NewPNGRenderer(config *Config) *PNGRenderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &PNGRenderer{config: config}
}

// ContentType is the MIME type of Render's output.
func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

// Size returns the pixel dimensions Render will produce for scene.
func (r *PNGRenderer) Size(scene chart.Scene) (int, int) {
	lay := r.config.layout(scene)
	return int(math.Ceil(lay.totalW * r.scale())), int(math.Ceil(lay.totalH * r.scale()))
}

// Render draws the scene and encodes it as PNG.
func (r *PNGRenderer) Render(scene chart.Scene) ([]byte, error) {
	cfg := r.config
	lay := cfg.layout(scene)
	w, h := r.Size(scene)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(parseColor(cfg.Background, 1))
	dc.Clear()
	r.loadFont(dc)

	if !scene.Header.Empty() {
		r.drawHeader(dc, scene, lay)
	}
	r.drawGrid(dc, scene, lay)
	r.drawPaths(dc, scene, lay)
	r.drawHover(dc, scene, lay)
	r.drawAxisLabels(dc, scene, lay)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PNGRenderer) scale() float64 {
	if r.config.Scale <= 0 {
		return 1
	}
	return r.config.Scale
}

// px converts logical units to pixels.
func (r *PNGRenderer) px(v float64) float64 {
	return v * r.scale()
}

func (r *PNGRenderer) loadFont(dc *gg.Context) {
	if r.config.FontPath != "" {
		err := dc.LoadFontFace(r.config.FontPath, r.px(r.config.FontSize))
		if err == nil {
			return
		}
		log.Printf("Failed to load font %s, using built-in face: %v", r.config.FontPath, err)
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// textScale sizes the loaded face to Config.FontSize. A TrueType face loaded at
// that size gives 1; the fixed 13px fallback face is scaled to match.
func (r *PNGRenderer) textScale(dc *gg.Context) float64 {
	h := dc.FontHeight()
	if h <= 0 {
		return 1
	}
	return r.px(r.config.FontSize) * 72 / 96 / h
}

// drawText draws s anchored at the logical point (x, y).
func (r *PNGRenderer) drawText(dc *gg.Context, s string, x, y, ax, ay float64) {
	px, py := r.px(x), r.px(y)
	k := r.textScale(dc)
	if math.Abs(k-1) < 1e-6 {
		dc.DrawStringAnchored(s, px, py, ax, ay)
		return
	}
	dc.Push()
	dc.ScaleAbout(k, k, px, py)
	dc.DrawStringAnchored(s, px, py, ax, ay)
	dc.Pop()
}

func (r *PNGRenderer) drawHeader(dc *gg.Context, scene chart.Scene, lay layout) {
	cfg := r.config
	h := scene.Header
	x := cfg.Padding
	y := cfg.Padding + cfg.FontSize

	if h.Icon != "" {
		// Icons are references the PNG backend cannot fetch; leave a placeholder dot.
		dc.SetColor(parseColor(cfg.MutedTextColor, 1))
		dc.DrawCircle(r.px(x+cfg.FontSize/2), r.px(y-cfg.FontSize/2), r.px(cfg.FontSize/2))
		dc.Fill()
		x += cfg.FontSize + 3
	}
	if h.Title != "" {
		dc.SetColor(parseColor(cfg.MutedTextColor, 1))
		r.drawText(dc, h.Title, x, y, 0, 0)
	}
	if h.DateLabel != "" {
		dc.SetColor(parseColor(cfg.MutedTextColor, 1))
		r.drawText(dc, h.DateLabel, lay.totalW-cfg.Padding, y, 1, 0)
	}
	if h.Headline != "" {
		dc.SetColor(parseColor(cfg.TextColor, 1))
		r.drawText(dc, h.Headline, cfg.Padding, y+cfg.FontSize*2+1, 0, 0)
	}
	if len(h.Stats) > 0 {
		statY := cfg.Padding + cfg.HeaderHeight - 3
		step := (lay.totalW - 2*cfg.Padding) / float64(len(h.Stats))
		for i, s := range h.Stats {
			dc.SetColor(parseColor(cfg.MutedTextColor, 1))
			r.drawText(dc, s.Label+" "+s.Value, cfg.Padding+float64(i)*step, statY, 0, 0)
		}
	}
}

func (r *PNGRenderer) drawGrid(dc *gg.Context, scene chart.Scene, lay layout) {
	dc.SetColor(parseColor(r.config.GridColor, 1))
	dc.SetLineWidth(r.px(0.25))
	for _, line := range scene.Grid {
		dc.DrawLine(
			r.px(lay.plotX+line.From.X), r.px(lay.plotY+line.From.Y),
			r.px(lay.plotX+line.To.X), r.px(lay.plotY+line.To.Y),
		)
		dc.Stroke()
	}
}

func (r *PNGRenderer) drawPaths(dc *gg.Context, scene chart.Scene, lay layout) {
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, p := range scene.Paths {
		if p.Path.Empty() {
			continue
		}
		dc.NewSubPath()
		dc.MoveTo(r.px(lay.plotX+p.Path.Start.X), r.px(lay.plotY+p.Path.Start.Y))
		for _, s := range p.Path.Segments {
			dc.CubicTo(
				r.px(lay.plotX+s.C1.X), r.px(lay.plotY+s.C1.Y),
				r.px(lay.plotX+s.C2.X), r.px(lay.plotY+s.C2.Y),
				r.px(lay.plotX+s.End.X), r.px(lay.plotY+s.End.Y),
			)
		}
		dc.SetColor(parseColor(p.Color, p.Opacity))
		dc.SetLineWidth(r.px(p.Width))
		dc.Stroke()
	}
}

func (r *PNGRenderer) drawHover(dc *gg.Context, scene chart.Scene, lay layout) {
	cfg := r.config
	if c := scene.Crosshair; c != nil {
		dc.SetColor(parseColor(cfg.CrosshairColor, 1))
		dc.SetLineWidth(r.px(0.5))
		dc.SetDash(r.px(2), r.px(2))
		dc.DrawLine(r.px(lay.plotX+c.From.X), r.px(lay.plotY+c.From.Y), r.px(lay.plotX+c.To.X), r.px(lay.plotY+c.To.Y))
		dc.Stroke()
		dc.SetDash()
	}

	for _, m := range scene.Markers {
		dc.DrawCircle(r.px(lay.plotX+m.Center.X), r.px(lay.plotY+m.Center.Y), r.px(m.Radius))
		dc.SetColor(parseColor(m.Color, 1))
		dc.FillPreserve()
		dc.SetColor(parseColor(cfg.Background, 1))
		dc.SetLineWidth(r.px(0.75))
		dc.Stroke()
	}

	tip := scene.Tooltip
	if tip == nil {
		return
	}
	box := cfg.tooltipBox(scene)
	bx, by := lay.plotX+box.x, lay.plotY+box.y
	dc.DrawRoundedRectangle(r.px(bx), r.px(by), r.px(box.w), r.px(box.h), r.px(1.5))
	dc.SetColor(parseColor(cfg.TooltipBackground, 0.95))
	dc.FillPreserve()
	dc.SetColor(parseColor(cfg.TooltipBorder, 1))
	dc.SetLineWidth(r.px(0.3))
	dc.Stroke()

	y := by + 1.5 + cfg.FontSize
	if tip.Label != "" {
		dc.SetColor(parseColor(cfg.MutedTextColor, 1))
		r.drawText(dc, tip.Label, bx+2, y, 0, 0)
		y += box.lineHeight
	}
	for _, row := range tip.Rows {
		dc.SetColor(parseColor(row.Color, 1))
		dc.DrawCircle(r.px(bx+3), r.px(y-cfg.FontSize/3), r.px(1.2))
		dc.Fill()

		textColor := cfg.MutedTextColor
		if row.Primary {
			textColor = cfg.TextColor
		}
		dc.SetColor(parseColor(textColor, 1))
		r.drawText(dc, rowName(row.Label, row.SeriesID), bx+5.5, y, 0, 0)
		r.drawText(dc, scene.FormatValue(row.Value), bx+box.w-2, y, 1, 0)
		y += box.lineHeight
	}
}

func (r *PNGRenderer) drawAxisLabels(dc *gg.Context, scene chart.Scene, lay layout) {
	cfg := r.config
	dc.SetColor(parseColor(cfg.MutedTextColor, 1))

	xs := axisPositions(len(scene.XLabels), lay.plotW)
	for i, label := range scene.XLabels {
		ax := 0.5
		switch anchorFor(i, len(xs)) {
		case "start":
			ax = 0
		case "end":
			ax = 1
		}
		r.drawText(dc, label, lay.plotX+xs[i], lay.plotY+lay.plotH+cfg.AxisLabelHeight-2, ax, 0)
	}

	ys := axisPositions(len(scene.YLabels), lay.plotH)
	for i, label := range scene.YLabels {
		r.drawText(dc, label, lay.plotX-2, lay.plotY+lay.plotH-ys[i], 1, 0.5)
	}
}
