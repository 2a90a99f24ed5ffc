package render

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/curve"
)

// svgDecimals matches the precision of curve path data.
const svgDecimals = 3

// SVGRenderer writes scenes as standalone SVG documents. The viewBox is the logical
// canvas plus header and axis gutters, so the document scales to any container.
type SVGRenderer struct {
	config *Config
}

// NewSVGRenderer creates an SVG renderer. A nil config uses DefaultConfig.
func NewSVGRenderer(config *Config) *SVGRenderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &SVGRenderer{config: config}
}

// ContentType is the MIME type of Render's output.
func (r *SVGRenderer) ContentType() string {
	return "image/svg+xml"
}

// Render returns the scene as an SVG document.
func (r *SVGRenderer) Render(scene chart.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, scene); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the scene as an SVG document to w.
func (r *SVGRenderer) Write(w io.Writer, scene chart.Scene) error {
	cfg := r.config
	lay := cfg.layout(scene)
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Decimals = svgDecimals

	canvas.Start(lay.totalW, lay.totalH,
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(lay.totalW), num(lay.totalH)),
		`preserveAspectRatio="xMidYMid meet"`,
		attrs("font-family", cfg.FontFamily, "font-size", num(cfg.FontSize)),
	)
	if scene.Header.Title != "" {
		canvas.Title(scene.Header.Title)
	}
	canvas.Rect(0, 0, lay.totalW, lay.totalH, attrs("fill", cfg.Background))

	if !scene.Header.Empty() {
		r.writeHeader(canvas, scene, lay)
	}

	canvas.Translate(lay.plotX, lay.plotY)
	for _, line := range scene.Grid {
		canvas.Line(line.From.X, line.From.Y, line.To.X, line.To.Y,
			`class="grid"`, attrs("stroke", cfg.GridColor, "stroke-width", "0.25"))
	}
	for _, p := range scene.Paths {
		if p.Path.Empty() {
			continue
		}
		class := "series"
		if p.Primary {
			class += " primary"
		}
		canvas.Group(attrs("class", class, "data-series", p.SeriesID))
		if p.Label != "" {
			canvas.Title(p.Label)
		}
		canvas.Path(p.Path.D(), attrs(
			"fill", "none",
			"stroke", p.Color,
			"stroke-opacity", num(p.Opacity),
			"stroke-width", num(p.Width),
			"stroke-linecap", "round",
			"stroke-linejoin", "round",
		))
		canvas.Gend()
	}

	if c := scene.Crosshair; c != nil {
		canvas.Line(c.From.X, c.From.Y, c.To.X, c.To.Y, `class="crosshair"`,
			attrs("stroke", cfg.CrosshairColor, "stroke-width", "0.5", "stroke-dasharray", "2 2"))
	}
	for _, m := range scene.Markers {
		canvas.Circle(m.Center.X, m.Center.Y, m.Radius, `class="marker"`,
			attrs("data-series", m.SeriesID, "fill", m.Color, "stroke", cfg.Background, "stroke-width", "0.75"))
	}
	if scene.Tooltip != nil {
		r.writeTooltip(canvas, scene)
	}
	canvas.Gend()

	r.writeAxisLabels(canvas, scene, lay)

	canvas.End()
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func (r *SVGRenderer) writeHeader(canvas *svg.SVG, scene chart.Scene, lay layout) {
	cfg := r.config
	h := scene.Header
	x := cfg.Padding
	y := cfg.Padding + cfg.FontSize

	canvas.Group(`class="header"`)
	if h.Icon != "" {
		size := int(cfg.FontSize + 1)
		canvas.Image(x, cfg.Padding, size, size, attr(h.Icon), `class="icon"`)
		x += cfg.FontSize + 3
	}
	if h.Title != "" {
		canvas.Text(x, y, h.Title, `class="title"`, attrs("fill", cfg.MutedTextColor))
	}
	if h.DateLabel != "" {
		canvas.Text(lay.totalW-cfg.Padding, y, h.DateLabel, `class="date"`,
			attrs("text-anchor", "end", "fill", cfg.MutedTextColor))
	}
	if h.Headline != "" {
		canvas.Text(cfg.Padding, y+cfg.FontSize*2+1, h.Headline, `class="headline"`,
			attrs("font-size", num(cfg.FontSize*2), "font-weight", "bold", "fill", cfg.TextColor))
	}
	if len(h.Stats) > 0 {
		statY := cfg.Padding + cfg.HeaderHeight - 3
		step := (lay.totalW - 2*cfg.Padding) / float64(len(h.Stats))
		for i, s := range h.Stats {
			canvas.Textspan(cfg.Padding+float64(i)*step, statY, s.Label+" ", `class="stat"`,
				attrs("font-size", num(cfg.FontSize*0.8), "fill", cfg.MutedTextColor))
			canvas.Span(s.Value, attrs("fill", cfg.TextColor))
			canvas.TextEnd()
		}
	}
	canvas.Gend()
}

func (r *SVGRenderer) writeTooltip(canvas *svg.SVG, scene chart.Scene) {
	cfg := r.config
	tip := scene.Tooltip
	box := cfg.tooltipBox(scene)

	canvas.Group(`class="tooltip"`)
	canvas.Roundrect(box.x, box.y, box.w, box.h, 1.5, 1.5, attrs(
		"fill", cfg.TooltipBackground,
		"fill-opacity", "0.95",
		"stroke", cfg.TooltipBorder,
		"stroke-width", "0.3",
	))

	y := box.y + 1.5 + cfg.FontSize
	if tip.Label != "" {
		canvas.Text(box.x+2, y, tip.Label, attrs("fill", cfg.MutedTextColor))
		y += box.lineHeight
	}
	for _, row := range tip.Rows {
		weight, fill := "normal", cfg.MutedTextColor
		if row.Primary {
			weight, fill = "bold", cfg.TextColor
		}
		canvas.Circle(box.x+3, y-cfg.FontSize/3, 1.2, attrs("fill", row.Color))
		canvas.Text(box.x+5.5, y, rowName(row.Label, row.SeriesID), attrs("font-weight", weight, "fill", fill))
		canvas.Text(box.x+box.w-2, y, scene.FormatValue(row.Value),
			attrs("text-anchor", "end", "font-weight", weight, "fill", fill))
		y += box.lineHeight
	}
	canvas.Gend()
}

func (r *SVGRenderer) writeAxisLabels(canvas *svg.SVG, scene chart.Scene, lay layout) {
	cfg := r.config
	xs := axisPositions(len(scene.XLabels), lay.plotW)
	for i, label := range scene.XLabels {
		canvas.Text(lay.plotX+xs[i], lay.plotY+lay.plotH+cfg.AxisLabelHeight-2, label, `class="x-label"`,
			attrs("text-anchor", anchorFor(i, len(xs)), "fill", cfg.MutedTextColor))
	}
	ys := axisPositions(len(scene.YLabels), lay.plotH)
	for i, label := range scene.YLabels {
		canvas.Text(lay.plotX-2, lay.plotY+lay.plotH-ys[i], label, `class="y-label"`,
			attrs("text-anchor", "end", "dominant-baseline", "middle", "fill", cfg.MutedTextColor))
	}
}

// anchorFor keeps the outermost axis labels inside the document.
func anchorFor(i, n int) string {
	switch {
	case n == 1:
		return "middle"
	case i == 0:
		return "start"
	case i == n-1:
		return "end"
	default:
		return "middle"
	}
}

func rowName(label, id string) string {
	if label != "" {
		return label
	}
	return id
}

// num formats numbers svgo takes as preformatted attribute text.
func num(v float64) string {
	return curve.FormatNumber(v)
}

// attrs renders name/value pairs as one escaped attribute list. svgo writes
// attribute strings verbatim, so values from chart data are escaped here.
func attrs(kv ...string) string {
	parts := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		parts = append(parts, kv[i]+`="`+attr(kv[i+1])+`"`)
	}
	return strings.Join(parts, " ")
}

func attr(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", " ")
}
