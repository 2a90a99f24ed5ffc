// Package curve maps normalized series data onto a logical canvas and fits a smooth
// cubic path through it.
package curve

import (
	"strconv"
	"strings"

	"github.com/christophergentle/hourstats-chart/internal/series"
)

// Point is a position in canvas units, origin top-left.
type Point struct {
	X, Y float64
}

// Segment is one cubic Bézier piece that starts where the previous one ended.
type Segment struct {
	C1, C2, End Point
}

// Path is a continuous run of cubic segments starting at Start.
type Path struct {
	Start    Point
	Segments []Segment
}

// ToPixel maps a normalized point onto a width x height canvas. The y axis is
// inverted so larger values sit nearer the top. Inputs outside [0,100] are not
// clamped and land outside the canvas.
func ToPixel(p series.DataPoint, width, height float64) Point {
	return Point{
		X: p.X / 100 * width,
		Y: height - p.Y/100*height,
	}
}

// BuildSmoothPath fits a Catmull-Rom equivalent curve through points. The first and
// last samples stand in for their own missing neighbours, so the curve never
// overshoots past either end. Fewer than two points give an empty path.
func BuildSmoothPath(points []series.DataPoint, width, height float64) Path {
	n := len(points)
	if n < 2 {
		return Path{}
	}

	px := make([]Point, n)
	for i, p := range points {
		px[i] = ToPixel(p, width, height)
	}

	path := Path{Start: px[0], Segments: make([]Segment, 0, n-1)}
	for i := 0; i < n-1; i++ {
		p0 := px[max(i-1, 0)]
		p1 := px[i]
		p2 := px[i+1]
		p3 := px[min(i+2, n-1)]

		path.Segments = append(path.Segments, Segment{
			C1:  Point{X: p1.X + (p2.X-p0.X)/6, Y: p1.Y + (p2.Y-p0.Y)/6},
			C2:  Point{X: p2.X - (p3.X-p1.X)/6, Y: p2.Y - (p3.Y-p1.Y)/6},
			End: p2,
		})
	}
	return path
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// D renders the path as SVG path data, e.g. "M0,75 C15,60 30,45 45,30".
func (p Path) D() string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	b.Grow(8 + len(p.Segments)*40)
	b.WriteString("M")
	writePoint(&b, p.Start)
	for _, s := range p.Segments {
		b.WriteString(" C")
		writePoint(&b, s.C1)
		b.WriteByte(' ')
		writePoint(&b, s.C2)
		b.WriteByte(' ')
		writePoint(&b, s.End)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(FormatNumber(p.X))
	b.WriteByte(',')
	b.WriteString(FormatNumber(p.Y))
}

// FormatNumber prints a coordinate with at most three decimals and no trailing zeros.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
