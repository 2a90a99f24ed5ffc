package curve

import (
	"math"
	"testing"

	"github.com/christophergentle/hourstats-chart/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestToPixel(t *testing.T) {
	tests := []struct {
		name string
		in   series.DataPoint
		want Point
	}{
		{name: "origin maps to bottom-left", in: series.DataPoint{X: 0, Y: 0}, want: Point{X: 0, Y: 75}},
		{name: "max maps to top-right", in: series.DataPoint{X: 100, Y: 100}, want: Point{X: 280, Y: 0}},
		{name: "midpoint", in: series.DataPoint{X: 50, Y: 50}, want: Point{X: 140, Y: 37.5}},
		{name: "out of range is not clamped", in: series.DataPoint{X: 150, Y: -20}, want: Point{X: 420, Y: 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPixel(tt.in, 280, 75)
			assert.InDelta(t, tt.want.X, got.X, eps)
			assert.InDelta(t, tt.want.Y, got.Y, eps)
		})
	}
}

func TestBuildSmoothPathDegenerate(t *testing.T) {
	assert.True(t, BuildSmoothPath(nil, 280, 75).Empty())
	assert.True(t, BuildSmoothPath([]series.DataPoint{{X: 10, Y: 10}}, 280, 75).Empty())
	assert.Equal(t, "", BuildSmoothPath(nil, 280, 75).D())
}

func TestBuildSmoothPathTwoPointsIsStraight(t *testing.T) {
	path := BuildSmoothPath([]series.DataPoint{{X: 0, Y: 0}, {X: 100, Y: 100}}, 300, 300)
	require.Len(t, path.Segments, 1)

	seg := path.Segments[0]
	assert.Equal(t, Point{X: 0, Y: 300}, path.Start)
	assert.Equal(t, Point{X: 300, Y: 0}, seg.End)

	// Both control points sit on the line x + y = 300 between the endpoints.
	for _, c := range []Point{seg.C1, seg.C2} {
		assert.InDelta(t, 300, c.X+c.Y, eps)
		assert.True(t, c.X >= 0 && c.X <= 300, "control point %v outside segment", c)
	}
	assert.InDelta(t, 50, seg.C1.X, eps)
	assert.InDelta(t, 250, seg.C2.X, eps)
}

func TestBuildSmoothPathControlPoints(t *testing.T) {
	pts := []series.DataPoint{{X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 0}}
	path := BuildSmoothPath(pts, 100, 100)
	require.Len(t, path.Segments, 2)

	// p0=(0,100) p1=(0,100) p2=(50,0) p3=(100,100)
	first := path.Segments[0]
	assert.InDelta(t, 50.0/6, first.C1.X, eps)
	assert.InDelta(t, 100-100.0/6, first.C1.Y, eps)
	assert.InDelta(t, 50-100.0/6, first.C2.X, eps)
	assert.InDelta(t, 0, first.C2.Y, eps)
	assert.Equal(t, Point{X: 50, Y: 0}, first.End)

	// p0=(0,100) p1=(50,0) p2=(100,100) p3=(100,100)
	second := path.Segments[1]
	assert.InDelta(t, 50+100.0/6, second.C1.X, eps)
	assert.InDelta(t, 0, second.C1.Y, eps)
	assert.InDelta(t, 100-50.0/6, second.C2.X, eps)
	assert.InDelta(t, 100-100.0/6, second.C2.Y, eps)
}

func TestBuildSmoothPathPassesThroughSamples(t *testing.T) {
	pts := []series.DataPoint{{X: 0, Y: 20}, {X: 25, Y: 80}, {X: 60, Y: 40}, {X: 100, Y: 90}}
	path := BuildSmoothPath(pts, 280, 75)
	require.Len(t, path.Segments, len(pts)-1)

	assert.Equal(t, ToPixel(pts[0], 280, 75), path.Start)
	for i, seg := range path.Segments {
		assert.Equal(t, ToPixel(pts[i+1], 280, 75), seg.End)
	}
}

func TestPathD(t *testing.T) {
	path := BuildSmoothPath([]series.DataPoint{{X: 0, Y: 0}, {X: 100, Y: 100}}, 300, 300)
	assert.Equal(t, "M0,300 C50,250 250,50 300,0", path.D())
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		0:            "0",
		100:          "100",
		37.5:         "37.5",
		1.0 / 3:      "0.333",
		-0.0001:      "0",
		-12.25:       "-12.25",
		math.Pi * 10: "31.416",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%v)", in)
	}
}
