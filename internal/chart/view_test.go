package chart

import (
	"testing"

	"github.com/christophergentle/hourstats-chart/internal/curve"
	"github.com/christophergentle/hourstats-chart/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() []series.Series {
	grid := []float64{0, 50, 100}
	build := func(labels bool, ys ...float64) []series.DataPoint {
		pts := make([]series.DataPoint, len(grid))
		for i, x := range grid {
			pts[i] = series.DataPoint{X: x, Y: ys[i]}
			if labels {
				pts[i].Label = []string{"Mon", "Tue", "Wed"}[i]
			}
		}
		return pts
	}
	return []series.Series{
		{ID: "secondary", Label: "Previous", Color: "#888888", LineOpacity: 0.5, LineWidth: 1, Data: build(false, 5, 15, 25)},
		{ID: "primary", Label: "Current", Color: "#ffffff", LineOpacity: 1, LineWidth: 2, IsPrimary: true, Data: build(true, 10, 20, 30)},
		{ID: "baseline", Label: "Baseline", Color: "#444444", LineOpacity: 0.3, LineWidth: 1, Data: build(false, 50, 50, 50)},
	}
}

func TestNewViewDefaults(t *testing.T) {
	v := NewView(nil, nil)
	cfg := v.Config()
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, DefaultValueFormat, cfg.ValueFormat)

	v = NewView(&Config{Width: 400}, nil)
	assert.Equal(t, 400.0, v.Config().Width)
	assert.Equal(t, DefaultHeight, v.Config().Height)
}

func TestPointerMoveClampsAndLeaveClears(t *testing.T) {
	v := NewView(nil, testSeries())

	_, ok := v.Hover()
	require.False(t, ok, "new view must not have hover state")

	tests := []struct {
		name    string
		clientX float64
		want    float64
	}{
		{name: "inside", clientX: 150, want: 50},
		{name: "left edge", clientX: 100, want: 0},
		{name: "left of surface", clientX: 20, want: 0},
		{name: "right of surface", clientX: 900, want: 100},
		{name: "quarter", clientX: 125, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.PointerMove(tt.clientX, 100, 100)
			got, ok := v.Hover()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	v.PointerLeave()
	_, ok = v.Hover()
	assert.False(t, ok)
}

func TestPointerMoveIgnoresZeroWidth(t *testing.T) {
	v := NewView(nil, testSeries())
	v.PointerMove(10, 0, 0)
	_, ok := v.Hover()
	assert.False(t, ok)
}

func TestSceneStaticElements(t *testing.T) {
	v := NewView(nil, testSeries())
	scene := v.Scene()

	require.Len(t, scene.Grid, 5)
	assert.Equal(t, Line{From: curve.Point{X: 0, Y: 75}, To: curve.Point{X: 280, Y: 75}}, scene.Grid[0])
	assert.Equal(t, Line{From: curve.Point{X: 0, Y: 0}, To: curve.Point{X: 280, Y: 0}}, scene.Grid[4])

	require.Len(t, scene.Paths, 3)
	ids := []string{scene.Paths[0].SeriesID, scene.Paths[1].SeriesID, scene.Paths[2].SeriesID}
	assert.Equal(t, []string{"baseline", "secondary", "primary"}, ids)
	assert.True(t, scene.Paths[2].Primary)
	assert.False(t, scene.Paths[0].Primary)
	assert.Equal(t, 0.5, scene.Paths[1].Opacity)
	for _, p := range scene.Paths {
		assert.Len(t, p.Path.Segments, 2)
	}

	assert.False(t, scene.Interactive())
	assert.Nil(t, scene.Crosshair)
	assert.Nil(t, scene.Tooltip)
	assert.Empty(t, scene.Markers)
}

func TestSceneHoverElements(t *testing.T) {
	v := NewView(nil, testSeries())
	v.SetHover(50)
	scene := v.Scene()

	require.True(t, scene.Interactive())
	require.NotNil(t, scene.Crosshair)
	assert.Equal(t, Line{From: curve.Point{X: 140, Y: 0}, To: curve.Point{X: 140, Y: 75}}, *scene.Crosshair)

	require.Len(t, scene.Markers, 3)
	last := scene.Markers[2]
	assert.Equal(t, "primary", last.SeriesID)
	assert.Equal(t, 20.0, last.Value)
	assert.Equal(t, PrimaryMarkerRadius, last.Radius)
	assert.InDelta(t, 60, last.Center.Y, 1e-9)
	assert.Equal(t, MarkerRadius, scene.Markers[0].Radius)

	require.NotNil(t, scene.Tooltip)
	assert.Equal(t, "Tue", scene.Tooltip.Label)
	assert.Equal(t, 50.0, scene.Tooltip.X)

	values := map[string]float64{}
	for _, row := range scene.Tooltip.Rows {
		values[row.SeriesID] = row.Value
		assert.Equal(t, row.SeriesID == "primary", row.Primary)
	}
	assert.Equal(t, map[string]float64{"primary": 20, "secondary": 15, "baseline": 50}, values)
}

func TestSceneTooltipPinned(t *testing.T) {
	v := NewView(nil, testSeries())

	v.SetHover(2)
	scene := v.Scene()
	require.NotNil(t, scene.Tooltip)
	assert.Equal(t, 10.0, scene.Tooltip.X)
	assert.Equal(t, 28.0, scene.Tooltip.Anchor.X)
	assert.InDelta(t, 5.6, scene.Crosshair.From.X, 1e-9)

	v.SetHover(97)
	scene = v.Scene()
	assert.Equal(t, 80.0, scene.Tooltip.X)
	assert.Equal(t, 224.0, scene.Tooltip.Anchor.X)
}

func TestSceneAfterLeaveOmitsHoverElements(t *testing.T) {
	v := NewView(nil, testSeries())
	v.PointerMove(30, 0, 100)
	require.True(t, v.Scene().Interactive())

	v.PointerLeave()
	scene := v.Scene()
	assert.Nil(t, scene.Hover)
	assert.Nil(t, scene.Crosshair)
	assert.Nil(t, scene.Tooltip)
	assert.Nil(t, scene.Markers)
}

func TestSceneOptionsAndHeader(t *testing.T) {
	cfg := &Config{
		Title:         "Portfolio",
		HeadlineValue: 1234.5,
		ValueFormat:   "$%.2f",
		DateLabel:     "Oct 18",
		Stats:         []Stat{{Label: "High", Value: "$1,300"}},
		HideGrid:      true,
		HideTooltip:   true,
	}
	v := NewView(cfg, testSeries())
	v.SetHover(40)
	scene := v.Scene()

	assert.Nil(t, scene.Grid)
	assert.Nil(t, scene.Tooltip)
	assert.Len(t, scene.Markers, 3)
	assert.Equal(t, "Portfolio", scene.Header.Title)
	assert.Equal(t, "$1234.50", scene.Header.Headline)
	assert.Equal(t, "$20.00", scene.FormatValue(20))
	assert.Equal(t, cfg.Stats, scene.Header.Stats)
}

func TestSceneSkipsNothingForShortSeries(t *testing.T) {
	all := []series.Series{
		{ID: "empty", LineWidth: 1, LineOpacity: 1},
		{ID: "single", LineWidth: 1, LineOpacity: 1, Data: []series.DataPoint{{X: 40, Y: 60}}},
	}
	v := NewView(nil, all)
	v.SetHover(90)
	scene := v.Scene()

	require.Len(t, scene.Paths, 2)
	for _, p := range scene.Paths {
		assert.True(t, p.Path.Empty())
	}
	require.Len(t, scene.Markers, 2)
	assert.Equal(t, 60.0, scene.Markers[0].Value)
	assert.Equal(t, 0.0, scene.Markers[1].Value)
	assert.Equal(t, "", scene.Tooltip.Label)
}

func TestSceneFramesDoNotShareSeriesPaths(t *testing.T) {
	v := NewView(nil, testSeries())
	first := v.Scene()
	first.Paths[0].Color = "#ff0000"
	first.Paths[1] = SeriesPath{}

	second := v.Scene()
	assert.Equal(t, "#444444", second.Paths[0].Color)
	assert.Equal(t, "secondary", second.Paths[1].SeriesID)
}
