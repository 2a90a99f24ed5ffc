package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/series"
	"github.com/christophergentle/hourstats-chart/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *source.Document {
	move := 140.0
	return &source.Document{
		Series: []series.Series{{
			ID: "now", Label: "Now", Color: "#22c55e", LineOpacity: 1, LineWidth: 1,
			Data: []series.DataPoint{{X: 0, Y: 10}, {X: 100, Y: 90}},
		}},
		Pointer: []source.PointerEvent{{Move: &move, Width: 280}},
	}
}

func TestRenderSVGWithDefaults(t *testing.T) {
	defaults := config.ChartConfig{Width: 400, Height: 100, Format: "svg", Scale: 4}

	snap, err := Render(testDocument(), defaults, Options{})
	require.NoError(t, err)

	assert.Equal(t, "image/svg+xml", snap.ContentType)
	assert.Equal(t, ".svg", snap.Extension)
	assert.Equal(t, 400.0, snap.Scene.Width)
	assert.Equal(t, 408, snap.Width)
	assert.Equal(t, 108, snap.Height)
	require.NotNil(t, snap.Scene.Hover)
	assert.InDelta(t, 50.0, *snap.Scene.Hover, 1e-9)
	assert.True(t, strings.Contains(string(snap.Body), `class="crosshair"`))
}

func TestRenderPNGOverrides(t *testing.T) {
	hover := 80.0
	defaults := config.ChartConfig{Format: "svg", Scale: 2}

	snap, err := Render(testDocument(), defaults, Options{Format: "PNG", HoverX: &hover})
	require.NoError(t, err)

	assert.Equal(t, "image/png", snap.ContentType)
	assert.Equal(t, ".png", snap.Extension)
	assert.True(t, bytes.HasPrefix(snap.Body, []byte("\x89PNG")))
	assert.Equal(t, 288*2, snap.Width)
	assert.Equal(t, 83*2, snap.Height)
	assert.Equal(t, 80.0, *snap.Scene.Hover)
}

func TestRenderKeepsDocumentSettings(t *testing.T) {
	doc := testDocument()
	doc.Chart = chart.Config{Width: 100, Height: 50, ValueFormat: "%.0f"}
	defaults := config.ChartConfig{Width: 400, Height: 100, ValueFormat: "%.3f", Format: "svg", Scale: 1}

	snap, err := Render(doc, defaults, Options{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, snap.Scene.Width)
	assert.Equal(t, "50", snap.Scene.FormatValue(50))
	assert.Equal(t, "%.0f", snap.Chart.ValueFormat)
	// The caller's document is untouched.
	assert.Equal(t, 100.0, doc.Chart.Width)
	assert.False(t, doc.Chart.HideGrid)
}

func TestRenderReturnsAppliedChart(t *testing.T) {
	doc := testDocument()
	doc.Chart = chart.Config{Title: "Revenue", HeadlineValue: 1234}
	defaults := config.ChartConfig{Width: 400, Height: 100, ValueFormat: "$%.0f", Format: "svg", Scale: 1}

	snap, err := Render(doc, defaults, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Revenue", snap.Chart.Title)
	assert.Equal(t, "$1234", snap.Chart.FormatValue(snap.Chart.HeadlineValue))
	assert.Equal(t, 400.0, snap.Chart.Width)
	assert.Empty(t, doc.Chart.ValueFormat)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(&source.Document{}, config.ChartConfig{}, Options{})
	assert.Error(t, err)

	_, err = Render(testDocument(), config.ChartConfig{}, Options{Format: "gif"})
	assert.Error(t, err)
}
