package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	jobs []dispatch.RenderJob
	err  error
}

func (f *fakeDispatcher) DispatchAll(_ context.Context, jobs []dispatch.RenderJob) (int, error) {
	f.jobs = append(f.jobs, jobs...)
	if f.err != nil {
		return len(jobs) - 1, f.err
	}
	return len(jobs), nil
}

func newTestHandler(charts ...string) (*OrchestratorHandler, *fakeDispatcher) {
	fake := &fakeDispatcher{}
	return &OrchestratorHandler{
		config:     &config.Config{Settings: config.SettingsConfig{Charts: charts}},
		dispatcher: fake,
		now:        func() time.Time { return time.Unix(0, 1234567890) },
	}, fake
}

func TestEventStructure(t *testing.T) {
	event := Event{
		Source: "aws.events",
		Time:   "2024-01-01T00:00:00Z",
	}

	assert.Equal(t, "aws.events", event.Source)
	assert.Equal(t, "2024-01-01T00:00:00Z", event.Time)
}

func TestHandleRequestConfiguredCharts(t *testing.T) {
	h, fake := newTestHandler("traffic", "revenue", "traffic")

	resp, err := h.HandleRequest(context.Background(), Event{Source: "aws.events"})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "run-1234567890", resp.RunID)
	assert.Equal(t, 2, resp.Dispatched)
	require.Len(t, fake.jobs, 2)
	assert.Equal(t, dispatch.RenderJob{RunID: "run-1234567890", ChartID: "traffic", Upload: true}, fake.jobs[0])
	assert.Equal(t, "revenue", fake.jobs[1].ChartID)
}

func TestHandleRequestEventOverrides(t *testing.T) {
	h, fake := newTestHandler("traffic")
	h.config.Settings.DryRun = true
	hover := 30.0
	upload := false

	resp, err := h.HandleRequest(context.Background(), Event{Charts: []string{"errors"}, Format: "png", HoverX: &hover, Upload: &upload})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Dispatched)

	require.Len(t, fake.jobs, 1)
	job := fake.jobs[0]
	assert.Equal(t, "errors", job.ChartID)
	assert.Equal(t, "png", job.Format)
	assert.Equal(t, 30.0, *job.HoverX)
	assert.False(t, job.Upload)
	assert.True(t, job.DryRun)
}

func TestHandleRequestNoCharts(t *testing.T) {
	h, fake := newTestHandler()

	resp, err := h.HandleRequest(context.Background(), Event{})
	require.NoError(t, err)
	assert.Equal(t, "No charts to render", resp.Body)
	assert.Empty(t, fake.jobs)
}

func TestHandleRequestDispatchFailure(t *testing.T) {
	h, fake := newTestHandler("a", "b")
	fake.err = errors.New("throttled")

	resp, err := h.HandleRequest(context.Background(), Event{})
	assert.Error(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, 1, resp.Dispatched)
}
