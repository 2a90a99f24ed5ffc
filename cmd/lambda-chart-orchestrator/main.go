package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/dispatch"
)

// Event represents the EventBridge event structure or a manual invocation
type Event struct {
	Source string   `json:"source"`
	Time   string   `json:"time"`
	Charts []string `json:"charts,omitempty"`
	Format string   `json:"format,omitempty"`
	HoverX *float64 `json:"hoverX,omitempty"`
	// Upload defaults to true for scheduled runs
	Upload *bool `json:"upload,omitempty"`
}

// Response represents the Lambda response
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	RunID      string `json:"runId,omitempty"`
	Dispatched int    `json:"dispatched"`
}

// jobDispatcher queues render jobs
type jobDispatcher interface {
	DispatchAll(ctx context.Context, jobs []dispatch.RenderJob) (int, error)
}

// OrchestratorHandler handles the orchestrator Lambda function
type OrchestratorHandler struct {
	config     *config.Config
	dispatcher jobDispatcher
	now        func() time.Time
}

// NewOrchestratorHandler creates a new orchestrator handler
func NewOrchestratorHandler(ctx context.Context) (*OrchestratorHandler, error) {
	loader, err := config.NewSSMConfigLoader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSM config loader: %w", err)
	}
	cfg, err := loader.LoadConfig(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AWS.RendererFunction == "" {
		return nil, fmt.Errorf("no renderer function configured")
	}

	dispatcher, err := dispatch.NewDispatcher(ctx, cfg.AWS.RendererFunction)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return &OrchestratorHandler{
		config:     cfg,
		dispatcher: dispatcher,
		now:        time.Now,
	}, nil
}

// HandleRequest is the main Lambda handler
func (h *OrchestratorHandler) HandleRequest(ctx context.Context, event Event) (Response, error) {
	log.Printf("Orchestrator received event: %+v", event)

	runID := fmt.Sprintf("run-%d", h.now().UnixNano())
	jobs := h.buildJobs(runID, event)
	if len(jobs) == 0 {
		log.Printf("No charts configured for run: %s", runID)
		return Response{
			StatusCode: 200,
			Body:       "No charts to render",
			RunID:      runID,
		}, nil
	}

	log.Printf("Starting render run %s for %d charts", runID, len(jobs))
	sent, err := h.dispatcher.DispatchAll(ctx, jobs)
	if err != nil {
		log.Printf("Failed to dispatch %d of %d charts: %v", len(jobs)-sent, len(jobs), err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to dispatch renderers: " + err.Error(),
			RunID:      runID,
			Dispatched: sent,
		}, err
	}

	return Response{
		StatusCode: 200,
		Body:       fmt.Sprintf("Dispatched %d render jobs", sent),
		RunID:      runID,
		Dispatched: sent,
	}, nil
}

// buildJobs creates one job per chart, event charts taking precedence over configured ones
func (h *OrchestratorHandler) buildJobs(runID string, event Event) []dispatch.RenderJob {
	charts := event.Charts
	if len(charts) == 0 {
		charts = h.config.Settings.Charts
	}

	upload := true
	if event.Upload != nil {
		upload = *event.Upload
	}

	seen := make(map[string]bool, len(charts))
	jobs := make([]dispatch.RenderJob, 0, len(charts))
	for _, id := range charts {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		jobs = append(jobs, dispatch.RenderJob{
			RunID:   runID,
			ChartID: id,
			Format:  event.Format,
			HoverX:  event.HoverX,
			Upload:  upload,
			DryRun:  h.config.Settings.DryRun,
		})
	}
	return jobs
}

func main() {
	ctx := context.Background()
	handler, err := NewOrchestratorHandler(ctx)
	if err != nil {
		log.Fatalf("Failed to create orchestrator handler: %v", err)
	}

	lambda.Start(handler.HandleRequest)
}
