package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/dispatch"
	"github.com/christophergentle/hourstats-chart/internal/publish"
	"github.com/christophergentle/hourstats-chart/internal/snapshot"
	"github.com/christophergentle/hourstats-chart/internal/source"
)

// Response represents the Lambda response
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	ChartID    string `json:"chartId,omitempty"`
	Location   string `json:"location,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
}

// documentLoader reads a chart's settings and series
type documentLoader interface {
	LoadDocument(ctx context.Context, chartID string) (*source.Document, error)
}

// objectSink stores rendered bytes
type objectSink interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// RendererHandler handles the chart renderer Lambda function
type RendererHandler struct {
	config *config.Config
	store  documentLoader
	sink   objectSink
}

// NewRendererHandler creates a new renderer handler
func NewRendererHandler(ctx context.Context) (*RendererHandler, error) {
	loader, err := config.NewSSMConfigLoader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSM config loader: %w", err)
	}
	cfg, err := loader.LoadConfig(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := source.NewDynamoStore(ctx, cfg.AWS.SeriesTable)
	if err != nil {
		return nil, fmt.Errorf("failed to create series store: %w", err)
	}

	h := &RendererHandler{config: cfg, store: store}
	if cfg.AWS.Bucket != "" {
		sink, err := publish.NewS3Sink(ctx, cfg.AWS.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 sink: %w", err)
		}
		h.sink = sink
	}
	return h, nil
}

// HandleRequest is the main Lambda handler
func (h *RendererHandler) HandleRequest(ctx context.Context, job dispatch.RenderJob) (Response, error) {
	log.Printf("Renderer received job: chart=%s run=%s format=%s", job.ChartID, job.RunID, job.Format)

	if job.ChartID == "" {
		err := fmt.Errorf("render job has no chart id")
		return Response{StatusCode: 400, Body: err.Error()}, err
	}

	doc, err := h.store.LoadDocument(ctx, job.ChartID)
	if err != nil {
		log.Printf("Failed to load chart %s: %v", job.ChartID, err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to load chart: " + err.Error(),
			ChartID:    job.ChartID,
		}, err
	}

	snap, err := snapshot.Render(doc, h.config.Chart, snapshot.Options{Format: job.Format, HoverX: job.HoverX})
	if err != nil {
		log.Printf("Failed to render chart %s: %v", job.ChartID, err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to render chart: " + err.Error(),
			ChartID:    job.ChartID,
		}, err
	}
	log.Printf("Rendered chart %s (%d bytes)", job.ChartID, len(snap.Body))

	resp := Response{
		StatusCode: 200,
		Body:       "Chart rendered successfully",
		ChartID:    job.ChartID,
		Bytes:      len(snap.Body),
	}

	if !job.Upload {
		return resp, nil
	}
	if job.DryRun || h.config.Settings.DryRun {
		log.Printf("Dry run mode enabled, skipping upload for chart: %s", job.ChartID)
		resp.Body = "Dry run mode - upload skipped"
		return resp, nil
	}
	if h.sink == nil {
		err := fmt.Errorf("no bucket configured")
		return Response{StatusCode: 500, Body: "Failed to upload chart: " + err.Error(), ChartID: job.ChartID}, err
	}

	location, err := h.sink.Put(ctx, h.objectKey(job, snap.Extension), snap.ContentType, snap.Body)
	if err != nil {
		log.Printf("Failed to upload chart %s: %v", job.ChartID, err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to upload chart: " + err.Error(),
			ChartID:    job.ChartID,
		}, err
	}

	resp.Body = "Chart rendered and uploaded successfully"
	resp.Location = location
	return resp, nil
}

// objectKey places run snapshots under the run id
func (h *RendererHandler) objectKey(job dispatch.RenderJob, ext string) string {
	if job.RunID == "" {
		return h.config.ObjectKey(job.ChartID + ext)
	}
	return h.config.ObjectKey(job.RunID + "/" + job.ChartID + ext)
}

func main() {
	ctx := context.Background()
	handler, err := NewRendererHandler(ctx)
	if err != nil {
		log.Fatalf("Failed to create renderer handler: %v", err)
	}

	lambda.Start(handler.HandleRequest)
}
