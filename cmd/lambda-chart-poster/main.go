package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/publish"
	"github.com/christophergentle/hourstats-chart/internal/snapshot"
	"github.com/christophergentle/hourstats-chart/internal/source"
)

// PostEvent selects the chart to post and optionally replaces the generated caption
type PostEvent struct {
	ChartID string   `json:"chartId"`
	Text    string   `json:"text,omitempty"`
	HoverX  *float64 `json:"hoverX,omitempty"`
}

// Response represents the Lambda response
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	Posted     bool   `json:"posted"`
	TextOnly   bool   `json:"textOnly,omitempty"`
}

// documentLoader reads a chart's settings and series
type documentLoader interface {
	LoadDocument(ctx context.Context, chartID string) (*source.Document, error)
}

// ChartPosterHandler handles the chart poster Lambda function
type ChartPosterHandler struct {
	config *config.Config
	store  documentLoader
	// login returns an authenticated poster; called once per post
	login func(ctx context.Context) (publish.Poster, error)
	// maxImageBytes defaults to publish.MaxImageBytes
	maxImageBytes int
}

// NewChartPosterHandler creates a new chart poster handler
func NewChartPosterHandler(ctx context.Context) (*ChartPosterHandler, error) {
	loader, err := config.NewSSMConfigLoader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSM config loader: %w", err)
	}
	cfg, err := loader.LoadConfig(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := source.NewDynamoStore(ctx, cfg.AWS.SeriesTable)
	if err != nil {
		return nil, fmt.Errorf("failed to create series store: %w", err)
	}

	return &ChartPosterHandler{
		config: cfg,
		store:  store,
		login: func(ctx context.Context) (publish.Poster, error) {
			poster := publish.NewBlueskyPoster(cfg.Bluesky.Handle, cfg.Bluesky.Password)
			if err := poster.Authenticate(ctx); err != nil {
				return nil, err
			}
			return poster, nil
		},
	}, nil
}

// HandleRequest is the main Lambda handler
func (h *ChartPosterHandler) HandleRequest(ctx context.Context, event PostEvent) (Response, error) {
	log.Printf("Chart poster received event: %+v", event)

	if event.ChartID == "" {
		err := fmt.Errorf("event has no chart id")
		return Response{StatusCode: 400, Body: err.Error()}, err
	}

	doc, err := h.store.LoadDocument(ctx, event.ChartID)
	if err != nil {
		log.Printf("Failed to load chart %s: %v", event.ChartID, err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to load chart: " + err.Error(),
		}, err
	}

	// Bluesky only embeds raster images
	snap, err := snapshot.Render(doc, h.config.Chart, snapshot.Options{Format: "png", HoverX: event.HoverX})
	if err != nil {
		log.Printf("Failed to render chart %s: %v", event.ChartID, err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to render chart: " + err.Error(),
		}, err
	}

	text := strings.TrimSpace(event.Text)
	if text == "" {
		text = publish.Caption(snap.Chart)
	}
	if text == "" {
		text = "📊 " + event.ChartID
	}
	alt := publish.AltText(snap.Chart, doc.Series)

	if h.config.Settings.DryRun {
		log.Printf("Dry run mode enabled, skipping chart post for %s: %q (%d bytes)", event.ChartID, text, len(snap.Body))
		return Response{
			StatusCode: 200,
			Body:       "Dry run mode - chart post skipped",
			Posted:     false,
		}, nil
	}

	poster, err := h.login(ctx)
	if err != nil {
		log.Printf("Failed to authenticate with Bluesky: %v", err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to authenticate: " + err.Error(),
		}, err
	}

	if len(snap.Body) > h.imageLimit() {
		log.Printf("Chart image is %d bytes, over the %d byte limit, posting text only", len(snap.Body), h.imageLimit())
		if err := poster.PostText(ctx, text); err != nil {
			log.Printf("Failed to post chart text: %v", err)
			return Response{
				StatusCode: 500,
				Body:       "Failed to post chart: " + err.Error(),
			}, err
		}
		return Response{
			StatusCode: 200,
			Body:       "Chart image too large - posted text only",
			Posted:     true,
			TextOnly:   true,
		}, nil
	}

	if err := poster.PostWithImage(ctx, text, snap.Body, alt, snap.Width, snap.Height); err != nil {
		log.Printf("Failed to post chart with embedded image: %v", err)
		return Response{
			StatusCode: 500,
			Body:       "Failed to post chart: " + err.Error(),
		}, err
	}

	log.Printf("Successfully posted chart: %s", event.ChartID)
	return Response{
		StatusCode: 200,
		Body:       "Chart posted successfully",
		Posted:     true,
	}, nil
}

func (h *ChartPosterHandler) imageLimit() int {
	if h.maxImageBytes > 0 {
		return h.maxImageBytes
	}
	return publish.MaxImageBytes
}

func main() {
	ctx := context.Background()
	handler, err := NewChartPosterHandler(ctx)
	if err != nil {
		log.Fatalf("Failed to create chart poster handler: %v", err)
	}

	lambda.Start(handler.HandleRequest)
}
