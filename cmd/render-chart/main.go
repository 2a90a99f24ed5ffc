package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/christophergentle/hourstats-chart/internal/config"
	"github.com/christophergentle/hourstats-chart/internal/publish"
	"github.com/christophergentle/hourstats-chart/internal/snapshot"
	"github.com/christophergentle/hourstats-chart/internal/source"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default: config.yaml if present, else environment)")
		input      = flag.String("in", "", "chart document (.yaml or .json)")
		chartID    = flag.String("chart", "", "load the chart from the DynamoDB series table instead of -in")
		format     = flag.String("format", "", "output format: svg or png (default from config)")
		output     = flag.String("out", "", "output file (default: <chart>.<format>)")
		hover      = flag.Float64("hover", -1, "hover position in percent, applied after pointer replay")
		upload     = flag.Bool("upload", false, "upload the result to the configured S3 bucket")
		post       = flag.Bool("post", false, "post a PNG of the chart to Bluesky")
		dryRun     = flag.Bool("dry-run", false, "render and write locally but skip uploads and posts")
	)
	flag.Parse()

	if (*input == "") == (*chartID == "") {
		log.Fatalf("Exactly one of -in or -chart is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	skipPublish := *dryRun || cfg.Settings.DryRun

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc, name, err := loadDocument(ctx, cfg, *input, *chartID)
	if err != nil {
		log.Fatalf("Failed to load chart: %v", err)
	}

	opts := snapshot.Options{Format: *format}
	if *hover >= 0 {
		opts.HoverX = hover
	}
	snap, err := snapshot.Render(doc, cfg.Chart, opts)
	if err != nil {
		log.Fatalf("Failed to render chart: %v", err)
	}

	outPath := *output
	if outPath == "" {
		outPath = name + snap.Extension
	}
	if err := os.WriteFile(outPath, snap.Body, 0644); err != nil {
		log.Fatalf("Failed to write chart file: %v", err)
	}
	fmt.Printf("Rendered chart %s to %s (%d bytes, %dx%d)\n", name, outPath, len(snap.Body), snap.Width, snap.Height)

	if *upload {
		if skipPublish {
			log.Printf("Dry run mode enabled, skipping upload of %s", outPath)
		} else if err := uploadSnapshot(ctx, cfg, name, snap); err != nil {
			log.Fatalf("Failed to upload chart: %v", err)
		}
	}

	if *post {
		if skipPublish {
			log.Printf("Dry run mode enabled, skipping Bluesky post for %s", name)
		} else if err := postSnapshot(ctx, cfg, doc, opts); err != nil {
			log.Fatalf("Failed to post chart: %v", err)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if _, err := os.Stat(path); err != nil {
			return config.LoadConfigFromEnv()
		}
	}
	return config.LoadConfig(path)
}

func loadDocument(ctx context.Context, cfg *config.Config, input, chartID string) (*source.Document, string, error) {
	if input != "" {
		doc, err := source.LoadFile(input)
		if err != nil {
			return nil, "", err
		}
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return doc, name, nil
	}

	if cfg.AWS.SeriesTable == "" {
		return nil, "", fmt.Errorf("no series table configured")
	}
	store, err := source.NewDynamoStore(ctx, cfg.AWS.SeriesTable)
	if err != nil {
		return nil, "", err
	}
	doc, err := store.LoadDocument(ctx, chartID)
	if err != nil {
		return nil, "", err
	}
	return doc, chartID, nil
}

func uploadSnapshot(ctx context.Context, cfg *config.Config, name string, snap *snapshot.Snapshot) error {
	sink, err := publish.NewS3Sink(ctx, cfg.AWS.Bucket)
	if err != nil {
		return err
	}
	uri, err := sink.Put(ctx, cfg.ObjectKey(name+snap.Extension), snap.ContentType, snap.Body)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s\n", uri)
	return nil
}

func postSnapshot(ctx context.Context, cfg *config.Config, doc *source.Document, opts snapshot.Options) error {
	if !cfg.HasBlueskyCredentials() {
		return fmt.Errorf("bluesky handle and password are not configured")
	}

	// Bluesky only embeds raster images
	opts.Format = "png"
	snap, err := snapshot.Render(doc, cfg.Chart, opts)
	if err != nil {
		return err
	}

	poster := publish.NewBlueskyPoster(cfg.Bluesky.Handle, cfg.Bluesky.Password)
	if err := poster.Authenticate(ctx); err != nil {
		return err
	}
	text := publish.Caption(snap.Chart)
	if len(snap.Body) > publish.MaxImageBytes {
		log.Printf("Chart image is %d bytes, over the %d byte limit, posting text only", len(snap.Body), publish.MaxImageBytes)
		return poster.PostText(ctx, text)
	}
	return poster.PostWithImage(ctx, text, snap.Body, publish.AltText(snap.Chart, doc.Series), snap.Width, snap.Height)
}
