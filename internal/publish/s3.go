// Package publish delivers rendered charts: object uploads to S3 and image posts to
// Bluesky.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client the sink uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink writes rendered charts to a bucket
type S3Sink struct {
	client       PutObjectAPI
	bucket       string
	cacheControl string
}

// NewS3Sink creates a new sink using the default AWS configuration
func NewS3Sink(ctx context.Context, bucket string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3SinkWithClient(s3.NewFromConfig(cfg), bucket), nil
}

// NewS3SinkWithClient creates a sink around an existing client
func NewS3SinkWithClient(client PutObjectAPI, bucket string) *S3Sink {
	return &S3Sink{
		client:       client,
		bucket:       bucket,
		cacheControl: "max-age=300",
	}
}

// Put uploads body under key and returns its s3:// URI
func (s *S3Sink) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("no bucket configured")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String(s.cacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload chart to s3://%s/%s: %w", s.bucket, key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	log.Printf("Uploaded chart to %s (%d bytes)", uri, len(body))
	return uri, nil
}
