// Package dispatch hands render jobs to the renderer Lambda function.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// RenderJob is the payload the renderer function receives
type RenderJob struct {
	RunID   string   `json:"runId,omitempty"`
	ChartID string   `json:"chartId"`
	Format  string   `json:"format,omitempty"`
	HoverX  *float64 `json:"hoverX,omitempty"`
	Upload  bool     `json:"upload,omitempty"`
	DryRun  bool     `json:"dryRun,omitempty"`
}

// InvokeAPI is the part of the Lambda client the dispatcher uses
type InvokeAPI interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// Dispatcher invokes the renderer asynchronously, one invocation per job
type Dispatcher struct {
	client       InvokeAPI
	functionName string
}

// NewDispatcher creates a new dispatcher using the default AWS configuration
func NewDispatcher(ctx context.Context, functionName string) (*Dispatcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewDispatcherWithClient(awslambda.NewFromConfig(cfg), functionName), nil
}

// NewDispatcherWithClient creates a dispatcher around an existing client
func NewDispatcherWithClient(client InvokeAPI, functionName string) *Dispatcher {
	return &Dispatcher{
		client:       client,
		functionName: functionName,
	}
}

// Dispatch queues one render job
func (d *Dispatcher) Dispatch(ctx context.Context, job RenderJob) error {
	if job.ChartID == "" {
		return fmt.Errorf("render job has no chart id")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal render job: %w", err)
	}

	out, err := d.client.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(d.functionName),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke renderer lambda for chart %s: %w", job.ChartID, err)
	}
	if out.FunctionError != nil {
		return fmt.Errorf("renderer lambda rejected chart %s: %s", job.ChartID, *out.FunctionError)
	}

	log.Printf("Successfully dispatched renderer for chart: %s", job.ChartID)
	return nil
}

// DispatchAll queues every job in order and keeps going past failures. It returns
// how many were queued and the joined errors of the rest.
func (d *Dispatcher) DispatchAll(ctx context.Context, jobs []RenderJob) (int, error) {
	var errs []error
	sent := 0
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := d.Dispatch(ctx, job); err != nil {
			log.Printf("Failed to dispatch chart %s: %v", job.ChartID, err)
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
