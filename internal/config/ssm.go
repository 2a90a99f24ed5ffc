package config

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterPrefix is the SSM path every parameter lives under.
const ParameterPrefix = "/hourstats-chart/"

// GetParametersAPI is the part of the SSM client the loader uses
type GetParametersAPI interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// SSMConfigLoader handles loading configuration from SSM Parameter Store
type SSMConfigLoader struct {
	client GetParametersAPI
}

// NewSSMConfigLoader creates a new SSM configuration loader
func NewSSMConfigLoader(ctx context.Context) (*SSMConfigLoader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return NewSSMConfigLoaderWithClient(ssm.NewFromConfig(cfg)), nil
}

// NewSSMConfigLoaderWithClient creates a loader around an existing client
func NewSSMConfigLoaderWithClient(client GetParametersAPI) *SSMConfigLoader {
	return &SSMConfigLoader{client: client}
}

func param(name string) string {
	return ParameterPrefix + name
}

// LoadConfig loads configuration from SSM Parameter Store. Environment variables
// still override what SSM returns.
func (s *SSMConfigLoader) LoadConfig(ctx context.Context, requireBluesky bool) (*Config, error) {
	// SSM GetParameters accepts at most 10 names per call
	batches := [][]string{
		{
			param("bluesky/handle"),
			param("bluesky/password"),
			param("aws/series_table"),
			param("aws/bucket"),
			param("aws/key_prefix"),
			param("aws/renderer_function"),
		},
		{
			param("chart/scale"),
			param("chart/format"),
			param("chart/value_format"),
			param("settings/charts"),
			param("settings/dry_run"),
		},
	}

	params := make(map[string]string)
	for _, names := range batches {
		result, err := s.client.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          names,
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, err
		}

		// Unset optional parameters come back as invalid; only required ones matter
		for _, name := range result.InvalidParameters {
			if isRequired(name, requireBluesky) {
				return nil, &ConfigError{
					Message: "Invalid parameters found",
					Details: result.InvalidParameters,
				}
			}
		}

		for _, p := range result.Parameters {
			if p.Name != nil && p.Value != nil {
				params[*p.Name] = *p.Value
			}
		}
	}

	if params[param("aws/series_table")] == "" {
		return nil, &ConfigError{
			Message: "Missing required parameter: " + param("aws/series_table"),
		}
	}
	if requireBluesky {
		for _, name := range []string{param("bluesky/handle"), param("bluesky/password")} {
			if params[name] == "" {
				return nil, &ConfigError{Message: "Missing required parameter: " + name}
			}
		}
	}

	cfg := &Config{
		Chart: ChartConfig{
			Scale:       parseFloatWithDefault(params[param("chart/scale")], 4),
			Format:      params[param("chart/format")],
			ValueFormat: params[param("chart/value_format")],
		},
		AWS: AWSConfig{
			SeriesTable:      params[param("aws/series_table")],
			Bucket:           params[param("aws/bucket")],
			KeyPrefix:        params[param("aws/key_prefix")],
			RendererFunction: params[param("aws/renderer_function")],
		},
		Bluesky: BlueskyConfig{
			Handle:   params[param("bluesky/handle")],
			Password: params[param("bluesky/password")],
		},
		Settings: SettingsConfig{
			DryRun: parseBoolWithDefault(params[param("settings/dry_run")], false),
			Charts: splitList(params[param("settings/charts")]),
		},
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isRequired(name string, requireBluesky bool) bool {
	switch name {
	case param("aws/series_table"):
		return true
	case param("bluesky/handle"), param("bluesky/password"):
		return requireBluesky
	}
	return false
}

// splitList parses a comma separated StringList parameter
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseFloatWithDefault parses a float with a default value
func parseFloatWithDefault(value string, defaultValue float64) float64 {
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// parseBoolWithDefault parses a boolean with a default value
func parseBoolWithDefault(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// ConfigError represents a configuration error
type ConfigError struct {
	Message string
	Details []string
}

func (e *ConfigError) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, ", ")
	}
	return e.Message
}
