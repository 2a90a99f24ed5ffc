package source

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/series"
)

// QueryAPI is the part of the DynamoDB client the store uses
type QueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// SeriesItem is one series as stored in the series table
type SeriesItem struct {
	ChartID     string             `dynamodbav:"chartId"`
	SeriesID    string             `dynamodbav:"seriesId"`
	Order       int                `dynamodbav:"order"`
	Label       string             `dynamodbav:"label"`
	Color       string             `dynamodbav:"color"`
	LineOpacity float64            `dynamodbav:"lineOpacity"`
	LineWidth   float64            `dynamodbav:"lineWidth"`
	IsPrimary   bool               `dynamodbav:"isPrimary"`
	Data        []series.DataPoint `dynamodbav:"data"`
}

// Series converts the item to the chart model
func (item SeriesItem) Series() series.Series {
	return series.Series{
		ID:          item.SeriesID,
		Label:       item.Label,
		Color:       item.Color,
		LineOpacity: item.LineOpacity,
		LineWidth:   item.LineWidth,
		IsPrimary:   item.IsPrimary,
		Data:        item.Data,
	}
}

// ChartItemID is the sort key of the optional item holding chart-level settings
const ChartItemID = "#chart"

// ChartItem is the chart-level item stored next to a chart's series
type ChartItem struct {
	ChartID       string       `dynamodbav:"chartId"`
	SeriesID      string       `dynamodbav:"seriesId"`
	Title         string       `dynamodbav:"title,omitempty"`
	Icon          string       `dynamodbav:"icon,omitempty"`
	HeadlineValue float64      `dynamodbav:"headlineValue,omitempty"`
	DateLabel     string       `dynamodbav:"dateLabel,omitempty"`
	ValueFormat   string       `dynamodbav:"valueFormat,omitempty"`
	XLabels       []string     `dynamodbav:"xLabels,omitempty"`
	YLabels       []string     `dynamodbav:"yLabels,omitempty"`
	Stats         []chart.Stat `dynamodbav:"stats,omitempty"`
}

// Config converts the item to chart settings
func (item ChartItem) Config() chart.Config {
	return chart.Config{
		Title:         item.Title,
		Icon:          item.Icon,
		HeadlineValue: item.HeadlineValue,
		DateLabel:     item.DateLabel,
		ValueFormat:   item.ValueFormat,
		XLabels:       item.XLabels,
		YLabels:       item.YLabels,
		Stats:         item.Stats,
	}
}

// DynamoStore reads chart series from DynamoDB
type DynamoStore struct {
	client    QueryAPI
	tableName string
}

// NewDynamoStore creates a new store using the default AWS configuration
func NewDynamoStore(ctx context.Context, tableName string) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewDynamoStoreWithClient(dynamodb.NewFromConfig(cfg), tableName), nil
}

// NewDynamoStoreWithClient creates a store around an existing client
func NewDynamoStoreWithClient(client QueryAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// LoadDocument returns a chart's settings and series. Charts without a settings item
// get a zero chart config.
func (s *DynamoStore) LoadDocument(ctx context.Context, chartID string) (*Document, error) {
	raws, err := s.query(ctx, chartID)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	var items []SeriesItem
	for _, raw := range raws {
		if id, ok := raw["seriesId"].(*types.AttributeValueMemberS); ok && id.Value == ChartItemID {
			var meta ChartItem
			if err := attributevalue.UnmarshalMap(raw, &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chart item: %w", err)
			}
			doc.Chart = meta.Config()
			continue
		}

		var item SeriesItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal series item: %w", err)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("chart %s has no series", chartID)
	}

	// Items arrive sorted by seriesId; order decides the collection order
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})

	doc.Series = make([]series.Series, len(items))
	for i, item := range items {
		doc.Series[i] = item.Series()
	}
	if err := series.ValidateAll(doc.Series); err != nil {
		return nil, err
	}

	log.Printf("Loaded %d series for chart %s", len(doc.Series), chartID)
	return doc, nil
}

func (s *DynamoStore) query(ctx context.Context, chartID string) ([]map[string]types.AttributeValue, error) {
	var raws []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("chartId = :chartId"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":chartId": &types.AttributeValueMemberS{Value: chartID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query chart series: %w", err)
		}
		raws = append(raws, result.Items...)

		if len(result.LastEvaluatedKey) == 0 {
			return raws, nil
		}
		startKey = result.LastEvaluatedKey
	}
}
