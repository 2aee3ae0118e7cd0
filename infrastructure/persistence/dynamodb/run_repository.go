package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"molgraph/application/ports"
	"molgraph/domain/core/entities"
)

// RunRepository implements the RunRepository interface using DynamoDB
type RunRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string // GSI keyed for recency-ordered listings
	logger    *zap.Logger
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.RunRepository {
	return &RunRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// runItem represents the DynamoDB item structure for a load run
type runItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	RunID      string `dynamodbav:"RunID"`
	Descriptor string `dynamodbav:"Descriptor"`
	Backend    string `dynamodbav:"Backend"`
	NodeCount  int    `dynamodbav:"NodeCount"`
	EdgeCount  int    `dynamodbav:"EdgeCount"`
	Status     string `dynamodbav:"Status"`
	Error      string `dynamodbav:"Error,omitempty"`
	StartedAt  string `dynamodbav:"StartedAt"`
	FinishedAt string `dynamodbav:"FinishedAt,omitempty"`
}

// Save persists a run to DynamoDB
func (r *RunRepository) Save(ctx context.Context, run *entities.LoadRun) error {
	item := runItem{
		PK:         fmt.Sprintf("RUN#%s", run.RunID),
		SK:         "METADATA",
		GSI1PK:     "RUN",
		GSI1SK:     run.StartedAt.UTC().Format(time.RFC3339Nano),
		EntityType: "RUN",
		RunID:      run.RunID,
		Descriptor: run.Descriptor,
		Backend:    run.Backend,
		NodeCount:  run.NodeCount,
		EdgeCount:  run.EdgeCount,
		Status:     string(run.Status),
		Error:      run.Error,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
	}
	if !run.FinishedAt.IsZero() {
		item.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save run to DynamoDB",
			zap.Error(err),
			zap.String("runID", run.RunID),
		)
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID. Returns (nil, nil) when absent.
func (r *RunRepository) GetByID(ctx context.Context, runID string) (*entities.LoadRun, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("RUN#%s", runID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	output, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if output.Item == nil {
		return nil, nil
	}

	var item runItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return itemToRun(item)
}

// List retrieves recent runs, newest first, optionally filtered by
// status.
func (r *RunRepository) List(ctx context.Context, status entities.RunStatus, limit int) ([]*entities.LoadRun, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value("RUN"))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if status != "" {
		builder = builder.WithFilter(expression.Name("Status").Equal(expression.Value(string(status))))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	output, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*entities.LoadRun, 0, len(output.Items))
	for _, raw := range output.Items {
		var item runItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Skipping unreadable run item", zap.Error(err))
			continue
		}
		run, err := itemToRun(item)
		if err != nil {
			r.logger.Warn("Skipping malformed run item", zap.String("runID", item.RunID), zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// itemToRun reconstructs a LoadRun from its stored form.
func itemToRun(item runItem) (*entities.LoadRun, error) {
	if item.RunID == "" {
		return nil, errors.New("run item missing RunID")
	}

	startedAt, err := time.Parse(time.RFC3339, item.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("bad StartedAt: %w", err)
	}

	run := &entities.LoadRun{
		RunID:      item.RunID,
		Descriptor: item.Descriptor,
		Backend:    item.Backend,
		NodeCount:  item.NodeCount,
		EdgeCount:  item.EdgeCount,
		Status:     entities.RunStatus(item.Status),
		Error:      item.Error,
		StartedAt:  startedAt,
	}
	if item.FinishedAt != "" {
		if finishedAt, err := time.Parse(time.RFC3339, item.FinishedAt); err == nil {
			run.FinishedAt = finishedAt
		}
	}
	return run, nil
}
