package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchEmitter pushes load-run counts to CloudWatch so alarms can
// watch ingestion volume. Emission failures are logged, never returned.
type CloudWatchEmitter struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewCloudWatchEmitter creates a new emitter
func NewCloudWatchEmitter(client *cloudwatch.Client, namespace string, logger *zap.Logger) *CloudWatchEmitter {
	return &CloudWatchEmitter{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// EmitLoad records the outcome of one molecule load.
func (e *CloudWatchEmitter) EmitLoad(ctx context.Context, backend string, nodeCount, edgeCount int) {
	if e.client == nil {
		return
	}

	now := time.Now()
	dims := []types.Dimension{
		{Name: aws.String("Backend"), Value: aws.String(backend)},
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(e.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("MoleculesLoaded"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Dimensions: dims,
			},
			{
				MetricName: aws.String("NodesUpserted"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(float64(nodeCount)),
				Unit:       types.StandardUnitCount,
				Dimensions: dims,
			},
			{
				MetricName: aws.String("EdgesUpserted"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(float64(edgeCount)),
				Unit:       types.StandardUnitCount,
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		e.logger.Warn("Failed to emit CloudWatch metrics",
			zap.String("backend", backend),
			zap.Error(err),
		)
	}
}
