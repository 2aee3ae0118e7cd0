package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"molgraph/application/commands"
	"molgraph/application/commands/bus"
	commandhandlers "molgraph/application/commands/handlers"
	"molgraph/application/ports"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	queryhandlers "molgraph/application/queries/handlers"
	"molgraph/infrastructure/config"
	"molgraph/infrastructure/messaging/eventbridge"
	"molgraph/infrastructure/persistence/dynamodb"
	"molgraph/infrastructure/persistence/neo4j"
	"molgraph/infrastructure/persistence/neptune"
	"molgraph/pkg/auth"
	"molgraph/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideGraphStore selects the store implementation from configuration
func ProvideGraphStore(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.GraphStore, error) {
	switch cfg.StoreBackend {
	case config.BackendNeo4j:
		return neo4j.NewStore(
			cfg.Neo4jURI,
			cfg.Neo4jUser,
			cfg.Neo4jPassword,
			cfg.Neo4jDatabase,
			logger,
		)
	case config.BackendNeptune:
		return neptune.NewStore(
			cfg.NeptuneHost,
			cfg.NeptunePort,
			cfg.NeptuneUseTLS,
			cfg.NeptuneIAMAuth,
			cfg.GremlinBatchSize,
			awsCfg,
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// ProvideRunRepository creates the load-run history repository
func ProvideRunRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RunRepository {
	return dynamodb.NewRunRepository(
		client,
		cfg.DynamoDBTable,
		cfg.RunIndexName,
		logger,
	)
}

// ProvideEventBus creates an event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(
		client,
		cfg.EventBusName,
		logger,
	)
}

// ProvideMetrics creates the Prometheus metrics set
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideCloudWatchEmitter creates the CloudWatch metric emitter
func ProvideCloudWatchEmitter(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.CloudWatchEmitter {
	namespace := fmt.Sprintf("MolGraph/%s", cfg.Environment)
	return observability.NewCloudWatchEmitter(client, namespace, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("molgraph")
}

// ProvideJWTValidator creates the bearer-token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideRateLimiter creates the per-IP rate limiter
func ProvideRateLimiter() *auth.TokenBucketLimiter {
	return auth.NewIPRateLimiter(100)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.GraphStore,
	runRepo ports.RunRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	emitter *observability.CloudWatchEmitter,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()

	loadHandler := commandhandlers.NewLoadMoleculeHandler(store, runRepo, eventBus, metrics, emitter, tracer, logger)
	if err := commandBus.Register(commands.LoadMoleculeCommand{}, loadHandler); err != nil {
		return nil, err
	}

	deleteMoleculeHandler := commandhandlers.NewDeleteMoleculeHandler(store, eventBus, metrics, logger)
	if err := commandBus.Register(commands.DeleteMoleculeCommand{}, deleteMoleculeHandler); err != nil {
		return nil, err
	}

	deleteRecordHandler := commandhandlers.NewDeleteRecordHandler(store, eventBus, metrics, logger)
	if err := commandBus.Register(commands.DeleteRecordCommand{}, deleteRecordHandler); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.GraphStore,
	runRepo ports.RunRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	runQueryHandler := queryhandlers.NewRunQueryHandler(store, metrics, logger)
	if err := queryBus.Register(queries.RunQueryQuery{}, runQueryHandler); err != nil {
		return nil, err
	}

	statusHandler := queryhandlers.NewGetStatusHandler(store)
	if err := queryBus.Register(queries.GetStatusQuery{}, statusHandler); err != nil {
		return nil, err
	}

	listRunsHandler := queryhandlers.NewListRunsHandler(runRepo)
	if err := queryBus.Register(queries.ListRunsQuery{}, listRunsHandler); err != nil {
		return nil, err
	}

	getRunHandler := queryhandlers.NewGetRunHandler(runRepo)
	if err := queryBus.Register(queries.GetRunQuery{}, getRunHandler); err != nil {
		return nil, err
	}

	return queryBus, nil
}
