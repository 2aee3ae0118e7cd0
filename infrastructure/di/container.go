package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"molgraph/application/commands/bus"
	"molgraph/application/ports"
	querybus "molgraph/application/queries/bus"
	"molgraph/infrastructure/config"
	"molgraph/pkg/auth"
	"molgraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        ports.GraphStore
	RunRepo      ports.RunRepository
	EventBus     ports.EventBus
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Metrics      *observability.Metrics
	Emitter      *observability.CloudWatchEmitter
	Tracer       *observability.Tracer
	JWTValidator *auth.JWTValidator
	RateLimiter  *auth.TokenBucketLimiter
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideGraphStore,
	ProvideRunRepository,
	ProvideEventBus,
	ProvideMetrics,
	ProvideCloudWatchEmitter,
	ProvideTracer,
	ProvideJWTValidator,
	ProvideRateLimiter,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// Close releases held connections. Safe to call on a partially used
// container.
func (c *Container) Close(ctx context.Context) error {
	var firstErr error
	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return firstErr
}
