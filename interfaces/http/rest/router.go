package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"molgraph/application/commands/bus"
	querybus "molgraph/application/queries/bus"
	"molgraph/infrastructure/config"
	"molgraph/interfaces/http/rest/handlers"
	"molgraph/interfaces/http/rest/middleware"
	"molgraph/pkg/auth"
	"molgraph/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	config     *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	metrics    *observability.Metrics
	validator  *auth.JWTValidator
	limiter    *auth.TokenBucketLimiter
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	metrics *observability.Metrics,
	validator *auth.JWTValidator,
	limiter *auth.TokenBucketLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:     cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		metrics:    metrics,
		validator:  validator,
		limiter:    limiter,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Row-Count"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Liveness and readiness
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.config.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.limiter))

		moleculeHandler := handlers.NewMoleculeHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Post("/molecules", moleculeHandler.LoadMolecule)
		r.Delete("/molecules", moleculeHandler.DeleteMolecule)
		r.Delete("/records/{recordID}", moleculeHandler.DeleteRecord)

		queryHandler := handlers.NewQueryHandler(rt.queryBus, rt.logger)
		r.Post("/queries/{language}", queryHandler.RunQuery)

		statusHandler := handlers.NewStatusHandler(rt.queryBus, rt.logger)
		r.Get("/status", statusHandler.GetStatus)

		runHandler := handlers.NewRunHandler(rt.queryBus, rt.logger)
		r.Get("/runs", runHandler.ListRuns)
		r.Get("/runs/{runID}", runHandler.GetRun)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
