package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"molgraph/application/ports"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/pkg/observability"
)

// RunQueryHandler forwards query bodies to the graph store and returns
// the rendered result untouched.
type RunQueryHandler struct {
	store   ports.GraphStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRunQueryHandler creates a new handler instance
func NewRunQueryHandler(store ports.GraphStore, metrics *observability.Metrics, logger *zap.Logger) *RunQueryHandler {
	return &RunQueryHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle implements querybus.QueryHandler
func (h *RunQueryHandler) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	q, ok := query.(queries.RunQueryQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	start := time.Now()
	result, err := h.store.Query(ctx, ports.QueryRequest{
		Language:  ports.QueryLanguage(q.Language),
		Body:      q.Body,
		MediaType: q.MediaType,
	})
	h.metrics.QueryDuration.WithLabelValues(q.Language).Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.StoreErrors.WithLabelValues(h.store.Name(), "query").Inc()
		return nil, err
	}

	h.logger.Debug("Query executed",
		zap.String("language", q.Language),
		zap.Int("rowCount", result.RowCount),
		zap.Duration("duration", time.Since(start)),
	)

	return &queries.RunQueryResult{
		MediaType: result.MediaType,
		Body:      result.Body,
		RowCount:  result.RowCount,
	}, nil
}
