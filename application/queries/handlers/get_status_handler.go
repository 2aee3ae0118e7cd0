package handlers

import (
	"context"
	"fmt"

	"molgraph/application/ports"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
)

// GetStatusHandler reports the active store connection.
type GetStatusHandler struct {
	store ports.GraphStore
}

// NewGetStatusHandler creates a new handler instance
func NewGetStatusHandler(store ports.GraphStore) *GetStatusHandler {
	return &GetStatusHandler{store: store}
}

// Handle implements querybus.QueryHandler
func (h *GetStatusHandler) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	if _, ok := query.(queries.GetStatusQuery); !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	return &queries.GetStatusResult{
		Endpoint: h.store.Endpoint(),
		Healthy:  true,
	}, nil
}
