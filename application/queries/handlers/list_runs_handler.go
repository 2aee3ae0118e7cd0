package handlers

import (
	"context"
	"fmt"

	"molgraph/application/ports"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/domain/core/entities"
	pkgerrors "molgraph/pkg/errors"
	"molgraph/pkg/utils"
)

const defaultRunLimit = 50

// ListRunsHandler retrieves recent load runs from history.
type ListRunsHandler struct {
	runRepo ports.RunRepository
}

// NewListRunsHandler creates a new handler instance
func NewListRunsHandler(runRepo ports.RunRepository) *ListRunsHandler {
	return &ListRunsHandler{runRepo: runRepo}
}

// Handle implements querybus.QueryHandler
func (h *ListRunsHandler) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	q, ok := query.(queries.ListRunsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	limit := q.Limit
	if limit == 0 {
		limit = defaultRunLimit
	}

	runs, err := h.runRepo.List(ctx, entities.RunStatus(q.Status), limit)
	if err != nil {
		return nil, err
	}

	views := make([]queries.RunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runToView(run))
	}
	return views, nil
}

// GetRunHandler retrieves one run by ID.
type GetRunHandler struct {
	runRepo ports.RunRepository
}

// NewGetRunHandler creates a new handler instance
func NewGetRunHandler(runRepo ports.RunRepository) *GetRunHandler {
	return &GetRunHandler{runRepo: runRepo}
}

// Handle implements querybus.QueryHandler
func (h *GetRunHandler) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	q, ok := query.(queries.GetRunQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	run, err := h.runRepo.GetByID(ctx, q.RunID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, pkgerrors.NewNotFoundError("run")
	}

	view := runToView(run)
	return &view, nil
}

func runToView(run *entities.LoadRun) queries.RunView {
	view := queries.RunView{
		RunID:      run.RunID,
		Descriptor: run.Descriptor,
		Backend:    run.Backend,
		NodeCount:  run.NodeCount,
		EdgeCount:  run.EdgeCount,
		Status:     string(run.Status),
		Error:      run.Error,
		StartedAt:  utils.FormatRFC3339(run.StartedAt),
		FinishedAt: utils.FormatRFC3339(run.FinishedAt),
	}
	return view
}
