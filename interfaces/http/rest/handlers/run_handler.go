package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/pkg/common"
	pkgerrors "molgraph/pkg/errors"
)

// RunHandler serves the load-run history
type RunHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// ListRuns handles GET /runs
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPageParams(r, 50, 200)

	query := queries.ListRunsQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		common.RespondError(w, pkgerrors.HTTPStatusFor(err), "INTERNAL", "Failed to list runs")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetRun handles GET /runs/{runID}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Run ID is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRunQuery{RunID: runID})
	if err != nil {
		if pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound) {
			common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "Run not found")
			return
		}
		h.logger.Error("Failed to get run", zap.String("runID", runID), zap.Error(err))
		common.RespondError(w, pkgerrors.HTTPStatusFor(err), "INTERNAL", "Failed to get run")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
