package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/pkg/common"
)

// StatusHandler reports the active store connection
type StatusHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetStatus handles GET /status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetStatusQuery{})
	if err != nil {
		h.logger.Error("Failed to get status", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get status")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
