package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/pkg/common"
	pkgerrors "molgraph/pkg/errors"
)

// maxQueryBodyBytes caps raw query bodies forwarded to the store.
const maxQueryBodyBytes = 1 << 20

// QueryHandler forwards raw store queries
type QueryHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// RunQuery handles POST /queries/{language}
//
// The request body is the raw query text. The Accept header, when
// present, selects the response serialization.
func (h *QueryHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "language")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxQueryBodyBytes+1))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Failed to read request body")
		return
	}
	if len(body) > maxQueryBodyBytes {
		common.RespondError(w, http.StatusRequestEntityTooLarge, "BAD_REQUEST", "Query body too large")
		return
	}

	mediaType := r.Header.Get("Accept")
	if mediaType == "*/*" {
		mediaType = ""
	}

	query := queries.RunQueryQuery{
		Language:  language,
		Body:      string(body),
		MediaType: mediaType,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Query failed",
			zap.String("language", language),
			zap.Error(err),
		)
		status := pkgerrors.HTTPStatusFor(err)
		if appErr := pkgerrors.GetAppError(err); appErr != nil {
			common.RespondError(w, status, string(appErr.Type), appErr.Message)
		} else {
			common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		}
		return
	}

	queryResult, ok := result.(*queries.RunQueryResult)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "Unexpected result type")
		return
	}

	w.Header().Set("X-Row-Count", strconv.Itoa(queryResult.RowCount))
	common.RespondRaw(w, http.StatusOK, queryResult.MediaType, queryResult.Body)
}
