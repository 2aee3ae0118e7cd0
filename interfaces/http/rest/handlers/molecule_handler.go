package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"molgraph/application/commands"
	"molgraph/application/commands/bus"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/pkg/auth"
	"molgraph/pkg/common"
	pkgerrors "molgraph/pkg/errors"
	"molgraph/pkg/utils"
)

// MoleculeHandler handles molecule-related HTTP requests
type MoleculeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewMoleculeHandler creates a new molecule handler
func NewMoleculeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MoleculeHandler {
	return &MoleculeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// LoadMoleculeRequest represents the request body for loading a molecule
type LoadMoleculeRequest struct {
	Descriptor string `json:"descriptor" validate:"required,max=500"`
}

// LoadMoleculeResponse represents the response for a completed load
type LoadMoleculeResponse struct {
	RunID      string `json:"run_id"`
	Descriptor string `json:"descriptor"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
	LoadedAt   string `json:"loaded_at"`
}

// LoadMolecule handles POST /molecules
func (h *MoleculeHandler) LoadMolecule(w http.ResponseWriter, r *http.Request) {
	var req LoadMoleculeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.LoadMoleculeCommand{
		RunID:      uuid.New().String(),
		Descriptor: req.Descriptor,
		UserID:     userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to load molecule",
			zap.String("userID", userCtx.UserID),
			zap.String("runID", cmd.RunID),
			zap.Error(err),
		)
		h.respondCommandError(w, err)
		return
	}

	response := LoadMoleculeResponse{
		RunID:      cmd.RunID,
		Descriptor: req.Descriptor,
		LoadedAt:   utils.NowRFC3339(),
	}

	// The run record carries the counts; losing it is not a load failure
	if result, err := h.queryBus.Ask(r.Context(), queries.GetRunQuery{RunID: cmd.RunID}); err == nil {
		if view, ok := result.(*queries.RunView); ok {
			response.NodeCount = view.NodeCount
			response.EdgeCount = view.EdgeCount
		}
	}

	common.RespondJSON(w, http.StatusCreated, response)
}

// DeleteMolecule handles DELETE /molecules
//
// The descriptor arrives as a query parameter because SMILES strings
// routinely contain '/', which cannot survive as a path segment.
func (h *MoleculeHandler) DeleteMolecule(w http.ResponseWriter, r *http.Request) {
	descriptor := r.URL.Query().Get("descriptor")
	if descriptor == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "descriptor query parameter is required")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.DeleteMoleculeCommand{
		Descriptor: descriptor,
		UserID:     userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to delete molecule",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		h.respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteRecord handles DELETE /records/{recordID}
func (h *MoleculeHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Record ID is required")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.DeleteRecordCommand{
		RecordID: recordID,
		UserID:   userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to delete record",
			zap.String("userID", userCtx.UserID),
			zap.String("recordID", recordID),
			zap.Error(err),
		)
		h.respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MoleculeHandler) respondCommandError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		common.RespondError(w, pkgerrors.HTTPStatusFor(err), string(appErr.Type), appErr.Message)
		return
	}
	if strings.Contains(err.Error(), "validation") {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "Request failed")
}
