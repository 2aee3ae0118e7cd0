package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"molgraph/application/commands"
	"molgraph/application/commands/bus"
	"molgraph/application/queries"
	querybus "molgraph/application/queries/bus"
	"molgraph/application/ports"
	"molgraph/pkg/auth"
	"molgraph/pkg/common"
	pkgerrors "molgraph/pkg/errors"
)

// withTestUser injects an authenticated user the way the auth
// middleware would.
func withTestUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithUser(r.Context(), &auth.UserContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type testDeps struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

func newTestRouter(t *testing.T, deps testDeps, authenticated bool) chi.Router {
	t.Helper()

	logger := zap.NewNop()
	if deps.commandBus == nil {
		deps.commandBus = bus.NewCommandBus()
	}
	if deps.queryBus == nil {
		deps.queryBus = querybus.NewQueryBus()
	}

	moleculeHandler := NewMoleculeHandler(deps.commandBus, deps.queryBus, logger)
	queryHandler := NewQueryHandler(deps.queryBus, logger)
	statusHandler := NewStatusHandler(deps.queryBus, logger)
	runHandler := NewRunHandler(deps.queryBus, logger)

	r := chi.NewRouter()
	if authenticated {
		r.Use(withTestUser("user-123"))
	}
	r.Post("/molecules", moleculeHandler.LoadMolecule)
	r.Delete("/molecules", moleculeHandler.DeleteMolecule)
	r.Delete("/records/{recordID}", moleculeHandler.DeleteRecord)
	r.Post("/queries/{language}", queryHandler.RunQuery)
	r.Get("/status", statusHandler.GetStatus)
	r.Get("/runs", runHandler.ListRuns)
	r.Get("/runs/{runID}", runHandler.GetRun)
	return r
}

func decodeAPIResponse(t *testing.T, body *bytes.Buffer) common.APIResponse {
	t.Helper()
	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func TestLoadMolecule(t *testing.T) {
	var captured commands.LoadMoleculeCommand
	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.LoadMoleculeCommand{},
		bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			captured = cmd.(commands.LoadMoleculeCommand)
			return nil
		})))

	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.GetRunQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return &queries.RunView{
				RunID:     q.(queries.GetRunQuery).RunID,
				NodeCount: 14,
				EdgeCount: 15,
			}, nil
		})))

	router := newTestRouter(t, testDeps{commandBus: commandBus, queryBus: queryBus}, true)

	body := bytes.NewBufferString(`{"descriptor": "CN1C=NC2=C1C(=O)N(C(=O)N2C)C"}`)
	req := httptest.NewRequest(http.MethodPost, "/molecules", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", captured.Descriptor)
	assert.Equal(t, "user-123", captured.UserID)
	assert.NotEmpty(t, captured.RunID)

	resp := decodeAPIResponse(t, rec.Body)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, captured.RunID, data["run_id"])
	assert.Equal(t, float64(14), data["node_count"])
	assert.Equal(t, float64(15), data["edge_count"])
	assert.NotEmpty(t, data["loaded_at"])
}

func TestLoadMolecule_MissingDescriptor(t *testing.T) {
	router := newTestRouter(t, testDeps{}, true)

	req := httptest.NewRequest(http.MethodPost, "/molecules", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeAPIResponse(t, rec.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestLoadMolecule_Unauthenticated(t *testing.T) {
	router := newTestRouter(t, testDeps{}, false)

	body := bytes.NewBufferString(`{"descriptor": "CCO"}`)
	req := httptest.NewRequest(http.MethodPost, "/molecules", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoadMolecule_ParseErrorMapsTo422(t *testing.T) {
	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.LoadMoleculeCommand{},
		bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			return pkgerrors.NewParseError("unmatched ring bond 1")
		})))

	router := newTestRouter(t, testDeps{commandBus: commandBus}, true)

	body := bytes.NewBufferString(`{"descriptor": "C1CC"}`)
	req := httptest.NewRequest(http.MethodPost, "/molecules", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeAPIResponse(t, rec.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "unmatched ring bond 1", resp.Error.Message)
}

func TestDeleteMolecule(t *testing.T) {
	var captured commands.DeleteMoleculeCommand
	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.DeleteMoleculeCommand{},
		bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			captured = cmd.(commands.DeleteMoleculeCommand)
			return nil
		})))

	router := newTestRouter(t, testDeps{commandBus: commandBus}, true)

	// Stereo SMILES carries '/': it must survive as a query parameter.
	req := httptest.NewRequest(http.MethodDelete, "/molecules?descriptor=C%2FC%3DC%5CC", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, `C/C=C\C`, captured.Descriptor)
}

func TestDeleteMolecule_MissingDescriptor(t *testing.T) {
	router := newTestRouter(t, testDeps{}, true)

	req := httptest.NewRequest(http.MethodDelete, "/molecules", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRecord(t *testing.T) {
	var captured commands.DeleteRecordCommand
	commandBus := bus.NewCommandBus()
	require.NoError(t, commandBus.Register(commands.DeleteRecordCommand{},
		bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			captured = cmd.(commands.DeleteRecordCommand)
			return nil
		})))

	router := newTestRouter(t, testDeps{commandBus: commandBus}, true)

	req := httptest.NewRequest(http.MethodDelete, "/records/atom-CCO-0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "atom-CCO-0", captured.RecordID)
}

func TestRunQuery(t *testing.T) {
	var captured queries.RunQueryQuery
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.RunQueryQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			captured = q.(queries.RunQueryQuery)
			return &queries.RunQueryResult{
				MediaType: "application/json",
				Body:      []byte(`{"result": []}`),
				RowCount:  3,
			}, nil
		})))

	router := newTestRouter(t, testDeps{queryBus: queryBus}, true)

	body := bytes.NewBufferString("g.V().hasLabel('atom').count()")
	req := httptest.NewRequest(http.MethodPost, "/queries/gremlin", body)
	req.Header.Set("Accept", "*/*")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gremlin", captured.Language)
	assert.Equal(t, "g.V().hasLabel('atom').count()", captured.Body)
	assert.Empty(t, captured.MediaType)
	assert.Equal(t, "3", rec.Header().Get("X-Row-Count"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"result": []}`, rec.Body.String())
}

func TestRunQuery_UnknownLanguage(t *testing.T) {
	router := newTestRouter(t, testDeps{}, true)

	body := bytes.NewBufferString("SELECT * WHERE { ?s ?p ?o }")
	req := httptest.NewRequest(http.MethodPost, "/queries/graphql", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeAPIResponse(t, rec.Body)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "language must be one of")
}

func TestRunQuery_BodyTooLarge(t *testing.T) {
	router := newTestRouter(t, testDeps{}, true)

	body := bytes.NewBuffer(bytes.Repeat([]byte("g"), maxQueryBodyBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/queries/gremlin", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGetStatus(t *testing.T) {
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.GetStatusQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return &queries.GetStatusResult{
				Endpoint: ports.EndpointInfo{
					Backend: "neptune",
					Host:    "db.cluster.us-east-1.neptune.amazonaws.com",
					Port:    8182,
					IAMAuth: true,
				},
				Healthy: true,
			}, nil
		})))

	router := newTestRouter(t, testDeps{queryBus: queryBus}, true)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAPIResponse(t, rec.Body)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	endpoint := data["endpoint"].(map[string]interface{})
	assert.Equal(t, "neptune", endpoint["backend"])
	assert.Equal(t, float64(8182), endpoint["port"])
	assert.Equal(t, true, data["healthy"])
}

func TestListRuns(t *testing.T) {
	var captured queries.ListRunsQuery
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.ListRunsQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			captured = q.(queries.ListRunsQuery)
			return []queries.RunView{
				{RunID: "run-1", Status: "succeeded"},
				{RunID: "run-2", Status: "succeeded"},
			}, nil
		})))

	router := newTestRouter(t, testDeps{queryBus: queryBus}, true)

	req := httptest.NewRequest(http.MethodGet, "/runs?status=succeeded&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "succeeded", captured.Status)
	assert.Equal(t, 10, captured.Limit)

	resp := decodeAPIResponse(t, rec.Body)
	runs := resp.Data.([]interface{})
	assert.Len(t, runs, 2)
}

func TestGetRun_NotFound(t *testing.T) {
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryBus.Register(queries.GetRunQuery{},
		querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return nil, pkgerrors.NewNotFoundError("run")
		})))

	router := newTestRouter(t, testDeps{queryBus: queryBus}, true)

	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeAPIResponse(t, rec.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
