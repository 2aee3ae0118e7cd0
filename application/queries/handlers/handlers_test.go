package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"molgraph/application/ports"
	"molgraph/application/queries"
	"molgraph/domain/core/aggregates"
	"molgraph/domain/core/entities"
	pkgerrors "molgraph/pkg/errors"
	"molgraph/pkg/observability"
)

// stubStore answers Query and Endpoint with canned values.
type stubStore struct {
	queryResult *ports.QueryResult
	queryErr    error
	lastRequest ports.QueryRequest
}

func (s *stubStore) Name() string { return "stub" }

func (s *stubStore) UpsertNodes(ctx context.Context, nodes []aggregates.NodeRecord) error {
	return nil
}

func (s *stubStore) UpsertEdges(ctx context.Context, edges []aggregates.EdgeRecord) error {
	return nil
}

func (s *stubStore) DeleteRecord(ctx context.Context, recordID string) error { return nil }

func (s *stubStore) Query(ctx context.Context, req ports.QueryRequest) (*ports.QueryResult, error) {
	s.lastRequest = req
	return s.queryResult, s.queryErr
}

func (s *stubStore) Endpoint() ports.EndpointInfo {
	return ports.EndpointInfo{Backend: "stub", Host: "db.example.com", Port: 8182, IAMAuth: true}
}

func (s *stubStore) Close(ctx context.Context) error { return nil }

// stubRunRepo serves a fixed run list.
type stubRunRepo struct {
	runs       []*entities.LoadRun
	getErr     error
	lastStatus entities.RunStatus
	lastLimit  int
}

func (r *stubRunRepo) Save(ctx context.Context, run *entities.LoadRun) error { return nil }

func (r *stubRunRepo) GetByID(ctx context.Context, runID string) (*entities.LoadRun, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, run := range r.runs {
		if run.RunID == runID {
			return run, nil
		}
	}
	return nil, nil
}

func (r *stubRunRepo) List(ctx context.Context, status entities.RunStatus, limit int) ([]*entities.LoadRun, error) {
	r.lastStatus = status
	r.lastLimit = limit
	return r.runs, nil
}

func TestRunQueryHandler(t *testing.T) {
	store := &stubStore{
		queryResult: &ports.QueryResult{
			MediaType: "application/json",
			Body:      []byte(`{"result":{"data":[]}}`),
			RowCount:  3,
		},
	}
	handler := NewRunQueryHandler(store, observability.NewMetrics(), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.RunQueryQuery{
		Language: "gremlin",
		Body:     "g.V().count()",
	})
	require.NoError(t, err)

	queryResult, ok := result.(*queries.RunQueryResult)
	require.True(t, ok)
	assert.Equal(t, "application/json", queryResult.MediaType)
	assert.Equal(t, 3, queryResult.RowCount)
	assert.Equal(t, ports.LanguageGremlin, store.lastRequest.Language)
	assert.Equal(t, "g.V().count()", store.lastRequest.Body)
}

func TestRunQueryHandler_StoreError(t *testing.T) {
	store := &stubStore{queryErr: errors.New("connection refused")}
	handler := NewRunQueryHandler(store, observability.NewMetrics(), zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.RunQueryQuery{
		Language: "sparql",
		Body:     "SELECT * WHERE { ?s ?p ?o }",
	})
	assert.Error(t, err)
}

func TestGetStatusHandler(t *testing.T) {
	handler := NewGetStatusHandler(&stubStore{})

	result, err := handler.Handle(context.Background(), queries.GetStatusQuery{})
	require.NoError(t, err)

	status, ok := result.(*queries.GetStatusResult)
	require.True(t, ok)
	assert.True(t, status.Healthy)
	assert.Equal(t, "db.example.com", status.Endpoint.Host)
	assert.Equal(t, 8182, status.Endpoint.Port)
	assert.True(t, status.Endpoint.IAMAuth)
}

func TestListRunsHandler(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubRunRepo{runs: []*entities.LoadRun{
		{
			RunID:      "run-1",
			Descriptor: "CCO",
			Backend:    "neptune",
			NodeCount:  3,
			EdgeCount:  2,
			Status:     entities.RunSucceeded,
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
		},
	}}
	handler := NewListRunsHandler(repo)

	result, err := handler.Handle(context.Background(), queries.ListRunsQuery{Status: "succeeded"})
	require.NoError(t, err)

	views, ok := result.([]queries.RunView)
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Equal(t, "run-1", views[0].RunID)
	assert.Equal(t, "succeeded", views[0].Status)
	assert.Equal(t, "2026-08-01T12:00:00Z", views[0].StartedAt)
	assert.NotEmpty(t, views[0].FinishedAt)

	assert.Equal(t, entities.RunSucceeded, repo.lastStatus)
	assert.Equal(t, defaultRunLimit, repo.lastLimit)
}

func TestGetRunHandler_NotFound(t *testing.T) {
	handler := NewGetRunHandler(&stubRunRepo{})

	_, err := handler.Handle(context.Background(), queries.GetRunQuery{RunID: "missing"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound))
}

func TestGetRunHandler_Found(t *testing.T) {
	repo := &stubRunRepo{runs: []*entities.LoadRun{
		{RunID: "run-9", Descriptor: "CCO", Status: entities.RunPending, StartedAt: time.Now()},
	}}
	handler := NewGetRunHandler(repo)

	result, err := handler.Handle(context.Background(), queries.GetRunQuery{RunID: "run-9"})
	require.NoError(t, err)

	view, ok := result.(*queries.RunView)
	require.True(t, ok)
	assert.Equal(t, "run-9", view.RunID)
}
