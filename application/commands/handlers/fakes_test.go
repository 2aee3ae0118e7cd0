package handlers

import (
	"context"
	"sync"

	"molgraph/application/ports"
	"molgraph/domain/core/aggregates"
	"molgraph/domain/core/entities"
	"molgraph/domain/events"
)

// fakeGraphStore records every call so tests can assert on the exact
// upload and delete traffic.
type fakeGraphStore struct {
	mu sync.Mutex

	nodes      []aggregates.NodeRecord
	edges      []aggregates.EdgeRecord
	deletedIDs []string

	upsertNodesErr error
	upsertEdgesErr error
	deleteErr      error
}

func (s *fakeGraphStore) Name() string { return "fake" }

func (s *fakeGraphStore) UpsertNodes(ctx context.Context, nodes []aggregates.NodeRecord) error {
	if s.upsertNodesErr != nil {
		return s.upsertNodesErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, nodes...)
	return nil
}

func (s *fakeGraphStore) UpsertEdges(ctx context.Context, edges []aggregates.EdgeRecord) error {
	if s.upsertEdgesErr != nil {
		return s.upsertEdgesErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, edges...)
	return nil
}

func (s *fakeGraphStore) DeleteRecord(ctx context.Context, recordID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedIDs = append(s.deletedIDs, recordID)
	return nil
}

func (s *fakeGraphStore) Query(ctx context.Context, req ports.QueryRequest) (*ports.QueryResult, error) {
	return &ports.QueryResult{MediaType: "application/json", Body: []byte(`{}`)}, nil
}

func (s *fakeGraphStore) Endpoint() ports.EndpointInfo {
	return ports.EndpointInfo{Backend: "fake", Host: "localhost", Port: 8182}
}

func (s *fakeGraphStore) Close(ctx context.Context) error { return nil }

// fakeRunRepository keeps runs in memory keyed by ID.
type fakeRunRepository struct {
	mu      sync.Mutex
	runs    map[string]*entities.LoadRun
	saveErr error
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{runs: make(map[string]*entities.LoadRun)}
}

func (r *fakeRunRepository) Save(ctx context.Context, run *entities.LoadRun) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *run
	r.runs[run.RunID] = &copied
	return nil
}

func (r *fakeRunRepository) GetByID(ctx context.Context, runID string) (*entities.LoadRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[runID], nil
}

func (r *fakeRunRepository) List(ctx context.Context, status entities.RunStatus, limit int) ([]*entities.LoadRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.LoadRun
	for _, run := range r.runs {
		if status != "" && run.Status != status {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

// fakeEventBus collects published events.
type fakeEventBus struct {
	mu         sync.Mutex
	published  []events.DomainEvent
	publishErr error
}

func (b *fakeEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

func (b *fakeEventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, batch...)
	return nil
}
