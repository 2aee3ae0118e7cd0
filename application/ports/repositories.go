package ports

import (
	"context"

	"molgraph/domain/core/aggregates"
	"molgraph/domain/core/entities"
	"molgraph/domain/events"
)

// QueryLanguage names a graph query dialect the store can execute.
type QueryLanguage string

const (
	LanguageGremlin QueryLanguage = "gremlin"
	LanguageSPARQL  QueryLanguage = "sparql"
	LanguageCypher  QueryLanguage = "cypher"
)

// QueryRequest is a raw query body forwarded to the store's query
// endpoint. MediaType selects the response serialization; when empty
// the store's default for the language applies.
type QueryRequest struct {
	Language  QueryLanguage
	Body      string
	MediaType string
}

// QueryResult is the store's rendered response, returned as received.
type QueryResult struct {
	MediaType string
	Body      []byte
	RowCount  int
}

// EndpointInfo reports the active connection for the status query.
// Informational only; never carries credentials.
type EndpointInfo struct {
	Backend  string `json:"backend"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	IAMAuth  bool   `json:"iam_auth"`
	Database string `json:"database,omitempty"`
}

// GraphStore defines the interface to the remote graph store.
// This is a port in hexagonal architecture - the domain doesn't know
// about the implementation (HTTP/Gremlin/SPARQL or Bolt/Cypher).
type GraphStore interface {
	// Name identifies the backend ("neptune", "neo4j")
	Name() string

	// UpsertNodes writes node records; same-ID records overwrite
	UpsertNodes(ctx context.Context, nodes []aggregates.NodeRecord) error

	// UpsertEdges writes edge records between previously written nodes
	UpsertEdges(ctx context.Context, edges []aggregates.EdgeRecord) error

	// DeleteRecord issues exactly one remove operation for one identifier
	DeleteRecord(ctx context.Context, recordID string) error

	// Query forwards a raw query body and returns the rendered result
	Query(ctx context.Context, req QueryRequest) (*QueryResult, error)

	// Endpoint reports the active connection settings
	Endpoint() EndpointInfo

	// Close releases the underlying connection
	Close(ctx context.Context) error
}

// RunRepository defines the interface for load-run history persistence
type RunRepository interface {
	// Save persists a run (create or update)
	Save(ctx context.Context, run *entities.LoadRun) error

	// GetByID retrieves a run by its ID
	GetByID(ctx context.Context, runID string) (*entities.LoadRun, error)

	// List retrieves recent runs, optionally filtered by status
	List(ctx context.Context, status entities.RunStatus, limit int) ([]*entities.LoadRun, error)
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
