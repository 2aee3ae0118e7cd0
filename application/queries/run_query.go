package queries

import (
	"errors"

	"molgraph/application/ports"
)

// RunQueryQuery forwards a raw query body to the graph store.
type RunQueryQuery struct {
	Language  string `json:"language"`
	Body      string `json:"body"`
	MediaType string `json:"media_type,omitempty"`
}

// Validate validates the query
func (q RunQueryQuery) Validate() error {
	switch ports.QueryLanguage(q.Language) {
	case ports.LanguageGremlin, ports.LanguageSPARQL, ports.LanguageCypher:
	default:
		return errors.New("language must be one of: gremlin, sparql, cypher")
	}
	if q.Body == "" {
		return errors.New("query body is required")
	}
	return nil
}

// RunQueryResult is the rendered result returned to the caller.
type RunQueryResult struct {
	MediaType string `json:"media_type"`
	Body      []byte `json:"body"`
	RowCount  int    `json:"row_count"`
}
