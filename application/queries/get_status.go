package queries

import (
	"molgraph/application/ports"
)

// GetStatusQuery reports the active store connection so callers can
// copy host/port into follow-up requests. Zero arguments by design.
type GetStatusQuery struct{}

// Validate validates the query
func (q GetStatusQuery) Validate() error {
	return nil
}

// GetStatusResult describes the active connection.
type GetStatusResult struct {
	Endpoint ports.EndpointInfo `json:"endpoint"`
	Healthy  bool               `json:"healthy"`
}
