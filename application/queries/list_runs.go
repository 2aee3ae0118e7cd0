package queries

import (
	"errors"

	"molgraph/domain/core/entities"
)

// ListRunsQuery retrieves recent load runs, optionally filtered by
// status.
type ListRunsQuery struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Validate validates the query
func (q ListRunsQuery) Validate() error {
	switch entities.RunStatus(q.Status) {
	case "", entities.RunPending, entities.RunSucceeded, entities.RunFailed:
	default:
		return errors.New("status must be one of: pending, succeeded, failed")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// GetRunQuery retrieves one run by its ID.
type GetRunQuery struct {
	RunID string `json:"run_id"`
}

// Validate validates the query
func (q GetRunQuery) Validate() error {
	if q.RunID == "" {
		return errors.New("run ID is required")
	}
	return nil
}

// RunView is the read model for one load run.
type RunView struct {
	RunID      string `json:"run_id"`
	Descriptor string `json:"descriptor"`
	Backend    string `json:"backend"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}
