package entities

import (
	"time"

	pkgerrors "molgraph/pkg/errors"
)

// RunStatus represents the state of a load run
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// LoadRun records one descriptor-to-store load: what was loaded, where,
// how many records, and how it ended. Runs are append-only history.
type LoadRun struct {
	RunID      string
	Descriptor string
	Backend    string
	NodeCount  int
	EdgeCount  int
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewLoadRun creates a pending run for a descriptor.
func NewLoadRun(runID, descriptor, backend string) (*LoadRun, error) {
	if runID == "" {
		return nil, pkgerrors.NewValidationError("run ID cannot be empty")
	}
	if descriptor == "" {
		return nil, pkgerrors.NewValidationError("descriptor cannot be empty")
	}
	return &LoadRun{
		RunID:      runID,
		Descriptor: descriptor,
		Backend:    backend,
		Status:     RunPending,
		StartedAt:  time.Now(),
	}, nil
}

// Succeed marks the run complete with its record counts.
func (r *LoadRun) Succeed(nodeCount, edgeCount int) {
	r.NodeCount = nodeCount
	r.EdgeCount = edgeCount
	r.Status = RunSucceeded
	r.FinishedAt = time.Now()
}

// Fail marks the run failed with the error that stopped it.
func (r *LoadRun) Fail(err error) {
	r.Status = RunFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = time.Now()
}
