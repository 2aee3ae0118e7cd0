package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Molecule Events

// MoleculeLoaded is raised when a molecule's records reach the store
type MoleculeLoaded struct {
	BaseEvent
	RunID      string `json:"run_id"`
	Descriptor string `json:"descriptor"`
	Backend    string `json:"backend"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
}

// NewMoleculeLoaded creates a MoleculeLoaded event
func NewMoleculeLoaded(runID, descriptor, backend string, nodeCount, edgeCount int, timestamp time.Time) MoleculeLoaded {
	return MoleculeLoaded{
		BaseEvent: BaseEvent{
			AggregateID: runID,
			EventType:   "molecule.loaded",
			Timestamp:   timestamp,
			Version:     1,
		},
		RunID:      runID,
		Descriptor: descriptor,
		Backend:    backend,
		NodeCount:  nodeCount,
		EdgeCount:  edgeCount,
	}
}

// MoleculeDeleted is raised when a molecule's node records are removed
// from the store
type MoleculeDeleted struct {
	BaseEvent
	Descriptor string `json:"descriptor"`
	Backend    string `json:"backend"`
	Deleted    int    `json:"deleted"`
}

// NewMoleculeDeleted creates a MoleculeDeleted event
func NewMoleculeDeleted(descriptor, backend string, deleted int, timestamp time.Time) MoleculeDeleted {
	return MoleculeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: descriptor,
			EventType:   "molecule.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		Descriptor: descriptor,
		Backend:    backend,
		Deleted:    deleted,
	}
}

// RecordDeleted is raised when a single record is removed by identifier
type RecordDeleted struct {
	BaseEvent
	RecordID string `json:"record_id"`
	Backend  string `json:"backend"`
}

// NewRecordDeleted creates a RecordDeleted event
func NewRecordDeleted(recordID, backend string, timestamp time.Time) RecordDeleted {
	return RecordDeleted{
		BaseEvent: BaseEvent{
			AggregateID: recordID,
			EventType:   "record.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		RecordID: recordID,
		Backend:  backend,
	}
}
