package aggregates

import (
	"fmt"
	"time"

	"molgraph/domain/core/entities"
	"molgraph/domain/core/valueobjects"
	"molgraph/domain/events"
)

// NodeRecord is the flat, upload-ready form of one atom.
type NodeRecord struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	AtomIndex int    `json:"atom_index"`
	AtomicNum int    `json:"atomic_num"`
	Aromatic  bool   `json:"aromatic"`
}

// EdgeRecord is the flat, upload-ready form of one bond. From and To
// reference NodeRecord IDs by value; the reference holds because both
// sides are derived from the same descriptor and index space.
type EdgeRecord struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// NodeRecordID builds the synthetic identifier for one atom of a
// descriptor. The same descriptor and index always produce the same ID,
// which makes re-uploads idempotent upserts.
func NodeRecordID(descriptor valueobjects.Descriptor, atomIndex int) string {
	return fmt.Sprintf("atom-%s-%d", descriptor.String(), atomIndex)
}

// EdgeRecordID builds the synthetic identifier for one bond.
func EdgeRecordID(descriptor valueobjects.Descriptor, begin, end int) string {
	return fmt.Sprintf("bond-%s-%d-%d", descriptor.String(), begin, end)
}

// MoleculeGraph is the aggregate produced by projecting a parsed
// molecule into node and edge records. Records are built once at
// construction and never mutated.
type MoleculeGraph struct {
	descriptor valueobjects.Descriptor
	nodes      []NodeRecord
	edges      []EdgeRecord
	builtAt    time.Time

	events []events.DomainEvent
}

// NewMoleculeGraph projects a parsed molecule into records: exactly one
// node record per atom and one edge record per bond, in input order.
func NewMoleculeGraph(descriptor valueobjects.Descriptor, mol *entities.Molecule) *MoleculeGraph {
	g := &MoleculeGraph{
		descriptor: descriptor,
		nodes:      make([]NodeRecord, 0, mol.AtomCount()),
		edges:      make([]EdgeRecord, 0, mol.BondCount()),
		builtAt:    time.Now(),
	}

	for _, atom := range mol.Atoms() {
		g.nodes = append(g.nodes, NodeRecord{
			ID:        NodeRecordID(descriptor, atom.Index),
			Label:     atom.Symbol,
			AtomIndex: atom.Index,
			AtomicNum: atom.AtomicNum,
			Aromatic:  atom.Aromatic,
		})
	}
	for _, bond := range mol.Bonds() {
		g.edges = append(g.edges, EdgeRecord{
			ID:    EdgeRecordID(descriptor, bond.Begin, bond.End),
			Label: string(bond.Order),
			From:  NodeRecordID(descriptor, bond.Begin),
			To:    NodeRecordID(descriptor, bond.End),
		})
	}
	return g
}

// Descriptor returns the source descriptor.
func (g *MoleculeGraph) Descriptor() valueobjects.Descriptor {
	return g.descriptor
}

// Nodes returns the node records in atom order.
func (g *MoleculeGraph) Nodes() []NodeRecord {
	return g.nodes
}

// Edges returns the edge records in bond order.
func (g *MoleculeGraph) Edges() []EdgeRecord {
	return g.edges
}

// NodeCount returns the number of node records.
func (g *MoleculeGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edge records.
func (g *MoleculeGraph) EdgeCount() int {
	return len(g.edges)
}

// NodeIDs returns the node identifiers. The cleanup path re-derives its
// delete targets from this list.
func (g *MoleculeGraph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Consistent reports whether every edge endpoint matches a node record
// of this graph. The projection guarantees this by construction; the
// method exists so callers and tests can assert it cheaply.
func (g *MoleculeGraph) Consistent() bool {
	known := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		known[n.ID] = true
	}
	for _, e := range g.edges {
		if !known[e.From] || !known[e.To] {
			return false
		}
	}
	return true
}

// RecordLoaded appends a MoleculeLoaded event for publication after a
// successful upload.
func (g *MoleculeGraph) RecordLoaded(runID, backend string) {
	g.events = append(g.events, events.NewMoleculeLoaded(
		runID,
		g.descriptor.String(),
		backend,
		g.NodeCount(),
		g.EdgeCount(),
		time.Now(),
	))
}

// GetUncommittedEvents returns events raised since the last commit.
func (g *MoleculeGraph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the pending event list.
func (g *MoleculeGraph) MarkEventsAsCommitted() {
	g.events = nil
}
