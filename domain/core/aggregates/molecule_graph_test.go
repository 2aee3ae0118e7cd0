package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molgraph/domain/chem/smiles"
	"molgraph/domain/core/valueobjects"
)

func mustDescriptor(t *testing.T, s string) valueobjects.Descriptor {
	t.Helper()
	d, err := valueobjects.NewDescriptor(s)
	require.NoError(t, err)
	return d
}

func TestNewMoleculeGraph_Ethanol(t *testing.T) {
	descriptor := mustDescriptor(t, "CCO")
	mol, err := smiles.Parse(descriptor.String())
	require.NoError(t, err)

	graph := NewMoleculeGraph(descriptor, mol)

	require.Equal(t, 3, graph.NodeCount())
	require.Equal(t, 2, graph.EdgeCount())

	nodes := graph.Nodes()
	assert.Equal(t, "atom-CCO-0", nodes[0].ID)
	assert.Equal(t, "atom-CCO-2", nodes[2].ID)
	assert.Equal(t, "O", nodes[2].Label)
	assert.Equal(t, 8, nodes[2].AtomicNum)

	edges := graph.Edges()
	assert.Equal(t, "bond-CCO-0-1", edges[0].ID)
	assert.Equal(t, "atom-CCO-0", edges[0].From)
	assert.Equal(t, "atom-CCO-1", edges[0].To)
	assert.Equal(t, "SINGLE", edges[0].Label)

	assert.True(t, graph.Consistent())
}

func TestNewMoleculeGraph_Caffeine(t *testing.T) {
	descriptor := mustDescriptor(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C")
	mol, err := smiles.Parse(descriptor.String())
	require.NoError(t, err)

	graph := NewMoleculeGraph(descriptor, mol)

	assert.Equal(t, 14, graph.NodeCount())
	assert.Equal(t, 15, graph.EdgeCount())
	assert.True(t, graph.Consistent())

	// one record per atom, every ID distinct
	seen := make(map[string]bool)
	for _, id := range graph.NodeIDs() {
		assert.False(t, seen[id], "duplicate node ID %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 14)
}

func TestNewMoleculeGraph_Deterministic(t *testing.T) {
	descriptor := mustDescriptor(t, "c1ccccc1")
	mol, err := smiles.Parse(descriptor.String())
	require.NoError(t, err)

	first := NewMoleculeGraph(descriptor, mol)
	second := NewMoleculeGraph(descriptor, mol)

	assert.Equal(t, first.NodeIDs(), second.NodeIDs())
	require.Equal(t, first.EdgeCount(), second.EdgeCount())
	for i := range first.Edges() {
		assert.Equal(t, first.Edges()[i].ID, second.Edges()[i].ID)
	}
}

func TestMoleculeGraph_Events(t *testing.T) {
	descriptor := mustDescriptor(t, "CCO")
	mol, err := smiles.Parse(descriptor.String())
	require.NoError(t, err)

	graph := NewMoleculeGraph(descriptor, mol)
	require.Empty(t, graph.GetUncommittedEvents())

	graph.RecordLoaded("run-1", "neptune")
	events := graph.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "molecule.loaded", events[0].GetEventType())
	assert.Equal(t, "run-1", events[0].GetAggregateID())

	graph.MarkEventsAsCommitted()
	assert.Empty(t, graph.GetUncommittedEvents())
}
