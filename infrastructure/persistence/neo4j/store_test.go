package neo4j

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"molgraph/application/ports"
)

func TestNewStore_Defaults(t *testing.T) {
	store, err := NewStore("bolt://graph.example.com:7687", "neo4j", "secret", "", zap.NewNop())
	require.NoError(t, err)
	defer store.Close(context.Background())

	assert.Equal(t, "neo4j", store.Name())

	info := store.Endpoint()
	assert.Equal(t, "neo4j", info.Backend)
	assert.Equal(t, "graph.example.com", info.Host)
	assert.Equal(t, 7687, info.Port)
	assert.Equal(t, "neo4j", info.Database)
}

func TestStore_Query_RejectsNonCypher(t *testing.T) {
	store, err := NewStore("bolt://localhost:7687", "neo4j", "secret", "molecules", zap.NewNop())
	require.NoError(t, err)
	defer store.Close(context.Background())

	_, err = store.Query(context.Background(), ports.QueryRequest{
		Language: ports.LanguageGremlin,
		Body:     "g.V().count()",
	})
	assert.Error(t, err)
}

func TestSplitBoltURI(t *testing.T) {
	tests := []struct {
		uri  string
		host string
		port int
	}{
		{"bolt://localhost:7687", "localhost", 7687},
		{"neo4j://db.internal:9999", "db.internal", 9999},
		{"bolt://noport", "noport", 7687},
	}
	for _, tt := range tests {
		host, port := splitBoltURI(tt.uri)
		assert.Equal(t, tt.host, host)
		assert.Equal(t, tt.port, port)
	}
}
