// Package neo4j implements the graph store port over Bolt. Atom
// records become :Atom nodes, bond records become :BOND relationships;
// MERGE keeps re-uploads idempotent the same way the Gremlin backend
// does with fold/coalesce.
package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"go.uber.org/zap"

	"molgraph/application/ports"
	"molgraph/domain/core/aggregates"
	pkgerrors "molgraph/pkg/errors"
)

// Store talks to one Neo4j (or Bolt-compatible) database.
type Store struct {
	driver   neo4j.Driver
	uri      string
	database string
	logger   *zap.Logger
}

// NewStore creates a store and verifies connectivity.
func NewStore(uri, username, password, database string, logger *zap.Logger) (*Store, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, pkgerrors.NewStoreError("connect", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Store{
		driver:   driver,
		uri:      uri,
		database: database,
		logger:   logger,
	}, nil
}

// Name implements ports.GraphStore
func (s *Store) Name() string {
	return "neo4j"
}

// UpsertNodes implements ports.GraphStore
func (s *Store) UpsertNodes(ctx context.Context, nodes []aggregates.NodeRecord) error {
	rows := make([]map[string]interface{}, len(nodes))
	for i, n := range nodes {
		rows[i] = map[string]interface{}{
			"id":         n.ID,
			"symbol":     n.Label,
			"atom_index": n.AtomIndex,
			"atomic_num": n.AtomicNum,
			"aromatic":   n.Aromatic,
		}
	}

	session := s.newSession()
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
			UNWIND $rows AS row
			MERGE (n:Atom {id: row.id})
			SET n.symbol = row.symbol,
			    n.atom_index = row.atom_index,
			    n.atomic_num = row.atomic_num,
			    n.aromatic = row.aromatic
		`
		_, err := tx.Run(query, map[string]interface{}{"rows": rows})
		return nil, err
	})
	if err != nil {
		return pkgerrors.NewStoreError("upsert nodes", err)
	}

	s.logger.Debug("Upserted node records", zap.Int("count", len(nodes)))
	return nil
}

// UpsertEdges implements ports.GraphStore
func (s *Store) UpsertEdges(ctx context.Context, edges []aggregates.EdgeRecord) error {
	rows := make([]map[string]interface{}, len(edges))
	for i, e := range edges {
		rows[i] = map[string]interface{}{
			"id":    e.ID,
			"order": e.Label,
			"from":  e.From,
			"to":    e.To,
		}
	}

	session := s.newSession()
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
			UNWIND $rows AS row
			MATCH (a:Atom {id: row.from})
			MATCH (b:Atom {id: row.to})
			MERGE (a)-[r:BOND {id: row.id}]->(b)
			SET r.order = row.order
		`
		_, err := tx.Run(query, map[string]interface{}{"rows": rows})
		return nil, err
	})
	if err != nil {
		return pkgerrors.NewStoreError("upsert edges", err)
	}

	s.logger.Debug("Upserted edge records", zap.Int("count", len(edges)))
	return nil
}

// DeleteRecord implements ports.GraphStore: one detach-delete per call.
func (s *Store) DeleteRecord(ctx context.Context, recordID string) error {
	session := s.newSession()
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		_, err := tx.Run(
			`MATCH (n {id: $id}) DETACH DELETE n`,
			map[string]interface{}{"id": recordID},
		)
		return nil, err
	})
	if err != nil {
		return pkgerrors.NewStoreError("delete record", err)
	}
	return nil
}

// Query implements ports.GraphStore. Only Cypher runs on this backend;
// results are rendered as a JSON array of records.
func (s *Store) Query(ctx context.Context, req ports.QueryRequest) (*ports.QueryResult, error) {
	if req.Language != ports.LanguageCypher {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("language %q is not supported by the neo4j backend", req.Language))
	}

	session := s.newSession()
	defer session.Close()

	rows, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(req.Body, nil)
		if err != nil {
			return nil, err
		}

		var collected []map[string]interface{}
		for result.Next() {
			record := result.Record()
			row := make(map[string]interface{}, len(record.Keys))
			for _, key := range record.Keys {
				value, _ := record.Get(key)
				row[key] = value
			}
			collected = append(collected, row)
		}
		return collected, result.Err()
	})
	if err != nil {
		return nil, pkgerrors.NewStoreError("cypher query", err)
	}

	collected := rows.([]map[string]interface{})
	body, err := json.Marshal(collected)
	if err != nil {
		return nil, pkgerrors.NewStoreError("encode result", err)
	}

	return &ports.QueryResult{
		MediaType: "application/json",
		Body:      body,
		RowCount:  len(collected),
	}, nil
}

// Endpoint implements ports.GraphStore
func (s *Store) Endpoint() ports.EndpointInfo {
	host, port := splitBoltURI(s.uri)
	return ports.EndpointInfo{
		Backend:  s.Name(),
		Host:     host,
		Port:     port,
		Database: s.database,
	}
}

// Close implements ports.GraphStore
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close()
}

func (s *Store) newSession() neo4j.Session {
	return s.driver.NewSession(neo4j.SessionConfig{DatabaseName: s.database})
}

func splitBoltURI(uri string) (string, int) {
	u, err := url.Parse(uri)
	if err != nil {
		return uri, 0
	}
	port := 7687
	if p := u.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	return u.Hostname(), port
}
