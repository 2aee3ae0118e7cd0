// Package neptune implements the graph store port against a
// Neptune-style HTTP endpoint: Gremlin scripts on /gremlin, SPARQL on
// /sparql, optional SigV4 request signing for IAM-enabled clusters.
package neptune

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"molgraph/application/ports"
	"molgraph/domain/core/aggregates"
	pkgerrors "molgraph/pkg/errors"
)

const (
	defaultGremlinAccept = "application/json"
	defaultSPARQLAccept  = "application/sparql-results+json"
	signingService       = "neptune-db"
)

// Store talks to one Neptune-style cluster endpoint.
type Store struct {
	httpClient *http.Client
	host       string
	port       int
	useTLS     bool
	iamAuth    bool
	batchSize  int

	awsCfg aws.Config
	signer *v4.Signer
	logger *zap.Logger
}

// Option configures the store
type Option func(*Store)

// WithHTTPClient overrides the HTTP client (tests use this).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.httpClient = c }
}

// NewStore creates a store for the given endpoint. awsCfg is only
// consulted when iamAuth is set.
func NewStore(host string, port int, useTLS, iamAuth bool, batchSize int, awsCfg aws.Config, logger *zap.Logger, opts ...Option) *Store {
	if batchSize <= 0 {
		batchSize = 50
	}
	s := &Store{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		host:       host,
		port:       port,
		useTLS:     useTLS,
		iamAuth:    iamAuth,
		batchSize:  batchSize,
		awsCfg:     awsCfg,
		signer:     v4.NewSigner(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements ports.GraphStore
func (s *Store) Name() string {
	return "neptune"
}

// UpsertNodes implements ports.GraphStore. Records are written in
// batches as fold/coalesce upserts so a repeated ID overwrites rather
// than duplicates.
func (s *Store) UpsertNodes(ctx context.Context, nodes []aggregates.NodeRecord) error {
	for start := 0; start < len(nodes); start += s.batchSize {
		end := start + s.batchSize
		if end > len(nodes) {
			end = len(nodes)
		}

		var script strings.Builder
		for _, n := range nodes[start:end] {
			fmt.Fprintf(&script,
				"g.V('%s').fold().coalesce(unfold(), addV('%s').property(id, '%s'))"+
					".property(single, 'atom_index', %d)"+
					".property(single, 'atomic_num', %d)"+
					".property(single, 'aromatic', %t).iterate()\n",
				escapeGremlin(n.ID), escapeGremlin(n.Label), escapeGremlin(n.ID),
				n.AtomIndex, n.AtomicNum, n.Aromatic)
		}
		if _, err := s.submitGremlin(ctx, script.String(), defaultGremlinAccept); err != nil {
			return pkgerrors.NewStoreError("upsert nodes", err)
		}
	}

	s.logger.Debug("Upserted node records", zap.Int("count", len(nodes)))
	return nil
}

// UpsertEdges implements ports.GraphStore.
func (s *Store) UpsertEdges(ctx context.Context, edges []aggregates.EdgeRecord) error {
	for start := 0; start < len(edges); start += s.batchSize {
		end := start + s.batchSize
		if end > len(edges) {
			end = len(edges)
		}

		var script strings.Builder
		for _, e := range edges[start:end] {
			fmt.Fprintf(&script,
				"g.E('%s').fold().coalesce(unfold(), "+
					"V('%s').addE('%s').to(V('%s')).property(id, '%s')).iterate()\n",
				escapeGremlin(e.ID),
				escapeGremlin(e.From), escapeGremlin(e.Label), escapeGremlin(e.To), escapeGremlin(e.ID))
		}
		if _, err := s.submitGremlin(ctx, script.String(), defaultGremlinAccept); err != nil {
			return pkgerrors.NewStoreError("upsert edges", err)
		}
	}

	s.logger.Debug("Upserted edge records", zap.Int("count", len(edges)))
	return nil
}

// DeleteRecord implements ports.GraphStore: one drop per call.
func (s *Store) DeleteRecord(ctx context.Context, recordID string) error {
	script := fmt.Sprintf("g.V('%s').drop().iterate()", escapeGremlin(recordID))
	if _, err := s.submitGremlin(ctx, script, defaultGremlinAccept); err != nil {
		return pkgerrors.NewStoreError("delete record", err)
	}
	return nil
}

// Query implements ports.GraphStore.
func (s *Store) Query(ctx context.Context, req ports.QueryRequest) (*ports.QueryResult, error) {
	switch req.Language {
	case ports.LanguageGremlin:
		accept := req.MediaType
		if accept == "" {
			accept = defaultGremlinAccept
		}
		body, err := s.submitGremlin(ctx, req.Body, accept)
		if err != nil {
			return nil, pkgerrors.NewStoreError("gremlin query", err)
		}
		return &ports.QueryResult{
			MediaType: accept,
			Body:      body,
			RowCount:  int(gjson.GetBytes(body, `result.data.\@value.#`).Int()),
		}, nil

	case ports.LanguageSPARQL:
		accept := req.MediaType
		if accept == "" {
			accept = defaultSPARQLAccept
		}
		body, err := s.submitSPARQL(ctx, req.Body, accept)
		if err != nil {
			return nil, pkgerrors.NewStoreError("sparql query", err)
		}
		rows := 0
		if accept == defaultSPARQLAccept {
			rows = int(gjson.GetBytes(body, "results.bindings.#").Int())
		}
		return &ports.QueryResult{MediaType: accept, Body: body, RowCount: rows}, nil

	default:
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("language %q is not supported by the neptune backend", req.Language))
	}
}

// Endpoint implements ports.GraphStore
func (s *Store) Endpoint() ports.EndpointInfo {
	return ports.EndpointInfo{
		Backend: s.Name(),
		Host:    s.host,
		Port:    s.port,
		IAMAuth: s.iamAuth,
	}
}

// Close implements ports.GraphStore
func (s *Store) Close(ctx context.Context) error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// submitGremlin posts a Gremlin script to /gremlin and returns the raw
// response body.
func (s *Store) submitGremlin(ctx context.Context, script, accept string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"gremlin": script})
	if err != nil {
		return nil, err
	}
	return s.post(ctx, "/gremlin", "application/json", accept, payload)
}

// submitSPARQL posts a SPARQL body to /sparql form-encoded.
func (s *Store) submitSPARQL(ctx context.Context, query, accept string) ([]byte, error) {
	form := url.Values{}
	key := "query"
	if isSPARQLUpdate(query) {
		key = "update"
	}
	form.Set(key, query)
	return s.post(ctx, "/sparql", "application/x-www-form-urlencoded", accept, []byte(form.Encode()))
}

func (s *Store) post(ctx context.Context, path, contentType, accept string, payload []byte) ([]byte, error) {
	scheme := "https"
	if !s.useTLS {
		scheme = "http"
	}
	endpoint := fmt.Sprintf("%s://%s:%d%s", scheme, s.host, s.port, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)

	if s.iamAuth {
		if err := s.sign(ctx, req, payload); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("endpoint returned %s: %s", resp.Status, truncate(body, 512))
	}
	return body, nil
}

// sign applies SigV4 to the outgoing request.
func (s *Store) sign(ctx context.Context, req *http.Request, payload []byte) error {
	creds, err := s.awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(payload)
	return s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]),
		signingService, s.awsCfg.Region, time.Now())
}

// escapeGremlin escapes a value for embedding in a single-quoted
// Gremlin string literal.
func escapeGremlin(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// isSPARQLUpdate decides whether a body goes in the update or the
// query form field.
func isSPARQLUpdate(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	for _, kw := range []string{"INSERT", "DELETE", "CLEAR", "DROP ", "CREATE", "LOAD"} {
		if strings.HasPrefix(head, kw) {
			return true
		}
	}
	return false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
