package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the load pipeline.
type Metrics struct {
	registry *prometheus.Registry

	MoleculesLoaded *prometheus.CounterVec
	NodesUpserted   *prometheus.CounterVec
	EdgesUpserted   *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		MoleculesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molgraph_molecules_loaded_total",
			Help: "Molecules successfully projected and uploaded.",
		}, []string{"backend"}),
		NodesUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molgraph_nodes_upserted_total",
			Help: "Node records upserted into the graph store.",
		}, []string{"backend"}),
		EdgesUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molgraph_edges_upserted_total",
			Help: "Edge records upserted into the graph store.",
		}, []string{"backend"}),
		RecordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molgraph_records_deleted_total",
			Help: "Records deleted from the graph store by identifier.",
		}, []string{"backend"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molgraph_store_errors_total",
			Help: "Graph store operations that returned an error.",
		}, []string{"backend", "operation"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "molgraph_query_duration_seconds",
			Help:    "Latency of query submissions to the graph store.",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"}),
	}

	registry.MustRegister(
		m.MoleculesLoaded,
		m.NodesUpserted,
		m.EdgesUpserted,
		m.RecordsDeleted,
		m.StoreErrors,
		m.QueryDuration,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
