package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"molgraph/application/commands"
	"molgraph/application/commands/bus"
	"molgraph/application/ports"
	"molgraph/domain/chem/smiles"
	"molgraph/domain/core/aggregates"
	"molgraph/domain/core/entities"
	"molgraph/domain/core/valueobjects"
	"molgraph/pkg/observability"
)

// LoadMoleculeHandler handles the LoadMoleculeCommand: parse the
// descriptor, project it into records, upload both collections, record
// the run, publish events.
type LoadMoleculeHandler struct {
	store    ports.GraphStore
	runRepo  ports.RunRepository
	eventBus ports.EventBus
	metrics  *observability.Metrics
	emitter  *observability.CloudWatchEmitter
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewLoadMoleculeHandler creates a new handler instance
func NewLoadMoleculeHandler(
	store ports.GraphStore,
	runRepo ports.RunRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	emitter *observability.CloudWatchEmitter,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *LoadMoleculeHandler {
	return &LoadMoleculeHandler{
		store:    store,
		runRepo:  runRepo,
		eventBus: eventBus,
		metrics:  metrics,
		emitter:  emitter,
		tracer:   tracer,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *LoadMoleculeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	load, ok := cmd.(commands.LoadMoleculeCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	_, err := h.handle(ctx, load)
	return err
}

func (h *LoadMoleculeHandler) handle(ctx context.Context, cmd commands.LoadMoleculeCommand) (*aggregates.MoleculeGraph, error) {
	descriptor, err := valueobjects.NewDescriptor(cmd.Descriptor)
	if err != nil {
		return nil, err
	}

	run, err := entities.NewLoadRun(cmd.RunID, descriptor.String(), h.store.Name())
	if err != nil {
		return nil, err
	}
	if err := h.runRepo.Save(ctx, run); err != nil {
		// History is best effort; the load itself must not depend on it
		h.logger.Warn("Failed to record pending run", zap.String("runID", run.RunID), zap.Error(err))
	}

	mol, err := smiles.Parse(descriptor.String())
	if err != nil {
		h.finishRun(ctx, run, err)
		return nil, err
	}

	graph := aggregates.NewMoleculeGraph(descriptor, mol)

	h.logger.Info("Uploading molecule graph",
		zap.String("runID", run.RunID),
		zap.String("descriptor", descriptor.String()),
		zap.String("backend", h.store.Name()),
		zap.Int("nodeCount", graph.NodeCount()),
		zap.Int("edgeCount", graph.EdgeCount()),
	)

	err = h.tracer.TraceStoreCall(ctx, "UpsertNodes", func(ctx context.Context) error {
		return h.store.UpsertNodes(ctx, graph.Nodes())
	})
	if err != nil {
		h.metrics.StoreErrors.WithLabelValues(h.store.Name(), "upsert_nodes").Inc()
		h.finishRun(ctx, run, err)
		return nil, err
	}

	err = h.tracer.TraceStoreCall(ctx, "UpsertEdges", func(ctx context.Context) error {
		return h.store.UpsertEdges(ctx, graph.Edges())
	})
	if err != nil {
		h.metrics.StoreErrors.WithLabelValues(h.store.Name(), "upsert_edges").Inc()
		h.finishRun(ctx, run, err)
		return nil, err
	}

	run.Succeed(graph.NodeCount(), graph.EdgeCount())
	if err := h.runRepo.Save(ctx, run); err != nil {
		h.logger.Warn("Failed to record finished run", zap.String("runID", run.RunID), zap.Error(err))
	}

	h.metrics.MoleculesLoaded.WithLabelValues(h.store.Name()).Inc()
	h.metrics.NodesUpserted.WithLabelValues(h.store.Name()).Add(float64(graph.NodeCount()))
	h.metrics.EdgesUpserted.WithLabelValues(h.store.Name()).Add(float64(graph.EdgeCount()))
	if h.emitter != nil {
		h.emitter.EmitLoad(ctx, h.store.Name(), graph.NodeCount(), graph.EdgeCount())
	}

	graph.RecordLoaded(run.RunID, h.store.Name())
	if err := h.eventBus.PublishBatch(ctx, graph.GetUncommittedEvents()); err != nil {
		// Events can be replayed from run history; never fail the load
		h.logger.Warn("Failed to publish load events", zap.String("runID", run.RunID), zap.Error(err))
	}
	graph.MarkEventsAsCommitted()

	h.logger.Info("Molecule loaded",
		zap.String("runID", run.RunID),
		zap.Int("nodeCount", graph.NodeCount()),
		zap.Int("edgeCount", graph.EdgeCount()),
	)
	return graph, nil
}

// finishRun marks a run failed and persists it best effort.
func (h *LoadMoleculeHandler) finishRun(ctx context.Context, run *entities.LoadRun, cause error) {
	run.Fail(cause)
	if err := h.runRepo.Save(ctx, run); err != nil {
		h.logger.Warn("Failed to record failed run",
			zap.String("runID", run.RunID),
			zap.Error(err),
		)
	}
}
