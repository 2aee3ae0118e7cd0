package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"molgraph/application/commands"
	"molgraph/application/commands/bus"
	"molgraph/application/ports"
	"molgraph/domain/chem/smiles"
	"molgraph/domain/core/aggregates"
	"molgraph/domain/core/valueobjects"
	"molgraph/domain/events"
	"molgraph/pkg/observability"
)

// DeleteMoleculeHandler removes every node record of a descriptor. IDs
// are re-derived from the descriptor, one delete call per node; edges
// go away with their endpoints (the store drops them on node removal).
type DeleteMoleculeHandler struct {
	store    ports.GraphStore
	eventBus ports.EventBus
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDeleteMoleculeHandler creates a new handler instance
func NewDeleteMoleculeHandler(
	store ports.GraphStore,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DeleteMoleculeHandler {
	return &DeleteMoleculeHandler{
		store:    store,
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *DeleteMoleculeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	del, ok := cmd.(commands.DeleteMoleculeCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	return h.handle(ctx, del)
}

func (h *DeleteMoleculeHandler) handle(ctx context.Context, cmd commands.DeleteMoleculeCommand) error {
	descriptor, err := valueobjects.NewDescriptor(cmd.Descriptor)
	if err != nil {
		return err
	}

	mol, err := smiles.Parse(descriptor.String())
	if err != nil {
		return err
	}
	graph := aggregates.NewMoleculeGraph(descriptor, mol)

	deleted := 0
	for _, id := range graph.NodeIDs() {
		if err := h.store.DeleteRecord(ctx, id); err != nil {
			h.metrics.StoreErrors.WithLabelValues(h.store.Name(), "delete_record").Inc()
			h.logger.Error("Failed to delete record",
				zap.String("recordID", id),
				zap.Int("deletedSoFar", deleted),
				zap.Error(err),
			)
			return err
		}
		deleted++
	}
	h.metrics.RecordsDeleted.WithLabelValues(h.store.Name()).Add(float64(deleted))

	event := events.NewMoleculeDeleted(descriptor.String(), h.store.Name(), deleted, time.Now())
	if err := h.eventBus.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish delete event", zap.Error(err))
	}

	h.logger.Info("Molecule records deleted",
		zap.String("descriptor", descriptor.String()),
		zap.Int("deleted", deleted),
	)
	return nil
}

// DeleteRecordHandler removes one record by identifier.
type DeleteRecordHandler struct {
	store    ports.GraphStore
	eventBus ports.EventBus
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDeleteRecordHandler creates a new handler instance
func NewDeleteRecordHandler(
	store ports.GraphStore,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DeleteRecordHandler {
	return &DeleteRecordHandler{
		store:    store,
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *DeleteRecordHandler) Handle(ctx context.Context, cmd bus.Command) error {
	del, ok := cmd.(commands.DeleteRecordCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	if err := h.store.DeleteRecord(ctx, del.RecordID); err != nil {
		h.metrics.StoreErrors.WithLabelValues(h.store.Name(), "delete_record").Inc()
		return err
	}
	h.metrics.RecordsDeleted.WithLabelValues(h.store.Name()).Inc()

	event := events.NewRecordDeleted(del.RecordID, h.store.Name(), time.Now())
	if err := h.eventBus.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish delete event", zap.Error(err))
	}
	return nil
}
