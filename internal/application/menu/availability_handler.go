package menu

import (
	"context"

	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AvailabilityHandler re-evaluates the dishes that use an inventory item
// whenever that item's stock or definition changes
type AvailabilityHandler struct {
	service *MenuService
	logger  *zap.Logger
}

// NewAvailabilityHandler creates a new handler for stock change events
func NewAvailabilityHandler(service *MenuService, logger *zap.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *AvailabilityHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeItemCreated,
		inventory.EventTypeItemUpdated,
		inventory.EventTypeItemDeleted,
		inventory.EventTypeStockReceived,
		inventory.EventTypeStockConsumed,
	}
}

// Handle refreshes the affected dishes as the system actor
func (h *AvailabilityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	result, err := h.service.RefreshForIngredient(ctx, shared.System, event.AggregateID())
	if err != nil {
		return err
	}
	if result.Changed > 0 {
		h.logger.Debug("Menu availability follows stock change",
			zap.String("event", event.EventType()),
			zap.String("item_id", event.AggregateID().String()),
			zap.Int("changed", result.Changed))
	}
	return nil
}
