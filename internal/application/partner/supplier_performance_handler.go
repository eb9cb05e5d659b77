package partner

import (
	"context"
	"fmt"

	"github.com/hotel/backend/internal/domain/partner"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierPerformanceHandler folds each received order into the supplier's
// delivery metrics
type SupplierPerformanceHandler struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierPerformanceHandler creates a new handler for order received events
func NewSupplierPerformanceHandler(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierPerformanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierPerformanceHandler{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SupplierPerformanceHandler) EventTypes() []string {
	return []string{procurement.EventTypeOrderReceived}
}

// Handle records the delivery against the supplier
func (h *SupplierPerformanceHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*procurement.OrderReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypeOrderReceived, event.EventType())
	}

	supplier, err := h.supplierRepo.FindByID(ctx, received.SupplierID)
	if err != nil {
		return fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		h.logger.Warn("Supplier of received order no longer exists",
			zap.String("order_number", received.OrderNumber),
			zap.String("supplier_id", received.SupplierID.String()))
		return nil
	}

	supplier.RecordDelivery(received.OnTime, received.Accurate, received.ReceivedAt)
	if err := h.supplierRepo.Save(ctx, supplier); err != nil {
		return fmt.Errorf("save supplier: %w", err)
	}

	h.logger.Debug("Supplier performance updated",
		zap.String("supplier", supplier.Name),
		zap.String("order_number", received.OrderNumber),
		zap.Bool("on_time", received.OnTime),
		zap.Bool("accurate", received.Accurate))
	return nil
}
