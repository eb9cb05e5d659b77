package budget

import (
	"context"
	"fmt"

	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
)

// SpendHandler recalculates the spend of the month an order was received in
type SpendHandler struct {
	service *BudgetService
}

// NewSpendHandler creates a new handler for order received events
func NewSpendHandler(service *BudgetService) *SpendHandler {
	return &SpendHandler{service: service}
}

// EventTypes returns the event types this handler is interested in
func (h *SpendHandler) EventTypes() []string {
	return []string{procurement.EventTypeOrderReceived}
}

// Handle recalculates the affected month as the system actor
func (h *SpendHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*procurement.OrderReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypeOrderReceived, event.EventType())
	}
	at := received.ReceivedAt.UTC()
	_, err := h.service.RecalculateSpent(ctx, shared.System, at.Year(), int(at.Month()))
	return err
}
