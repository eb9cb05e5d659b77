package activity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type auditedStub struct {
	shared.BaseDomainEvent
}

func (auditedStub) ActivityAction() string { return shared.ActionReceive }
func (auditedStub) Describe() string       { return "Received purchase order PO-20240510-0001" }

func TestFromEvent(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	actor := shared.Actor{Username: "sam", Role: "purchasing-officer"}
	e := &auditedStub{BaseDomainEvent: shared.NewBaseDomainEvent("PurchaseOrderReceived", "purchase_order", id, actor, now)}

	entry := FromEvent(e)

	assert.Equal(t, "RECEIVE_PURCHASE_ORDER", entry.Type)
	assert.Equal(t, "purchase_order", entry.EntityType)
	assert.Equal(t, id.String(), entry.EntityID)
	assert.Equal(t, "purchasing-officer", entry.UserRole)
	assert.Equal(t, "sam", entry.PerformedBy)
	assert.Equal(t, now, entry.Timestamp)
	assert.Equal(t, "Received purchase order PO-20240510-0001", entry.Details)
}

func TestFilter_Matches(t *testing.T) {
	entry := &Log{EntityType: "inventory", EntityID: "abc"}

	assert.True(t, Filter{}.Matches(entry))
	assert.True(t, Filter{EntityType: "INVENTORY"}.Matches(entry))
	assert.False(t, Filter{EntityType: "menu_item"}.Matches(entry))
	assert.False(t, Filter{EntityID: "xyz"}.Matches(entry))
}
