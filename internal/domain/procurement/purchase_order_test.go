package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow        = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	testController = shared.Actor{Username: "maria", Role: "inventory-controller"}
	testOfficer    = shared.Actor{Username: "sam", Role: "purchasing-officer"}
)

func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(OrderSpec{
		OrderNumber:  "PO-20240510-0001",
		SupplierID:   uuid.New(),
		SupplierName: "Fresh Farms",
		Items: []OrderLine{
			{ItemID: uuid.New(), ItemName: "Tomatoes", Unit: "kg", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
			{ItemID: uuid.New(), ItemName: "Olive Oil", Unit: "L", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(20)},
		},
	}, testOfficer, testNow)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusInTransit, false},
		{StatusPending, StatusDelivered, false},
		{StatusApproved, StatusInTransit, true},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusInTransit, StatusDelivered, true},
		{StatusInTransit, StatusApproved, false},
		{StatusDelivered, StatusPending, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates pending order with initial history entry", func(t *testing.T) {
		order, err := NewPurchaseOrder(OrderSpec{
			OrderNumber: "PO-20240510-0001",
			SupplierID:  uuid.New(),
			Items: []OrderLine{
				{ItemID: uuid.New(), ItemName: "Tomatoes", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
			},
		}, testOfficer, testNow)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, order.Status)
		assert.Equal(t, PriorityNormal, order.Priority)
		assert.Equal(t, "sam", order.RequestedBy)
		assert.Equal(t, "50", order.TotalAmount.String())
		require.Len(t, order.StatusHistory, 1)
		assert.Equal(t, StatusPending, order.StatusHistory[0].Status)
		assert.Equal(t, testNow, order.StatusHistory[0].ChangedAt)
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeOrderCreated, order.GetDomainEvents()[0].EventType())
	})

	t.Run("requires at least one line", func(t *testing.T) {
		_, err := NewPurchaseOrder(OrderSpec{OrderNumber: "PO-1", SupplierID: uuid.New()}, testOfficer, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewPurchaseOrder(OrderSpec{
			OrderNumber: "PO-1",
			SupplierID:  uuid.New(),
			Items:       []OrderLine{{ItemID: uuid.New(), Quantity: decimal.Zero}},
		}, testOfficer, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Line 1")
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		_, err := NewPurchaseOrder(OrderSpec{
			OrderNumber: "PO-1",
			SupplierID:  uuid.New(),
			Priority:    "whenever",
			Items:       []OrderLine{{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		}, testOfficer, testNow)
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	t.Run("full path appends one entry per transition in order", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.Approve("", testController, testNow.Add(time.Hour)))
		require.NoError(t, order.Dispatch("", testController, testNow.Add(2*time.Hour)))
		receipt := PrepareReceipt(order)
		require.NoError(t, order.Receive(receipt, testOfficer, testNow.Add(3*time.Hour)))

		require.Len(t, order.StatusHistory, 4)
		statuses := []Status{}
		for _, h := range order.StatusHistory {
			statuses = append(statuses, h.Status)
		}
		assert.Equal(t, []Status{StatusPending, StatusApproved, StatusInTransit, StatusDelivered}, statuses)
		for i := 1; i < len(order.StatusHistory); i++ {
			assert.False(t, order.StatusHistory[i].ChangedAt.Before(order.StatusHistory[i-1].ChangedAt))
		}
		assert.Equal(t, "maria", order.ApprovedBy)
		require.NotNil(t, order.ApprovedAt)
		require.NotNil(t, order.ReceivedAt)
		assert.Equal(t, testNow.Add(3*time.Hour), *order.ReceivedAt)
	})

	t.Run("receiving an approved order advances through in-transit", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Approve("", testController, testNow))

		require.NoError(t, order.Receive(PrepareReceipt(order), testOfficer, testNow))

		require.Len(t, order.StatusHistory, 4)
		assert.Equal(t, StatusInTransit, order.StatusHistory[2].Status)
		assert.Equal(t, StatusDelivered, order.Status)
	})

	t.Run("cannot receive a pending order", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.Receive(PrepareReceipt(order), testOfficer, testNow)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Len(t, order.StatusHistory, 1)
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Reject("Over budget", testController, testNow))

		assert.ErrorIs(t, order.Approve("", testController, testNow), shared.ErrInvalidState)
		assert.Len(t, order.StatusHistory, 2)
		assert.Equal(t, "Over budget", order.StatusHistory[1].Reason)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		order := createTestOrder(t)
		assert.ErrorIs(t, order.Reject(" ", testController, testNow), shared.ErrInvalidInput)
	})

	t.Run("delivered is reachable only by receiving", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Approve("", testController, testNow))
		require.NoError(t, order.Dispatch("", testController, testNow))

		assert.ErrorIs(t, order.Transition(StatusDelivered, "", testController, testNow), shared.ErrInvalidState)
	})

	t.Run("receipt for another order is rejected", func(t *testing.T) {
		order := createTestOrder(t)
		other := createTestOrder(t)
		require.NoError(t, order.Approve("", testController, testNow))

		assert.ErrorIs(t, order.Receive(PrepareReceipt(other), testOfficer, testNow), shared.ErrInvalidInput)
	})
}

func TestPurchaseOrder_Update(t *testing.T) {
	t.Run("replaces lines and recomputes total while pending", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.Update(OrderPatch{Items: []OrderLine{
			{ItemID: uuid.New(), ItemName: "Rice", Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(2)},
		}}, testOfficer, testNow)

		require.NoError(t, err)
		assert.Equal(t, "6", order.TotalAmount.String())
	})

	t.Run("lines are frozen after approval", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Approve("", testController, testNow))

		err := order.Update(OrderPatch{Items: []OrderLine{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(3)},
		}}, testOfficer, testNow)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("notes can change after approval", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Approve("", testController, testNow))
		notes := "Deliver to service entrance"

		require.NoError(t, order.Update(OrderPatch{Notes: &notes}, testOfficer, testNow))
		assert.Equal(t, notes, order.Notes)
	})
}

func TestPurchaseOrder_IsOnTime(t *testing.T) {
	order := createTestOrder(t)
	expected := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	order.ExpectedDelivery = &expected

	sameDay := time.Date(2024, 5, 12, 22, 0, 0, 0, time.UTC)
	order.ReceivedAt = &sameDay
	assert.True(t, order.IsOnTime())

	late := time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)
	order.ReceivedAt = &late
	assert.False(t, order.IsOnTime())
}

func TestNextOrderNumber(t *testing.T) {
	day := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "PO-20240510-0001", NextOrderNumber(day, nil))
	assert.Equal(t, "PO-20240510-0004", NextOrderNumber(day, []string{
		"PO-20240510-0001", "PO-20240510-0003", "PO-20240509-0007",
	}))
}
