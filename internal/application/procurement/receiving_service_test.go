package procurement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow        = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	testController = shared.Actor{Username: "ines", Role: "inventory-controller"}
	testOfficer    = shared.Actor{Username: "sam", Role: "purchasing-officer"}
)

type receivingFixture struct {
	svc       *ReceivingService
	orderRepo *MockOrderRepository
	itemRepo  *MockItemRepository
	txRepo    *MockTransactionRepository
	publisher *MockEventPublisher
}

func newReceivingFixture() *receivingFixture {
	f := &receivingFixture{
		orderRepo: new(MockOrderRepository),
		itemRepo:  new(MockItemRepository),
		txRepo:    new(MockTransactionRepository),
		publisher: &MockEventPublisher{},
	}
	f.svc = NewReceivingService(f.orderRepo, NewNoOpOrderScope(f.itemRepo, f.txRepo, f.orderRepo), nil)
	f.svc.SetEventPublisher(f.publisher)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func newItem(t *testing.T, name string) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(inventory.ItemSpec{
		Name:             name,
		Unit:             "kg",
		RestockThreshold: decimal.NewFromInt(2),
	}, testController, testNow.AddDate(0, -1, 0))
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

// newApprovedOrder builds itemA: 10 @ 5 and itemB: 4 @ 20
func newApprovedOrder(t *testing.T, itemA, itemB *inventory.InventoryItem) *procurement.PurchaseOrder {
	t.Helper()
	expected := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	order, err := procurement.NewPurchaseOrder(procurement.OrderSpec{
		OrderNumber:  "PO-20240508-0001",
		SupplierID:   uuid.New(),
		SupplierName: "Fresh Farms",
		Items: []procurement.OrderLine{
			{ItemID: itemA.ID, ItemName: itemA.Name, Unit: "kg", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
			{ItemID: itemB.ID, ItemName: itemB.Name, Unit: "kg", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(20)},
		},
		ExpectedDelivery: &expected,
	}, testOfficer, testNow.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.NoError(t, order.Approve("", testController, testNow.AddDate(0, 0, -1)))
	order.ClearDomainEvents()
	return order
}

func TestReceivingService_Prepare(t *testing.T) {
	f := newReceivingFixture()
	order := newApprovedOrder(t, newItem(t, "Potatoes"), newItem(t, "Beef"))
	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	resp, err := f.svc.Prepare(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "BAT-PO-20240508-0001-1", resp.Lines[0].BatchNumber)
	assert.Equal(t, "BAT-PO-20240508-0001-2", resp.Lines[1].BatchNumber)
	assert.True(t, resp.Lines[0].Included)
	assert.Equal(t, "130", resp.VerifiedTotal.String())
	assert.True(t, resp.Accurate)
}

func TestReceivingService_Preview(t *testing.T) {
	f := newReceivingFixture()
	order := newApprovedOrder(t, newItem(t, "Potatoes"), newItem(t, "Beef"))
	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	eight := decimal.NewFromInt(8)
	resp, err := f.svc.Preview(context.Background(), order.ID, ReceiveRequest{
		Lines: []ReceiptLineRequest{{LineIndex: 0, ReceivedQuantity: &eight}},
	})

	require.NoError(t, err)
	assert.Equal(t, "120", resp.VerifiedTotal.String())
	assert.Equal(t, "-2", resp.Lines[0].Discrepancy.String())
	assert.Equal(t, "shortage", resp.Lines[0].Badge)
	assert.Equal(t, "40", resp.Lines[0].LineCost.String())
	assert.Equal(t, "0", resp.Lines[1].Discrepancy.String())
	assert.Empty(t, resp.Lines[1].Badge)
	assert.False(t, resp.Accurate)

	f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.publisher.Count())
}

func TestReceivingService_Confirm(t *testing.T) {
	t.Run("books stock and delivers the order", func(t *testing.T) {
		f := newReceivingFixture()
		itemA, itemB := newItem(t, "Potatoes"), newItem(t, "Beef")
		order := newApprovedOrder(t, itemA, itemB)
		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.itemRepo.On("FindByID", mock.Anything, itemA.ID).Return(itemA, nil)
		f.itemRepo.On("FindByID", mock.Anything, itemB.ID).Return(itemB, nil)
		f.itemRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.txRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		eight := decimal.NewFromInt(8)
		result, err := f.svc.Confirm(context.Background(), testOfficer, order.ID, ReceiveRequest{
			Lines: []ReceiptLineRequest{{LineIndex: 0, ReceivedQuantity: &eight}},
		})
		require.NoError(t, err)

		assert.Equal(t, "120", result.Receipt.VerifiedTotal.String())
		assert.Equal(t, "delivered", result.Order.Status)
		require.NotNil(t, result.Order.ActualTotalAmount)
		assert.Equal(t, "120", result.Order.ActualTotalAmount.String())
		assert.Equal(t, testNow, *result.Order.ReceivedAt)

		statuses := make([]string, len(result.Order.StatusHistory))
		for i, h := range result.Order.StatusHistory {
			statuses[i] = h.Status
		}
		assert.Equal(t, []string{"pending", "approved", "in-transit", "delivered"}, statuses)

		assert.Equal(t, "8", itemA.CurrentStock.String())
		assert.Equal(t, "4", itemB.CurrentStock.String())
		require.NotNil(t, itemA.FindBatch("BAT-PO-20240508-0001-1"))

		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "-2", result.Transactions[0].Discrepancy.String())
		assert.Equal(t, "PURCHASE_ORDER", result.Transactions[0].ReferenceType)
		assert.Equal(t, order.ID.String(), result.Transactions[0].ReferenceID)
		assert.Contains(t, result.Transactions[0].Notes, "discrepancy -2")
		assert.Equal(t, "0", result.Transactions[1].Discrepancy.String())

		received := f.publisher.GetEventsByType(procurement.EventTypeOrderReceived)
		require.Len(t, received, 1)
		evt := received[0].(*procurement.OrderReceivedEvent)
		assert.True(t, evt.OnTime)
		assert.False(t, evt.Accurate)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockReceived), 2)
		f.txRepo.AssertNumberOfCalls(t, "Append", 2)
	})

	t.Run("excluded and zero lines add nothing", func(t *testing.T) {
		f := newReceivingFixture()
		itemA, itemB := newItem(t, "Potatoes"), newItem(t, "Beef")
		order := newApprovedOrder(t, itemA, itemB)
		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)

		excluded := false
		zero := decimal.Zero
		result, err := f.svc.Confirm(context.Background(), testOfficer, order.ID, ReceiveRequest{
			Lines: []ReceiptLineRequest{
				{LineIndex: 0, Included: &excluded},
				{LineIndex: 1, ReceivedQuantity: &zero},
			},
		})

		require.NoError(t, err)
		assert.True(t, result.Receipt.VerifiedTotal.IsZero())
		assert.Empty(t, result.Transactions)
		f.itemRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.txRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("pending order cannot be received", func(t *testing.T) {
		f := newReceivingFixture()
		order, err := procurement.NewPurchaseOrder(procurement.OrderSpec{
			OrderNumber: "PO-20240510-0001",
			SupplierID:  uuid.New(),
			Items:       []procurement.OrderLine{{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		}, testOfficer, testNow)
		require.NoError(t, err)
		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err = f.svc.Confirm(context.Background(), testOfficer, order.ID, ReceiveRequest{})

		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing item fails without saving the order", func(t *testing.T) {
		f := newReceivingFixture()
		itemA, itemB := newItem(t, "Potatoes"), newItem(t, "Beef")
		order := newApprovedOrder(t, itemA, itemB)
		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.itemRepo.On("FindByID", mock.Anything, itemA.ID).Return(nil, nil)

		_, err := f.svc.Confirm(context.Background(), testOfficer, order.ID, ReceiveRequest{})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Equal(t, 0, f.publisher.Count())
	})

	t.Run("unknown line index", func(t *testing.T) {
		f := newReceivingFixture()
		order := newApprovedOrder(t, newItem(t, "Potatoes"), newItem(t, "Beef"))
		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.svc.Confirm(context.Background(), testOfficer, order.ID, ReceiveRequest{
			Lines: []ReceiptLineRequest{{LineIndex: 5}},
		})

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}
