package inventory

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
	testNow   = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	testActor = shared.Actor{Username: "maria", Role: "inventory-controller"}
)

func createTestItem(t *testing.T, stock int64) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(ItemSpec{
		Name:             "Tomatoes",
		Category:         "Produce",
		Unit:             "kg",
		InitialStock:     decimal.NewFromInt(stock),
		RestockThreshold: decimal.NewFromInt(5),
		MaxStock:         decimal.NewFromInt(100),
		Cost:             decimal.NewFromInt(5),
	}, testActor, testNow)
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates active item and raises created event", func(t *testing.T) {
		item, err := NewInventoryItem(ItemSpec{
			Name:         "  Olive Oil ",
			Unit:         "L",
			InitialStock: decimal.NewFromInt(12),
		}, testActor, testNow)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, "Olive Oil", item.Name)
		assert.True(t, item.IsActive)
		assert.Equal(t, 1, item.Version)
		require.Len(t, item.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeItemCreated, item.GetDomainEvents()[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		item, err := NewInventoryItem(ItemSpec{Unit: "kg"}, testActor, testNow)

		require.Error(t, err)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		_, err := NewInventoryItem(ItemSpec{Name: "Salt", Unit: "kg", InitialStock: decimal.NewFromInt(-1)}, testActor, testNow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Current stock")
	})

	t.Run("fails when threshold exceeds max stock", func(t *testing.T) {
		_, err := NewInventoryItem(ItemSpec{
			Name:             "Salt",
			Unit:             "kg",
			RestockThreshold: decimal.NewFromInt(50),
			MaxStock:         decimal.NewFromInt(10),
		}, testActor, testNow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Restock threshold")
	})
}

func TestInventoryItem_IsLowStock(t *testing.T) {
	tests := []struct {
		name  string
		stock int64
		want  bool
	}{
		{"below threshold", 3, true},
		{"at threshold", 5, true},
		{"above threshold", 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := createTestItem(t, tt.stock)
			assert.Equal(t, tt.want, item.IsLowStock())
		})
	}
}

func TestInventoryItem_ReceiveIntoBatch(t *testing.T) {
	t.Run("stock equals sum of batches", func(t *testing.T) {
		item := createTestItem(t, 0)

		_, err := item.ReceiveIntoBatch("BAT-1", decimal.NewFromInt(5), nil, testActor, testNow)
		require.NoError(t, err)
		_, err = item.ReceiveIntoBatch("BAT-2", decimal.NewFromInt(3), nil, testActor, testNow)
		require.NoError(t, err)

		assert.Len(t, item.Batches, 2)
		assert.Equal(t, "8", item.CurrentStock.String())
	})

	t.Run("same batch number accumulates", func(t *testing.T) {
		item := createTestItem(t, 0)

		_, err := item.ReceiveIntoBatch("BAT-1", decimal.NewFromInt(5), nil, testActor, testNow)
		require.NoError(t, err)
		batch, err := item.ReceiveIntoBatch("bat-1", decimal.NewFromInt(2), datePtr(2024, 6, 1), testActor, testNow)
		require.NoError(t, err)

		assert.Len(t, item.Batches, 1)
		assert.Equal(t, "7", batch.Quantity.String())
		require.NotNil(t, batch.ExpirationDate)
		assert.Equal(t, "7", item.CurrentStock.String())
	})

	t.Run("existing untracked stock moves into an opening batch", func(t *testing.T) {
		item := createTestItem(t, 10)

		_, err := item.ReceiveIntoBatch("BAT-PO-1", decimal.NewFromInt(8), nil, testActor, testNow)
		require.NoError(t, err)

		require.Len(t, item.Batches, 2)
		opening := item.FindBatch(OpeningBatchNumber)
		require.NotNil(t, opening)
		assert.Equal(t, "10", opening.Quantity.String())
		assert.Equal(t, "18", item.CurrentStock.String())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := createTestItem(t, 0)

		_, err := item.ReceiveIntoBatch("BAT-1", decimal.Zero, nil, testActor, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("raises replenished event when leaving low stock", func(t *testing.T) {
		item := createTestItem(t, 2)

		_, err := item.ReceiveIntoBatch("BAT-1", decimal.NewFromInt(10), nil, testActor, testNow)
		require.NoError(t, err)

		types := eventTypes(item)
		assert.Contains(t, types, EventTypeStockReceived)
		assert.Contains(t, types, EventTypeStockReplenished)
	})
}

func TestInventoryItem_Consume(t *testing.T) {
	t.Run("consumes earliest expiry first", func(t *testing.T) {
		item := createTestItem(t, 0)
		_, _ = item.ReceiveIntoBatch("LATE", decimal.NewFromInt(4), datePtr(2024, 7, 1), testActor, testNow)
		_, _ = item.ReceiveIntoBatch("NOEXP", decimal.NewFromInt(4), nil, testActor, testNow)
		_, _ = item.ReceiveIntoBatch("EARLY", decimal.NewFromInt(4), datePtr(2024, 6, 1), testActor, testNow)

		deductions, err := item.Consume("", decimal.NewFromInt(6), testActor, testNow)

		require.NoError(t, err)
		require.Len(t, deductions, 2)
		assert.Equal(t, "EARLY", deductions[0].BatchNumber)
		assert.Equal(t, "4", deductions[0].Quantity.String())
		assert.Equal(t, "LATE", deductions[1].BatchNumber)
		assert.Equal(t, "2", deductions[1].Quantity.String())
		assert.Equal(t, "6", item.CurrentStock.String())
		assert.Equal(t, "4", item.FindBatch("NOEXP").Quantity.String())
	})

	t.Run("consumes a named batch", func(t *testing.T) {
		item := createTestItem(t, 0)
		_, _ = item.ReceiveIntoBatch("A", decimal.NewFromInt(4), nil, testActor, testNow)
		_, _ = item.ReceiveIntoBatch("B", decimal.NewFromInt(4), nil, testActor, testNow)

		_, err := item.Consume("B", decimal.NewFromInt(3), testActor, testNow)

		require.NoError(t, err)
		assert.Equal(t, "1", item.FindBatch("B").Quantity.String())
		assert.Equal(t, "5", item.CurrentStock.String())
	})

	t.Run("fails when named batch is short", func(t *testing.T) {
		item := createTestItem(t, 0)
		_, _ = item.ReceiveIntoBatch("A", decimal.NewFromInt(2), nil, testActor, testNow)
		_, _ = item.ReceiveIntoBatch("B", decimal.NewFromInt(4), nil, testActor, testNow)

		_, err := item.Consume("A", decimal.NewFromInt(3), testActor, testNow)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, "6", item.CurrentStock.String())
	})

	t.Run("fails when total stock is short", func(t *testing.T) {
		item := createTestItem(t, 3)

		_, err := item.Consume("", decimal.NewFromInt(4), testActor, testNow)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, "3", item.CurrentStock.String())
	})

	t.Run("untracked stock is decremented directly and flags low stock", func(t *testing.T) {
		item := createTestItem(t, 10)

		_, err := item.Consume("", decimal.NewFromInt(6), testActor, testNow)

		require.NoError(t, err)
		assert.Equal(t, "4", item.CurrentStock.String())
		assert.Contains(t, eventTypes(item), EventTypeStockBelowThreshold)
	})
}

func TestInventoryItem_Update(t *testing.T) {
	t.Run("applies patch", func(t *testing.T) {
		item := createTestItem(t, 10)
		name := "Roma Tomatoes"
		threshold := decimal.NewFromInt(8)

		err := item.Update(ItemPatch{Name: &name, RestockThreshold: &threshold}, testActor, testNow.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "Roma Tomatoes", item.Name)
		assert.Equal(t, 2, item.Version)
		assert.Equal(t, testNow.Add(time.Hour), item.UpdatedAt)
	})

	t.Run("invalid patch leaves item untouched", func(t *testing.T) {
		item := createTestItem(t, 10)
		empty := ""

		err := item.Update(ItemPatch{Name: &empty}, testActor, testNow)

		require.Error(t, err)
		assert.Equal(t, "Tomatoes", item.Name)
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("stock of batch-tracked item cannot be patched", func(t *testing.T) {
		item := createTestItem(t, 0)
		_, _ = item.ReceiveIntoBatch("A", decimal.NewFromInt(4), nil, testActor, testNow)
		stock := decimal.NewFromInt(40)

		err := item.Update(ItemPatch{CurrentStock: &stock}, testActor, testNow)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInventoryItem_ExpiresWithin(t *testing.T) {
	t.Run("uses earliest stocked batch", func(t *testing.T) {
		item := createTestItem(t, 0)
		_, _ = item.ReceiveIntoBatch("A", decimal.NewFromInt(4), datePtr(2024, 5, 14), testActor, testNow)
		_, _ = item.ReceiveIntoBatch("B", decimal.NewFromInt(4), datePtr(2024, 8, 1), testActor, testNow)

		assert.True(t, item.ExpiresWithin(testNow, 7))
		assert.False(t, item.ExpiresWithin(testNow, 2))
	})

	t.Run("includes already expired stock", func(t *testing.T) {
		item := createTestItem(t, 3)
		item.ExpirationDate = datePtr(2024, 5, 1)

		assert.True(t, item.ExpiresWithin(testNow, 7))
	})

	t.Run("no expiry never expires", func(t *testing.T) {
		item := createTestItem(t, 3)
		assert.False(t, item.ExpiresWithin(testNow, 365))
	})
}

func eventTypes(item *InventoryItem) []string {
	var types []string
	for _, e := range item.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	return types
}
