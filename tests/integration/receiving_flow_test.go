//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	activityapp "github.com/hotel/backend/internal/application/activity"
	budgetapp "github.com/hotel/backend/internal/application/budget"
	procurementapp "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/domain/inventory"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/hotel/backend/internal/infrastructure/event"
	"github.com/hotel/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func findItem(t *testing.T, repo *persistence.DocumentInventoryItemRepository, name string) *inventory.InventoryItem {
	t.Helper()
	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("item %q not found", name)
	return nil
}

// TestReceivingFlow receives the seeded in-transit tomato order on PostgreSQL
// and follows the effects through stock, monthly spend and the activity log
func TestReceivingFlow(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	gw := NewPostgresGateway(t)
	now := time.Now().UTC()

	seeded, err := persistence.Seed(ctx, gw, now, log)
	require.NoError(t, err)
	require.Positive(t, seeded.Orders)

	itemRepo := persistence.NewDocumentInventoryItemRepository(gw)
	orderRepo := persistence.NewDocumentPurchaseOrderRepository(gw)
	budgetRepo := persistence.NewDocumentBudgetRepository(gw)
	activityRepo := persistence.NewDocumentActivityLogRepository(gw)

	receivingService := procurementapp.NewReceivingService(orderRepo, persistence.NewDocumentOrderScope(gw), log)
	budgetService := budgetapp.NewBudgetService(budgetRepo, orderRepo, log)
	activityService := activityapp.NewActivityService(activityRepo)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(activityapp.NewRecorder(activityRepo, log))
	bus.Subscribe(budgetapp.NewSpendHandler(budgetService))
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() {
		_ = bus.Stop(context.Background())
	})
	receivingService.SetEventPublisher(bus)

	inTransit, err := orderRepo.FindByStatus(ctx, procurement.StatusInTransit)
	require.NoError(t, err)
	require.Len(t, inTransit, 1)
	order := inTransit[0]

	tomatoesBefore := findItem(t, itemRepo, "Tomatoes").CurrentStock
	budgetBefore, err := budgetService.GetByMonth(ctx, now.Year(), int(now.Month()))
	require.NoError(t, err)

	controller := shared.Actor{Username: "controller", Role: "inventory-controller"}
	result, err := receivingService.Confirm(ctx, controller, order.ID, procurementapp.ReceiveRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(procurement.StatusDelivered), result.Order.Status)
	assert.Equal(t, "controller", result.ReceivedBy)
	assert.Len(t, result.Transactions, 1)

	tomatoesAfter := findItem(t, itemRepo, "Tomatoes").CurrentStock
	assert.Equal(t, tomatoesBefore.Add(decimal.NewFromInt(30)).String(), tomatoesAfter.String())

	stored, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.StatusDelivered, stored.Status)

	require.Eventually(t, func() bool {
		b, err := budgetService.GetByMonth(ctx, now.Year(), int(now.Month()))
		return err == nil && b.Spent.GreaterThan(budgetBefore.Spent)
	}, 5*time.Second, 50*time.Millisecond, "monthly spend should include the received order")

	require.Eventually(t, func() bool {
		logs, err := activityService.List(ctx, activityapp.ListRequest{EntityID: order.ID.String()})
		return err == nil && len(logs) > 0
	}, 5*time.Second, 50*time.Millisecond, "receipt should be recorded in the activity log")

	// a delivered order cannot be received twice
	_, err = receivingService.Confirm(ctx, controller, order.ID, procurementapp.ReceiveRequest{})
	require.Error(t, err)
	assert.Equal(t, tomatoesAfter.String(), findItem(t, itemRepo, "Tomatoes").CurrentStock.String())
}
