package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appproc "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var controller = shared.Actor{Username: "controller", Role: string(identity.RoleInventoryController)}

// pausingGateway holds the first purchase order read until released
type pausingGateway struct {
	*store.MemoryGateway
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newPausingGateway(gw *store.MemoryGateway) *pausingGateway {
	return &pausingGateway{
		MemoryGateway: gw,
		reached:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (g *pausingGateway) Get(ctx context.Context, path string) (json.RawMessage, error) {
	doc, err := g.MemoryGateway.Get(ctx, path)
	if strings.HasPrefix(path, store.CollectionPurchaseOrders+"/") && g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return doc, err
}

func newOrderServices(gw store.Gateway) (*appproc.PurchaseOrderService, *appproc.ReceivingService) {
	orders := NewDocumentPurchaseOrderRepository(gw)
	scope := NewDocumentOrderScope(gw)
	orderService := appproc.NewPurchaseOrderService(orders, NewDocumentSupplierRepository(gw),
		NewDocumentInventoryItemRepository(gw), scope, nil, nil)
	return orderService, appproc.NewReceivingService(orders, scope, nil)
}

func seededOrder(t *testing.T, gw store.Gateway, status procurement.Status) *procurement.PurchaseOrder {
	t.Helper()
	orders, err := NewDocumentPurchaseOrderRepository(gw).FindByStatus(context.Background(), status)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	return orders[0]
}

func TestPurchaseOrderService_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway(nil)
	_, err := Seed(ctx, gw, testNow, nil)
	require.NoError(t, err)
	orderService, _ := newOrderServices(gw)

	suppliers, err := NewDocumentSupplierRepository(gw).FindApproved(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, suppliers)
	items, err := NewDocumentInventoryItemRepository(gw).FindAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	req := appproc.CreateOrderRequest{
		SupplierID: suppliers[0].ID,
		Items:      []appproc.OrderLineRequest{{ItemID: items[0].ID, Quantity: decimal.NewFromInt(3)}},
	}

	const workers = 16
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		numbers = make([]string, workers)
		errs    = make([]error, workers)
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			resp, err := orderService.Create(ctx, controller, req)
			errs[i] = err
			if resp != nil {
				numbers[i] = resp.OrderNumber
			}
		}()
	}
	close(start)
	wg.Wait()

	seen := map[string]bool{}
	for i := range workers {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "order number %s allocated twice", numbers[i])
		seen[numbers[i]] = true
	}
	assert.Len(t, seen, workers)
}

func TestPurchaseOrderService_TransitionDoesNotOverwriteReceipt(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryGateway(nil)
	_, err := Seed(ctx, mem, testNow, nil)
	require.NoError(t, err)
	gw := newPausingGateway(mem)
	orderService, receivingService := newOrderServices(gw)
	order := seededOrder(t, gw, procurement.StatusApproved)

	gw.armed.Store(true)
	transitionErr := make(chan error, 1)
	go func() {
		_, err := orderService.Transition(ctx, controller, order.ID, procurement.StatusInTransit, "")
		transitionErr <- err
	}()
	<-gw.reached

	var confirmed atomic.Bool
	confirmErr := make(chan error, 1)
	go func() {
		_, err := receivingService.Confirm(ctx, controller, order.ID, appproc.ReceiveRequest{})
		confirmed.Store(true)
		confirmErr <- err
	}()

	// the receipt waits for the dispatch that already read the order
	assert.Never(t, confirmed.Load, 50*time.Millisecond, 5*time.Millisecond)
	close(gw.release)
	require.NoError(t, <-transitionErr)
	require.NoError(t, <-confirmErr)

	final, err := NewDocumentPurchaseOrderRepository(mem).FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, procurement.StatusDelivered, final.Status)
	require.NotNil(t, final.ReceivedAt)
	var history []procurement.Status
	for _, change := range final.StatusHistory {
		history = append(history, change.Status)
	}
	assert.Equal(t, []procurement.Status{
		procurement.StatusPending,
		procurement.StatusApproved,
		procurement.StatusInTransit,
		procurement.StatusDelivered,
	}, history)

	_, err = receivingService.Confirm(ctx, controller, order.ID, appproc.ReceiveRequest{})
	assert.Error(t, err)
}

func TestPurchaseOrderService_DeleteWaitsForReceipt(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryGateway(nil)
	_, err := Seed(ctx, mem, testNow, nil)
	require.NoError(t, err)
	gw := newPausingGateway(mem)
	orderService, receivingService := newOrderServices(gw)
	order := seededOrder(t, gw, procurement.StatusInTransit)

	gw.armed.Store(true)
	confirmErr := make(chan error, 1)
	go func() {
		_, err := receivingService.Confirm(ctx, controller, order.ID, appproc.ReceiveRequest{})
		confirmErr <- err
	}()
	<-gw.reached

	var deleted atomic.Bool
	deleteErr := make(chan error, 1)
	go func() {
		err := orderService.Delete(ctx, controller, order.ID)
		deleted.Store(true)
		deleteErr <- err
	}()

	assert.Never(t, deleted.Load, 50*time.Millisecond, 5*time.Millisecond)
	close(gw.release)
	require.NoError(t, <-confirmErr)
	require.NoError(t, <-deleteErr)

	gone, err := NewDocumentPurchaseOrderRepository(mem).FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
