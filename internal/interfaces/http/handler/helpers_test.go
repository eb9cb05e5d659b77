package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/hotel/backend/internal/application/activity"
	budgetapp "github.com/hotel/backend/internal/application/budget"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	menuapp "github.com/hotel/backend/internal/application/menu"
	partnerapp "github.com/hotel/backend/internal/application/partner"
	procurementapp "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"github.com/hotel/backend/internal/infrastructure/persistence"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope mirrors dto.Response with a typed payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// asOperator stands in for the JWT middleware
func asOperator(username, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{Username: username, Role: role})
		c.Set(middleware.JWTUsernameKey, username)
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

type testEnv struct {
	gw        *store.MemoryGateway
	router    *gin.Engine
	orders    *persistence.DocumentPurchaseOrderRepository
	items     *persistence.DocumentInventoryItemRepository
	suppliers *persistence.DocumentSupplierRepository
	printer   ReceiptPrinter
}

type envOption func(*testEnv)

func withPrinter(p ReceiptPrinter) envOption {
	return func(e *testEnv) { e.printer = p }
}

// newTestEnv wires every handler on an in-memory store holding the demo data
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ctx := context.Background()
	gw := store.NewMemoryGateway(nil)
	_, err := persistence.Seed(ctx, gw, time.Now().UTC(), nil)
	require.NoError(t, err)

	env := &testEnv{
		gw:        gw,
		orders:    persistence.NewDocumentPurchaseOrderRepository(gw),
		items:     persistence.NewDocumentInventoryItemRepository(gw),
		suppliers: persistence.NewDocumentSupplierRepository(gw),
	}
	for _, opt := range opts {
		opt(env)
	}

	itemRepo := env.items
	supplierRepo := env.suppliers

	inventoryService := inventoryapp.NewInventoryService(itemRepo, persistence.NewDocumentTransactionRepository(gw),
		persistence.NewDocumentTransactionScope(gw), nil)
	orderScope := persistence.NewDocumentOrderScope(gw)
	orderService := procurementapp.NewPurchaseOrderService(env.orders, supplierRepo, itemRepo, orderScope, nil, nil)
	receivingService := procurementapp.NewReceivingService(env.orders, orderScope, nil)
	supplierService := partnerapp.NewSupplierService(supplierRepo, itemRepo, nil)
	menuService := menuapp.NewMenuService(persistence.NewDocumentMenuItemRepository(gw), itemRepo, nil)
	budgetService := budgetapp.NewBudgetService(persistence.NewDocumentBudgetRepository(gw), env.orders, nil)
	activityService := activityapp.NewActivityService(persistence.NewDocumentActivityLogRepository(gw))

	inv := NewInventoryHandler(inventoryService)
	po := NewPurchaseOrderHandler(orderService, receivingService, env.printer)
	sup := NewSupplierHandler(supplierService)
	mh := NewMenuHandler(menuService)
	bh := NewBudgetHandler(budgetService)
	ah := NewActivityHandler(activityService)

	r := gin.New()
	r.Use(middleware.RequestID(), asOperator("ines", "inventory-controller"))
	api := r.Group("/api/v1")

	api.GET("/inventory", inv.List)
	api.GET("/inventory/low-stock", inv.GetLowStock)
	api.GET("/inventory/expiring", inv.GetExpiring)
	api.GET("/inventory/export", inv.Export)
	api.POST("/inventory", inv.Create)
	api.GET("/inventory/:id", inv.GetByID)
	api.PUT("/inventory/:id", inv.Update)
	api.DELETE("/inventory/:id", inv.Delete)
	api.POST("/inventory/:id/batches", inv.UpdateBatchStock)
	api.POST("/inventory/:id/consume", inv.ConsumeStock)
	api.GET("/inventory/:id/batches", inv.GetBatches)
	api.GET("/inventory/:id/transactions", inv.GetTransactions)

	api.GET("/purchase-orders", po.List)
	api.GET("/purchase-orders/export", po.Export)
	api.POST("/purchase-orders", po.Create)
	api.GET("/purchase-orders/:id", po.GetByID)
	api.PUT("/purchase-orders/:id", po.Update)
	api.DELETE("/purchase-orders/:id", po.Delete)
	api.POST("/purchase-orders/:id/approve", po.Approve)
	api.POST("/purchase-orders/:id/reject", po.Reject)
	api.POST("/purchase-orders/:id/dispatch", po.Dispatch)
	api.GET("/purchase-orders/:id/receiving", po.PrepareReceiving)
	api.POST("/purchase-orders/:id/receiving/preview", po.PreviewReceiving)
	api.POST("/purchase-orders/:id/receive", po.Receive)
	api.POST("/purchase-orders/:id/email", po.SendEmail)

	api.GET("/suppliers", sup.List)
	api.GET("/suppliers/approved", sup.ListApproved)
	api.POST("/suppliers", sup.Create)
	api.GET("/suppliers/:id", sup.GetByID)
	api.PUT("/suppliers/:id", sup.Update)
	api.DELETE("/suppliers/:id", sup.Delete)
	api.POST("/suppliers/:id/approve", sup.Approve)
	api.GET("/suppliers/:id/items", sup.GetLinkedItems)

	api.GET("/menu", mh.List)
	api.GET("/menu/available", mh.GetAvailable)
	api.POST("/menu/refresh-availability", mh.RefreshAvailability)
	api.POST("/menu", mh.Create)
	api.GET("/menu/:id", mh.GetByID)
	api.PUT("/menu/:id", mh.Update)
	api.DELETE("/menu/:id", mh.Delete)

	api.GET("/budgets", bh.ListByYear)
	api.GET("/budgets/:year/:month", bh.GetByMonth)
	api.PUT("/budgets/:year/:month", bh.SetBudget)
	api.POST("/budgets/:year/:month/recalculate", bh.Recalculate)

	api.GET("/activity-logs", ah.List)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) itemID(t *testing.T, name string) string {
	t.Helper()
	items, err := e.items.FindAll(context.Background())
	require.NoError(t, err)
	for _, it := range items {
		if it.Name == name {
			return it.ID.String()
		}
	}
	t.Fatalf("item %s not seeded", name)
	return ""
}

func (e *testEnv) supplierID(t *testing.T, name string) string {
	t.Helper()
	suppliers, err := e.suppliers.FindAll(context.Background())
	require.NoError(t, err)
	for _, s := range suppliers {
		if s.Name == name {
			return s.ID.String()
		}
	}
	t.Fatalf("supplier %s not seeded", name)
	return ""
}

func (e *testEnv) orderID(t *testing.T, status string) string {
	t.Helper()
	orders, err := e.orders.FindAll(context.Background())
	require.NoError(t, err)
	for _, o := range orders {
		if string(o.Status) == status {
			return o.ID.String()
		}
	}
	t.Fatalf("no %s order seeded", status)
	return ""
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode[json.RawMessage](t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}
