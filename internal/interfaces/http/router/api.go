package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/hotel/backend/internal/interfaces/http/handler"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	Inventory     *handler.InventoryHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Supplier      *handler.SupplierHandler
	Menu          *handler.MenuHandler
	Budget        *handler.BudgetHandler
	Activity      *handler.ActivityHandler
	Stream        *handler.StreamHandler
}

// Security holds the middleware that authenticates and authorizes operators
type Security struct {
	Policy identity.Policy
	// Authenticate reads the bearer token from the Authorization header,
	// followed by any middleware that needs the operator in context
	Authenticate []gin.HandlerFunc
	// AuthenticateStream also accepts the token as a query parameter, since
	// browsers cannot set headers on EventSource or WebSocket requests
	AuthenticateStream []gin.HandlerFunc
}

// collectionResources maps streamable collections to the resource a
// subscriber must be allowed to read
var collectionResources = map[string]identity.Resource{
	store.CollectionInventory:      identity.ResourceInventory,
	store.CollectionPurchaseOrders: identity.ResourcePurchaseOrder,
	store.CollectionSuppliers:      identity.ResourceSupplier,
	store.CollectionMenu:           identity.ResourceMenu,
	store.CollectionBudgets:        identity.ResourceBudget,
	store.CollectionActivityLogs:   identity.ResourceActivityLog,
}

// APIGroups builds every route group of the hotel API
func APIGroups(h Handlers, sec Security) []*DomainGroup {
	systemRoutes := NewDomainGroup("system", "")
	systemRoutes.GET("/health", Public, h.System.Health)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", Public, h.Auth.Login)
	authRoutes.Group("session", "").
		Use(sec.Authenticate...).
		GET("/me", Public, h.Auth.Me).
		POST("/logout", Public, h.Auth.Logout)

	inventoryRoutes := NewDomainGroup("inventory", "/inventory").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourceInventory)
	inventoryRoutes.GET("", identity.ActionRead, h.Inventory.List)
	inventoryRoutes.POST("", identity.ActionCreate, h.Inventory.Create)
	inventoryRoutes.GET("/low-stock", identity.ActionRead, h.Inventory.GetLowStock)
	inventoryRoutes.GET("/expiring", identity.ActionRead, h.Inventory.GetExpiring)
	inventoryRoutes.GET("/export", identity.ActionRead, h.Inventory.Export)
	inventoryRoutes.GET("/:id", identity.ActionRead, h.Inventory.GetByID)
	inventoryRoutes.PUT("/:id", identity.ActionUpdate, h.Inventory.Update)
	inventoryRoutes.DELETE("/:id", identity.ActionDelete, h.Inventory.Delete)
	inventoryRoutes.GET("/:id/batches", identity.ActionRead, h.Inventory.GetBatches)
	inventoryRoutes.POST("/:id/batches", identity.ActionUpdate, h.Inventory.UpdateBatchStock)
	inventoryRoutes.POST("/:id/consume", identity.ActionConsume, h.Inventory.ConsumeStock)
	inventoryRoutes.GET("/:id/transactions", identity.ActionRead, h.Inventory.GetTransactions)

	orderRoutes := NewDomainGroup("purchase-orders", "/purchase-orders").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourcePurchaseOrder)
	orderRoutes.GET("", identity.ActionRead, h.PurchaseOrder.List)
	orderRoutes.POST("", identity.ActionCreate, h.PurchaseOrder.Create)
	orderRoutes.GET("/export", identity.ActionRead, h.PurchaseOrder.Export)
	orderRoutes.GET("/:id", identity.ActionRead, h.PurchaseOrder.GetByID)
	orderRoutes.PUT("/:id", identity.ActionUpdate, h.PurchaseOrder.Update)
	orderRoutes.DELETE("/:id", identity.ActionDelete, h.PurchaseOrder.Delete)
	orderRoutes.POST("/:id/approve", identity.ActionApprove, h.PurchaseOrder.Approve)
	orderRoutes.POST("/:id/reject", identity.ActionReject, h.PurchaseOrder.Reject)
	orderRoutes.POST("/:id/dispatch", identity.ActionDispatch, h.PurchaseOrder.Dispatch)
	orderRoutes.GET("/:id/receiving", identity.ActionReceive, h.PurchaseOrder.PrepareReceiving)
	orderRoutes.POST("/:id/receiving/preview", identity.ActionReceive, h.PurchaseOrder.PreviewReceiving)
	orderRoutes.POST("/:id/receive", identity.ActionReceive, h.PurchaseOrder.Receive)
	orderRoutes.POST("/:id/email", identity.ActionEmail, h.PurchaseOrder.SendEmail)

	supplierRoutes := NewDomainGroup("suppliers", "/suppliers").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourceSupplier)
	supplierRoutes.GET("", identity.ActionRead, h.Supplier.List)
	supplierRoutes.POST("", identity.ActionCreate, h.Supplier.Create)
	supplierRoutes.GET("/approved", identity.ActionRead, h.Supplier.ListApproved)
	supplierRoutes.GET("/:id", identity.ActionRead, h.Supplier.GetByID)
	supplierRoutes.PUT("/:id", identity.ActionUpdate, h.Supplier.Update)
	supplierRoutes.DELETE("/:id", identity.ActionDelete, h.Supplier.Delete)
	supplierRoutes.POST("/:id/approve", identity.ActionApprove, h.Supplier.Approve)
	supplierRoutes.GET("/:id/items", identity.ActionRead, h.Supplier.GetLinkedItems)

	menuRoutes := NewDomainGroup("menu", "/menu").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourceMenu)
	menuRoutes.GET("", identity.ActionRead, h.Menu.List)
	menuRoutes.POST("", identity.ActionCreate, h.Menu.Create)
	menuRoutes.GET("/available", identity.ActionRead, h.Menu.GetAvailable)
	menuRoutes.POST("/refresh-availability", identity.ActionUpdate, h.Menu.RefreshAvailability)
	menuRoutes.GET("/:id", identity.ActionRead, h.Menu.GetByID)
	menuRoutes.PUT("/:id", identity.ActionUpdate, h.Menu.Update)
	menuRoutes.DELETE("/:id", identity.ActionDelete, h.Menu.Delete)

	budgetRoutes := NewDomainGroup("budgets", "/budgets").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourceBudget)
	budgetRoutes.GET("", identity.ActionRead, h.Budget.ListByYear)
	budgetRoutes.GET("/:year/:month", identity.ActionRead, h.Budget.GetByMonth)
	budgetRoutes.PUT("/:year/:month", identity.ActionUpdate, h.Budget.SetBudget)
	budgetRoutes.POST("/:year/:month/recalculate", identity.ActionUpdate, h.Budget.Recalculate)

	activityRoutes := NewDomainGroup("activity-logs", "/activity-logs").
		Use(sec.Authenticate...).
		Guard(sec.Policy, identity.ResourceActivityLog)
	activityRoutes.GET("", identity.ActionRead, h.Activity.List)

	streamRoutes := NewDomainGroup("stream", "").
		Use(sec.AuthenticateStream...).
		Use(AuthorizeCollection(sec.Policy))
	streamRoutes.GET("/stream/:collection", Public, h.Stream.SSE)
	streamRoutes.GET("/ws/:collection", Public, h.Stream.WebSocket)

	return []*DomainGroup{
		systemRoutes,
		authRoutes,
		inventoryRoutes,
		orderRoutes,
		supplierRoutes,
		menuRoutes,
		budgetRoutes,
		activityRoutes,
		streamRoutes,
	}
}

// AuthorizeCollection checks read access to the collection named by the
// :collection parameter. Unknown collections pass through so the stream
// handler can answer with 404.
func AuthorizeCollection(policy identity.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource, ok := collectionResources[c.Param("collection")]
		if !ok {
			c.Next()
			return
		}
		middleware.Authorize(policy, resource, identity.ActionRead)(c)
	}
}
