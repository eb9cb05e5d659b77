package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"github.com/hotel/backend/internal/interfaces/http/handler"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.String(http.StatusOK, c.Request.Method+" "+c.FullPath())
}

// asRole stands in for the JWT middleware
func asRole(role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{Username: "tester", Role: string(role)})
		c.Next()
	}
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	kitchen := NewDomainGroup("kitchen", "/kitchen")
	kitchen.GET("/ping", Public, func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	other := NewDomainGroup("other", "/other").GET("", Public, ok)

	r.Register(kitchen, other)
	assert.Len(t, r.registrars, 2)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/kitchen/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/other")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET /api/v1/other", w.Body.String())
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("menu", "/menu").
		GET("/:id", Public, ok).
		POST("", Public, ok).
		PUT("/:id", Public, ok).
		PATCH("/:id", Public, ok).
		DELETE("/:id", Public, ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/api/v1/menu/42", "GET /api/v1/menu/:id"},
		{http.MethodPost, "/api/v1/menu", "POST /api/v1/menu"},
		{http.MethodPut, "/api/v1/menu/42", "PUT /api/v1/menu/:id"},
		{http.MethodPatch, "/api/v1/menu/42", "PATCH /api/v1/menu/:id"},
		{http.MethodDelete, "/api/v1/menu/42", "DELETE /api/v1/menu/:id"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.target)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	assert.Equal(t, "menu", g.Name())
	assert.Equal(t, "/menu", g.Prefix())
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		}).
		GET("/items", Public, ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/test/items")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Group"))
}

func TestDomainGroup_Guard(t *testing.T) {
	policy := identity.DefaultPolicy()

	build := func(role identity.Role) *gin.Engine {
		engine := gin.New()
		api := engine.Group("/api/v1")
		if role != "" {
			api.Use(asRole(role))
		}
		g := NewDomainGroup("orders", "/purchase-orders").Guard(policy, identity.ResourcePurchaseOrder)
		g.GET("", identity.ActionRead, ok)
		g.POST("/:id/approve", identity.ActionApprove, ok)
		g.GET("/open", Public, ok)
		// subgroups inherit the guard
		g.Group("receiving", "/:id/receiving").POST("", identity.ActionReceive, ok)
		g.RegisterRoutes(api)
		return engine
	}

	tests := []struct {
		name   string
		role   identity.Role
		method string
		target string
		want   int
	}{
		{"controller approves", identity.RoleInventoryController, http.MethodPost, "/api/v1/purchase-orders/1/approve", http.StatusOK},
		{"officer reads", identity.RolePurchasingOfficer, http.MethodGet, "/api/v1/purchase-orders", http.StatusOK},
		{"officer may not approve", identity.RolePurchasingOfficer, http.MethodPost, "/api/v1/purchase-orders/1/approve", http.StatusForbidden},
		{"officer receives", identity.RolePurchasingOfficer, http.MethodPost, "/api/v1/purchase-orders/1/receiving", http.StatusOK},
		{"kitchen may not read orders", identity.RoleKitchenStaff, http.MethodGet, "/api/v1/purchase-orders", http.StatusForbidden},
		{"kitchen may not receive", identity.RoleKitchenStaff, http.MethodPost, "/api/v1/purchase-orders/1/receiving", http.StatusForbidden},
		{"public route skips the check", identity.RoleKitchenStaff, http.MethodGet, "/api/v1/purchase-orders/open", http.StatusOK},
		{"no claims", "", http.MethodGet, "/api/v1/purchase-orders", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(build(tt.role), tt.method, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("budgets", "/budgets").Guard(identity.DefaultPolicy(), identity.ResourceBudget)
	g.GET("", identity.ActionRead, ok)
	g.PUT("/:year/:month", identity.ActionUpdate, ok)
	g.Group("public", "/info").GET("", Public, ok)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/api/v1/budgets", Resource: identity.ResourceBudget, Action: identity.ActionRead},
		{Method: http.MethodPut, Path: "/api/v1/budgets/:year/:month", Resource: identity.ResourceBudget, Action: identity.ActionUpdate},
		{Method: http.MethodGet, Path: "/api/v1/budgets/info"},
	}, g.Routes("/api/v1"))
}

func TestAPIGroups(t *testing.T) {
	pass := func(c *gin.Context) { c.Next() }
	groups := APIGroups(Handlers{
		System:        &handler.SystemHandler{},
		Auth:          &handler.AuthHandler{},
		Inventory:     &handler.InventoryHandler{},
		PurchaseOrder: &handler.PurchaseOrderHandler{},
		Supplier:      &handler.SupplierHandler{},
		Menu:          &handler.MenuHandler{},
		Budget:        &handler.BudgetHandler{},
		Activity:      &handler.ActivityHandler{},
		Stream:        &handler.StreamHandler{},
	}, Security{
		Policy:             identity.DefaultPolicy(),
		Authenticate:       []gin.HandlerFunc{pass},
		AuthenticateStream: []gin.HandlerFunc{pass},
	})

	routes := map[string]RouteInfo{}
	for _, g := range groups {
		for _, r := range g.Routes("/api/v1") {
			key := r.Method + " " + r.Path
			_, dup := routes[key]
			require.False(t, dup, key)
			routes[key] = r
		}
	}

	expected := map[string]identity.Action{
		"GET /api/v1/health":                                 Public,
		"POST /api/v1/auth/login":                            Public,
		"GET /api/v1/auth/me":                                Public,
		"POST /api/v1/auth/logout":                           Public,
		"GET /api/v1/inventory":                              identity.ActionRead,
		"POST /api/v1/inventory/:id/consume":                 identity.ActionConsume,
		"POST /api/v1/inventory/:id/batches":                 identity.ActionUpdate,
		"GET /api/v1/purchase-orders/export":                 identity.ActionRead,
		"POST /api/v1/purchase-orders/:id/approve":           identity.ActionApprove,
		"POST /api/v1/purchase-orders/:id/reject":            identity.ActionReject,
		"POST /api/v1/purchase-orders/:id/dispatch":          identity.ActionDispatch,
		"POST /api/v1/purchase-orders/:id/receive":           identity.ActionReceive,
		"POST /api/v1/purchase-orders/:id/receiving/preview": identity.ActionReceive,
		"POST /api/v1/purchase-orders/:id/email":             identity.ActionEmail,
		"GET /api/v1/suppliers/approved":                     identity.ActionRead,
		"POST /api/v1/suppliers/:id/approve":                 identity.ActionApprove,
		"POST /api/v1/menu/refresh-availability":             identity.ActionUpdate,
		"PUT /api/v1/budgets/:year/:month":                   identity.ActionUpdate,
		"GET /api/v1/activity-logs":                          identity.ActionRead,
		"GET /api/v1/stream/:collection":                     Public,
		"GET /api/v1/ws/:collection":                         Public,
	}
	for key, action := range expected {
		r, found := routes[key]
		if assert.True(t, found, key) {
			assert.Equal(t, action, r.Action, key)
		}
	}
	assert.Equal(t, identity.ResourcePurchaseOrder, routes["POST /api/v1/purchase-orders/:id/receive"].Resource)
	assert.Equal(t, identity.ResourceActivityLog, routes["GET /api/v1/activity-logs"].Resource)

	// gin panics on conflicting routes
	assert.NotPanics(t, func() {
		r := NewRouter(gin.New())
		for _, g := range groups {
			r.Register(g)
		}
		r.Setup()
	})
}

func TestAuthorizeCollection(t *testing.T) {
	build := func(role identity.Role) *gin.Engine {
		engine := gin.New()
		engine.GET("/stream/:collection", asRole(role), AuthorizeCollection(identity.DefaultPolicy()), ok)
		return engine
	}

	tests := []struct {
		name   string
		role   identity.Role
		target string
		want   int
	}{
		{"kitchen streams menu", identity.RoleKitchenStaff, "/stream/menu", http.StatusOK},
		{"kitchen streams inventory", identity.RoleKitchenStaff, "/stream/inventory", http.StatusOK},
		{"kitchen may not stream orders", identity.RoleKitchenStaff, "/stream/purchaseOrders", http.StatusForbidden},
		{"officer streams budgets", identity.RolePurchasingOfficer, "/stream/budgets", http.StatusOK},
		{"unknown collection falls through", identity.RoleKitchenStaff, "/stream/transactions", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(build(tt.role), http.MethodGet, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
