package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestJWTService()
	policy := identity.DefaultPolicy()

	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(DefaultJWTConfig(svc, nil)))
	router.POST("/orders/:id/approve",
		Authorize(policy, identity.ResourcePurchaseOrder, identity.ActionApprove),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/orders/:id/receive",
		Authorize(policy, identity.ResourcePurchaseOrder, identity.ActionReceive),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/inventory/:id/consume",
		Authorize(policy, identity.ResourceInventory, identity.ActionConsume),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		role       string
		path       string
		wantStatus int
	}{
		{"controller approves", "inventory-controller", "/orders/1/approve", http.StatusOK},
		{"officer cannot approve", "purchasing-officer", "/orders/1/approve", http.StatusForbidden},
		{"officer receives", "purchasing-officer", "/orders/1/receive", http.StatusOK},
		{"kitchen cannot receive", "kitchen-staff", "/orders/1/receive", http.StatusForbidden},
		{"kitchen consumes", "kitchen-staff", "/inventory/1/consume", http.StatusOK},
		{"officer cannot consume", "purchasing-officer", "/inventory/1/consume", http.StatusForbidden},
		{"unknown role", "chef", "/inventory/1/consume", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set(AuthHeaderKey, "Bearer "+issueToken(t, svc, "someone", tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), `"FORBIDDEN"`)
			}
		})
	}
}

func TestAuthorize_WithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", Authorize(identity.DefaultPolicy(), identity.ResourceMenu, identity.ActionRead),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
