package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestJWTService()
	jwtMW := JWTAuthMiddleware(DefaultJWTConfig(svc, nil))

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		remoteAddr string
		token      bool
		wantStatus int
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "192.0.2.1:1234", false, http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, "192.0.2.1:1234", false, http.StatusOK},
		{"cidr allows", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.0.2.0/24"}}, "192.0.2.9:1234", false, http.StatusOK},
		{"single ip allows", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:1234", false, http.StatusOK},
		{"ip rejected", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.2:1234", false, http.StatusForbidden},
		{"auth required without token", config.SwaggerConfig{Enabled: true, RequireAuth: true}, "192.0.2.1:1234", false, http.StatusUnauthorized},
		{"auth required with token", config.SwaggerConfig{Enabled: true, RequireAuth: true}, "192.0.2.1:1234", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/swagger/*any", SwaggerProtection(tt.cfg, jwtMW), func(c *gin.Context) {
				c.String(http.StatusOK, "docs")
			})

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.token {
				req.Header.Set(AuthHeaderKey, "Bearer "+issueToken(t, svc, "ines", "inventory-controller"))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
