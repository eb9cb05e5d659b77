package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-testing-at-least-32",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "hotel-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, username, role string) string {
	t.Helper()
	tok, err := svc.GenerateToken(auth.TokenInput{Username: username, Role: role})
	require.NoError(t, err)
	return tok.AccessToken
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(cfg))
	router.GET("/api/v1/health", func(c *gin.Context) { c.String(http.StatusOK, "up") })
	router.GET("/api/v1/inventory", func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"username": actor.Username, "role": string(GetRole(c))})
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newJWTRouter(DefaultJWTConfig(svc, blacklist))

	valid := issueToken(t, svc, "kai", "kitchen-staff")

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "skip path needs no token", path: "/api/v1/health", wantStatus: http.StatusOK, wantBody: "up"},
		{name: "missing header", path: "/api/v1/inventory", wantStatus: http.StatusUnauthorized, wantBody: `"UNAUTHORIZED"`},
		{name: "not bearer", path: "/api/v1/inventory", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: `"INVALID_TOKEN"`},
		{name: "empty bearer", path: "/api/v1/inventory", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: `"INVALID_TOKEN"`},
		{name: "garbage token", path: "/api/v1/inventory", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantBody: `"INVALID_TOKEN"`},
		{name: "valid token", path: "/api/v1/inventory", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: `"role":"kitchen-staff"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newJWTRouter(DefaultJWTConfig(svc, blacklist))

	token := issueToken(t, svc, "ines", "inventory-controller")
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"TOKEN_REVOKED"`)
	assert.Contains(t, w.Body.String(), `"request_id"`)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-testing-at-least-32",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "hotel-test",
	})
	router := newJWTRouter(DefaultJWTConfig(newTestJWTService(), nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+issueToken(t, expired, "kai", "kitchen-staff"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"TOKEN_EXPIRED"`)
}

func TestGetActor_WithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Equal(t, "system", GetActor(c).Username)
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	svc := newTestJWTService()
	token := issueToken(t, svc, "ines", "inventory-controller")

	cfg := DefaultJWTConfig(svc, nil)
	withQuery := cfg
	withQuery.QueryTokenParam = "access_token"

	w := httptest.NewRecorder()
	newJWTRouter(withQuery).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory?access_token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ines"`)

	w = httptest.NewRecorder()
	newJWTRouter(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory?access_token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
