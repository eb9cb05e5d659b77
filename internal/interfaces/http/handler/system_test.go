package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
		wantState  string
	}{
		{name: "store reachable", store: store.NewMemoryGateway(nil), wantStatus: http.StatusOK, wantState: "ok"},
		{name: "store unreachable", store: failingPinger{}, wantStatus: http.StatusServiceUnavailable, wantState: "degraded"},
		{name: "no store", wantStatus: http.StatusOK, wantState: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("hotel-backend", "1.0.0", "memory", tt.store)
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			resp := decode[HealthResponse](t, w)
			assert.Equal(t, tt.wantState, resp.Data.Status)
			assert.Equal(t, "hotel-backend", resp.Data.Name)
			assert.Equal(t, "memory", resp.Data.Store)
			assert.NotEmpty(t, resp.Data.GoVersion)
		})
	}
}
