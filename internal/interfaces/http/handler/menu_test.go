package handler

import (
	"net/http"
	"testing"

	menuapp "github.com/hotel/backend/internal/application/menu"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuHandler_RefreshAvailability(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/menu/available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]menuapp.MenuItemResponse](t, w).Data, 2)

	// use up every kilo of mozzarella
	w = env.do(t, http.MethodPost, "/api/v1/inventory/"+env.itemID(t, "Mozzarella")+"/consume", map[string]any{"quantity": "6"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/menu/refresh-availability", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[menuapp.RefreshResult](t, w).Data
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Changed)

	w = env.do(t, http.MethodGet, "/api/v1/menu/available", nil)
	available := decode[[]menuapp.MenuItemResponse](t, w).Data
	require.Len(t, available, 1)
	assert.Equal(t, "Tomato Bisque", available[0].Name)
}

func TestMenuHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/menu", map[string]any{
		"name":     "Caprese Salad",
		"category": "starters",
		"price":    "11.00",
		"required_ingredients": []map[string]any{
			{"ingredient_id": env.itemID(t, "Tomatoes"), "quantity_required": "0.2", "unit": "kg", "is_critical": true},
			{"ingredient_id": env.itemID(t, "Mozzarella"), "quantity_required": "0.15", "unit": "kg", "is_critical": true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[menuapp.MenuItemResponse](t, w).Data
	assert.True(t, created.IsAvailable)
	require.Len(t, created.RequiredIngredients, 2)

	id := created.ID.String()
	w = env.do(t, http.MethodPut, "/api/v1/menu/"+id, map[string]any{"price": "12.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "12.5", decode[menuapp.MenuItemResponse](t, w).Data.Price.String())

	w = env.do(t, http.MethodGet, "/api/v1/menu/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/menu/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/menu/"+id, nil)
	assertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = env.do(t, http.MethodGet, "/api/v1/menu", nil)
	assert.Equal(t, 2, decode[[]menuapp.MenuItemResponse](t, w).Meta.Total)
}
