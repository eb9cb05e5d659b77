package handler

import (
	"github.com/gin-gonic/gin"
	menuapp "github.com/hotel/backend/internal/application/menu"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// MenuHandler handles menu endpoints
type MenuHandler struct {
	BaseHandler
	menuService *menuapp.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menuService *menuapp.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List godoc
// @Summary      List menu items
// @Tags         menu
// @Produce      json
// @Success      200 {object} APIResponse[[]menuapp.MenuItemResponse]
// @Security     BearerAuth
// @Router       /menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.menuService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// GetAvailable godoc
// @Summary      List dishes that can currently be served
// @Tags         menu
// @Produce      json
// @Success      200 {object} APIResponse[[]menuapp.MenuItemResponse]
// @Security     BearerAuth
// @Router       /menu/available [get]
func (h *MenuHandler) GetAvailable(c *gin.Context) {
	items, err := h.menuService.GetAvailable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// GetByID godoc
// @Summary      Get menu item by ID
// @Tags         menu
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Success      200 {object} APIResponse[menuapp.MenuItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu/{id} [get]
func (h *MenuHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      Create menu item
// @Description  Availability is computed from current stock
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        request body menuapp.CreateMenuItemRequest true "Dish"
// @Success      201 {object} APIResponse[menuapp.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req menuapp.CreateMenuItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.menuService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update godoc
// @Summary      Update menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Param        request body menuapp.UpdateMenuItemRequest true "Changes"
// @Success      200 {object} APIResponse[menuapp.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req menuapp.UpdateMenuItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.menuService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete menu item
// @Tags         menu
// @Param        id path string true "Menu item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RefreshAvailability godoc
// @Summary      Recompute availability of every dish
// @Tags         menu
// @Produce      json
// @Success      200 {object} APIResponse[menuapp.RefreshResult]
// @Security     BearerAuth
// @Router       /menu/refresh-availability [post]
func (h *MenuHandler) RefreshAvailability(c *gin.Context) {
	result, err := h.menuService.RefreshAvailability(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
