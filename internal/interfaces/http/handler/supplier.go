package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/hotel/backend/internal/application/partner"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// SupplierHandler handles supplier-related API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
	}
}

// List godoc
// @Summary      List suppliers
// @Description  ?approved=true restricts the list to approved suppliers
// @Tags         suppliers
// @Produce      json
// @Param        approved query bool false "Only approved suppliers"
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var (
		suppliers []partnerapp.SupplierResponse
		err       error
	)
	if c.Query("approved") == "true" {
		suppliers, err = h.supplierService.GetApproved(c.Request.Context())
	} else {
		suppliers, err = h.supplierService.List(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, suppliers, len(suppliers))
}

// ListApproved godoc
// @Summary      List approved suppliers
// @Tags         suppliers
// @Produce      json
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /suppliers/approved [get]
func (h *SupplierHandler) ListApproved(c *gin.Context) {
	suppliers, err := h.supplierService.GetApproved(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, suppliers, len(suppliers))
}

// GetByID godoc
// @Summary      Get supplier by ID
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create godoc
// @Summary      Create supplier
// @Description  New suppliers start unapproved
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update godoc
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.UpdateSupplierRequest true "Changes"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Approve godoc
// @Summary      Approve supplier
// @Description  Only approved suppliers can receive purchase orders
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/approve [post]
func (h *SupplierHandler) Approve(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.Approve(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @Summary      Delete supplier
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetLinkedItems godoc
// @Summary      Inventory items sourced from a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/items [get]
func (h *SupplierHandler) GetLinkedItems(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	items, err := h.supplierService.GetLinkedItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}
