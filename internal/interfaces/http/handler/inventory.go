package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	"github.com/hotel/backend/internal/infrastructure/export"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
	"github.com/xuri/excelize/v2"
)

const defaultExpiringDays = 7

// InventoryHandler handles inventory API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
	now              func() time.Time
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		now:              time.Now,
	}
}

// List godoc
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// GetByID godoc
// @Summary      Get inventory item by ID
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateItemRequest true "Item"
// @Success      201 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update godoc
// @Summary      Update inventory item
// @Description  Applies the given fields; omitted fields are left unchanged
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.UpdateItemRequest true "Changes"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete inventory item
// @Tags         inventory
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetLowStock godoc
// @Summary      Items at or below their restock threshold
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Security     BearerAuth
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	items, err := h.inventoryService.GetLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// GetExpiring godoc
// @Summary      Items with a batch expiring soon
// @Tags         inventory
// @Produce      json
// @Param        days query int false "Look-ahead window in days" default(7)
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/expiring [get]
func (h *InventoryHandler) GetExpiring(c *gin.Context) {
	days := defaultExpiringDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "days must be a non-negative integer")
			return
		}
		days = n
	}
	items, err := h.inventoryService.GetExpiring(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// UpdateBatchStock godoc
// @Summary      Add stock to a batch
// @Description  Locates or creates the batch by number, adds the quantity and records a receipt movement
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.UpdateBatchStockRequest true "Batch stock"
// @Success      200 {object} APIResponse[inventoryapp.BatchStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/batches [post]
func (h *InventoryHandler) UpdateBatchStock(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateBatchStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.UpdateBatchStock(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConsumeStock godoc
// @Summary      Consume stock
// @Description  Draws from the named batch, or from the earliest expiring batches when none is given
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.ConsumeStockRequest true "Consumption"
// @Success      200 {object} APIResponse[inventoryapp.ConsumeStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/consume [post]
func (h *InventoryHandler) ConsumeStock(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ConsumeStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.ConsumeStock(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBatches godoc
// @Summary      List an item's batches
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.BatchResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/batches [get]
func (h *InventoryHandler) GetBatches(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	batches, err := h.inventoryService.GetBatches(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, batches, len(batches))
}

// GetTransactions godoc
// @Summary      List an item's stock movements
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/transactions [get]
func (h *InventoryHandler) GetTransactions(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	txs, err := h.inventoryService.GetTransactions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, txs, len(txs))
}

// Export godoc
// @Summary      Export inventory as a spreadsheet
// @Tags         inventory
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /inventory/export [get]
func (h *InventoryHandler) Export(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f, filename, err := export.Inventory(items, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeWorkbook(c, f, filename)
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
