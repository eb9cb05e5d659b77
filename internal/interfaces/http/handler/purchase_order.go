package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	procurementapp "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/domain/procurement"
	"github.com/hotel/backend/internal/infrastructure/export"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Receipt output formats of the receive endpoint
const (
	ReceiptFormatJSON = "json"
	ReceiptFormatHTML = "html"
	ReceiptFormatPDF  = "pdf"
)

// ReceiptPrinter renders the reconciliation document of a confirmed delivery
type ReceiptPrinter interface {
	HTML(ctx context.Context, result *procurementapp.ReceiveResult) ([]byte, error)
	PDF(ctx context.Context, result *procurementapp.ReceiveResult) ([]byte, error)
	PDFEnabled() bool
}

// PurchaseOrderHandler handles purchase order and receiving endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService     *procurementapp.PurchaseOrderService
	receivingService *procurementapp.ReceivingService
	printer          ReceiptPrinter
	now              func() time.Time
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler. A nil printer
// limits the receive endpoint to JSON.
func NewPurchaseOrderHandler(
	orderService *procurementapp.PurchaseOrderService,
	receivingService *procurementapp.ReceivingService,
	printer ReceiptPrinter,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService:     orderService,
		receivingService: receivingService,
		printer:          printer,
		now:              time.Now,
	}
}

// List godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        status query string false "Filter by status" Enums(pending, approved, in-transit, delivered, rejected)
// @Success      200 {object} APIResponse[[]procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, len(orders))
}

// GetByID godoc
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create godoc
// @Summary      Create purchase order
// @Description  Creates a pending order for an approved supplier
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req procurementapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @Summary      Update purchase order
// @Description  Only pending orders can be modified
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.UpdateOrderRequest true "Changes"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete purchase order
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve godoc
// @Summary      Approve purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.TransitionRequest false "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	h.transition(c, procurement.StatusApproved)
}

// Reject godoc
// @Summary      Reject purchase order
// @Description  A reason is required
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.TransitionRequest true "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	h.transition(c, procurement.StatusRejected)
}

// Dispatch godoc
// @Summary      Mark purchase order in transit
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.TransitionRequest false "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/dispatch [post]
func (h *PurchaseOrderHandler) Dispatch(c *gin.Context) {
	h.transition(c, procurement.StatusInTransit)
}

func (h *PurchaseOrderHandler) transition(c *gin.Context, target procurement.Status) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.TransitionRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Transition(c.Request.Context(), middleware.GetActor(c), id, target, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// PrepareReceiving godoc
// @Summary      Default receiving lines
// @Description  Every line included at its ordered quantity with a generated batch number
// @Tags         receiving
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receiving [get]
func (h *PurchaseOrderHandler) PrepareReceiving(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.receivingService.Prepare(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// PreviewReceiving godoc
// @Summary      Preview a delivery
// @Description  Computes discrepancies, line costs and the verified total without writing anything
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.ReceiveRequest true "Operator adjustments"
// @Success      200 {object} APIResponse[procurementapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receiving/preview [post]
func (h *PurchaseOrderHandler) PreviewReceiving(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	receipt, err := h.receivingService.Preview(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Receive godoc
// @Summary      Confirm a delivery
// @Description  Books every included line into its batch, marks the order delivered and returns the reconciliation document.
// @Description  format=html returns a printable page; format=pdf returns the same document as PDF.
// @Tags         receiving
// @Accept       json
// @Produce      json,text/html,application/pdf
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        format query string false "Response format" Enums(json, html, pdf) default(json)
// @Param        request body procurementapp.ReceiveRequest true "Operator adjustments"
// @Success      200 {object} APIResponse[procurementapp.ReceiveResult]
// @Failure      400 {object} ErrorResponse
// @Failure      406 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", ReceiptFormatJSON)
	if !h.formatSupported(format) {
		h.Error(c, dto.ErrCodeUnsupportedMediaType, "Receipt format "+format+" is not available")
		return
	}
	var req procurementapp.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.receivingService.Confirm(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// the delivery is committed; a rendering failure falls back to JSON
	switch format {
	case ReceiptFormatHTML:
		body, err := h.printer.HTML(c.Request.Context(), result)
		if err == nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			return
		}
		logger.GetGinLogger(c).Error("Receipt HTML rendering failed", zap.Error(err))
	case ReceiptFormatPDF:
		body, err := h.printer.PDF(c.Request.Context(), result)
		if err == nil {
			c.Header("Content-Disposition", `inline; filename="receipt-`+result.Order.OrderNumber+`.pdf"`)
			c.Data(http.StatusOK, "application/pdf", body)
			return
		}
		logger.GetGinLogger(c).Error("Receipt PDF rendering failed", zap.Error(err))
	}
	h.Success(c, result)
}

func (h *PurchaseOrderHandler) formatSupported(format string) bool {
	switch format {
	case ReceiptFormatJSON:
		return true
	case ReceiptFormatHTML:
		return h.printer != nil
	case ReceiptFormatPDF:
		return h.printer != nil && h.printer.PDFEnabled()
	}
	return false
}

// SendEmail godoc
// @Summary      Email purchase order to its supplier
// @Description  Subject and content default to a generated order summary. Mail endpoint failures are returned verbatim.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.SendEmailRequest false "Email"
// @Success      200 {object} SuccessResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/email [post]
func (h *PurchaseOrderHandler) SendEmail(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.SendEmailRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	if err := h.orderService.SendOrderEmail(c.Request.Context(), middleware.GetActor(c), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// Export godoc
// @Summary      Export purchase orders as a spreadsheet
// @Tags         purchase-orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status query string false "Filter by status"
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /purchase-orders/export [get]
func (h *PurchaseOrderHandler) Export(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f, filename, err := export.PurchaseOrders(orders, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeWorkbook(c, f, filename)
}
