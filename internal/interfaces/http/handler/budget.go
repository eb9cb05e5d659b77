package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	budgetapp "github.com/hotel/backend/internal/application/budget"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// BudgetHandler handles monthly budget endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *budgetapp.BudgetService
	now           func() time.Time
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *budgetapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		now:           time.Now,
	}
}

// ListByYear godoc
// @Summary      Budgets of a year
// @Description  Defaults to the current year
// @Tags         budgets
// @Produce      json
// @Param        year query int false "Year"
// @Success      200 {object} APIResponse[[]budgetapp.BudgetResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets [get]
func (h *BudgetHandler) ListByYear(c *gin.Context) {
	year := h.now().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid year format")
			return
		}
		year = y
	}
	budgets, err := h.budgetService.GetByYear(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, budgets, len(budgets))
}

// GetByMonth godoc
// @Summary      Budget of a month
// @Tags         budgets
// @Produce      json
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} APIResponse[budgetapp.BudgetResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets/{year}/{month} [get]
func (h *BudgetHandler) GetByMonth(c *gin.Context) {
	year, month, ok := h.parseMonth(c)
	if !ok {
		return
	}
	b, err := h.budgetService.GetByMonth(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// SetBudget godoc
// @Summary      Set the allowance of a month
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Param        request body budgetapp.SetBudgetRequest true "Allowance"
// @Success      200 {object} APIResponse[budgetapp.BudgetResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets/{year}/{month} [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	year, month, ok := h.parseMonth(c)
	if !ok {
		return
	}
	var req budgetapp.SetBudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b, err := h.budgetService.SetBudget(c.Request.Context(), middleware.GetActor(c), year, month, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Recalculate godoc
// @Summary      Recompute a month's spending from delivered orders
// @Tags         budgets
// @Produce      json
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} APIResponse[budgetapp.BudgetResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /budgets/{year}/{month}/recalculate [post]
func (h *BudgetHandler) Recalculate(c *gin.Context) {
	year, month, ok := h.parseMonth(c)
	if !ok {
		return
	}
	b, err := h.budgetService.RecalculateSpent(c.Request.Context(), middleware.GetActor(c), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

func (h *BudgetHandler) parseMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year format")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid month format")
		return 0, 0, false
	}
	return year, month, true
}
