package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/infrastructure/http/v1/dto"
)

// BillHandler serves point-of-sale billing endpoints.
type BillHandler struct {
	*BaseHandler
	service *bill.Service
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(base *BaseHandler, service *bill.Service) *BillHandler {
	return &BillHandler{BaseHandler: base, service: service}
}

// Create prices and records a sale on the active day.
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Get returns a single bill.
func (h *BillHandler) Get(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListForDay returns a day's bills, optionally filtered by category.
func (h *BillHandler) ListForDay(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	bills, err := h.service.ListForDay(c.Request.Context(), date, bill.Category(c.Query("category")))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(bills))
}

// Outstanding returns the day's partially paid bills with a balance.
func (h *BillHandler) Outstanding(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	bills, err := h.service.Outstanding(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(bills))
}

// RecordPayment applies an additional payment to a partial bill.
func (h *BillHandler) RecordPayment(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.RecordPayment(c.Request.Context(), billID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// CorrectPayment replaces the paid amount on a partial bill.
func (h *BillHandler) CorrectPayment(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.CorrectPayment(c.Request.Context(), billID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
