package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/infrastructure/http/v1/dto"
)

// SetupHandler serves business day setup endpoints.
type SetupHandler struct {
	*BaseHandler
	service *setup.Service
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(base *BaseHandler, service *setup.Service) *SetupHandler {
	return &SetupHandler{BaseHandler: base, service: service}
}

// StartDay opens a new business day.
func (h *SetupHandler) StartDay(c *gin.Context) {
	var req dto.StartDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, err := h.service.StartDay(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, day)
}

// Current returns the active day.
func (h *SetupHandler) Current(c *gin.Context) {
	day, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// UpdateRates adjusts the active day's rates and prices.
func (h *SetupHandler) UpdateRates(c *gin.Context) {
	var req dto.UpdateRatesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, err := h.service.UpdateRates(c.Request.Context(), req.PaperRate, req.ShopRate, req.ProductPrices)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// GetByDate returns the setup for a past business day.
func (h *SetupHandler) GetByDate(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	day, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}
