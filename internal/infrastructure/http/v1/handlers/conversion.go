package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meatpos/internal/core/appctx"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/infrastructure/http/v1/dto"
)

// ConversionHandler serves conversion factor endpoints.
type ConversionHandler struct {
	*BaseHandler
	service *conversion.Service
}

// NewConversionHandler creates a new conversion handler.
func NewConversionHandler(base *BaseHandler, service *conversion.Service) *ConversionHandler {
	return &ConversionHandler{BaseHandler: base, service: service}
}

// List returns the factors, optionally filtered by category.
func (h *ConversionHandler) List(c *gin.Context) {
	var factors []*conversion.Factor
	var err error

	if category := conversion.Category(c.Query("category")); category != "" {
		factors, err = h.service.List(c.Request.Context(), category)
	} else {
		factors, err = h.service.All(c.Request.Context())
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(factors))
}

// Update changes a factor's value, pushing the previous value into its
// history.
func (h *ConversionHandler) Update(c *gin.Context) {
	factorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateFactorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, factorID, req.Value, appctx.GetUserName(ctx), req.Notes); err != nil {
		h.Error(c, err)
		return
	}

	factor, err := h.service.Get(ctx, factorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, factor)
}

// History returns the flattened change history across all factors,
// newest first.
func (h *ConversionHandler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(entries))
}
