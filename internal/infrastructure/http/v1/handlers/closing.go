package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meatpos/internal/domain/closing"
	"meatpos/internal/infrastructure/http/v1/dto"
)

// ClosingHandler serves day-closing endpoints.
type ClosingHandler struct {
	*BaseHandler
	service *closing.Service
}

// NewClosingHandler creates a new closing handler.
func NewClosingHandler(base *BaseHandler, service *closing.Service) *ClosingHandler {
	return &ClosingHandler{BaseHandler: base, service: service}
}

// Begin moves the active day into the closing state.
func (h *ClosingHandler) Begin(c *gin.Context) {
	day, err := h.service.Begin(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// Cancel returns a closing day to the open state.
func (h *ClosingHandler) Cancel(c *gin.Context) {
	day, err := h.service.Cancel(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// Submit reconciles and closes the active day.
func (h *ClosingHandler) Submit(c *gin.Context) {
	var req dto.SubmitClosingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetByDate returns a day's closing record.
func (h *ClosingHandler) GetByDate(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	record, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetArchivedDay returns the full archived snapshot for a closed day.
func (h *ClosingHandler) GetArchivedDay(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	day, err := h.service.GetArchivedDay(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}
