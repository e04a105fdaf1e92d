package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/domain/registers/ledger"
)

// StockHandler serves stock ledger endpoints.
type StockHandler struct {
	*BaseHandler
	ledger *ledger.Service
	setups *setup.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service, setups *setup.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledgerSvc, setups: setups}
}

// Current returns the active day's stock snapshot.
func (h *StockHandler) Current(c *gin.Context) {
	day, err := h.setups.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	snap, err := h.ledger.Snapshot(c.Request.Context(), day.Date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ByDate returns the stock snapshot for a past business day.
func (h *StockHandler) ByDate(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	snap, err := h.ledger.Snapshot(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}
