package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meatpos/internal/domain/reports"
)

// ReportsHandler serves historical reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// History lists closing records for a period.
func (h *ReportsHandler) History(c *gin.Context) {
	filter := reports.HistoryFilter{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}

	report, err := h.service.GetHistory(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stats summarizes the closed days in a period.
func (h *ReportsHandler) Stats(c *gin.Context) {
	report, err := h.service.GetStats(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func intQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
