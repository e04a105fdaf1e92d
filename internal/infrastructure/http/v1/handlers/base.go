// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/documents/setup"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates a JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers an error on the Gin context and aborts. The JSON
// response is produced by middleware.ErrorHandler (single source of
// truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses a path parameter as an entity ID.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", param))
		return id.Nil(), false
	}
	return parsed, true
}

// DateParam returns the date path parameter, validated as a business
// day key.
func (h *BaseHandler) DateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := time.Parse(setup.DateLayout, date); err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("date", date))
		return "", false
	}
	return date, true
}
