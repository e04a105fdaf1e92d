package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler serves expense category and entry endpoints.
type ExpenseHandler struct {
	*BaseHandler
	service *expense.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(base *BaseHandler, service *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, service: service}
}

// CreateCategory adds a new expense category.
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req dto.ExpenseCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// RenameCategory renames an expense category.
func (h *ExpenseHandler) RenameCategory(c *gin.Context) {
	categoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ExpenseCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.service.RenameCategory(c.Request.Context(), categoryID, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes an expense category.
func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "category deleted"})
}

// ListCategories returns all expense categories.
func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(categories))
}

// Record records a spend against a category. The date defaults to
// today.
func (h *ExpenseHandler) Record(c *gin.Context) {
	var req dto.RecordExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid category id").
			WithDetail("categoryId", req.CategoryID))
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(setup.DateLayout)
	}

	entry, err := h.service.Record(c.Request.Context(), categoryID, date, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Remove deletes an expense entry.
func (h *ExpenseHandler) Remove(c *gin.Context) {
	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), entryID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "expense removed"})
}

// ListForDay returns a day's expense entries.
func (h *ExpenseHandler) ListForDay(c *gin.Context) {
	date, ok := h.DateParam(c)
	if !ok {
		return
	}

	entries, err := h.service.ListForDay(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(entries))
}
