package dto

import (
	"github.com/shopspring/decimal"
)

// UpdateFactorRequest adjusts a conversion factor. The previous value
// moves into the factor's history.
type UpdateFactorRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
	Notes string          `json:"notes"`
}

// ExpenseCategoryRequest creates or renames an expense category.
type ExpenseCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RecordExpenseRequest records a spend against a category.
type RecordExpenseRequest struct {
	CategoryID string          `json:"categoryId" binding:"required"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}
