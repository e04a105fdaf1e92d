// Package expense provides the expense category catalog and the
// day-scoped expense ledger consumed by the day close.
package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/core/id"
)

// Category is a named expense bucket configured by the admin.
type Category struct {
	entity.BaseCatalog

	Name string `db:"name" json:"name"`
}

// NewCategory creates a new expense category.
func NewCategory(name string) *Category {
	return &Category{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Entry is a single spend recorded against a category on a business day.
type Entry struct {
	entity.BaseEntity

	CategoryID id.ID           `db:"category_id" json:"categoryId"`
	Date       string          `db:"date" json:"date"`
	Timestamp  time.Time       `db:"timestamp" json:"timestamp"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
}

// NewEntry creates an expense entry for a business day.
func NewEntry(categoryID id.ID, date string, amount decimal.Decimal) *Entry {
	return &Entry{
		BaseEntity: entity.NewBaseEntity(),
		CategoryID: categoryID,
		Date:       date,
		Timestamp:  time.Now().UTC(),
		Amount:     amount,
	}
}

// Validate implements entity.Validatable.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}
	if e.Date == "" {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
