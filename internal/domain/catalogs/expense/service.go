package expense

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/pkg/logger"
)

// Service provides business operations for expense categories and entries.
type Service struct {
	categories CategoryRepository
	entries    EntryRepository
}

// NewService creates a new expense service.
func NewService(categories CategoryRepository, entries EntryRepository) *Service {
	return &Service{
		categories: categories,
		entries:    entries,
	}
}

// CreateCategory adds a new expense category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	category := NewCategory(strings.TrimSpace(name))
	if err := category.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, category.Name) {
			return nil, apperror.NewDuplicate("expense category", "name", category.Name)
		}
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	logger.Info(ctx, "expense category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// RenameCategory updates a category name.
func (s *Service) RenameCategory(ctx context.Context, categoryID id.ID, name string) (*Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(name)
	if err := category.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, categoryID id.ID) error {
	return s.categories.Delete(ctx, categoryID)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.categories.ListAll(ctx)
}

// Record adds a spend against a category for a business day.
func (s *Service) Record(ctx context.Context, categoryID id.ID, date string, amount decimal.Decimal) (*Entry, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	entry := NewEntry(categoryID, date, amount)
	if err := entry.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create expense entry: %w", err)
	}

	logger.Info(ctx, "expense recorded",
		"entry_id", entry.ID,
		"category_id", categoryID,
		"date", date,
		"amount", amount,
	)
	return entry, nil
}

// Remove deletes an expense entry. Entries belonging to an already
// closed day are frozen inside the closing record and cannot be removed
// here; the caller enforces that ordering.
func (s *Service) Remove(ctx context.Context, entryID id.ID) error {
	return s.entries.Delete(ctx, entryID)
}

// ListForDay returns all entries recorded for a business day.
func (s *Service) ListForDay(ctx context.Context, date string) ([]*Entry, error) {
	return s.entries.ListByDate(ctx, date)
}

// TotalsForDay sums entries per category for a business day. Only
// categories with positive spend appear in the result.
func (s *Service) TotalsForDay(ctx context.Context, date string) (map[id.ID]decimal.Decimal, error) {
	entries, err := s.entries.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	totals := make(map[id.ID]decimal.Decimal)
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			continue
		}
		totals[e.CategoryID] = totals[e.CategoryID].Add(e.Amount)
	}
	return totals, nil
}
