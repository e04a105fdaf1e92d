package expense

import (
	"context"

	"meatpos/internal/core/id"
)

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	ListAll(ctx context.Context) ([]*Category, error)
}

// EntryRepository defines the interface for expense entry persistence.
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, entryID id.ID) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	ListByDate(ctx context.Context, date string) ([]*Entry, error)
}
