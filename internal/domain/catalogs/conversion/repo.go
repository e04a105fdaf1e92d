package conversion

import (
	"context"

	"meatpos/internal/core/id"
)

// Repository defines the interface for factor persistence.
type Repository interface {
	// Create inserts a new factor.
	Create(ctx context.Context, factor *Factor) error

	// Update modifies an existing factor with optimistic locking.
	Update(ctx context.Context, factor *Factor) error

	// GetByID retrieves a factor by ID.
	GetByID(ctx context.Context, factorID id.ID) (*Factor, error)

	// ListByCategory retrieves all factors for a category.
	ListByCategory(ctx context.Context, category Category) ([]*Factor, error)

	// ListAll retrieves every factor.
	ListAll(ctx context.Context) ([]*Factor, error)
}
