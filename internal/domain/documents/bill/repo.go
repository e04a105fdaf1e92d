package bill

import (
	"context"

	"meatpos/internal/core/id"
)

// Repository defines the interface for bill persistence. Bills are
// never deleted within a day; they persist into the closing snapshot.
type Repository interface {
	// Create inserts a new bill.
	Create(ctx context.Context, b *Bill) error

	// Update modifies an existing bill with optimistic locking. Used
	// only for partial-payment completion and amount correction.
	Update(ctx context.Context, b *Bill) error

	// GetByID retrieves a bill by ID.
	GetByID(ctx context.Context, billID id.ID) (*Bill, error)

	// ListByDate retrieves all bills for a business day, oldest first.
	ListByDate(ctx context.Context, date string) ([]*Bill, error)

	// ListByCategory retrieves a day's bills for one sale channel.
	ListByCategory(ctx context.Context, date string, category Category) ([]*Bill, error)

	// ListByChickenType retrieves a day's bills for one product line.
	ListByChickenType(ctx context.Context, date string, chickenType ChickenType) ([]*Bill, error)
}
