package setup

import (
	"context"
)

// Repository defines the interface for daily setup persistence.
type Repository interface {
	// Create inserts a new setup.
	Create(ctx context.Context, s *DailySetup) error

	// Update modifies an existing setup with optimistic locking.
	Update(ctx context.Context, s *DailySetup) error

	// GetActive retrieves the single active setup, or a not-found error.
	GetActive(ctx context.Context) (*DailySetup, error)

	// GetByDate retrieves a setup by business day.
	GetByDate(ctx context.Context, date string) (*DailySetup, error)

	// DeactivateAll clears the active flag on every setup.
	DeactivateAll(ctx context.Context) error
}
