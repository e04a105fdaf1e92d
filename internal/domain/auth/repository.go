package auth

import (
	"context"

	"meatpos/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// List retrieves all users.
	List(ctx context.Context) ([]*User, error)

	// Exists checks if an email is already registered.
	Exists(ctx context.Context, email string) (bool, error)
}
