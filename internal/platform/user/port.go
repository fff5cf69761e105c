package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data access.
type Repository interface {
	// Create persists a new user row.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update overwrites the user's mutable fields, plan included.
	Update(ctx context.Context, user *User) error

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists checks if a user with the given email exists.
	Exists(ctx context.Context, email string) (bool, error)
}
