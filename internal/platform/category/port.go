package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for category data access.
type Repository interface {
	// Create creates a new category.
	Create(ctx context.Context, c *Category) error

	// GetByID retrieves a category by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindScoped finds an active category by exact name and type within
	// the user's scope (user-owned or system-global).
	FindScoped(ctx context.Context, userID uuid.UUID, name string, t Type) (*Category, error)

	// ListScoped lists all active categories visible to the user.
	ListScoped(ctx context.Context, userID uuid.UUID) ([]*Category, error)

	// CountCustom counts the categories owned by the user (system
	// categories excluded) regardless of active flag.
	CountCustom(ctx context.Context, userID uuid.UUID) (int, error)
}

// PlanPolicy answers whether a user may create another custom category.
// Backed by the user platform; the resolver never inspects plans itself.
type PlanPolicy interface {
	AllowsCustomCategory(ctx context.Context, userID uuid.UUID, currentCount int) (bool, error)
}
