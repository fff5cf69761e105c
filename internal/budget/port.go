package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/category"
)

// Repository defines the interface for budget data access.
type Repository interface {
	// Upsert inserts the budget or, when the (user, category, month)
	// row already exists, overwrites its limit and reason in place.
	Upsert(ctx context.Context, b *Budget) error

	// GetByID retrieves a budget by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// Update overwrites the budget's category, limit, month and reason.
	Update(ctx context.Context, b *Budget) error

	// Delete removes the budget row.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByMonth lists the user's budgets for one month.
	ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*Budget, error)
}

// SpendStore answers aggregate spending questions from the transaction
// store. One grouped query per period, never one per category.
type SpendStore interface {
	// ExpenseByCategory sums active expense amounts in base currency
	// per category for the half-open interval [start, end).
	ExpenseByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

// CategoryStore resolves the categories budgets point at.
type CategoryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
	ListScoped(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}
