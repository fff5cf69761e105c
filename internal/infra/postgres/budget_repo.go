package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danuarta/dompetku/internal/budget"
)

// BudgetRepository implements the budget repository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category_id, limit_amount, month, reason, created_at, updated_at`

// Upsert inserts the budget, or overwrites limit and reason when the
// (user, category, month) row already exists. The stored row's identity
// and timestamps are read back either way.
func (r *BudgetRepository) Upsert(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category_id, limit_amount, month, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, category_id, month)
		DO UPDATE SET limit_amount = EXCLUDED.limit_amount, reason = EXCLUDED.reason, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := queryerFrom(ctx, r.pool).QueryRow(ctx, query,
		b.ID, b.UserID, b.CategoryID, b.Limit, b.Month, b.Reason,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// GetByID retrieves a budget by ID
func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(queryerFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, budget.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// Update overwrites the budget's mutable fields.
func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $2, limit_amount = $3, month = $4, reason = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		b.ID, b.CategoryID, b.Limit, b.Month, b.Reason)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

// Delete removes the budget row.
func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := queryerFrom(ctx, r.pool).Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

// ListByMonth lists the user's budgets for one month.
func (r *BudgetRepository) ListByMonth(ctx context.Context, userID uuid.UUID, month string) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND month = $2 ORDER BY created_at`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func scanBudget(row pgx.Row) (*budget.Budget, error) {
	b := &budget.Budget{}
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Month, &b.Reason,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
