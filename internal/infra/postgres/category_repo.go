package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danuarta/dompetku/internal/platform/category"
)

// CategoryRepository implements the category repository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, type, color, is_active, is_system, created_at, updated_at`

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, color, is_active, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	_, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Type, c.Color, c.IsActive, c.IsSystem,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(queryerFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// FindScoped looks up a category by exact name and type within the
// user's scope: rows owned by the user plus system-global rows.
func (r *CategoryRepository) FindScoped(ctx context.Context, userID uuid.UUID, name string, t category.Type) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE (user_id = $1 OR user_id IS NULL) AND name = $2 AND type = $3 AND is_active
		ORDER BY user_id NULLS LAST
		LIMIT 1
	`

	c, err := scanCategory(queryerFrom(ctx, r.pool).QueryRow(ctx, query, userID, name, t))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return c, nil
}

// ListScoped returns the user's categories plus the system-global set.
func (r *CategoryRepository) ListScoped(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE (user_id = $1 OR user_id IS NULL) AND is_active
		ORDER BY is_system DESC, type, name
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCustom counts the user's own (non-system) categories.
func (r *CategoryRepository) CountCustom(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := queryerFrom(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1 AND is_active`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.IsActive, &c.IsSystem,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
