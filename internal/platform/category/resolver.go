package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Resolver resolves free-text category names into category rows,
// materializing a user-owned category when no scoped match exists.
type Resolver struct {
	repo   Repository
	policy PlanPolicy
}

// NewResolver creates a new category resolver.
func NewResolver(repo Repository, policy PlanPolicy) *Resolver {
	return &Resolver{repo: repo, policy: policy}
}

// ResolveOrCreate finds the category matching (name, type) in the user's
// scope: exact, case-sensitive match against user-owned and system
// categories. When absent, a new user-owned category is created, subject
// to the plan quota; quota rejection surfaces ErrQuotaExceeded.
func (r *Resolver) ResolveOrCreate(ctx context.Context, userID uuid.UUID, name string, t Type) (*Category, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if !t.IsValid() {
		return nil, ErrInvalidType
	}

	existing, err := r.repo.FindScoped(ctx, userID, name, t)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	count, err := r.repo.CountCustom(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count custom categories: %w", err)
	}

	allowed, err := r.policy.AllowsCustomCategory(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to check category quota: %w", err)
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	uid := userID
	c := &Category{
		ID:       uuid.New(),
		UserID:   &uid,
		Name:     name,
		Type:     t,
		Color:    defaultColor,
		IsActive: true,
	}

	if err := r.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// List returns all active categories visible to the user.
func (r *Resolver) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return r.repo.ListScoped(ctx, userID)
}
