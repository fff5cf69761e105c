package category_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/dompetku/internal/platform/category"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockRepository) FindScoped(ctx context.Context, userID uuid.UUID, name string, t category.Type) (*category.Category, error) {
	args := m.Called(ctx, userID, name, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockRepository) ListScoped(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockRepository) CountCustom(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockPolicy is a mock implementation of PlanPolicy.
type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) AllowsCustomCategory(ctx context.Context, userID uuid.UUID, currentCount int) (bool, error) {
	args := m.Called(ctx, userID, currentCount)
	return args.Bool(0), args.Error(1)
}

func TestResolveOrCreate_ExistingMatch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	existing := &category.Category{ID: uuid.New(), Name: "Groceries", Type: category.TypeExpense}

	repo := new(MockRepository)
	repo.On("FindScoped", ctx, userID, "Groceries", category.TypeExpense).Return(existing, nil)

	resolver := category.NewResolver(repo, new(MockPolicy))

	got, err := resolver.ResolveOrCreate(ctx, userID, "Groceries", category.TypeExpense)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveOrCreate_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockRepository)
	repo.On("FindScoped", ctx, userID, "Side Hustle", category.TypeIncome).
		Return(nil, category.ErrCategoryNotFound)
	repo.On("CountCustom", ctx, userID).Return(1, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(nil)

	policy := new(MockPolicy)
	policy.On("AllowsCustomCategory", ctx, userID, 1).Return(true, nil)

	resolver := category.NewResolver(repo, policy)

	got, err := resolver.ResolveOrCreate(ctx, userID, "Side Hustle", category.TypeIncome)
	require.NoError(t, err)
	assert.Equal(t, "Side Hustle", got.Name)
	assert.Equal(t, category.TypeIncome, got.Type)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
	assert.True(t, got.IsActive)
}

func TestResolveOrCreate_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockRepository)
	repo.On("FindScoped", ctx, userID, "Yet Another", category.TypeExpense).
		Return(nil, category.ErrCategoryNotFound)
	repo.On("CountCustom", ctx, userID).Return(3, nil)

	policy := new(MockPolicy)
	policy.On("AllowsCustomCategory", ctx, userID, 3).Return(false, nil)

	resolver := category.NewResolver(repo, policy)

	_, err := resolver.ResolveOrCreate(ctx, userID, "Yet Another", category.TypeExpense)
	assert.ErrorIs(t, err, category.ErrQuotaExceeded)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveOrCreate_CaseSensitiveMatch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	// "groceries" does not match the stored "Groceries": a new category
	// is materialized.
	repo := new(MockRepository)
	repo.On("FindScoped", ctx, userID, "groceries", category.TypeExpense).
		Return(nil, category.ErrCategoryNotFound)
	repo.On("CountCustom", ctx, userID).Return(0, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(nil)

	policy := new(MockPolicy)
	policy.On("AllowsCustomCategory", ctx, userID, 0).Return(true, nil)

	resolver := category.NewResolver(repo, policy)

	got, err := resolver.ResolveOrCreate(ctx, userID, "groceries", category.TypeExpense)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Name)
}

func TestResolveOrCreate_InvalidInput(t *testing.T) {
	resolver := category.NewResolver(new(MockRepository), new(MockPolicy))

	_, err := resolver.ResolveOrCreate(context.Background(), uuid.New(), "", category.TypeExpense)
	assert.ErrorIs(t, err, category.ErrInvalidName)

	_, err = resolver.ResolveOrCreate(context.Background(), uuid.New(), "Food", category.Type("transfer"))
	assert.ErrorIs(t, err, category.ErrInvalidType)
}
