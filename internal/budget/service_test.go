package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeRepo struct {
	budgets map[uuid.UUID]*Budget
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{budgets: make(map[uuid.UUID]*Budget)}
}

func (r *fakeRepo) Upsert(_ context.Context, b *Budget) error {
	for _, existing := range r.budgets {
		if existing.UserID == b.UserID && existing.CategoryID == b.CategoryID && existing.Month == b.Month {
			existing.Limit = b.Limit
			existing.Reason = b.Reason
			b.ID = existing.ID
			return nil
		}
	}
	cp := *b
	r.budgets[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, ErrBudgetNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, b *Budget) error {
	if _, ok := r.budgets[b.ID]; !ok {
		return ErrBudgetNotFound
	}
	cp := *b
	r.budgets[b.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.budgets[id]; !ok {
		return ErrBudgetNotFound
	}
	delete(r.budgets, id)
	return nil
}

func (r *fakeRepo) ListByMonth(_ context.Context, userID uuid.UUID, month string) ([]*Budget, error) {
	var out []*Budget
	for _, b := range r.budgets {
		if b.UserID == userID && b.Month == month {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeSpend struct {
	spent      map[uuid.UUID]decimal.Decimal
	start, end time.Time
}

func (s *fakeSpend) ExpenseByCategory(_ context.Context, _ uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	s.start, s.end = start, end
	return s.spent, nil
}

type fakeCategories struct {
	categories []*category.Category
}

func (s *fakeCategories) add(userID *uuid.UUID, name string) *category.Category {
	c := &category.Category{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		Type:     category.TypeExpense,
		IsActive: true,
	}
	s.categories = append(s.categories, c)
	return c
}

func (s *fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (s *fakeCategories) ListScoped(_ context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var out []*category.Category
	for _, c := range s.categories {
		if c.UserID == nil || *c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	spend      *fakeSpend
	categories *fakeCategories
	userID     uuid.UUID
}

func newFixture(t *testing.T, now string) *fixture {
	t.Helper()
	repo := newFakeRepo()
	spend := &fakeSpend{spent: map[uuid.UUID]decimal.Decimal{}}
	categories := &fakeCategories{}
	svc := NewService(repo, spend, categories, logger.NewDefault("test"))
	svc.now = func() time.Time {
		parsed, err := time.Parse("2006-01-02", now)
		require.NoError(t, err)
		return parsed
	}
	return &fixture{svc: svc, repo: repo, spend: spend, categories: categories, userID: uuid.New()}
}

func (f *fixture) ownCategory(name string) *category.Category {
	uid := f.userID
	return f.categories.add(&uid, name)
}

func TestSet_UpsertsByCategoryAndMonth(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	cat := f.ownCategory("Groceries")

	first, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: cat.ID, Limit: d("500000"), Month: "2026-08",
	})
	require.NoError(t, err)

	// Setting the same pair again overwrites, never stacks.
	second, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: cat.ID, Limit: d("300000"), Month: "2026-08", Reason: "tightening up",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, f.repo.budgets, 1)
	stored := f.repo.budgets[first.ID]
	assert.True(t, stored.Limit.Equal(d("300000")))
	assert.Equal(t, "tightening up", stored.Reason)
}

func TestSet_RejectsForeignCategory(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	other := uuid.New()
	foreign := f.categories.add(&other, "Their Category")

	_, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: foreign.ID, Limit: d("100000"), Month: "2026-08",
	})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.Empty(t, f.repo.budgets)
}

func TestSet_SystemCategoryAllowed(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	system := f.categories.add(nil, "Food & Drink")

	b, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: system.ID, Limit: d("750000"), Month: "2026-08",
	})
	require.NoError(t, err)
	assert.Equal(t, system.ID, b.CategoryID)
}

func TestSet_ValidationErrors(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	cat := f.ownCategory("Groceries")

	tests := []struct {
		name    string
		in      Input
		wantErr error
	}{
		{"missing category", Input{Limit: d("100"), Month: "2026-08"}, ErrCategoryRequired},
		{"negative limit", Input{CategoryID: cat.ID, Limit: d("-1"), Month: "2026-08"}, ErrInvalidLimit},
		{"bad month", Input{CategoryID: cat.ID, Limit: d("100"), Month: "August 2026"}, ErrInvalidMonth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Set(context.Background(), f.userID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMonthlyOverview_ProgressAndStatus(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")
	transport := f.ownCategory("Transport")
	dining := f.ownCategory("Dining")

	mustSet := func(cat *category.Category, limit string) {
		_, err := f.svc.Set(context.Background(), f.userID, Input{
			CategoryID: cat.ID, Limit: d(limit), Month: "2026-08",
		})
		require.NoError(t, err)
	}
	mustSet(groceries, "100000")
	mustSet(transport, "100000")
	mustSet(dining, "50000")

	f.spend.spent = map[uuid.UUID]decimal.Decimal{
		groceries.ID: d("50000"),
		transport.ID: d("85000"),
		dining.ID:    d("60000"),
	}

	overview, err := f.svc.MonthlyOverview(context.Background(), f.userID, "2026-08")
	require.NoError(t, err)
	require.Len(t, overview.Budgets, 3)

	byCategory := make(map[uuid.UUID]*Progress)
	for _, p := range overview.Budgets {
		byCategory[p.CategoryID] = p
	}

	assert.Equal(t, int64(50), byCategory[groceries.ID].Percentage)
	assert.Equal(t, StatusSafe, byCategory[groceries.ID].Status)
	assert.Equal(t, "Groceries", byCategory[groceries.ID].CategoryName)

	assert.Equal(t, int64(85), byCategory[transport.ID].Percentage)
	assert.Equal(t, StatusWarning, byCategory[transport.ID].Status)

	assert.Equal(t, int64(120), byCategory[dining.ID].Percentage)
	assert.Equal(t, StatusDanger, byCategory[dining.ID].Status)

	// Spending was fetched for the month's half-open interval.
	assert.Equal(t, "2026-08-01", f.spend.start.Format("2006-01-02"))
	assert.Equal(t, "2026-09-01", f.spend.end.Format("2006-01-02"))
}

func TestMonthlyOverview_SummaryCountsUnbudgetedSpending(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")
	saving := f.ownCategory("Saving")
	unbudgeted := f.ownCategory("Impulse")

	mustSet := func(cat *category.Category, limit string) {
		_, err := f.svc.Set(context.Background(), f.userID, Input{
			CategoryID: cat.ID, Limit: d(limit), Month: "2026-08",
		})
		require.NoError(t, err)
	}
	mustSet(groceries, "250000")
	mustSet(saving, "20000")

	f.spend.spent = map[uuid.UUID]decimal.Decimal{
		groceries.ID:  d("195000"),
		unbudgeted.ID: d("40000"),
	}

	overview, err := f.svc.MonthlyOverview(context.Background(), f.userID, "2026-08")
	require.NoError(t, err)

	s := overview.Summary
	assert.True(t, s.TotalBudget.Equal(d("270000")))
	// The uncapped category still eats into the remaining figure.
	assert.True(t, s.TotalSpent.Equal(d("235000")))
	assert.True(t, s.Remaining.Equal(d("35000")))
	assert.Equal(t, int64(87), s.Percentage)
	assert.True(t, s.SavingsBudget.Equal(d("20000")))

	// August has 31 days; on the 20th there are 12 left including today.
	assert.Equal(t, 12, s.DaysRemaining)
	assert.True(t, s.DailyAllowance.Equal(d("2916.67")),
		"got %s", s.DailyAllowance)
}

func TestMonthlyOverview_OverspentMonthFloorsAtZero(t *testing.T) {
	f := newFixture(t, "2026-09-30")
	groceries := f.ownCategory("Groceries")

	_, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: groceries.ID, Limit: d("100000"), Month: "2026-09",
	})
	require.NoError(t, err)

	f.spend.spent = map[uuid.UUID]decimal.Decimal{groceries.ID: d("150000")}

	overview, err := f.svc.MonthlyOverview(context.Background(), f.userID, "2026-09")
	require.NoError(t, err)

	s := overview.Summary
	assert.True(t, s.Remaining.IsZero())
	assert.True(t, s.DailyAllowance.IsZero())
	assert.Equal(t, 1, s.DaysRemaining)
}

func TestRecommendations_SkipsBudgetedCategories(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")
	transport := f.ownCategory("Transport")

	// Transport already has an August budget.
	_, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: transport.ID, Limit: d("100000"), Month: "2026-08",
	})
	require.NoError(t, err)

	f.spend.spent = map[uuid.UUID]decimal.Decimal{
		groceries.ID: d("300000"),
		transport.ID: d("90000"),
	}

	recs, err := f.svc.Recommendations(context.Background(), f.userID, "2026-08")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, groceries.ID, rec.CategoryID)
	assert.Equal(t, "Groceries", rec.CategoryName)
	assert.True(t, rec.AvgSpending.Equal(d("100000")))
	// 10% below average, rounded to the nearest thousand.
	assert.True(t, rec.RecommendedLimit.Equal(d("90000")))

	// The lookback covers the three full months before the current one.
	assert.Equal(t, "2026-05-01", f.spend.start.Format("2006-01-02"))
	assert.Equal(t, "2026-08-01", f.spend.end.Format("2006-01-02"))
}

func TestRecommendations_RoundsToNearestThousand(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	dining := f.ownCategory("Dining")

	// 250,000 / 3 = 83,333.33 avg; 90% = 75,000 exactly after rounding.
	f.spend.spent = map[uuid.UUID]decimal.Decimal{dining.ID: d("250000")}

	recs, err := f.svc.Recommendations(context.Background(), f.userID, "2026-08")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].RecommendedLimit.Equal(d("75000")),
		"got %s", recs[0].RecommendedLimit)
}

func TestUpdate_OverwritesFields(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")
	dining := f.ownCategory("Dining")

	b, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: groceries.ID, Limit: d("100000"), Month: "2026-08",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), f.userID, b.ID, Input{
		CategoryID: dining.ID, Limit: d("80000"), Month: "2026-09", Reason: "moved",
	})
	require.NoError(t, err)

	assert.Equal(t, dining.ID, updated.CategoryID)
	assert.True(t, updated.Limit.Equal(d("80000")))
	assert.Equal(t, "2026-09", updated.Month)
	assert.Equal(t, "moved", updated.Reason)
}

func TestUpdate_RejectsForeignBudget(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")

	b, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: groceries.ID, Limit: d("100000"), Month: "2026-08",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), uuid.New(), b.ID, Input{
		CategoryID: groceries.ID, Limit: d("50000"), Month: "2026-08",
	})
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestDelete_RejectsForeignBudget(t *testing.T) {
	f := newFixture(t, "2026-08-20")
	groceries := f.ownCategory("Groceries")

	b, err := f.svc.Set(context.Background(), f.userID, Input{
		CategoryID: groceries.ID, Limit: d("100000"), Month: "2026-08",
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
	require.NoError(t, f.svc.Delete(context.Background(), f.userID, b.ID))
	assert.Empty(t, f.repo.budgets)
}
