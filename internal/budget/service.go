package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/pkg/logger"
	"github.com/danuarta/dompetku/pkg/money"
)

// savingsCategories marks budget rows counted toward the savings
// allocation in the month summary.
var savingsCategories = map[string]bool{
	"Saving":     true,
	"Investment": true,
	"Tabungan":   true,
	"Investasi":  true,
}

// Service manages per-category monthly spending caps and derives their
// progress from the transaction store. It never mutates balances.
type Service struct {
	repo       Repository
	spend      SpendStore
	categories CategoryStore
	log        *logger.Logger
	now        func() time.Time
}

// NewService creates a new budget service.
func NewService(repo Repository, spend SpendStore, categories CategoryStore, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		spend:      spend,
		categories: categories,
		log:        log,
		now:        time.Now,
	}
}

// Set creates the budget or overwrites the existing (category, month)
// row's limit and reason. The category must be visible to the user:
// owned by them or system-global.
func (s *Service) Set(ctx context.Context, userID uuid.UUID, in Input) (*Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.visibleCategory(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}

	b := &Budget{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Limit:      money.Round(in.Limit),
		Month:      in.Month,
		Reason:     in.Reason,
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return b, nil
}

// Update overwrites an existing budget's category, limit, month and
// reason.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, in Input) (*Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b, err := s.ownedBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.visibleCategory(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}

	b.CategoryID = in.CategoryID
	b.Limit = money.Round(in.Limit)
	b.Month = in.Month
	b.Reason = in.Reason
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

// Delete removes a budget. Spending history is untouched.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if _, err := s.ownedBudget(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// Overview bundles the month's budget progress with its summary.
type Overview struct {
	Budgets []*Progress   `json:"budgets"`
	Summary *MonthSummary `json:"summary"`
}

// MonthlyOverview returns every budget for the month with its spent
// progress, plus the aggregate summary. Spending comes from one grouped
// query over the month's active expense transactions in base currency.
func (s *Service) MonthlyOverview(ctx context.Context, userID uuid.UUID, month string) (*Overview, error) {
	start, end, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	budgets, err := s.repo.ListByMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	spent, err := s.spend.ExpenseByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load spending: %w", err)
	}
	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := make([]*Progress, 0, len(budgets))
	for _, b := range budgets {
		p := &Progress{
			Budget:       b,
			CategoryName: names[b.CategoryID],
			Spent:        spent[b.CategoryID],
			Percentage:   percentOf(spent[b.CategoryID], b.Limit),
		}
		p.Status = statusFor(p.Percentage)
		progress = append(progress, p)
	}

	return &Overview{
		Budgets: progress,
		Summary: s.summarize(progress, spent, start, end),
	}, nil
}

// summarize rolls the month up. Total spending counts every expense
// category, budgeted or not, so an uncapped category still eats into
// the remaining figure.
func (s *Service) summarize(budgets []*Progress, spent map[uuid.UUID]decimal.Decimal, start, end time.Time) *MonthSummary {
	totalBudget := decimal.Zero
	savings := decimal.Zero
	for _, p := range budgets {
		totalBudget = totalBudget.Add(p.Limit)
		if savingsCategories[p.CategoryName] {
			savings = savings.Add(p.Limit)
		}
	}
	totalSpent := decimal.Zero
	for _, v := range spent {
		totalSpent = totalSpent.Add(v)
	}

	remaining := totalBudget.Sub(totalSpent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	daysInMonth := end.AddDate(0, 0, -1).Day()
	currentDay := 1
	if now := s.now(); now.Year() == start.Year() && now.Month() == start.Month() {
		currentDay = now.Day()
	}
	daysRemaining := daysInMonth - currentDay + 1
	if daysRemaining < 1 {
		daysRemaining = 1
	}

	return &MonthSummary{
		TotalBudget:    totalBudget,
		TotalSpent:     totalSpent,
		Remaining:      remaining,
		Percentage:     percentOf(totalSpent, totalBudget),
		SavingsBudget:  savings,
		DailyAllowance: money.Round(remaining.Div(decimal.NewFromInt(int64(daysRemaining)))),
		DaysRemaining:  daysRemaining,
	}
}

// Recommendations suggests caps for categories with trailing spending
// but no budget in the target month. The suggested limit is 10% below
// the three-month average, rounded to the nearest thousand to read as a
// figure a person would set.
func (s *Service) Recommendations(ctx context.Context, userID uuid.UUID, targetMonth string) ([]*Recommendation, error) {
	if _, err := time.Parse(monthLayout, targetMonth); err != nil {
		return nil, ErrInvalidMonth
	}

	now := s.now()
	currentMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lookbackStart := currentMonthStart.AddDate(0, -3, 0)

	spent, err := s.spend.ExpenseByCategory(ctx, userID, lookbackStart, currentMonthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load spending: %w", err)
	}
	budgets, err := s.repo.ListByMonth(ctx, userID, targetMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	budgeted := make(map[uuid.UUID]bool, len(budgets))
	for _, b := range budgets {
		budgeted[b.CategoryID] = true
	}
	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	three := decimal.NewFromInt(3)
	recs := make([]*Recommendation, 0, len(spent))
	for categoryID, total := range spent {
		if budgeted[categoryID] || !total.IsPositive() {
			continue
		}
		name, known := names[categoryID]
		if !known {
			continue
		}
		avg := total.Div(three)
		recs = append(recs, &Recommendation{
			CategoryID:       categoryID,
			CategoryName:     name,
			AvgSpending:      money.Round(avg),
			RecommendedLimit: roundToThousand(avg.Mul(decimal.NewFromFloat(0.9))),
		})
	}
	return recs, nil
}

func (s *Service) ownedBudget(ctx context.Context, userID, id uuid.UUID) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return b, nil
}

// visibleCategory rejects categories outside the user's scope; a
// foreign category reads as missing, never as forbidden.
func (s *Service) visibleCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c.UserID != nil && *c.UserID != userID {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (s *Service) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := s.categories.ListScoped(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func percentOf(spent, limit decimal.Decimal) int64 {
	if !limit.IsPositive() {
		return 0
	}
	return spent.Div(limit).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func roundToThousand(d decimal.Decimal) decimal.Decimal {
	thousand := decimal.NewFromInt(1000)
	return d.Div(thousand).Round(0).Mul(thousand)
}

// monthRange converts "YYYY-MM" to the half-open [start, end) interval
// covering the month.
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}
