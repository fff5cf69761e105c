package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps a category's spending for one calendar month. One row per
// (user, category, month); setting the same pair again overwrites the
// limit instead of stacking a second cap.
type Budget struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	CategoryID uuid.UUID       `json:"category_id" db:"category_id"`
	Limit      decimal.Decimal `json:"limit" db:"limit_amount"`
	Month      string          `json:"month" db:"month"` // "2006-01"
	Reason     string          `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Status classifies how close spending is to the cap.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

func statusFor(percentage int64) Status {
	switch {
	case percentage >= 100:
		return StatusDanger
	case percentage >= 80:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// Progress is a budget joined with the month's actual spending in base
// currency.
type Progress struct {
	*Budget
	CategoryName string          `json:"category_name"`
	Spent        decimal.Decimal `json:"spent"`
	Percentage   int64           `json:"percentage"`
	Status       Status          `json:"status"`
}

// MonthSummary aggregates the month across every budget. TotalSpent
// covers all expense spending that month, budgeted or not, so the
// remaining figure never flatters unbudgeted categories.
type MonthSummary struct {
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percentage     int64           `json:"percentage"`
	SavingsBudget  decimal.Decimal `json:"savings_budget"`
	DailyAllowance decimal.Decimal `json:"daily_allowance"`
	DaysRemaining  int             `json:"days_remaining"`
}

// Recommendation suggests a cap for a category the user spends on but
// has not budgeted, derived from the trailing three full months.
type Recommendation struct {
	CategoryID       uuid.UUID       `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	AvgSpending      decimal.Decimal `json:"avg_spending"`
	RecommendedLimit decimal.Decimal `json:"recommended_limit"`
}

// Input carries the submitted budget fields.
type Input struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Month      string          `json:"month"`
	Reason     string          `json:"reason"`
}

// Validate checks the input fields.
func (in Input) Validate() error {
	if in.CategoryID == uuid.Nil {
		return ErrCategoryRequired
	}
	if in.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	if _, err := time.Parse(monthLayout, in.Month); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

const monthLayout = "2006-01"
