package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a transaction's direction.
type Type string

const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// IsValid checks if the transaction type is supported.
func (t Type) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Transaction is a single income, expense or transfer record.
//
// Amount is always positive; direction is encoded by Type, never by sign.
// AmountInBase holds the base-currency equivalent and equals Amount when
// Currency is the base currency. Soft-deleted rows keep IsActive=false and
// are excluded from every balance and reporting computation, but their
// balance effect was reverted at the moment of deactivation.
type Transaction struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	WalletID       uuid.UUID        `json:"wallet_id"`
	TargetWalletID *uuid.UUID       `json:"target_wallet_id,omitempty"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Type           Type             `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	ExchangeRate   *decimal.Decimal `json:"exchange_rate,omitempty"`
	RateUpdatedAt  *time.Time       `json:"rate_updated_at,omitempty"`
	AmountInBase   decimal.Decimal  `json:"amount_in_base_currency"`
	Fee            decimal.Decimal  `json:"fee"`
	Description    string           `json:"description"`
	Date           time.Time        `json:"date"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Input carries the caller-supplied fields for creating or updating a
// transaction. The same shape serves both paths: update replaces every
// caller-editable field with the input's values.
type Input struct {
	Type           Type
	Amount         decimal.Decimal
	Date           time.Time
	WalletID       uuid.UUID
	TargetWalletID *uuid.UUID
	CategoryName   string
	Description    string
	Fee            decimal.Decimal
	ManualRate     *decimal.Decimal
}

// Validate checks the input shape for the given type before any store
// access. Direction-specific requirements: a category name for income and
// expense, a distinct target wallet and non-negative fee for transfers.
func (in *Input) Validate() error {
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	if in.ManualRate != nil && !in.ManualRate.IsPositive() {
		return ErrInvalidRate
	}
	switch in.Type {
	case TypeTransfer:
		if in.TargetWalletID == nil {
			return ErrTargetWalletRequired
		}
		if *in.TargetWalletID == in.WalletID {
			return ErrSameWallet
		}
		if in.Fee.IsNegative() {
			return ErrNegativeFee
		}
	default:
		if strings.TrimSpace(in.CategoryName) == "" {
			return ErrCategoryRequired
		}
		if !in.Fee.IsZero() {
			return ErrFeeNotAllowed
		}
		if in.TargetWalletID != nil {
			return ErrTargetNotAllowed
		}
	}
	return nil
}

// Filters narrows a transaction listing.
type Filters struct {
	Search     string
	WalletID   *uuid.UUID
	Type       *Type
	CategoryID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Summary aggregates a period's active transactions in base currency.
// Transfer fees count toward Expense; transfer principal nets to zero
// across the user's own wallets and is excluded.
type Summary struct {
	Income       decimal.Decimal `json:"total_income"`
	Expense      decimal.Decimal `json:"total_expense"`
	IncomeCount  int             `json:"total_income_count"`
	ExpenseCount int             `json:"total_expense_count"`
	Net          decimal.Decimal `json:"net_balance"`
}
