package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies where the money physically lives.
type Type string

const (
	TypeCash    Type = "cash"
	TypeBank    Type = "bank"
	TypeEwallet Type = "ewallet"
)

// IsValid checks if the wallet type is one of the supported kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeCash, TypeBank, TypeEwallet:
		return true
	}
	return false
}

// Wallet holds a user's funds in a single currency. Balance is the one
// mutable running total: it always equals the seed balance plus the net
// effect of every active transaction that ever touched this wallet, and
// only the ledger is allowed to move it. History lives in the
// transaction set; past balances are derived backward from Balance.
type Wallet struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Type          Type            `json:"type" db:"type"`
	Currency      string          `json:"currency" db:"currency"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	AccountNumber *string         `json:"account_number,omitempty" db:"account_number"`
	BankName      *string         `json:"bank_name,omitempty" db:"bank_name"`
	Color         string          `json:"color" db:"color"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	SortOrder     int             `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// ValidateCreate validates wallet fields for creation.
func (w *Wallet) ValidateCreate() error {
	if w.UserID == uuid.Nil {
		return ErrInvalidUserID
	}

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if !w.Type.IsValid() {
		return ErrInvalidWalletType
	}

	if len(w.Currency) != 3 {
		return ErrInvalidCurrency
	}

	return nil
}

// ValidateUpdate validates wallet fields for updates. Currency and
// balance are immutable after creation: currency changes would corrupt
// every stored base-currency amount, and the balance belongs to the
// ledger.
func (w *Wallet) ValidateUpdate() error {
	if w.ID == uuid.Nil {
		return ErrInvalidWalletID
	}

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if !w.Type.IsValid() {
		return ErrInvalidWalletType
	}

	return nil
}

// BirthMonth returns the first month of this wallet's existence given
// its earliest transaction month (zero time when it has none). Balances
// before the birth month are defined as zero.
func (w *Wallet) BirthMonth(firstTxMonth time.Time) time.Time {
	created := time.Date(w.CreatedAt.Year(), w.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
	if firstTxMonth.IsZero() || created.Before(firstTxMonth) {
		return created
	}
	return firstTxMonth
}
