package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/platform/user"
	"github.com/danuarta/dompetku/internal/platform/wallet"
)

// Repository defines the read-only aggregate queries reconstruction
// needs. Every method considers active transactions only and accounts
// transfers on both sides: -(amount+fee) against the source wallet,
// +amount against the target.
type Repository interface {
	// MonthlyNetChanges returns each wallet's net signed effect grouped
	// by calendar month ("2006-01" keys) for months starting at since,
	// batched in one grouped query rather than one per wallet per month.
	MonthlyNetChanges(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID]map[string]decimal.Decimal, error)

	// FirstTransactionMonths returns the month of each wallet's earliest
	// transaction. Wallets with no transactions are absent from the map.
	FirstTransactionMonths(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]time.Time, error)

	// NetChangesSince returns each wallet's net signed effect summed over
	// transactions dated at or after start.
	NetChangesSince(ctx context.Context, userID uuid.UUID, start time.Time) (map[uuid.UUID]decimal.Decimal, error)

	// TransactionsInRange returns the user's transactions with dates in
	// [start, end], ordered by date ascending then creation ascending.
	TransactionsInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*ledger.Transaction, error)
}

// WalletSource is the slice of the wallet repository reports read from.
type WalletSource interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error)
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error)
}

// UserSource resolves the acting user for plan-based window gating.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Converter normalizes native-currency figures into the base currency
// for cross-wallet totals.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, override *decimal.Decimal) decimal.Decimal
	ToBase(ctx context.Context, amount decimal.Decimal, currency string, override *decimal.Decimal) decimal.Decimal
	BaseCurrency() string
}
