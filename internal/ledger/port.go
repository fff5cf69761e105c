package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/internal/platform/wallet"
)

// Repository defines the interface for transaction persistence.
//
// BeginTx returns a derived context carrying the store transaction; every
// repository and wallet-store call made with that context joins it, so a
// transaction row write and its wallet balance adjustments commit or roll
// back together.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListTransactions(ctx context.Context, userID uuid.UUID, filters Filters) ([]*Transaction, error)
	Summarize(ctx context.Context, userID uuid.UUID, filters Filters) (*Summary, error)

	// Transaction management
	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// WalletStore is the slice of the wallet repository the ledger needs.
// AdjustBalance must serialize concurrent deltas against the same wallet.
type WalletStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// CategoryResolver resolves a free-text category name to a category in
// the user's scope, creating a user-owned one when absent. Creation is
// subject to the user's plan quota; a rejected creation surfaces
// category.ErrQuotaExceeded.
type CategoryResolver interface {
	ResolveOrCreate(ctx context.Context, userID uuid.UUID, name string, t category.Type) (*category.Category, error)
}

// Converter normalizes amounts into the system base currency.
type Converter interface {
	ToBase(ctx context.Context, amount decimal.Decimal, currency string, override *decimal.Decimal) decimal.Decimal
	BaseCurrency() string
}
