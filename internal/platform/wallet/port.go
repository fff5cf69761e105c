package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for wallet data access.
type Repository interface {
	// Create creates a new wallet.
	Create(ctx context.Context, wallet *Wallet) error

	// GetByID retrieves a wallet by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetByUserID retrieves all wallets for a user ordered by sort order.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)

	// GetActiveByUserID retrieves only active wallets for a user.
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)

	// Update updates a wallet's mutable attributes (never the balance).
	Update(ctx context.Context, wallet *Wallet) error

	// SetActive toggles the wallet's soft-active flag.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// AdjustBalance applies a signed delta to the wallet's balance as a
	// single-row update, so concurrent deltas against the same wallet
	// serialize at the row and none is lost. Callers run it inside a
	// store transaction paired with the ledger row write.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// ExistsByUserAndName checks if a wallet with the given name exists for the user.
	ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}
