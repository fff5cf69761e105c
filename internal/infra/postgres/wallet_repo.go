package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/wallet"
)

// WalletRepository implements the wallet repository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

const walletColumns = `id, user_id, name, type, currency, balance, account_number, bank_name, color, is_active, sort_order, created_at, updated_at`

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, name, type, currency, balance, account_number, bank_name, color, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	_, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		w.ID, w.UserID, w.Name, w.Type, w.Currency, w.Balance,
		w.AccountNumber, w.BankName, w.Color, w.IsActive, w.SortOrder,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.ErrDuplicateWalletName
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(queryerFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// GetByUserID retrieves all wallets for a user ordered by sort order
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY sort_order, created_at`
	return r.queryWallets(ctx, query, userID)
}

// GetActiveByUserID retrieves only active wallets for a user
func (r *WalletRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND is_active ORDER BY sort_order, created_at`
	return r.queryWallets(ctx, query, userID)
}

// Update updates a wallet's mutable attributes. The balance is never
// written here; only AdjustBalance touches it.
func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, type = $3, account_number = $4, bank_name = $5, color = $6, sort_order = $7, updated_at = $8
		WHERE id = $1
	`

	w.UpdatedAt = time.Now()
	tag, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		w.ID, w.Name, w.Type, w.AccountNumber, w.BankName, w.Color, w.SortOrder, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.ErrDuplicateWalletName
		}
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}
	return nil
}

// SetActive toggles the wallet's soft-active flag
func (r *WalletRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := queryerFrom(ctx, r.pool).Exec(ctx,
		`UPDATE wallets SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to toggle wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta to the wallet's balance. The
// single-row UPDATE takes a row lock, so concurrent deltas against the
// same wallet serialize and none is lost.
func (r *WalletRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	tag, err := queryerFrom(ctx, r.pool).Exec(ctx,
		`UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}
	return nil
}

// ExistsByUserAndName checks if a wallet with the given name exists for the user
func (r *WalletRepository) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var exists bool
	err := queryerFrom(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1 AND name = $2)`, userID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wallet name: %w", err)
	}
	return exists, nil
}

func (r *WalletRepository) queryWallets(ctx context.Context, query string, args ...any) ([]*wallet.Wallet, error) {
	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	w := &wallet.Wallet{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &w.Type, &w.Currency, &w.Balance,
		&w.AccountNumber, &w.BankName, &w.Color, &w.IsActive, &w.SortOrder,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
