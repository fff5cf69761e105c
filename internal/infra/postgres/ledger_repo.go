package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/ledger"
)

// LedgerRepository implements transaction persistence and the batched
// reconstruction queries using PostgreSQL.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const txColumns = `id, user_id, wallet_id, target_wallet_id, category_id, type, amount, currency, exchange_rate, rate_updated_at, amount_in_base, fee, description, date, is_active, created_at, updated_at`

// signedEffects expands active transactions into per-wallet signed
// effects: the source side books +amount for income, -amount for
// expense and -(amount+fee) for transfers; the target side of a
// transfer books +amount. Reconstruction queries aggregate over it.
const signedEffects = `
	SELECT wallet_id,
	       date,
	       CASE type
	           WHEN 'income' THEN amount
	           WHEN 'expense' THEN -amount
	           ELSE -(amount + fee)
	       END AS effect
	FROM transactions
	WHERE user_id = $1 AND is_active
	UNION ALL
	SELECT target_wallet_id,
	       date,
	       amount
	FROM transactions
	WHERE user_id = $1 AND is_active AND type = 'transfer' AND target_wallet_id IS NOT NULL
`

// CreateTransaction persists a new transaction row
func (r *LedgerRepository) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		tx.ID, tx.UserID, tx.WalletID, tx.TargetWalletID, tx.CategoryID,
		tx.Type, tx.Amount, tx.Currency, tx.ExchangeRate, tx.RateUpdatedAt,
		tx.AmountInBase, tx.Fee, tx.Description, tx.Date, tx.IsActive,
		tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID, inactive rows included
func (r *LedgerRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(queryerFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction persists the new field values of an existing row
func (r *LedgerRepository) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET wallet_id = $2, target_wallet_id = $3, category_id = $4, type = $5,
		    amount = $6, currency = $7, exchange_rate = $8, rate_updated_at = $9,
		    amount_in_base = $10, fee = $11, description = $12, date = $13, updated_at = $14
		WHERE id = $1
	`

	tag, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		tx.ID, tx.WalletID, tx.TargetWalletID, tx.CategoryID, tx.Type,
		tx.Amount, tx.Currency, tx.ExchangeRate, tx.RateUpdatedAt,
		tx.AmountInBase, tx.Fee, tx.Description, tx.Date, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

// SetActive flips the soft-delete flag. Rows are never physically
// removed; inactive ones drop out of every aggregate query. A row
// already in the requested state reports not-found, so concurrent
// double-deletes serialize: only one caller gets to revert the effect.
func (r *LedgerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := queryerFrom(ctx, r.pool).Exec(ctx,
		`UPDATE transactions SET is_active = $2, updated_at = NOW() WHERE id = $1 AND is_active <> $2`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set transaction active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

// ListTransactions returns the user's active transactions matching the
// filters, newest first.
func (r *LedgerRepository) ListTransactions(ctx context.Context, userID uuid.UUID, filters ledger.Filters) ([]*ledger.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE user_id = $1 AND is_active`
	args := []any{userID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += fmt.Sprintf(` AND (description ILIKE $%d OR EXISTS (
			SELECT 1 FROM categories c WHERE c.id = category_id AND c.name ILIKE $%d))`, len(args), len(args))
	}
	if filters.WalletID != nil {
		args = append(args, *filters.WalletID)
		query += fmt.Sprintf(" AND (wallet_id = $%d OR target_wallet_id = $%d)", len(args), len(args))
	}
	if filters.Type != nil {
		args = append(args, *filters.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryTransactions(ctx, query, args...)
}

// Summarize aggregates active transactions in base currency. Transfer
// principal moves between the user's own wallets and is excluded; the
// fee is a real cost counted as expense.
func (r *LedgerRepository) Summarize(ctx context.Context, userID uuid.UUID, filters ledger.Filters) (*ledger.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_in_base ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_in_base
			               WHEN type = 'transfer' THEN fee
			               ELSE 0 END), 0),
			COUNT(CASE WHEN type = 'income' THEN 1 END),
			COUNT(CASE WHEN type = 'expense' OR (type = 'transfer' AND fee > 0) THEN 1 END)
		FROM transactions
		WHERE user_id = $1 AND is_active
	`
	args := []any{userID}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	s := &ledger.Summary{}
	if err := queryerFrom(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&s.Income, &s.Expense, &s.IncomeCount, &s.ExpenseCount); err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	s.Net = s.Income.Sub(s.Expense)
	return s, nil
}

// MonthlyNetChanges returns each wallet's net signed effect grouped by
// calendar month from since onward, in one grouped query for all
// wallets rather than one round-trip per wallet per month.
func (r *LedgerRepository) MonthlyNetChanges(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID]map[string]decimal.Decimal, error) {
	query := `
		SELECT wallet_id, to_char(date_trunc('month', date), 'YYYY-MM') AS month, SUM(effect)
		FROM (` + signedEffects + `) AS effects
		WHERE date >= $2
		GROUP BY wallet_id, month
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly net changes: %w", err)
	}
	defer rows.Close()

	changes := make(map[uuid.UUID]map[string]decimal.Decimal)
	for rows.Next() {
		var walletID uuid.UUID
		var month string
		var sum decimal.Decimal
		if err := rows.Scan(&walletID, &month, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan monthly net change: %w", err)
		}
		if changes[walletID] == nil {
			changes[walletID] = make(map[string]decimal.Decimal)
		}
		changes[walletID][month] = sum
	}
	return changes, rows.Err()
}

// FirstTransactionMonths returns the month of each wallet's earliest
// active transaction, counting transfer-in as touching the target.
func (r *LedgerRepository) FirstTransactionMonths(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	query := `
		SELECT wallet_id, date_trunc('month', MIN(date))::date
		FROM (` + signedEffects + `) AS effects
		GROUP BY wallet_id
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query first transaction months: %w", err)
	}
	defer rows.Close()

	months := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var walletID uuid.UUID
		var month time.Time
		if err := rows.Scan(&walletID, &month); err != nil {
			return nil, fmt.Errorf("failed to scan first transaction month: %w", err)
		}
		months[walletID] = month.UTC()
	}
	return months, rows.Err()
}

// ExpenseByCategory sums active expense amounts in base currency per
// category over the half-open interval [start, end), one grouped query
// for the whole period.
func (r *LedgerRepository) ExpenseByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT category_id, SUM(amount_in_base)
		FROM transactions
		WHERE user_id = $1 AND is_active AND type = 'expense'
			AND category_id IS NOT NULL AND date >= $2 AND date < $3
		GROUP BY category_id
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by category: %w", err)
	}
	defer rows.Close()

	spent := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var categoryID uuid.UUID
		var sum decimal.Decimal
		if err := rows.Scan(&categoryID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan expense by category: %w", err)
		}
		spent[categoryID] = sum
	}
	return spent, rows.Err()
}

// NetChangesSince returns each wallet's net signed effect summed over
// transactions dated at or after start.
func (r *LedgerRepository) NetChangesSince(ctx context.Context, userID uuid.UUID, start time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT wallet_id, SUM(effect)
		FROM (` + signedEffects + `) AS effects
		WHERE date >= $2
		GROUP BY wallet_id
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query net changes: %w", err)
	}
	defer rows.Close()

	changes := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var walletID uuid.UUID
		var sum decimal.Decimal
		if err := rows.Scan(&walletID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan net change: %w", err)
		}
		changes[walletID] = sum
	}
	return changes, rows.Err()
}

// TransactionsInRange returns the user's active transactions dated in
// [start, end] in replay order: date ascending, creation ascending.
func (r *LedgerRepository) TransactionsInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_active AND date BETWEEN $2 AND $3
		ORDER BY date ASC, created_at ASC
	`
	return r.queryTransactions(ctx, query, userID, start, end)
}

// BeginTx starts a database transaction and stores it in the context
func (r *LedgerRepository) BeginTx(ctx context.Context) (context.Context, error) {
	return beginTx(ctx, r.pool)
}

// CommitTx commits the database transaction from the context
func (r *LedgerRepository) CommitTx(ctx context.Context) error {
	return commitTx(ctx)
}

// RollbackTx rolls back the database transaction from the context
func (r *LedgerRepository) RollbackTx(ctx context.Context) error {
	return rollbackTx(ctx)
}

func (r *LedgerRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{}
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.WalletID, &tx.TargetWalletID, &tx.CategoryID,
		&tx.Type, &tx.Amount, &tx.Currency, &tx.ExchangeRate, &tx.RateUpdatedAt,
		&tx.AmountInBase, &tx.Fee, &tx.Description, &tx.Date, &tx.IsActive,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
