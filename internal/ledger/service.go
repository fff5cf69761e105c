package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/pkg/logger"
	"github.com/danuarta/dompetku/pkg/money"
)

// Service is the only component permitted to mutate wallet balances, and
// always does so atomically paired with the transaction row write.
type Service struct {
	repo       Repository
	wallets    WalletStore
	categories CategoryResolver
	converter  Converter
	log        *logger.Logger
}

// NewService creates a new ledger service.
func NewService(repo Repository, wallets WalletStore, categories CategoryResolver, converter Converter, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		wallets:    wallets,
		categories: categories,
		converter:  converter,
		log:        log,
	}
}

// Create validates the input, persists the transaction and applies its
// balance effect to the affected wallet(s) in one atomic unit. If any
// step fails nothing is persisted and no wallet is mutated.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w, err := s.ownedWallet(ctx, userID, in.WalletID)
	if err != nil {
		return nil, err
	}
	if in.Type == TypeTransfer {
		if _, err := s.ownedWallet(ctx, userID, *in.TargetWalletID); err != nil {
			return nil, err
		}
	}

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	now := time.Now()
	tx := &Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		WalletID:       in.WalletID,
		TargetWalletID: in.TargetWalletID,
		Type:           in.Type,
		Amount:         money.Round(in.Amount),
		Currency:       w.Currency,
		Fee:            money.Round(in.Fee),
		Description:    in.Description,
		Date:           in.Date,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.resolveCategory(txCtx, tx, in.CategoryName); err != nil {
		return nil, err
	}
	s.normalize(txCtx, tx, in.ManualRate)

	if err := s.repo.CreateTransaction(txCtx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := s.applyDeltas(txCtx, EffectOf(tx), 1); err != nil {
		return nil, err
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return tx, nil
}

// Update reverts the stored transaction's balance effect, persists the
// new field values and applies the new effect, all in one atomic unit.
// The revert branches on the stored pre-image type; the apply branches on
// the incoming type. Type, amount, wallets and fee may all change.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, in Input) (*Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.ownedTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsActive {
		// An inactive row's effect was already reverted at deletion;
		// reverting it again here would double-book it.
		return nil, ErrTransactionNotFound
	}

	w, err := s.ownedWallet(ctx, userID, in.WalletID)
	if err != nil {
		return nil, err
	}
	if in.Type == TypeTransfer {
		if _, err := s.ownedWallet(ctx, userID, *in.TargetWalletID); err != nil {
			return nil, err
		}
	}

	old := EffectOf(tx)

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := s.applyDeltas(txCtx, old, -1); err != nil {
		return nil, err
	}

	tx.WalletID = in.WalletID
	tx.TargetWalletID = in.TargetWalletID
	tx.Type = in.Type
	tx.Amount = money.Round(in.Amount)
	tx.Currency = w.Currency
	tx.Fee = money.Round(in.Fee)
	tx.Description = in.Description
	tx.Date = in.Date
	tx.CategoryID = nil
	tx.UpdatedAt = time.Now()

	if err := s.resolveCategory(txCtx, tx, in.CategoryName); err != nil {
		return nil, err
	}
	s.normalize(txCtx, tx, in.ManualRate)

	if err := s.repo.UpdateTransaction(txCtx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if err := s.applyDeltas(txCtx, EffectOf(tx), 1); err != nil {
		return nil, err
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return tx, nil
}

// Delete reverts the transaction's balance effect and marks it inactive.
// The row is retained for audit and excluded from every future aggregate
// and reconstruction query.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	tx, err := s.ownedTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if !tx.IsActive {
		// Already reverted; a retried delete must not revert twice.
		return ErrTransactionNotFound
	}

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := s.applyDeltas(txCtx, EffectOf(tx), -1); err != nil {
		return err
	}
	if err := s.repo.SetActive(txCtx, tx.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate transaction: %w", err)
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

// Get retrieves a transaction, including inactive ones, with an ownership
// check.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Transaction, error) {
	return s.ownedTransaction(ctx, userID, id)
}

// List retrieves the user's active transactions matching the filters,
// newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filters Filters) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filters)
}

// Summary aggregates the user's active transactions for the filtered
// period in base currency.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, filters Filters) (*Summary, error) {
	return s.repo.Summarize(ctx, userID, filters)
}

func (s *Service) ownedWallet(ctx context.Context, userID, walletID uuid.UUID) (*wallet.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, wallet.ErrUnauthorizedAccess
	}
	return w, nil
}

func (s *Service) ownedTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}
	return tx, nil
}

// resolveCategory fills in the category for income/expense transactions.
// Transfers carry no category. A plan-quota rejection from the resolver
// propagates unchanged so callers can render an upgrade prompt instead of
// a generic form error.
func (s *Service) resolveCategory(ctx context.Context, tx *Transaction, name string) error {
	if tx.Type == TypeTransfer {
		return nil
	}
	catType := category.TypeExpense
	if tx.Type == TypeIncome {
		catType = category.TypeIncome
	}
	cat, err := s.categories.ResolveOrCreate(ctx, tx.UserID, name, catType)
	if err != nil {
		return err
	}
	tx.CategoryID = &cat.ID
	return nil
}

// normalize populates the base-currency amount. A manual rate is used
// verbatim; otherwise the converter resolves a live or cached rate and
// fails open to the unconverted amount.
func (s *Service) normalize(ctx context.Context, tx *Transaction, manualRate *decimal.Decimal) {
	if manualRate != nil {
		now := time.Now()
		tx.ExchangeRate = manualRate
		tx.RateUpdatedAt = &now
	}
	tx.AmountInBase = money.Round(s.converter.ToBase(ctx, tx.Amount, tx.Currency, manualRate))
}

// applyDeltas adjusts every affected wallet balance by the effect's
// per-wallet deltas. Sign +1 applies, -1 reverts.
func (s *Service) applyDeltas(ctx context.Context, e Effect, sign int64) error {
	for _, d := range e.Deltas(sign) {
		if err := s.wallets.AdjustBalance(ctx, d.WalletID, d.Amount); err != nil {
			return fmt.Errorf("failed to adjust wallet balance: %w", err)
		}
	}
	return nil
}
