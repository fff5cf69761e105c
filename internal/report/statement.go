package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/pkg/money"
)

// StatementInput bounds a statement request. WalletID nil means every
// active wallet.
type StatementInput struct {
	WalletID *uuid.UUID
	Start    time.Time
	End      time.Time
}

// Validate checks the period bounds.
func (in *StatementInput) Validate() error {
	if in.Start.IsZero() || in.End.IsZero() {
		return ErrInvalidPeriod
	}
	if in.End.Before(in.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Statement replays each wallet's active transactions for the period in
// chronological order (date ascending, creation ascending), producing
// per-line running balances. The opening balance is derived backward
// from the current balance by rolling back everything dated at or after
// the period start. A transfer booked between two in-scope wallets
// appears as two lines, one per wallet, never double-counted within a
// single wallet's replay.
func (s *Service) Statement(ctx context.Context, userID uuid.UUID, in StatementInput) (*Statement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	wallets, err := s.wallets.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}
	if in.WalletID != nil {
		filtered := wallets[:0]
		for _, w := range wallets {
			if w.ID == *in.WalletID {
				filtered = append(filtered, w)
			}
		}
		wallets = filtered
		if len(wallets) == 0 {
			return nil, wallet.ErrWalletNotFound
		}
	}

	netChanges, err := s.repo.NetChangesSince(ctx, userID, in.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to load net changes: %w", err)
	}
	txs, err := s.repo.TransactionsInRange(ctx, userID, in.Start, in.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	// Bucket the period's lines per wallet in replay order. One pass over
	// the chronologically ordered set keeps per-wallet order intact.
	lines := make(map[uuid.UUID][]Line, len(wallets))
	inScope := make(map[uuid.UUID]bool, len(wallets))
	for _, w := range wallets {
		inScope[w.ID] = true
	}
	for _, tx := range txs {
		if inScope[tx.WalletID] {
			lines[tx.WalletID] = append(lines[tx.WalletID], sourceLine(tx))
		}
		if tx.Type == ledger.TypeTransfer && tx.TargetWalletID != nil && inScope[*tx.TargetWalletID] {
			lines[*tx.TargetWalletID] = append(lines[*tx.TargetWalletID], Line{
				TransactionID: tx.ID,
				Date:          tx.Date,
				Direction:     DirectionTransferIn,
				Description:   tx.Description,
				Amount:        tx.Amount,
				Fee:           decimal.Zero,
			})
		}
	}

	conv := s.memoized()
	base := conv.BaseCurrency()
	out := &Statement{Start: in.Start, End: in.End, BaseCurrency: base}

	for _, w := range wallets {
		opening := w.Balance.Sub(netChanges[w.ID])

		running := opening
		income := decimal.Zero
		expense := decimal.Zero
		walletLines := lines[w.ID]
		for i := range walletLines {
			line := &walletLines[i]
			switch line.Direction {
			case DirectionIncome, DirectionTransferIn:
				running = running.Add(line.Amount)
				income = income.Add(line.Amount)
			case DirectionExpense:
				running = running.Sub(line.Amount)
				expense = expense.Add(line.Amount)
			case DirectionTransferOut:
				outflow := line.Amount.Add(line.Fee)
				running = running.Sub(outflow)
				expense = expense.Add(outflow)
			}
			line.Running = running
		}

		summary := WalletSummary{
			Opening:     opening,
			Income:      income,
			Expense:     expense,
			Closing:     opening.Add(income).Sub(expense),
			NetFlow:     income.Sub(expense),
			OpeningBase: money.Round(conv.ToBase(ctx, opening, w.Currency, nil)),
			IncomeBase:  money.Round(conv.ToBase(ctx, income, w.Currency, nil)),
			ExpenseBase: money.Round(conv.ToBase(ctx, expense, w.Currency, nil)),
		}
		summary.ClosingBase = money.Round(conv.ToBase(ctx, summary.Closing, w.Currency, nil))

		out.Wallets = append(out.Wallets, WalletStatement{
			Wallet:  w,
			Summary: summary,
			Lines:   walletLines,
		})
		out.Totals.Opening = out.Totals.Opening.Add(summary.OpeningBase)
		out.Totals.Income = out.Totals.Income.Add(summary.IncomeBase)
		out.Totals.Expense = out.Totals.Expense.Add(summary.ExpenseBase)
		out.Totals.Closing = out.Totals.Closing.Add(summary.ClosingBase)
	}
	out.Totals.NetFlow = out.Totals.Income.Sub(out.Totals.Expense)

	return out, nil
}

// sourceLine renders a transaction's effect on its source wallet.
func sourceLine(tx *ledger.Transaction) Line {
	line := Line{
		TransactionID: tx.ID,
		Date:          tx.Date,
		Description:   tx.Description,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount,
		Fee:           tx.Fee,
	}
	switch tx.Type {
	case ledger.TypeIncome:
		line.Direction = DirectionIncome
	case ledger.TypeExpense:
		line.Direction = DirectionExpense
	case ledger.TypeTransfer:
		line.Direction = DirectionTransferOut
	}
	return line
}
