package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/pkg/money"
)

// HistoricalSeries reconstructs every wallet's balance at each month-end
// date point of the requested window, walking active transactions
// backward from the current balance:
//
//	balance(D) = current - sum(signed effect of transactions dated > D)
//
// Consecutive date points are consecutive month-ends, so the walk
// consumes one batched per-(wallet, month) net-change map instead of one
// query per wallet per point. An invalid range falls back to six months;
// the plan lookback cap clamps it either way.
func (s *Service) HistoricalSeries(ctx context.Context, userID uuid.UUID, r Range) (*Series, error) {
	maxMonths, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	firstTxMonths, err := s.repo.FirstTransactionMonths(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load first transaction months: %w", err)
	}
	var earliest *time.Time
	for _, m := range firstTxMonths {
		m := m
		if earliest == nil || m.Before(*earliest) {
			earliest = &m
		}
	}

	points := datePoints(r, s.now(), earliest, maxMonths)

	wallets, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}

	changes, err := s.repo.MonthlyNetChanges(ctx, userID, monthStart(points[0].Date))
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly net changes: %w", err)
	}

	conv := s.memoized()
	rows := make([]WalletRow, 0, len(wallets))
	totals := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		totals[p.Key] = decimal.Zero
	}

	for _, w := range wallets {
		row := WalletRow{
			ID:       w.ID,
			Name:     w.Name,
			Type:     w.Type,
			Currency: w.Currency,
			Balances: make(map[string]decimal.Decimal, len(points)),
		}
		birth := w.BirthMonth(firstTxMonths[w.ID])
		walletChanges := changes[w.ID]

		// Walk backward from the last point, the current month-end.
		// Effects dated past it are already folded into the stored
		// balance (creation applies them immediately regardless of
		// date), so roll them back before the walk starts.
		balance := w.Balance
		lastKey := points[len(points)-1].Key
		for key, change := range walletChanges {
			if key > lastKey {
				balance = balance.Sub(change)
			}
		}
		for i := len(points) - 1; i >= 0; i-- {
			if i < len(points)-1 {
				balance = balance.Sub(walletChanges[points[i+1].Key])
			}
			value := balance
			if monthStart(points[i].Date).Before(birth) {
				value = decimal.Zero
			}
			row.Balances[points[i].Key] = value
			totals[points[i].Key] = totals[points[i].Key].Add(
				conv.ToBase(ctx, value, w.Currency, nil))
		}
		rows = append(rows, row)
	}

	for key, total := range totals {
		totals[key] = money.Round(total)
	}

	return &Series{Points: points, Rows: rows, Totals: totals, Range: r}, nil
}
