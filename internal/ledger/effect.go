package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Effect is a transaction's balance impact, captured once from a stored
// row. Revert-on-update and revert-on-delete branch on the stored
// pre-image type here, never on the incoming request, so apply and revert
// share a single branching site.
type Effect struct {
	Type           Type
	Amount         decimal.Decimal
	Fee            decimal.Decimal
	WalletID       uuid.UUID
	TargetWalletID *uuid.UUID
}

// EffectOf captures the balance effect of a transaction row.
func EffectOf(tx *Transaction) Effect {
	return Effect{
		Type:           tx.Type,
		Amount:         tx.Amount,
		Fee:            tx.Fee,
		WalletID:       tx.WalletID,
		TargetWalletID: tx.TargetWalletID,
	}
}

// Delta is a signed balance adjustment for one wallet.
type Delta struct {
	WalletID uuid.UUID
	Amount   decimal.Decimal
}

// Deltas expands the effect into per-wallet balance deltas scaled by
// sign: +1 applies the effect, -1 reverts it exactly.
//
// Income credits the wallet by amount. Expense debits it by amount.
// Transfer debits the source by amount+fee and credits the target by
// amount; the fee is never credited anywhere.
func (e Effect) Deltas(sign int64) []Delta {
	s := decimal.NewFromInt(sign)
	switch e.Type {
	case TypeIncome:
		return []Delta{{WalletID: e.WalletID, Amount: e.Amount.Mul(s)}}
	case TypeExpense:
		return []Delta{{WalletID: e.WalletID, Amount: e.Amount.Neg().Mul(s)}}
	case TypeTransfer:
		deltas := []Delta{{WalletID: e.WalletID, Amount: e.Amount.Add(e.Fee).Neg().Mul(s)}}
		if e.TargetWalletID != nil {
			deltas = append(deltas, Delta{WalletID: *e.TargetWalletID, Amount: e.Amount.Mul(s)})
		}
		return deltas
	}
	return nil
}
