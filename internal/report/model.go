package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/wallet"
)

// DatePoint is a month-end column in the balance tracker matrix.
type DatePoint struct {
	Key   string    `json:"key"`   // "2006-01"
	Label string    `json:"label"` // "Jan 2006"
	Date  time.Time `json:"date"`  // last day of the month
}

// WalletRow is one wallet's reconstructed balance at every date point,
// in the wallet's native currency.
type WalletRow struct {
	ID       uuid.UUID                  `json:"id"`
	Name     string                     `json:"name"`
	Type     wallet.Type                `json:"type"`
	Currency string                     `json:"currency"`
	Balances map[string]decimal.Decimal `json:"balances"` // keyed by DatePoint.Key
}

// Series is the multi-month balance tracker matrix: wallets as rows,
// month-end date points as columns, plus cross-wallet totals per point
// normalized into the base currency.
type Series struct {
	Points []DatePoint                `json:"periods"`
	Rows   []WalletRow                `json:"matrix"`
	Totals map[string]decimal.Decimal `json:"totals"`
	Range  Range                      `json:"range"`
}

// Direction labels a statement line from the perspective of one wallet.
// A transfer is represented as two lines, transfer_out on the source
// wallet and transfer_in on the target, each with its own running
// balance.
type Direction string

const (
	DirectionIncome      Direction = "income"
	DirectionExpense     Direction = "expense"
	DirectionTransferIn  Direction = "transfer_in"
	DirectionTransferOut Direction = "transfer_out"
)

// Line is one replayed transaction effect on one wallet, carrying the
// wallet's running balance immediately after applying it.
type Line struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Direction     Direction       `json:"direction"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	Running       decimal.Decimal `json:"running_balance"`
}

// WalletSummary carries a wallet's period totals in native currency plus
// base-currency equivalents for cross-wallet aggregation.
type WalletSummary struct {
	Opening     decimal.Decimal `json:"opening_balance"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Closing     decimal.Decimal `json:"closing_balance"`
	NetFlow     decimal.Decimal `json:"net_flow"`
	OpeningBase decimal.Decimal `json:"opening_balance_base"`
	ClosingBase decimal.Decimal `json:"closing_balance_base"`
	IncomeBase  decimal.Decimal `json:"income_base"`
	ExpenseBase decimal.Decimal `json:"expense_base"`
}

// WalletStatement is the forward running-balance replay for one wallet
// over a bounded period.
type WalletStatement struct {
	Wallet  *wallet.Wallet `json:"wallet"`
	Summary WalletSummary  `json:"summary"`
	Lines   []Line         `json:"transactions"`
}

// Totals aggregates every wallet's period summary in base currency.
type Totals struct {
	Opening decimal.Decimal `json:"opening_balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Closing decimal.Decimal `json:"closing_balance"`
	NetFlow decimal.Decimal `json:"net_flow"`
}

// Statement is the complete statement response consumed by report views
// and the spreadsheet export.
type Statement struct {
	Start        time.Time         `json:"start_date"`
	End          time.Time         `json:"end_date"`
	BaseCurrency string            `json:"base_currency"`
	Wallets      []WalletStatement `json:"wallets"`
	Totals       Totals            `json:"totals"`
}
