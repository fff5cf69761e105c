package rates

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/pkg/logger"
)

// Memo is a call-scoped memoization layer over a Converter. One Memo
// lives for one logical operation (one statement render, one tracker
// build) so repeated lookups of the same pair never re-fetch. It is not
// safe for concurrent use and must not outlive the operation; this
// replaces a process-global static map that leaked across requests.
type Memo struct {
	next   Converter
	seen   map[string]memoEntry
	logger *logger.Logger
}

type memoEntry struct {
	rate decimal.Decimal
	err  error
}

// NewMemo creates a call-scoped memo over a converter.
func NewMemo(next Converter, log *logger.Logger) *Memo {
	return &Memo{
		next:   next,
		seen:   make(map[string]memoEntry),
		logger: log.WithField("component", "rates-memo"),
	}
}

// BaseCurrency returns the underlying converter's base currency.
func (m *Memo) BaseCurrency() string {
	return m.next.BaseCurrency()
}

// CurrentRate resolves a rate, remembering both hits and misses for the
// lifetime of the memo.
func (m *Memo) CurrentRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := from + "/" + to
	if entry, ok := m.seen[key]; ok {
		return entry.rate, entry.err
	}

	rate, err := m.next.CurrentRate(ctx, from, to)
	m.seen[key] = memoEntry{rate: rate, err: err}
	return rate, err
}

// Convert converts using memoized rates, with the same fail-open
// contract as the underlying service.
func (m *Memo) Convert(ctx context.Context, amount decimal.Decimal, from, to string, override *decimal.Decimal) decimal.Decimal {
	return convert(ctx, m, amount, from, to, override, m.logger)
}

// ToBase converts into the base currency using memoized rates.
func (m *Memo) ToBase(ctx context.Context, amount decimal.Decimal, currency string, override *decimal.Decimal) decimal.Decimal {
	return m.Convert(ctx, amount, currency, m.next.BaseCurrency(), override)
}
