package rates

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/pkg/logger"
)

// Converter resolves exchange rates and normalizes amounts.
// The ledger and the reporting engine depend on this, never on the
// concrete client.
type Converter interface {
	// CurrentRate resolves the spot rate between two currency codes.
	// Same-currency pairs return exactly 1 without any lookup. Returns
	// ErrRateUnavailable when neither cache nor provider can answer.
	CurrentRate(ctx context.Context, from, to string) (decimal.Decimal, error)

	// Convert converts an amount between currencies. A non-nil override
	// rate is used verbatim (user-entered historical rate). On lookup
	// failure without an override the original amount is returned
	// unconverted: financial views must still render during an outage.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, override *decimal.Decimal) decimal.Decimal

	// ToBase converts an amount into the system base currency.
	ToBase(ctx context.Context, amount decimal.Decimal, currency string, override *decimal.Decimal) decimal.Decimal

	// BaseCurrency returns the system base currency code.
	BaseCurrency() string
}

// Source fetches a live rate from the external provider.
type Source interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Cache stores resolved rates for a bounded TTL.
type Cache interface {
	Get(ctx context.Context, from, to string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, from, to string, rate decimal.Decimal, source string) error
}

// Service resolves rates with a cache in front of the provider.
type Service struct {
	source Source
	cache  Cache
	base   string
	logger *logger.Logger
}

// NewService creates a new conversion service.
func NewService(source Source, cache Cache, baseCurrency string, log *logger.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		base:   strings.ToUpper(baseCurrency),
		logger: log.WithField("component", "rates"),
	}
}

// BaseCurrency returns the system base currency code.
func (s *Service) BaseCurrency() string {
	return s.base
}

// CurrentRate resolves the spot rate from one currency to another.
// Lookup order: identity → cache → provider. A provider hit is written
// back to the cache; a provider failure is logged and degrades to
// ErrRateUnavailable.
func (s *Service) CurrentRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == "" || to == "" {
		return decimal.Zero, ErrInvalidCurrency
	}

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if s.cache != nil {
		rate, found, err := s.cache.Get(ctx, from, to)
		if err != nil {
			s.logger.Warn("rate cache lookup failed", "from", from, "to", to, "error", err)
		} else if found {
			return rate, nil
		}
	}

	rate, err := s.source.Rate(ctx, from, to)
	if err != nil {
		s.logger.Warn("failed to fetch exchange rate", "from", from, "to", to, "error", err)
		return decimal.Zero, ErrRateUnavailable
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, from, to, rate, "api"); err != nil {
			s.logger.Warn("failed to cache exchange rate", "from", from, "to", to, "error", err)
		}
	}

	return rate, nil
}

// Convert converts an amount between currencies, failing open to the
// unconverted amount when no rate can be resolved.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string, override *decimal.Decimal) decimal.Decimal {
	return convert(ctx, s, amount, from, to, override, s.logger)
}

// ToBase converts an amount into the base currency.
func (s *Service) ToBase(ctx context.Context, amount decimal.Decimal, currency string, override *decimal.Decimal) decimal.Decimal {
	return s.Convert(ctx, amount, currency, s.base, override)
}

// convert implements the shared conversion contract on top of any rate
// lookup. Memo reuses it so both paths stay byte-identical in behavior.
func convert(ctx context.Context, lookup interface {
	CurrentRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}, amount decimal.Decimal, from, to string, override *decimal.Decimal, log *logger.Logger) decimal.Decimal {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return amount
	}

	var rate decimal.Decimal
	if override != nil {
		rate = *override
	} else {
		resolved, err := lookup.CurrentRate(ctx, from, to)
		if err != nil {
			// Fail open: downstream financial displays must still render.
			log.Warn("conversion degraded to unconverted amount",
				"from", from, "to", to, "amount", amount.String())
			return amount
		}
		rate = resolved
	}

	return amount.Mul(rate)
}
