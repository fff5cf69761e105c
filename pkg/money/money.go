package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Stored monetary amounts carry exactly two fractional digits. Exchange
// rates and intermediate conversion math keep full decimal precision and
// are rounded back to 2dp at the storage boundary.
const StoredScale = 2

// Zero is the canonical zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Round rounds an amount to the stored scale (half-up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(StoredScale)
}

// Parse parses a monetary amount from its string form.
// Rejects empty strings and anything that is not a plain decimal number.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ParsePositive parses an amount and requires it to be strictly positive.
// Direction is always encoded by the transaction type, never by sign.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d.String())
	}
	return d, nil
}

// FromFloat converts a float input (e.g. a JSON number) into a stored
// amount, rounding to the stored scale.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(StoredScale)
}

// Equal reports whether two amounts are numerically equal.
// decimal.Decimal values with different exponents can represent the
// same number, so == is never the right comparison.
func Equal(a, b decimal.Decimal) bool {
	return a.Cmp(b) == 0
}
