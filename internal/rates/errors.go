package rates

import "errors"

var (
	// ErrRateUnavailable means the rate could not be resolved from cache
	// or the provider. Callers fall back, they never hard-fail on it.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	ErrInvalidCurrency = errors.New("invalid currency code")
)
