package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAPIURL is the public exchange-rate endpoint; the base currency
// is appended to the path.
const DefaultAPIURL = "https://api.exchangerate-api.com/v4/latest/"

// DefaultTimeout bounds the provider call so a pricing-API outage never
// blocks a ledger mutation.
const DefaultTimeout = 5 * time.Second

// Client fetches spot exchange rates from the external provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new exchange-rate API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// latestResponse is the provider's response shape.
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// LatestRates fetches the full rate table for a base currency.
func (c *Client) LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+base, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status %d: %w", resp.StatusCode, ErrRateUnavailable)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	rateTable := make(map[string]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		rateTable[code] = decimal.NewFromFloat(rate)
	}
	return rateTable, nil
}

// Rate fetches a single spot rate from the provider.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	table, err := c.LatestRates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := table[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s/%s: %w", from, to, ErrRateUnavailable)
	}
	return rate, nil
}
