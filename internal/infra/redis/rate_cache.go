package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/pkg/logger"
)

const (
	// DefaultTTL is how long a resolved rate stays valid. Fiat rates move
	// slowly; the original system settled on a day after starting at an hour.
	DefaultTTL = 24 * time.Hour

	// KeyPrefix is the prefix for rate cache keys.
	KeyPrefix = "rate:"
)

// RateCache is a Redis-backed exchange-rate cache.
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRateCache creates a rate cache with the default TTL.
func NewRateCache(client *redis.Client, log *logger.Logger) *RateCache {
	return NewRateCacheWithTTL(client, DefaultTTL, log)
}

// NewRateCacheWithTTL creates a rate cache with a custom TTL.
func NewRateCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *RateCache {
	return &RateCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "rate-cache"),
	}
}

// cachedRate is the serialized cache entry.
type cachedRate struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      string    `json:"rate"` // decimal serialized as string
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

func rateKey(from, to string) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, from, to)
}

// Get retrieves a cached rate for a currency pair.
func (c *RateCache) Get(ctx context.Context, from, to string) (decimal.Decimal, bool, error) {
	key := rateKey(from, to)

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("rate cache miss", "from", from, "to", to)
		return decimal.Zero, false, nil
	}
	if err != nil {
		c.logger.Error("rate cache error", "operation", "get", "from", from, "to", to, "error", err)
		return decimal.Zero, false, fmt.Errorf("failed to get cached rate: %w", err)
	}

	var cached cachedRate
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to unmarshal cached rate: %w", err)
	}

	rate, err := decimal.NewFromString(cached.Rate)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to parse cached rate: %w", err)
	}

	c.logger.Debug("rate cache hit", "from", from, "to", to)
	return rate, true, nil
}

// Set stores a rate for a currency pair.
func (c *RateCache) Set(ctx context.Context, from, to string, rate decimal.Decimal, source string) error {
	key := rateKey(from, to)

	cached := cachedRate{
		From:      from,
		To:        to,
		Rate:      rate.String(),
		Source:    source,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("rate cache error", "operation", "set", "from", from, "to", to, "error", err)
		return fmt.Errorf("failed to set cached rate: %w", err)
	}

	return nil
}

// Delete removes a cached rate.
func (c *RateCache) Delete(ctx context.Context, from, to string) error {
	return c.client.Del(ctx, rateKey(from, to)).Err()
}
