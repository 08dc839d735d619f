package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/shopspring/decimal"
)

type cachedRate struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// CachedExchangeRate decorates an ExchangeRateProvider with an in-memory TTL
// cache. Rates drift slowly, so every request in a window reuses one fetch.
type CachedExchangeRate struct {
	next   provider.ExchangeRateProvider
	ttl    time.Duration
	logger *slog.Logger

	mu    sync.RWMutex
	rates map[string]cachedRate
}

// NewCachedExchangeRate creates a new CachedExchangeRate.
func NewCachedExchangeRate(
	next provider.ExchangeRateProvider,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedExchangeRate {
	return &CachedExchangeRate{
		next:   next,
		ttl:    ttl,
		logger: logger,
		rates:  make(map[string]cachedRate),
	}
}

// Rate returns the cached rate for the pair when fresh, fetching and caching
// otherwise.
func (c *CachedExchangeRate) Rate(
	ctx context.Context,
	from, to currency.Code,
) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := fmt.Sprintf("%s:%s", from, to)

	c.mu.RLock()
	cached, ok := c.rates[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt) {
		c.logger.Debug("rate cache hit", "key", key, "rate", cached.rate)
		return cached.rate, nil
	}

	rate, err := c.next.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	c.rates[key] = cachedRate{rate: rate, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return rate, nil
}

var _ provider.ExchangeRateProvider = (*CachedExchangeRate)(nil)
