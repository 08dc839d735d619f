// Package provider declares the external market-data capabilities the core
// consumes. Transports live under infra/provider.
package provider

import (
	"context"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider returns a point-in-time rate from one currency to
// another. Implementations must honor ctx deadlines.
type ExchangeRateProvider interface {
	Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error)
}

// Quote is one fetched asset price in its native currency.
type Quote struct {
	Price    decimal.Decimal
	Currency currency.Code
}

// PriceFetcher fetches the latest quote for an asset from its configured
// source tag (e.g. YAHOO, BINANCE). A failure affects only that ticker.
type PriceFetcher interface {
	Fetch(ctx context.Context, apiTicker, source string) (Quote, error)
}
