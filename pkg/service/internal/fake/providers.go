package fake

import (
	"context"
	"fmt"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/shopspring/decimal"
)

// Rates is a table-driven exchange rate provider keyed by "FROM:TO".
type Rates struct {
	Table map[string]decimal.Decimal
	Err   error
}

func (r *Rates) Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error) {
	if r.Err != nil {
		return decimal.Zero, r.Err
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := r.Table[fmt.Sprintf("%s:%s", from, to)]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s:%s", from, to)
	}
	return rate, nil
}

var _ provider.ExchangeRateProvider = (*Rates)(nil)

// Prices is a table-driven price fetcher keyed by api ticker. Tickers listed
// in Errs fail.
type Prices struct {
	Quotes map[string]provider.Quote
	Errs   map[string]error
}

func (p *Prices) Fetch(ctx context.Context, apiTicker, source string) (provider.Quote, error) {
	if err, ok := p.Errs[apiTicker]; ok {
		return provider.Quote{}, err
	}
	quote, ok := p.Quotes[apiTicker]
	if !ok {
		return provider.Quote{}, fmt.Errorf("no quote for %s", apiTicker)
	}
	return quote, nil
}

var _ provider.PriceFetcher = (*Prices)(nil)
