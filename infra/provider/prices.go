package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phoebudget/phoebudget/pkg/config"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/shopspring/decimal"
)

// Source tags of the asset catalog, selecting the upstream price API.
const (
	SourceYahoo   = "yahoo"
	SourceBinance = "binance"
)

// MarketPriceFetcher serves price quotes from Yahoo Finance (stocks, ETFs)
// and Binance (crypto), dispatching on the asset's source tag.
type MarketPriceFetcher struct {
	yahooURL   string
	binanceURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewMarketPriceFetcher creates a price fetcher using config. The HTTP client
// carries no timeout of its own; callers bound each fetch via context.
func NewMarketPriceFetcher(
	cfg config.PriceProvider,
	logger *slog.Logger,
) *MarketPriceFetcher {
	return &MarketPriceFetcher{
		yahooURL:   cfg.YahooUrl,
		binanceURL: cfg.BinanceUrl,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Fetch returns the latest quote for apiTicker from the given source.
func (f *MarketPriceFetcher) Fetch(
	ctx context.Context,
	apiTicker, source string,
) (provider.Quote, error) {
	switch source {
	case SourceYahoo:
		return f.fetchYahoo(ctx, apiTicker)
	case SourceBinance:
		return f.fetchBinance(ctx, apiTicker)
	default:
		return provider.Quote{}, fmt.Errorf("unknown price source %q", source)
	}
}

// yahooChartResponse is the subset of the Yahoo v8 chart payload we consume.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice json.Number `json:"regularMarketPrice"`
				Currency           string      `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *MarketPriceFetcher) fetchYahoo(
	ctx context.Context,
	apiTicker string,
) (provider.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s", f.yahooURL, apiTicker)

	var payload yahooChartResponse
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return provider.Quote{}, err
	}
	if payload.Chart.Error != nil {
		return provider.Quote{}, fmt.Errorf("yahoo: %s: %s",
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return provider.Quote{}, fmt.Errorf("yahoo: no result for %s", apiTicker)
	}

	meta := payload.Chart.Result[0].Meta
	price, err := decimal.NewFromString(meta.RegularMarketPrice.String())
	if err != nil {
		return provider.Quote{}, fmt.Errorf("yahoo: parse price %q: %w",
			meta.RegularMarketPrice.String(), err)
	}
	return provider.Quote{
		Price:    price,
		Currency: currency.Code(strings.ToUpper(meta.Currency)),
	}, nil
}

// binanceTickerResponse is the Binance spot ticker price payload.
type binanceTickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// fetchBinance quotes a spot symbol. Catalog symbols are USDT pairs; the
// quote currency is reported as USD.
func (f *MarketPriceFetcher) fetchBinance(
	ctx context.Context,
	apiTicker string,
) (provider.Quote, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", f.binanceURL, apiTicker)

	var payload binanceTickerResponse
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return provider.Quote{}, err
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return provider.Quote{}, fmt.Errorf("binance: parse price %q: %w", payload.Price, err)
	}
	return provider.Quote{
		Price:    price,
		Currency: currency.Code("USD"),
	}, nil
}

func (f *MarketPriceFetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build price request: %w", err)
	}
	// Yahoo rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; phoebudget/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		f.logger.Warn("price API returned non-200",
			"status", resp.StatusCode, "url", url, "body", string(body))
		return fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode price response: %w", err)
	}
	return nil
}

var _ provider.PriceFetcher = (*MarketPriceFetcher)(nil)
