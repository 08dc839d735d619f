// Package provider implements the outbound market-data clients: exchange
// rates from Frankfurter and asset prices from Yahoo Finance and Binance.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/phoebudget/phoebudget/pkg/config"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/shopspring/decimal"
)

// FrankfurterProvider fetches exchange rates from the Frankfurter API.
type FrankfurterProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// frankfurterResponse is the subset of the Frankfurter latest-rates payload
// we consume. Rates arrive as JSON numbers; they are decoded via json.Number
// so no binary float ever touches the value.
type frankfurterResponse struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

// NewFrankfurterProvider creates a Frankfurter rate provider using config.
func NewFrankfurterProvider(
	cfg config.ExchangeRateProvider,
	logger *slog.Logger,
) *FrankfurterProvider {
	return &FrankfurterProvider{
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// Rate fetches the current rate for one currency pair.
func (p *FrankfurterProvider) Rate(
	ctx context.Context,
	from, to currency.Code,
) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	url := fmt.Sprintf("%s/latest?from=%s&to=%s", p.baseURL, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch rate %s->%s: %w", from, to, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		p.logger.Warn("rate API returned non-200",
			"status", resp.StatusCode, "from", from, "to", to, "body", string(body))
		if resp.StatusCode == http.StatusNotFound {
			return decimal.Zero, domain.ErrUnknownCurrency
		}
		return decimal.Zero, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	var payload frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode rate response: %w", err)
	}

	raw, ok := payload.Rates[to.String()]
	if !ok {
		return decimal.Zero, domain.ErrUnknownCurrency
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse rate %q: %w", raw.String(), err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive rate %s for %s->%s", rate, from, to)
	}

	p.logger.Debug("exchange rate fetched", "from", from, "to", to, "rate", rate)
	return rate, nil
}

var _ provider.ExchangeRateProvider = (*FrankfurterProvider)(nil)
