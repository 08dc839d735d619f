// Package portfolio manages per-user holdings and the shared asset catalog.
// Price refresh is deliberately best-effort: each ticker is fetched
// independently under its own timeout and failures never abort the batch.
package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/money"
	portfoliodomain "github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
)

type Service struct {
	uow          repository.UnitOfWork
	prices       provider.PriceFetcher
	rates        provider.ExchangeRateProvider
	fetchTimeout time.Duration
	logger       *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	prices provider.PriceFetcher,
	rates provider.ExchangeRateProvider,
	fetchTimeout time.Duration,
	logger *slog.Logger,
) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 8 * time.Second
	}
	return &Service{
		uow:          uow,
		prices:       prices,
		rates:        rates,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// AddHolding records a new position. The ticker must exist in the catalog and
// a user can hold each ticker at most once.
func (s *Service) AddHolding(ctx context.Context, create dto.HoldingCreate) error {
	log := s.logger.With("context", "AddHolding", "ticker", create.Ticker)

	if err := money.ValidateAmount(create.Quantity); err != nil {
		return err
	}
	if err := money.ValidateAmount(create.AvgBuyPrice); err != nil {
		return err
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Assets().Get(ctx, create.Ticker); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUnknownAsset
			}
			return err
		}
		held, err := uow.Holdings().Exists(ctx, create.UserID, create.Ticker)
		if err != nil {
			return err
		}
		if held {
			return domain.ErrAlreadyHeld
		}
		return uow.Holdings().Create(ctx, create)
	})
	if err != nil {
		log.Error("add holding failed", "error", err)
		return err
	}
	log.Info("holding added")
	return nil
}

// UpdateHolding overwrites quantity and/or average buy price as supplied.
// These are user-declared figures; no reconciliation against the ledger is
// attempted.
func (s *Service) UpdateHolding(
	ctx context.Context,
	userID uuid.UUID,
	ticker string,
	update dto.HoldingUpdate,
) error {
	if update.Quantity != nil {
		if err := money.ValidateAmount(*update.Quantity); err != nil {
			return err
		}
	}
	if update.AvgBuyPrice != nil {
		if err := money.ValidateAmount(*update.AvgBuyPrice); err != nil {
			return err
		}
	}
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		held, err := uow.Holdings().Exists(ctx, userID, ticker)
		if err != nil {
			return err
		}
		if !held {
			return domain.ErrNotFound
		}
		return uow.Holdings().Update(ctx, userID, ticker, update)
	})
}

// RemoveHolding deletes a position.
func (s *Service) RemoveHolding(ctx context.Context, userID uuid.UUID, ticker string) error {
	deleted, err := s.uow.Holdings().Delete(ctx, userID, ticker)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RefreshPrices refreshes the cached price of every ticker currently held by
// any user. Fetches run concurrently, each bounded by the per-ticker timeout;
// a failed or timed-out fetch leaves that asset row untouched and is counted
// as skipped. Returns the number of tickers successfully updated.
func (s *Service) RefreshPrices(ctx context.Context) (int, error) {
	log := s.logger.With("context", "RefreshPrices")

	tickers, err := s.uow.Holdings().DistinctTickers(ctx)
	if err != nil {
		return 0, err
	}

	var updated atomic.Int64
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			if err := s.refreshTicker(ctx, ticker); err != nil {
				log.Warn("price refresh skipped", "ticker", ticker, "error", err)
				return
			}
			updated.Add(1)
		}(ticker)
	}
	wg.Wait()

	log.Info("price refresh finished", "tickers", len(tickers), "updated", updated.Load())
	return int(updated.Load()), nil
}

func (s *Service) refreshTicker(ctx context.Context, ticker string) error {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	asset, err := s.uow.Assets().Get(ctx, ticker)
	if err != nil {
		return err
	}
	apiTicker := asset.APITicker
	if apiTicker == "" {
		apiTicker = asset.Ticker
	}
	quote, err := s.prices.Fetch(ctx, apiTicker, asset.Source)
	if err != nil {
		return err
	}
	return s.uow.Assets().UpdatePrice(
		ctx, ticker, quote.Price, quote.Currency, time.Now().UTC(),
	)
}

// GetPortfolio joins the caller's holdings with catalog prices and values the
// whole portfolio in the caller's base currency.
func (s *Service) GetPortfolio(ctx context.Context, userID uuid.UUID) (*dto.PortfolioRead, error) {
	user, err := s.uow.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	base := currency.Code(user.BaseCurrency)

	rows, err := s.uow.Holdings().ListJoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	rates := make(map[currency.Code]decimal.Decimal)
	for _, row := range rows {
		cur := row.AssetCurrency
		if cur == "" || cur == base {
			continue
		}
		if _, ok := rates[cur]; ok {
			continue
		}
		rate, err := s.rates.Rate(ctx, cur, base)
		if err != nil {
			return nil, err
		}
		rates[cur] = rate
	}

	v := portfoliodomain.Value(rows, rates, base)
	read := &dto.PortfolioRead{
		Investments:    make([]dto.InvestmentRead, 0, len(v.Investments)),
		TotalCost:      v.TotalCost,
		AbsoluteChange: v.AbsoluteChange,
	}
	for _, inv := range v.Investments {
		read.Investments = append(read.Investments, dto.InvestmentRead{
			Ticker:                inv.Ticker,
			Name:                  inv.Name,
			Quantity:              inv.Quantity,
			AvgBuyPrice:           inv.AvgBuyPrice,
			AvgBuyPriceConverted:  inv.AvgBuyPriceConverted,
			CurrentPrice:          inv.CurrentPrice,
			CurrentPriceConverted: inv.CurrentPriceConverted,
			TotalValue:            inv.TotalValue,
			TotalValueConverted:   inv.TotalValueConverted,
			ChangePct:             inv.ChangePct,
			Currency:              base.String(),
			AssetCurrency:         inv.AssetCurrency.String(),
			IconURL:               inv.IconURL,
		})
	}
	return read, nil
}

// ListAssets returns the global catalog.
func (s *Service) ListAssets(ctx context.Context) ([]dto.AssetRead, error) {
	return s.uow.Assets().List(ctx)
}
