// Package analytics computes read-only aggregates over committed ledger and
// portfolio state. Soft-deleted transactions are excluded from every figure.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	portfoliodomain "github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
)

type Service struct {
	uow    repository.UnitOfWork
	rates  provider.ExchangeRateProvider
	logger *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	rates provider.ExchangeRateProvider,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, rates: rates, logger: logger}
}

// CategoryAnalysis sums live transaction amounts per category over the range,
// splits the totals by income vs spend, and skips categories flagged
// exclude_from_analysis (the transfer pair), so moving money between pockets
// never shows up as income or spending.
func (s *Service) CategoryAnalysis(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) (*dto.CategoryAnalysis, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	categories, err := s.uow.Transactions().CategoryTotals(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	analysis := &dto.CategoryAnalysis{Categories: categories}
	for _, cat := range categories {
		if cat.IsIncome {
			analysis.TotalIncome = analysis.TotalIncome.Add(cat.Total)
		} else {
			analysis.TotalSpent = analysis.TotalSpent.Add(cat.Total)
		}
	}
	analysis.NetIncome = analysis.TotalIncome.Sub(analysis.TotalSpent)
	return analysis, nil
}

// NetWorth decomposes the caller's net worth into the signed cash balance
// over all pockets plus the portfolio valued in the base currency. The
// returned total always equals the sum of the two parts.
func (s *Service) NetWorth(ctx context.Context, userID uuid.UUID) (*dto.NetWorth, error) {
	user, err := s.uow.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	base := currency.Code(user.BaseCurrency)

	cash, err := s.uow.Transactions().SumLiveSigned(ctx, userID)
	if err != nil {
		return nil, err
	}

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

	invested := decimal.Zero
	for _, inv := range portfoliodomain.Value(rows, rates, base).Investments {
		invested = invested.Add(inv.TotalValueConverted)
	}

	return &dto.NetWorth{
		CashBalance:       cash,
		InvestmentBalance: invested,
		TotalNetWorth:     cash.Add(invested),
	}, nil
}

// Categories lists the global category table.
func (s *Service) Categories(ctx context.Context) ([]dto.CategoryRead, error) {
	return s.uow.Categories().List(ctx)
}
