// Package ledger implements transaction creation, amendment, soft deletion,
// restoration and listing. Every amount stored here is normalized into the
// owner's base currency first.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	ledgerdomain "github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/domain/money"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
)

// Service owns ledger rows. Multi-row effects (linked transfer legs on
// delete/restore) run inside a unit of work.
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

// CreateTransaction validates and normalizes the input, then writes a single
// ledger row. When the input currency differs from the owner's base currency
// the original amount, currency and rate are retained alongside the
// normalized amount.
func (s *Service) CreateTransaction(
	ctx context.Context,
	create dto.TransactionCreate,
) (read *dto.TransactionRead, err error) {
	log := s.logger.With("context", "CreateTransaction", "userID", create.UserID)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		user, err := uow.Users().Get(ctx, create.UserID)
		if err != nil {
			return err
		}
		base := currency.Code(user.BaseCurrency)

		cur := create.Currency
		if cur == "" {
			cur = base
		}
		m, err := money.New(create.Amount, cur)
		if err != nil {
			return err
		}

		pocket, err := s.resolvePocket(ctx, uow, create.UserID, create.PocketID)
		if err != nil {
			return err
		}
		if _, err := uow.Categories().Get(ctx, create.CategoryID); err != nil {
			return err
		}

		t := &ledgerdomain.Transaction{
			ID:          uuid.New(),
			UserID:      create.UserID,
			PocketID:    pocket.ID,
			CategoryID:  create.CategoryID,
			Amount:      m.Amount(),
			Description: create.Description,
			OccurredAt:  create.OccurredAt,
		}
		if m.Currency() != base {
			conv, err := s.convert(ctx, m, base, create.ExchangeRate)
			if err != nil {
				return err
			}
			from := conv.From
			t.Amount = conv.Amount
			t.OriginalCurrency = &from
			t.OriginalAmount = &conv.Original
			t.ExchangeRate = &conv.Rate
		}
		if err := uow.Transactions().Create(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		read, err = uow.Transactions().GetRead(ctx, t.ID, t.UserID)
		return err
	})
	if err != nil {
		log.Error("create failed", "error", err)
		return nil, err
	}
	log.Info("transaction created", "transactionID", read.ID)
	return read, nil
}

// UpdateTransaction mutates only the supplied fields. Amount and currency
// supplied together trigger re-normalization; an amount alone is taken as a
// base-currency amount and clears any conversion fields. Soft-deleted rows
// are not updatable and surface as not found.
func (s *Service) UpdateTransaction(
	ctx context.Context,
	id, userID uuid.UUID,
	update dto.TransactionUpdate,
) error {
	log := s.logger.With("context", "UpdateTransaction", "transactionID", id)

	if update.Currency != nil && update.Amount == nil {
		return fmt.Errorf("%w: currency requires an amount", domain.ErrInvalidAmount)
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		t, err := uow.Transactions().Get(ctx, id, userID)
		if err != nil {
			return err
		}
		if t.IsDeleted() {
			return domain.ErrNotFound
		}

		user, err := uow.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		base := currency.Code(user.BaseCurrency)

		if update.PocketID != nil {
			if _, err := uow.Pockets().Get(ctx, *update.PocketID, userID); err != nil {
				return err
			}
			t.PocketID = *update.PocketID
		}
		if update.CategoryID != nil {
			if _, err := uow.Categories().Get(ctx, *update.CategoryID); err != nil {
				return err
			}
			t.CategoryID = *update.CategoryID
		}
		if update.Description != nil {
			t.Description = *update.Description
		}
		if update.OccurredAt != nil {
			t.OccurredAt = *update.OccurredAt
		}
		if update.Amount != nil {
			cur := base
			if update.Currency != nil {
				cur = *update.Currency
			}
			m, err := money.New(*update.Amount, cur)
			if err != nil {
				return err
			}
			if cur != base {
				conv, err := s.convert(ctx, m, base, update.ExchangeRate)
				if err != nil {
					return err
				}
				from := conv.From
				t.Amount = conv.Amount
				t.OriginalCurrency = &from
				t.OriginalAmount = &conv.Original
				t.ExchangeRate = &conv.Rate
			} else {
				t.Amount = m.Amount()
				t.OriginalCurrency = nil
				t.OriginalAmount = nil
				t.ExchangeRate = nil
			}
		}
		return uow.Transactions().Save(ctx, t)
	})
	if err != nil {
		log.Error("update failed", "error", err)
		return err
	}
	log.Info("transaction updated")
	return nil
}

// SoftDelete tombstones a transaction. If the row is a transfer leg, its
// linked leg is tombstoned in the same unit of work so the pair stays
// balanced. Deleting an already-deleted row is a conflict.
func (s *Service) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With("context", "SoftDelete", "transactionID", id)
	now := time.Now().UTC()

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		t, err := uow.Transactions().Get(ctx, id, userID)
		if err != nil {
			return err
		}
		if err := t.MarkDeleted(now); err != nil {
			return err
		}
		if err := uow.Transactions().Save(ctx, t); err != nil {
			return err
		}
		if !t.IsTransferLeg() {
			return nil
		}
		legs, err := uow.Transactions().GetByTransferID(ctx, *t.TransferID, userID)
		if err != nil {
			return err
		}
		for _, leg := range legs {
			if leg.ID == t.ID || leg.IsDeleted() {
				continue
			}
			if err := leg.MarkDeleted(now); err != nil {
				return err
			}
			if err := uow.Transactions().Save(ctx, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("soft delete failed", "error", err)
		return err
	}
	log.Info("transaction soft-deleted")
	return nil
}

// Restore clears the tombstone, re-including the row in every aggregate with
// its original values unchanged. Linked transfer legs are restored together.
func (s *Service) Restore(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With("context", "Restore", "transactionID", id)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		t, err := uow.Transactions().Get(ctx, id, userID)
		if err != nil {
			return err
		}
		if err := t.MarkRestored(); err != nil {
			return err
		}
		if err := uow.Transactions().Save(ctx, t); err != nil {
			return err
		}
		if !t.IsTransferLeg() {
			return nil
		}
		legs, err := uow.Transactions().GetByTransferID(ctx, *t.TransferID, userID)
		if err != nil {
			return err
		}
		for _, leg := range legs {
			if leg.ID == t.ID || !leg.IsDeleted() {
				continue
			}
			if err := leg.MarkRestored(); err != nil {
				return err
			}
			if err := uow.Transactions().Save(ctx, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("restore failed", "error", err)
		return err
	}
	log.Info("transaction restored")
	return nil
}

// GetTransaction returns one live transaction with its category and pocket.
func (s *Service) GetTransaction(
	ctx context.Context,
	id, userID uuid.UUID,
) (*dto.TransactionRead, error) {
	read, err := s.uow.Transactions().GetRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if read.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return read, nil
}

// ListTransactions returns one page of live transactions, most recent first
// by occurred_at. The limit is clamped to [1, 100].
func (s *Service) ListTransactions(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) (*dto.TransactionPage, error) {
	if filter.StartDate != nil && filter.EndDate != nil &&
		filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	txs, err := s.uow.Transactions().ListLive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.uow.Transactions().CountLive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionPage{
		Transactions: txs,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int64(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *Service) resolvePocket(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	pocketID *uuid.UUID,
) (*dto.PocketRead, error) {
	if pocketID != nil {
		return uow.Pockets().Get(ctx, *pocketID, userID)
	}
	return uow.Pockets().GetDefault(ctx, userID)
}

func (s *Service) convert(
	ctx context.Context,
	m money.Money,
	base currency.Code,
	rate *decimal.Decimal,
) (money.Conversion, error) {
	if rate == nil {
		r, err := s.rates.Rate(ctx, m.Currency(), base)
		if err != nil {
			return money.Conversion{}, fmt.Errorf("fetch exchange rate: %w", err)
		}
		rate = &r
	}
	return money.Convert(m, base, *rate)
}
