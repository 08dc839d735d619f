// Package pocket implements pocket CRUD and atomic pocket-to-pocket
// transfers. A transfer is two linked ledger rows written in one unit of
// work: both legs land or neither does.
package pocket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	ledgerdomain "github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/domain/money"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
)

// Category names of the paired transfer categories seeded in the catalog.
const (
	TransferOutCategory = "Transfer Out"
	TransferInCategory  = "Transfer In"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreatePocket creates a named pocket. The default flag is never
// caller-settable here; only registration creates the default pocket.
func (s *Service) CreatePocket(
	ctx context.Context,
	userID uuid.UUID,
	name, description, icon string,
) (*dto.PocketRead, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: pocket name", domain.ErrEmptyName)
	}
	if icon == "" {
		icon = "account_balance_wallet"
	}
	return s.uow.Pockets().Create(ctx, dto.PocketCreate{
		UserID:      userID,
		Name:        name,
		Description: description,
		Icon:        icon,
	})
}

// GetPocket returns one pocket owned by the caller.
func (s *Service) GetPocket(ctx context.Context, id, userID uuid.UUID) (*dto.PocketRead, error) {
	return s.uow.Pockets().Get(ctx, id, userID)
}

// ListPockets returns the caller's pockets, default first.
func (s *Service) ListPockets(ctx context.Context, userID uuid.UUID) ([]dto.PocketRead, error) {
	return s.uow.Pockets().List(ctx, userID)
}

// UpdatePocket mutates only the supplied fields.
func (s *Service) UpdatePocket(
	ctx context.Context,
	id, userID uuid.UUID,
	update dto.PocketUpdate,
) error {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return fmt.Errorf("%w: pocket name", domain.ErrEmptyName)
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Pockets().Get(ctx, id, userID); err != nil {
			return err
		}
		return uow.Pockets().Update(ctx, id, userID, update)
	})
	return err
}

// DeletePocket removes an empty, non-default pocket. The default pocket is
// never deletable; a pocket still referenced by live transactions is blocked
// rather than cascaded, so no history is destroyed behind a single call.
func (s *Service) DeletePocket(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With("context", "DeletePocket", "pocketID", id)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		p, err := uow.Pockets().Get(ctx, id, userID)
		if err != nil {
			return err
		}
		if p.IsDefault {
			return domain.ErrCannotDeleteDefault
		}
		live, err := uow.Transactions().CountLiveByPocket(ctx, userID, id)
		if err != nil {
			return err
		}
		if live > 0 {
			return domain.ErrPocketInUse
		}
		return uow.Pockets().Delete(ctx, id, userID)
	})
	if err != nil {
		log.Error("delete failed", "error", err)
		return err
	}
	log.Info("pocket deleted")
	return nil
}

// Balance returns the signed live balance of one pocket in the owner's base
// currency.
func (s *Service) Balance(ctx context.Context, userID, pocketID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.uow.Pockets().Get(ctx, pocketID, userID); err != nil {
		return decimal.Zero, err
	}
	return s.uow.Transactions().SumLiveSignedByPocket(ctx, userID, pocketID)
}

// Transfer atomically moves an amount between two pockets by writing a
// Transfer Out leg and a Transfer In leg sharing one transfer id, timestamp
// and description. On any failure neither leg is committed.
func (s *Service) Transfer(
	ctx context.Context,
	userID, sourceID, destID uuid.UUID,
	amount decimal.Decimal,
	description string,
) error {
	log := s.logger.With("context", "Transfer", "userID", userID)

	if sourceID == destID {
		return domain.ErrSamePocket
	}
	if err := money.ValidateAmount(amount); err != nil {
		return err
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Pockets().Get(ctx, sourceID, userID); err != nil {
			return err
		}
		if _, err := uow.Pockets().Get(ctx, destID, userID); err != nil {
			return err
		}

		balance, err := uow.Transactions().SumLiveSignedByPocket(ctx, userID, sourceID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		catOut, err := uow.Categories().GetByName(ctx, TransferOutCategory)
		if err != nil {
			return err
		}
		catIn, err := uow.Categories().GetByName(ctx, TransferInCategory)
		if err != nil {
			return err
		}

		if description == "" {
			description = "Pocket transfer"
		}
		transferID := uuid.New()
		now := time.Now().UTC()

		out := &ledgerdomain.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			PocketID:    sourceID,
			CategoryID:  catOut.ID,
			Amount:      amount,
			Description: description,
			OccurredAt:  now,
			TransferID:  &transferID,
		}
		in := &ledgerdomain.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			PocketID:    destID,
			CategoryID:  catIn.ID,
			Amount:      amount,
			Description: description,
			OccurredAt:  now,
			TransferID:  &transferID,
		}
		if err := uow.Transactions().Create(ctx, out); err != nil {
			return fmt.Errorf("transfer out leg: %w", err)
		}
		if err := uow.Transactions().Create(ctx, in); err != nil {
			return fmt.Errorf("transfer in leg: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("transfer failed", "error", err)
		return err
	}
	log.Info("transfer completed", "source", sourceID, "destination", destID)
	return nil
}
