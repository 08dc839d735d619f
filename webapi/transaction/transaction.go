// Package transaction exposes the ledger endpoints: create, read, update,
// soft delete, restore and paged listing.
package transaction

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/dto"
	ledgersvc "github.com/phoebudget/phoebudget/pkg/service/ledger"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/shopspring/decimal"
)

// Routes mounts the transaction endpoints behind the protected middleware.
func Routes(router fiber.Router, svc *ledgersvc.Service, protected fiber.Handler) {
	g := router.Group("/transactions", protected)
	g.Post("/", Create(svc))
	g.Get("/", List(svc))
	g.Get("/:id", Get(svc))
	g.Put("/:id", Update(svc))
	g.Delete("/:id", Delete(svc))
	g.Post("/:id/restore", Restore(svc))
}

// Create writes a new ledger entry, normalizing into the caller's base
// currency.
func Create(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateTransactionInput](c)
		if input == nil {
			return err
		}

		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return common.DomainErrorJSON(c,
				fmt.Errorf("%w: %s", domain.ErrInvalidAmount, input.Amount))
		}
		create := dto.TransactionCreate{
			UserID:      userID,
			CategoryID:  input.CategoryID,
			Amount:      amount,
			Currency:    currency.Code(input.Currency),
			Description: input.Description,
			OccurredAt:  time.Now().UTC(),
		}
		if input.OccurredAt != nil {
			create.OccurredAt = *input.OccurredAt
		}
		if input.PocketID != nil {
			pocketID, err := uuid.Parse(*input.PocketID)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
			}
			create.PocketID = &pocketID
		}
		if input.ExchangeRate != nil {
			rate, err := decimal.NewFromString(*input.ExchangeRate)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid exchange rate")
			}
			create.ExchangeRate = &rate
		}

		read, err := svc.CreateTransaction(c.Context(), create)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "transaction created", read)
	}
}

// Get returns one live transaction.
func Get(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid transaction id")
		}
		read, err := svc.GetTransaction(c.Context(), id, userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", read)
	}
}

// List returns one page of live transactions, newest first.
func List(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}

		filter := dto.TransactionFilter{
			Page:  c.QueryInt("page", 1),
			Limit: c.QueryInt("limit", 20),
		}
		if raw := c.Query("start_date"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid start_date")
			}
			filter.StartDate = &t
		}
		if raw := c.Query("end_date"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid end_date")
			}
			filter.EndDate = &t
		}
		if raw := c.Query("pocket_id"); raw != "" {
			pocketID, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket_id")
			}
			filter.PocketID = &pocketID
		}

		page, err := svc.ListTransactions(c.Context(), userID, filter)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", page)
	}
}

// Update mutates only the supplied fields of a live transaction.
func Update(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid transaction id")
		}
		input, err := common.BindAndValidate[UpdateTransactionInput](c)
		if input == nil {
			return err
		}

		update := dto.TransactionUpdate{
			CategoryID:  input.CategoryID,
			Description: input.Description,
			OccurredAt:  input.OccurredAt,
		}
		if input.Amount != nil {
			amount, err := decimal.NewFromString(*input.Amount)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid amount")
			}
			update.Amount = &amount
		}
		if input.Currency != nil {
			code := currency.Code(*input.Currency)
			update.Currency = &code
		}
		if input.ExchangeRate != nil {
			rate, err := decimal.NewFromString(*input.ExchangeRate)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid exchange rate")
			}
			update.ExchangeRate = &rate
		}
		if input.PocketID != nil {
			pocketID, err := uuid.Parse(*input.PocketID)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
			}
			update.PocketID = &pocketID
		}

		if err := svc.UpdateTransaction(c.Context(), id, userID, update); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "transaction updated", nil)
	}
}

// Delete tombstones a transaction; for a transfer leg both legs are
// tombstoned together.
func Delete(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid transaction id")
		}
		if err := svc.SoftDelete(c.Context(), id, userID); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "transaction deleted", nil)
	}
}

// Restore clears a tombstone, bringing the row (and a linked transfer leg)
// back unchanged.
func Restore(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid transaction id")
		}
		if err := svc.Restore(c.Context(), id, userID); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "transaction restored", nil)
	}
}
