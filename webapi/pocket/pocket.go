// Package pocket exposes pocket CRUD, balances and transfers.
package pocket

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/dto"
	pocketsvc "github.com/phoebudget/phoebudget/pkg/service/pocket"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/shopspring/decimal"
)

// Routes mounts the pocket endpoints behind the protected middleware.
func Routes(router fiber.Router, svc *pocketsvc.Service, protected fiber.Handler) {
	g := router.Group("/pockets", protected)
	g.Post("/", Create(svc))
	g.Get("/", List(svc))
	g.Post("/transfer", Transfer(svc))
	g.Get("/:id", Get(svc))
	g.Put("/:id", Update(svc))
	g.Delete("/:id", Delete(svc))
	g.Get("/:id/balance", Balance(svc))
}

// Create adds a named pocket for the caller.
func Create(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreatePocketInput](c)
		if input == nil {
			return err
		}
		read, err := svc.CreatePocket(c.Context(), userID, input.Name, input.Description, input.Icon)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "pocket created", read)
	}
}

// List returns the caller's pockets, default first.
func List(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		pockets, err := svc.ListPockets(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", pockets)
	}
}

// Get returns one pocket owned by the caller.
func Get(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
		}
		read, err := svc.GetPocket(c.Context(), id, userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", read)
	}
}

// Update mutates only the supplied fields.
func Update(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
		}
		input, err := common.BindAndValidate[UpdatePocketInput](c)
		if input == nil {
			return err
		}
		update := dto.PocketUpdate{
			Name:        input.Name,
			Description: input.Description,
			Icon:        input.Icon,
		}
		if err := svc.UpdatePocket(c.Context(), id, userID, update); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "pocket updated", nil)
	}
}

// Delete removes an empty, non-default pocket.
func Delete(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
		}
		if err := svc.DeletePocket(c.Context(), id, userID); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "pocket deleted", nil)
	}
}

// Balance returns the signed live balance of one pocket.
func Balance(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid pocket id")
		}
		balance, err := svc.Balance(c.Context(), userID, id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", fiber.Map{"balance": balance})
	}
}

// Transfer atomically moves an amount between two of the caller's pockets.
func Transfer(svc *pocketsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[TransferInput](c)
		if input == nil {
			return err
		}
		sourceID, err := uuid.Parse(input.SourceID)
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid source pocket id")
		}
		destID, err := uuid.Parse(input.DestID)
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid destination pocket id")
		}
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return common.DomainErrorJSON(c,
				fmt.Errorf("%w: %s", domain.ErrInvalidAmount, input.Amount))
		}
		if err := svc.Transfer(c.Context(), userID, sourceID, destID, amount, input.Description); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "transfer completed", nil)
	}
}
