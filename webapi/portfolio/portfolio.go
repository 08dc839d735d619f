// Package portfolio exposes holding management, valuation and the price
// refresh endpoint.
package portfolio

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/dto"
	portfoliosvc "github.com/phoebudget/phoebudget/pkg/service/portfolio"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/shopspring/decimal"
)

// Routes mounts the portfolio endpoints behind the protected middleware.
func Routes(router fiber.Router, svc *portfoliosvc.Service, protected fiber.Handler) {
	g := router.Group("/portfolio", protected)
	g.Get("/", Get(svc))
	g.Post("/", Add(svc))
	g.Post("/refresh", Refresh(svc))
	g.Put("/:ticker", Update(svc))
	g.Delete("/:ticker", Remove(svc))

	router.Get("/assets", protected, Assets(svc))
}

// Get returns the caller's portfolio valued in their base currency.
func Get(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		read, err := svc.GetPortfolio(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", read)
	}
}

// Add records a new position in a catalog asset.
func Add(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[AddHoldingInput](c)
		if input == nil {
			return err
		}
		quantity, err := decimal.NewFromString(input.Quantity)
		if err != nil {
			return common.DomainErrorJSON(c,
				fmt.Errorf("%w: %s", domain.ErrInvalidAmount, input.Quantity))
		}
		avgBuyPrice, err := decimal.NewFromString(input.AvgBuyPrice)
		if err != nil {
			return common.DomainErrorJSON(c,
				fmt.Errorf("%w: %s", domain.ErrInvalidAmount, input.AvgBuyPrice))
		}
		create := dto.HoldingCreate{
			UserID:      userID,
			Ticker:      strings.ToUpper(input.Ticker),
			Quantity:    quantity,
			AvgBuyPrice: avgBuyPrice,
		}
		if err := svc.AddHolding(c.Context(), create); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "holding added", nil)
	}
}

// Update overwrites quantity and/or average buy price of a position.
func Update(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		ticker := strings.ToUpper(c.Params("ticker"))
		input, err := common.BindAndValidate[UpdateHoldingInput](c)
		if input == nil {
			return err
		}
		var update dto.HoldingUpdate
		if input.Quantity != nil {
			quantity, err := decimal.NewFromString(*input.Quantity)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid quantity")
			}
			update.Quantity = &quantity
		}
		if input.AvgBuyPrice != nil {
			avgBuyPrice, err := decimal.NewFromString(*input.AvgBuyPrice)
			if err != nil {
				return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid avg buy price")
			}
			update.AvgBuyPrice = &avgBuyPrice
		}
		if err := svc.UpdateHolding(c.Context(), userID, ticker, update); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "holding updated", nil)
	}
}

// Remove deletes a position.
func Remove(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		ticker := strings.ToUpper(c.Params("ticker"))
		if err := svc.RemoveHolding(c.Context(), userID, ticker); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "holding removed", nil)
	}
}

// Refresh re-fetches the price of every held ticker and reports how many
// were updated.
func Refresh(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		updated, err := svc.RefreshPrices(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "prices refreshed",
			fiber.Map{"updated": updated})
	}
}

// Assets lists the global asset catalog.
func Assets(svc *portfoliosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assets, err := svc.ListAssets(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", assets)
	}
}
