// Package analysis exposes the read-only aggregate endpoints.
package analysis

import (
	"time"

	"github.com/gofiber/fiber/v2"
	analyticssvc "github.com/phoebudget/phoebudget/pkg/service/analytics"
	"github.com/phoebudget/phoebudget/webapi/common"
)

// Routes mounts the analysis endpoints. The category list is public; the
// aggregates are per-user and protected.
func Routes(router fiber.Router, svc *analyticssvc.Service, protected fiber.Handler) {
	router.Get("/categories", Categories(svc))
	router.Get("/analysis/category", protected, CategoryAnalysis(svc))
	router.Get("/analysis/net-worth", protected, NetWorth(svc))
}

// CategoryAnalysis sums live transactions per category over
// [start_date, end_date].
func CategoryAnalysis(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}

		start, err := time.Parse(time.RFC3339, c.Query("start_date"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid start_date")
		}
		end, err := time.Parse(time.RFC3339, c.Query("end_date"))
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid end_date")
		}

		analysis, err := svc.CategoryAnalysis(c.Context(), userID, start, end)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", analysis)
	}
}

// NetWorth returns cash, investments and their sum in the base currency.
func NetWorth(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		netWorth, err := svc.NetWorth(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", netWorth)
	}
}

// Categories lists the global category table.
func Categories(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := svc.Categories(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", categories)
	}
}
