// Package webapi sets up the Fiber application: global middleware, health
// route and the /api/v1 surface.
package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/phoebudget/phoebudget/pkg/app"
	"github.com/phoebudget/phoebudget/pkg/middleware"
	"github.com/phoebudget/phoebudget/webapi/analysis"
	"github.com/phoebudget/phoebudget/webapi/auth"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/phoebudget/phoebudget/webapi/pocket"
	"github.com/phoebudget/phoebudget/webapi/portfolio"
	"github.com/phoebudget/phoebudget/webapi/transaction"
)

// SetupApp wires middleware and routes and returns the Fiber app.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "phoebudget",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			code := "INT-500"
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
				if status == fiber.StatusNotFound {
					code = "NOT-404"
				}
			}
			return common.ErrorJSON(c, status, code, err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Honor proxy headers so a load balancer does not collapse all
			// clients into one bucket.
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorJSON(c, fiber.StatusTooManyRequests, "RATE-429", "rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	protected := middleware.Protected(a.Config.Auth.Jwt.Secret)

	v1 := fiberApp.Group("/api/v1")
	auth.Routes(v1, a.Auth, protected)
	transaction.Routes(v1, a.Ledger, protected)
	pocket.Routes(v1, a.Pocket, protected)
	portfolio.Routes(v1, a.Portfolio, protected)
	analysis.Routes(v1, a.Analytics, protected)

	return fiberApp
}
