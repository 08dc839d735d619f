// Package middleware holds the Fiber middleware shared by protected routes.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/phoebudget/phoebudget/webapi/common"
)

// Protected verifies the Bearer access token and stores the parsed JWT under
// the "user" local for handlers to read.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "missing or malformed JWT" {
		return common.ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "missing or malformed token")
	}
	return common.ErrorJSON(c, fiber.StatusUnauthorized, "AUTH-401", "invalid or expired token")
}
