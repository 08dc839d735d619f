package common

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
)

// UserID extracts the authenticated user id from the JWT stored by the auth
// middleware.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	return userID, nil
}
