// Package auth exposes the registration, login and token rotation endpoints.
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/dto"
	authsvc "github.com/phoebudget/phoebudget/pkg/service/auth"
	"github.com/phoebudget/phoebudget/webapi/common"
)

// Routes mounts the auth endpoints. Profile and the currency setting require
// the protected middleware.
func Routes(router fiber.Router, svc *authsvc.Service, protected fiber.Handler) {
	router.Post("/auth/register", Register(svc))
	router.Post("/auth/login", Login(svc))
	router.Post("/auth/refresh", Refresh(svc))
	router.Post("/auth/logout", Logout(svc))
	router.Get("/auth/profile", protected, Profile(svc))
	router.Put("/settings/currency", protected, UpdateCurrency(svc))
	router.Get("/settings/currencies", protected, Currencies())
}

// Register creates a user with their default pocket and returns the first
// token pair.
func Register(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		pair, err := svc.Register(c.Context(), dto.UserCreate{
			Username:     input.Username,
			Email:        input.Email,
			Password:     input.Password,
			BaseCurrency: currency.Code(input.BaseCurrency),
		})
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "registered", pair)
	}
}

// Login authenticates credentials and returns a fresh token pair.
func Login(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		pair, err := svc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "login successful", pair)
	}
}

// Refresh rotates a refresh token for a new pair.
func Refresh(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshInput](c)
		if input == nil {
			return err
		}
		pair, err := svc.Refresh(c.Context(), input.RefreshToken)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "token refreshed", pair)
	}
}

// Logout revokes the presented refresh token.
func Logout(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RefreshInput](c)
		if input == nil {
			return err
		}
		if err := svc.Logout(c.Context(), input.RefreshToken); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "logged out", nil)
	}
}

// Profile returns the caller's identity and base currency.
func Profile(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		user, err := svc.Profile(c.Context(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "", user)
	}
}

// Currencies lists the currency codes accepted as a base currency.
func Currencies() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessJSON(c, fiber.StatusOK, "", currency.Codes())
	}
}

// UpdateCurrency changes the caller's base currency.
func UpdateCurrency(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CurrencyInput](c)
		if input == nil {
			return err
		}
		if err := svc.UpdateBaseCurrency(c.Context(), userID, input.Currency); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "base currency updated", nil)
	}
}
