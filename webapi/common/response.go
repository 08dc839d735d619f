// Package common holds the response envelope and request binding shared by
// all handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/phoebudget/phoebudget/pkg/domain"
)

// Response is the uniform envelope of every endpoint. Success responses set
// Data and Message; failures set Errors.
type Response struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one entry of a failure envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessJSON writes a success envelope.
func SuccessJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// ErrorJSON writes a failure envelope with a single error entry.
func ErrorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Errors:  []ErrorDetail{{Code: code, Message: message}},
	})
}

// DomainErrorJSON maps a service error onto the envelope via the error
// taxonomy and writes it.
func DomainErrorJSON(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return ErrorJSON(c, status, code, err.Error())
}

// classify buckets a domain error into an HTTP status and envelope code.
// Unknown errors deliberately fall through to INT-500 so internals never
// leak a misleading 4xx.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSamePocket),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusBadRequest, "VAL-400"
	case errors.Is(err, domain.ErrUserUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenReuseDetected):
		return fiber.StatusUnauthorized, "AUTH-401"
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnknownAsset):
		return fiber.StatusNotFound, "NOT-404"
	case errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrNotDeleted),
		errors.Is(err, domain.ErrCannotDeleteDefault),
		errors.Is(err, domain.ErrPocketInUse),
		errors.Is(err, domain.ErrAlreadyHeld),
		errors.Is(err, domain.ErrUserExists):
		return fiber.StatusConflict, "CONFLICT-409"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, "DB-500"
	default:
		return fiber.StatusInternalServerError, "INT-500"
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure the error response is already written
// and the returned pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", "invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, "VAL-400", err.Error())
	}
	return &input, nil
}
