// Package domain holds the error taxonomy shared by every service. Errors are
// sentinels so callers can classify them with errors.Is and map them onto the
// API envelope codes.
package domain

import "errors"

// Validation errors: malformed or out-of-range input, rejected before any write.
var (
	ErrInvalidAmount     = errors.New("amount must be positive with at most 4 decimal places")
	ErrSamePocket        = errors.New("cannot transfer to the same pocket")
	ErrUnknownCurrency   = errors.New("unknown currency code")
	ErrInvalidDateRange  = errors.New("end date cannot be before start date")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInsufficientFunds = errors.New("insufficient funds in source pocket")
)

// Not-found errors: the referenced row is absent or belongs to another user.
// Ownership failures surface as not-found to avoid leaking other users' data.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnknownAsset = errors.New("asset not in catalog")
)

// Conflict errors: well-formed input, operation currently illegal.
var (
	ErrAlreadyDeleted      = errors.New("transaction already deleted")
	ErrNotDeleted          = errors.New("transaction is not deleted")
	ErrCannotDeleteDefault = errors.New("cannot delete the default pocket")
	ErrPocketInUse         = errors.New("pocket still has live transactions")
	ErrAlreadyHeld         = errors.New("asset already in portfolio")
	ErrUserExists          = errors.New("user with this email or username already exists")
)

// Auth errors.
var (
	ErrUserUnauthorized   = errors.New("user unauthorized")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrTokenExpired       = errors.New("refresh token expired")
	ErrTokenReuseDetected = errors.New("refresh token reuse detected")
)

// ErrStorage wraps database failures that carry no domain meaning. The
// infrastructure layer attaches it so handlers can report a storage fault
// without inspecting driver errors.
var ErrStorage = errors.New("storage failure")
