// Package dto defines the data transfer objects crossing service boundaries.
// Monetary fields are shopspring decimals; they serialize as decimal strings.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
)

// UserCreate carries a registration request into the auth service.
type UserCreate struct {
	Username     string
	Email        string
	Password     string
	BaseCurrency currency.Code
}

// UserRead is the persisted user as read back from the store.
type UserRead struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	BaseCurrency   string    `json:"base_currency"`
	CreatedAt      time.Time `json:"joined_at"`
}
