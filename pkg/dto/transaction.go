package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/shopspring/decimal"
)

// TransactionCreate carries a new ledger entry into the ledger service.
// Amount is in the input currency; the service normalizes into the owner's
// base currency before the row is written.
type TransactionCreate struct {
	UserID      uuid.UUID
	PocketID    *uuid.UUID // nil means the user's default pocket
	CategoryID  int32
	Amount      decimal.Decimal
	Currency    currency.Code // empty means the user's base currency
	Description string
	OccurredAt  time.Time
	// ExchangeRate, when set, is used instead of the rate provider. Tests and
	// backdated entries supply a point-in-time rate this way.
	ExchangeRate *decimal.Decimal
}

// TransactionUpdate mutates only non-nil fields. Supplying Amount together
// with Currency triggers re-normalization.
type TransactionUpdate struct {
	Amount       *decimal.Decimal
	Currency     *currency.Code
	ExchangeRate *decimal.Decimal
	CategoryID   *int32
	PocketID     *uuid.UUID
	Description  *string
	OccurredAt   *time.Time
}

// TransactionRead is a ledger row as returned to callers. Amount is always in
// the owner's base currency.
type TransactionRead struct {
	ID               uuid.UUID        `json:"id"`
	Amount           decimal.Decimal  `json:"amount"`
	Description      string           `json:"description,omitempty"`
	Category         *CategoryRead    `json:"category,omitempty"`
	Pocket           *PocketRead      `json:"pocket,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
	CreatedAt        time.Time        `json:"created_at"`
	OriginalCurrency *string          `json:"original_currency,omitempty"`
	OriginalAmount   *decimal.Decimal `json:"original_amount,omitempty"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate,omitempty"`
	TransferID       *uuid.UUID       `json:"transfer_id,omitempty"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty"`
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []TransactionRead `json:"transactions"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	TotalPages   int64             `json:"total_pages"`
}

// TransactionFilter narrows a listing. Nil fields are ignored.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	PocketID  *uuid.UUID
	Page      int
	Limit     int
}
