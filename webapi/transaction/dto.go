package transaction

import "time"

// CreateTransactionInput represents the request body for a new ledger entry.
// Monetary fields arrive as decimal strings.
type CreateTransactionInput struct {
	Amount       string     `json:"amount" validate:"required"`
	CategoryID   int32      `json:"category_id" validate:"required"`
	PocketID     *string    `json:"pocket_id,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	Description  string     `json:"description,omitempty"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
	ExchangeRate *string    `json:"exchange_rate,omitempty"`
}

// UpdateTransactionInput mutates only the supplied fields.
type UpdateTransactionInput struct {
	Amount       *string    `json:"amount,omitempty"`
	Currency     *string    `json:"currency,omitempty"`
	ExchangeRate *string    `json:"exchange_rate,omitempty"`
	CategoryID   *int32     `json:"category_id,omitempty"`
	PocketID     *string    `json:"pocket_id,omitempty"`
	Description  *string    `json:"description,omitempty"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
}
