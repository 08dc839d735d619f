// Package ledger holds the transaction entity and the soft-delete rules that
// keep deleted rows fully reversible.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/shopspring/decimal"
)

// Transaction is an append-mostly ledger record. Amount is always in the
// owner's base currency; the original_* triple is set only when the input
// currency differed at creation time.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PocketID    uuid.UUID
	CategoryID  int32
	Amount      decimal.Decimal
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time

	OriginalCurrency *currency.Code
	OriginalAmount   *decimal.Decimal
	ExchangeRate     *decimal.Decimal

	// TransferID links the two legs of a pocket transfer.
	TransferID *uuid.UUID

	DeletedAt *time.Time
}

// IsDeleted reports whether the row is currently soft-deleted.
func (t *Transaction) IsDeleted() bool { return t.DeletedAt != nil }

// IsTransferLeg reports whether the row is one half of a pocket transfer.
func (t *Transaction) IsTransferLeg() bool { return t.TransferID != nil }

// MarkDeleted sets the tombstone. Deleting an already-deleted row is a
// conflict, not a no-op: it surfaces a caller error.
func (t *Transaction) MarkDeleted(now time.Time) error {
	if t.IsDeleted() {
		return domain.ErrAlreadyDeleted
	}
	t.DeletedAt = &now
	return nil
}

// MarkRestored clears the tombstone. All other fields are untouched, so a
// delete/restore cycle is byte-identical to the pre-delete state.
func (t *Transaction) MarkRestored() error {
	if !t.IsDeleted() {
		return domain.ErrNotDeleted
	}
	t.DeletedAt = nil
	return nil
}
