package dto

import (
	"time"

	"github.com/google/uuid"
)

// PocketCreate carries pocket creation input. IsDefault is not caller-settable
// through the API; only registration sets it.
type PocketCreate struct {
	UserID      uuid.UUID
	Name        string
	Description string
	Icon        string
	IsDefault   bool
}

// PocketUpdate mutates only non-nil fields.
type PocketUpdate struct {
	Name        *string
	Description *string
	Icon        *string
}

// PocketRead is a pocket as returned to callers.
type PocketRead struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}
