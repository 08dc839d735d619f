// Package session models the refresh-token rotation chain. A token moves
// through Active -> Rotated | Revoked | Expired; a single state check is
// enough to detect replay of a superseded token.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
)

// State is the lifecycle state of a refresh token.
type State int

const (
	// Active tokens are redeemable exactly once.
	Active State = iota
	// Rotated tokens were superseded at refresh time; presenting one is a
	// replay signal.
	Rotated
	// Revoked tokens were explicitly invalidated (logout or chain revocation).
	Revoked
	// Expired tokens are past their expiry instant.
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Rotated:
		return "rotated"
	case Revoked:
		return "revoked"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// RefreshToken is the persisted form of a refresh token. The raw token is
// never stored; only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	IsRevoked bool
	// ReplacedBy holds the hash of the successor token once rotated.
	ReplacedBy *string
	CreatedAt  time.Time
}

// StateAt derives the token's state at the given instant. Revocation and
// rotation dominate expiry so that replaying an old token is always reported
// as such.
func (t *RefreshToken) StateAt(now time.Time) State {
	if t.IsRevoked {
		return Revoked
	}
	if t.ReplacedBy != nil {
		return Rotated
	}
	if now.After(t.ExpiresAt) {
		return Expired
	}
	return Active
}

// Redeem validates the token for rotation. A Rotated token is a replay of a
// superseded link and returns ErrTokenReuseDetected; a Revoked token is merely
// invalid, and an Expired one returns ErrTokenExpired. Only an Active token
// redeems with nil.
func (t *RefreshToken) Redeem(now time.Time) error {
	switch t.StateAt(now) {
	case Rotated:
		return domain.ErrTokenReuseDetected
	case Revoked:
		return domain.ErrInvalidToken
	case Expired:
		return domain.ErrTokenExpired
	}
	return nil
}

// NewRawToken generates an opaque 64-hex-character refresh token.
func NewRawToken() string {
	a := strings.ReplaceAll(uuid.NewString(), "-", "")
	b := strings.ReplaceAll(uuid.NewString(), "-", "")
	return a + b
}

// Hash returns the hex SHA-256 digest under which a raw token is persisted.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
