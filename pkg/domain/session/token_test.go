package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/stretchr/testify/assert"
)

func activeToken() *session.RefreshToken {
	return &session.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: session.Hash(session.NewRawToken()),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestStateAt_Precedence(t *testing.T) {
	now := time.Now()
	successor := "abc"

	tok := activeToken()
	assert.Equal(t, session.Active, tok.StateAt(now))

	tok.ExpiresAt = now.Add(-time.Minute)
	assert.Equal(t, session.Expired, tok.StateAt(now))

	// Rotation dominates expiry.
	tok.ReplacedBy = &successor
	assert.Equal(t, session.Rotated, tok.StateAt(now))

	// Revocation dominates everything.
	tok.IsRevoked = true
	assert.Equal(t, session.Revoked, tok.StateAt(now))
}

func TestRedeem(t *testing.T) {
	now := time.Now()
	successor := "abc"

	tok := activeToken()
	assert.NoError(t, tok.Redeem(now))

	rotated := activeToken()
	rotated.ReplacedBy = &successor
	assert.ErrorIs(t, rotated.Redeem(now), domain.ErrTokenReuseDetected)

	revoked := activeToken()
	revoked.IsRevoked = true
	assert.ErrorIs(t, revoked.Redeem(now), domain.ErrInvalidToken)

	expired := activeToken()
	expired.ExpiresAt = now.Add(-time.Second)
	assert.ErrorIs(t, expired.Redeem(now), domain.ErrTokenExpired)
}

func TestNewRawToken_Shape(t *testing.T) {
	raw := session.NewRawToken()
	assert.Len(t, raw, 64)
	assert.NotEqual(t, raw, session.NewRawToken())
}

func TestHash_Deterministic(t *testing.T) {
	raw := session.NewRawToken()
	assert.Equal(t, session.Hash(raw), session.Hash(raw))
	assert.Len(t, session.Hash(raw), 64)
	assert.NotEqual(t, raw, session.Hash(raw))
}
