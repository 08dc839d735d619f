package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/config"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/service/auth"
	"github.com/phoebudget/phoebudget/pkg/service/internal/fake"
	"github.com/phoebudget/phoebudget/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*auth.Service, *fake.Store) {
	t.Helper()
	store := fake.NewStore()
	cfg := &config.Jwt{
		Secret:        "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 168 * time.Hour,
	}
	return auth.New(fake.NewUoW(store), cfg, slog.New(slog.DiscardHandler)), store
}

func register(t *testing.T, svc *auth.Service) *dto.TokenPair {
	t.Helper()
	pair, err := svc.Register(context.Background(), dto.UserCreate{
		Username: "phoebe",
		Email:    "phoebe@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	return pair
}

func TestRegister_CreatesUserDefaultPocketAndPair(t *testing.T) {
	svc, store := setup(t)

	pair := register(t, svc)
	assert.NotEmpty(t, pair.Token)
	assert.Len(t, pair.RefreshToken, 64)

	require.Len(t, store.Users, 1)
	for _, u := range store.Users {
		assert.Equal(t, "phoebe", u.Username)
		assert.Equal(t, "SGD", u.BaseCurrency)
		assert.True(t, utils.CheckPasswordHash("hunter22", u.HashedPassword))
	}

	require.Len(t, store.Pockets, 1)
	pockets, err := fake.NewUoW(store).Pockets().List(context.Background(), userID(store))
	require.NoError(t, err)
	assert.Equal(t, "Main", pockets[0].Name)
	assert.True(t, pockets[0].IsDefault)

	require.Len(t, store.Tokens, 1)
}

func TestRegister_DuplicateRollsBack(t *testing.T) {
	svc, store := setup(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), dto.UserCreate{
		Username: "phoebe2",
		Email:    "phoebe@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.Len(t, store.Users, 1)
	assert.Len(t, store.Pockets, 1)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.UserCreate{
		Username: "p", Email: "not-an-email", Password: "x",
	})
	assert.ErrorIs(t, err, domain.ErrUserUnauthorized)

	_, err = svc.Register(ctx, dto.UserCreate{
		Username: "p", Email: "p@example.com", Password: "x", BaseCurrency: "XXX",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestLogin(t *testing.T) {
	svc, _ := setup(t)
	register(t, svc)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "phoebe@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)

	_, err = svc.Login(ctx, "phoebe@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUserUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, domain.ErrUserUnauthorized)
}

func TestRefresh_RotatesTheChain(t *testing.T) {
	svc, store := setup(t)
	first := register(t, svc)
	ctx := context.Background()

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The redeemed row back-references its successor.
	old := tokenByHash(store, session.Hash(first.RefreshToken))
	require.NotNil(t, old.ReplacedBy)
	assert.Equal(t, session.Hash(second.RefreshToken), *old.ReplacedBy)

	// The successor is itself redeemable.
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_ReplayRevokesEverySession(t *testing.T) {
	svc, store := setup(t)
	first := register(t, svc)
	ctx := context.Background()

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenReuseDetected)

	// The whole chain dies, the fresh token included.
	for _, row := range store.Tokens {
		assert.True(t, row.IsRevoked)
	}
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefresh_ConcurrentRedemptionsMintOnePair(t *testing.T) {
	svc, store := setup(t)
	pair := register(t, svc)
	ctx := context.Background()
	hash := session.Hash(pair.RefreshToken)

	// A competing redemption of the same token commits its rotation after
	// this request has seen the row Active but before it swaps in its own
	// successor.
	store.CreateTokenHook = func(*session.RefreshToken) error {
		successor := session.Hash(session.NewRawToken())
		for id, row := range store.Tokens {
			if row.TokenHash == hash {
				row.ReplacedBy = &successor
				store.Tokens[id] = row
			}
		}
		return nil
	}

	_, err := svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenReuseDetected)

	// The loser's pair rolled back and the double redemption killed the chain.
	require.Len(t, store.Tokens, 1)
	for _, row := range store.Tokens {
		assert.True(t, row.IsRevoked)
	}
}

func TestRefresh_UnknownAndExpiredTokens(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, session.NewRawToken())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	raw := session.NewRawToken()
	stale := session.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: session.Hash(raw),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	store.Tokens[stale.ID] = stale

	_, err = svc.Refresh(ctx, raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestLogout(t *testing.T) {
	svc, store := setup(t)
	pair := register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	row := tokenByHash(store, session.Hash(pair.RefreshToken))
	assert.True(t, row.IsRevoked)

	// Logging out an unknown token is a no-op.
	assert.NoError(t, svc.Logout(ctx, session.NewRawToken()))

	_, err := svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestUpdateBaseCurrency(t *testing.T) {
	svc, store := setup(t)
	register(t, svc)
	ctx := context.Background()
	id := userID(store)

	require.NoError(t, svc.UpdateBaseCurrency(ctx, id, "usd"))
	profile, err := svc.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "USD", profile.BaseCurrency)

	assert.ErrorIs(t, svc.UpdateBaseCurrency(ctx, id, "XXX"), domain.ErrUnknownCurrency)
}

func userID(store *fake.Store) uuid.UUID {
	for id := range store.Users {
		return id
	}
	return uuid.Nil
}

func tokenByHash(store *fake.Store, hash string) *session.RefreshToken {
	for _, row := range store.Tokens {
		if row.TokenHash == hash {
			row := row
			return &row
		}
	}
	return nil
}
