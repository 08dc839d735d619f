// Package auth is the session authority: it registers and authenticates
// users and manages rotating access/refresh token pairs. Refresh tokens form
// a rotation chain; presenting a superseded token is treated as a leaked
// token and revokes the whole chain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/config"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/phoebudget/phoebudget/pkg/utils"
)

// dummyHash keeps the bcrypt compare on unknown identities so login timing
// does not reveal whether an email exists.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Register creates the user, their base-currency preference, their default
// "Main" pocket and a first token pair in one unit of work.
func (s *Service) Register(
	ctx context.Context,
	create dto.UserCreate,
) (pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Register", "email", create.Email)

	if !utils.IsEmail(create.Email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrUserUnauthorized)
	}
	base, ok := currency.Normalize(string(create.BaseCurrency))
	if !ok {
		return nil, domain.ErrUnknownCurrency
	}
	hashed, err := utils.HashPassword(create.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		exists, err := uow.Users().Exists(ctx, create.Email, create.Username)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrUserExists
		}

		user := dto.UserRead{
			ID:             uuid.New(),
			Username:       create.Username,
			Email:          create.Email,
			HashedPassword: hashed,
			BaseCurrency:   base.String(),
		}
		if err := uow.Users().Create(ctx, user); err != nil {
			return err
		}
		if _, err := uow.Pockets().Create(ctx, dto.PocketCreate{
			UserID:    user.ID,
			Name:      "Main",
			Icon:      "account_balance_wallet",
			IsDefault: true,
		}); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, uow, user.ID)
		return err
	})
	if err != nil {
		log.Error("registration failed", "error", err)
		return nil, err
	}
	log.Info("user registered")
	return pair, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Login")

	user, err := s.uow.Users().GetByEmail(ctx, email)
	if err != nil || user == nil {
		utils.CheckPasswordHash(password, dummyHash)
		log.Warn("login failed", "error", domain.ErrUserUnauthorized)
		return nil, domain.ErrUserUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		log.Warn("login failed", "userID", user.ID)
		return nil, domain.ErrUserUnauthorized
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		pair, err = s.issuePair(ctx, uow, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("login successful", "userID", user.ID)
	return pair, nil
}

// Refresh rotates a refresh token. The presented token must be Active and
// unexpired; it is atomically marked Rotated (back-referencing the new hash)
// while the new pair is persisted. Presenting an already-rotated token is a
// replay signal: every token of that user is revoked and the caller gets
// ErrTokenReuseDetected.
func (s *Service) Refresh(ctx context.Context, rawToken string) (pair *dto.TokenPair, err error) {
	log := s.logger.With("context", "Refresh")
	now := time.Now().UTC()

	row, err := s.uow.RefreshTokens().GetByHash(ctx, session.Hash(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("refresh failed", "error", domain.ErrInvalidToken)
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if err := row.Redeem(now); err != nil {
		// The revocation must outlive the failed refresh, so it runs outside
		// the rotation's unit of work.
		if errors.Is(err, domain.ErrTokenReuseDetected) {
			log.Warn("refresh token reuse detected, revoking all sessions",
				"userID", row.UserID)
			if revokeErr := s.uow.RefreshTokens().RevokeAllForUser(ctx, row.UserID); revokeErr != nil {
				return nil, revokeErr
			}
		}
		log.Warn("refresh failed", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		pair, err = s.issuePair(ctx, uow, row.UserID)
		if err != nil {
			return err
		}
		// MarkRotated only succeeds while the row is still unrotated and
		// unrevoked, so a concurrent redemption of the same token cannot also
		// commit a pair.
		return uow.RefreshTokens().MarkRotated(ctx, row.ID, session.Hash(pair.RefreshToken))
	})
	if err != nil {
		// Losing the swap means the token was redeemed twice. The new pair
		// rolled back with the unit of work; the chain revocation must stick.
		if errors.Is(err, domain.ErrTokenReuseDetected) {
			log.Warn("refresh token reuse detected, revoking all sessions",
				"userID", row.UserID)
			if revokeErr := s.uow.RefreshTokens().RevokeAllForUser(ctx, row.UserID); revokeErr != nil {
				return nil, revokeErr
			}
		}
		log.Warn("refresh failed", "error", err)
		return nil, err
	}
	log.Info("token refreshed")
	return pair, nil
}

// Logout revokes the presented refresh token so the chain cannot be
// continued. Unknown tokens are ignored; logout is idempotent.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	row, err := s.uow.RefreshTokens().GetByHash(ctx, session.Hash(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.uow.RefreshTokens().Revoke(ctx, row.ID)
}

// Profile returns the caller's identity and base currency.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*dto.UserRead, error) {
	return s.uow.Users().Get(ctx, userID)
}

// UpdateBaseCurrency changes the currency all of the caller's figures are
// normalized into.
func (s *Service) UpdateBaseCurrency(ctx context.Context, userID uuid.UUID, code string) error {
	c, ok := currency.Normalize(code)
	if !ok {
		return domain.ErrUnknownCurrency
	}
	return s.uow.Users().UpdateBaseCurrency(ctx, userID, c)
}

// issuePair mints a short-lived access JWT plus a long-lived refresh token,
// persisting only the refresh token's hash.
func (s *Service) issuePair(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
) (*dto.TokenPair, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(s.cfg.AccessExpiry).Unix(),
	})
	access, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	raw := session.NewRawToken()
	if err := uow.RefreshTokens().Create(ctx, &session.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: session.Hash(raw),
		ExpiresAt: time.Now().UTC().Add(s.cfg.RefreshExpiry),
	}); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return &dto.TokenPair{Token: access, RefreshToken: raw}, nil
}
