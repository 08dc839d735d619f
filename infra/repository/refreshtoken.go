package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository returns the gorm-backed refresh token repository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, t *session.RefreshToken) error {
	row := &RefreshToken{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		IsRevoked: t.IsRevoked,
	}
	return mapGormError(r.db.WithContext(ctx).Create(row).Error)
}

func (r *refreshTokenRepository) GetByHash(
	ctx context.Context,
	hash string,
) (*session.RefreshToken, error) {
	var row RefreshToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return &session.RefreshToken{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenHash:  row.TokenHash,
		ExpiresAt:  row.ExpiresAt,
		IsRevoked:  row.IsRevoked,
		ReplacedBy: row.ReplacedBy,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// MarkRotated is a compare-and-swap: the successor is only written while the
// row is still unrotated and unrevoked, so of two concurrent redemptions of
// one token exactly one wins the swap.
func (r *refreshTokenRepository) MarkRotated(
	ctx context.Context,
	id uuid.UUID,
	replacedByHash string,
) error {
	res := r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ? AND replaced_by IS NULL AND NOT is_revoked", id).
		Update("replaced_by", replacedByHash)
	if res.Error != nil {
		return mapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenReuseDetected
	}
	return nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	return mapGormError(r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ?", id).
		Update("is_revoked", true).Error)
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return mapGormError(r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("user_id = ?", userID).
		Update("is_revoked", true).Error)
}

var _ repository.RefreshTokenRepository = (*refreshTokenRepository)(nil)
