package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

type pocketRepository struct {
	db *gorm.DB
}

// NewPocketRepository returns the gorm-backed pocket repository.
func NewPocketRepository(db *gorm.DB) repository.PocketRepository {
	return &pocketRepository{db: db}
}

func (r *pocketRepository) Create(
	ctx context.Context,
	p dto.PocketCreate,
) (*dto.PocketRead, error) {
	row := &Pocket{
		ID:          uuid.New(),
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Icon:        p.Icon,
		IsDefault:   p.IsDefault,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapPocketToDTO(row), nil
}

func (r *pocketRepository) Get(
	ctx context.Context,
	id, userID uuid.UUID,
) (*dto.PocketRead, error) {
	var row Pocket
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapPocketToDTO(&row), nil
}

func (r *pocketRepository) GetDefault(
	ctx context.Context,
	userID uuid.UUID,
) (*dto.PocketRead, error) {
	var row Pocket
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default", userID).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapPocketToDTO(&row), nil
}

func (r *pocketRepository) List(
	ctx context.Context,
	userID uuid.UUID,
) ([]dto.PocketRead, error) {
	var rows []Pocket
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	pockets := make([]dto.PocketRead, 0, len(rows))
	for i := range rows {
		pockets = append(pockets, *mapPocketToDTO(&rows[i]))
	}
	return pockets, nil
}

func (r *pocketRepository) Update(
	ctx context.Context,
	id, userID uuid.UUID,
	u dto.PocketUpdate,
) error {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Icon != nil {
		updates["icon"] = *u.Icon
	}
	if len(updates) == 0 {
		return nil
	}
	return mapGormError(r.db.WithContext(ctx).Model(&Pocket{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error)
}

func (r *pocketRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Pocket{})
	if res.Error != nil {
		return mapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapPocketToDTO(row *Pocket) *dto.PocketRead {
	return &dto.PocketRead{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Icon:        row.Icon,
		IsDefault:   row.IsDefault,
		CreatedAt:   row.CreatedAt,
	}
}

var _ repository.PocketRepository = (*pocketRepository)(nil)
