package repository

import (
	"context"

	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns the gorm-backed category repository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]dto.CategoryRead, error) {
	var rows []Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	categories := make([]dto.CategoryRead, 0, len(rows))
	for i := range rows {
		categories = append(categories, *mapCategoryToDTO(&rows[i]))
	}
	return categories, nil
}

func (r *categoryRepository) Get(ctx context.Context, id int32) (*dto.CategoryRead, error) {
	var row Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapCategoryToDTO(&row), nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*dto.CategoryRead, error) {
	var row Category
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapCategoryToDTO(&row), nil
}

func mapCategoryToDTO(row *Category) *dto.CategoryRead {
	return &dto.CategoryRead{
		ID:                  row.ID,
		Name:                row.Name,
		IsIncome:            row.IsIncome,
		Icon:                row.Icon,
		ExcludeFromAnalysis: row.ExcludeFromAnalysis,
	}
}

var _ repository.CategoryRepository = (*categoryRepository)(nil)
