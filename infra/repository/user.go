package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the gorm-backed user repository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u dto.UserRead) error {
	user := &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.HashedPassword,
		BaseCurrency: u.BaseCurrency,
	}
	return mapGormError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var user User
	if err := r.db.WithContext(
		ctx,
	).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapUserToDTO(&user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	var user User
	if err := r.db.WithContext(
		ctx,
	).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapUserToDTO(&user), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*dto.UserRead, error) {
	var user User
	if err := r.db.WithContext(
		ctx,
	).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapUserToDTO(&user), nil
}

func (r *userRepository) Exists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateBaseCurrency(
	ctx context.Context,
	id uuid.UUID,
	code currency.Code,
) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("base_currency", code.String()).Error
}

func mapUserToDTO(user *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.Password,
		BaseCurrency:   user.BaseCurrency,
		CreatedAt:      user.CreatedAt,
	}
}

var _ repository.UserRepository = (*userRepository)(nil)
