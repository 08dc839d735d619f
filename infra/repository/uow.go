package repository

import (
	"context"

	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories obtained inside Do all share the open transaction session, so
// multi-repository writes commit or roll back together.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction, passing a UoW bound to it. A
// nested Do joins the already open transaction instead of starting a new one.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the open transaction when inside Do, the root connection
// otherwise. Outside Do each repository call is its own implicit transaction.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) Users() repository.UserRepository {
	return NewUserRepository(u.session())
}

func (u *UoW) Transactions() repository.TransactionRepository {
	return NewTransactionRepository(u.session())
}

func (u *UoW) Pockets() repository.PocketRepository {
	return NewPocketRepository(u.session())
}

func (u *UoW) Categories() repository.CategoryRepository {
	return NewCategoryRepository(u.session())
}

func (u *UoW) Assets() repository.AssetRepository {
	return NewAssetRepository(u.session())
}

func (u *UoW) Holdings() repository.HoldingRepository {
	return NewHoldingRepository(u.session())
}

func (u *UoW) RefreshTokens() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(u.session())
}

var _ repository.UnitOfWork = (*UoW)(nil)
