package repository

import "context"

// UnitOfWork is the transaction boundary for every multi-row write: both legs
// of a pocket transfer, a linked soft-delete/restore, a token rotation, or a
// registration land together or not at all.
//
// Repositories obtained inside Do share the transaction session; obtained
// outside, they run in autocommit mode.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and no partial effect is observable.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Users() UserRepository
	Transactions() TransactionRepository
	Pockets() PocketRepository
	Categories() CategoryRepository
	Assets() AssetRepository
	Holdings() HoldingRepository
	RefreshTokens() RefreshTokenRepository
}
