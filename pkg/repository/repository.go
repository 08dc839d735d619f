// Package repository declares the persistence contracts consumed by the
// services. Implementations live under infra/repository; tests provide
// in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/shopspring/decimal"
)

// UserRepository owns user identities and their base-currency preference.
type UserRepository interface {
	Create(ctx context.Context, u dto.UserRead) error
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserRead, error)
	Exists(ctx context.Context, email, username string) (bool, error)
	UpdateBaseCurrency(ctx context.Context, id uuid.UUID, code currency.Code) error
}

// TransactionRepository owns ledger rows. "Live" methods apply the mandatory
// soft-delete filter; Get returns tombstoned rows too so delete/restore can
// inspect them.
type TransactionRepository interface {
	Create(ctx context.Context, t *ledger.Transaction) error
	// Save persists the mutable fields of a previously loaded row, including
	// the soft-delete marker.
	Save(ctx context.Context, t *ledger.Transaction) error
	Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error)
	GetByTransferID(ctx context.Context, transferID, userID uuid.UUID) ([]*ledger.Transaction, error)
	GetRead(ctx context.Context, id, userID uuid.UUID) (*dto.TransactionRead, error)
	ListLive(ctx context.Context, userID uuid.UUID, f dto.TransactionFilter) ([]dto.TransactionRead, error)
	CountLive(ctx context.Context, userID uuid.UUID, f dto.TransactionFilter) (int64, error)
	CountLiveByPocket(ctx context.Context, userID, pocketID uuid.UUID) (int64, error)
	// SumLiveSigned returns the signed cash sum over live rows: income
	// categories count positive, the rest negative.
	SumLiveSigned(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	// SumLiveSignedByPocket is SumLiveSigned restricted to one pocket.
	SumLiveSignedByPocket(ctx context.Context, userID, pocketID uuid.UUID) (decimal.Decimal, error)
	// CategoryTotals sums live amounts per category over [start, end],
	// excluding categories flagged exclude_from_analysis.
	CategoryTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]dto.CategoryTotal, error)
}

// PocketRepository owns pockets. The one-default-per-user invariant is backed
// by a partial unique index, not by best-effort checks.
type PocketRepository interface {
	Create(ctx context.Context, p dto.PocketCreate) (*dto.PocketRead, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*dto.PocketRead, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*dto.PocketRead, error)
	List(ctx context.Context, userID uuid.UUID) ([]dto.PocketRead, error)
	Update(ctx context.Context, id, userID uuid.UUID, u dto.PocketUpdate) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// CategoryRepository reads the global category table.
type CategoryRepository interface {
	List(ctx context.Context) ([]dto.CategoryRead, error)
	Get(ctx context.Context, id int32) (*dto.CategoryRead, error)
	GetByName(ctx context.Context, name string) (*dto.CategoryRead, error)
}

// AssetRepository owns the shared asset catalog. Price updates are
// last-writer-wins per ticker.
type AssetRepository interface {
	Get(ctx context.Context, ticker string) (*dto.AssetRead, error)
	List(ctx context.Context) ([]dto.AssetRead, error)
	UpdatePrice(ctx context.Context, ticker string, price decimal.Decimal, cur currency.Code, at time.Time) error
}

// HoldingRepository owns per-user portfolio rows, unique per (user, ticker).
type HoldingRepository interface {
	Create(ctx context.Context, h dto.HoldingCreate) error
	Exists(ctx context.Context, userID uuid.UUID, ticker string) (bool, error)
	Update(ctx context.Context, userID uuid.UUID, ticker string, u dto.HoldingUpdate) error
	Delete(ctx context.Context, userID uuid.UUID, ticker string) (int64, error)
	ListJoined(ctx context.Context, userID uuid.UUID) ([]portfolio.HoldingRow, error)
	// DistinctTickers spans all users: any refresh call refreshes the global
	// catalog.
	DistinctTickers(ctx context.Context) ([]string, error)
}

// RefreshTokenRepository owns rotation chains.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *session.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*session.RefreshToken, error)
	// MarkRotated writes the successor hash only while the row is still
	// unrotated and unrevoked; a row that already lost that race surfaces
	// ErrTokenReuseDetected. Rotation exclusivity rests on this swap, not on
	// the caller's earlier read of the row.
	MarkRotated(ctx context.Context, id uuid.UUID, replacedByHash string) error
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
