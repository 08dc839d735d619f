package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null;size:50"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	Password     string    `gorm:"not null"`
	BaseCurrency string    `gorm:"type:varchar(3);not null;default:'SGD'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// Pocket represents a named sub-account. The partial unique index enforces at
// most one default pocket per user at the database level.
type Pocket struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_pockets_one_default,where:is_default"`
	Name        string    `gorm:"not null;size:100"`
	Description string    `gorm:"size:255"`
	Icon        string    `gorm:"size:64"`
	IsDefault   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Pocket) TableName() string { return "pockets" }

// Category is a row of the global category table shared by all users.
type Category struct {
	ID                  int32  `gorm:"primaryKey;autoIncrement"`
	Name                string `gorm:"uniqueIndex;not null;size:100"`
	IsIncome            bool   `gorm:"not null;default:false"`
	Icon                string `gorm:"size:64"`
	ExcludeFromAnalysis bool   `gorm:"not null;default:false"`
}

func (Category) TableName() string { return "categories" }

// Transaction is a persisted ledger row. DeletedAt is a plain tombstone
// column, not gorm's soft-delete type: reads must be able to see tombstoned
// rows so delete and restore stay explicit operations.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PocketID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  int32           `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description string          `gorm:"size:255"`
	OccurredAt  time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time

	// Conversion fields, set only when the input currency differed from the
	// owner's base currency at creation time.
	OriginalCurrency *string          `gorm:"type:varchar(3)"`
	OriginalAmount   *decimal.Decimal `gorm:"type:decimal(20,4)"`
	ExchangeRate     *decimal.Decimal `gorm:"type:decimal(20,8)"`

	TransferID *uuid.UUID `gorm:"type:uuid;index"`

	DeletedAt *time.Time `gorm:"index"`
}

func (Transaction) TableName() string { return "transactions" }

// Asset is a global catalog entry with its last fetched price.
type Asset struct {
	Ticker       string          `gorm:"primaryKey;size:32"`
	Name         string          `gorm:"not null;size:100"`
	AssetType    string          `gorm:"not null;size:32"`
	Source       string          `gorm:"not null;size:32"`
	APITicker    string          `gorm:"size:32"`
	Currency     string          `gorm:"type:varchar(3);not null"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	IconURL      string          `gorm:"size:255"`
	LastUpdated  *time.Time
}

func (Asset) TableName() string { return "assets" }

// Holding is a user's position in one catalog asset, unique per
// (user, ticker) via the composite primary key.
type Holding struct {
	UserID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Ticker      string          `gorm:"primaryKey;size:32"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	AvgBuyPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Holding) TableName() string { return "holdings" }

// RefreshToken is one link of a rotation chain. Only the SHA-256 hex digest
// of the raw token is stored.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64"`
	ExpiresAt time.Time `gorm:"not null"`
	IsRevoked bool      `gorm:"not null;default:false"`
	// ReplacedBy holds the successor token's hash once rotated.
	ReplacedBy *string `gorm:"size:64"`
	CreatedAt time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
