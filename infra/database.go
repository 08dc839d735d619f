// Package infra wires the persistence and provider implementations behind the
// pkg interfaces.
package infra

import (
	"errors"
	"time"

	"github.com/phoebudget/phoebudget/infra/repository"
	"github.com/phoebudget/phoebudget/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the postgres connection pool. Query logging is only
// enabled in development.
func NewDBConnection(
	cnf config.DB,
	appEnv string,
) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(postgres.Open(databaseUrl), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&repository.User{},
		&repository.Pocket{},
		&repository.Category{},
		&repository.Transaction{},
		&repository.Asset{},
		&repository.Holding{},
		&repository.RefreshToken{},
	)
}

// Seed inserts the global category and asset catalogs. Existing rows are left
// untouched, so seeding is idempotent and never resets fetched prices.
func Seed(db *gorm.DB) error {
	categories := []repository.Category{
		{Name: "Groceries", Icon: "shopping_cart"},
		{Name: "Dining", Icon: "restaurant"},
		{Name: "Transport", Icon: "directions_bus"},
		{Name: "Shopping", Icon: "shopping_bag"},
		{Name: "Entertainment", Icon: "movie"},
		{Name: "Health", Icon: "local_hospital"},
		{Name: "Bills", Icon: "receipt_long"},
		{Name: "Travel", Icon: "flight"},
		{Name: "Other", Icon: "category"},
		{Name: "Salary", IsIncome: true, Icon: "payments"},
		{Name: "Other Income", IsIncome: true, Icon: "attach_money"},
		// The transfer pair cancels in cash sums and is hidden from category
		// analysis.
		{Name: "Transfer Out", Icon: "arrow_upward", ExcludeFromAnalysis: true},
		{Name: "Transfer In", IsIncome: true, Icon: "arrow_downward", ExcludeFromAnalysis: true},
	}
	for _, c := range categories {
		if err := db.Where(repository.Category{Name: c.Name}).
			FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}

	assets := []repository.Asset{
		{Ticker: "BTC", Name: "Bitcoin", AssetType: "crypto", Source: "binance", APITicker: "BTCUSDT", Currency: "USD"},
		{Ticker: "ETH", Name: "Ethereum", AssetType: "crypto", Source: "binance", APITicker: "ETHUSDT", Currency: "USD"},
		{Ticker: "AAPL", Name: "Apple Inc.", AssetType: "stock", Source: "yahoo", Currency: "USD"},
		{Ticker: "MSFT", Name: "Microsoft Corporation", AssetType: "stock", Source: "yahoo", Currency: "USD"},
		{Ticker: "VWRA", Name: "Vanguard FTSE All-World UCITS ETF", AssetType: "etf", Source: "yahoo", APITicker: "VWRA.L", Currency: "USD"},
		{Ticker: "ES3", Name: "SPDR STI ETF", AssetType: "etf", Source: "yahoo", APITicker: "ES3.SI", Currency: "SGD"},
	}
	for _, a := range assets {
		if err := db.Where(repository.Asset{Ticker: a.Ticker}).
			FirstOrCreate(&a).Error; err != nil {
			return err
		}
	}

	return nil
}
