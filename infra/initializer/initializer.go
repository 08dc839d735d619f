// Package initializer builds the infrastructure dependencies: logger,
// database, repositories and market-data providers.
package initializer

import (
	"fmt"

	"github.com/phoebudget/phoebudget/infra"
	infraprovider "github.com/phoebudget/phoebudget/infra/provider"
	infrarepo "github.com/phoebudget/phoebudget/infra/repository"
	"github.com/phoebudget/phoebudget/pkg/app"
	"github.com/phoebudget/phoebudget/pkg/config"
)

// InitializeDependencies connects the database, migrates and seeds the
// schema, and wires the providers.
func InitializeDependencies(cfg *config.App) (app.Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		return app.Deps{}, fmt.Errorf("connect database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return app.Deps{}, fmt.Errorf("migrate schema: %w", err)
	}
	if err := infra.Seed(db); err != nil {
		return app.Deps{}, fmt.Errorf("seed catalogs: %w", err)
	}

	rates := infraprovider.NewCachedExchangeRate(
		infraprovider.NewFrankfurterProvider(*cfg.ExchangeRate, logger),
		cfg.ExchangeRate.CacheTTL,
		logger,
	)

	return app.Deps{
		Uow:    infrarepo.NewUoW(db),
		Rates:  rates,
		Prices: infraprovider.NewMarketPriceFetcher(*cfg.Prices, logger),
		Config: cfg,
		Logger: logger,
	}, nil
}
