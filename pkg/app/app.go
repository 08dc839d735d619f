// Package app assembles the services from their dependencies.
package app

import (
	"log/slog"

	"github.com/phoebudget/phoebudget/pkg/config"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/phoebudget/phoebudget/pkg/repository"
	analyticssvc "github.com/phoebudget/phoebudget/pkg/service/analytics"
	authsvc "github.com/phoebudget/phoebudget/pkg/service/auth"
	ledgersvc "github.com/phoebudget/phoebudget/pkg/service/ledger"
	pocketsvc "github.com/phoebudget/phoebudget/pkg/service/pocket"
	portfoliosvc "github.com/phoebudget/phoebudget/pkg/service/portfolio"
)

// Deps are the infrastructure dependencies the services are built from.
type Deps struct {
	Uow    repository.UnitOfWork
	Rates  provider.ExchangeRateProvider
	Prices provider.PriceFetcher
	Config *config.App
	Logger *slog.Logger
}

// App holds the constructed services.
type App struct {
	Auth      *authsvc.Service
	Ledger    *ledgersvc.Service
	Pocket    *pocketsvc.Service
	Portfolio *portfoliosvc.Service
	Analytics *analyticssvc.Service

	Config *config.App
	Logger *slog.Logger
}

// New builds all services.
func New(deps Deps) *App {
	return &App{
		Auth:      authsvc.New(deps.Uow, deps.Config.Auth.Jwt, deps.Logger),
		Ledger:    ledgersvc.New(deps.Uow, deps.Rates, deps.Logger),
		Pocket:    pocketsvc.New(deps.Uow, deps.Logger),
		Portfolio: portfoliosvc.New(deps.Uow, deps.Prices, deps.Rates, deps.Config.Prices.FetchTimeout, deps.Logger),
		Analytics: analyticssvc.New(deps.Uow, deps.Rates, deps.Logger),
		Config:    deps.Config,
		Logger:    deps.Logger,
	}
}
