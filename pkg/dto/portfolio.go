package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingCreate adds a ticker to a user's portfolio.
type HoldingCreate struct {
	UserID      uuid.UUID
	Ticker      string
	Quantity    decimal.Decimal
	AvgBuyPrice decimal.Decimal
}

// HoldingUpdate overwrites the supplied fields. These are user-declared
// figures, never reconciled against ledger history.
type HoldingUpdate struct {
	Quantity    *decimal.Decimal
	AvgBuyPrice *decimal.Decimal
}

// AssetRead is a global catalog entry with its cached price.
type AssetRead struct {
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	AssetType    string          `json:"asset_type"`
	Source       string          `json:"source"`
	APITicker    string          `json:"api_ticker,omitempty"`
	Currency     string          `json:"currency"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	IconURL      string          `json:"icon_url,omitempty"`
	LastUpdated  *time.Time      `json:"last_updated,omitempty"`
}

// InvestmentRead is one valued holding in a portfolio response.
type InvestmentRead struct {
	Ticker                string          `json:"ticker"`
	Name                  string          `json:"name"`
	Quantity              decimal.Decimal `json:"quantity"`
	AvgBuyPrice           decimal.Decimal `json:"avg_buy_price"`
	AvgBuyPriceConverted  decimal.Decimal `json:"avg_buy_price_converted"`
	CurrentPrice          decimal.Decimal `json:"current_price"`
	CurrentPriceConverted decimal.Decimal `json:"current_price_converted"`
	TotalValue            decimal.Decimal `json:"total_value"`
	TotalValueConverted   decimal.Decimal `json:"total_value_converted"`
	ChangePct             decimal.Decimal `json:"change_pct"`
	Currency              string          `json:"currency"`
	AssetCurrency         string          `json:"asset_currency"`
	IconURL               string          `json:"icon_url,omitempty"`
}

// PortfolioRead is the full valued portfolio in the user's base currency.
type PortfolioRead struct {
	Investments    []InvestmentRead `json:"investments"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
	AbsoluteChange decimal.Decimal  `json:"absolute_change"`
}
