// Package portfolio contains the pure valuation math for investment holdings.
package portfolio

import (
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// HoldingRow is a user's holding joined with its catalog asset.
type HoldingRow struct {
	Ticker        string
	Name          string
	Quantity      decimal.Decimal
	AvgBuyPrice   decimal.Decimal
	CurrentPrice  decimal.Decimal
	AssetCurrency currency.Code
	IconURL       string
}

// Summary is the derived view of a single holding. Converted figures are in
// the user's base currency.
type Summary struct {
	Ticker                string
	Name                  string
	Quantity              decimal.Decimal
	AvgBuyPrice           decimal.Decimal
	AvgBuyPriceConverted  decimal.Decimal
	CurrentPrice          decimal.Decimal
	CurrentPriceConverted decimal.Decimal
	TotalValue            decimal.Decimal
	TotalValueConverted   decimal.Decimal
	ChangePct             decimal.Decimal
	AssetCurrency         currency.Code
	IconURL               string
}

// Valuation is the portfolio-wide view in the user's base currency.
type Valuation struct {
	Investments    []Summary
	TotalCost      decimal.Decimal
	AbsoluteChange decimal.Decimal
}

// ChangePercent returns (current - base) / base * 100, or zero when the cost
// basis is not positive.
func ChangePercent(current, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(base).Div(base).Mul(hundred)
}

// Summarize computes the derived fields for one holding at the given
// asset-currency to base-currency rate.
func Summarize(row HoldingRow, rate decimal.Decimal) Summary {
	return Summary{
		Ticker:                row.Ticker,
		Name:                  row.Name,
		Quantity:              row.Quantity,
		AvgBuyPrice:           row.AvgBuyPrice,
		AvgBuyPriceConverted:  row.AvgBuyPrice.Mul(rate),
		CurrentPrice:          row.CurrentPrice,
		CurrentPriceConverted: row.CurrentPrice.Mul(rate),
		TotalValue:            row.Quantity.Mul(row.CurrentPrice),
		TotalValueConverted:   row.Quantity.Mul(row.CurrentPrice).Mul(rate),
		ChangePct:             ChangePercent(row.CurrentPrice, row.AvgBuyPrice),
		AssetCurrency:         row.AssetCurrency,
		IconURL:               row.IconURL,
	}
}

// rateFor looks up the asset-to-base rate, defaulting to 1 for the base
// currency itself or an unknown pair.
func rateFor(asset, base currency.Code, rates map[currency.Code]decimal.Decimal) decimal.Decimal {
	if asset == base {
		return decimal.NewFromInt(1)
	}
	if r, ok := rates[asset]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// Value builds the full portfolio valuation. rates maps each distinct asset
// currency to the user's base currency.
func Value(rows []HoldingRow, rates map[currency.Code]decimal.Decimal, base currency.Code) Valuation {
	v := Valuation{Investments: make([]Summary, 0, len(rows))}
	for _, row := range rows {
		rate := rateFor(row.AssetCurrency, base, rates)

		cost := row.Quantity.Mul(row.AvgBuyPrice).Mul(rate)
		value := row.Quantity.Mul(row.CurrentPrice).Mul(rate)
		v.TotalCost = v.TotalCost.Add(cost)
		v.AbsoluteChange = v.AbsoluteChange.Add(value.Sub(cost))

		v.Investments = append(v.Investments, Summarize(row, rate))
	}
	return v
}
