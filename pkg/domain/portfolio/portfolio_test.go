package portfolio_test

import (
	"testing"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestChangePercent(t *testing.T) {
	assert.True(t, portfolio.ChangePercent(d("110"), d("100")).Equal(d("10")))
	assert.True(t, portfolio.ChangePercent(d("90"), d("100")).Equal(d("-10")))
	assert.True(t, portfolio.ChangePercent(d("110"), decimal.Zero).IsZero())
}

func TestSummarize_ConvertsAtRate(t *testing.T) {
	row := portfolio.HoldingRow{
		Ticker:        "AAPL",
		Quantity:      d("2"),
		AvgBuyPrice:   d("100"),
		CurrentPrice:  d("150"),
		AssetCurrency: currency.Code("USD"),
	}

	sum := portfolio.Summarize(row, d("1.3"))

	assert.True(t, sum.CurrentPriceConverted.Equal(d("195")))
	assert.True(t, sum.TotalValue.Equal(d("300")))
	assert.True(t, sum.TotalValueConverted.Equal(d("390")))
	assert.True(t, sum.ChangePct.Equal(d("50")))
}

func TestValue_AccumulatesCostAndChange(t *testing.T) {
	rows := []portfolio.HoldingRow{
		{Ticker: "AAPL", Quantity: d("2"), AvgBuyPrice: d("100"), CurrentPrice: d("150"), AssetCurrency: "USD"},
		{Ticker: "ES3", Quantity: d("10"), AvgBuyPrice: d("3"), CurrentPrice: d("4"), AssetCurrency: "SGD"},
	}
	rates := map[currency.Code]decimal.Decimal{"USD": d("1.3")}

	v := portfolio.Value(rows, rates, "SGD")
	require.Len(t, v.Investments, 2)

	// 2*100*1.3 + 10*3 = 290 cost; value 2*150*1.3 + 10*4 = 430.
	assert.True(t, v.TotalCost.Equal(d("290")), "got %s", v.TotalCost)
	assert.True(t, v.AbsoluteChange.Equal(d("140")), "got %s", v.AbsoluteChange)
}

func TestValue_UnknownRateDefaultsToOne(t *testing.T) {
	rows := []portfolio.HoldingRow{
		{Ticker: "BTC", Quantity: d("1"), AvgBuyPrice: d("50000"), CurrentPrice: d("60000"), AssetCurrency: "USD"},
	}

	v := portfolio.Value(rows, nil, "SGD")
	assert.True(t, v.TotalCost.Equal(d("50000")))
}
