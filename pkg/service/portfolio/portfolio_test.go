package portfolio_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/provider"
	"github.com/phoebudget/phoebudget/pkg/service/internal/fake"
	"github.com/phoebudget/phoebudget/pkg/service/portfolio"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T, prices *fake.Prices) (*portfolio.Service, *fake.Store, uuid.UUID) {
	t.Helper()
	store := fake.NewStore()
	userID, _ := store.SeedUser("phoebe@example.com", "SGD")
	store.SeedAsset("AAPL", "yahoo", "USD", d("150"))
	store.SeedAsset("ES3", "yahoo", "SGD", d("4"))
	store.SeedAsset("BTC", "binance", "USD", d("60000"))

	rates := &fake.Rates{Table: map[string]decimal.Decimal{
		"USD:SGD": d("1.3"),
	}}
	svc := portfolio.New(fake.NewUoW(store), prices, rates, time.Second, slog.New(slog.DiscardHandler))
	return svc, store, userID
}

func addHolding(t *testing.T, svc *portfolio.Service, userID uuid.UUID, ticker, qty, avg string) {
	t.Helper()
	require.NoError(t, svc.AddHolding(context.Background(), dto.HoldingCreate{
		UserID:      userID,
		Ticker:      ticker,
		Quantity:    d(qty),
		AvgBuyPrice: d(avg),
	}))
}

func TestAddHolding_UnknownTicker(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})

	err := svc.AddHolding(context.Background(), dto.HoldingCreate{
		UserID:      userID,
		Ticker:      "NOPE",
		Quantity:    d("1"),
		AvgBuyPrice: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestAddHolding_TickerHeldOnce(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})
	addHolding(t, svc, userID, "AAPL", "2", "100")

	err := svc.AddHolding(context.Background(), dto.HoldingCreate{
		UserID:      userID,
		Ticker:      "AAPL",
		Quantity:    d("1"),
		AvgBuyPrice: d("120"),
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyHeld)
}

func TestAddHolding_RejectsNonPositiveFigures(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})

	err := svc.AddHolding(context.Background(), dto.HoldingCreate{
		UserID:      userID,
		Ticker:      "AAPL",
		Quantity:    d("0"),
		AvgBuyPrice: d("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestUpdateHolding_NotHeld(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})
	qty := d("5")

	err := svc.UpdateHolding(context.Background(), userID, "AAPL",
		dto.HoldingUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveHolding(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})
	ctx := context.Background()
	addHolding(t, svc, userID, "AAPL", "2", "100")

	require.NoError(t, svc.RemoveHolding(ctx, userID, "AAPL"))
	assert.ErrorIs(t, svc.RemoveHolding(ctx, userID, "AAPL"), domain.ErrNotFound)
}

func TestRefreshPrices_PartialFailure(t *testing.T) {
	prices := &fake.Prices{
		Quotes: map[string]provider.Quote{
			"AAPL": {Price: d("155"), Currency: "USD"},
			"ES3":  {Price: d("4.2"), Currency: "SGD"},
		},
		Errs: map[string]error{
			"BTC": errors.New("upstream 503"),
		},
	}
	svc, store, userID := setup(t, prices)
	addHolding(t, svc, userID, "AAPL", "2", "100")
	addHolding(t, svc, userID, "ES3", "10", "3")
	addHolding(t, svc, userID, "BTC", "1", "50000")

	updated, err := svc.RefreshPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	assert.True(t, store.Assets["AAPL"].CurrentPrice.Equal(d("155")))
	assert.NotNil(t, store.Assets["AAPL"].LastUpdated)
	assert.True(t, store.Assets["ES3"].CurrentPrice.Equal(d("4.2")))
	// The failed ticker keeps its stale price and stays unstamped.
	assert.True(t, store.Assets["BTC"].CurrentPrice.Equal(d("60000")))
	assert.Nil(t, store.Assets["BTC"].LastUpdated)
}

func TestGetPortfolio_ValuesInBaseCurrency(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})
	addHolding(t, svc, userID, "AAPL", "2", "100")
	addHolding(t, svc, userID, "ES3", "10", "3")

	read, err := svc.GetPortfolio(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, read.Investments, 2)

	// Cost 2*100*1.3 + 10*3 = 290, value 2*150*1.3 + 10*4 = 430.
	assert.True(t, read.TotalCost.Equal(d("290")), "got %s", read.TotalCost)
	assert.True(t, read.AbsoluteChange.Equal(d("140")), "got %s", read.AbsoluteChange)

	aapl := read.Investments[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, "SGD", aapl.Currency)
	assert.Equal(t, "USD", aapl.AssetCurrency)
	assert.True(t, aapl.CurrentPriceConverted.Equal(d("195")))
	assert.True(t, aapl.ChangePct.Equal(d("50")))
}

func TestGetPortfolio_Empty(t *testing.T) {
	svc, _, userID := setup(t, &fake.Prices{})

	read, err := svc.GetPortfolio(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, read.Investments)
	assert.True(t, read.TotalCost.IsZero())
}

func TestListAssets(t *testing.T) {
	svc, _, _ := setup(t, &fake.Prices{})

	assets, err := svc.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "AAPL", assets[0].Ticker)
}
