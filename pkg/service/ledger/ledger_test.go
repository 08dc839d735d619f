package ledger_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	ledgerdomain "github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/service/internal/fake"
	"github.com/phoebudget/phoebudget/pkg/service/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	foodCategory   int32 = 1
	salaryCategory int32 = 2
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*ledger.Service, *fake.Store, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := fake.NewStore()
	userID, pocketID := store.SeedUser("phoebe@example.com", "SGD")
	store.SeedCategory(foodCategory, "Food", false, false)
	store.SeedCategory(salaryCategory, "Salary", true, false)

	rates := &fake.Rates{Table: map[string]decimal.Decimal{
		"EUR:SGD": d("1.1"),
	}}
	svc := ledger.New(fake.NewUoW(store), rates, slog.New(slog.DiscardHandler))
	return svc, store, userID, pocketID
}

func TestCreateTransaction_BaseCurrency(t *testing.T) {
	svc, _, userID, pocketID := setup(t)

	read, err := svc.CreateTransaction(context.Background(), dto.TransactionCreate{
		UserID:      userID,
		CategoryID:  foodCategory,
		Amount:      d("12.50"),
		Description: "lunch",
		OccurredAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.True(t, read.Amount.Equal(d("12.50")))
	assert.Nil(t, read.OriginalCurrency)
	assert.Nil(t, read.OriginalAmount)
	assert.Nil(t, read.ExchangeRate)
	// No pocket given, so the default pocket takes the row.
	require.NotNil(t, read.Pocket)
	assert.Equal(t, pocketID, read.Pocket.ID)
}

func TestCreateTransaction_NormalizesForeignCurrency(t *testing.T) {
	svc, _, userID, _ := setup(t)

	read, err := svc.CreateTransaction(context.Background(), dto.TransactionCreate{
		UserID:     userID,
		CategoryID: foodCategory,
		Amount:     d("50.00"),
		Currency:   "EUR",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.True(t, read.Amount.Equal(d("55")), "got %s", read.Amount)
	require.NotNil(t, read.OriginalCurrency)
	assert.Equal(t, "EUR", *read.OriginalCurrency)
	assert.True(t, read.OriginalAmount.Equal(d("50.00")))
	assert.True(t, read.ExchangeRate.Equal(d("1.1")))
}

func TestCreateTransaction_ExplicitRateOverridesProvider(t *testing.T) {
	svc, _, userID, _ := setup(t)
	rate := d("1.25")

	read, err := svc.CreateTransaction(context.Background(), dto.TransactionCreate{
		UserID:       userID,
		CategoryID:   foodCategory,
		Amount:       d("40"),
		Currency:     "EUR",
		ExchangeRate: &rate,
		OccurredAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.True(t, read.Amount.Equal(d("50")), "got %s", read.Amount)
	assert.True(t, read.ExchangeRate.Equal(rate))
}

func TestCreateTransaction_RejectsBadInput(t *testing.T) {
	svc, _, userID, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, dto.TransactionCreate{
		UserID:     userID,
		CategoryID: foodCategory,
		Amount:     d("-5"),
		OccurredAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateTransaction(ctx, dto.TransactionCreate{
		UserID:     userID,
		CategoryID: 404,
		Amount:     d("5"),
		OccurredAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTransaction_AmountAloneClearsConversion(t *testing.T) {
	svc, store, userID, _ := setup(t)
	ctx := context.Background()

	read, err := svc.CreateTransaction(ctx, dto.TransactionCreate{
		UserID:     userID,
		CategoryID: foodCategory,
		Amount:     d("50.00"),
		Currency:   "EUR",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	amount := d("30")
	require.NoError(t, svc.UpdateTransaction(ctx, read.ID, userID,
		dto.TransactionUpdate{Amount: &amount}))

	row := store.Transactions[read.ID]
	assert.True(t, row.Amount.Equal(d("30")))
	assert.Nil(t, row.OriginalCurrency)
	assert.Nil(t, row.OriginalAmount)
	assert.Nil(t, row.ExchangeRate)
}

func TestUpdateTransaction_CurrencyWithoutAmount(t *testing.T) {
	svc, _, userID, _ := setup(t)
	cur := currency.Code("EUR")

	err := svc.UpdateTransaction(context.Background(), uuid.New(), userID,
		dto.TransactionUpdate{Currency: &cur})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestUpdateTransaction_DeletedRowIsNotFound(t *testing.T) {
	svc, _, userID, _ := setup(t)
	ctx := context.Background()

	read := mustCreate(t, svc, userID, "10")
	require.NoError(t, svc.SoftDelete(ctx, read.ID, userID))

	desc := "late edit"
	err := svc.UpdateTransaction(ctx, read.ID, userID,
		dto.TransactionUpdate{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDelete_TwiceIsConflict(t *testing.T) {
	svc, _, userID, _ := setup(t)
	ctx := context.Background()

	read := mustCreate(t, svc, userID, "10")
	require.NoError(t, svc.SoftDelete(ctx, read.ID, userID))
	assert.ErrorIs(t, svc.SoftDelete(ctx, read.ID, userID), domain.ErrAlreadyDeleted)
}

func TestRestore_LiveRowIsConflict(t *testing.T) {
	svc, _, userID, _ := setup(t)

	read := mustCreate(t, svc, userID, "10")
	assert.ErrorIs(t, svc.Restore(context.Background(), read.ID, userID), domain.ErrNotDeleted)
}

func TestSoftDeleteAndRestore_Roundtrip(t *testing.T) {
	svc, _, userID, _ := setup(t)
	ctx := context.Background()

	read := mustCreate(t, svc, userID, "25")
	require.NoError(t, svc.SoftDelete(ctx, read.ID, userID))

	_, err := svc.GetTransaction(ctx, read.ID, userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Restore(ctx, read.ID, userID))

	back, err := svc.GetTransaction(ctx, read.ID, userID)
	require.NoError(t, err)
	assert.True(t, back.Amount.Equal(read.Amount))
	assert.Nil(t, back.DeletedAt)
}

func TestSoftDeleteAndRestore_FollowTransferLegs(t *testing.T) {
	svc, store, userID, pocketID := setup(t)
	ctx := context.Background()
	other := store.SeedPocket(userID, "Savings", false)
	store.SeedTransferCategories()

	transferID := uuid.New()
	now := time.Now().UTC()
	out := ledgerdomain.Transaction{
		ID: uuid.New(), UserID: userID, PocketID: pocketID, CategoryID: 98,
		Amount: d("30"), OccurredAt: now, TransferID: &transferID,
	}
	in := ledgerdomain.Transaction{
		ID: uuid.New(), UserID: userID, PocketID: other, CategoryID: 99,
		Amount: d("30"), OccurredAt: now, TransferID: &transferID,
	}
	store.Transactions[out.ID] = out
	store.Transactions[in.ID] = in

	require.NoError(t, svc.SoftDelete(ctx, out.ID, userID))
	assert.NotNil(t, store.Transactions[out.ID].DeletedAt)
	assert.NotNil(t, store.Transactions[in.ID].DeletedAt)

	require.NoError(t, svc.Restore(ctx, in.ID, userID))
	assert.Nil(t, store.Transactions[out.ID].DeletedAt)
	assert.Nil(t, store.Transactions[in.ID].DeletedAt)
}

func TestListTransactions_PaginatesNewestFirst(t *testing.T) {
	svc, _, userID, _ := setup(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := svc.CreateTransaction(ctx, dto.TransactionCreate{
			UserID:     userID,
			CategoryID: foodCategory,
			Amount:     d("10"),
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	page, err := svc.ListTransactions(ctx, userID, dto.TransactionFilter{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	require.Len(t, page.Transactions, 2)
	assert.True(t, page.Transactions[0].OccurredAt.After(page.Transactions[1].OccurredAt))
}

func TestListTransactions_ClampsLimit(t *testing.T) {
	svc, _, userID, _ := setup(t)

	page, err := svc.ListTransactions(context.Background(), userID,
		dto.TransactionFilter{Page: 0, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
}

func TestListTransactions_InvertedRange(t *testing.T) {
	svc, _, userID, _ := setup(t)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.ListTransactions(context.Background(), userID,
		dto.TransactionFilter{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func mustCreate(t *testing.T, svc *ledger.Service, userID uuid.UUID, amount string) *dto.TransactionRead {
	t.Helper()
	read, err := svc.CreateTransaction(context.Background(), dto.TransactionCreate{
		UserID:     userID,
		CategoryID: foodCategory,
		Amount:     d(amount),
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return read
}
