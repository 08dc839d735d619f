package pocket_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain"
	ledgerdomain "github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/service/internal/fake"
	"github.com/phoebudget/phoebudget/pkg/service/pocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salaryCategory int32 = 2

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*pocket.Service, *fake.Store, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := fake.NewStore()
	userID, mainID := store.SeedUser("phoebe@example.com", "SGD")
	store.SeedCategory(salaryCategory, "Salary", true, false)
	store.SeedTransferCategories()

	svc := pocket.New(fake.NewUoW(store), slog.New(slog.DiscardHandler))
	return svc, store, userID, mainID
}

// fund drops an income row straight into the store.
func fund(store *fake.Store, userID, pocketID uuid.UUID, amount string) {
	t := ledgerdomain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		PocketID:   pocketID,
		CategoryID: salaryCategory,
		Amount:     d(amount),
		OccurredAt: time.Now().UTC(),
	}
	store.Transactions[t.ID] = t
}

func TestCreatePocket(t *testing.T) {
	svc, _, userID, _ := setup(t)

	read, err := svc.CreatePocket(context.Background(), userID, "Savings", "rainy day", "")
	require.NoError(t, err)
	assert.Equal(t, "Savings", read.Name)
	assert.Equal(t, "account_balance_wallet", read.Icon)
	assert.False(t, read.IsDefault)
}

func TestCreatePocket_RejectsBlankName(t *testing.T) {
	svc, _, userID, _ := setup(t)

	_, err := svc.CreatePocket(context.Background(), userID, "   ", "", "")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestUpdatePocket_RejectsBlankName(t *testing.T) {
	svc, _, userID, mainID := setup(t)
	blank := " "

	err := svc.UpdatePocket(context.Background(), mainID, userID,
		dto.PocketUpdate{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestDeletePocket_DefaultIsProtected(t *testing.T) {
	svc, _, userID, mainID := setup(t)

	err := svc.DeletePocket(context.Background(), mainID, userID)
	assert.ErrorIs(t, err, domain.ErrCannotDeleteDefault)
}

func TestDeletePocket_BlockedWhileInUse(t *testing.T) {
	svc, store, userID, _ := setup(t)
	savings := store.SeedPocket(userID, "Savings", false)
	fund(store, userID, savings, "10")

	err := svc.DeletePocket(context.Background(), savings, userID)
	assert.ErrorIs(t, err, domain.ErrPocketInUse)
}

func TestDeletePocket_EmptyNonDefault(t *testing.T) {
	svc, store, userID, _ := setup(t)
	savings := store.SeedPocket(userID, "Savings", false)

	require.NoError(t, svc.DeletePocket(context.Background(), savings, userID))
	_, err := svc.GetPocket(context.Background(), savings, userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_SamePocket(t *testing.T) {
	svc, _, userID, mainID := setup(t)

	err := svc.Transfer(context.Background(), userID, mainID, mainID, d("10"), "")
	assert.ErrorIs(t, err, domain.ErrSamePocket)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	svc, store, userID, mainID := setup(t)
	savings := store.SeedPocket(userID, "Savings", false)
	fund(store, userID, mainID, "20")

	err := svc.Transfer(context.Background(), userID, mainID, savings, d("20.01"), "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestTransfer_MovesBalanceWithoutChangingTotal(t *testing.T) {
	svc, store, userID, mainID := setup(t)
	ctx := context.Background()
	savings := store.SeedPocket(userID, "Savings", false)
	fund(store, userID, mainID, "100")

	require.NoError(t, svc.Transfer(ctx, userID, mainID, savings, d("30"), "monthly saving"))

	mainBalance, err := svc.Balance(ctx, userID, mainID)
	require.NoError(t, err)
	savingsBalance, err := svc.Balance(ctx, userID, savings)
	require.NoError(t, err)
	assert.True(t, mainBalance.Equal(d("70")), "got %s", mainBalance)
	assert.True(t, savingsBalance.Equal(d("30")), "got %s", savingsBalance)

	// The legs cancel, so the overall signed cash sum stays put.
	uow := fake.NewUoW(store)
	total, err := uow.Transactions().SumLiveSigned(ctx, userID)
	require.NoError(t, err)
	assert.True(t, total.Equal(d("100")), "got %s", total)

	// Both legs carry the same transfer id and description.
	var legs []ledgerdomain.Transaction
	for _, row := range store.Transactions {
		if row.TransferID != nil {
			legs = append(legs, row)
		}
	}
	require.Len(t, legs, 2)
	assert.Equal(t, *legs[0].TransferID, *legs[1].TransferID)
	assert.Equal(t, "monthly saving", legs[0].Description)
	assert.Equal(t, legs[0].OccurredAt, legs[1].OccurredAt)
}

func TestTransfer_SecondLegFailureRollsBackBoth(t *testing.T) {
	svc, store, userID, mainID := setup(t)
	savings := store.SeedPocket(userID, "Savings", false)
	fund(store, userID, mainID, "100")

	boom := errors.New("boom")
	calls := 0
	store.CreateTransactionHook = func(*ledgerdomain.Transaction) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	}

	err := svc.Transfer(context.Background(), userID, mainID, savings, d("30"), "")
	require.ErrorIs(t, err, boom)

	for _, row := range store.Transactions {
		assert.Nil(t, row.TransferID, "a leg survived the rollback")
	}
}

func TestTransfer_UnownedPocket(t *testing.T) {
	svc, store, userID, mainID := setup(t)
	_, strangerPocket := store.SeedUser("other@example.com", "SGD")
	fund(store, userID, mainID, "100")

	err := svc.Transfer(context.Background(), userID, mainID, strangerPocket, d("10"), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
