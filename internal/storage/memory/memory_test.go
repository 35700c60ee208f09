package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/user"
)

func TestUserStore_CreateAssignsSequentialIDs(t *testing.T) {
	s := NewUserStore(0)
	ctx := context.Background()

	u1 := &user.User{Name: "Asha"}
	u2 := &user.User{Name: "Bram"}
	require.NoError(t, s.Create(ctx, u1))
	require.NoError(t, s.Create(ctx, u2))

	assert.Equal(t, int64(1), u1.ID)
	assert.Equal(t, int64(2), u2.ID)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUserStore_GetReturnsCopy(t *testing.T) {
	s := NewUserStore(0)
	ctx := context.Background()

	u := &user.User{Name: "Asha", WalletBalance: decimal.NewFromInt(10)}
	require.NoError(t, s.Create(ctx, u))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	got.WalletBalance = decimal.Zero

	// Mutation of the copy does not leak into the store.
	again, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(again.WalletBalance))
}

func TestUserStore_GetUnknown(t *testing.T) {
	s := NewUserStore(0)

	_, err := s.Get(context.Background(), 99)
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserStore_UpdateUnknown(t *testing.T) {
	s := NewUserStore(0)

	err := s.Update(context.Background(), &user.User{ID: 7})
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserStore_CapacityLimit(t *testing.T) {
	s := NewUserStore(1)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &user.User{Name: "Asha"}))
	err := s.Create(ctx, &user.User{Name: "Bram"})
	require.ErrorIs(t, err, user.ErrRegistryFull)
}

func TestLedgerStore_AppendAssignsSequentialIDs(t *testing.T) {
	s := NewLedgerStore(0)
	ctx := context.Background()

	t1 := &ledger.Transaction{UserID: 1, Amount: decimal.NewFromInt(2)}
	t2 := &ledger.Transaction{UserID: 2, Amount: decimal.NewFromInt(4)}
	require.NoError(t, s.Append(ctx, t1))
	require.NoError(t, s.Append(ctx, t2))

	assert.Equal(t, int64(1), t1.ID)
	assert.Equal(t, int64(2), t2.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
}

func TestLedgerStore_ListByUser(t *testing.T) {
	s := NewLedgerStore(0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, &ledger.Transaction{UserID: 1}))
	require.NoError(t, s.Append(ctx, &ledger.Transaction{UserID: 2}))
	require.NoError(t, s.Append(ctx, &ledger.Transaction{UserID: 1}))

	mine, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(1), mine[0].ID)
	assert.Equal(t, int64(3), mine[1].ID)
}

func TestLedgerStore_CapacityLimit(t *testing.T) {
	s := NewLedgerStore(1)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, &ledger.Transaction{UserID: 1}))
	err := s.Append(ctx, &ledger.Transaction{UserID: 1})
	require.ErrorIs(t, err, ledger.ErrLedgerFull)
}

func TestAnalyticsStore_FoldAndPassEvents(t *testing.T) {
	s := NewAnalyticsStore()
	ctx := context.Background()

	require.NoError(t, s.RecordPurchase(ctx, &ledger.Transaction{
		Amount:        decimal.NewFromInt(3),
		Liters:        decimal.NewFromInt(1),
		PaymentMethod: ledger.Digital,
		Fee:           decimal.NewFromInt(1),
		Discount:      decimal.Zero,
	}))
	require.NoError(t, s.RecordPassPurchase(ctx))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(snap.TotalRevenue))
	assert.Equal(t, 1, snap.DigitalTransactions)
	assert.Equal(t, 1, snap.PassHolders)
}
