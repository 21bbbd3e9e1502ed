package currency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardiachain/governance-backend/types"
)

type mapStore map[types.AccountID]types.Account

func (m mapStore) Account(_ context.Context, id types.AccountID) (*types.Account, error) {
	acc, ok := m[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &acc, nil
}

func (m mapStore) UpsertAccount(_ context.Context, account *types.Account) error {
	m[account.ID] = *account
	return nil
}

func (m mapStore) RemoveAccount(_ context.Context, id types.AccountID) error {
	delete(m, id)
	return nil
}

var (
	alice = types.AccountFromUint64(1)
	bob   = types.AccountFromUint64(2)
)

func setup(t *testing.T, ed types.Balance) (*Ledger, mapStore) {
	store := mapStore{}
	l := New(store, Config{ExistentialDeposit: ed})
	require.NoError(t, l.Deposit(context.Background(), alice, 100))
	return l, store
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		amount  types.Balance
		req     ExistenceRequirement
		wantErr error
		alice   types.Balance
		bob     types.Balance
	}{
		{"keep alive", 60, KeepAlive, nil, 40, 60},
		{"keep alive kills sender", 95, KeepAlive, types.ErrExistentialDeposit, 100, 0},
		{"allow death reaps dust", 95, AllowDeath, nil, 0, 95},
		{"insufficient", 101, AllowDeath, types.ErrInsufficientBalance, 100, 0},
		{"recipient below deposit", 3, KeepAlive, types.ErrExistentialDeposit, 100, 0},
		{"zero", 0, KeepAlive, types.ErrZeroAmount, 100, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, store := setup(t, 10)
			ev, err := l.Transfer(ctx, alice, bob, tc.amount, tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, ev)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.amount, ev.Amount)
			}
			free, err := l.FreeBalance(ctx, alice)
			require.NoError(t, err)
			assert.Equal(t, tc.alice, free)
			free, err = l.FreeBalance(ctx, bob)
			require.NoError(t, err)
			assert.Equal(t, tc.bob, free)
			if tc.alice == 0 {
				assert.NotContains(t, store, alice)
			}
		})
	}
}

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()
	l, _ := setup(t, 1)

	require.NoError(t, l.Reserve(ctx, alice, 30))
	assert.ErrorIs(t, l.Reserve(ctx, alice, 71), types.ErrInsufficientBalance)

	free, _ := l.FreeBalance(ctx, alice)
	reserved, _ := l.ReservedBalance(ctx, alice)
	assert.Equal(t, types.Balance(70), free)
	assert.Equal(t, types.Balance(30), reserved)

	released, err := l.Unreserve(ctx, alice, 50)
	require.NoError(t, err)
	assert.Equal(t, types.Balance(30), released)
	free, _ = l.FreeBalance(ctx, alice)
	assert.Equal(t, types.Balance(100), free)
}

func TestLedger_RepatriateReserved(t *testing.T) {
	ctx := context.Background()
	l, _ := setup(t, 1)
	require.NoError(t, l.Reserve(ctx, alice, 30))

	assert.ErrorIs(t, l.RepatriateReserved(ctx, alice, bob, 31), types.ErrInsufficientBalance)
	require.NoError(t, l.RepatriateReserved(ctx, alice, bob, 30))

	reserved, _ := l.ReservedBalance(ctx, alice)
	assert.Equal(t, types.Balance(0), reserved)
	free, _ := l.FreeBalance(ctx, bob)
	assert.Equal(t, types.Balance(30), free)
	free, _ = l.FreeBalance(ctx, alice)
	assert.Equal(t, types.Balance(70), free)
}
