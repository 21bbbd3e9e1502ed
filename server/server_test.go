// Package server
package server

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

func acc(n uint64) types.AccountID { return types.AccountFromUint64(n) }

func testGenesis() *Genesis {
	return &Genesis{
		Balances: []GenesisBalance{
			{Account: "1", Balance: 100},
			{Account: "2", Balance: 98},
			{Account: "3", Balance: 200},
			{Account: "4", Balance: 75},
			{Account: "5", Balance: 10},
			{Account: "6", Balance: 69},
		},
		Organization: GenesisOrg{
			Supervisor: "1",
			Members:    []string{"1", "2", "3", "4", "5", "6"},
		},
	}
}

func createTestSrv(t *testing.T, cfg Config) *Server {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	cfg.StorageAdapter = db.Memory
	cfg.Logger = logger
	cfg.EventBuffer = 64
	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	applied, err := srv.ApplyGenesis(context.Background(), testGenesis())
	require.NoError(t, err)
	require.True(t, applied)
	return srv
}

func free(t *testing.T, srv *Server, who types.AccountID) types.Balance {
	a, err := srv.Balance(context.Background(), who)
	require.NoError(t, err)
	return a.Free
}

func TestServer_Genesis(t *testing.T) {
	srv := createTestSrv(t, Config{})
	ctx := context.Background()

	applied, err := srv.ApplyGenesis(ctx, testGenesis())
	require.NoError(t, err)
	assert.False(t, applied)

	summary, err := srv.Organization(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, summary.Members, 6)
	assert.Equal(t, acc(1), *summary.Organization.Sudo)
	assert.Equal(t, types.Balance(200), free(t, srv, acc(3)))

	evs, err := srv.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "FlatOrgRegistered", evs[0].Name)
}

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "genesis.json")
	body := `{"balances":[{"account":"1","balance":100}],"organization":{"supervisor":"1","members":["1","2"]}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0o600))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, types.Balance(100), g.Balances[0].Balance)
	assert.Equal(t, []string{"1", "2"}, g.Organization.Members)

	require.NoError(t, ioutil.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadGenesis(path)
	assert.ErrorIs(t, err, types.ErrInvalidGenesis)
}

func TestServer_FailedCallLeavesNoTrace(t *testing.T) {
	srv := createTestSrv(t, Config{})
	ctx := context.Background()

	_, err := srv.RegisterWeightedOrg(ctx, acc(1), nil, nil, types.Hash{}, []shares.AccountShare{
		{Account: acc(7), Shares: 30},
		{Account: acc(8), Shares: 70},
	})
	require.NoError(t, err)

	// the first member is paid before the second transfer breaks the sender's existential deposit
	_, err = srv.MakeEqualDonation(ctx, acc(1), 2, acc(9), 100)
	assert.ErrorIs(t, err, types.ErrExistentialDeposit)
	assert.Equal(t, types.Balance(100), free(t, srv, acc(1)))
	assert.Equal(t, types.Balance(0), free(t, srv, acc(7)))

	evs, err := srv.Events(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "WeightedOrgRegistered", evs[0].Name)

	ev, err := srv.MakeEqualDonation(ctx, acc(1), 2, acc(9), 51)
	require.NoError(t, err)
	assert.Equal(t, types.Balance(50), ev.ToOrg)
	assert.Equal(t, types.Balance(1), ev.Remainder)
	assert.Equal(t, types.Balance(25), free(t, srv, acc(7)))
}

func TestServer_OnBlockExecutesSpend(t *testing.T) {
	srv := createTestSrv(t, Config{})
	ctx := context.Background()

	_, err := srv.OpenBankAccount(ctx, acc(1), 1, 20, nil)
	require.NoError(t, err)
	_, err = srv.ProposeSpend(ctx, acc(1), 1, 10, acc(3))
	require.NoError(t, err)
	key := types.NewBankSpend(1, 1)
	triggered, err := srv.TriggerSpendVote(ctx, key)
	require.NoError(t, err)

	closed, err := srv.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
	assert.Equal(t, types.BlockNumber(1), srv.BlockNumber())

	for i := uint64(1); i <= 3; i++ {
		submitted, outcome, err := srv.SubmitVote(ctx, acc(i), triggered.VoteID, vote.InFavor, nil)
		require.NoError(t, err)
		assert.True(t, submitted.Changed)
		assert.Nil(t, outcome)
	}
	submitted, _, err := srv.SubmitVote(ctx, acc(3), triggered.VoteID, vote.InFavor, nil)
	require.NoError(t, err)
	assert.False(t, submitted.Changed)

	_, outcome, err := srv.SubmitVote(ctx, acc(4), triggered.VoteID, vote.InFavor, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, "approved", outcome.Outcome)

	rec, err := srv.Vote(ctx, triggered.VoteID)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(4), rec.InFavor)

	closed, err = srv.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, types.Balance(210), free(t, srv, acc(3)))

	spend, err := srv.Spend(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.SpendExecutedState, spend.State)

	evs, err := srv.Events(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "SpendExecuted", evs[0].Name)
	assert.Equal(t, types.BlockNumber(2), evs[0].Block)
}

func TestServer_OnBlockExpires(t *testing.T) {
	duration := types.BlockNumber(2)
	srv := createTestSrv(t, Config{SpendVoteDuration: &duration})
	ctx := context.Background()

	_, err := srv.OpenBankAccount(ctx, acc(3), 1, 50, nil)
	require.NoError(t, err)
	_, err = srv.ProposeSpend(ctx, acc(3), 1, 10, acc(5))
	require.NoError(t, err)
	_, err = srv.TriggerSpendVote(ctx, types.NewBankSpend(1, 1))
	require.NoError(t, err)

	_, err = srv.RegisterDispute(ctx, acc(2), 10, acc(4), types.ResolutionPath{
		Org:      types.EqualRep(1),
		Passage:  types.Threshold{SupportRequired: 3},
		Duration: &duration,
	})
	require.NoError(t, err)
	_, err = srv.RaiseDispute(ctx, acc(4), 1)
	require.NoError(t, err)

	closed, err := srv.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	closed, err = srv.OnBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	assert.Equal(t, types.Balance(10), free(t, srv, acc(5)))
	a, err := srv.Balance(ctx, acc(2))
	require.NoError(t, err)
	assert.Equal(t, types.Balance(98), a.Free)
	assert.Equal(t, types.Balance(0), a.Reserved)

	d, err := srv.Dispute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.DisputeDismissedState, d.State)
}

func TestServer_Transfer(t *testing.T) {
	srv := createTestSrv(t, Config{})
	ctx := context.Background()

	ev, err := srv.Transfer(ctx, acc(5), acc(6), 10)
	require.NoError(t, err)
	assert.Equal(t, &types.Transferred{From: acc(5), To: acc(6), Amount: 10}, ev)
	assert.Equal(t, types.Balance(0), free(t, srv, acc(5)))
	assert.Equal(t, types.Balance(79), free(t, srv, acc(6)))

	_, err = srv.Transfer(ctx, acc(5), acc(6), 1)
	assert.ErrorIs(t, err, types.ErrInsufficientBalance)
}
