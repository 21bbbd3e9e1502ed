package court

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/org"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
	"github.com/kardiachain/governance-backend/voting"
)

type clock struct{ now types.BlockNumber }

func (c *clock) BlockNumber() types.BlockNumber { return c.now }

type fixture struct {
	ctx    context.Context
	court  *Module
	votes  *voting.Registry
	ledger *currency.Ledger
	clock  *clock
}

func acc(n uint64) types.AccountID { return types.AccountFromUint64(n) }

func setup(t *testing.T) *fixture {
	lgr, err := zap.NewDevelopment()
	require.NoError(t, err)
	client, err := db.NewClient(db.Config{DbAdapter: db.Memory, Logger: lgr})
	require.NoError(t, err)
	ctx := context.Background()

	ledger := currency.New(client, currency.Config{ExistentialDeposit: 1, Logger: lgr})
	balances := map[uint64]types.Balance{1: 100, 2: 98, 3: 200, 4: 75, 5: 10, 6: 69}
	for n, b := range balances {
		require.NoError(t, ledger.Deposit(ctx, acc(n), b))
	}
	orgs := org.New(client, lgr)
	_, err = orgs.RegisterGenesisOrg(ctx, acc(1), types.Hash{}, []types.AccountID{acc(1), acc(2), acc(3), acc(4), acc(5), acc(6)})
	require.NoError(t, err)

	c := &clock{now: 1}
	votes := voting.New(client, orgs, c, lgr)
	return &fixture{
		ctx:    ctx,
		court:  New(client, votes, ledger, c, Config{MinimumDisputeAmount: DefaultMinimumDisputeAmount, Logger: lgr}),
		votes:  votes,
		ledger: ledger,
		clock:  c,
	}
}

func resolution() types.ResolutionPath {
	return types.ResolutionPath{
		Org:     types.EqualRep(1),
		Passage: types.Threshold{SupportRequired: 1},
	}
}

func (f *fixture) balances(t *testing.T, who types.AccountID) (types.Balance, types.Balance) {
	a, err := f.ledger.Account(f.ctx, who)
	require.NoError(t, err)
	return a.Free, a.Reserved
}

func TestModule_RegisterDispute(t *testing.T) {
	f := setup(t)

	_, err := f.court.RegisterDispute(f.ctx, acc(1), 9, acc(2), resolution())
	assert.ErrorIs(t, err, types.ErrDisputeBelowMinimum)

	_, err = f.court.RegisterDispute(f.ctx, acc(1), 101, acc(2), resolution())
	assert.ErrorIs(t, err, types.ErrInsufficientBalance)

	turnout := types.Signal(1)
	invalid := resolution()
	invalid.Passage.TurnoutRequired = &turnout
	_, err = f.court.RegisterDispute(f.ctx, acc(1), 10, acc(2), invalid)
	assert.ErrorIs(t, err, types.ErrInvalidThreshold)

	ev, err := f.court.RegisterDispute(f.ctx, acc(1), 10, acc(2), resolution())
	require.NoError(t, err)
	assert.Equal(t, &types.DisputeRegistered{
		DisputeID: 1,
		Locker:    acc(1),
		Amount:    10,
		Raiser:    acc(2),
		Org:       types.EqualRep(1),
	}, ev)

	free, reserved := f.balances(t, acc(1))
	assert.Equal(t, types.Balance(90), free)
	assert.Equal(t, types.Balance(10), reserved)
}

func TestModule_RaiseDispute(t *testing.T) {
	f := setup(t)

	_, err := f.court.RaiseDispute(f.ctx, acc(2), 1)
	assert.ErrorIs(t, err, types.ErrDisputeNotFound)

	_, err = f.court.RegisterDispute(f.ctx, acc(1), 10, acc(2), resolution())
	require.NoError(t, err)

	_, err = f.court.RaiseDispute(f.ctx, acc(1), 1)
	assert.ErrorIs(t, err, types.ErrNotAuthorizedToRaiseDispute)

	ev, err := f.court.RaiseDispute(f.ctx, acc(2), 1)
	require.NoError(t, err)
	assert.Equal(t, &types.DisputeRaisedAndVoteTriggered{
		DisputeID: 1,
		Locker:    acc(1),
		Amount:    10,
		Raiser:    acc(2),
		Org:       types.EqualRep(1),
		VoteID:    1,
	}, ev)

	_, err = f.court.RaiseDispute(f.ctx, acc(2), 1)
	assert.ErrorIs(t, err, types.ErrDisputeNotRegistered)
}

func TestModule_PollDisputeResolves(t *testing.T) {
	f := setup(t)
	_, err := f.court.RegisterDispute(f.ctx, acc(1), 10, acc(2), resolution())
	require.NoError(t, err)

	_, err = f.court.PollDispute(f.ctx, acc(1), 1)
	assert.ErrorIs(t, err, types.ErrDisputeCannotBePolled)

	raised, err := f.court.RaiseDispute(f.ctx, acc(2), 1)
	require.NoError(t, err)
	_, err = f.court.PollDispute(f.ctx, acc(1), 1)
	assert.ErrorIs(t, err, types.ErrVoteOutcomeInconclusive)

	// support is strict, so a bar of 1 needs two ballots.
	for _, voter := range []uint64{1, 3} {
		_, _, err := f.votes.SubmitVote(f.ctx, acc(voter), raised.VoteID, vote.InFavor, nil)
		require.NoError(t, err)
	}
	ev, err := f.court.PollDispute(f.ctx, acc(1), 1)
	require.NoError(t, err)
	assert.Equal(t, &types.DisputeResolved{DisputeID: 1, Raiser: acc(2), Amount: 10}, ev)

	free, reserved := f.balances(t, acc(1))
	assert.Equal(t, types.Balance(90), free)
	assert.Equal(t, types.Balance(0), reserved)
	free, _ = f.balances(t, acc(2))
	assert.Equal(t, types.Balance(108), free)

	_, err = f.court.PollDispute(f.ctx, acc(1), 1)
	assert.ErrorIs(t, err, types.ErrDisputeCannotBePolled)

	under, err := f.court.DisputesUnderVote(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, under)
}

func TestModule_PollDisputeDismissed(t *testing.T) {
	f := setup(t)
	duration := types.BlockNumber(5)
	path := resolution()
	path.Duration = &duration
	_, err := f.court.RegisterDispute(f.ctx, acc(3), 50, acc(2), path)
	require.NoError(t, err)
	_, err = f.court.RaiseDispute(f.ctx, acc(2), 1)
	require.NoError(t, err)

	under, err := f.court.DisputesUnderVote(f.ctx)
	require.NoError(t, err)
	require.Len(t, under, 1)

	f.clock.now = 6
	ev, err := f.court.PollDispute(f.ctx, acc(5), 1)
	require.NoError(t, err)
	assert.Equal(t, &types.DisputeDismissed{DisputeID: 1, Locker: acc(3), Amount: 50}, ev)

	free, reserved := f.balances(t, acc(3))
	assert.Equal(t, types.Balance(200), free)
	assert.Equal(t, types.Balance(0), reserved)

	d, err := f.court.Dispute(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.DisputeDismissedState, d.State)
}
