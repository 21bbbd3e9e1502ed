package voting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/org"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type clock struct{ now types.BlockNumber }

func (c *clock) BlockNumber() types.BlockNumber { return c.now }

type fixture struct {
	ctx      context.Context
	orgs     *org.Module
	registry *Registry
	clock    *clock
}

func acc(n uint64) types.AccountID { return types.AccountFromUint64(n) }

func setup(t *testing.T) *fixture {
	lgr, err := zap.NewDevelopment()
	require.NoError(t, err)
	client, err := db.NewClient(db.Config{DbAdapter: db.Memory, Logger: lgr})
	require.NoError(t, err)

	ctx := context.Background()
	orgs := org.New(client, lgr)
	c := &clock{now: 1}
	members := []types.AccountID{acc(1), acc(2), acc(3), acc(4), acc(5), acc(6)}
	_, err = orgs.RegisterGenesisOrg(ctx, acc(1), types.Hash{}, members)
	require.NoError(t, err)
	_, err = orgs.RegisterWeightedOrg(ctx, acc(1), nil, nil, types.Hash{}, []shares.AccountShare{
		{Account: acc(1), Shares: 30},
		{Account: acc(2), Shares: 70},
	})
	require.NoError(t, err)
	return &fixture{ctx: ctx, orgs: orgs, registry: New(client, orgs, c, lgr), clock: c}
}

func TestRegistry_OpenVote(t *testing.T) {
	f := setup(t)
	tests := []struct {
		name string
		rep  types.OrgRep
		want types.Signal
	}{
		{"equal", types.EqualRep(1), 6},
		{"weighted flat", types.WeightedRep(1), 6},
		{"weighted", types.WeightedRep(2), 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := f.registry.OpenVote(f.ctx, tc.rep, nil, vote.NewSupportThreshold(3), nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ev.AllPossibleTurnout)
			outcome, err := f.registry.Outcome(f.ctx, ev.VoteID)
			require.NoError(t, err)
			assert.Equal(t, vote.Voting, outcome)
		})
	}

	_, err := f.registry.OpenVote(f.ctx, types.EqualRep(9), nil, vote.NewSupportThreshold(1), nil, nil)
	assert.ErrorIs(t, err, types.ErrOrgNotFound)
}

func TestRegistry_SubmitVote(t *testing.T) {
	f := setup(t)
	ev, err := f.registry.OpenVote(f.ctx, types.EqualRep(1), nil, vote.NewSupportThreshold(3), nil, nil)
	require.NoError(t, err)
	id := ev.VoteID

	_, _, err = f.registry.SubmitVote(f.ctx, acc(69), id, vote.InFavor, nil)
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, _, err = f.registry.SubmitVote(f.ctx, acc(1), 99, vote.InFavor, nil)
	assert.ErrorIs(t, err, types.ErrVoteNotFound)

	for i := uint64(1); i <= 3; i++ {
		submitted, outcome, err := f.registry.SubmitVote(f.ctx, acc(i), id, vote.InFavor, nil)
		require.NoError(t, err)
		assert.True(t, submitted.Changed)
		assert.Nil(t, outcome)
	}

	// same direction again is a no-op
	submitted, _, err := f.registry.SubmitVote(f.ctx, acc(1), id, vote.InFavor, nil)
	require.NoError(t, err)
	assert.False(t, submitted.Changed)
	state, err := f.registry.State(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(3), state.InFavor())

	// changing a vote reverts the old ballot first
	_, _, err = f.registry.SubmitVote(f.ctx, acc(3), id, vote.Against, nil)
	require.NoError(t, err)
	state, err = f.registry.State(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(2), state.InFavor())
	assert.Equal(t, types.Signal(1), state.Against())
	assert.Equal(t, types.Signal(3), state.Turnout())

	_, outcome, err := f.registry.SubmitVote(f.ctx, acc(4), id, vote.InFavor, nil)
	require.NoError(t, err)
	assert.Nil(t, outcome)
	_, outcome, err = f.registry.SubmitVote(f.ctx, acc(5), id, vote.InFavor, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, vote.Approved.String(), outcome.Outcome)

	_, _, err = f.registry.SubmitVote(f.ctx, acc(6), id, vote.Against, nil)
	assert.ErrorIs(t, err, types.ErrVoteDecided)

	receipts, err := f.registry.Receipts(f.ctx, id)
	require.NoError(t, err)
	assert.Len(t, receipts, 5)
}

func TestRegistry_WeightedMagnitude(t *testing.T) {
	f := setup(t)
	ev, err := f.registry.OpenVote(f.ctx, types.WeightedRep(2), nil, vote.NewSupportThreshold(50), nil, nil)
	require.NoError(t, err)

	submitted, outcome, err := f.registry.SubmitVote(f.ctx, acc(1), ev.VoteID, vote.InFavor, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Signal(30), submitted.Magnitude)
	assert.Nil(t, outcome)

	_, outcome, err = f.registry.SubmitVote(f.ctx, acc(2), ev.VoteID, vote.InFavor, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)
}

func TestRegistry_LockedAndExpired(t *testing.T) {
	f := setup(t)
	duration := types.BlockNumber(5)
	ev, err := f.registry.OpenVote(f.ctx, types.EqualRep(1), nil, vote.NewSupportThreshold(3), nil, &duration)
	require.NoError(t, err)
	require.NotNil(t, ev.Expires)
	assert.Equal(t, types.BlockNumber(6), *ev.Expires)

	_, err = f.orgs.LockShares(f.ctx, acc(1), 1, acc(2))
	require.NoError(t, err)
	_, _, err = f.registry.SubmitVote(f.ctx, acc(2), ev.VoteID, vote.InFavor, nil)
	assert.ErrorIs(t, err, types.ErrSharesLocked)

	f.clock.now = 6
	_, _, err = f.registry.SubmitVote(f.ctx, acc(3), ev.VoteID, vote.InFavor, nil)
	assert.ErrorIs(t, err, types.ErrVoteExpired)
	expired, err := f.registry.Expired(f.ctx, ev.VoteID)
	require.NoError(t, err)
	assert.True(t, expired)
}
