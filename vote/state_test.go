package vote

import (
	"math"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/kardiachain/go-kardia/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardiachain/governance-backend/types"
)

func signal(v uint64) *types.Signal {
	s := types.Signal(v)
	return &s
}

func randomHash(t *testing.T) types.Hash {
	var payload struct {
		Body string `faker:"sentence"`
	}
	require.NoError(t, faker.FakeData(&payload))
	return common.BytesToHash([]byte(payload.Body))
}

func TestNewThresholdConfig(t *testing.T) {
	tests := []struct {
		name    string
		support types.Signal
		turnout *types.Signal
		wantErr bool
	}{
		{"support only", 10, nil, false},
		{"below turnout", 3, signal(4), false},
		{"equal turnout", 4, signal(4), true},
		{"above turnout", 5, signal(4), true},
		{"zero turnout", 0, signal(0), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewThresholdConfig(tc.support, tc.turnout)
			if tc.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidThreshold)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.support, cfg.SupportRequired())
			assert.Equal(t, tc.turnout, cfg.TurnoutRequired())
		})
	}
	assert.Nil(t, NewSupportThreshold(7).TurnoutRequired())
}

func TestVote_SetNewView(t *testing.T) {
	just := randomHash(t)
	v := New(5, InFavor, &just)

	same, ok := v.SetNewView(InFavor, nil)
	assert.False(t, ok)
	assert.Equal(t, v, same)

	changed, ok := v.SetNewView(Against, nil)
	require.True(t, ok)
	assert.Equal(t, Against, changed.Direction())
	assert.Equal(t, types.Signal(5), changed.Magnitude())
	assert.Nil(t, changed.Justification())
	assert.Equal(t, InFavor, v.Direction())
}

func TestVoteState_StrictSupport(t *testing.T) {
	state := NewVoteState(nil, 10, NewSupportThreshold(3), nil, 1, nil)

	next, err := state.Apply(New(3, InFavor, nil))
	require.NoError(t, err)
	assert.Equal(t, Voting, next.Outcome())

	next, err = next.Apply(New(1, InFavor, nil))
	require.NoError(t, err)
	assert.Equal(t, Approved, next.Outcome())
	assert.Equal(t, Voting, state.Outcome())
}

func TestVoteState_Tallies(t *testing.T) {
	state := NewVoteState(nil, 100, NewSupportThreshold(90), nil, 1, nil)
	ballots := []Vote{
		New(10, InFavor, nil),
		New(7, Against, nil),
		New(4, Abstain, nil),
		New(50, NoVote, nil),
	}
	var err error
	for _, b := range ballots {
		state, err = state.Apply(b)
		require.NoError(t, err)
	}
	assert.Equal(t, types.Signal(10), state.InFavor())
	assert.Equal(t, types.Signal(7), state.Against())
	assert.Equal(t, types.Signal(21), state.Turnout())
	assert.Equal(t, types.Signal(4), state.Abstentions())
}

func TestVoteState_RoundTrip(t *testing.T) {
	rej, err := NewThresholdConfig(40, signal(90))
	require.NoError(t, err)
	initial := NewVoteState(nil, 100, NewSupportThreshold(50), &rej, 3, nil)
	ballots := []Vote{
		New(10, InFavor, nil),
		New(5, Against, nil),
		New(3, Abstain, nil),
		New(20, InFavor, nil),
		New(2, NoVote, nil),
		New(11, Against, nil),
	}

	state := initial
	for _, b := range ballots {
		state, err = state.Apply(b)
		require.NoError(t, err)
		require.Equal(t, Voting, state.Outcome())
	}
	for i := len(ballots) - 1; i >= 0; i-- {
		state, err = state.Revert(ballots[i])
		require.NoError(t, err)
	}
	assert.Equal(t, initial, state)
}

func TestVoteState_ApplyRevertIdentity(t *testing.T) {
	state := NewVoteState(nil, 100, NewSupportThreshold(50), nil, 3, nil)
	for _, dir := range []VoterView{NoVote, InFavor, Against, Abstain} {
		b := New(9, dir, nil)
		applied, err := state.Apply(b)
		require.NoError(t, err)
		reverted, err := applied.Revert(b)
		require.NoError(t, err)
		assert.Equal(t, state, reverted, dir.String())
	}
}

func TestVoteState_TurnoutIsUpperBound(t *testing.T) {
	passage, err := NewThresholdConfig(2, signal(5))
	require.NoError(t, err)

	state := NewVoteState(nil, 10, passage, nil, 1, nil)
	state, err = state.Apply(New(3, Abstain, nil))
	require.NoError(t, err)
	// in favor 3 > 2 but turnout 6 is not below 5.
	high, err := state.Apply(New(3, InFavor, nil))
	require.NoError(t, err)
	assert.Equal(t, Voting, high.Outcome())

	low := NewVoteState(nil, 10, passage, nil, 1, nil)
	low, err = low.Apply(New(3, InFavor, nil))
	require.NoError(t, err)
	assert.Equal(t, Approved, low.Outcome())
}

func TestVoteState_Rejection(t *testing.T) {
	rej := NewSupportThreshold(2)
	state := NewVoteState(nil, 10, NewSupportThreshold(5), &rej, 1, nil)

	rejected, configured := state.Rejected()
	assert.False(t, rejected)
	assert.True(t, configured)

	state, err := state.Apply(New(3, Against, nil))
	require.NoError(t, err)
	assert.Equal(t, Rejected, state.Outcome())

	noRej := NewVoteState(nil, 10, NewSupportThreshold(5), nil, 1, nil)
	rejected, configured = noRej.Rejected()
	assert.False(t, rejected)
	assert.False(t, configured)
}

func TestVoteState_ApprovalWinsOverRejection(t *testing.T) {
	rej := NewSupportThreshold(1)
	state := NewVoteState(nil, 10, NewSupportThreshold(1), &rej, 1, nil)
	state, err := state.Apply(New(2, Against, nil))
	require.NoError(t, err)
	assert.Equal(t, Rejected, state.Outcome())

	// the same tallies evaluated at once approve
	both := NewVoteState(nil, 10, NewSupportThreshold(1), &rej, 1, nil)
	both.against, both.turnout = 2, 2
	both, err = both.Apply(New(2, InFavor, nil))
	require.NoError(t, err)
	assert.Equal(t, Approved, both.Outcome())
}

func TestVoteState_TerminalGuard(t *testing.T) {
	state := NewVoteState(nil, 10, NewSupportThreshold(1), nil, 1, nil)
	approved, err := state.Apply(New(2, InFavor, nil))
	require.NoError(t, err)
	require.Equal(t, Approved, approved.Outcome())

	after, err := approved.Apply(New(2, Against, nil))
	assert.ErrorIs(t, err, types.ErrVoteDecided)
	assert.Equal(t, approved, after)

	_, err = approved.Revert(New(2, InFavor, nil))
	assert.ErrorIs(t, err, types.ErrVoteDecided)

	_, err = VoteState{}.Apply(New(1, InFavor, nil))
	assert.ErrorIs(t, err, types.ErrVoteNotStarted)
}

func TestVoteState_Arithmetic(t *testing.T) {
	state := NewVoteState(nil, math.MaxUint64, NewSupportThreshold(math.MaxUint64), nil, 1, nil)
	state, err := state.Apply(New(math.MaxUint64, Abstain, nil))
	require.NoError(t, err)

	after, err := state.Apply(New(1, InFavor, nil))
	assert.ErrorIs(t, err, types.ErrOverflow)
	assert.Equal(t, state, after)

	_, err = state.Revert(New(1, Against, nil))
	assert.ErrorIs(t, err, types.ErrUnderflow)
}

func TestVoteState_Topic(t *testing.T) {
	first, second := randomHash(t), randomHash(t)
	state := NewVoteState(&first, 10, NewSupportThreshold(8), nil, 1, nil)
	state, err := state.Apply(New(4, InFavor, nil))
	require.NoError(t, err)

	kept := state.UpdateTopicWithoutClearingState(second)
	assert.Equal(t, second, *kept.Topic())
	assert.Equal(t, types.Signal(4), kept.InFavor())

	cleared := state.UpdateTopicAndClearState(second)
	assert.Equal(t, types.Signal(0), cleared.InFavor())
	assert.Equal(t, types.Signal(0), cleared.Turnout())
	assert.Equal(t, first, *state.Topic())
}

func TestVoteState_Expired(t *testing.T) {
	expires := types.BlockNumber(10)
	state := NewUnanimousConsent(nil, 3, 1, &expires)
	assert.False(t, state.Expired(9))
	assert.True(t, state.Expired(10))
	assert.False(t, NewUnanimousConsent(nil, 3, 1, nil).Expired(1000))
	assert.Equal(t, types.Signal(3), state.PassageThreshold().SupportRequired())
}

func TestRecord(t *testing.T) {
	rej, err := NewThresholdConfig(1, signal(9))
	require.NoError(t, err)
	expires := types.BlockNumber(40)
	topic := randomHash(t)
	state := NewVoteState(&topic, 10, NewSupportThreshold(5), &rej, 3, &expires)
	state, err = state.Apply(New(4, Abstain, nil))
	require.NoError(t, err)

	rec := state.ToRecord(7, types.EqualRep(2))
	assert.Equal(t, types.VoteID(7), rec.VoteID)
	assert.Equal(t, types.Signal(4), rec.Turnout)
	assert.Equal(t, state, FromRecord(rec))
}
