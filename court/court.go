// Package court locks funds behind a dispute that an organization vote settles.
package court

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

const (
	CounterDispute = "dispute"

	DefaultMinimumDisputeAmount types.Balance = 10
)

type Store interface {
	UpsertDispute(ctx context.Context, dispute *types.Dispute) error
	Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error)
	Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error)
	DisputesByState(ctx context.Context, state types.DisputeState) ([]*types.Dispute, error)
	NextID(ctx context.Context, counter string) (uint64, error)
	Counter(ctx context.Context, counter string) (uint64, error)
}

type Votes interface {
	OpenVote(ctx context.Context, rep types.OrgRep, topic *types.Hash, passage vote.ThresholdConfig,
		rejection *vote.ThresholdConfig, duration *types.BlockNumber) (*types.VoteOpened, error)
	State(ctx context.Context, id types.VoteID) (vote.VoteState, error)
}

type Currency interface {
	Reserve(ctx context.Context, id types.AccountID, amount types.Balance) error
	Unreserve(ctx context.Context, id types.AccountID, amount types.Balance) (types.Balance, error)
	RepatriateReserved(ctx context.Context, from, to types.AccountID, amount types.Balance) error
}

type Config struct {
	MinimumDisputeAmount types.Balance
	Logger               *zap.Logger
}

type Module struct {
	store    Store
	votes    Votes
	currency Currency
	clock    types.Clock
	minimum  types.Balance
	logger   *zap.Logger
}

func New(store Store, votes Votes, cur Currency, clock types.Clock, cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{
		store:    store,
		votes:    votes,
		currency: cur,
		clock:    clock,
		minimum:  cfg.MinimumDisputeAmount,
		logger:   logger.With(zap.String("module", "court")),
	}
}

// RegisterDispute reserves amount from the locker until the resolution vote settles who keeps it.
func (m *Module) RegisterDispute(ctx context.Context, locker types.AccountID, amount types.Balance, raiser types.AccountID,
	resolution types.ResolutionPath) (*types.DisputeRegistered, error) {
	if amount < m.minimum {
		return nil, fmt.Errorf("dispute amount %s below %s: %w", amount, m.minimum, types.ErrDisputeBelowMinimum)
	}
	if _, _, err := thresholds(resolution); err != nil {
		return nil, err
	}
	if err := m.currency.Reserve(ctx, locker, amount); err != nil {
		return nil, err
	}
	id, err := m.store.NextID(ctx, CounterDispute)
	if err != nil {
		return nil, err
	}
	d := &types.Dispute{
		ID:         types.DisputeID(id),
		Locker:     locker,
		Amount:     amount,
		Raiser:     raiser,
		Resolution: resolution,
		State:      types.DisputeRegisteredState,
		Registered: m.clock.BlockNumber(),
	}
	if err := m.store.UpsertDispute(ctx, d); err != nil {
		return nil, err
	}
	m.logger.Info("Register dispute", zap.Uint64("dispute", id), zap.String("locker", locker.Hex()),
		zap.Stringer("amount", amount), zap.Stringer("org", resolution.Org))
	return &types.DisputeRegistered{
		DisputeID: d.ID,
		Locker:    locker,
		Amount:    amount,
		Raiser:    raiser,
		Org:       resolution.Org,
	}, nil
}

// RaiseDispute lets the raiser open the resolution vote of a registered dispute.
func (m *Module) RaiseDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (*types.DisputeRaisedAndVoteTriggered, error) {
	d, err := m.Dispute(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Raiser != caller {
		return nil, fmt.Errorf("dispute %d caller %s: %w", id, caller.Hex(), types.ErrNotAuthorizedToRaiseDispute)
	}
	if d.State != types.DisputeRegisteredState {
		return nil, fmt.Errorf("dispute %d is %s: %w", id, d.State, types.ErrDisputeNotRegistered)
	}
	passage, rejection, err := thresholds(d.Resolution)
	if err != nil {
		return nil, err
	}
	opened, err := m.votes.OpenVote(ctx, d.Resolution.Org, nil, passage, rejection, d.Resolution.Duration)
	if err != nil {
		return nil, err
	}
	voteID := opened.VoteID
	d.State = types.DisputeVoting
	d.VoteID = &voteID
	if err := m.store.UpsertDispute(ctx, d); err != nil {
		return nil, err
	}
	m.logger.Info("Raise dispute", zap.Uint64("dispute", uint64(id)), zap.Uint64("vote", uint64(voteID)))
	return &types.DisputeRaisedAndVoteTriggered{
		DisputeID: id,
		Locker:    d.Locker,
		Amount:    d.Amount,
		Raiser:    d.Raiser,
		Org:       d.Resolution.Org,
		VoteID:    voteID,
	}, nil
}

// PollDispute pays the raiser when the vote passed and releases the locker when it failed or expired.
// Anyone may poll.
func (m *Module) PollDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (types.Event, error) {
	d, err := m.Dispute(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.State != types.DisputeVoting || d.VoteID == nil {
		return nil, fmt.Errorf("dispute %d is %s: %w", id, d.State, types.ErrDisputeCannotBePolled)
	}
	state, err := m.votes.State(ctx, *d.VoteID)
	if err != nil {
		return nil, err
	}

	switch {
	case state.Outcome() == vote.Approved:
		if err := m.currency.RepatriateReserved(ctx, d.Locker, d.Raiser, d.Amount); err != nil {
			return nil, err
		}
		d.State = types.DisputeResolvedState
		if err := m.store.UpsertDispute(ctx, d); err != nil {
			return nil, err
		}
		m.logger.Info("Resolve dispute", zap.Uint64("dispute", uint64(id)), zap.String("caller", caller.Hex()))
		return &types.DisputeResolved{DisputeID: id, Raiser: d.Raiser, Amount: d.Amount}, nil
	case state.Outcome() == vote.Rejected, state.Expired(m.clock.BlockNumber()):
		if _, err := m.currency.Unreserve(ctx, d.Locker, d.Amount); err != nil {
			return nil, err
		}
		d.State = types.DisputeDismissedState
		if err := m.store.UpsertDispute(ctx, d); err != nil {
			return nil, err
		}
		m.logger.Info("Dismiss dispute", zap.Uint64("dispute", uint64(id)), zap.String("caller", caller.Hex()))
		return &types.DisputeDismissed{DisputeID: id, Locker: d.Locker, Amount: d.Amount}, nil
	}
	return nil, fmt.Errorf("dispute %d vote %d: %w", id, *d.VoteID, types.ErrVoteOutcomeInconclusive)
}

func (m *Module) Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error) {
	d, err := m.store.Dispute(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, fmt.Errorf("dispute %d: %w", id, types.ErrDisputeNotFound)
	}
	return d, err
}

func (m *Module) Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error) {
	return m.store.Disputes(ctx, pagination)
}

func (m *Module) DisputeCounter(ctx context.Context) (uint64, error) {
	return m.store.Counter(ctx, CounterDispute)
}

func (m *Module) DisputesUnderVote(ctx context.Context) ([]*types.Dispute, error) {
	return m.store.DisputesByState(ctx, types.DisputeVoting)
}

func thresholds(path types.ResolutionPath) (vote.ThresholdConfig, *vote.ThresholdConfig, error) {
	passage, err := vote.ThresholdFromRecord(path.Passage)
	if err != nil {
		return vote.ThresholdConfig{}, nil, fmt.Errorf("passage: %w", err)
	}
	if path.Rejection == nil {
		return passage, nil, nil
	}
	rejection, err := vote.ThresholdFromRecord(*path.Rejection)
	if err != nil {
		return vote.ThresholdConfig{}, nil, fmt.Errorf("rejection: %w", err)
	}
	return passage, &rejection, nil
}
