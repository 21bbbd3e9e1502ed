// Package voting stores vote states and the ballots cast on them.
package voting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

const CounterVote = "vote"

type Store interface {
	UpsertVote(ctx context.Context, record *vote.Record) error
	Vote(ctx context.Context, id types.VoteID) (*vote.Record, error)
	Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error)
	UpsertReceipt(ctx context.Context, receipt *vote.Receipt) error
	Receipt(ctx context.Context, id types.VoteID, voter types.AccountID) (*vote.Receipt, error)
	Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error)
	NextID(ctx context.Context, counter string) (uint64, error)
}

// Membership is the view of organizations the registry needs to weigh ballots.
type Membership interface {
	Organization(ctx context.Context, id types.OrgID) (*types.Organization, error)
	Profile(ctx context.Context, id types.OrgID, account types.AccountID) (shares.ShareProfile, error)
}

type Registry struct {
	store   Store
	members Membership
	clock   types.Clock
	logger  *zap.Logger
}

func New(store Store, members Membership, clock types.Clock, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:   store,
		members: members,
		clock:   clock,
		logger:  logger.With(zap.String("module", "vote")),
	}
}

// AllPossibleTurnout is the total issuance of a weighted org or the member count of an equal one.
func (r *Registry) AllPossibleTurnout(ctx context.Context, rep types.OrgRep) (types.Signal, error) {
	o, err := r.members.Organization(ctx, rep.Org)
	if err != nil {
		return 0, err
	}
	if rep.Kind == types.Equal {
		return types.Signal(o.MemberCount), nil
	}
	return o.TotalIssuance.Signal(), nil
}

func (r *Registry) OpenVote(ctx context.Context, rep types.OrgRep, topic *types.Hash, passage vote.ThresholdConfig,
	rejection *vote.ThresholdConfig, duration *types.BlockNumber) (*types.VoteOpened, error) {
	allPossible, err := r.AllPossibleTurnout(ctx, rep)
	if err != nil {
		return nil, err
	}
	now, expires, err := r.window(duration)
	if err != nil {
		return nil, err
	}
	return r.open(ctx, rep, vote.NewVoteState(topic, allPossible, passage, rejection, now, expires))
}

// OpenUnanimousConsent opens a vote that passes only with every possible signal in favor.
func (r *Registry) OpenUnanimousConsent(ctx context.Context, rep types.OrgRep, topic *types.Hash,
	duration *types.BlockNumber) (*types.VoteOpened, error) {
	allPossible, err := r.AllPossibleTurnout(ctx, rep)
	if err != nil {
		return nil, err
	}
	now, expires, err := r.window(duration)
	if err != nil {
		return nil, err
	}
	return r.open(ctx, rep, vote.NewUnanimousConsent(topic, allPossible, now, expires))
}

func (r *Registry) window(duration *types.BlockNumber) (types.BlockNumber, *types.BlockNumber, error) {
	now := r.clock.BlockNumber()
	if duration == nil {
		return now, nil, nil
	}
	expires, err := now.Add(*duration)
	if err != nil {
		return 0, nil, err
	}
	return now, &expires, nil
}

func (r *Registry) open(ctx context.Context, rep types.OrgRep, state vote.VoteState) (*types.VoteOpened, error) {
	id, err := r.store.NextID(ctx, CounterVote)
	if err != nil {
		return nil, err
	}
	rec := state.ToRecord(types.VoteID(id), rep)
	if err := r.store.UpsertVote(ctx, &rec); err != nil {
		return nil, err
	}
	r.logger.Info("Open vote", zap.Uint64("vote", id), zap.Stringer("org", rep),
		zap.Stringer("allPossibleTurnout", state.AllPossibleTurnout()))
	return &types.VoteOpened{
		VoteID:             rec.VoteID,
		Org:                rep,
		Topic:              state.Topic(),
		AllPossibleTurnout: state.AllPossibleTurnout(),
		Initialized:        state.Initialized(),
		Expires:            state.Expires(),
	}, nil
}

// SubmitVote records voter's ballot, replacing any earlier ballot from the same voter.
// outcome is non-nil when this ballot decided the vote.
func (r *Registry) SubmitVote(ctx context.Context, voter types.AccountID, id types.VoteID, direction vote.VoterView,
	justification *types.Hash) (submitted *types.VoteSubmitted, outcome *types.VoteOutcomeReached, err error) {
	rec, err := r.Record(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	state := vote.FromRecord(*rec)
	if state.Outcome().IsTerminal() {
		return nil, nil, fmt.Errorf("vote %d: %w", id, types.ErrVoteDecided)
	}
	if state.Expired(r.clock.BlockNumber()) {
		return nil, nil, fmt.Errorf("vote %d: %w", id, types.ErrVoteExpired)
	}

	profile, err := r.members.Profile(ctx, rec.Org.Org, voter)
	if errors.Is(err, types.ErrProfileNotFound) {
		return nil, nil, fmt.Errorf("vote %d voter %s: %w", id, voter.Hex(), types.ErrNotAuthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if !profile.IsUnlocked() {
		return nil, nil, fmt.Errorf("vote %d voter %s: %w", id, voter.Hex(), types.ErrSharesLocked)
	}
	magnitude := types.Signal(1)
	if rec.Org.Kind == types.Weighted {
		magnitude = profile.Total().Signal()
	}

	ballot := vote.New(magnitude, direction, justification)
	prev, err := r.store.Receipt(ctx, id, voter)
	switch {
	case errors.Is(err, types.ErrRecordNotFound):
	case err != nil:
		return nil, nil, err
	default:
		old := prev.Vote()
		changed, ok := old.SetNewView(direction, justification)
		if !ok {
			return &types.VoteSubmitted{VoteID: id, Voter: voter, Direction: direction.String(),
				Magnitude: old.Magnitude()}, nil, nil
		}
		if state, err = state.Revert(old); err != nil {
			return nil, nil, err
		}
		ballot = vote.New(magnitude, changed.Direction(), changed.Justification())
	}
	if state, err = state.Apply(ballot); err != nil {
		return nil, nil, err
	}

	next := state.ToRecord(id, rec.Org)
	if err := r.store.UpsertVote(ctx, &next); err != nil {
		return nil, nil, err
	}
	receipt := vote.NewReceipt(id, voter, ballot)
	if err := r.store.UpsertReceipt(ctx, &receipt); err != nil {
		return nil, nil, err
	}
	r.logger.Info("Submit vote", zap.Uint64("vote", uint64(id)), zap.String("voter", voter.Hex()),
		zap.Stringer("direction", direction), zap.Stringer("magnitude", magnitude))

	submitted = &types.VoteSubmitted{
		VoteID:    id,
		Voter:     voter,
		Direction: direction.String(),
		Magnitude: magnitude,
		Changed:   true,
	}
	if state.Outcome().IsTerminal() {
		outcome = &types.VoteOutcomeReached{VoteID: id, Outcome: state.Outcome().String()}
	}
	return submitted, outcome, nil
}

func (r *Registry) Record(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	rec, err := r.store.Vote(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, fmt.Errorf("vote %d: %w", id, types.ErrVoteNotFound)
	}
	return rec, err
}

func (r *Registry) State(ctx context.Context, id types.VoteID) (vote.VoteState, error) {
	rec, err := r.Record(ctx, id)
	if err != nil {
		return vote.VoteState{}, err
	}
	return vote.FromRecord(*rec), nil
}

func (r *Registry) Outcome(ctx context.Context, id types.VoteID) (vote.VoteOutcome, error) {
	state, err := r.State(ctx, id)
	if err != nil {
		return vote.NotStarted, err
	}
	return state.Outcome(), nil
}

// Expired reports whether the vote's expiry block has passed.
func (r *Registry) Expired(ctx context.Context, id types.VoteID) (bool, error) {
	state, err := r.State(ctx, id)
	if err != nil {
		return false, err
	}
	return state.Expired(r.clock.BlockNumber()), nil
}

func (r *Registry) Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error) {
	return r.store.Votes(ctx, pagination)
}

func (r *Registry) Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error) {
	if _, err := r.Record(ctx, id); err != nil {
		return nil, err
	}
	return r.store.Receipts(ctx, id)
}
