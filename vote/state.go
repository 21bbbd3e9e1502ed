package vote

import (
	"fmt"

	"github.com/kardiachain/governance-backend/types"
)

type VoteOutcome uint8

const (
	NotStarted VoteOutcome = iota
	Voting
	Approved
	Rejected
)

func (o VoteOutcome) String() string {
	switch o {
	case NotStarted:
		return "not_started"
	case Voting:
		return "voting"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

func (o VoteOutcome) IsTerminal() bool {
	return o == Approved || o == Rejected
}

// VoteState tallies ballots against a passage threshold and an optional rejection threshold.
// Transitions return a new value and leave the receiver untouched.
type VoteState struct {
	topic              *types.Hash
	inFavor            types.Signal
	against            types.Signal
	turnout            types.Signal
	allPossibleTurnout types.Signal
	passage            ThresholdConfig
	rejection          *ThresholdConfig
	initialized        types.BlockNumber
	expires            *types.BlockNumber
	outcome            VoteOutcome
}

func NewVoteState(topic *types.Hash, allPossibleTurnout types.Signal, passage ThresholdConfig,
	rejection *ThresholdConfig, initialized types.BlockNumber, expires *types.BlockNumber) VoteState {
	return VoteState{
		topic:              copyHash(topic),
		allPossibleTurnout: allPossibleTurnout,
		passage:            passage,
		rejection:          copyThreshold(rejection),
		initialized:        initialized,
		expires:            copyBlock(expires),
		outcome:            Voting,
	}
}

// NewUnanimousConsent sets the support bar to the full possible turnout and has no rejection path.
// With the strict support comparison it only resolves through expiry or a topic reset.
func NewUnanimousConsent(topic *types.Hash, allPossibleTurnout types.Signal,
	initialized types.BlockNumber, expires *types.BlockNumber) VoteState {
	return NewVoteState(topic, allPossibleTurnout, NewSupportThreshold(allPossibleTurnout), nil, initialized, expires)
}

func (s VoteState) Topic() *types.Hash                   { return copyHash(s.topic) }
func (s VoteState) InFavor() types.Signal                { return s.inFavor }
func (s VoteState) Against() types.Signal                { return s.against }
func (s VoteState) Turnout() types.Signal                { return s.turnout }
func (s VoteState) AllPossibleTurnout() types.Signal     { return s.allPossibleTurnout }
func (s VoteState) PassageThreshold() ThresholdConfig    { return s.passage }
func (s VoteState) RejectionThreshold() *ThresholdConfig { return copyThreshold(s.rejection) }
func (s VoteState) Initialized() types.BlockNumber       { return s.initialized }
func (s VoteState) Expires() *types.BlockNumber          { return copyBlock(s.expires) }
func (s VoteState) Outcome() VoteOutcome                 { return s.outcome }

// Abstentions is derived from the tallies; it is never stored.
func (s VoteState) Abstentions() types.Signal {
	return s.turnout - s.inFavor - s.against
}

// Expired reports whether now is at or past the expiry block.
func (s VoteState) Expired(now types.BlockNumber) bool {
	return s.expires != nil && now >= *s.expires
}

func (s VoteState) Approved() bool {
	return s.passage.met(s.inFavor, s.turnout)
}

// Rejected returns (rejected, configured). A state without a rejection threshold is never rejected.
func (s VoteState) Rejected() (bool, bool) {
	if s.rejection == nil {
		return false, false
	}
	return s.rejection.met(s.against, s.turnout), true
}

func (s VoteState) Apply(v Vote) (VoteState, error) {
	if err := s.guard(); err != nil {
		return s, err
	}
	next := s
	var err error
	switch v.direction {
	case InFavor:
		if next.inFavor, err = s.inFavor.Add(v.magnitude); err != nil {
			return s, err
		}
		if next.turnout, err = s.turnout.Add(v.magnitude); err != nil {
			return s, err
		}
	case Against:
		if next.against, err = s.against.Add(v.magnitude); err != nil {
			return s, err
		}
		if next.turnout, err = s.turnout.Add(v.magnitude); err != nil {
			return s, err
		}
	case Abstain:
		if next.turnout, err = s.turnout.Add(v.magnitude); err != nil {
			return s, err
		}
	default:
		return s, nil
	}
	return next.evaluate(), nil
}

// Revert removes a previously applied ballot.
func (s VoteState) Revert(v Vote) (VoteState, error) {
	if err := s.guard(); err != nil {
		return s, err
	}
	next := s
	var err error
	switch v.direction {
	case InFavor:
		if next.inFavor, err = s.inFavor.Sub(v.magnitude); err != nil {
			return s, err
		}
		if next.turnout, err = s.turnout.Sub(v.magnitude); err != nil {
			return s, err
		}
	case Against:
		if next.against, err = s.against.Sub(v.magnitude); err != nil {
			return s, err
		}
		if next.turnout, err = s.turnout.Sub(v.magnitude); err != nil {
			return s, err
		}
	case Abstain:
		if next.turnout, err = s.turnout.Sub(v.magnitude); err != nil {
			return s, err
		}
	default:
		return s, nil
	}
	return next.evaluate(), nil
}

func (s VoteState) UpdateTopicAndClearState(topic types.Hash) VoteState {
	next := s
	next.topic = &topic
	next.inFavor, next.against, next.turnout = 0, 0, 0
	return next
}

func (s VoteState) UpdateTopicWithoutClearingState(topic types.Hash) VoteState {
	next := s
	next.topic = &topic
	return next
}

func (s VoteState) guard() error {
	switch s.outcome {
	case NotStarted:
		return types.ErrVoteNotStarted
	case Approved, Rejected:
		return types.ErrVoteDecided
	}
	return nil
}

// evaluate checks approval before rejection.
func (s VoteState) evaluate() VoteState {
	if s.Approved() {
		s.outcome = Approved
		return s
	}
	if rejected, _ := s.Rejected(); rejected {
		s.outcome = Rejected
	}
	return s
}

func copyThreshold(c *ThresholdConfig) *ThresholdConfig {
	if c == nil {
		return nil
	}
	n := ThresholdConfig{supportRequired: c.supportRequired, turnoutRequired: copySignal(c.turnoutRequired)}
	return &n
}

func copyBlock(b *types.BlockNumber) *types.BlockNumber {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
