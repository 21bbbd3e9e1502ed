package vote

import (
	"github.com/kardiachain/governance-backend/types"
)

// Record is the stored form of a VoteState, keyed by vote id.
type Record struct {
	VoteID             types.VoteID       `json:"voteId" bson:"voteId"`
	Org                types.OrgRep       `json:"org" bson:"org"`
	Topic              *types.Hash        `json:"topic,omitempty" bson:"topic,omitempty"`
	InFavor            types.Signal       `json:"inFavor" bson:"inFavor"`
	Against            types.Signal       `json:"against" bson:"against"`
	Turnout            types.Signal       `json:"turnout" bson:"turnout"`
	AllPossibleTurnout types.Signal       `json:"allPossibleTurnout" bson:"allPossibleTurnout"`
	Passage            types.Threshold    `json:"passage" bson:"passage"`
	Rejection          *types.Threshold   `json:"rejection,omitempty" bson:"rejection,omitempty"`
	Initialized        types.BlockNumber  `json:"initialized" bson:"initialized"`
	Expires            *types.BlockNumber `json:"expires,omitempty" bson:"expires,omitempty"`
	Outcome            VoteOutcome        `json:"outcome" bson:"outcome"`
}

// Receipt is the last ballot cast by a voter on a vote.
type Receipt struct {
	VoteID        types.VoteID    `json:"voteId" bson:"voteId"`
	Voter         types.AccountID `json:"voter" bson:"voter"`
	Magnitude     types.Signal    `json:"magnitude" bson:"magnitude"`
	Direction     VoterView       `json:"direction" bson:"direction"`
	Justification *types.Hash     `json:"justification,omitempty" bson:"justification,omitempty"`
}

func (r Receipt) Vote() Vote {
	return New(r.Magnitude, r.Direction, r.Justification)
}

func NewReceipt(id types.VoteID, voter types.AccountID, v Vote) Receipt {
	return Receipt{
		VoteID:        id,
		Voter:         voter,
		Magnitude:     v.Magnitude(),
		Direction:     v.Direction(),
		Justification: v.Justification(),
	}
}

// Record returns the stored form of c.
func (c ThresholdConfig) Record() types.Threshold {
	return types.Threshold{SupportRequired: c.supportRequired, TurnoutRequired: copySignal(c.turnoutRequired)}
}

// ThresholdFromRecord validates a stored or requested threshold.
func ThresholdFromRecord(r types.Threshold) (ThresholdConfig, error) {
	return NewThresholdConfig(r.SupportRequired, r.TurnoutRequired)
}

// restoreThreshold skips validation for values that were valid when stored.
func restoreThreshold(r types.Threshold) ThresholdConfig {
	return ThresholdConfig{supportRequired: r.SupportRequired, turnoutRequired: copySignal(r.TurnoutRequired)}
}

func (s VoteState) ToRecord(id types.VoteID, org types.OrgRep) Record {
	r := Record{
		VoteID:             id,
		Org:                org,
		Topic:              copyHash(s.topic),
		InFavor:            s.inFavor,
		Against:            s.against,
		Turnout:            s.turnout,
		AllPossibleTurnout: s.allPossibleTurnout,
		Passage:            s.passage.Record(),
		Initialized:        s.initialized,
		Expires:            copyBlock(s.expires),
		Outcome:            s.outcome,
	}
	if s.rejection != nil {
		rej := s.rejection.Record()
		r.Rejection = &rej
	}
	return r
}

func FromRecord(r Record) VoteState {
	s := VoteState{
		topic:              copyHash(r.Topic),
		inFavor:            r.InFavor,
		against:            r.Against,
		turnout:            r.Turnout,
		allPossibleTurnout: r.AllPossibleTurnout,
		passage:            restoreThreshold(r.Passage),
		initialized:        r.Initialized,
		expires:            copyBlock(r.Expires),
		outcome:            r.Outcome,
	}
	if r.Rejection != nil {
		rej := restoreThreshold(*r.Rejection)
		s.rejection = &rej
	}
	return s
}
