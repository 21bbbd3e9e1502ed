// Package vote holds the ballot and tally primitives shared by every governance module.
package vote

import (
	"fmt"

	"github.com/kardiachain/governance-backend/types"
)

// VoterView is the direction a member chose for a ballot.
type VoterView uint8

const (
	NoVote VoterView = iota
	InFavor
	Against
	Abstain
)

func (v VoterView) String() string {
	switch v {
	case NoVote:
		return "no_vote"
	case InFavor:
		return "in_favor"
	case Against:
		return "against"
	case Abstain:
		return "abstain"
	default:
		return fmt.Sprintf("view(%d)", uint8(v))
	}
}

// ParseVoterView accepts the names produced by String.
func ParseVoterView(s string) (VoterView, error) {
	switch s {
	case "no_vote":
		return NoVote, nil
	case "in_favor", "aye", "yes":
		return InFavor, nil
	case "against", "nay", "no":
		return Against, nil
	case "abstain":
		return Abstain, nil
	}
	return NoVote, fmt.Errorf("unknown voter view %q", s)
}

// Vote is a single ballot. It is never mutated; SetNewView returns a fresh value.
type Vote struct {
	magnitude     types.Signal
	direction     VoterView
	justification *types.Hash
}

func New(magnitude types.Signal, direction VoterView, justification *types.Hash) Vote {
	return Vote{
		magnitude:     magnitude,
		direction:     direction,
		justification: copyHash(justification),
	}
}

func (v Vote) Magnitude() types.Signal { return v.magnitude }

func (v Vote) Direction() VoterView { return v.direction }

func (v Vote) Justification() *types.Hash { return copyHash(v.justification) }

// SetNewView returns the ballot with a new direction. ok is false when the
// direction is unchanged, in which case nothing should be tallied.
func (v Vote) SetNewView(direction VoterView, justification *types.Hash) (Vote, bool) {
	if direction == v.direction {
		return v, false
	}
	return New(v.magnitude, direction, justification), true
}

func copyHash(h *types.Hash) *types.Hash {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}
