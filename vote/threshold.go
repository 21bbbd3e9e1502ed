package vote

import (
	"github.com/kardiachain/governance-backend/types"
)

// ThresholdConfig is a support bar with an optional turnout bar.
type ThresholdConfig struct {
	supportRequired types.Signal
	turnoutRequired *types.Signal
}

// NewThresholdConfig fails when a turnout bar is given and support is not strictly below it.
func NewThresholdConfig(support types.Signal, turnout *types.Signal) (ThresholdConfig, error) {
	if turnout != nil && support >= *turnout {
		return ThresholdConfig{}, types.ErrInvalidThreshold
	}
	t := copySignal(turnout)
	return ThresholdConfig{supportRequired: support, turnoutRequired: t}, nil
}

func NewSupportThreshold(support types.Signal) ThresholdConfig {
	return ThresholdConfig{supportRequired: support}
}

func (c ThresholdConfig) SupportRequired() types.Signal { return c.supportRequired }

func (c ThresholdConfig) TurnoutRequired() *types.Signal { return copySignal(c.turnoutRequired) }

// met compares with the turnout bar acting as an upper bound, for both passage and rejection.
func (c ThresholdConfig) met(tally, turnout types.Signal) bool {
	if tally <= c.supportRequired {
		return false
	}
	return c.turnoutRequired == nil || *c.turnoutRequired > turnout
}

func copySignal(s *types.Signal) *types.Signal {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
