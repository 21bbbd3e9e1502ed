package shares

import (
	"github.com/kardiachain/governance-backend/types"
)

type AccountShare struct {
	Account types.AccountID `json:"account" bson:"account"`
	Shares  types.Shares    `json:"shares" bson:"shares"`
}

// SimpleShareGenesis is the initial ownership of a weighted organization.
type SimpleShareGenesis struct {
	total            types.Shares
	accountOwnership []AccountShare
}

// NewSimpleShareGenesis drops consecutive identical entries; callers group duplicates beforehand.
func NewSimpleShareGenesis(list []AccountShare) (SimpleShareGenesis, error) {
	ownership := make([]AccountShare, 0, len(list))
	for i, entry := range list {
		if i > 0 && list[i-1] == entry {
			continue
		}
		ownership = append(ownership, entry)
	}
	var (
		total types.Shares
		err   error
	)
	for _, entry := range ownership {
		if total, err = total.Add(entry.Shares); err != nil {
			return SimpleShareGenesis{}, err
		}
	}
	return SimpleShareGenesis{total: total, accountOwnership: ownership}, nil
}

func (g SimpleShareGenesis) Total() types.Shares { return g.total }

func (g SimpleShareGenesis) AccountOwnership() []AccountShare {
	out := make([]AccountShare, len(g.accountOwnership))
	copy(out, g.accountOwnership)
	return out
}

// VerifyShape reports whether the recorded total equals the sum of ownership entries.
func (g SimpleShareGenesis) VerifyShape() bool {
	var sum types.Shares
	for _, entry := range g.accountOwnership {
		next, err := sum.Add(entry.Shares)
		if err != nil {
			return false
		}
		sum = next
	}
	return sum == g.total
}
