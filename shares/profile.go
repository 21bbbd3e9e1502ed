// Package shares describes per-account ownership inside an organization.
package shares

import (
	"math"

	"github.com/kardiachain/governance-backend/types"
)

// ShareProfile is one member's ownership. Consumers refuse locked profiles for new votes.
type ShareProfile struct {
	total         types.Shares
	timesReserved uint32
	locked        bool
}

// Default is a single share, used for flat membership.
func Default() ShareProfile {
	return ShareProfile{total: 1}
}

func NewShares(total types.Shares) ShareProfile {
	return ShareProfile{total: total}
}

func (p ShareProfile) Total() types.Shares   { return p.total }
func (p ShareProfile) TimesReserved() uint32 { return p.timesReserved }
func (p ShareProfile) IsZero() bool          { return p.total == 0 }
func (p ShareProfile) IsUnlocked() bool      { return !p.locked }

func (p ShareProfile) AddShares(amount types.Shares) (ShareProfile, error) {
	total, err := p.total.Add(amount)
	if err != nil {
		return p, err
	}
	p.total = total
	return p, nil
}

func (p ShareProfile) SubtractShares(amount types.Shares) (ShareProfile, error) {
	total, err := p.total.Sub(amount)
	if err != nil {
		return p, err
	}
	p.total = total
	return p, nil
}

func (p ShareProfile) IncrementTimesReserved() (ShareProfile, error) {
	if p.timesReserved == math.MaxUint32 {
		return p, types.ErrOverflow
	}
	p.timesReserved++
	return p, nil
}

func (p ShareProfile) DecrementTimesReserved() (ShareProfile, error) {
	if p.timesReserved == 0 {
		return p, types.ErrUnderflow
	}
	p.timesReserved--
	return p, nil
}

func (p ShareProfile) Lock() ShareProfile {
	p.locked = true
	return p
}

func (p ShareProfile) Unlock() ShareProfile {
	p.locked = false
	return p
}

// Record is the stored form of a profile.
type Record struct {
	Org           types.OrgID     `json:"org" bson:"org"`
	Account       types.AccountID `json:"account" bson:"account"`
	Total         types.Shares    `json:"total" bson:"total"`
	TimesReserved uint32          `json:"timesReserved" bson:"timesReserved"`
	Locked        bool            `json:"locked" bson:"locked"`
}

func (p ShareProfile) ToRecord(org types.OrgID, account types.AccountID) Record {
	return Record{
		Org:           org,
		Account:       account,
		Total:         p.total,
		TimesReserved: p.timesReserved,
		Locked:        p.locked,
	}
}

func FromRecord(r Record) ShareProfile {
	return ShareProfile{total: r.Total, timesReserved: r.TimesReserved, locked: r.Locked}
}
