package types

import (
	"fmt"
)

// Threshold is the stored form of a support/turnout requirement pair.
type Threshold struct {
	SupportRequired Signal  `json:"supportRequired" bson:"supportRequired"`
	TurnoutRequired *Signal `json:"turnoutRequired,omitempty" bson:"turnoutRequired,omitempty"`
}

type OrgKind string

const (
	OrgFlat     OrgKind = "flat"
	OrgWeighted OrgKind = "weighted"
)

type Organization struct {
	ID            OrgID      `json:"id" bson:"id"`
	Kind          OrgKind    `json:"kind" bson:"kind"`
	Sudo          *AccountID `json:"sudo,omitempty" bson:"sudo,omitempty"`
	Parent        *OrgID     `json:"parent,omitempty" bson:"parent,omitempty"`
	Constitution  Hash       `json:"constitution" bson:"constitution"`
	TotalIssuance Shares     `json:"totalIssuance" bson:"totalIssuance"`
	MemberCount   uint64     `json:"memberCount" bson:"memberCount"`
}

// Account holds the balances of one account.
type Account struct {
	ID       AccountID `json:"id" bson:"id"`
	Free     Balance   `json:"free" bson:"free"`
	Reserved Balance   `json:"reserved" bson:"reserved"`
}

func (a Account) Total() (Balance, error) {
	return a.Free.Add(a.Reserved)
}

type Bank struct {
	ID       BankID      `json:"id" bson:"id"`
	Org      OrgID       `json:"org" bson:"org"`
	Seeder   AccountID   `json:"seeder" bson:"seeder"`
	Operator *AccountID  `json:"operator,omitempty" bson:"operator,omitempty"`
	Pot      AccountID   `json:"pot" bson:"pot"`
	Seed     Balance     `json:"seed" bson:"seed"`
	Opened   BlockNumber `json:"opened" bson:"opened"`
}

type SpendState uint8

const (
	SpendWaitingForApproval SpendState = iota
	SpendVoting
	SpendExecutedState
	SpendRejectedState
)

func (s SpendState) String() string {
	switch s {
	case SpendWaitingForApproval:
		return "waiting_for_approval"
	case SpendVoting:
		return "voting"
	case SpendExecutedState:
		return "executed"
	case SpendRejectedState:
		return "rejected"
	default:
		return fmt.Sprintf("spend_state(%d)", uint8(s))
	}
}

func (s SpendState) IsResolved() bool {
	return s == SpendExecutedState || s == SpendRejectedState
}

type Spend struct {
	Bank     BankID      `json:"bank" bson:"bank"`
	ID       SpendID     `json:"id" bson:"id"`
	Proposer AccountID   `json:"proposer" bson:"proposer"`
	Amount   Balance     `json:"amount" bson:"amount"`
	Dest     AccountID   `json:"dest" bson:"dest"`
	State    SpendState  `json:"state" bson:"state"`
	VoteID   *VoteID     `json:"voteId,omitempty" bson:"voteId,omitempty"`
	Proposed BlockNumber `json:"proposed" bson:"proposed"`
}

func (s Spend) Key() BankSpend {
	return BankSpend{Bank: s.Bank, Spend: s.ID}
}

type DisputeState uint8

const (
	DisputeRegisteredState DisputeState = iota
	DisputeVoting
	DisputeResolvedState
	DisputeDismissedState
)

func (s DisputeState) String() string {
	switch s {
	case DisputeRegisteredState:
		return "registered"
	case DisputeVoting:
		return "voting"
	case DisputeResolvedState:
		return "resolved"
	case DisputeDismissedState:
		return "dismissed"
	default:
		return fmt.Sprintf("dispute_state(%d)", uint8(s))
	}
}

// ResolutionPath is the vote opened when a dispute is raised.
type ResolutionPath struct {
	Org       OrgRep       `json:"org" bson:"org"`
	Passage   Threshold    `json:"passage" bson:"passage"`
	Rejection *Threshold   `json:"rejection,omitempty" bson:"rejection,omitempty"`
	Duration  *BlockNumber `json:"duration,omitempty" bson:"duration,omitempty"`
}

type Dispute struct {
	ID         DisputeID      `json:"id" bson:"id"`
	Locker     AccountID      `json:"locker" bson:"locker"`
	Amount     Balance        `json:"amount" bson:"amount"`
	Raiser     AccountID      `json:"raiser" bson:"raiser"`
	Resolution ResolutionPath `json:"resolution" bson:"resolution"`
	State      DisputeState   `json:"state" bson:"state"`
	VoteID     *VoteID        `json:"voteId,omitempty" bson:"voteId,omitempty"`
	Registered BlockNumber    `json:"registered" bson:"registered"`
}
