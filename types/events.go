// Package types
package types

// Event is a notification emitted by a dispatched call after its state change committed.
type Event interface {
	EventName() string
}

// EventRecord is the envelope pushed to the event feed.
type EventRecord struct {
	Name  string      `json:"name" bson:"name"`
	Block BlockNumber `json:"block" bson:"block"`
	Data  interface{} `json:"data" bson:"data"`
}

type VoteOpened struct {
	VoteID             VoteID       `json:"voteId"`
	Org                OrgRep       `json:"org"`
	Topic              *Hash        `json:"topic,omitempty"`
	AllPossibleTurnout Signal       `json:"allPossibleTurnout"`
	Initialized        BlockNumber  `json:"initialized"`
	Expires            *BlockNumber `json:"expires,omitempty"`
}

type VoteSubmitted struct {
	VoteID    VoteID    `json:"voteId"`
	Voter     AccountID `json:"voter"`
	Direction string    `json:"direction"`
	Magnitude Signal    `json:"magnitude"`
	Changed   bool      `json:"changed"`
}

type VoteOutcomeReached struct {
	VoteID  VoteID `json:"voteId"`
	Outcome string `json:"outcome"`
}

type FlatOrgRegistered struct {
	Caller       AccountID `json:"caller"`
	OrgID        OrgID     `json:"orgId"`
	Constitution Hash      `json:"constitution"`
	TotalMembers int       `json:"totalMembers"`
}

type WeightedOrgRegistered struct {
	Caller        AccountID `json:"caller"`
	OrgID         OrgID     `json:"orgId"`
	Constitution  Hash      `json:"constitution"`
	TotalIssuance Shares    `json:"totalIssuance"`
}

type SharesIssued struct {
	OrgID  OrgID     `json:"orgId"`
	Who    AccountID `json:"who"`
	Amount Shares    `json:"amount"`
}

type SharesBurned struct {
	OrgID  OrgID     `json:"orgId"`
	Who    AccountID `json:"who"`
	Amount Shares    `json:"amount"`
}

type SharesBatchIssued struct {
	OrgID          OrgID  `json:"orgId"`
	TotalNewShares Shares `json:"totalNewShares"`
}

type SharesBatchBurned struct {
	OrgID       OrgID  `json:"orgId"`
	TotalBurned Shares `json:"totalBurned"`
}

type SharesReserved struct {
	OrgID         OrgID     `json:"orgId"`
	Who           AccountID `json:"who"`
	TimesReserved uint32    `json:"timesReserved"`
}

type SharesUnreserved struct {
	OrgID         OrgID     `json:"orgId"`
	Who           AccountID `json:"who"`
	TimesReserved uint32    `json:"timesReserved"`
}

type SharesLocked struct {
	OrgID OrgID     `json:"orgId"`
	Who   AccountID `json:"who"`
}

type SharesUnlocked struct {
	OrgID OrgID     `json:"orgId"`
	Who   AccountID `json:"who"`
}

type Transferred struct {
	From   AccountID `json:"from"`
	To     AccountID `json:"to"`
	Amount Balance   `json:"amount"`
}

type BankAccountOpened struct {
	Seeder   AccountID  `json:"seeder"`
	BankID   BankID     `json:"bankId"`
	Seed     Balance    `json:"seed"`
	Org      OrgID      `json:"org"`
	Operator *AccountID `json:"operator,omitempty"`
}

type SpendProposed struct {
	Caller AccountID `json:"caller"`
	Spend  BankSpend `json:"spend"`
	Amount Balance   `json:"amount"`
	Dest   AccountID `json:"dest"`
}

type SpendVoteTriggered struct {
	Spend  BankSpend `json:"spend"`
	VoteID VoteID    `json:"voteId"`
}

type SpendExecuted struct {
	Spend  BankSpend `json:"spend"`
	Amount Balance   `json:"amount"`
	Dest   AccountID `json:"dest"`
	Sudo   bool      `json:"sudo"`
}

type SpendRejected struct {
	Spend  BankSpend `json:"spend"`
	VoteID VoteID    `json:"voteId"`
}

type DisputeRegistered struct {
	DisputeID DisputeID `json:"disputeId"`
	Locker    AccountID `json:"locker"`
	Amount    Balance   `json:"amount"`
	Raiser    AccountID `json:"raiser"`
	Org       OrgRep    `json:"org"`
}

type DisputeRaisedAndVoteTriggered struct {
	DisputeID DisputeID `json:"disputeId"`
	Locker    AccountID `json:"locker"`
	Amount    Balance   `json:"amount"`
	Raiser    AccountID `json:"raiser"`
	Org       OrgRep    `json:"org"`
	VoteID    VoteID    `json:"voteId"`
}

type DisputeResolved struct {
	DisputeID DisputeID `json:"disputeId"`
	Raiser    AccountID `json:"raiser"`
	Amount    Balance   `json:"amount"`
}

type DisputeDismissed struct {
	DisputeID DisputeID `json:"disputeId"`
	Locker    AccountID `json:"locker"`
	Amount    Balance   `json:"amount"`
}

type PropDonationExecuted struct {
	Sender             AccountID `json:"sender"`
	ToOrg              Balance   `json:"toOrg"`
	Org                OrgID     `json:"org"`
	Remainder          Balance   `json:"remainder"`
	RemainderRecipient AccountID `json:"remainderRecipient"`
}

type EqualDonationExecuted struct {
	Sender             AccountID `json:"sender"`
	ToOrg              Balance   `json:"toOrg"`
	Org                OrgID     `json:"org"`
	Remainder          Balance   `json:"remainder"`
	RemainderRecipient AccountID `json:"remainderRecipient"`
}

func (VoteOpened) EventName() string                    { return "VoteOpened" }
func (VoteSubmitted) EventName() string                 { return "VoteSubmitted" }
func (VoteOutcomeReached) EventName() string            { return "VoteOutcomeReached" }
func (FlatOrgRegistered) EventName() string             { return "FlatOrgRegistered" }
func (WeightedOrgRegistered) EventName() string         { return "WeightedOrgRegistered" }
func (SharesIssued) EventName() string                  { return "SharesIssued" }
func (SharesBurned) EventName() string                  { return "SharesBurned" }
func (SharesBatchIssued) EventName() string             { return "SharesBatchIssued" }
func (SharesBatchBurned) EventName() string             { return "SharesBatchBurned" }
func (SharesReserved) EventName() string                { return "SharesReserved" }
func (SharesUnreserved) EventName() string              { return "SharesUnreserved" }
func (SharesLocked) EventName() string                  { return "SharesLocked" }
func (SharesUnlocked) EventName() string                { return "SharesUnlocked" }
func (Transferred) EventName() string                   { return "Transferred" }
func (BankAccountOpened) EventName() string             { return "BankAccountOpened" }
func (SpendProposed) EventName() string                 { return "SpendProposed" }
func (SpendVoteTriggered) EventName() string            { return "SpendVoteTriggered" }
func (SpendExecuted) EventName() string                 { return "SpendExecuted" }
func (SpendRejected) EventName() string                 { return "SpendRejected" }
func (DisputeRegistered) EventName() string             { return "DisputeRegistered" }
func (DisputeRaisedAndVoteTriggered) EventName() string { return "DisputeRaisedAndVoteTriggered" }
func (DisputeResolved) EventName() string               { return "DisputeResolved" }
func (DisputeDismissed) EventName() string              { return "DisputeDismissed" }
func (PropDonationExecuted) EventName() string          { return "PropDonationExecuted" }
func (EqualDonationExecuted) EventName() string         { return "EqualDonationExecuted" }
