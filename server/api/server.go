// Package api
package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/server"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

// Governance is the call and query surface the handlers drive.
type Governance interface {
	BlockNumber() types.BlockNumber
	LatestBlockHeight(ctx context.Context) types.BlockNumber
	Events(ctx context.Context, limit int) ([]types.EventRecord, error)
	OnBlock(ctx context.Context) (int, error)
	ApplyGenesis(ctx context.Context, g *server.Genesis) (bool, error)

	Organization(ctx context.Context, id types.OrgID) (*server.OrgSummary, error)
	Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error)
	Profile(ctx context.Context, id types.OrgID, account types.AccountID) (*shares.Record, error)
	RegisterFlatOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
		constitution types.Hash, members []types.AccountID) (*types.FlatOrgRegistered, error)
	RegisterWeightedOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
		constitution types.Hash, members []shares.AccountShare) (*types.WeightedOrgRegistered, error)
	IssueShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID, amount types.Shares) (*types.SharesIssued, error)
	BurnShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID, amount types.Shares) (*types.SharesBurned, error)
	BatchIssueShares(ctx context.Context, caller types.AccountID, id types.OrgID, batch []shares.AccountShare) (*types.SharesBatchIssued, error)
	BatchBurnShares(ctx context.Context, caller types.AccountID, id types.OrgID, batch []shares.AccountShare) (*types.SharesBatchBurned, error)
	ReserveShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesReserved, error)
	UnreserveShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesUnreserved, error)
	LockShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesLocked, error)
	UnlockShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesUnlocked, error)

	Balance(ctx context.Context, account types.AccountID) (*types.Account, error)
	Transfer(ctx context.Context, from, to types.AccountID, amount types.Balance) (*types.Transferred, error)

	Vote(ctx context.Context, id types.VoteID) (*vote.Record, error)
	Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error)
	Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error)
	SubmitVote(ctx context.Context, voter types.AccountID, id types.VoteID, direction vote.VoterView,
		justification *types.Hash) (*types.VoteSubmitted, *types.VoteOutcomeReached, error)

	Bank(ctx context.Context, id types.BankID) (*types.Bank, error)
	Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error)
	Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error)
	Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error)
	OpenBankAccount(ctx context.Context, caller types.AccountID, org types.OrgID, seed types.Balance,
		operator *types.AccountID) (*types.BankAccountOpened, error)
	ProposeSpend(ctx context.Context, caller types.AccountID, bankID types.BankID, amount types.Balance,
		dest types.AccountID) (*types.SpendProposed, error)
	TriggerSpendVote(ctx context.Context, key types.BankSpend) (*types.SpendVoteTriggered, error)
	PollSpend(ctx context.Context, key types.BankSpend) (types.Event, error)
	SudoApproveSpend(ctx context.Context, caller types.AccountID, key types.BankSpend) (*types.SpendExecuted, error)

	Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error)
	Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error)
	RegisterDispute(ctx context.Context, locker types.AccountID, amount types.Balance, raiser types.AccountID,
		resolution types.ResolutionPath) (*types.DisputeRegistered, error)
	RaiseDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (*types.DisputeRaisedAndVoteTriggered, error)
	PollDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (types.Event, error)

	MakePropDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
		amount types.Balance) (*types.PropDonationExecuted, error)
	MakeEqualDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
		amount types.Balance) (*types.EqualDonationExecuted, error)
}

type Server struct {
	authorizationSecret string

	gov Governance

	logger *zap.Logger
}

func NewServer() *Server {
	return &Server{logger: zap.NewNop()}
}

func (s *Server) SetSecret(secret string) *Server {
	s.authorizationSecret = secret
	return s
}

func (s *Server) SetLogger(logger *zap.Logger) *Server {
	s.logger = logger
	return s
}

func (s *Server) SetGovernance(gov Governance) *Server {
	s.gov = gov
	return s
}
