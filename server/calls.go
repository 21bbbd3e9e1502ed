package server

import (
	"context"

	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

//region Organization

func (s *Server) RegisterFlatOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash, members []types.AccountID) (*types.FlatOrgRegistered, error) {
	var ev *types.FlatOrgRegistered
	if _, err := s.dispatch(ctx, "register_flat_org", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.RegisterFlatOrg(ctx, caller, sudo, parent, constitution, members); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) RegisterWeightedOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash, members []shares.AccountShare) (*types.WeightedOrgRegistered, error) {
	var ev *types.WeightedOrgRegistered
	if _, err := s.dispatch(ctx, "register_weighted_org", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.RegisterWeightedOrg(ctx, caller, sudo, parent, constitution, members); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) IssueShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID,
	amount types.Shares) (*types.SharesIssued, error) {
	var ev *types.SharesIssued
	if _, err := s.dispatch(ctx, "issue_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.IssueShares(ctx, caller, id, who, amount); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) BurnShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID,
	amount types.Shares) (*types.SharesBurned, error) {
	var ev *types.SharesBurned
	if _, err := s.dispatch(ctx, "burn_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.BurnShares(ctx, caller, id, who, amount); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) BatchIssueShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	batch []shares.AccountShare) (*types.SharesBatchIssued, error) {
	var ev *types.SharesBatchIssued
	if _, err := s.dispatch(ctx, "batch_issue_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.BatchIssueShares(ctx, caller, id, batch); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) BatchBurnShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	batch []shares.AccountShare) (*types.SharesBatchBurned, error) {
	var ev *types.SharesBatchBurned
	if _, err := s.dispatch(ctx, "batch_burn_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.BatchBurnShares(ctx, caller, id, batch); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) ReserveShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesReserved, error) {
	var ev *types.SharesReserved
	if _, err := s.dispatch(ctx, "reserve_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.ReserveShares(ctx, caller, id, who); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) UnreserveShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesUnreserved, error) {
	var ev *types.SharesUnreserved
	if _, err := s.dispatch(ctx, "unreserve_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.UnreserveShares(ctx, caller, id, who); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) LockShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesLocked, error) {
	var ev *types.SharesLocked
	if _, err := s.dispatch(ctx, "lock_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.LockShares(ctx, caller, id, who); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) UnlockShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID) (*types.SharesUnlocked, error) {
	var ev *types.SharesUnlocked
	if _, err := s.dispatch(ctx, "unlock_shares", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.orgs.UnlockShares(ctx, caller, id, who); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

//endregion

//region Vote

// SubmitVote returns the outcome event as well when the ballot decided the vote.
func (s *Server) SubmitVote(ctx context.Context, voter types.AccountID, id types.VoteID, direction vote.VoterView,
	justification *types.Hash) (*types.VoteSubmitted, *types.VoteOutcomeReached, error) {
	var (
		submitted *types.VoteSubmitted
		outcome   *types.VoteOutcomeReached
	)
	if _, err := s.dispatch(ctx, "submit_vote", func(ctx context.Context) (evs []types.Event, err error) {
		if submitted, outcome, err = s.votes.SubmitVote(ctx, voter, id, direction, justification); err != nil {
			return nil, err
		}
		if !submitted.Changed {
			return nil, nil
		}
		evs = []types.Event{submitted}
		if outcome != nil {
			evs = append(evs, outcome)
		}
		return evs, nil
	}); err != nil {
		return nil, nil, err
	}
	return submitted, outcome, nil
}

//endregion

//region Bank

func (s *Server) OpenBankAccount(ctx context.Context, caller types.AccountID, org types.OrgID, seed types.Balance,
	operator *types.AccountID) (*types.BankAccountOpened, error) {
	var ev *types.BankAccountOpened
	if _, err := s.dispatch(ctx, "open_bank_account", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.bank.OpenAccount(ctx, caller, org, seed, operator); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) ProposeSpend(ctx context.Context, caller types.AccountID, bankID types.BankID, amount types.Balance,
	dest types.AccountID) (*types.SpendProposed, error) {
	var ev *types.SpendProposed
	if _, err := s.dispatch(ctx, "propose_spend", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.bank.ProposeSpend(ctx, caller, bankID, amount, dest); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) TriggerSpendVote(ctx context.Context, key types.BankSpend) (*types.SpendVoteTriggered, error) {
	var ev *types.SpendVoteTriggered
	if _, err := s.dispatch(ctx, "trigger_spend_vote", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.bank.TriggerVote(ctx, key); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

// PollSpend returns a SpendExecuted or SpendRejected event.
func (s *Server) PollSpend(ctx context.Context, key types.BankSpend) (types.Event, error) {
	var ev types.Event
	if _, err := s.dispatch(ctx, "poll_spend", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.bank.Poll(ctx, key); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) SudoApproveSpend(ctx context.Context, caller types.AccountID, key types.BankSpend) (*types.SpendExecuted, error) {
	var ev *types.SpendExecuted
	if _, err := s.dispatch(ctx, "sudo_approve_spend", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.bank.SudoApproveSpend(ctx, caller, key); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

//endregion

//region Court

func (s *Server) RegisterDispute(ctx context.Context, locker types.AccountID, amount types.Balance, raiser types.AccountID,
	resolution types.ResolutionPath) (*types.DisputeRegistered, error) {
	var ev *types.DisputeRegistered
	if _, err := s.dispatch(ctx, "register_dispute", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.court.RegisterDispute(ctx, locker, amount, raiser, resolution); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) RaiseDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (*types.DisputeRaisedAndVoteTriggered, error) {
	var ev *types.DisputeRaisedAndVoteTriggered
	if _, err := s.dispatch(ctx, "raise_dispute", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.court.RaiseDispute(ctx, caller, id); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

// PollDispute returns a DisputeResolved or DisputeDismissed event.
func (s *Server) PollDispute(ctx context.Context, caller types.AccountID, id types.DisputeID) (types.Event, error) {
	var ev types.Event
	if _, err := s.dispatch(ctx, "poll_dispute", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.court.PollDispute(ctx, caller, id); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

//endregion

//region Donate

func (s *Server) MakePropDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
	amount types.Balance) (*types.PropDonationExecuted, error) {
	var ev *types.PropDonationExecuted
	if _, err := s.dispatch(ctx, "make_prop_donation", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.donate.MakePropDonation(ctx, sender, org, remainderRecipient, amount); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Server) MakeEqualDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
	amount types.Balance) (*types.EqualDonationExecuted, error) {
	var ev *types.EqualDonationExecuted
	if _, err := s.dispatch(ctx, "make_equal_donation", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.donate.MakeEqualDonation(ctx, sender, org, remainderRecipient, amount); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

//endregion

//region Currency

// Transfer moves free balance between accounts. The sender may be reaped.
func (s *Server) Transfer(ctx context.Context, from, to types.AccountID, amount types.Balance) (*types.Transferred, error) {
	var ev *types.Transferred
	if _, err := s.dispatch(ctx, "transfer", func(ctx context.Context) (evs []types.Event, err error) {
		if ev, err = s.ledger.Transfer(ctx, from, to, amount, currency.AllowDeath); err != nil {
			return nil, err
		}
		return []types.Event{ev}, nil
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

//endregion
