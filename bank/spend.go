package bank

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

func spendCounter(bank types.BankID) string {
	return fmt.Sprintf("spend/%d", bank)
}

// ProposeSpend queues a transfer out of the bank pot until a vote or the sudo approves it.
func (m *Module) ProposeSpend(ctx context.Context, caller types.AccountID, bankID types.BankID, amount types.Balance,
	dest types.AccountID) (*types.SpendProposed, error) {
	b, err := m.Bank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, types.ErrZeroAmount
	}
	permitted, err := m.memberOrSudo(ctx, b.Org, caller)
	if err != nil {
		return nil, err
	}
	if !permitted && !isOperator(b, caller) {
		return nil, fmt.Errorf("bank %d caller %s: %w", bankID, caller.Hex(), types.ErrNotAuthorized)
	}

	id, err := m.store.NextID(ctx, spendCounter(bankID))
	if err != nil {
		return nil, err
	}
	s := &types.Spend{
		Bank:     bankID,
		ID:       types.SpendID(id),
		Proposer: caller,
		Amount:   amount,
		Dest:     dest,
		State:    types.SpendWaitingForApproval,
		Proposed: m.clock.BlockNumber(),
	}
	if err := m.store.UpsertSpend(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("Propose spend", zap.Stringer("spend", s.Key()), zap.Stringer("amount", amount))
	return &types.SpendProposed{Caller: caller, Spend: s.Key(), Amount: amount, Dest: dest}, nil
}

// TriggerVote opens a weighted vote over the hosting org that passes with more than half of issuance.
func (m *Module) TriggerVote(ctx context.Context, key types.BankSpend) (*types.SpendVoteTriggered, error) {
	b, err := m.Bank(ctx, key.Bank)
	if err != nil {
		return nil, err
	}
	s, err := m.Spend(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.State.IsResolved() {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendAlreadyResolved)
	}
	if s.State != types.SpendWaitingForApproval {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendNotWaiting)
	}

	issuance, err := m.orgs.TotalIssuance(ctx, b.Org)
	if err != nil {
		return nil, err
	}
	threshold := vote.NewSupportThreshold(types.Signal(issuance / 2))
	rejection := threshold
	opened, err := m.votes.OpenVote(ctx, types.WeightedRep(b.Org), nil, threshold, &rejection, m.cfg.VoteDuration)
	if err != nil {
		return nil, err
	}
	voteID := opened.VoteID
	s.State = types.SpendVoting
	s.VoteID = &voteID
	if err := m.store.UpsertSpend(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("Trigger spend vote", zap.Stringer("spend", key), zap.Uint64("vote", uint64(voteID)))
	return &types.SpendVoteTriggered{Spend: key, VoteID: voteID}, nil
}

// Poll executes an approved spend once and closes a rejected or expired one.
func (m *Module) Poll(ctx context.Context, key types.BankSpend) (types.Event, error) {
	b, err := m.Bank(ctx, key.Bank)
	if err != nil {
		return nil, err
	}
	s, err := m.Spend(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.State.IsResolved() {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendAlreadyResolved)
	}
	if s.State != types.SpendVoting || s.VoteID == nil {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendNotUnderVote)
	}
	state, err := m.votes.State(ctx, *s.VoteID)
	if err != nil {
		return nil, err
	}

	var ev types.Event
	switch {
	case state.Outcome() == vote.Approved:
		ev, err = m.execute(ctx, b, s, false)
	case state.Outcome() == vote.Rejected, state.Expired(m.clock.BlockNumber()):
		ev, err = m.reject(ctx, s)
	default:
		return nil, fmt.Errorf("spend %s vote %d: %w", key, *s.VoteID, types.ErrVoteOutcomeInconclusive)
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// SudoApproveSpend executes a pending spend without a vote. Only the org sudo or the bank operator may call it.
func (m *Module) SudoApproveSpend(ctx context.Context, caller types.AccountID, key types.BankSpend) (*types.SpendExecuted, error) {
	b, err := m.Bank(ctx, key.Bank)
	if err != nil {
		return nil, err
	}
	sudo, err := m.orgs.IsSudo(ctx, b.Org, caller)
	if err != nil {
		return nil, err
	}
	if !sudo && !isOperator(b, caller) {
		return nil, fmt.Errorf("spend %s caller %s: %w", key, caller.Hex(), types.ErrNotAuthorizedToApproveSpend)
	}
	s, err := m.Spend(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.State.IsResolved() {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendAlreadyResolved)
	}
	return m.execute(ctx, b, s, true)
}

func (m *Module) execute(ctx context.Context, b *types.Bank, s *types.Spend, sudo bool) (*types.SpendExecuted, error) {
	if _, err := m.currency.Transfer(ctx, b.Pot, s.Dest, s.Amount, currency.KeepAlive); err != nil {
		return nil, err
	}
	s.State = types.SpendExecutedState
	if err := m.store.UpsertSpend(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("Execute spend", zap.Stringer("spend", s.Key()), zap.Stringer("amount", s.Amount),
		zap.String("dest", s.Dest.Hex()), zap.Bool("sudo", sudo))
	return &types.SpendExecuted{Spend: s.Key(), Amount: s.Amount, Dest: s.Dest, Sudo: sudo}, nil
}

func (m *Module) reject(ctx context.Context, s *types.Spend) (*types.SpendRejected, error) {
	s.State = types.SpendRejectedState
	if err := m.store.UpsertSpend(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("Reject spend", zap.Stringer("spend", s.Key()))
	return &types.SpendRejected{Spend: s.Key(), VoteID: *s.VoteID}, nil
}

func isOperator(b *types.Bank, account types.AccountID) bool {
	return b.Operator != nil && *b.Operator == account
}
