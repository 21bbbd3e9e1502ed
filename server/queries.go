package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type OrgSummary struct {
	Organization *types.Organization `json:"organization"`
	Members      []types.AccountID   `json:"members"`
}

func (s *Server) Organization(ctx context.Context, id types.OrgID) (*OrgSummary, error) {
	o, err := s.orgs.Organization(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.orgs.Group(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrgSummary{Organization: o, Members: members}, nil
}

func (s *Server) Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error) {
	return s.orgs.Organizations(ctx, pagination)
}

func (s *Server) OrganizationCounter(ctx context.Context) (uint64, error) {
	return s.orgs.OrganizationCounter(ctx)
}

func (s *Server) Profile(ctx context.Context, id types.OrgID, account types.AccountID) (*shares.Record, error) {
	p, err := s.orgs.Profile(ctx, id, account)
	if err != nil {
		return nil, err
	}
	r := p.ToRecord(id, account)
	return &r, nil
}

func (s *Server) Balance(ctx context.Context, account types.AccountID) (*types.Account, error) {
	return s.ledger.Account(ctx, account)
}

// Vote serves from the cache when one is configured and fills it on a miss.
// The fill holds the dispatch lock so a committed ballot cannot be overwritten by an older read.
func (s *Server) Vote(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	if s.cache == nil {
		return s.votes.Record(ctx, id)
	}
	if rec, err := s.cache.VoteState(ctx, id); err == nil {
		return rec, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.votes.Record(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.UpdateVoteState(ctx, rec); err != nil {
		s.logger.Debug("cannot cache vote", zap.Error(err))
	}
	return rec, nil
}

func (s *Server) Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error) {
	return s.votes.Votes(ctx, pagination)
}

func (s *Server) Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error) {
	return s.votes.Receipts(ctx, id)
}

func (s *Server) Bank(ctx context.Context, id types.BankID) (*types.Bank, error) {
	return s.bank.Bank(ctx, id)
}

func (s *Server) Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error) {
	return s.bank.Banks(ctx, pagination)
}

func (s *Server) TotalBankCount(ctx context.Context) (uint64, error) {
	return s.bank.TotalBankCount(ctx)
}

func (s *Server) Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error) {
	return s.bank.Spend(ctx, key)
}

func (s *Server) Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error) {
	return s.bank.Spends(ctx, bank, pagination)
}

func (s *Server) Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error) {
	return s.court.Dispute(ctx, id)
}

func (s *Server) Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error) {
	return s.court.Disputes(ctx, pagination)
}

// LatestBlockHeight reports the height shared through the cache, falling back to the local clock.
func (s *Server) LatestBlockHeight(ctx context.Context) types.BlockNumber {
	if s.cache != nil {
		height, err := s.cache.LatestBlockHeight(ctx)
		if err == nil && height > 0 {
			return height
		}
		if err != nil {
			s.logger.Debug("cannot get cached block height", zap.Error(err))
		}
	}
	return s.clock.BlockNumber()
}

// Events lists the latest published events, newest first.
func (s *Server) Events(ctx context.Context, limit int) ([]types.EventRecord, error) {
	return s.feed.Latest(ctx, limit)
}
