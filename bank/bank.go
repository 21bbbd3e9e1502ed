// Package bank runs organization treasuries whose spends are approved by share-weighted votes.
package bank

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kardiachain/go-kardia/lib/common"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

const (
	CounterBank = "bank"

	DefaultMinDeposit        types.Balance = 20
	DefaultMaxTreasuryPerOrg uint64        = 50
)

// PotSeed prefixes every treasury pot account.
var PotSeed = []byte("big/bank")

type Store interface {
	UpsertBank(ctx context.Context, bank *types.Bank) error
	Bank(ctx context.Context, id types.BankID) (*types.Bank, error)
	Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error)
	CountBanks(ctx context.Context, org types.OrgID) (uint64, error)
	UpsertSpend(ctx context.Context, spend *types.Spend) error
	Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error)
	Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error)
	SpendsByState(ctx context.Context, state types.SpendState) ([]*types.Spend, error)
	NextID(ctx context.Context, counter string) (uint64, error)
	Counter(ctx context.Context, counter string) (uint64, error)
}

type Orgs interface {
	IsMember(ctx context.Context, id types.OrgID, account types.AccountID) (bool, error)
	IsSudo(ctx context.Context, id types.OrgID, account types.AccountID) (bool, error)
	TotalIssuance(ctx context.Context, id types.OrgID) (types.Shares, error)
}

type Votes interface {
	OpenVote(ctx context.Context, rep types.OrgRep, topic *types.Hash, passage vote.ThresholdConfig,
		rejection *vote.ThresholdConfig, duration *types.BlockNumber) (*types.VoteOpened, error)
	State(ctx context.Context, id types.VoteID) (vote.VoteState, error)
}

type Currency interface {
	Transfer(ctx context.Context, from, to types.AccountID, amount types.Balance,
		req currency.ExistenceRequirement) (*types.Transferred, error)
}

type Config struct {
	MinDeposit        types.Balance
	MaxTreasuryPerOrg uint64
	// VoteDuration bounds spend votes; nil leaves them open until decided.
	VoteDuration *types.BlockNumber
	Logger       *zap.Logger
}

type Module struct {
	store    Store
	orgs     Orgs
	votes    Votes
	currency Currency
	clock    types.Clock
	cfg      Config
	logger   *zap.Logger
}

func New(store Store, orgs Orgs, votes Votes, cur Currency, clock types.Clock, cfg Config) *Module {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Module{
		store:    store,
		orgs:     orgs,
		votes:    votes,
		currency: cur,
		clock:    clock,
		cfg:      cfg,
		logger:   cfg.Logger.With(zap.String("module", "bank")),
	}
}

// PotAccount derives the account that holds a bank's funds.
func PotAccount(id types.BankID) types.AccountID {
	buf := make([]byte, len(PotSeed)+8)
	copy(buf, PotSeed)
	binary.BigEndian.PutUint64(buf[len(PotSeed):], uint64(id))
	return common.BytesToAddress(buf)
}

func (m *Module) OpenAccount(ctx context.Context, caller types.AccountID, org types.OrgID, seed types.Balance,
	operator *types.AccountID) (*types.BankAccountOpened, error) {
	permitted, err := m.memberOrSudo(ctx, org, caller)
	if err != nil {
		return nil, err
	}
	if !permitted {
		return nil, fmt.Errorf("org %d caller %s: %w", org, caller.Hex(), types.ErrNotPermittedToOpenBankAccount)
	}
	if seed < m.cfg.MinDeposit {
		return nil, fmt.Errorf("seed %s below %s: %w", seed, m.cfg.MinDeposit, types.ErrDepositBelowMinimum)
	}
	count, err := m.store.CountBanks(ctx, org)
	if err != nil {
		return nil, err
	}
	if count >= m.cfg.MaxTreasuryPerOrg {
		return nil, fmt.Errorf("org %d has %d banks: %w", org, count, types.ErrTooManyBankAccounts)
	}

	id, err := m.store.NextID(ctx, CounterBank)
	if err != nil {
		return nil, err
	}
	b := &types.Bank{
		ID:     types.BankID(id),
		Org:    org,
		Seeder: caller,
		Pot:    PotAccount(types.BankID(id)),
		Seed:   seed,
		Opened: m.clock.BlockNumber(),
	}
	if operator != nil {
		op := *operator
		b.Operator = &op
	}
	if _, err := m.currency.Transfer(ctx, caller, b.Pot, seed, currency.KeepAlive); err != nil {
		return nil, err
	}
	if err := m.store.UpsertBank(ctx, b); err != nil {
		return nil, err
	}
	m.logger.Info("Open bank account", zap.Uint64("bank", id), zap.Uint64("org", uint64(org)), zap.Stringer("seed", seed))
	return &types.BankAccountOpened{
		Seeder:   caller,
		BankID:   b.ID,
		Seed:     seed,
		Org:      org,
		Operator: b.Operator,
	}, nil
}

func (m *Module) TotalBankCount(ctx context.Context) (uint64, error) {
	return m.store.Counter(ctx, CounterBank)
}

func (m *Module) Bank(ctx context.Context, id types.BankID) (*types.Bank, error) {
	b, err := m.store.Bank(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, fmt.Errorf("bank %d: %w", id, types.ErrBankNotFound)
	}
	return b, err
}

func (m *Module) Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error) {
	return m.store.Banks(ctx, pagination)
}

func (m *Module) Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error) {
	s, err := m.store.Spend(ctx, key)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, fmt.Errorf("spend %s: %w", key, types.ErrSpendNotFound)
	}
	return s, err
}

func (m *Module) Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error) {
	if _, err := m.Bank(ctx, bank); err != nil {
		return nil, 0, err
	}
	return m.store.Spends(ctx, bank, pagination)
}

// SpendsUnderVote lists spends whose vote has not been polled to a result yet.
func (m *Module) SpendsUnderVote(ctx context.Context) ([]*types.Spend, error) {
	return m.store.SpendsByState(ctx, types.SpendVoting)
}

func (m *Module) memberOrSudo(ctx context.Context, org types.OrgID, account types.AccountID) (bool, error) {
	member, err := m.orgs.IsMember(ctx, org, account)
	if err != nil || member {
		return member, err
	}
	return m.orgs.IsSudo(ctx, org, account)
}
