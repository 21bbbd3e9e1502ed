// Package db
package db

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type Adapter string

const (
	MGO    Adapter = "mgo"
	Memory Adapter = "memory"
)

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

type IOrg interface {
	InsertOrganization(ctx context.Context, org *types.Organization) error
	Organization(ctx context.Context, id types.OrgID) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, org *types.Organization) error
	Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error)

	UpsertProfile(ctx context.Context, profile *shares.Record) error
	Profile(ctx context.Context, org types.OrgID, account types.AccountID) (*shares.Record, error)
	RemoveProfile(ctx context.Context, org types.OrgID, account types.AccountID) error
	Profiles(ctx context.Context, org types.OrgID) ([]*shares.Record, error)
}

type IVote interface {
	UpsertVote(ctx context.Context, record *vote.Record) error
	Vote(ctx context.Context, id types.VoteID) (*vote.Record, error)
	Votes(ctx context.Context, pagination *types.Pagination) ([]*vote.Record, uint64, error)
	UpsertReceipt(ctx context.Context, receipt *vote.Receipt) error
	Receipt(ctx context.Context, id types.VoteID, voter types.AccountID) (*vote.Receipt, error)
	Receipts(ctx context.Context, id types.VoteID) ([]*vote.Receipt, error)
}

type IBank interface {
	UpsertBank(ctx context.Context, bank *types.Bank) error
	Bank(ctx context.Context, id types.BankID) (*types.Bank, error)
	Banks(ctx context.Context, pagination *types.Pagination) ([]*types.Bank, uint64, error)
	CountBanks(ctx context.Context, org types.OrgID) (uint64, error)
	UpsertSpend(ctx context.Context, spend *types.Spend) error
	Spend(ctx context.Context, key types.BankSpend) (*types.Spend, error)
	Spends(ctx context.Context, bank types.BankID, pagination *types.Pagination) ([]*types.Spend, uint64, error)
	SpendsByState(ctx context.Context, state types.SpendState) ([]*types.Spend, error)
}

type ICourt interface {
	UpsertDispute(ctx context.Context, dispute *types.Dispute) error
	Dispute(ctx context.Context, id types.DisputeID) (*types.Dispute, error)
	Disputes(ctx context.Context, pagination *types.Pagination) ([]*types.Dispute, uint64, error)
	DisputesByState(ctx context.Context, state types.DisputeState) ([]*types.Dispute, error)
}

type IBalance interface {
	Account(ctx context.Context, id types.AccountID) (*types.Account, error)
	UpsertAccount(ctx context.Context, account *types.Account) error
	RemoveAccount(ctx context.Context, id types.AccountID) error
}

type ICounter interface {
	// NextID increments counter and returns the new value, starting at 1.
	NextID(ctx context.Context, counter string) (uint64, error)
	Counter(ctx context.Context, counter string) (uint64, error)
	SetCounter(ctx context.Context, counter string, value uint64) error
}

type Client interface {
	ping() error
	dropDatabase(ctx context.Context) error

	// RunInTx runs fn so that either all of its writes persist or none do.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	IOrg
	IVote
	IBank
	ICourt
	IBalance
	ICounter
}

func NewClient(cfg Config) (Client, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	case Memory:
		return newMemoryDB(cfg), nil
	default:
		return nil, errors.New("invalid db config")
	}
}
