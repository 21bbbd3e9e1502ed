// Package currency keeps free and reserved balances for every account.
package currency

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

// ExistenceRequirement decides whether a transfer may drop the sender below the existential deposit.
type ExistenceRequirement uint8

const (
	KeepAlive ExistenceRequirement = iota
	AllowDeath
)

type Store interface {
	Account(ctx context.Context, id types.AccountID) (*types.Account, error)
	UpsertAccount(ctx context.Context, account *types.Account) error
	RemoveAccount(ctx context.Context, id types.AccountID) error
}

type Config struct {
	ExistentialDeposit types.Balance
	Logger             *zap.Logger
}

type Ledger struct {
	store              Store
	existentialDeposit types.Balance
	logger             *zap.Logger
}

func New(store Store, cfg Config) *Ledger {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:              store,
		existentialDeposit: cfg.ExistentialDeposit,
		logger:             logger.With(zap.String("module", "currency")),
	}
}

func (l *Ledger) ExistentialDeposit() types.Balance {
	return l.existentialDeposit
}

// Account returns the balances of id, or an empty account when it has none.
func (l *Ledger) Account(ctx context.Context, id types.AccountID) (*types.Account, error) {
	acc, err := l.store.Account(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return &types.Account{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (l *Ledger) FreeBalance(ctx context.Context, id types.AccountID) (types.Balance, error) {
	acc, err := l.Account(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Free, nil
}

func (l *Ledger) ReservedBalance(ctx context.Context, id types.AccountID) (types.Balance, error) {
	acc, err := l.Account(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Reserved, nil
}

// Deposit mints amount into id. Used by genesis and tests.
func (l *Ledger) Deposit(ctx context.Context, id types.AccountID, amount types.Balance) error {
	acc, err := l.Account(ctx, id)
	if err != nil {
		return err
	}
	if acc.Free, err = acc.Free.Add(amount); err != nil {
		return err
	}
	return l.save(ctx, acc)
}

func (l *Ledger) Transfer(ctx context.Context, from, to types.AccountID, amount types.Balance,
	req ExistenceRequirement) (*types.Transferred, error) {
	if amount == 0 {
		return nil, types.ErrZeroAmount
	}
	sender, err := l.Account(ctx, from)
	if err != nil {
		return nil, err
	}
	if sender.Free < amount {
		return nil, fmt.Errorf("transfer %s from %s: %w", amount, from.Hex(), types.ErrInsufficientBalance)
	}
	if from == to {
		return &types.Transferred{From: from, To: to, Amount: amount}, nil
	}
	if sender.Free, err = sender.Free.Sub(amount); err != nil {
		return nil, err
	}
	total, err := sender.Total()
	if err != nil {
		return nil, err
	}
	if req == KeepAlive && total < l.existentialDeposit {
		return nil, fmt.Errorf("transfer %s from %s: %w", amount, from.Hex(), types.ErrExistentialDeposit)
	}

	recipient, err := l.Account(ctx, to)
	if err != nil {
		return nil, err
	}
	if recipient.Free, err = recipient.Free.Add(amount); err != nil {
		return nil, err
	}
	recipientTotal, err := recipient.Total()
	if err != nil {
		return nil, err
	}
	if recipientTotal < l.existentialDeposit {
		return nil, fmt.Errorf("transfer %s to %s: %w", amount, to.Hex(), types.ErrExistentialDeposit)
	}

	if err := l.save(ctx, sender); err != nil {
		return nil, err
	}
	if err := l.save(ctx, recipient); err != nil {
		return nil, err
	}
	return &types.Transferred{From: from, To: to, Amount: amount}, nil
}

// Reserve moves amount from free to reserved.
func (l *Ledger) Reserve(ctx context.Context, id types.AccountID, amount types.Balance) error {
	acc, err := l.Account(ctx, id)
	if err != nil {
		return err
	}
	if acc.Free < amount {
		return fmt.Errorf("reserve %s for %s: %w", amount, id.Hex(), types.ErrInsufficientBalance)
	}
	acc.Free -= amount
	if acc.Reserved, err = acc.Reserved.Add(amount); err != nil {
		return err
	}
	return l.save(ctx, acc)
}

// Unreserve releases up to amount back to free and returns how much was released.
func (l *Ledger) Unreserve(ctx context.Context, id types.AccountID, amount types.Balance) (types.Balance, error) {
	acc, err := l.Account(ctx, id)
	if err != nil {
		return 0, err
	}
	released := amount
	if acc.Reserved < released {
		released = acc.Reserved
	}
	acc.Reserved -= released
	if acc.Free, err = acc.Free.Add(released); err != nil {
		return 0, err
	}
	return released, l.save(ctx, acc)
}

// RepatriateReserved moves amount out of from's reserve into to's free balance.
func (l *Ledger) RepatriateReserved(ctx context.Context, from, to types.AccountID, amount types.Balance) error {
	source, err := l.Account(ctx, from)
	if err != nil {
		return err
	}
	if source.Reserved < amount {
		return fmt.Errorf("repatriate %s from %s: %w", amount, from.Hex(), types.ErrInsufficientBalance)
	}
	if from == to {
		_, err := l.Unreserve(ctx, from, amount)
		return err
	}
	source.Reserved -= amount
	dest, err := l.Account(ctx, to)
	if err != nil {
		return err
	}
	if dest.Free, err = dest.Free.Add(amount); err != nil {
		return err
	}
	if err := l.save(ctx, source); err != nil {
		return err
	}
	return l.save(ctx, dest)
}

// save reaps accounts whose total fell under the existential deposit.
func (l *Ledger) save(ctx context.Context, acc *types.Account) error {
	total, err := acc.Total()
	if err != nil {
		return err
	}
	if acc.Reserved == 0 && (total == 0 || total < l.existentialDeposit) {
		if total > 0 {
			l.logger.Info("Reap account", zap.String("account", acc.ID.Hex()), zap.Stringer("dust", total))
		}
		return l.store.RemoveAccount(ctx, acc.ID)
	}
	return l.store.UpsertAccount(ctx, acc)
}
