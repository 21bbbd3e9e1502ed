package org

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

func (m *Module) IssueShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID,
	amount types.Shares) (*types.SharesIssued, error) {
	o, err := m.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := m.issue(ctx, o, who, amount); err != nil {
		return nil, err
	}
	if err := m.store.UpdateOrganization(ctx, o); err != nil {
		return nil, err
	}
	m.logger.Info("Issue shares", zap.Uint64("org", uint64(id)), zap.String("who", who.Hex()), zap.Stringer("amount", amount))
	return &types.SharesIssued{OrgID: id, Who: who, Amount: amount}, nil
}

func (m *Module) BurnShares(ctx context.Context, caller types.AccountID, id types.OrgID, who types.AccountID,
	amount types.Shares) (*types.SharesBurned, error) {
	o, err := m.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := m.burn(ctx, o, who, amount); err != nil {
		return nil, err
	}
	if err := m.store.UpdateOrganization(ctx, o); err != nil {
		return nil, err
	}
	m.logger.Info("Burn shares", zap.Uint64("org", uint64(id)), zap.String("who", who.Hex()), zap.Stringer("amount", amount))
	return &types.SharesBurned{OrgID: id, Who: who, Amount: amount}, nil
}

func (m *Module) BatchIssueShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	batch []shares.AccountShare) (*types.SharesBatchIssued, error) {
	o, err := m.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	var total types.Shares
	for _, entry := range batch {
		if err := m.issue(ctx, o, entry.Account, entry.Shares); err != nil {
			return nil, err
		}
		if total, err = total.Add(entry.Shares); err != nil {
			return nil, err
		}
	}
	if err := m.store.UpdateOrganization(ctx, o); err != nil {
		return nil, err
	}
	return &types.SharesBatchIssued{OrgID: id, TotalNewShares: total}, nil
}

func (m *Module) BatchBurnShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	batch []shares.AccountShare) (*types.SharesBatchBurned, error) {
	o, err := m.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	var total types.Shares
	for _, entry := range batch {
		if err := m.burn(ctx, o, entry.Account, entry.Shares); err != nil {
			return nil, err
		}
		if total, err = total.Add(entry.Shares); err != nil {
			return nil, err
		}
	}
	if err := m.store.UpdateOrganization(ctx, o); err != nil {
		return nil, err
	}
	return &types.SharesBatchBurned{OrgID: id, TotalBurned: total}, nil
}

// ReserveShares marks the profile as backing one more pending commitment. Members may reserve their own shares.
func (m *Module) ReserveShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	who types.AccountID) (*types.SharesReserved, error) {
	p, err := m.selfOrSudo(ctx, caller, id, who)
	if err != nil {
		return nil, err
	}
	if p, err = p.IncrementTimesReserved(); err != nil {
		return nil, err
	}
	if err := m.saveProfile(ctx, id, who, p); err != nil {
		return nil, err
	}
	return &types.SharesReserved{OrgID: id, Who: who, TimesReserved: p.TimesReserved()}, nil
}

func (m *Module) UnreserveShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	who types.AccountID) (*types.SharesUnreserved, error) {
	p, err := m.selfOrSudo(ctx, caller, id, who)
	if err != nil {
		return nil, err
	}
	if p, err = p.DecrementTimesReserved(); err != nil {
		return nil, err
	}
	if err := m.saveProfile(ctx, id, who, p); err != nil {
		return nil, err
	}
	return &types.SharesUnreserved{OrgID: id, Who: who, TimesReserved: p.TimesReserved()}, nil
}

// LockShares prevents the profile from being used in new votes.
func (m *Module) LockShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	who types.AccountID) (*types.SharesLocked, error) {
	if _, err := m.authorize(ctx, id, caller); err != nil {
		return nil, err
	}
	p, err := m.Profile(ctx, id, who)
	if err != nil {
		return nil, err
	}
	if err := m.saveProfile(ctx, id, who, p.Lock()); err != nil {
		return nil, err
	}
	return &types.SharesLocked{OrgID: id, Who: who}, nil
}

func (m *Module) UnlockShares(ctx context.Context, caller types.AccountID, id types.OrgID,
	who types.AccountID) (*types.SharesUnlocked, error) {
	if _, err := m.authorize(ctx, id, caller); err != nil {
		return nil, err
	}
	p, err := m.Profile(ctx, id, who)
	if err != nil {
		return nil, err
	}
	if err := m.saveProfile(ctx, id, who, p.Unlock()); err != nil {
		return nil, err
	}
	return &types.SharesUnlocked{OrgID: id, Who: who}, nil
}

func (m *Module) issue(ctx context.Context, o *types.Organization, who types.AccountID, amount types.Shares) error {
	if amount == 0 {
		return types.ErrZeroAmount
	}
	p, err := m.Profile(ctx, o.ID, who)
	switch {
	case errors.Is(err, types.ErrProfileNotFound):
		p = shares.NewShares(amount)
		o.MemberCount++
	case err != nil:
		return err
	default:
		if p, err = p.AddShares(amount); err != nil {
			return err
		}
	}
	if o.TotalIssuance, err = o.TotalIssuance.Add(amount); err != nil {
		return err
	}
	return m.saveProfile(ctx, o.ID, who, p)
}

// burn drops the member once its shares reach zero and nothing is reserved against them.
func (m *Module) burn(ctx context.Context, o *types.Organization, who types.AccountID, amount types.Shares) error {
	p, err := m.Profile(ctx, o.ID, who)
	if err != nil {
		return err
	}
	if p, err = p.SubtractShares(amount); err != nil {
		return err
	}
	if o.TotalIssuance, err = o.TotalIssuance.Sub(amount); err != nil {
		return err
	}
	if p.IsZero() {
		if p.TimesReserved() > 0 {
			return fmt.Errorf("burn all shares of %s: %w", who.Hex(), types.ErrSharesReserved)
		}
		o.MemberCount--
		return m.store.RemoveProfile(ctx, o.ID, who)
	}
	return m.saveProfile(ctx, o.ID, who, p)
}

func (m *Module) selfOrSudo(ctx context.Context, caller types.AccountID, id types.OrgID,
	who types.AccountID) (shares.ShareProfile, error) {
	if caller != who {
		if _, err := m.authorize(ctx, id, caller); err != nil {
			return shares.ShareProfile{}, err
		}
	}
	return m.Profile(ctx, id, who)
}

func (m *Module) saveProfile(ctx context.Context, id types.OrgID, who types.AccountID, p shares.ShareProfile) error {
	rec := p.ToRecord(id, who)
	return m.store.UpsertProfile(ctx, &rec)
}
