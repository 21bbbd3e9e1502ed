// Package donate splits a payment across the members of an organization.
package donate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/currency"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

type Orgs interface {
	Group(ctx context.Context, id types.OrgID) ([]types.AccountID, error)
	Profile(ctx context.Context, id types.OrgID, account types.AccountID) (shares.ShareProfile, error)
	TotalIssuance(ctx context.Context, id types.OrgID) (types.Shares, error)
}

type Currency interface {
	FreeBalance(ctx context.Context, id types.AccountID) (types.Balance, error)
	Transfer(ctx context.Context, from, to types.AccountID, amount types.Balance,
		req currency.ExistenceRequirement) (*types.Transferred, error)
}

type Module struct {
	orgs     Orgs
	currency Currency
	logger   *zap.Logger
}

func New(orgs Orgs, cur Currency, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{orgs: orgs, currency: cur, logger: logger.With(zap.String("module", "donate"))}
}

type payout struct {
	to     types.AccountID
	amount types.Balance
}

// Donate pays every member of org its share of amount and sends what rounding leaves over to
// remainderRecipient. Every due is computed before the first transfer.
func (m *Module) Donate(ctx context.Context, sender types.AccountID, rep types.OrgRep, remainderRecipient types.AccountID,
	amount types.Balance) (toOrg types.Balance, remainder types.Balance, err error) {
	free, err := m.currency.FreeBalance(ctx, sender)
	if err != nil {
		return 0, 0, err
	}
	if amount > free {
		return 0, 0, fmt.Errorf("donate %s with free %s: %w", amount, free, types.ErrInsufficientFunds)
	}
	group, err := m.orgs.Group(ctx, rep.Org)
	if err != nil {
		return 0, 0, err
	}

	var payouts []payout
	switch rep.Kind {
	case types.Weighted:
		payouts, err = m.proportional(ctx, rep.Org, group, amount)
	case types.Equal:
		payouts = uniform(group, amount)
	default:
		err = fmt.Errorf("unknown representation %s", rep.Kind)
	}
	if err != nil {
		return 0, 0, err
	}

	for _, p := range payouts {
		if p.amount == 0 {
			continue
		}
		if _, err := m.currency.Transfer(ctx, sender, p.to, p.amount, currency.KeepAlive); err != nil {
			return 0, 0, err
		}
		if toOrg, err = toOrg.Add(p.amount); err != nil {
			return 0, 0, err
		}
	}
	if remainder, err = amount.Sub(toOrg); err != nil {
		return 0, 0, err
	}
	if remainder > 0 {
		if _, err := m.currency.Transfer(ctx, sender, remainderRecipient, remainder, currency.KeepAlive); err != nil {
			return 0, 0, err
		}
	}
	m.logger.Info("Donate", zap.String("sender", sender.Hex()), zap.Stringer("org", rep),
		zap.Stringer("toOrg", toOrg), zap.Stringer("remainder", remainder))
	return toOrg, remainder, nil
}

func (m *Module) MakePropDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
	amount types.Balance) (*types.PropDonationExecuted, error) {
	toOrg, remainder, err := m.Donate(ctx, sender, types.WeightedRep(org), remainderRecipient, amount)
	if err != nil {
		return nil, err
	}
	return &types.PropDonationExecuted{
		Sender:             sender,
		ToOrg:              toOrg,
		Org:                org,
		Remainder:          remainder,
		RemainderRecipient: remainderRecipient,
	}, nil
}

func (m *Module) MakeEqualDonation(ctx context.Context, sender types.AccountID, org types.OrgID, remainderRecipient types.AccountID,
	amount types.Balance) (*types.EqualDonationExecuted, error) {
	toOrg, remainder, err := m.Donate(ctx, sender, types.EqualRep(org), remainderRecipient, amount)
	if err != nil {
		return nil, err
	}
	return &types.EqualDonationExecuted{
		Sender:             sender,
		ToOrg:              toOrg,
		Org:                org,
		Remainder:          remainder,
		RemainderRecipient: remainderRecipient,
	}, nil
}

func (m *Module) proportional(ctx context.Context, org types.OrgID, group []types.AccountID, amount types.Balance) ([]payout, error) {
	issuance, err := m.orgs.TotalIssuance(ctx, org)
	if err != nil {
		return nil, err
	}
	payouts := make([]payout, 0, len(group))
	for _, member := range group {
		profile, err := m.orgs.Profile(ctx, org, member)
		if errors.Is(err, types.ErrProfileNotFound) {
			return nil, fmt.Errorf("org %d member %s: %w", org, member.Hex(), types.ErrNoOwnershipInOrg)
		}
		if err != nil {
			return nil, err
		}
		ratio := PermillFromRational(uint64(profile.Total()), uint64(issuance))
		payouts = append(payouts, payout{to: member, amount: ratio.MulFloor(amount)})
	}
	return payouts, nil
}

func uniform(group []types.AccountID, amount types.Balance) []payout {
	if len(group) == 0 {
		return nil
	}
	due := PermillFromRational(1, uint64(len(group))).MulFloor(amount)
	payouts := make([]payout, 0, len(group))
	for _, member := range group {
		payouts = append(payouts, payout{to: member, amount: due})
	}
	return payouts
}
