// Package org manages organizations and the share profiles of their members.
package org

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

const CounterOrganization = "organization"

type Store interface {
	InsertOrganization(ctx context.Context, org *types.Organization) error
	Organization(ctx context.Context, id types.OrgID) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, org *types.Organization) error
	Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error)

	UpsertProfile(ctx context.Context, profile *shares.Record) error
	Profile(ctx context.Context, org types.OrgID, account types.AccountID) (*shares.Record, error)
	RemoveProfile(ctx context.Context, org types.OrgID, account types.AccountID) error
	Profiles(ctx context.Context, org types.OrgID) ([]*shares.Record, error)

	NextID(ctx context.Context, counter string) (uint64, error)
	Counter(ctx context.Context, counter string) (uint64, error)
}

type Module struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{store: store, logger: logger.With(zap.String("module", "org"))}
}

func (m *Module) Organization(ctx context.Context, id types.OrgID) (*types.Organization, error) {
	o, err := m.store.Organization(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, fmt.Errorf("org %d: %w", id, types.ErrOrgNotFound)
	}
	return o, err
}

func (m *Module) Organizations(ctx context.Context, pagination *types.Pagination) ([]*types.Organization, uint64, error) {
	return m.store.Organizations(ctx, pagination)
}

func (m *Module) OrganizationCounter(ctx context.Context) (uint64, error) {
	return m.store.Counter(ctx, CounterOrganization)
}

// Group lists the members of org ordered by account.
func (m *Module) Group(ctx context.Context, id types.OrgID) ([]types.AccountID, error) {
	if _, err := m.Organization(ctx, id); err != nil {
		return nil, err
	}
	records, err := m.store.Profiles(ctx, id)
	if err != nil {
		return nil, err
	}
	group := make([]types.AccountID, 0, len(records))
	for _, r := range records {
		group = append(group, r.Account)
	}
	sort.Slice(group, func(i, j int) bool {
		return group[i].Hex() < group[j].Hex()
	})
	return group, nil
}

func (m *Module) Profile(ctx context.Context, id types.OrgID, account types.AccountID) (shares.ShareProfile, error) {
	r, err := m.store.Profile(ctx, id, account)
	if errors.Is(err, types.ErrRecordNotFound) {
		return shares.ShareProfile{}, fmt.Errorf("org %d account %s: %w", id, account.Hex(), types.ErrProfileNotFound)
	}
	if err != nil {
		return shares.ShareProfile{}, err
	}
	return shares.FromRecord(*r), nil
}

func (m *Module) IsMember(ctx context.Context, id types.OrgID, account types.AccountID) (bool, error) {
	_, err := m.Profile(ctx, id, account)
	if errors.Is(err, types.ErrProfileNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *Module) TotalIssuance(ctx context.Context, id types.OrgID) (types.Shares, error) {
	o, err := m.Organization(ctx, id)
	if err != nil {
		return 0, err
	}
	return o.TotalIssuance, nil
}

// IsSudo reports whether account administers org directly or through an ancestor.
func (m *Module) IsSudo(ctx context.Context, id types.OrgID, account types.AccountID) (bool, error) {
	seen := map[types.OrgID]bool{}
	for {
		if seen[id] {
			return false, nil
		}
		seen[id] = true
		o, err := m.Organization(ctx, id)
		if err != nil {
			return false, err
		}
		if o.Sudo != nil && *o.Sudo == account {
			return true, nil
		}
		if o.Parent == nil {
			return false, nil
		}
		id = *o.Parent
	}
}

func (m *Module) authorize(ctx context.Context, id types.OrgID, caller types.AccountID) (*types.Organization, error) {
	ok, err := m.IsSudo(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("org %d caller %s: %w", id, caller.Hex(), types.ErrNotAuthorized)
	}
	return m.store.Organization(ctx, id)
}
