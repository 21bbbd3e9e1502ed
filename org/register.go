package org

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

// RootOrg is created by genesis; its sudo supervises orgs registered without a parent.
const RootOrg types.OrgID = 1

// RegisterFlatOrg creates an org where every member holds one share.
func (m *Module) RegisterFlatOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash, members []types.AccountID) (*types.FlatOrgRegistered, error) {
	if err := m.authorizeRegistration(ctx, caller, parent); err != nil {
		return nil, err
	}
	return m.registerFlat(ctx, caller, sudo, parent, constitution, members)
}

// RegisterGenesisOrg creates the root org without authorization.
func (m *Module) RegisterGenesisOrg(ctx context.Context, supervisor types.AccountID, constitution types.Hash,
	members []types.AccountID) (*types.FlatOrgRegistered, error) {
	return m.registerFlat(ctx, supervisor, &supervisor, nil, constitution, members)
}

func (m *Module) registerFlat(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash, members []types.AccountID) (*types.FlatOrgRegistered, error) {
	unique := make([]types.AccountID, 0, len(members))
	seen := make(map[types.AccountID]bool, len(members))
	for _, member := range members {
		if !seen[member] {
			seen[member] = true
			unique = append(unique, member)
		}
	}
	if len(unique) == 0 {
		return nil, types.ErrEmptyOrganization
	}

	o, err := m.newOrganization(ctx, types.OrgFlat, sudo, parent, constitution)
	if err != nil {
		return nil, err
	}
	for _, member := range unique {
		rec := shares.Default().ToRecord(o.ID, member)
		if err := m.store.UpsertProfile(ctx, &rec); err != nil {
			return nil, err
		}
	}
	o.TotalIssuance = types.Shares(len(unique))
	o.MemberCount = uint64(len(unique))
	if err := m.store.InsertOrganization(ctx, o); err != nil {
		return nil, err
	}
	m.logger.Info("Register flat org", zap.Uint64("org", uint64(o.ID)), zap.Int("members", len(unique)))
	return &types.FlatOrgRegistered{
		Caller:       caller,
		OrgID:        o.ID,
		Constitution: constitution,
		TotalMembers: len(unique),
	}, nil
}

// RegisterWeightedOrg creates an org from a share genesis whose shape must verify.
func (m *Module) RegisterWeightedOrg(ctx context.Context, caller types.AccountID, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash, members []shares.AccountShare) (*types.WeightedOrgRegistered, error) {
	if err := m.authorizeRegistration(ctx, caller, parent); err != nil {
		return nil, err
	}
	genesis, err := shares.NewSimpleShareGenesis(members)
	if err != nil {
		return nil, err
	}
	if !genesis.VerifyShape() {
		return nil, types.ErrInvalidGenesis
	}
	ownership := genesis.AccountOwnership()
	if len(ownership) == 0 {
		return nil, types.ErrEmptyOrganization
	}

	o, err := m.newOrganization(ctx, types.OrgWeighted, sudo, parent, constitution)
	if err != nil {
		return nil, err
	}
	profiles := make(map[types.AccountID]shares.ShareProfile, len(ownership))
	order := make([]types.AccountID, 0, len(ownership))
	for _, entry := range ownership {
		p, ok := profiles[entry.Account]
		if !ok {
			order = append(order, entry.Account)
			p = shares.NewShares(0)
		}
		if p, err = p.AddShares(entry.Shares); err != nil {
			return nil, err
		}
		profiles[entry.Account] = p
	}
	for _, account := range order {
		rec := profiles[account].ToRecord(o.ID, account)
		if err := m.store.UpsertProfile(ctx, &rec); err != nil {
			return nil, err
		}
	}
	o.TotalIssuance = genesis.Total()
	o.MemberCount = uint64(len(order))
	if err := m.store.InsertOrganization(ctx, o); err != nil {
		return nil, err
	}
	m.logger.Info("Register weighted org", zap.Uint64("org", uint64(o.ID)), zap.Stringer("issuance", o.TotalIssuance))
	return &types.WeightedOrgRegistered{
		Caller:        caller,
		OrgID:         o.ID,
		Constitution:  constitution,
		TotalIssuance: o.TotalIssuance,
	}, nil
}

func (m *Module) authorizeRegistration(ctx context.Context, caller types.AccountID, parent *types.OrgID) error {
	supervisor := RootOrg
	if parent != nil {
		supervisor = *parent
	}
	ok, err := m.IsSudo(ctx, supervisor, caller)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("register under org %d: %w", supervisor, types.ErrNotAuthorized)
	}
	return nil
}

func (m *Module) newOrganization(ctx context.Context, kind types.OrgKind, sudo *types.AccountID, parent *types.OrgID,
	constitution types.Hash) (*types.Organization, error) {
	id, err := m.store.NextID(ctx, CounterOrganization)
	if err != nil {
		return nil, err
	}
	o := &types.Organization{
		ID:           types.OrgID(id),
		Kind:         kind,
		Constitution: constitution,
	}
	if sudo != nil {
		s := *sudo
		o.Sudo = &s
	}
	if parent != nil {
		p := *parent
		o.Parent = &p
	}
	return o, nil
}
