package org

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/db"
	"github.com/kardiachain/governance-backend/shares"
	"github.com/kardiachain/governance-backend/types"
)

func acc(n uint64) types.AccountID { return types.AccountFromUint64(n) }

func setupOrgs(t *testing.T) (context.Context, *Module) {
	lgr, err := zap.NewDevelopment()
	require.NoError(t, err)
	client, err := db.NewClient(db.Config{DbAdapter: db.Memory, Logger: lgr})
	require.NoError(t, err)
	ctx := context.Background()
	m := New(client, lgr)
	_, err = m.RegisterGenesisOrg(ctx, acc(1), types.Hash{}, []types.AccountID{acc(1), acc(2), acc(3), acc(2)})
	require.NoError(t, err)
	return ctx, m
}

func weighted(t *testing.T, ctx context.Context, m *Module, sudo *types.AccountID, parent *types.OrgID) types.OrgID {
	ev, err := m.RegisterWeightedOrg(ctx, acc(1), sudo, parent, types.Hash{}, []shares.AccountShare{
		{Account: acc(7), Shares: 30},
		{Account: acc(8), Shares: 70},
	})
	require.NoError(t, err)
	return ev.OrgID
}

func TestRegisterGenesisOrg(t *testing.T) {
	ctx, m := setupOrgs(t)

	o, err := m.Organization(ctx, RootOrg)
	require.NoError(t, err)
	assert.Equal(t, types.OrgFlat, o.Kind)
	assert.Equal(t, types.Shares(3), o.TotalIssuance)
	assert.Equal(t, uint64(3), o.MemberCount)

	group, err := m.Group(ctx, RootOrg)
	require.NoError(t, err)
	assert.Len(t, group, 3)

	count, err := m.OrganizationCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	_, err = m.Organization(ctx, 9)
	assert.ErrorIs(t, err, types.ErrOrgNotFound)
	_, err = m.Group(ctx, 9)
	assert.ErrorIs(t, err, types.ErrOrgNotFound)
}

func TestRegisterFlatOrg(t *testing.T) {
	ctx, m := setupOrgs(t)

	_, err := m.RegisterFlatOrg(ctx, acc(2), nil, nil, types.Hash{}, []types.AccountID{acc(4)})
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = m.RegisterFlatOrg(ctx, acc(1), nil, nil, types.Hash{}, nil)
	assert.ErrorIs(t, err, types.ErrEmptyOrganization)

	root := RootOrg
	sudo := acc(4)
	ev, err := m.RegisterFlatOrg(ctx, acc(1), &sudo, &root, types.Hash{}, []types.AccountID{acc(4), acc(5)})
	require.NoError(t, err)
	assert.Equal(t, types.OrgID(2), ev.OrgID)
	assert.Equal(t, 2, ev.TotalMembers)

	// a sudo of the child may nest further orgs below it
	child := ev.OrgID
	_, err = m.RegisterFlatOrg(ctx, acc(4), nil, &child, types.Hash{}, []types.AccountID{acc(6)})
	require.NoError(t, err)
}

func TestRegisterWeightedOrg(t *testing.T) {
	ctx, m := setupOrgs(t)
	id := weighted(t, ctx, m, nil, nil)

	issuance, err := m.TotalIssuance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(100), issuance)

	p, err := m.Profile(ctx, id, acc(8))
	require.NoError(t, err)
	assert.Equal(t, types.Shares(70), p.Total())

	_, err = m.Profile(ctx, id, acc(9))
	assert.ErrorIs(t, err, types.ErrProfileNotFound)

	member, err := m.IsMember(ctx, id, acc(7))
	require.NoError(t, err)
	assert.True(t, member)
	member, err = m.IsMember(ctx, id, acc(1))
	require.NoError(t, err)
	assert.False(t, member)

	_, err = m.RegisterWeightedOrg(ctx, acc(1), nil, nil, types.Hash{}, nil)
	assert.ErrorIs(t, err, types.ErrEmptyOrganization)
}

func TestIsSudo_ParentChain(t *testing.T) {
	ctx, m := setupOrgs(t)
	root := RootOrg
	sudo := acc(9)
	id := weighted(t, ctx, m, &sudo, &root)

	for _, tc := range []struct {
		who  types.AccountID
		want bool
	}{
		{acc(9), true},
		{acc(1), true},
		{acc(7), false},
	} {
		ok, err := m.IsSudo(ctx, id, tc.who)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.who.Hex())
	}
}

func TestIssueAndBurnShares(t *testing.T) {
	ctx, m := setupOrgs(t)
	sudo := acc(1)
	id := weighted(t, ctx, m, &sudo, nil)

	_, err := m.IssueShares(ctx, acc(7), id, acc(7), 5)
	assert.ErrorIs(t, err, types.ErrNotAuthorized)
	_, err = m.IssueShares(ctx, acc(1), id, acc(9), 0)
	assert.ErrorIs(t, err, types.ErrZeroAmount)

	ev, err := m.IssueShares(ctx, acc(1), id, acc(9), 20)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(20), ev.Amount)
	o, err := m.Organization(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(120), o.TotalIssuance)
	assert.Equal(t, uint64(3), o.MemberCount)

	_, err = m.BurnShares(ctx, acc(1), id, acc(9), 21)
	assert.ErrorIs(t, err, types.ErrUnderflow)

	_, err = m.BurnShares(ctx, acc(1), id, acc(9), 20)
	require.NoError(t, err)
	_, err = m.Profile(ctx, id, acc(9))
	assert.ErrorIs(t, err, types.ErrProfileNotFound)
	o, err = m.Organization(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(100), o.TotalIssuance)
	assert.Equal(t, uint64(2), o.MemberCount)
}

func TestBatchShares(t *testing.T) {
	ctx, m := setupOrgs(t)
	sudo := acc(1)
	id := weighted(t, ctx, m, &sudo, nil)

	issued, err := m.BatchIssueShares(ctx, acc(1), id, []shares.AccountShare{
		{Account: acc(7), Shares: 10},
		{Account: acc(10), Shares: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Shares(25), issued.TotalNewShares)

	burned, err := m.BatchBurnShares(ctx, acc(1), id, []shares.AccountShare{
		{Account: acc(7), Shares: 40},
		{Account: acc(8), Shares: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Shares(50), burned.TotalBurned)

	issuance, err := m.TotalIssuance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(75), issuance)
	_, err = m.Profile(ctx, id, acc(7))
	assert.ErrorIs(t, err, types.ErrProfileNotFound)
}

func TestReserveShares(t *testing.T) {
	ctx, m := setupOrgs(t)
	sudo := acc(1)
	id := weighted(t, ctx, m, &sudo, nil)

	_, err := m.UnreserveShares(ctx, acc(7), id, acc(7))
	assert.ErrorIs(t, err, types.ErrUnderflow)

	ev, err := m.ReserveShares(ctx, acc(7), id, acc(7))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ev.TimesReserved)

	_, err = m.ReserveShares(ctx, acc(8), id, acc(7))
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	ev, err = m.ReserveShares(ctx, acc(1), id, acc(7))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), ev.TimesReserved)

	_, err = m.BurnShares(ctx, acc(1), id, acc(7), 30)
	assert.ErrorIs(t, err, types.ErrSharesReserved)

	un, err := m.UnreserveShares(ctx, acc(7), id, acc(7))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), un.TimesReserved)
}

func TestLockShares(t *testing.T) {
	ctx, m := setupOrgs(t)
	sudo := acc(1)
	id := weighted(t, ctx, m, &sudo, nil)

	_, err := m.LockShares(ctx, acc(7), id, acc(7))
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = m.LockShares(ctx, acc(1), id, acc(7))
	require.NoError(t, err)
	p, err := m.Profile(ctx, id, acc(7))
	require.NoError(t, err)
	assert.False(t, p.IsUnlocked())

	_, err = m.UnlockShares(ctx, acc(1), id, acc(7))
	require.NoError(t, err)
	p, err = m.Profile(ctx, id, acc(7))
	require.NoError(t, err)
	assert.True(t, p.IsUnlocked())
}
