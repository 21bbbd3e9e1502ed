package shares

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardiachain/governance-backend/types"
)

func TestShareProfile_Default(t *testing.T) {
	p := Default()
	assert.Equal(t, types.Shares(1), p.Total())
	assert.Equal(t, uint32(0), p.TimesReserved())
	assert.True(t, p.IsUnlocked())
	assert.False(t, p.IsZero())
}

func TestShareProfile_ReserveIdentity(t *testing.T) {
	p := NewShares(12).Lock()
	inc, err := p.IncrementTimesReserved()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), inc.TimesReserved())
	back, err := inc.DecrementTimesReserved()
	require.NoError(t, err)
	assert.Equal(t, p, back)

	_, err = Default().DecrementTimesReserved()
	assert.ErrorIs(t, err, types.ErrUnderflow)
}

func TestShareProfile_Shares(t *testing.T) {
	p, err := NewShares(10).AddShares(5)
	require.NoError(t, err)
	assert.Equal(t, types.Shares(15), p.Total())

	p, err = p.SubtractShares(15)
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	same, err := p.SubtractShares(1)
	assert.ErrorIs(t, err, types.ErrUnderflow)
	assert.Equal(t, p, same)

	_, err = NewShares(math.MaxUint64).AddShares(1)
	assert.ErrorIs(t, err, types.ErrOverflow)
}

func TestShareProfile_Lock(t *testing.T) {
	p := Default().Lock()
	assert.False(t, p.IsUnlocked())
	assert.True(t, p.Unlock().IsUnlocked())

	rec := p.ToRecord(3, types.AccountFromUint64(1))
	assert.True(t, rec.Locked)
	assert.Equal(t, p, FromRecord(rec))
}

func TestSimpleShareGenesis(t *testing.T) {
	a, b := types.AccountFromUint64(1), types.AccountFromUint64(2)
	tests := []struct {
		name  string
		input []AccountShare
		total types.Shares
		size  int
	}{
		{"empty", nil, 0, 0},
		{"distinct", []AccountShare{{a, 10}, {b, 20}}, 30, 2},
		{"adjacent duplicate", []AccountShare{{a, 10}, {a, 10}, {b, 20}}, 30, 2},
		{"non adjacent duplicate kept", []AccountShare{{a, 10}, {b, 20}, {a, 10}}, 40, 3},
		{"same account other amount kept", []AccountShare{{a, 10}, {a, 5}}, 15, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewSimpleShareGenesis(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.total, g.Total())
			assert.Len(t, g.AccountOwnership(), tc.size)
			assert.True(t, g.VerifyShape())
		})
	}

	bad := SimpleShareGenesis{total: 5, accountOwnership: []AccountShare{{a, 4}}}
	assert.False(t, bad.VerifyShape())

	_, err := NewSimpleShareGenesis([]AccountShare{{a, math.MaxUint64}, {b, 1}})
	assert.ErrorIs(t, err, types.ErrOverflow)
}
