package donate

import (
	"github.com/holiman/uint256"

	"github.com/kardiachain/governance-backend/types"
)

const permillAccuracy = 1000000

// Permill is a ratio in parts per million.
type Permill uint32

// PermillFromRational returns floor(p/q) in parts per million, saturating at one.
func PermillFromRational(p, q uint64) Permill {
	if q == 0 || p >= q {
		return permillAccuracy
	}
	n := new(uint256.Int).SetUint64(p)
	n.Mul(n, new(uint256.Int).SetUint64(permillAccuracy))
	n.Div(n, new(uint256.Int).SetUint64(q))
	return Permill(n.Uint64())
}

// MulFloor returns floor(amount * p).
func (p Permill) MulFloor(amount types.Balance) types.Balance {
	n := new(uint256.Int).SetUint64(uint64(amount))
	n.Mul(n, new(uint256.Int).SetUint64(uint64(p)))
	n.Div(n, new(uint256.Int).SetUint64(permillAccuracy))
	return types.Balance(n.Uint64())
}
