// Package types
package types

import (
	"math/bits"
	"strconv"
)

// Signal is the weight carried by a vote.
type Signal uint64

// Shares is the ownership weight of an account inside an organization.
type Shares uint64

// Balance is a currency amount.
type Balance uint64

// BlockNumber is the height at which a call is executed.
type BlockNumber uint64

func addU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

func subU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

func (s Signal) Add(x Signal) (Signal, error) {
	v, err := addU64(uint64(s), uint64(x))
	return Signal(v), err
}

func (s Signal) Sub(x Signal) (Signal, error) {
	v, err := subU64(uint64(s), uint64(x))
	return Signal(v), err
}

func (s Signal) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (s Shares) Add(x Shares) (Shares, error) {
	v, err := addU64(uint64(s), uint64(x))
	return Shares(v), err
}

func (s Shares) Sub(x Shares) (Shares, error) {
	v, err := subU64(uint64(s), uint64(x))
	return Shares(v), err
}

// Signal converts an ownership weight into vote weight.
func (s Shares) Signal() Signal {
	return Signal(s)
}

func (s Shares) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (b Balance) Add(x Balance) (Balance, error) {
	v, err := addU64(uint64(b), uint64(x))
	return Balance(v), err
}

func (b Balance) Sub(x Balance) (Balance, error) {
	v, err := subU64(uint64(b), uint64(x))
	return Balance(v), err
}

func (b Balance) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// Add returns the block n blocks after b.
func (b BlockNumber) Add(n BlockNumber) (BlockNumber, error) {
	v, err := addU64(uint64(b), uint64(n))
	return BlockNumber(v), err
}

// Clock reports the block the current call executes in.
type Clock interface {
	BlockNumber() BlockNumber
}

// FixedClock is a Clock that never advances.
type FixedClock BlockNumber

func (c FixedClock) BlockNumber() BlockNumber { return BlockNumber(c) }
