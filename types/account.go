// Package types
package types

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/kardiachain/go-kardia/lib/common"
)

// AccountID identifies a signer. Signature checks happen upstream of this service.
type AccountID = common.Address

// Hash references off-chain content such as a constitution, topic or justification.
type Hash = common.Hash

type (
	OrgID     uint64
	VoteID    uint64
	BankID    uint64
	SpendID   uint64
	DisputeID uint64
)

// AccountFromUint64 derives a deterministic account, used by genesis files and tests.
func AccountFromUint64(n uint64) AccountID {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return common.BytesToAddress(buf[:])
}

// ParseAccount accepts a hex address or a decimal shorthand ("7").
func ParseAccount(s string) (AccountID, error) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	var n uint64
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && fmt.Sprint(n) == s {
		return AccountFromUint64(n), nil
	}
	return AccountID{}, fmt.Errorf("%w: %q", ErrInvalidAccount, s)
}

// ParseHash parses a 0x-prefixed hex hash.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return Hash{}, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	return common.HexToHash(s), nil
}

// RepKind selects how an organization is represented in a vote or distribution.
type RepKind uint8

const (
	Weighted RepKind = iota
	Equal
)

func (k RepKind) String() string {
	switch k {
	case Weighted:
		return "weighted"
	case Equal:
		return "equal"
	default:
		return "unknown"
	}
}

// OrgRep is either share-weighted or one-member-one-weight representation of an org.
type OrgRep struct {
	Kind RepKind `json:"kind" bson:"kind"`
	Org  OrgID   `json:"org" bson:"org"`
}

func WeightedRep(org OrgID) OrgRep { return OrgRep{Kind: Weighted, Org: org} }

func EqualRep(org OrgID) OrgRep { return OrgRep{Kind: Equal, Org: org} }

func (r OrgRep) String() string {
	return fmt.Sprintf("%s(%d)", r.Kind, r.Org)
}

// BankSpend addresses a spend proposal inside a bank.
type BankSpend struct {
	Bank  BankID  `json:"bank" bson:"bank"`
	Spend SpendID `json:"spend" bson:"spend"`
}

func NewBankSpend(bank BankID, spend SpendID) BankSpend {
	return BankSpend{Bank: bank, Spend: spend}
}

func (b BankSpend) String() string {
	return fmt.Sprintf("%d/%d", b.Bank, b.Spend)
}
