// Package types
package types

import (
	"errors"
)

// ErrKind groups sentinel errors the way callers react to them.
type ErrKind uint8

const (
	KindUnknown ErrKind = iota
	KindConstruction
	KindAuthorization
	KindPrecondition
	KindNotFound
	KindState
	KindArithmetic
)

func (k ErrKind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindAuthorization:
		return "authorization"
	case KindPrecondition:
		return "precondition"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindArithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// Construction
var (
	ErrInvalidThreshold  = errors.New("support threshold must be below turnout threshold")
	ErrInvalidGenesis    = errors.New("share genesis total does not match ownership")
	ErrEmptyOrganization = errors.New("organization must have at least one member")
	ErrInvalidAccount    = errors.New("invalid account")
	ErrInvalidHash       = errors.New("invalid hash")
)

// Authorization
var (
	ErrNotAuthorized                 = errors.New("caller not authorized")
	ErrNotPermittedToOpenBankAccount = errors.New("caller not permitted to open bank account for org")
	ErrNotAuthorizedToRaiseDispute   = errors.New("caller not authorized to raise dispute")
	ErrNotAuthorizedToApproveSpend   = errors.New("caller not authorized to approve spend")
)

// Precondition
var (
	ErrDepositBelowMinimum = errors.New("deposit below minimum")
	ErrTooManyBankAccounts = errors.New("too many bank accounts for org")
	ErrDisputeBelowMinimum = errors.New("dispute amount below minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientFunds   = errors.New("insufficient funds for donation")
	ErrExistentialDeposit  = errors.New("transfer would kill account")
	ErrSharesLocked        = errors.New("shares locked")
	ErrSharesReserved      = errors.New("shares reserved")
	ErrNoOwnershipInOrg    = errors.New("account has no ownership in org")
	ErrZeroAmount          = errors.New("amount must be positive")
)

// Not found
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrOrgNotFound     = errors.New("organization not found")
	ErrProfileNotFound = errors.New("share profile not found")
	ErrVoteNotFound    = errors.New("vote not found")
	ErrBankNotFound    = errors.New("bank not found")
	ErrSpendNotFound   = errors.New("spend not found")
	ErrDisputeNotFound = errors.New("dispute not found")
)

// State
var (
	ErrRecordExist             = errors.New("record exist")
	ErrVoteDecided             = errors.New("vote already decided")
	ErrVoteNotStarted          = errors.New("vote not started")
	ErrVoteExpired             = errors.New("vote expired")
	ErrVoteOutcomeInconclusive = errors.New("vote outcome inconclusive")
	ErrSpendAlreadyResolved    = errors.New("spend already resolved")
	ErrSpendNotUnderVote       = errors.New("spend not under vote")
	ErrSpendNotWaiting         = errors.New("spend not waiting for approval")
	ErrDisputeNotRegistered    = errors.New("dispute not in registered state")
	ErrDisputeCannotBePolled   = errors.New("dispute cannot be polled")
)

// Arithmetic
var (
	ErrOverflow  = errors.New("arithmetic overflow")
	ErrUnderflow = errors.New("arithmetic underflow")
)

var kinds = []struct {
	kind ErrKind
	errs []error
}{
	{KindConstruction, []error{ErrInvalidThreshold, ErrInvalidGenesis, ErrEmptyOrganization, ErrInvalidAccount, ErrInvalidHash}},
	{KindAuthorization, []error{ErrNotAuthorized, ErrNotPermittedToOpenBankAccount, ErrNotAuthorizedToRaiseDispute, ErrNotAuthorizedToApproveSpend}},
	{KindPrecondition, []error{ErrDepositBelowMinimum, ErrTooManyBankAccounts, ErrDisputeBelowMinimum, ErrInsufficientBalance,
		ErrInsufficientFunds, ErrExistentialDeposit, ErrSharesLocked, ErrSharesReserved, ErrNoOwnershipInOrg, ErrZeroAmount}},
	{KindNotFound, []error{ErrRecordNotFound, ErrOrgNotFound, ErrProfileNotFound, ErrVoteNotFound, ErrBankNotFound,
		ErrSpendNotFound, ErrDisputeNotFound}},
	{KindState, []error{ErrRecordExist, ErrVoteDecided, ErrVoteNotStarted, ErrVoteExpired, ErrVoteOutcomeInconclusive,
		ErrSpendAlreadyResolved, ErrSpendNotUnderVote, ErrSpendNotWaiting, ErrDisputeNotRegistered, ErrDisputeCannotBePolled}},
	{KindArithmetic, []error{ErrOverflow, ErrUnderflow}},
}

// Kind reports the kind of the first known sentinel wrapped by err.
func Kind(err error) ErrKind {
	if err == nil {
		return KindUnknown
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindUnknown
}
