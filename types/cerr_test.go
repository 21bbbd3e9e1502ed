// Package types
package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrKind
	}{
		{"nil", nil, KindUnknown},
		{"foreign", errors.New("boom"), KindUnknown},
		{"threshold", ErrInvalidThreshold, KindConstruction},
		{"wrapped auth", fmt.Errorf("open bank: %w", ErrNotPermittedToOpenBankAccount), KindAuthorization},
		{"deposit", ErrDepositBelowMinimum, KindPrecondition},
		{"missing bank", fmt.Errorf("poll: %w", ErrBankNotFound), KindNotFound},
		{"resolved", ErrSpendAlreadyResolved, KindState},
		{"overflow", fmt.Errorf("tally: %w", ErrOverflow), KindArithmetic},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Kind(tc.err))
		})
	}
}
