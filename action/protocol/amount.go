// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"math/big"

	"github.com/holiman/uint256"
)

// ValidateAmount checks that every amount is present and fits in an unsigned 256-bit word
func ValidateAmount(amounts ...*big.Int) error {
	for _, amount := range amounts {
		if amount == nil || amount.Sign() < 0 {
			return Reject(ErrInvalidAmount, "amount must be non-negative")
		}
		if _, overflow := uint256.FromBig(amount); overflow {
			return Reject(ErrInvalidAmount, "amount exceeds 256 bits")
		}
	}
	return nil
}

// SafeAdd returns a + b, rejecting sums that do not fit in 256 bits
func SafeAdd(a, b *big.Int) (*big.Int, error) {
	x, overflow := uint256.FromBig(a)
	if overflow {
		return nil, Reject(ErrInvalidAmount, "amount exceeds 256 bits")
	}
	y, overflow := uint256.FromBig(b)
	if overflow {
		return nil, Reject(ErrInvalidAmount, "amount exceeds 256 bits")
	}
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, Reject(ErrInvalidAmount, "SafeMath: addition overflow")
	}
	return sum.ToBig(), nil
}
