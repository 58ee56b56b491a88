// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Account is the ledger record of an address. Reserved is the part of Balance held by
// active reservations, it never exceeds Balance.
type Account struct {
	Balance  *big.Int
	Reserved *big.Int
}

// NewAccount returns an empty account
func NewAccount() *Account {
	return &Account{
		Balance:  big.NewInt(0),
		Reserved: big.NewInt(0),
	}
}

// Serialize serializes account state into bytes
func (st *Account) Serialize() ([]byte, error) {
	b, err := rlp.EncodeToBytes(st)
	if err != nil {
		return nil, errors.Wrap(ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into account state
func (st *Account) Deserialize(ss []byte) error {
	if err := rlp.DecodeBytes(ss, st); err != nil {
		return errors.Wrap(ErrStateDeserialization, err.Error())
	}
	return nil
}

// Unreserved returns the balance not held by any reservation
func (st *Account) Unreserved() *big.Int {
	return new(big.Int).Sub(st.Balance, st.Reserved)
}

// AddBalance adds balance for account state
func (st *Account) AddBalance(amount *big.Int) {
	st.Balance.Add(st.Balance, amount)
}

// SubBalance subtracts from the unreserved balance of account state
func (st *Account) SubBalance(amount *big.Int) error {
	if amount.Cmp(st.Unreserved()) > 0 {
		return ErrNotEnoughBalance
	}
	st.Balance.Sub(st.Balance, amount)
	return nil
}

// Hold moves amount from the unreserved balance into the reserved balance
func (st *Account) Hold(amount *big.Int) error {
	if amount.Cmp(st.Unreserved()) > 0 {
		return ErrNotEnoughBalance
	}
	st.Reserved.Add(st.Reserved, amount)
	return nil
}

// Release moves amount from the reserved balance back to the unreserved balance
func (st *Account) Release(amount *big.Int) error {
	if amount.Cmp(st.Reserved) > 0 {
		return ErrNotEnoughReserved
	}
	st.Reserved.Sub(st.Reserved, amount)
	return nil
}

// SpendHold removes amount from both the reserved and the total balance
func (st *Account) SpendHold(amount *big.Int) error {
	if err := st.Release(amount); err != nil {
		return err
	}
	st.Balance.Sub(st.Balance, amount)
	return nil
}

