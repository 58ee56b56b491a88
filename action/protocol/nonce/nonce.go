// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package nonce tracks the nonces consumed by each owner, one independent space per subsystem.
package nonce

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/byteutil"
	"github.com/gluwa/gluwacoin-ledger/state"
)

// Nonce spaces
const (
	Reservation Space = "NonceReservation"
	ETHless     Space = "NonceETHless"
)

type (
	// Space is an independent nonce namespace
	Space string

	// Tracker records used nonces
	Tracker struct{}

	used struct{}
)

// NewTracker creates a nonce tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// IsUsed returns whether owner already consumed n in space s
func (tr *Tracker) IsUsed(sr protocol.StateReader, s Space, owner common.Address, n *big.Int) (bool, error) {
	err := sr.State(&used{}, protocol.NamespaceOption(string(s)), protocol.KeyOption(Key(owner, n)))
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case state.ErrStateNotExist:
		return false, nil
	default:
		return false, errors.Wrapf(err, "failed to read nonce %s of %s", n, owner.Hex())
	}
}

// Use marks n as consumed by owner in space s. It fails with ErrNonceReused if n was consumed before.
func (tr *Tracker) Use(sm protocol.StateManager, s Space, owner common.Address, n *big.Int, reason string) error {
	isUsed, err := tr.IsUsed(sm, s, owner, n)
	if err != nil {
		return err
	}
	if isUsed {
		return protocol.Reject(protocol.ErrNonceReused, reason)
	}
	return sm.PutState(&used{}, protocol.NamespaceOption(string(s)), protocol.KeyOption(Key(owner, n)))
}

// Key is the state key of (owner, n): the address followed by n as a 32-byte big-endian word
func Key(owner common.Address, n *big.Int) []byte {
	k := make([]byte, 0, common.AddressLength+32)
	k = append(k, owner.Bytes()...)
	w := byteutil.BytesTo32B(n.Bytes())
	return append(k, w[:]...)
}

func (u *used) Serialize() ([]byte, error) { return []byte{1}, nil }

func (u *used) Deserialize([]byte) error { return nil }
