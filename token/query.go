// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/peg"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/reservation"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/role"
	"github.com/gluwa/gluwacoin-ledger/state"
)

// Height returns the height of the last applied block
func (t *Token) Height() (uint64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sf.Height()
}

// HasRole returns whether addr holds r
func (t *Token) HasRole(r role.Role, addr common.Address) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roles.HasRole(t.sf, r, addr)
}

// Members returns the holders of r
func (t *Token) Members(r role.Role) ([]common.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roles.Members(t.sf, r)
}

// MemberCount returns the number of holders of r, tracked for the Gatekeeper role only
func (t *Token) MemberCount(r role.Role) (uint64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roles.MemberCount(t.sf, r)
}

// Bootstrapper returns the deployer the roles were bootstrapped with
func (t *Token) Bootstrapper() (common.Address, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roles.Bootstrapper(t.sf)
}

// GetPeg returns the peg registered under txnHash
func (t *Token) GetPeg(txnHash string) (*peg.Peg, error) {
	h, err := peg.ParseTxnHash(txnHash)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pegs.GetPeg(t.sf, h)
}

// IsPegged returns whether txnHash is registered
func (t *Token) IsPegged(txnHash string) (bool, error) {
	h, err := peg.ParseTxnHash(txnHash)
	if err != nil {
		return false, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pegs.IsPegged(t.sf, h)
}

// GetReservation returns the reservation of owner under n
func (t *Token) GetReservation(owner common.Address, n *big.Int) (*reservation.Reservation, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reservations.GetReservation(t.sf, owner, n)
}

// IsNonceUsed returns whether owner consumed n in space s
func (t *Token) IsNonceUsed(s nonce.Space, owner common.Address, n *big.Int) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nonces.IsUsed(t.sf, s, owner, n)
}

// BalanceOf returns the total balance of addr, reserved funds included
func (t *Token) BalanceOf(addr common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.BalanceOf(t.sf, addr)
}

// ReservedBalanceOf returns the part of the balance of addr held by active reservations
func (t *Token) ReservedBalanceOf(addr common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.ReservedBalanceOf(t.sf, addr)
}

// UnreservedBalanceOf returns the spendable balance of addr
func (t *Token) UnreservedBalanceOf(addr common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.UnreservedBalanceOf(t.sf, addr)
}

// TotalSupply returns the total supply
func (t *Token) TotalSupply() (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.TotalSupply(t.sf)
}

// ReceiptsByHeight returns the receipts of the block at height
func (t *Token) ReceiptsByHeight(height uint64) (action.Receipts, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var receipts action.Receipts
	err := t.sf.State(&receipts, protocol.NamespaceOption(ReceiptNamespace), protocol.KeyOption(heightKey(height)))
	if errors.Cause(err) == state.ErrStateNotExist {
		return nil, errors.Wrapf(protocol.ErrNotFound, "no receipts at height %d", height)
	}
	return receipts, err
}
