// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type (
	// Reserve holds funds of an owner for a recipient, authorized by the owner's signature
	Reserve struct {
		owner          common.Address
		recipient      common.Address
		executor       common.Address
		amount         *big.Int
		fee            *big.Int
		nonce          *big.Int
		expiryBlockNum uint64
		signature      []byte
	}

	reserveWire struct {
		Owner          common.Address
		Recipient      common.Address
		Executor       common.Address
		Amount         *big.Int
		Fee            *big.Int
		Nonce          *big.Int
		ExpiryBlockNum uint64
		Signature      []byte
	}

	reservationRef struct {
		owner common.Address
		nonce *big.Int
	}

	refWire struct {
		Owner common.Address
		Nonce *big.Int
	}

	// Execute settles a reservation
	Execute struct{ reservationRef }

	// Reclaim returns a reservation to its owner
	Reclaim struct{ reservationRef }
)

// NewReserve creates a Reserve action
func NewReserve(
	owner common.Address,
	recipient common.Address,
	executor common.Address,
	amount *big.Int,
	fee *big.Int,
	nonce *big.Int,
	expiryBlockNum uint64,
	signature []byte,
) *Reserve {
	return &Reserve{
		owner:          owner,
		recipient:      recipient,
		executor:       executor,
		amount:         amount,
		fee:            fee,
		nonce:          nonce,
		expiryBlockNum: expiryBlockNum,
		signature:      signature,
	}
}

// Kind returns the action kind
func (*Reserve) Kind() Kind { return ReserveKind }

// Owner returns the owner
func (r *Reserve) Owner() common.Address { return r.owner }

// Recipient returns the recipient
func (r *Reserve) Recipient() common.Address { return r.recipient }

// Executor returns the executor
func (r *Reserve) Executor() common.Address { return r.executor }

// Amount returns the amount
func (r *Reserve) Amount() *big.Int { return r.amount }

// Fee returns the fee
func (r *Reserve) Fee() *big.Int { return r.fee }

// Nonce returns the nonce
func (r *Reserve) Nonce() *big.Int { return r.nonce }

// ExpiryBlockNum returns the last height the reservation can be executed at
func (r *Reserve) ExpiryBlockNum() uint64 { return r.expiryBlockNum }

// Signature returns the owner signature
func (r *Reserve) Signature() []byte { return r.signature }

// SanityCheck validates the variables in the action
func (r *Reserve) SanityCheck() error {
	return checkAmounts(r.amount, r.fee, r.nonce)
}

// Serialize returns the RLP encoding of the action
func (r *Reserve) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&reserveWire{
		Owner:          r.owner,
		Recipient:      r.recipient,
		Executor:       r.executor,
		Amount:         r.amount,
		Fee:            r.fee,
		Nonce:          r.nonce,
		ExpiryBlockNum: r.expiryBlockNum,
		Signature:      r.signature,
	})
}

// Deserialize decodes the RLP encoding of the action
func (r *Reserve) Deserialize(b []byte) error {
	var w reserveWire
	if err := decode(b, &w); err != nil {
		return err
	}
	*r = *NewReserve(w.Owner, w.Recipient, w.Executor, w.Amount, w.Fee, w.Nonce, w.ExpiryBlockNum, w.Signature)
	return nil
}

// NewExecute creates an Execute action
func NewExecute(owner common.Address, nonce *big.Int) *Execute {
	return &Execute{reservationRef{owner: owner, nonce: nonce}}
}

// NewReclaim creates a Reclaim action
func NewReclaim(owner common.Address, nonce *big.Int) *Reclaim {
	return &Reclaim{reservationRef{owner: owner, nonce: nonce}}
}

// Kind returns the action kind
func (*Execute) Kind() Kind { return ExecuteKind }

// Kind returns the action kind
func (*Reclaim) Kind() Kind { return ReclaimKind }

// Owner returns the owner of the reservation
func (rr *reservationRef) Owner() common.Address { return rr.owner }

// Nonce returns the nonce of the reservation
func (rr *reservationRef) Nonce() *big.Int { return rr.nonce }

// SanityCheck validates the variables in the action
func (rr *reservationRef) SanityCheck() error {
	return checkAmounts(rr.nonce)
}

// Serialize returns the RLP encoding of the action
func (rr *reservationRef) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&refWire{Owner: rr.owner, Nonce: rr.nonce})
}

// Deserialize decodes the RLP encoding of the action
func (rr *reservationRef) Deserialize(b []byte) error {
	var w refWire
	if err := decode(b, &w); err != nil {
		return err
	}
	rr.owner, rr.nonce = w.Owner, w.Nonce
	return nil
}
