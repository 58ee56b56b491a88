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
	pegRef struct {
		txnHash string
	}

	// Peg registers a deposit made on the peg chain
	Peg struct {
		pegRef
		amount *big.Int
		sender common.Address
	}

	pegWire struct {
		TxnHash string
		Amount  *big.Int
		Sender  common.Address
	}

	// GluwaApprove approves a peg as the Gluwa operator
	GluwaApprove struct{ pegRef }

	// LuniverseApprove approves a peg as the Luniverse operator
	LuniverseApprove struct{ pegRef }

	// Mint mints an approved peg
	Mint struct{ pegRef }
)

// NewPeg creates a Peg action
func NewPeg(txnHash string, amount *big.Int, sender common.Address) *Peg {
	return &Peg{
		pegRef: pegRef{txnHash: txnHash},
		amount: amount,
		sender: sender,
	}
}

// NewGluwaApprove creates a GluwaApprove action
func NewGluwaApprove(txnHash string) *GluwaApprove {
	return &GluwaApprove{pegRef{txnHash: txnHash}}
}

// NewLuniverseApprove creates a LuniverseApprove action
func NewLuniverseApprove(txnHash string) *LuniverseApprove {
	return &LuniverseApprove{pegRef{txnHash: txnHash}}
}

// NewMint creates a Mint action
func NewMint(txnHash string) *Mint {
	return &Mint{pegRef{txnHash: txnHash}}
}

// TxnHash returns the peg transaction hash as submitted
func (pr *pegRef) TxnHash() string { return pr.txnHash }

// SanityCheck validates the variables in the action
func (pr *pegRef) SanityCheck() error { return nil }

// Serialize returns the RLP encoding of the action
func (pr *pegRef) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(pr.txnHash)
}

// Deserialize decodes the RLP encoding of the action
func (pr *pegRef) Deserialize(b []byte) error {
	return decode(b, &pr.txnHash)
}

// Kind returns the action kind
func (*Peg) Kind() Kind { return PegKind }

// Amount returns the amount
func (pg *Peg) Amount() *big.Int { return pg.amount }

// Sender returns the address credited when the peg is minted
func (pg *Peg) Sender() common.Address { return pg.sender }

// SanityCheck validates the variables in the action
func (pg *Peg) SanityCheck() error {
	return checkAmounts(pg.amount)
}

// Serialize returns the RLP encoding of the action
func (pg *Peg) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&pegWire{
		TxnHash: pg.txnHash,
		Amount:  pg.amount,
		Sender:  pg.sender,
	})
}

// Deserialize decodes the RLP encoding of the action
func (pg *Peg) Deserialize(b []byte) error {
	var w pegWire
	if err := decode(b, &w); err != nil {
		return err
	}
	pg.txnHash, pg.amount, pg.sender = w.TxnHash, w.Amount, w.Sender
	return nil
}

// Kind returns the action kind
func (*GluwaApprove) Kind() Kind { return GluwaApproveKind }

// Kind returns the action kind
func (*LuniverseApprove) Kind() Kind { return LuniverseApproveKind }

// Kind returns the action kind
func (*Mint) Kind() Kind { return MintKind }
