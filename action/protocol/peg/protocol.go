// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package peg registers cross-chain pegs and mints them once both operators approve.
package peg

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/role"
	"github.com/gluwa/gluwacoin-ledger/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "peg"

	// PegNamespace is the namespace of peg records
	PegNamespace = "Peg"
)

// Reasons of peg rejections
const (
	ReasonInvalidHash          = "invalid bytes32 value"
	ReasonUnauthorized         = "Peggable: caller does not have the Gluwa role or the Luniverse role"
	ReasonAlreadyPegged        = "Peggable: the txnHash is already pegged"
	ReasonNotPegged            = "Peggable: the txnHash is not pegged"
	ReasonGluwaApproved        = "Peggable: the txnHash is already Gluwa Approved"
	ReasonLuniverseApproved    = "Peggable: the txnHash is already Luniverse Approved"
	ReasonNotGluwaApproved     = "Peggable: the txnHash is not Gluwa Approved"
	ReasonNotLuniverseApproved = "Peggable: the txnHash is not Luniverse Approved"
	ReasonProcessed            = "Peggable: the txnHash is already processed"
)

type (
	// Peg is a registered cross-chain deposit
	Peg struct {
		Amount            *big.Int
		Sender            common.Address
		GluwaApproved     bool
		LuniverseApproved bool
		Processed         bool
	}

	// Protocol is the peg registry
	Protocol struct {
		roles  *role.Protocol
		ledger *account.Protocol
	}
)

// ParseTxnHash parses a 32-byte identifier given as 64 hex digits with an optional 0x prefix
func ParseTxnHash(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, protocol.Reject(protocol.ErrInvalidIdentifier, ReasonInvalidHash)
	}
	return common.BytesToHash(b), nil
}

// NewProtocol instantiates the peg registry
func NewProtocol(roles *role.Protocol, ledger *account.Protocol) *Protocol {
	return &Protocol{
		roles:  roles,
		ledger: ledger,
	}
}

// Peg registers txnHash for amount to be credited to sender once approved and minted
func (p *Protocol) Peg(ctx context.Context, sm protocol.StateManager, txnHash common.Hash, amount *big.Int, sender common.Address) error {
	if err := p.checkOperator(ctx, sm); err != nil {
		return err
	}
	if err := protocol.ValidateAmount(amount); err != nil {
		return err
	}
	if sender == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroAddress, account.ReasonMintToZero)
	}
	pegged, err := p.IsPegged(sm, txnHash)
	if err != nil {
		return err
	}
	if pegged {
		return protocol.Reject(protocol.ErrAlreadyExists, ReasonAlreadyPegged)
	}
	return p.putPeg(sm, txnHash, &Peg{
		Amount: new(big.Int).Set(amount),
		Sender: sender,
	})
}

// GetPeg returns the peg registered under txnHash
func (p *Protocol) GetPeg(sr protocol.StateReader, txnHash common.Hash) (*Peg, error) {
	pg := &Peg{}
	err := sr.State(pg, protocol.NamespaceOption(PegNamespace), protocol.KeyOption(txnHash.Bytes()))
	switch errors.Cause(err) {
	case nil:
		return pg, nil
	case state.ErrStateNotExist:
		return nil, protocol.Reject(protocol.ErrNotFound, ReasonNotPegged)
	default:
		return nil, errors.Wrapf(err, "failed to load peg %s", txnHash.Hex())
	}
}

// IsPegged returns whether txnHash is registered
func (p *Protocol) IsPegged(sr protocol.StateReader, txnHash common.Hash) (bool, error) {
	_, err := p.GetPeg(sr, txnHash)
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case protocol.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

// GluwaApprove records the Gluwa approval of txnHash
func (p *Protocol) GluwaApprove(ctx context.Context, sm protocol.StateManager, txnHash common.Hash) error {
	if err := p.roles.CheckRole(ctx, sm, role.Gluwa); err != nil {
		return err
	}
	pg, err := p.GetPeg(sm, txnHash)
	if err != nil {
		return err
	}
	if pg.GluwaApproved {
		return protocol.Reject(protocol.ErrAlreadyApproved, ReasonGluwaApproved)
	}
	pg.GluwaApproved = true
	return p.putPeg(sm, txnHash, pg)
}

// LuniverseApprove records the Luniverse approval of txnHash
func (p *Protocol) LuniverseApprove(ctx context.Context, sm protocol.StateManager, txnHash common.Hash) error {
	if err := p.roles.CheckRole(ctx, sm, role.Luniverse); err != nil {
		return err
	}
	pg, err := p.GetPeg(sm, txnHash)
	if err != nil {
		return err
	}
	if pg.LuniverseApproved {
		return protocol.Reject(protocol.ErrAlreadyApproved, ReasonLuniverseApproved)
	}
	pg.LuniverseApproved = true
	return p.putPeg(sm, txnHash, pg)
}

// Mint credits the sender of an approved peg and marks it processed. It returns the minted peg.
func (p *Protocol) Mint(ctx context.Context, sm protocol.StateManager, txnHash common.Hash) (*Peg, error) {
	if err := p.checkOperator(ctx, sm); err != nil {
		return nil, err
	}
	pg, err := p.GetPeg(sm, txnHash)
	if err != nil {
		return nil, err
	}
	switch {
	case !pg.GluwaApproved:
		return nil, protocol.Reject(protocol.ErrNotApproved, ReasonNotGluwaApproved)
	case !pg.LuniverseApproved:
		return nil, protocol.Reject(protocol.ErrNotApproved, ReasonNotLuniverseApproved)
	case pg.Processed:
		return nil, protocol.Reject(protocol.ErrAlreadyProcessed, ReasonProcessed)
	}
	pg.Processed = true
	if err := p.putPeg(sm, txnHash, pg); err != nil {
		return nil, err
	}
	if err := p.ledger.Mint(sm, pg.Sender, pg.Amount); err != nil {
		return nil, err
	}
	return pg, nil
}

func (p *Protocol) checkOperator(ctx context.Context, sr protocol.StateReader) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	for _, r := range []role.Role{role.Gluwa, role.Luniverse} {
		has, err := p.roles.HasRole(sr, r, caller)
		if err != nil {
			return err
		}
		if has {
			return nil
		}
	}
	return protocol.Reject(protocol.ErrUnauthorized, ReasonUnauthorized)
}

func (p *Protocol) putPeg(sm protocol.StateManager, txnHash common.Hash, pg *Peg) error {
	return sm.PutState(pg, protocol.NamespaceOption(PegNamespace), protocol.KeyOption(txnHash.Bytes()))
}

// Serialize serializes the peg into bytes
func (pg *Peg) Serialize() ([]byte, error) {
	b, err := rlp.EncodeToBytes(pg)
	if err != nil {
		return nil, errors.Wrap(state.ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into the peg
func (pg *Peg) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, pg); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	return nil
}
