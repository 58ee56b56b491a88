// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package ethless settles transfers signed by an owner and submitted by a Gluwa operator on the owner's behalf.
package ethless

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/role"
	"github.com/gluwa/gluwacoin-ledger/crypto"
)

// ProtocolID is the protocol ID
const ProtocolID = "ethless"

// Reasons of ETH-less transfer rejections
const (
	ReasonInvalidSignature = "Validate: invalid signature"
	ReasonNonceUsed        = "ETHless: the nonce has already been used for this address"
)

type (
	// Request is a transfer signed by Owner
	Request struct {
		Owner     common.Address
		Recipient common.Address
		Amount    *big.Int
		Fee       *big.Int
		Nonce     *big.Int
		Signature []byte
	}

	// Protocol settles ETH-less transfers
	Protocol struct {
		roles    *role.Protocol
		ledger   *account.Protocol
		nonces   *nonce.Tracker
		verifier crypto.Verifier
	}
)

// NewProtocol instantiates the ETH-less transfer protocol
func NewProtocol(roles *role.Protocol, ledger *account.Protocol, nonces *nonce.Tracker, verifier crypto.Verifier) *Protocol {
	return &Protocol{
		roles:    roles,
		ledger:   ledger,
		nonces:   nonces,
		verifier: verifier,
	}
}

// Transfer debits the owner by amount+fee, credits the recipient with amount and the submitting operator with fee
func (p *Protocol) Transfer(ctx context.Context, sm protocol.StateManager, req *Request) error {
	if err := p.roles.CheckRole(ctx, sm, role.Gluwa); err != nil {
		return err
	}
	if err := protocol.ValidateAmount(req.Amount, req.Fee, req.Nonce); err != nil {
		return err
	}
	if req.Recipient == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroAddress, account.ReasonTransferToZero)
	}
	total, err := protocol.SafeAdd(req.Amount, req.Fee)
	if err != nil {
		return err
	}
	hash, err := crypto.TransferHash(protocol.MustGetChainCtx(ctx).Contract, req.Owner, req.Recipient, req.Amount, req.Fee, req.Nonce)
	if err != nil {
		return protocol.Reject(protocol.ErrInvalidAmount, err.Error())
	}
	if !crypto.IsSignedBy(p.verifier, hash, req.Signature, req.Owner) {
		return protocol.Reject(protocol.ErrInvalidSignature, ReasonInvalidSignature)
	}
	if err := p.nonces.Use(sm, nonce.ETHless, req.Owner, req.Nonce, ReasonNonceUsed); err != nil {
		return err
	}
	unreserved, err := p.ledger.UnreservedBalanceOf(sm, req.Owner)
	if err != nil {
		return err
	}
	if total.Cmp(unreserved) > 0 {
		return protocol.Reject(protocol.ErrInsufficientFunds, account.ReasonExceedsUnreserved)
	}
	if err := p.ledger.Debit(sm, req.Owner, total); err != nil {
		return err
	}
	if err := p.ledger.Credit(sm, req.Recipient, req.Amount); err != nil {
		return err
	}
	return p.ledger.Credit(sm, protocol.MustGetActionCtx(ctx).Caller, req.Fee)
}
