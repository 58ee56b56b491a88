// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package account is the ledger: balances, reserved pools and the total supply.
package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "account"

	// AccountNamespace is the namespace of account records
	AccountNamespace = "Account"
	// SupplyNamespace is the namespace of the total supply record
	SupplyNamespace = "Supply"
)

var _supplyKey = []byte("totalSupply")

// Reasons of ledger rejections
const (
	ReasonExceedsUnreserved = "Reservable: transfer amount exceeds unreserved balance"
	ReasonTransferToZero    = "ERC20: transfer to the zero address"
	ReasonMintToZero        = "ERC20: mint to the zero address"
	ReasonInsufficient      = "ERC20: transfer amount exceeds balance"
	ReasonSupplyUnderflow   = "ERC20: burn amount exceeds total supply"
)

type (
	// Protocol is the ledger. It is the only writer of balance state.
	Protocol struct{}

	supply struct {
		Amount *big.Int
	}
)

// NewProtocol instantiates the ledger protocol
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Account returns the record of addr, an empty one if it was never touched
func (p *Protocol) Account(sr protocol.StateReader, addr common.Address) (*state.Account, error) {
	acct := state.NewAccount()
	err := sr.State(acct, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes()))
	switch errors.Cause(err) {
	case nil, state.ErrStateNotExist:
		return acct, nil
	default:
		return nil, errors.Wrapf(err, "failed to load account of %s", addr.Hex())
	}
}

// PutAccount stores the record of addr
func (p *Protocol) PutAccount(sm protocol.StateManager, addr common.Address, acct *state.Account) error {
	return sm.PutState(acct, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes()))
}

// BalanceOf returns the total balance of addr, reserved funds included
func (p *Protocol) BalanceOf(sr protocol.StateReader, addr common.Address) (*big.Int, error) {
	acct, err := p.Account(sr, addr)
	if err != nil {
		return nil, err
	}
	return acct.Balance, nil
}

// ReservedBalanceOf returns the part of the balance of addr held by active reservations
func (p *Protocol) ReservedBalanceOf(sr protocol.StateReader, addr common.Address) (*big.Int, error) {
	acct, err := p.Account(sr, addr)
	if err != nil {
		return nil, err
	}
	return acct.Reserved, nil
}

// UnreservedBalanceOf returns the spendable balance of addr
func (p *Protocol) UnreservedBalanceOf(sr protocol.StateReader, addr common.Address) (*big.Int, error) {
	acct, err := p.Account(sr, addr)
	if err != nil {
		return nil, err
	}
	return acct.Unreserved(), nil
}

// TotalSupply returns the total supply
func (p *Protocol) TotalSupply(sr protocol.StateReader) (*big.Int, error) {
	s, err := p.supply(sr)
	if err != nil {
		return nil, err
	}
	return s.Amount, nil
}

// Credit adds amount to the balance of addr
func (p *Protocol) Credit(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	acct, err := p.Account(sm, addr)
	if err != nil {
		return err
	}
	if _, err := protocol.SafeAdd(acct.Balance, amount); err != nil {
		return err
	}
	acct.AddBalance(amount)
	return p.PutAccount(sm, addr, acct)
}

// Debit subtracts amount from the unreserved balance of addr
func (p *Protocol) Debit(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	acct, err := p.Account(sm, addr)
	if err != nil {
		return err
	}
	if err := acct.SubBalance(amount); err != nil {
		if acct.Balance.Cmp(amount) >= 0 {
			return protocol.Reject(protocol.ErrInsufficientUnreserved, ReasonExceedsUnreserved)
		}
		return protocol.Reject(protocol.ErrInsufficientFunds, ReasonInsufficient)
	}
	return p.PutAccount(sm, addr, acct)
}

// Mint credits addr with amount and raises the total supply
func (p *Protocol) Mint(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	if err := protocol.ValidateAmount(amount); err != nil {
		return err
	}
	if addr == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroAddress, ReasonMintToZero)
	}
	s, err := p.supply(sm)
	if err != nil {
		return err
	}
	if s.Amount, err = protocol.SafeAdd(s.Amount, amount); err != nil {
		return err
	}
	if err := p.Credit(sm, addr, amount); err != nil {
		return err
	}
	return p.putSupply(sm, s)
}

// Burn destroys amount of the caller's unreserved balance and lowers the total supply
func (p *Protocol) Burn(ctx context.Context, sm protocol.StateManager, amount *big.Int) error {
	if err := protocol.ValidateAmount(amount); err != nil {
		return err
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	acct, err := p.Account(sm, caller)
	if err != nil {
		return err
	}
	if amount.Cmp(acct.Unreserved()) > 0 {
		return protocol.Reject(protocol.ErrInsufficientUnreserved, ReasonExceedsUnreserved)
	}
	s, err := p.supply(sm)
	if err != nil {
		return err
	}
	if s.Amount.Cmp(amount) < 0 {
		return protocol.Reject(protocol.ErrInsufficientFunds, ReasonSupplyUnderflow)
	}
	s.Amount.Sub(s.Amount, amount)
	if err := p.Debit(sm, caller, amount); err != nil {
		return err
	}
	return p.putSupply(sm, s)
}

// Transfer moves amount of the caller's unreserved balance to recipient
func (p *Protocol) Transfer(ctx context.Context, sm protocol.StateManager, recipient common.Address, amount *big.Int) error {
	if err := protocol.ValidateAmount(amount); err != nil {
		return err
	}
	if recipient == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroAddress, ReasonTransferToZero)
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	if err := p.Debit(sm, caller, amount); err != nil {
		return err
	}
	return p.Credit(sm, recipient, amount)
}

// Hold moves amount of the unreserved balance of addr into its reserved pool
func (p *Protocol) Hold(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	acct, err := p.Account(sm, addr)
	if err != nil {
		return err
	}
	if err := acct.Hold(amount); err != nil {
		return protocol.Reject(protocol.ErrInsufficientFunds, "Reservable: insufficient unreserved balance")
	}
	return p.PutAccount(sm, addr, acct)
}

// Release returns amount from the reserved pool of addr to its unreserved balance
func (p *Protocol) Release(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	acct, err := p.Account(sm, addr)
	if err != nil {
		return err
	}
	if err := acct.Release(amount); err != nil {
		return errors.Wrapf(err, "failed to release %s of %s", amount, addr.Hex())
	}
	return p.PutAccount(sm, addr, acct)
}

// SpendHold removes amount from the reserved pool and the balance of addr
func (p *Protocol) SpendHold(sm protocol.StateManager, addr common.Address, amount *big.Int) error {
	acct, err := p.Account(sm, addr)
	if err != nil {
		return err
	}
	if err := acct.SpendHold(amount); err != nil {
		return errors.Wrapf(err, "failed to spend hold %s of %s", amount, addr.Hex())
	}
	return p.PutAccount(sm, addr, acct)
}

func (p *Protocol) supply(sr protocol.StateReader) (*supply, error) {
	s := &supply{Amount: big.NewInt(0)}
	err := sr.State(s, protocol.NamespaceOption(SupplyNamespace), protocol.KeyOption(_supplyKey))
	if err != nil && errors.Cause(err) != state.ErrStateNotExist {
		return nil, errors.Wrap(err, "failed to load total supply")
	}
	return s, nil
}

func (p *Protocol) putSupply(sm protocol.StateManager, s *supply) error {
	return sm.PutState(s, protocol.NamespaceOption(SupplyNamespace), protocol.KeyOption(_supplyKey))
}

func (s *supply) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

func (s *supply) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, s); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	return nil
}
