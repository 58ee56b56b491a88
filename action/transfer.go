// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

type (
	// Burn destroys tokens of the caller
	Burn struct {
		amount *big.Int
	}

	// Transfer moves tokens of the caller to a recipient
	Transfer struct {
		recipient common.Address
		amount    *big.Int
	}

	transferWire struct {
		Recipient common.Address
		Amount    *big.Int
	}

	// ETHlessTransfer is a transfer signed by its owner and submitted by a Gluwa operator
	ETHlessTransfer struct {
		owner     common.Address
		recipient common.Address
		amount    *big.Int
		fee       *big.Int
		nonce     *big.Int
		signature []byte
	}

	ethlessWire struct {
		Owner     common.Address
		Recipient common.Address
		Amount    *big.Int
		Fee       *big.Int
		Nonce     *big.Int
		Signature []byte
	}
)

// NewBurn creates a Burn action
func NewBurn(amount *big.Int) *Burn {
	return &Burn{amount: amount}
}

// Kind returns the action kind
func (*Burn) Kind() Kind { return BurnKind }

// Amount returns the amount
func (b *Burn) Amount() *big.Int { return b.amount }

// SanityCheck validates the variables in the action
func (b *Burn) SanityCheck() error {
	return checkAmounts(b.amount)
}

// Serialize returns the RLP encoding of the action
func (b *Burn) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(b.amount)
}

// Deserialize decodes the RLP encoding of the action
func (b *Burn) Deserialize(data []byte) error {
	b.amount = new(big.Int)
	return decode(data, b.amount)
}

// NewTransfer creates a Transfer action
func NewTransfer(recipient common.Address, amount *big.Int) *Transfer {
	return &Transfer{
		recipient: recipient,
		amount:    amount,
	}
}

// Kind returns the action kind
func (*Transfer) Kind() Kind { return TransferKind }

// Recipient returns the recipient
func (tsf *Transfer) Recipient() common.Address { return tsf.recipient }

// Amount returns the amount
func (tsf *Transfer) Amount() *big.Int { return tsf.amount }

// SanityCheck validates the variables in the action
func (tsf *Transfer) SanityCheck() error {
	return checkAmounts(tsf.amount)
}

// Serialize returns the RLP encoding of the action
func (tsf *Transfer) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&transferWire{Recipient: tsf.recipient, Amount: tsf.amount})
}

// Deserialize decodes the RLP encoding of the action
func (tsf *Transfer) Deserialize(b []byte) error {
	var w transferWire
	if err := decode(b, &w); err != nil {
		return err
	}
	tsf.recipient, tsf.amount = w.Recipient, w.Amount
	return nil
}

// NewETHlessTransfer creates an ETHlessTransfer action
func NewETHlessTransfer(owner, recipient common.Address, amount, fee, nonce *big.Int, signature []byte) *ETHlessTransfer {
	return &ETHlessTransfer{
		owner:     owner,
		recipient: recipient,
		amount:    amount,
		fee:       fee,
		nonce:     nonce,
		signature: signature,
	}
}

// Kind returns the action kind
func (*ETHlessTransfer) Kind() Kind { return ETHlessTransferKind }

// Owner returns the owner whose balance is debited
func (et *ETHlessTransfer) Owner() common.Address { return et.owner }

// Recipient returns the recipient
func (et *ETHlessTransfer) Recipient() common.Address { return et.recipient }

// Amount returns the amount
func (et *ETHlessTransfer) Amount() *big.Int { return et.amount }

// Fee returns the fee collected by the submitter
func (et *ETHlessTransfer) Fee() *big.Int { return et.fee }

// Nonce returns the owner nonce
func (et *ETHlessTransfer) Nonce() *big.Int { return et.nonce }

// Signature returns the owner signature
func (et *ETHlessTransfer) Signature() []byte { return et.signature }

// SanityCheck validates the variables in the action
func (et *ETHlessTransfer) SanityCheck() error {
	return checkAmounts(et.amount, et.fee, et.nonce)
}

// Serialize returns the RLP encoding of the action
func (et *ETHlessTransfer) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&ethlessWire{
		Owner:     et.owner,
		Recipient: et.recipient,
		Amount:    et.amount,
		Fee:       et.fee,
		Nonce:     et.nonce,
		Signature: et.signature,
	})
}

// Deserialize decodes the RLP encoding of the action
func (et *ETHlessTransfer) Deserialize(b []byte) error {
	var w ethlessWire
	if err := decode(b, &w); err != nil {
		return err
	}
	*et = ETHlessTransfer{
		owner:     w.Owner,
		recipient: w.Recipient,
		amount:    w.Amount,
		fee:       w.Fee,
		nonce:     w.Nonce,
		signature: w.Signature,
	}
	return nil
}

func checkAmounts(amounts ...*big.Int) error {
	for _, a := range amounts {
		if a == nil {
			return errors.Wrap(ErrInvalidAction, "missing amount")
		}
		if a.Sign() < 0 {
			return errors.Wrap(ErrInvalidAction, "negative amount")
		}
	}
	return nil
}
