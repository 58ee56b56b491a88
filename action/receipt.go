// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	// FailureReceiptStatus is the status of a rejected action
	FailureReceiptStatus = uint64(0)
	// SuccessReceiptStatus is the status of an applied action
	SuccessReceiptStatus = uint64(1)
)

// Receipt is the outcome of an action in a block
type Receipt struct {
	BlockHeight uint64
	Index       uint32
	ActHash     common.Hash
	Kind        Kind
	Status      uint64
	ErrorKind   string
	Reason      string
}

// Succeeded returns whether the action was applied
func (receipt *Receipt) Succeeded() bool {
	return receipt.Status == SuccessReceiptStatus
}

// Serialize returns the RLP encoding of the receipt
func (receipt *Receipt) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(receipt)
}

// Deserialize decodes the RLP encoding of the receipt
func (receipt *Receipt) Deserialize(b []byte) error {
	return decode(b, receipt)
}

// Receipts is the list of receipts of a block
type Receipts []*Receipt

// Serialize returns the RLP encoding of the receipts
func (rs Receipts) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes([]*Receipt(rs))
}

// Deserialize decodes the RLP encoding of the receipts
func (rs *Receipts) Deserialize(b []byte) error {
	var list []*Receipt
	if err := decode(b, &list); err != nil {
		return err
	}
	*rs = list
	return nil
}
