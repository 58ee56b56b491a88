// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

type (
	// Block is an ordered batch of envelopes applied at one height
	Block struct {
		height    uint64
		envelopes []Envelope
	}

	blockWire struct {
		Height    uint64
		Envelopes [][]byte
	}
)

// NewBlock creates a block at height
func NewBlock(height uint64, envelopes ...Envelope) *Block {
	return &Block{
		height:    height,
		envelopes: envelopes,
	}
}

// Height returns the height of the block
func (blk *Block) Height() uint64 { return blk.height }

// Envelopes returns the envelopes of the block in order
func (blk *Block) Envelopes() []Envelope { return blk.envelopes }

// Hash returns the keccak256 hash of the serialized block
func (blk *Block) Hash() (common.Hash, error) {
	b, err := blk.Serialize()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// Serialize returns the RLP encoding of the block
func (blk *Block) Serialize() ([]byte, error) {
	w := blockWire{
		Height:    blk.height,
		Envelopes: make([][]byte, 0, len(blk.envelopes)),
	}
	for i, elp := range blk.envelopes {
		b, err := elp.Serialize()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize envelope %d", i)
		}
		w.Envelopes = append(w.Envelopes, b)
	}
	return rlp.EncodeToBytes(&w)
}

// DeserializeBlock decodes a block
func DeserializeBlock(b []byte) (*Block, error) {
	var w blockWire
	if err := decode(b, &w); err != nil {
		return nil, err
	}
	blk := &Block{
		height:    w.Height,
		envelopes: make([]Envelope, 0, len(w.Envelopes)),
	}
	for i, eb := range w.Envelopes {
		elp, err := DeserializeEnvelope(eb)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode envelope %d", i)
		}
		blk.envelopes = append(blk.envelopes, elp)
	}
	return blk, nil
}
