// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
)

// Name returns the protocol name
func (p *Protocol) Name() string { return ProtocolID }

// Handle handles burns and plain transfers
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*protocol.Result, error) {
	caller := protocol.MustGetActionCtx(ctx).Caller
	height := protocol.MustGetBlockCtx(ctx).BlockHeight
	switch act := act.(type) {
	case *action.Burn:
		if err := p.Burn(ctx, sm, act.Amount()); err != nil {
			return nil, err
		}
		return protocol.NewResult(
			TransferEvent(height, caller, common.Address{}, act.Amount()),
			protocol.NewEvent(protocol.EventBurnt, height,
				"burner", caller.Hex(),
				"value", act.Amount().String(),
			),
		), nil
	case *action.Transfer:
		if err := p.Transfer(ctx, sm, act.Recipient(), act.Amount()); err != nil {
			return nil, err
		}
		return protocol.NewResult(TransferEvent(height, caller, act.Recipient(), act.Amount())), nil
	}
	return nil, nil
}

// TransferEvent is the event of value moving from one address to another. Mints come from and burns go to the
// zero address.
func TransferEvent(height uint64, from, to common.Address, value *big.Int) protocol.Event {
	return protocol.NewEvent(protocol.EventTransfer, height,
		"from", from.Hex(),
		"to", to.Hex(),
		"value", value.String(),
	)
}
