// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package reservation

import (
	"context"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
)

// Name returns the protocol name
func (p *Protocol) Name() string { return ProtocolID }

// Handle handles the reservation actions
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*protocol.Result, error) {
	height := protocol.MustGetBlockCtx(ctx).BlockHeight
	switch act := act.(type) {
	case *action.Reserve:
		req := &Request{
			Owner:          act.Owner(),
			Recipient:      act.Recipient(),
			Executor:       act.Executor(),
			Amount:         act.Amount(),
			Fee:            act.Fee(),
			Nonce:          act.Nonce(),
			ExpiryBlockNum: act.ExpiryBlockNum(),
			Signature:      act.Signature(),
		}
		if err := p.Reserve(ctx, sm, req); err != nil {
			return nil, err
		}
		return protocol.NewResult(protocol.NewEvent(protocol.EventReserved, height,
			"owner", req.Owner.Hex(),
			"nonce", req.Nonce.String(),
			"recipient", req.Recipient.Hex(),
			"executor", req.Executor.Hex(),
			"amount", req.Amount.String(),
			"fee", req.Fee.String(),
			"expiryBlockNum", strconv.FormatUint(req.ExpiryBlockNum, 10),
		)), nil
	case *action.Execute:
		r, err := p.Execute(ctx, sm, act.Owner(), act.Nonce())
		if err != nil {
			return nil, err
		}
		return protocol.NewResult(
			account.TransferEvent(height, act.Owner(), r.Recipient, r.Amount),
			account.TransferEvent(height, act.Owner(), r.Executor, r.Fee),
			resolvedEvent(protocol.EventExecuted, height, act.Owner(), act.Nonce()),
		), nil
	case *action.Reclaim:
		if _, err := p.Reclaim(ctx, sm, act.Owner(), act.Nonce()); err != nil {
			return nil, err
		}
		return protocol.NewResult(resolvedEvent(protocol.EventReclaimed, height, act.Owner(), act.Nonce())), nil
	}
	return nil, nil
}

func resolvedEvent(name string, height uint64, owner common.Address, n *big.Int) protocol.Event {
	return protocol.NewEvent(name, height,
		"owner", owner.Hex(),
		"nonce", n.String(),
	)
}
