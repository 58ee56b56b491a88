// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package peg

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
)

// Name returns the protocol name
func (p *Protocol) Name() string { return ProtocolID }

// Handle handles the peg actions. Identifiers are validated before any state is read.
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*protocol.Result, error) {
	caller := protocol.MustGetActionCtx(ctx).Caller
	height := protocol.MustGetBlockCtx(ctx).BlockHeight
	switch act := act.(type) {
	case *action.Peg:
		h, err := ParseTxnHash(act.TxnHash())
		if err != nil {
			return nil, err
		}
		if err := p.Peg(ctx, sm, h, act.Amount(), act.Sender()); err != nil {
			return nil, err
		}
		return protocol.NewResult(protocol.NewEvent(protocol.EventPegged, height,
			"txnHash", h.Hex(),
			"amount", act.Amount().String(),
			"sender", act.Sender().Hex(),
		)), nil
	case *action.GluwaApprove:
		h, err := ParseTxnHash(act.TxnHash())
		if err != nil {
			return nil, err
		}
		if err := p.GluwaApprove(ctx, sm, h); err != nil {
			return nil, err
		}
		return protocol.NewResult(approvedEvent(protocol.EventGluwaApproved, height, h, caller)), nil
	case *action.LuniverseApprove:
		h, err := ParseTxnHash(act.TxnHash())
		if err != nil {
			return nil, err
		}
		if err := p.LuniverseApprove(ctx, sm, h); err != nil {
			return nil, err
		}
		return protocol.NewResult(approvedEvent(protocol.EventLuniverseApproved, height, h, caller)), nil
	case *action.Mint:
		h, err := ParseTxnHash(act.TxnHash())
		if err != nil {
			return nil, err
		}
		pg, err := p.Mint(ctx, sm, h)
		if err != nil {
			return nil, err
		}
		return protocol.NewResult(
			account.TransferEvent(height, common.Address{}, pg.Sender, pg.Amount),
			protocol.NewEvent(protocol.EventMint, height,
				"to", pg.Sender.Hex(),
				"value", pg.Amount.String(),
				"txnHash", h.Hex(),
			),
		), nil
	}
	return nil, nil
}

func approvedEvent(name string, height uint64, h common.Hash, approver common.Address) protocol.Event {
	return protocol.NewEvent(name, height,
		"txnHash", h.Hex(),
		"approver", approver.Hex(),
	)
}
