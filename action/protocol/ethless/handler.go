// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package ethless

import (
	"context"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
)

// Name returns the protocol name
func (p *Protocol) Name() string { return ProtocolID }

// Handle handles ETH-less transfers
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*protocol.Result, error) {
	tsf, ok := act.(*action.ETHlessTransfer)
	if !ok {
		return nil, nil
	}
	req := &Request{
		Owner:     tsf.Owner(),
		Recipient: tsf.Recipient(),
		Amount:    tsf.Amount(),
		Fee:       tsf.Fee(),
		Nonce:     tsf.Nonce(),
		Signature: tsf.Signature(),
	}
	if err := p.Transfer(ctx, sm, req); err != nil {
		return nil, err
	}
	height := protocol.MustGetBlockCtx(ctx).BlockHeight
	return protocol.NewResult(
		account.TransferEvent(height, req.Owner, req.Recipient, req.Amount),
		account.TransferEvent(height, req.Owner, protocol.MustGetActionCtx(ctx).Caller, req.Fee),
	), nil
}
