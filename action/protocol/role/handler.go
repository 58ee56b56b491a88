// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package role

import (
	"context"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
)

// Name returns the protocol name
func (p *Protocol) Name() string { return ProtocolID }

// Handle handles the role actions
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*protocol.Result, error) {
	caller := protocol.MustGetActionCtx(ctx).Caller
	height := protocol.MustGetBlockCtx(ctx).BlockHeight
	switch act := act.(type) {
	case *action.AddRole:
		r := Role(act.Role())
		if err := p.AddRole(ctx, sm, r, act.Account()); err != nil {
			return nil, err
		}
		return protocol.NewResult(protocol.NewEvent(protocol.EventRoleAdded, height,
			"role", r.String(),
			"account", act.Account().Hex(),
			"sender", caller.Hex(),
		)), nil
	case *action.RemoveRole:
		r := Role(act.Role())
		if err := p.RemoveRole(ctx, sm, r, act.Account()); err != nil {
			return nil, err
		}
		return protocol.NewResult(protocol.NewEvent(protocol.EventRoleRemoved, height,
			"role", r.String(),
			"account", act.Account().Hex(),
			"sender", caller.Hex(),
		)), nil
	case *action.RenounceRole:
		r := Role(act.Role())
		if err := p.RenounceRole(ctx, sm, r); err != nil {
			return nil, err
		}
		return protocol.NewResult(protocol.NewEvent(protocol.EventRoleRemoved, height,
			"role", r.String(),
			"account", caller.Hex(),
			"sender", caller.Hex(),
		)), nil
	}
	return nil, nil
}
