// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/gluwa/gluwacoin-ledger/action"
)

type (
	// Protocol is a component of the ledger handling a subset of actions
	Protocol interface {
		ActionHandler
		Name() string
	}

	// ActionHandler is the interface for the action handlers. For each incoming action, the registered handlers are
	// called one by one until one of them returns a non-nil result. A handler returns a nil result and a nil error
	// for an action it does not handle.
	ActionHandler interface {
		Handle(context.Context, action.Action, StateManager) (*Result, error)
	}

	// Result is the outcome of a handled action
	Result struct {
		Events []Event
	}
)

// NewResult creates a result carrying events
func NewResult(events ...Event) *Result {
	return &Result{Events: events}
}
