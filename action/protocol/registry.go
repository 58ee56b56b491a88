// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

// ErrUnhandled indicates that no registered protocol handles an action
var ErrUnhandled = errors.New("no protocol handles the action")

// Registry is the hub of all protocols of the ledger
type Registry struct {
	mu        sync.RWMutex
	ids       []string
	protocols map[string]Protocol
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		protocols: make(map[string]Protocol),
	}
}

// Register registers the protocol with a unique ID
func (r *Registry) Register(id string, p Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.protocols[id]; ok {
		return errors.Errorf("Protocol with ID %s is already registered", id)
	}
	r.ids = append(r.ids, id)
	r.protocols[id] = p
	return nil
}

// Find finds a protocol by ID
func (r *Registry) Find(id string) (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[id]
	return p, ok
}

// All returns all protocols in registration order
func (r *Registry) All() []Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Protocol, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, r.protocols[id])
	}
	return all
}

// Handle dispatches act to the first protocol handling it
func (r *Registry) Handle(ctx context.Context, act action.Action, sm StateManager) (*Result, error) {
	for _, p := range r.All() {
		result, err := p.Handle(ctx, act, sm)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	log.S().Debugf("No protocol handles action %s.", act.Kind())
	return nil, errors.Wrapf(ErrUnhandled, "action %s", act.Kind())
}
