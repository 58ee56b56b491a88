// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
)

// Event names
const (
	EventMint              = "Mint"
	EventBurnt             = "Burnt"
	EventTransfer          = "Transfer"
	EventReserved          = "Reserved"
	EventExecuted          = "Executed"
	EventReclaimed         = "Reclaimed"
	EventPegged            = "Pegged"
	EventGluwaApproved     = "GluwaApproved"
	EventLuniverseApproved = "LuniverseApproved"
	EventRoleAdded         = "RoleAdded"
	EventRoleRemoved       = "RoleRemoved"
)

type (
	// Event is a notification of an applied operation
	Event struct {
		Name   string
		Height uint64
		Fields []EventField
	}

	// EventField is a named value of an event
	EventField struct {
		Key   string
		Value string
	}

	// EventSink receives events. Delivery is fire-and-forget.
	EventSink interface {
		Emit(context.Context, Event)
	}

	nopSink struct{}
)

// NewEvent creates an event from alternating key, value pairs
func NewEvent(name string, height uint64, kv ...string) Event {
	e := Event{Name: name, Height: height}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Fields = append(e.Fields, EventField{Key: kv[i], Value: kv[i+1]})
	}
	return e
}

// Field returns the value of the named field
func (e Event) Field(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// NopSink returns a sink dropping all events
func NopSink() EventSink { return nopSink{} }

func (nopSink) Emit(context.Context, Event) {}
