// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type (
	roleAction struct {
		role    uint8
		account common.Address
	}

	roleWire struct {
		Role    uint8
		Account common.Address
	}

	// AddRole grants a role to an account
	AddRole struct{ roleAction }

	// RemoveRole revokes a role from an account
	RemoveRole struct{ roleAction }

	// RenounceRole revokes a role from the caller
	RenounceRole struct {
		role uint8
	}
)

// NewAddRole creates an AddRole action
func NewAddRole(role uint8, account common.Address) *AddRole {
	return &AddRole{roleAction{role: role, account: account}}
}

// NewRemoveRole creates a RemoveRole action
func NewRemoveRole(role uint8, account common.Address) *RemoveRole {
	return &RemoveRole{roleAction{role: role, account: account}}
}

// NewRenounceRole creates a RenounceRole action
func NewRenounceRole(role uint8) *RenounceRole {
	return &RenounceRole{role: role}
}

// Role returns the role
func (ra *roleAction) Role() uint8 { return ra.role }

// Account returns the account
func (ra *roleAction) Account() common.Address { return ra.account }

// SanityCheck validates the variables in the action
func (ra *roleAction) SanityCheck() error { return nil }

// Serialize returns the RLP encoding of the action
func (ra *roleAction) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&roleWire{Role: ra.role, Account: ra.account})
}

// Deserialize decodes the RLP encoding of the action
func (ra *roleAction) Deserialize(b []byte) error {
	var w roleWire
	if err := decode(b, &w); err != nil {
		return err
	}
	ra.role, ra.account = w.Role, w.Account
	return nil
}

// Kind returns the action kind
func (*AddRole) Kind() Kind { return AddRoleKind }

// Kind returns the action kind
func (*RemoveRole) Kind() Kind { return RemoveRoleKind }

// Kind returns the action kind
func (*RenounceRole) Kind() Kind { return RenounceRoleKind }

// Role returns the role
func (rr *RenounceRole) Role() uint8 { return rr.role }

// SanityCheck validates the variables in the action
func (rr *RenounceRole) SanityCheck() error { return nil }

// Serialize returns the RLP encoding of the action
func (rr *RenounceRole) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(rr.role)
}

// Deserialize decodes the RLP encoding of the action
func (rr *RenounceRole) Deserialize(b []byte) error {
	return decode(b, &rr.role)
}
