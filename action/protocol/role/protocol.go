// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package role keeps the membership of the administrative roles of the ledger.
package role

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "role"

	_memberNamespacePrefix = "Role."
	_countNamespace        = "RoleCount"
	_bootstrapNamespace    = "RoleBootstrap"
)

var _bootstrapKey = []byte("deployer")

// Role kinds
const (
	Gluwa Role = iota
	Luniverse
	Gatekeeper
)

type (
	// Role is a kind of administrative capability
	Role uint8

	// Protocol manages role membership
	Protocol struct{}

	member struct{}

	memberCount struct {
		Count uint64
	}

	bootstrapRecord struct {
		Deployer common.Address
	}
)

// All returns all role kinds
func All() []Role {
	return []Role{Gluwa, Luniverse, Gatekeeper}
}

func (r Role) String() string {
	switch r {
	case Gluwa:
		return "Gluwa"
	case Luniverse:
		return "Luniverse"
	case Gatekeeper:
		return "Gatekeeper"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid returns whether r is a known role
func (r Role) Valid() bool {
	return r <= Gatekeeper
}

// ParseRole parses a role name
func ParseRole(s string) (Role, error) {
	for _, r := range All() {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, protocol.Rejectf(protocol.ErrUnsupportedRole, "unknown role %s", s)
}

// NewProtocol instantiates the role protocol
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Bootstrap makes the deployer a member of every role. It takes effect once per ledger: later calls are no-ops
// whatever the deployer, so renounced or removed roles are never granted back.
func (p *Protocol) Bootstrap(sm protocol.StateManager, deployer common.Address) error {
	rec, err := p.bootstrapRecord(sm)
	if err != nil {
		return err
	}
	if rec != nil {
		log.L().Debug("Roles already bootstrapped.", zap.String("deployer", rec.Deployer.Hex()))
		return nil
	}
	for _, r := range All() {
		has, err := p.HasRole(sm, r, deployer)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if err := p.addMember(sm, r, deployer); err != nil {
			return err
		}
	}
	if err := sm.PutState(&bootstrapRecord{Deployer: deployer}, protocol.NamespaceOption(_bootstrapNamespace), protocol.KeyOption(_bootstrapKey)); err != nil {
		return errors.Wrap(err, "failed to store bootstrap record")
	}
	log.L().Info("Bootstrapped roles.", zap.String("deployer", deployer.Hex()))
	return nil
}

// Bootstrapper returns the deployer the roles were bootstrapped with, and false if they never were
func (p *Protocol) Bootstrapper(sr protocol.StateReader) (common.Address, bool, error) {
	rec, err := p.bootstrapRecord(sr)
	if err != nil || rec == nil {
		return common.Address{}, false, err
	}
	return rec.Deployer, true, nil
}

func (p *Protocol) bootstrapRecord(sr protocol.StateReader) (*bootstrapRecord, error) {
	rec := &bootstrapRecord{}
	err := sr.State(rec, protocol.NamespaceOption(_bootstrapNamespace), protocol.KeyOption(_bootstrapKey))
	switch errors.Cause(err) {
	case nil:
		return rec, nil
	case state.ErrStateNotExist:
		return nil, nil
	default:
		return nil, errors.Wrap(err, "failed to read bootstrap record")
	}
}

// HasRole returns whether addr is a member of role r
func (p *Protocol) HasRole(sr protocol.StateReader, r Role, addr common.Address) (bool, error) {
	if !r.Valid() {
		return false, protocol.Rejectf(protocol.ErrUnsupportedRole, "unknown role %d", r)
	}
	var m member
	err := sr.State(&m, protocol.NamespaceOption(memberNamespace(r)), protocol.KeyOption(addr.Bytes()))
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case state.ErrStateNotExist:
		return false, nil
	default:
		return false, errors.Wrapf(err, "failed to read %s membership of %s", r, addr.Hex())
	}
}

// CheckRole rejects with ErrUnauthorized unless the caller is a member of role r
func (p *Protocol) CheckRole(ctx context.Context, sr protocol.StateReader, r Role) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	has, err := p.HasRole(sr, r, caller)
	if err != nil {
		return err
	}
	if !has {
		return protocol.Rejectf(protocol.ErrUnauthorized, "%sRole: caller does not have the %s role", r, r)
	}
	return nil
}

// AddRole adds addr to role r. The caller must be a member of r.
func (p *Protocol) AddRole(ctx context.Context, sm protocol.StateManager, r Role, addr common.Address) error {
	if err := p.CheckRole(ctx, sm, r); err != nil {
		return err
	}
	has, err := p.HasRole(sm, r, addr)
	if err != nil {
		return err
	}
	if has {
		return protocol.Reject(protocol.ErrAlreadyMember, "Roles: account already has role")
	}
	return p.addMember(sm, r, addr)
}

// RemoveRole removes addr from role r. The caller must be a member of r.
func (p *Protocol) RemoveRole(ctx context.Context, sm protocol.StateManager, r Role, addr common.Address) error {
	if err := p.CheckRole(ctx, sm, r); err != nil {
		return err
	}
	return p.removeMember(sm, r, addr)
}

// RenounceRole removes the caller from role r
func (p *Protocol) RenounceRole(ctx context.Context, sm protocol.StateManager, r Role) error {
	if !r.Valid() {
		return protocol.Rejectf(protocol.ErrUnsupportedRole, "unknown role %d", r)
	}
	return p.removeMember(sm, r, protocol.MustGetActionCtx(ctx).Caller)
}

// MemberCount returns the number of members of role r. Only the Gatekeeper role keeps a count.
func (p *Protocol) MemberCount(sr protocol.StateReader, r Role) (uint64, error) {
	if r != Gatekeeper {
		return 0, protocol.Rejectf(protocol.ErrUnsupportedRole, "%s role does not track its member count", r)
	}
	c, err := p.count(sr, r)
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}

// Members returns the members of role r in address order
func (p *Protocol) Members(sr protocol.StateReader, r Role) ([]common.Address, error) {
	if !r.Valid() {
		return nil, protocol.Rejectf(protocol.ErrUnsupportedRole, "unknown role %d", r)
	}
	iter, err := sr.States(protocol.NamespaceOption(memberNamespace(r)))
	if err != nil {
		return nil, err
	}
	members := make([]common.Address, 0, iter.Size())
	for i := 0; i < iter.Size(); i++ {
		var m member
		key, err := iter.Next(&m)
		if err != nil {
			return nil, err
		}
		members = append(members, common.BytesToAddress(key))
	}
	return members, nil
}

func (p *Protocol) addMember(sm protocol.StateManager, r Role, addr common.Address) error {
	if err := sm.PutState(&member{}, protocol.NamespaceOption(memberNamespace(r)), protocol.KeyOption(addr.Bytes())); err != nil {
		return errors.Wrapf(err, "failed to add %s to %s", addr.Hex(), r)
	}
	return p.adjustCount(sm, r, true)
}

func (p *Protocol) removeMember(sm protocol.StateManager, r Role, addr common.Address) error {
	has, err := p.HasRole(sm, r, addr)
	if err != nil {
		return err
	}
	if !has {
		return protocol.Reject(protocol.ErrNotMember, "Roles: account does not have role")
	}
	if err := sm.DelState(protocol.NamespaceOption(memberNamespace(r)), protocol.KeyOption(addr.Bytes())); err != nil {
		return errors.Wrapf(err, "failed to remove %s from %s", addr.Hex(), r)
	}
	return p.adjustCount(sm, r, false)
}

func (p *Protocol) adjustCount(sm protocol.StateManager, r Role, inc bool) error {
	if r != Gatekeeper {
		return nil
	}
	c, err := p.count(sm, r)
	if err != nil {
		return err
	}
	if inc {
		c.Count++
	} else {
		c.Count--
	}
	return sm.PutState(c, protocol.NamespaceOption(_countNamespace), protocol.KeyOption([]byte{byte(r)}))
}

func (p *Protocol) count(sr protocol.StateReader, r Role) (*memberCount, error) {
	c := &memberCount{}
	err := sr.State(c, protocol.NamespaceOption(_countNamespace), protocol.KeyOption([]byte{byte(r)}))
	if err != nil && errors.Cause(err) != state.ErrStateNotExist {
		return nil, err
	}
	return c, nil
}

func memberNamespace(r Role) string {
	return _memberNamespacePrefix + r.String()
}

func (m *member) Serialize() ([]byte, error) { return []byte{1}, nil }

func (m *member) Deserialize([]byte) error { return nil }

func (c *memberCount) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

func (c *memberCount) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, c)
}

func (b *bootstrapRecord) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

func (b *bootstrapRecord) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, b)
}
