// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

type (
	// Envelope wraps an action with the address that submitted it
	Envelope interface {
		Caller() common.Address
		Action() Action
		Hash() (common.Hash, error)
		Serialize() ([]byte, error)
	}

	envelope struct {
		caller  common.Address
		payload actionPayload
	}

	envelopeWire struct {
		Caller  common.Address
		Kind    uint8
		Payload []byte
	}
)

// NewEnvelope wraps act submitted by caller
func NewEnvelope(caller common.Address, act Action) (Envelope, error) {
	if act == nil {
		return nil, ErrNilAction
	}
	payload, ok := act.(actionPayload)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "cannot wrap action %T", act)
	}
	return &envelope{
		caller:  caller,
		payload: payload,
	}, nil
}

// Caller returns the address that submitted the action
func (elp *envelope) Caller() common.Address { return elp.caller }

// Action returns the action payload.
func (elp *envelope) Action() Action { return elp.payload }

// Hash returns the keccak256 hash of the serialized envelope
func (elp *envelope) Hash() (common.Hash, error) {
	b, err := elp.Serialize()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// Serialize returns the RLP encoding of the envelope
func (elp *envelope) Serialize() ([]byte, error) {
	payload, err := elp.payload.Serialize()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize %s", elp.payload.Kind())
	}
	return rlp.EncodeToBytes(&envelopeWire{
		Caller:  elp.caller,
		Kind:    uint8(elp.payload.Kind()),
		Payload: payload,
	})
}

// DeserializeEnvelope decodes an envelope and its action
func DeserializeEnvelope(b []byte) (Envelope, error) {
	var w envelopeWire
	if err := decode(b, &w); err != nil {
		return nil, err
	}
	payload, err := newPayload(Kind(w.Kind))
	if err != nil {
		return nil, err
	}
	if err := payload.Deserialize(w.Payload); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", Kind(w.Kind))
	}
	return &envelope{
		caller:  w.Caller,
		payload: payload,
	}, nil
}

func decode(b []byte, v interface{}) error {
	if err := rlp.DecodeBytes(b, v); err != nil {
		return errors.Wrap(ErrInvalidAction, err.Error())
	}
	return nil
}
