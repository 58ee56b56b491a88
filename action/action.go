// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package action defines the operations submitted to the ledger and their wire encoding.
package action

import (
	"fmt"

	"github.com/pkg/errors"
)

// Action kinds
const (
	AddRoleKind Kind = iota + 1
	RemoveRoleKind
	RenounceRoleKind
	PegKind
	GluwaApproveKind
	LuniverseApproveKind
	MintKind
	BurnKind
	TransferKind
	ReserveKind
	ExecuteKind
	ReclaimKind
	ETHlessTransferKind
)

var (
	// ErrInvalidAction indicates a malformed action
	ErrInvalidAction = errors.New("invalid action")
	// ErrNilAction indicates a nil action
	ErrNilAction = errors.New("nil action")
	// ErrUnknownKind indicates an action kind with no decoder
	ErrUnknownKind = errors.New("unknown action kind")
)

var _kindNames = map[Kind]string{
	AddRoleKind:          "addRole",
	RemoveRoleKind:       "removeRole",
	RenounceRoleKind:     "renounceRole",
	PegKind:              "peg",
	GluwaApproveKind:     "gluwaApprove",
	LuniverseApproveKind: "luniverseApprove",
	MintKind:             "mint",
	BurnKind:             "burn",
	TransferKind:         "transfer",
	ReserveKind:          "reserve",
	ExecuteKind:          "execute",
	ReclaimKind:          "reclaim",
	ETHlessTransferKind:  "ethlessTransfer",
}

type (
	// Kind identifies the type of an action on the wire
	Kind uint8

	// Action is an operation on the ledger. The caller is carried by the envelope.
	Action interface {
		Kind() Kind
		SanityCheck() error
	}

	actionPayload interface {
		Action
		Serialize() ([]byte, error)
		Deserialize([]byte) error
	}
)

func (k Kind) String() string {
	if name, ok := _kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func newPayload(k Kind) (actionPayload, error) {
	switch k {
	case AddRoleKind:
		return &AddRole{}, nil
	case RemoveRoleKind:
		return &RemoveRole{}, nil
	case RenounceRoleKind:
		return &RenounceRole{}, nil
	case PegKind:
		return &Peg{}, nil
	case GluwaApproveKind:
		return &GluwaApprove{}, nil
	case LuniverseApproveKind:
		return &LuniverseApprove{}, nil
	case MintKind:
		return &Mint{}, nil
	case BurnKind:
		return &Burn{}, nil
	case TransferKind:
		return &Transfer{}, nil
	case ReserveKind:
		return &Reserve{}, nil
	case ExecuteKind:
		return &Execute{}, nil
	case ReclaimKind:
		return &Reclaim{}, nil
	case ETHlessTransferKind:
		return &ETHlessTransfer{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", k)
	}
}
