// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package reservation holds funds for a recipient until an executor settles them or they are reclaimed.
package reservation

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/crypto"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "reservation"

	// ReservationNamespace is the namespace of reservation records
	ReservationNamespace = "Reservation"
)

// Reasons of reservation rejections
const (
	ReasonInvalidSignature  = "Validate: invalid signature"
	ReasonZeroExecutor      = "Reservable: cannot execute from zero address"
	ReasonInvalidExpiry     = "Reservable: invalid block expiry number"
	ReasonNonceUsed         = "Reservable: the sender used the nonce already"
	ReasonNotExist          = "Reservable: reservation does not exist"
	ReasonExecuteAuth       = "Reservable: this address is not authorized to execute this reservation"
	ReasonExpired           = "Reservable: reservation has expired and cannot be executed"
	ReasonExecuteStatus     = "Reservable: invalid reservation status to execute"
	ReasonReclaimStatus     = "Reservable: invalid reservation status to reclaim"
	ReasonReclaimNotExpired = "Reservable: reservation has not expired or you are not the executor and cannot be reclaimed"
	ReasonReclaimAuth       = "Reservable: only the sender or the executor can reclaim the reservation back to the sender"
)

// Reservation statuses
const (
	Active Status = iota
	Reclaimed
	Executed
)

type (
	// Status is the state of a reservation
	Status uint8

	// Reservation is a hold of amount+fee on the balance of its owner
	Reservation struct {
		Amount         *big.Int
		Fee            *big.Int
		Recipient      common.Address
		Executor       common.Address
		ExpiryBlockNum uint64
		Status         Status
	}

	// Request is a signed request to reserve funds of Owner
	Request struct {
		Owner          common.Address
		Recipient      common.Address
		Executor       common.Address
		Amount         *big.Int
		Fee            *big.Int
		Nonce          *big.Int
		ExpiryBlockNum uint64
		Signature      []byte
	}

	// Protocol is the reservation registry
	Protocol struct {
		ledger   *account.Protocol
		nonces   *nonce.Tracker
		verifier crypto.Verifier
	}
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Reclaimed:
		return "Reclaimed"
	case Executed:
		return "Executed"
	default:
		return "Unknown"
	}
}

// Total returns amount+fee
func (r *Reservation) Total() *big.Int {
	return new(big.Int).Add(r.Amount, r.Fee)
}

// NewProtocol instantiates the reservation registry
func NewProtocol(ledger *account.Protocol, nonces *nonce.Tracker, verifier crypto.Verifier) *Protocol {
	return &Protocol{
		ledger:   ledger,
		nonces:   nonces,
		verifier: verifier,
	}
}

// Reserve verifies the owner's signature over req and holds amount+fee of the owner's unreserved balance
func (p *Protocol) Reserve(ctx context.Context, sm protocol.StateManager, req *Request) error {
	if err := protocol.ValidateAmount(req.Amount, req.Fee, req.Nonce); err != nil {
		return err
	}
	total, err := protocol.SafeAdd(req.Amount, req.Fee)
	if err != nil {
		return err
	}
	contract := protocol.MustGetChainCtx(ctx).Contract
	hash, err := crypto.ReservationHash(contract, req.Owner, req.Recipient, req.Executor, req.Amount, req.Fee, req.Nonce, new(big.Int).SetUint64(req.ExpiryBlockNum))
	if err != nil {
		return protocol.Reject(protocol.ErrInvalidAmount, err.Error())
	}
	if !crypto.IsSignedBy(p.verifier, hash, req.Signature, req.Owner) {
		return protocol.Reject(protocol.ErrInvalidSignature, ReasonInvalidSignature)
	}
	if req.Executor == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroExecutor, ReasonZeroExecutor)
	}
	if req.Recipient == (common.Address{}) {
		return protocol.Reject(protocol.ErrZeroAddress, account.ReasonTransferToZero)
	}
	if req.ExpiryBlockNum <= protocol.MustGetBlockCtx(ctx).BlockHeight {
		return protocol.Reject(protocol.ErrExpiredParameter, ReasonInvalidExpiry)
	}
	if err := p.nonces.Use(sm, nonce.Reservation, req.Owner, req.Nonce, ReasonNonceUsed); err != nil {
		return err
	}
	if err := p.ledger.Hold(sm, req.Owner, total); err != nil {
		return err
	}
	log.L().Debug("Reserved.",
		zap.String("owner", req.Owner.Hex()),
		zap.String("nonce", req.Nonce.String()),
		zap.String("total", total.String()))
	return p.putReservation(sm, req.Owner, req.Nonce, &Reservation{
		Amount:         new(big.Int).Set(req.Amount),
		Fee:            new(big.Int).Set(req.Fee),
		Recipient:      req.Recipient,
		Executor:       req.Executor,
		ExpiryBlockNum: req.ExpiryBlockNum,
		Status:         Active,
	})
}

// GetReservation returns the reservation of owner under n
func (p *Protocol) GetReservation(sr protocol.StateReader, owner common.Address, n *big.Int) (*Reservation, error) {
	if err := protocol.ValidateAmount(n); err != nil {
		return nil, err
	}
	r := &Reservation{}
	err := sr.State(r, protocol.NamespaceOption(ReservationNamespace), protocol.KeyOption(nonce.Key(owner, n)))
	switch errors.Cause(err) {
	case nil:
		return r, nil
	case state.ErrStateNotExist:
		return nil, protocol.Reject(protocol.ErrNotFound, ReasonNotExist)
	default:
		return nil, errors.Wrapf(err, "failed to load reservation %s of %s", n, owner.Hex())
	}
}

// Execute settles an active reservation: amount goes to the recipient and fee to the executor.
// Checks run in the order existence, authorization, expiry, status.
func (p *Protocol) Execute(ctx context.Context, sm protocol.StateManager, owner common.Address, n *big.Int) (*Reservation, error) {
	r, err := p.GetReservation(sm, owner, n)
	if err != nil {
		return nil, err
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	if caller != owner && caller != r.Executor {
		return nil, protocol.Reject(protocol.ErrUnauthorized, ReasonExecuteAuth)
	}
	if protocol.MustGetBlockCtx(ctx).BlockHeight > r.ExpiryBlockNum {
		return nil, protocol.Reject(protocol.ErrExpired, ReasonExpired)
	}
	if r.Status != Active {
		return nil, protocol.Reject(protocol.ErrInvalidStatus, ReasonExecuteStatus)
	}
	if err := p.ledger.SpendHold(sm, owner, r.Total()); err != nil {
		return nil, err
	}
	if err := p.ledger.Credit(sm, r.Recipient, r.Amount); err != nil {
		return nil, err
	}
	if err := p.ledger.Credit(sm, r.Executor, r.Fee); err != nil {
		return nil, err
	}
	r.Status = Executed
	if err := p.putReservation(sm, owner, n, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Reclaim returns the held amount+fee of an active reservation to its owner. The executor may reclaim
// at any time, the owner only after expiry.
func (p *Protocol) Reclaim(ctx context.Context, sm protocol.StateManager, owner common.Address, n *big.Int) (*Reservation, error) {
	r, err := p.GetReservation(sm, owner, n)
	if err != nil {
		return nil, err
	}
	if r.Status != Active {
		return nil, protocol.Reject(protocol.ErrInvalidStatus, ReasonReclaimStatus)
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	switch caller {
	case r.Executor:
	case owner:
		if protocol.MustGetBlockCtx(ctx).BlockHeight <= r.ExpiryBlockNum {
			return nil, protocol.Reject(protocol.ErrNotExpiredOrUnauthorized, ReasonReclaimNotExpired)
		}
	default:
		return nil, protocol.Reject(protocol.ErrUnauthorized, ReasonReclaimAuth)
	}
	if err := p.ledger.Release(sm, owner, r.Total()); err != nil {
		return nil, err
	}
	r.Status = Reclaimed
	if err := p.putReservation(sm, owner, n, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *Protocol) putReservation(sm protocol.StateManager, owner common.Address, n *big.Int, r *Reservation) error {
	return sm.PutState(r, protocol.NamespaceOption(ReservationNamespace), protocol.KeyOption(nonce.Key(owner, n)))
}

// Serialize serializes the reservation into bytes
func (r *Reservation) Serialize() ([]byte, error) {
	b, err := rlp.EncodeToBytes(r)
	if err != nil {
		return nil, errors.Wrap(state.ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into the reservation
func (r *Reservation) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, r); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	return nil
}
