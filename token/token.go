// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package token serializes every operation on the ledger. Writes hold an exclusive lock and apply
// atomically through a working set, reads share the lock and see committed state only.
package token

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/ethless"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/peg"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/reservation"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/role"
	"github.com/gluwa/gluwacoin-ledger/crypto"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/byteutil"
	"github.com/gluwa/gluwacoin-ledger/state/factory"
)

// ReceiptNamespace is the namespace of block receipts
const ReceiptNamespace = "Receipts"

var (
	_actionMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gluwacoin_action_metrics",
			Help: "Gluwacoin applied actions",
		},
		[]string{"type", "status"},
	)

	// ErrInvalidHeight indicates a block that does not extend the current height
	ErrInvalidHeight = errors.New("invalid block height")
)

func init() {
	prometheus.MustRegister(_actionMtc)
}

type (
	// Token is the ledger with its registries
	Token struct {
		mu       sync.RWMutex
		sf       factory.Factory
		contract common.Address
		verifier crypto.Verifier
		sink     protocol.EventSink
		registry *protocol.Registry

		roles        *role.Protocol
		ledger       *account.Protocol
		nonces       *nonce.Tracker
		pegs         *peg.Protocol
		reservations *reservation.Protocol
		ethless      *ethless.Protocol
	}

	// Option sets an option of the token
	Option func(*Token)
)

// WithVerifier sets the signature verifier, secp256k1 by default
func WithVerifier(v crypto.Verifier) Option {
	return func(t *Token) {
		t.verifier = v
	}
}

// WithEventSink sets the sink receiving events of applied actions, events are dropped by default
func WithEventSink(sink protocol.EventSink) Option {
	return func(t *Token) {
		t.sink = sink
	}
}

// New creates the token on top of sf. contract is the identity bound into every signed message.
func New(sf factory.Factory, contract common.Address, opts ...Option) (*Token, error) {
	t := &Token{
		sf:       sf,
		contract: contract,
		verifier: crypto.NewVerifier(),
		sink:     protocol.NopSink(),
		registry: protocol.NewRegistry(),
		roles:    role.NewProtocol(),
		ledger:   account.NewProtocol(),
		nonces:   nonce.NewTracker(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.pegs = peg.NewProtocol(t.roles, t.ledger)
	t.reservations = reservation.NewProtocol(t.ledger, t.nonces, t.verifier)
	t.ethless = ethless.NewProtocol(t.roles, t.ledger, t.nonces, t.verifier)
	for _, p := range []protocol.Protocol{t.roles, t.ledger, t.pegs, t.reservations, t.ethless} {
		if err := t.registry.Register(p.Name(), p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Contract returns the identity of the ledger
func (t *Token) Contract() common.Address { return t.contract }

// Bootstrap grants every role to deployer unless the ledger was already bootstrapped
func (t *Token) Bootstrap(deployer common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ws := t.sf.NewWorkingSet()
	if err := t.roles.Bootstrap(ws, deployer); err != nil {
		ws.Discard()
		return err
	}
	return ws.Commit()
}

// Apply applies a single envelope at the current height and returns its events
func (t *Token) Apply(ctx context.Context, elp action.Envelope) ([]protocol.Event, error) {
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{Caller: elp.Caller()})
	return t.apply(ctx, elp.Action())
}

// ApplyBlock applies the envelopes of blk in order. A rejected envelope leaves no change behind and does not
// affect the others. The state changes, the new height and the receipts are committed together.
func (t *Token) ApplyBlock(ctx context.Context, blk *action.Block) (action.Receipts, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.sf.Height()
	if err != nil {
		return nil, err
	}
	if blk.Height() <= current {
		return nil, errors.Wrapf(ErrInvalidHeight, "block height %d is not above current height %d", blk.Height(), current)
	}
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: blk.Height()})
	ctx = protocol.WithChainCtx(ctx, protocol.ChainCtx{Contract: t.contract})

	ws := t.sf.NewWorkingSet()
	receipts := make(action.Receipts, 0, len(blk.Envelopes()))
	var events []protocol.Event
	for i, elp := range blk.Envelopes() {
		actCtx := protocol.WithActionCtx(ctx, protocol.ActionCtx{Caller: elp.Caller()})
		receipt := &action.Receipt{
			BlockHeight: blk.Height(),
			Index:       uint32(i),
			Kind:        elp.Action().Kind(),
		}
		if receipt.ActHash, err = elp.Hash(); err != nil {
			ws.Discard()
			return nil, err
		}
		result, err := t.handle(actCtx, ws, elp.Action())
		switch {
		case err == nil:
			receipt.Status = action.SuccessReceiptStatus
			events = append(events, result.Events...)
		case protocol.ErrorKind(err) == protocol.KindInternal:
			ws.Discard()
			return nil, errors.Wrapf(err, "failed to apply envelope %d of block %d", i, blk.Height())
		default:
			receipt.Status = action.FailureReceiptStatus
			receipt.ErrorKind = protocol.ErrorKind(err)
			receipt.Reason = protocol.Reason(err)
		}
		receipts = append(receipts, receipt)
	}
	if err := ws.PutState(receipts, protocol.NamespaceOption(ReceiptNamespace), protocol.KeyOption(heightKey(blk.Height()))); err != nil {
		ws.Discard()
		return nil, err
	}
	if err := ws.PutHeight(blk.Height()); err != nil {
		ws.Discard()
		return nil, err
	}
	if err := ws.Commit(); err != nil {
		return nil, err
	}
	for _, e := range events {
		t.sink.Emit(ctx, e)
	}
	log.L().Info("Applied block.",
		zap.Uint64("height", blk.Height()),
		zap.Int("actions", len(receipts)),
		zap.Int("events", len(events)))
	return receipts, nil
}

func (t *Token) apply(ctx context.Context, act action.Action) ([]protocol.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := protocol.GetBlockCtx(ctx); !ok {
		height, err := t.sf.Height()
		if err != nil {
			return nil, err
		}
		ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: height})
	}
	ctx = protocol.WithChainCtx(ctx, protocol.ChainCtx{Contract: t.contract})
	ws := t.sf.NewWorkingSet()
	result, err := t.handle(ctx, ws, act)
	if err != nil {
		ws.Discard()
		return nil, err
	}
	if err := ws.Commit(); err != nil {
		return nil, err
	}
	for _, e := range result.Events {
		t.sink.Emit(ctx, e)
	}
	return result.Events, nil
}

// handle runs act against ws, reverting ws to its state before act on failure
func (t *Token) handle(ctx context.Context, ws factory.WorkingSet, act action.Action) (*protocol.Result, error) {
	kind := act.Kind().String()
	if err := act.SanityCheck(); err != nil {
		_actionMtc.WithLabelValues(kind, "rejected").Inc()
		return nil, err
	}
	snapshot := ws.Snapshot()
	result, err := t.registry.Handle(ctx, act, ws)
	if err != nil {
		if rerr := ws.Revert(snapshot); rerr != nil {
			log.L().Panic("Failed to revert working set.", zap.Error(rerr))
		}
		_actionMtc.WithLabelValues(kind, "rejected").Inc()
		log.L().Debug("Rejected action.",
			zap.String("kind", kind),
			zap.String("caller", protocol.MustGetActionCtx(ctx).Caller.Hex()),
			zap.String("errorKind", protocol.ErrorKind(err)),
			zap.String("reason", protocol.Reason(err)))
		return nil, err
	}
	_actionMtc.WithLabelValues(kind, "applied").Inc()
	return result, nil
}

// AddRole grants r to addr
func (t *Token) AddRole(ctx context.Context, r role.Role, addr common.Address) error {
	_, err := t.apply(ctx, action.NewAddRole(uint8(r), addr))
	return err
}

// RemoveRole revokes r from addr
func (t *Token) RemoveRole(ctx context.Context, r role.Role, addr common.Address) error {
	_, err := t.apply(ctx, action.NewRemoveRole(uint8(r), addr))
	return err
}

// RenounceRole revokes r from the caller
func (t *Token) RenounceRole(ctx context.Context, r role.Role) error {
	_, err := t.apply(ctx, action.NewRenounceRole(uint8(r)))
	return err
}

// Peg registers a peg-chain deposit under txnHash
func (t *Token) Peg(ctx context.Context, txnHash string, amount *big.Int, sender common.Address) error {
	_, err := t.apply(ctx, action.NewPeg(txnHash, amount, sender))
	return err
}

// GluwaApprove approves the peg as a Gluwa operator
func (t *Token) GluwaApprove(ctx context.Context, txnHash string) error {
	_, err := t.apply(ctx, action.NewGluwaApprove(txnHash))
	return err
}

// LuniverseApprove approves the peg as a Luniverse operator
func (t *Token) LuniverseApprove(ctx context.Context, txnHash string) error {
	_, err := t.apply(ctx, action.NewLuniverseApprove(txnHash))
	return err
}

// Mint mints an approved peg and returns the credited amount
func (t *Token) Mint(ctx context.Context, txnHash string) (*big.Int, error) {
	if _, err := t.apply(ctx, action.NewMint(txnHash)); err != nil {
		return nil, err
	}
	pg, err := t.GetPeg(txnHash)
	if err != nil {
		return nil, err
	}
	return pg.Amount, nil
}

// Burn destroys amount of the caller's unreserved balance
func (t *Token) Burn(ctx context.Context, amount *big.Int) error {
	_, err := t.apply(ctx, action.NewBurn(amount))
	return err
}

// Transfer moves amount of the caller's unreserved balance to recipient
func (t *Token) Transfer(ctx context.Context, recipient common.Address, amount *big.Int) error {
	_, err := t.apply(ctx, action.NewTransfer(recipient, amount))
	return err
}

// Reserve holds funds of the owner of req, authorized by the owner's signature
func (t *Token) Reserve(ctx context.Context, req *reservation.Request) error {
	_, err := t.apply(ctx, action.NewReserve(req.Owner, req.Recipient, req.Executor, req.Amount, req.Fee, req.Nonce, req.ExpiryBlockNum, req.Signature))
	return err
}

// Execute settles the reservation of owner under n
func (t *Token) Execute(ctx context.Context, owner common.Address, n *big.Int) error {
	_, err := t.apply(ctx, action.NewExecute(owner, n))
	return err
}

// Reclaim returns the reservation of owner under n to the owner
func (t *Token) Reclaim(ctx context.Context, owner common.Address, n *big.Int) error {
	_, err := t.apply(ctx, action.NewReclaim(owner, n))
	return err
}

// ETHlessTransfer settles a transfer signed by the owner of req, the caller collects the fee
func (t *Token) ETHlessTransfer(ctx context.Context, req *ethless.Request) error {
	_, err := t.apply(ctx, action.NewETHlessTransfer(req.Owner, req.Recipient, req.Amount, req.Fee, req.Nonce, req.Signature))
	return err
}

func heightKey(height uint64) []byte {
	return byteutil.Uint64ToBytesBigEndian(height)
}
