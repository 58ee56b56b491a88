// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package reservation

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/crypto"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/state/factory"
	"github.com/gluwa/gluwacoin-ledger/test/identityset"
	"github.com/gluwa/gluwacoin-ledger/test/mock/mock_crypto"
)

const (
	_owner = iota + 1
	_recipient
	_executor
	_stranger
)

var _contract = identityset.Address(0)

type fixture struct {
	p      *Protocol
	ledger *account.Protocol
	sm     protocol.StateManager
}

func newFixture(t *testing.T, v crypto.Verifier) *fixture {
	sf := factory.NewFactory(db.NewMemKVStore())
	require.NoError(t, sf.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, sf.Stop(context.Background()))
	})
	ledger := account.NewProtocol()
	f := &fixture{
		p:      NewProtocol(ledger, nonce.NewTracker(), v),
		ledger: ledger,
		sm:     sf.NewWorkingSet(),
	}
	require.NoError(t, ledger.Mint(f.sm, identityset.Address(_owner), big.NewInt(5000)))
	return f
}

func ctxAt(caller common.Address, height uint64) context.Context {
	ctx := protocol.WithActionCtx(context.Background(), protocol.ActionCtx{Caller: caller})
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: height})
	return protocol.WithChainCtx(ctx, protocol.ChainCtx{Contract: _contract})
}

func signedRequest(t *testing.T, signer int, amount, fee, n int64, expiry uint64) *Request {
	req := &Request{
		Owner:          identityset.Address(_owner),
		Recipient:      identityset.Address(_recipient),
		Executor:       identityset.Address(_executor),
		Amount:         big.NewInt(amount),
		Fee:            big.NewInt(fee),
		Nonce:          big.NewInt(n),
		ExpiryBlockNum: expiry,
	}
	hash, err := crypto.ReservationHash(_contract, req.Owner, req.Recipient, req.Executor, req.Amount, req.Fee, req.Nonce, new(big.Int).SetUint64(expiry))
	require.NoError(t, err)
	req.Signature, err = crypto.Sign(identityset.PrivateKey(signer), hash)
	require.NoError(t, err)
	return req
}

func (f *fixture) requireBalance(t *testing.T, i int, balance, reserved int64) {
	acct, err := f.ledger.Account(f.sm, identityset.Address(i))
	require.NoError(t, err)
	require.EqualValues(t, balance, acct.Balance.Int64())
	require.EqualValues(t, reserved, acct.Reserved.Int64())
}

func TestReserve(t *testing.T) {
	r := require.New(t)
	f := newFixture(t, crypto.NewVerifier())
	ctx := ctxAt(identityset.Address(_recipient), 10)

	r.NoError(f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 4999, 1, 1600000000, 110)))
	f.requireBalance(t, _owner, 5000, 5000)

	res, err := f.p.GetReservation(f.sm, identityset.Address(_owner), big.NewInt(1600000000))
	r.NoError(err)
	r.EqualValues(4999, res.Amount.Int64())
	r.EqualValues(1, res.Fee.Int64())
	r.Equal(identityset.Address(_recipient), res.Recipient)
	r.Equal(identityset.Address(_executor), res.Executor)
	r.EqualValues(110, res.ExpiryBlockNum)
	r.Equal(Active, res.Status)

	_, err = f.p.GetReservation(f.sm, identityset.Address(_owner), big.NewInt(1))
	r.Equal(protocol.ErrNotFound, errors.Cause(err))
	r.Equal(ReasonNotExist, protocol.Reason(err))

	// nothing left to reserve
	err = f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 1, 0, 1, 110))
	r.Equal(protocol.ErrInsufficientFunds, errors.Cause(err))
	r.Equal("Reservable: insufficient unreserved balance", protocol.Reason(err))
}

func TestReserveRejections(t *testing.T) {
	r := require.New(t)
	f := newFixture(t, crypto.NewVerifier())
	ctx := ctxAt(identityset.Address(_recipient), 10)

	err := f.p.Reserve(ctx, f.sm, signedRequest(t, _stranger, 10, 1, 1, 110))
	r.Equal(protocol.ErrInvalidSignature, errors.Cause(err))
	r.Equal(ReasonInvalidSignature, protocol.Reason(err))

	tampered := signedRequest(t, _owner, 10, 1, 1, 110)
	tampered.Amount = big.NewInt(11)
	err = f.p.Reserve(ctx, f.sm, tampered)
	r.Equal(protocol.ErrInvalidSignature, errors.Cause(err))

	err = f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 10, 1, 1, 10))
	r.Equal(protocol.ErrExpiredParameter, errors.Cause(err))
	r.Equal(ReasonInvalidExpiry, protocol.Reason(err))

	err = f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 5000, 1, 1, 110))
	r.Equal(protocol.ErrInsufficientFunds, errors.Cause(err))

	neg := signedRequest(t, _owner, 10, 1, 2, 110)
	neg.Fee = big.NewInt(-1)
	err = f.p.Reserve(ctx, f.sm, neg)
	r.Equal(protocol.ErrInvalidAmount, errors.Cause(err))

	r.NoError(f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 10, 1, 3, 110)))
	err = f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 10, 1, 3, 120))
	r.Equal(protocol.ErrNonceReused, errors.Cause(err))
	r.Equal(ReasonNonceUsed, protocol.Reason(err))

	// zero amounts are accepted
	r.NoError(f.p.Reserve(ctx, f.sm, signedRequest(t, _owner, 0, 0, 4, 110)))
}

func TestReserveZeroExecutor(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	v := mock_crypto.NewMockVerifier(ctrl)
	v.EXPECT().Recover(gomock.Any(), gomock.Any()).Return(identityset.Address(_owner), nil).Times(1)
	f := newFixture(t, v)

	req := signedRequest(t, _owner, 10, 1, 1, 110)
	req.Executor = common.Address{}
	err := f.p.Reserve(ctxAt(identityset.Address(_owner), 10), f.sm, req)
	r.Equal(protocol.ErrZeroExecutor, errors.Cause(err))
	r.Equal(ReasonZeroExecutor, protocol.Reason(err))
}

func TestReserveZeroRecipient(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	v := mock_crypto.NewMockVerifier(ctrl)
	v.EXPECT().Recover(gomock.Any(), gomock.Any()).Return(identityset.Address(_owner), nil).Times(1)
	f := newFixture(t, v)

	req := signedRequest(t, _owner, 10, 1, 1, 110)
	req.Recipient = common.Address{}
	err := f.p.Reserve(ctxAt(identityset.Address(_owner), 10), f.sm, req)
	r.Equal(protocol.ErrZeroAddress, errors.Cause(err))
	r.Equal(account.ReasonTransferToZero, protocol.Reason(err))

	reserved, err := f.ledger.ReservedBalanceOf(f.sm, identityset.Address(_owner))
	r.NoError(err)
	r.Zero(reserved.Sign())
}

func TestExecute(t *testing.T) {
	r := require.New(t)
	f := newFixture(t, crypto.NewVerifier())
	owner, n := identityset.Address(_owner), big.NewInt(7)
	r.NoError(f.p.Reserve(ctxAt(owner, 10), f.sm, signedRequest(t, _owner, 4999, 1, 7, 110)))

	_, err := f.p.Execute(ctxAt(identityset.Address(_stranger), 20), f.sm, owner, n)
	r.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	r.Equal(ReasonExecuteAuth, protocol.Reason(err))
	_, err = f.p.Execute(ctxAt(identityset.Address(_recipient), 20), f.sm, owner, n)
	r.Equal(protocol.ErrUnauthorized, errors.Cause(err))

	_, err = f.p.Execute(ctxAt(identityset.Address(_executor), 111), f.sm, owner, n)
	r.Equal(protocol.ErrExpired, errors.Cause(err))
	r.Equal(ReasonExpired, protocol.Reason(err))

	res, err := f.p.Execute(ctxAt(identityset.Address(_executor), 110), f.sm, owner, n)
	r.NoError(err)
	r.Equal(Executed, res.Status)
	f.requireBalance(t, _owner, 0, 0)
	f.requireBalance(t, _recipient, 4999, 0)
	f.requireBalance(t, _executor, 1, 0)

	_, err = f.p.Execute(ctxAt(owner, 20), f.sm, owner, n)
	r.Equal(protocol.ErrInvalidStatus, errors.Cause(err))
	r.Equal(ReasonExecuteStatus, protocol.Reason(err))
	// authorization is checked before status
	_, err = f.p.Execute(ctxAt(identityset.Address(_stranger), 20), f.sm, owner, n)
	r.Equal(protocol.ErrUnauthorized, errors.Cause(err))

	_, err = f.p.Reclaim(ctxAt(identityset.Address(_executor), 20), f.sm, owner, n)
	r.Equal(protocol.ErrInvalidStatus, errors.Cause(err))

	_, err = f.p.Execute(ctxAt(owner, 20), f.sm, owner, big.NewInt(8))
	r.Equal(protocol.ErrNotFound, errors.Cause(err))

	supply, err := f.ledger.TotalSupply(f.sm)
	r.NoError(err)
	r.EqualValues(5000, supply.Int64())
}

func TestReclaim(t *testing.T) {
	r := require.New(t)
	f := newFixture(t, crypto.NewVerifier())
	owner := identityset.Address(_owner)
	r.NoError(f.p.Reserve(ctxAt(owner, 10), f.sm, signedRequest(t, _owner, 1000, 10, 1, 110)))
	r.NoError(f.p.Reserve(ctxAt(owner, 10), f.sm, signedRequest(t, _owner, 2000, 20, 2, 110)))
	f.requireBalance(t, _owner, 5000, 3030)

	_, err := f.p.Reclaim(ctxAt(owner, 110), f.sm, owner, big.NewInt(1))
	r.Equal(protocol.ErrNotExpiredOrUnauthorized, errors.Cause(err))
	r.Equal(ReasonReclaimNotExpired, protocol.Reason(err))

	_, err = f.p.Reclaim(ctxAt(identityset.Address(_stranger), 200), f.sm, owner, big.NewInt(1))
	r.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	r.Equal(ReasonReclaimAuth, protocol.Reason(err))

	// the executor may reclaim before expiry
	res, err := f.p.Reclaim(ctxAt(identityset.Address(_executor), 20), f.sm, owner, big.NewInt(1))
	r.NoError(err)
	r.Equal(Reclaimed, res.Status)
	f.requireBalance(t, _owner, 5000, 2020)

	// the owner may reclaim after expiry
	_, err = f.p.Reclaim(ctxAt(owner, 111), f.sm, owner, big.NewInt(2))
	r.NoError(err)
	f.requireBalance(t, _owner, 5000, 0)
	f.requireBalance(t, _executor, 0, 0)

	_, err = f.p.Reclaim(ctxAt(owner, 111), f.sm, owner, big.NewInt(2))
	r.Equal(protocol.ErrInvalidStatus, errors.Cause(err))
	r.Equal(ReasonReclaimStatus, protocol.Reason(err))
	_, err = f.p.Execute(ctxAt(owner, 20), f.sm, owner, big.NewInt(1))
	r.Equal(protocol.ErrInvalidStatus, errors.Cause(err))

	_, err = f.p.Reclaim(ctxAt(owner, 111), f.sm, owner, big.NewInt(3))
	r.Equal(protocol.ErrNotFound, errors.Cause(err))

	// a resolved nonce stays consumed
	err = f.p.Reserve(ctxAt(owner, 120), f.sm, signedRequest(t, _owner, 1, 0, 1, 200))
	r.Equal(protocol.ErrNonceReused, errors.Cause(err))
}

func TestStatus(t *testing.T) {
	r := require.New(t)
	r.Equal("Active", Active.String())
	r.Equal("Reclaimed", Reclaimed.String())
	r.Equal("Executed", Executed.String())
	r.Equal("Unknown", Status(9).String())
	r.EqualValues(0, Active)
	r.EqualValues(1, Reclaimed)
	r.EqualValues(2, Executed)
}
