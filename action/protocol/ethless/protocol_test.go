// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package ethless

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/account"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/nonce"
	"github.com/gluwa/gluwacoin-ledger/action/protocol/role"
	"github.com/gluwa/gluwacoin-ledger/crypto"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/state/factory"
	"github.com/gluwa/gluwacoin-ledger/test/identityset"
)

const (
	_gluwa = iota
	_owner
	_recipient
	_stranger
)

var _contract = identityset.Address(9)

func testProtocol(t *testing.T, test func(*testing.T, *Protocol, *account.Protocol, protocol.StateManager)) {
	sf := factory.NewFactory(db.NewMemKVStore())
	require.NoError(t, sf.Start(context.Background()))
	defer func() {
		require.NoError(t, sf.Stop(context.Background()))
	}()
	ws := sf.NewWorkingSet()
	roles, ledger := role.NewProtocol(), account.NewProtocol()
	require.NoError(t, roles.Bootstrap(ws, identityset.Address(_gluwa)))
	require.NoError(t, ledger.Mint(ws, identityset.Address(_owner), big.NewInt(1000)))
	test(t, NewProtocol(roles, ledger, nonce.NewTracker(), crypto.NewVerifier()), ledger, ws)
}

func callerCtx(caller int) context.Context {
	ctx := protocol.WithActionCtx(context.Background(), protocol.ActionCtx{Caller: identityset.Address(caller)})
	return protocol.WithChainCtx(ctx, protocol.ChainCtx{Contract: _contract})
}

func signedRequest(t *testing.T, signer int, amount, fee, n int64) *Request {
	req := &Request{
		Owner:     identityset.Address(_owner),
		Recipient: identityset.Address(_recipient),
		Amount:    big.NewInt(amount),
		Fee:       big.NewInt(fee),
		Nonce:     big.NewInt(n),
	}
	hash, err := crypto.TransferHash(_contract, req.Owner, req.Recipient, req.Amount, req.Fee, req.Nonce)
	require.NoError(t, err)
	req.Signature, err = crypto.Sign(identityset.PrivateKey(signer), hash)
	require.NoError(t, err)
	return req
}

func balanceOf(t *testing.T, ledger *account.Protocol, sr protocol.StateReader, i int) int64 {
	b, err := ledger.BalanceOf(sr, identityset.Address(i))
	require.NoError(t, err)
	return b.Int64()
}

func TestTransfer(t *testing.T) {
	testProtocol(t, func(t *testing.T, p *Protocol, ledger *account.Protocol, sm protocol.StateManager) {
		r := require.New(t)
		r.NoError(p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _owner, 600, 5, 1)))
		r.EqualValues(395, balanceOf(t, ledger, sm, _owner))
		r.EqualValues(600, balanceOf(t, ledger, sm, _recipient))
		r.EqualValues(5, balanceOf(t, ledger, sm, _gluwa))

		supply, err := ledger.TotalSupply(sm)
		r.NoError(err)
		r.EqualValues(1000, supply.Int64())

		err = p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _owner, 1, 0, 1))
		r.Equal(protocol.ErrNonceReused, errors.Cause(err))
		r.Equal(ReasonNonceUsed, protocol.Reason(err))
	})
}

func TestTransferRejections(t *testing.T) {
	testProtocol(t, func(t *testing.T, p *Protocol, ledger *account.Protocol, sm protocol.StateManager) {
		r := require.New(t)

		// a valid owner signature does not help a non-Gluwa submitter
		err := p.Transfer(callerCtx(_stranger), sm, signedRequest(t, _owner, 1, 0, 1))
		r.Equal(protocol.ErrUnauthorized, errors.Cause(err))
		r.Equal("GluwaRole: caller does not have the Gluwa role", protocol.Reason(err))

		err = p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _stranger, 1, 0, 1))
		r.Equal(protocol.ErrInvalidSignature, errors.Cause(err))
		r.Equal(ReasonInvalidSignature, protocol.Reason(err))

		err = p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _owner, 1000, 1, 2))
		r.Equal(protocol.ErrInsufficientFunds, errors.Cause(err))

		req := signedRequest(t, _owner, 1, 0, 3)
		req.Recipient = common.Address{}
		err = p.Transfer(callerCtx(_gluwa), sm, req)
		r.Equal(protocol.ErrZeroAddress, errors.Cause(err))

		r.EqualValues(1000, balanceOf(t, ledger, sm, _owner))
	})
}

func TestTransferRespectsReservedFunds(t *testing.T) {
	testProtocol(t, func(t *testing.T, p *Protocol, ledger *account.Protocol, sm protocol.StateManager) {
		r := require.New(t)
		r.NoError(ledger.Hold(sm, identityset.Address(_owner), big.NewInt(900)))
		err := p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _owner, 100, 1, 1))
		r.Equal(protocol.ErrInsufficientFunds, errors.Cause(err))
		r.Equal(account.ReasonExceedsUnreserved, protocol.Reason(err))
		r.EqualValues(1000, balanceOf(t, ledger, sm, _owner))
		r.NoError(p.Transfer(callerCtx(_gluwa), sm, signedRequest(t, _owner, 99, 1, 2)))
	})
}
