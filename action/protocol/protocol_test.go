// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestContexts(t *testing.T) {
	require := require.New(t)

	ctx := context.Background()
	_, ok := GetActionCtx(ctx)
	require.False(ok)
	require.Panics(func() { MustGetActionCtx(ctx) })
	require.Panics(func() { MustGetBlockCtx(ctx) })
	require.Panics(func() { MustGetChainCtx(ctx) })

	caller := common.HexToAddress("0x1")
	contract := common.HexToAddress("0x2")
	ctx = WithActionCtx(ctx, ActionCtx{Caller: caller})
	ctx = WithBlockCtx(ctx, BlockCtx{BlockHeight: 7})
	ctx = WithChainCtx(ctx, ChainCtx{Contract: contract})

	require.Equal(caller, MustGetActionCtx(ctx).Caller)
	require.Equal(uint64(7), MustGetBlockCtx(ctx).BlockHeight)
	require.Equal(contract, MustGetChainCtx(ctx).Contract)
	bc, ok := GetBlockCtx(ctx)
	require.True(ok)
	require.Equal(uint64(7), bc.BlockHeight)
	cc, ok := GetChainCtx(ctx)
	require.True(ok)
	require.Equal(contract, cc.Contract)
}

func TestStateConfig(t *testing.T) {
	require := require.New(t)

	_, err := CreateStateConfig(KeyOption([]byte("k")))
	require.Equal(ErrMissingNamespace, err)

	key := []byte("key")
	cfg, err := CreateStateConfig(NamespaceOption("ns"), KeyOption(key))
	require.NoError(err)
	require.Equal("ns", cfg.Namespace)
	key[0] = 'x'
	require.Equal([]byte("key"), cfg.Key)

	bad := func(*StateConfig) error { return ErrInvalidAmount }
	_, err = CreateStateConfig(NamespaceOption("ns"), bad)
	require.Equal(ErrInvalidAmount, errors.Cause(err))
}

func TestReject(t *testing.T) {
	require := require.New(t)

	err := Reject(ErrUnauthorized, "GluwaRole: caller does not have the Gluwa role")
	require.Equal(ErrUnauthorized, errors.Cause(err))
	require.True(errors.Is(err, ErrUnauthorized))
	require.Equal("Unauthorized", ErrorKind(err))
	require.Equal("GluwaRole: caller does not have the Gluwa role", Reason(err))
	require.Equal("GluwaRole: caller does not have the Gluwa role", err.Error())

	wrapped := errors.Wrap(err, "failed to add role")
	require.Equal("Unauthorized", ErrorKind(wrapped))
	require.Equal("GluwaRole: caller does not have the Gluwa role", Reason(wrapped))

	err = Rejectf(ErrNotFound, "peg %d", 1)
	require.Equal("NotFound", ErrorKind(err))
	require.Equal("peg 1", Reason(err))

	io := errors.New("disk on fire")
	require.Equal(KindInternal, ErrorKind(io))
	require.Equal("disk on fire", Reason(io))
	require.Empty(ErrorKind(nil))
	require.Empty(Reason(nil))

	for kind, name := range _kinds {
		require.Equal(name, ErrorKind(Reject(kind, "r")))
	}
}

func TestValidateAmount(t *testing.T) {
	require := require.New(t)

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	require.NoError(ValidateAmount(big.NewInt(0), big.NewInt(1), maxUint256))
	over := new(big.Int).Add(maxUint256, big.NewInt(1))
	for _, amount := range []*big.Int{nil, big.NewInt(-1), over} {
		require.Equal(ErrInvalidAmount, errors.Cause(ValidateAmount(big.NewInt(1), amount)))
	}

	sum, err := SafeAdd(big.NewInt(4999), big.NewInt(1))
	require.NoError(err)
	require.Equal(0, sum.Cmp(big.NewInt(5000)))
	_, err = SafeAdd(maxUint256, big.NewInt(1))
	require.Equal(ErrInvalidAmount, errors.Cause(err))
}

func TestEvent(t *testing.T) {
	require := require.New(t)

	e := NewEvent(EventMint, 3, "to", "0x1", "amount", "10", "dangling")
	require.Equal(EventMint, e.Name)
	require.Len(e.Fields, 2)
	v, ok := e.Field("amount")
	require.True(ok)
	require.Equal("10", v)
	_, ok = e.Field("dangling")
	require.False(ok)
	NopSink().Emit(context.Background(), e)
}
