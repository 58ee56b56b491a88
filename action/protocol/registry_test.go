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

	"github.com/gluwa/gluwacoin-ledger/action"
)

type burnOnly struct {
	calls int
}

func (p *burnOnly) Name() string { return "burnOnly" }

func (p *burnOnly) Handle(_ context.Context, act action.Action, _ StateManager) (*Result, error) {
	p.calls++
	b, ok := act.(*action.Burn)
	if !ok {
		return nil, nil
	}
	if b.Amount().Sign() == 0 {
		return nil, Reject(ErrInvalidAmount, "zero burn")
	}
	return NewResult(NewEvent(EventBurnt, 1, "value", b.Amount().String())), nil
}

type transferOnly struct{}

func (transferOnly) Name() string { return "transferOnly" }

func (transferOnly) Handle(_ context.Context, act action.Action, _ StateManager) (*Result, error) {
	if _, ok := act.(*action.Transfer); !ok {
		return nil, nil
	}
	return NewResult(), nil
}

func TestRegistry(t *testing.T) {
	r := require.New(t)
	reg := NewRegistry()
	burner := &burnOnly{}
	r.NoError(reg.Register("burn", burner))
	r.NoError(reg.Register("transfer", transferOnly{}))
	r.Error(reg.Register("burn", transferOnly{}))

	p, ok := reg.Find("burn")
	r.True(ok)
	r.Equal("burnOnly", p.Name())
	_, ok = reg.Find("mint")
	r.False(ok)

	all := reg.All()
	r.Len(all, 2)
	r.Equal("burnOnly", all[0].Name())
	r.Equal("transferOnly", all[1].Name())

	ctx := context.Background()
	result, err := reg.Handle(ctx, action.NewBurn(big.NewInt(3)), nil)
	r.NoError(err)
	r.Len(result.Events, 1)

	result, err = reg.Handle(ctx, action.NewTransfer(common.Address{}, big.NewInt(1)), nil)
	r.NoError(err)
	r.Empty(result.Events)
	r.Equal(2, burner.calls)

	_, err = reg.Handle(ctx, action.NewBurn(big.NewInt(0)), nil)
	r.Equal(ErrInvalidAmount, errors.Cause(err))

	_, err = reg.Handle(ctx, action.NewMint("0x00"), nil)
	r.Equal(ErrUnhandled, errors.Cause(err))
	r.Equal(KindInternal, ErrorKind(err))
}
