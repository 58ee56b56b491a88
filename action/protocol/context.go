// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type (
	actionContextKey struct{}
	blockContextKey  struct{}
	chainContextKey  struct{}

	// ActionCtx provides action auxiliary information.
	ActionCtx struct {
		// Caller is the address submitting the action
		Caller common.Address
	}

	// BlockCtx provides block auxiliary information.
	BlockCtx struct {
		// height of block containing those actions
		BlockHeight uint64
	}

	// ChainCtx provides the identity of the ledger instance.
	ChainCtx struct {
		// Contract is the ledger identity bound into every signed message
		Contract common.Address
	}
)

// ErrMissingContext is returned when a required context value is absent
var ErrMissingContext = errors.New("missing context")

// WithActionCtx add ActionCtx into context.
func WithActionCtx(ctx context.Context, ac ActionCtx) context.Context {
	return context.WithValue(ctx, actionContextKey{}, ac)
}

// GetActionCtx gets ActionCtx
func GetActionCtx(ctx context.Context) (ActionCtx, bool) {
	ac, ok := ctx.Value(actionContextKey{}).(ActionCtx)
	return ac, ok
}

// MustGetActionCtx must get action context.
// If context doesn't exist, this function panic.
func MustGetActionCtx(ctx context.Context) ActionCtx {
	ac, ok := ctx.Value(actionContextKey{}).(ActionCtx)
	if !ok {
		panic(errors.Wrap(ErrMissingContext, "action context"))
	}
	return ac
}

// WithBlockCtx add BlockCtx into context.
func WithBlockCtx(ctx context.Context, blk BlockCtx) context.Context {
	return context.WithValue(ctx, blockContextKey{}, blk)
}

// GetBlockCtx gets BlockCtx
func GetBlockCtx(ctx context.Context) (BlockCtx, bool) {
	blk, ok := ctx.Value(blockContextKey{}).(BlockCtx)
	return blk, ok
}

// MustGetBlockCtx must get block context.
// If context doesn't exist, this function panic.
func MustGetBlockCtx(ctx context.Context) BlockCtx {
	blk, ok := ctx.Value(blockContextKey{}).(BlockCtx)
	if !ok {
		panic(errors.Wrap(ErrMissingContext, "block context"))
	}
	return blk
}

// WithChainCtx add ChainCtx into context.
func WithChainCtx(ctx context.Context, cc ChainCtx) context.Context {
	return context.WithValue(ctx, chainContextKey{}, cc)
}

// GetChainCtx gets ChainCtx
func GetChainCtx(ctx context.Context) (ChainCtx, bool) {
	cc, ok := ctx.Value(chainContextKey{}).(ChainCtx)
	return cc, ok
}

// MustGetChainCtx must get chain context.
// If context doesn't exist, this function panic.
func MustGetChainCtx(ctx context.Context) ChainCtx {
	cc, ok := ctx.Value(chainContextKey{}).(ChainCtx)
	if !ok {
		panic(errors.Wrap(ErrMissingContext, "chain context"))
	}
	return cc
}
