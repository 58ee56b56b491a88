// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package nonce

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/state/factory"
	"github.com/gluwa/gluwacoin-ledger/test/identityset"
)

func TestTracker(t *testing.T) {
	r := require.New(t)
	sf := factory.NewFactory(db.NewMemKVStore())
	r.NoError(sf.Start(context.Background()))
	defer func() {
		r.NoError(sf.Stop(context.Background()))
	}()
	ws := sf.NewWorkingSet()
	tr := NewTracker()
	owner := identityset.Address(1)
	n := big.NewInt(1600000000)

	isUsed, err := tr.IsUsed(ws, Reservation, owner, n)
	r.NoError(err)
	r.False(isUsed)

	r.NoError(tr.Use(ws, Reservation, owner, n, "used"))
	isUsed, err = tr.IsUsed(ws, Reservation, owner, n)
	r.NoError(err)
	r.True(isUsed)

	err = tr.Use(ws, Reservation, owner, n, "the nonce is used")
	r.Equal(protocol.ErrNonceReused, errors.Cause(err))
	r.Equal("the nonce is used", protocol.Reason(err))

	// spaces and owners are independent
	r.NoError(tr.Use(ws, ETHless, owner, n, ""))
	r.NoError(tr.Use(ws, Reservation, identityset.Address(2), n, ""))
	r.NoError(tr.Use(ws, Reservation, owner, big.NewInt(0), ""))
}

func TestKey(t *testing.T) {
	r := require.New(t)
	owner := identityset.Address(3)
	k := Key(owner, big.NewInt(258))
	r.Len(k, 52)
	r.Equal(owner.Bytes(), k[:20])
	r.Equal([]byte{1, 2}, k[50:])
	r.NotEqual(k, Key(owner, big.NewInt(259)))
}
