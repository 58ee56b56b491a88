// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBaseKVStoreBatch(t *testing.T) {
	require := require.New(t)

	b := NewBatch()
	b.Put(_bucket1, _k1, _v1, "")
	b.Delete(_bucket1, _k2, "")
	require.Equal(2, b.Size())

	w, err := b.Entry(0)
	require.NoError(err)
	require.Equal(Put, w.writeType)
	require.Equal(_bucket1, w.namespace)
	w, err = b.Entry(1)
	require.NoError(err)
	require.Equal(Delete, w.writeType)
	_, err = b.Entry(2)
	require.Equal(ErrInvalid, errors.Cause(err))

	c := b.CloneBatch()
	b.Clear()
	require.Zero(b.Size())
	require.Equal(2, c.Size())
}

func TestCachedBatch(t *testing.T) {
	require := require.New(t)

	cb := NewCachedBatch()
	cb.Put(_bucket1, _k1, _v1, "")
	v, err := cb.Get(_bucket1, _k1)
	require.NoError(err)
	require.Equal(_v1, v)

	_, err = cb.Get(_bucket2, _k1)
	require.Equal(ErrNotExist, errors.Cause(err))

	cb.Delete(_bucket1, _k1, "")
	_, err = cb.Get(_bucket1, _k1)
	require.Equal(ErrAlreadyDeleted, errors.Cause(err))
	require.Equal(2, cb.Size())

	cb.Clear()
	require.Zero(cb.Size())
	_, err = cb.Get(_bucket1, _k1)
	require.Equal(ErrNotExist, errors.Cause(err))
}

func TestCachedBatchSnapshot(t *testing.T) {
	require := require.New(t)

	cb := NewCachedBatch()
	cb.Put(_bucket1, _k1, _v1, "")
	s0 := cb.Snapshot()
	require.Equal(0, s0)

	cb.Put(_bucket1, _k1, _v2, "")
	cb.Put(_bucket1, _k2, _v2, "")
	s1 := cb.Snapshot()
	require.Equal(1, s1)

	cb.Delete(_bucket1, _k1, "")
	cb.Put(_bucket2, _k3, _v3, "")
	require.Equal(5, cb.Size())

	require.NoError(cb.Revert(s1))
	v, err := cb.Get(_bucket1, _k1)
	require.NoError(err)
	require.Equal(_v2, v)
	_, err = cb.Get(_bucket2, _k3)
	require.Equal(ErrNotExist, errors.Cause(err))
	require.Equal(3, cb.Size())

	require.NoError(cb.Revert(s0))
	v, err = cb.Get(_bucket1, _k1)
	require.NoError(err)
	require.Equal(_v1, v)
	_, err = cb.Get(_bucket1, _k2)
	require.Equal(ErrNotExist, errors.Cause(err))
	require.Equal(1, cb.Size())

	// snapshot 1 is gone once reverted to 0
	require.Equal(ErrInvalid, errors.Cause(cb.Revert(s1)))
	require.Equal(1, cb.Snapshot())
}

func TestCachedBatchWriteToStore(t *testing.T) {
	require := require.New(t)

	kv := NewMemKVStore()
	cb := NewCachedBatch()
	cb.Put(_bucket1, _k1, _v1, "")
	cb.Put(_bucket1, _k2, _v2, "")
	cb.Snapshot()
	cb.Delete(_bucket1, _k2, "")
	require.NoError(kv.WriteBatch(cb))
	require.Zero(cb.Size())

	v, err := kv.Get(_bucket1, _k1)
	require.NoError(err)
	require.Equal(_v1, v)
	_, err = kv.Get(_bucket1, _k2)
	require.Equal(ErrNotExist, errors.Cause(err))
	// snapshots are cleared with the batch
	require.Equal(ErrInvalid, errors.Cause(cb.Revert(0)))
}
