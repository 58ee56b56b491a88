// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gluwa/gluwacoin-ledger/testutil"
)

var (
	_bucket1 = "test_ns1"
	_bucket2 = "test_ns2"
	_k1      = []byte("key_1")
	_k2      = []byte("key_2")
	_k3      = []byte("key_3")
	_v1      = []byte("value_1")
	_v2      = []byte("value_2")
	_v3      = []byte("value_3")
)

func testKVStores(t *testing.T, fn func(*testing.T, KVStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemKVStore())
	})
	t.Run("bolt", func(t *testing.T) {
		cfg := DefaultConfig
		cfg.DbPath = testutil.TempDBPath(t, "bolt")
		fn(t, NewBoltDB(cfg))
	})
	t.Run("pebble", func(t *testing.T) {
		cfg := DefaultConfig
		cfg.DBType = DBPebble
		cfg.DbPath = testutil.TempDBPath(t, "pebble")
		fn(t, NewPebbleDB(cfg))
	})
}

func TestKVStorePutGet(t *testing.T) {
	testKVStores(t, func(t *testing.T, kvStore KVStore) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		_, err := kvStore.Get(_bucket1, _k1)
		require.Equal(ErrNotExist, errors.Cause(err))

		require.NoError(kvStore.Put(_bucket1, _k1, _v1))
		value, err := kvStore.Get(_bucket1, _k1)
		require.NoError(err)
		require.Equal(_v1, value)

		// same key in another namespace does not collide
		_, err = kvStore.Get(_bucket2, _k1)
		require.Equal(ErrNotExist, errors.Cause(err))

		require.NoError(kvStore.Put(_bucket1, _k1, _v2))
		value, err = kvStore.Get(_bucket1, _k1)
		require.NoError(err)
		require.Equal(_v2, value)

		require.NoError(kvStore.Delete(_bucket1, _k1))
		_, err = kvStore.Get(_bucket1, _k1)
		require.Equal(ErrNotExist, errors.Cause(err))
		// deleting a missing key is not an error
		require.NoError(kvStore.Delete(_bucket2, _k3))
	})
}

func TestKVStoreWriteBatch(t *testing.T) {
	testKVStores(t, func(t *testing.T, kvStore KVStore) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(_bucket1, _k3, _v3))

		b := NewBatch()
		b.Put(_bucket1, _k1, _v1, "")
		b.Put(_bucket1, _k2, _v2, "")
		b.Put(_bucket2, _k1, _v1, "")
		b.Put(_bucket2, _k1, _v3, "failed to put %x", _k1)
		b.Delete(_bucket1, _k3, "")
		require.Equal(5, b.Size())
		require.NoError(kvStore.WriteBatch(b))
		require.Zero(b.Size())

		for _, e := range []struct {
			ns    string
			k, v  []byte
			exist bool
		}{
			{_bucket1, _k1, _v1, true},
			{_bucket1, _k2, _v2, true},
			{_bucket2, _k1, _v3, true},
			{_bucket1, _k3, nil, false},
		} {
			value, err := kvStore.Get(e.ns, e.k)
			if !e.exist {
				require.Equal(ErrNotExist, errors.Cause(err))
				continue
			}
			require.NoError(err)
			require.Equal(e.v, value)
		}
	})
}

func TestKVStoreForEach(t *testing.T) {
	testKVStores(t, func(t *testing.T, kvStore KVStore) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(_bucket1, _k3, _v3))
		require.NoError(kvStore.Put(_bucket1, _k1, _v1))
		require.NoError(kvStore.Put(_bucket1, _k2, _v2))
		require.NoError(kvStore.Put(_bucket2, _k1, _v1))

		var keys, values [][]byte
		require.NoError(kvStore.ForEach(_bucket1, func(k, v []byte) error {
			keys = append(keys, k)
			values = append(values, v)
			return nil
		}))
		require.Equal([][]byte{_k1, _k2, _k3}, keys)
		require.Equal([][]byte{_v1, _v2, _v3}, values)

		errStop := errors.New("stop")
		count := 0
		require.Equal(errStop, kvStore.ForEach(_bucket1, func(k, v []byte) error {
			count++
			return errStop
		}))
		require.Equal(1, count)

		require.NoError(kvStore.ForEach("empty", func(k, v []byte) error {
			return errStop
		}))
	})
}

func TestStoreNotStarted(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig
	cfg.DbPath = "unused"
	for _, kv := range []KVStore{NewBoltDB(cfg), NewPebbleDB(cfg)} {
		_, err := kv.Get(_bucket1, _k1)
		require.Equal(ErrDBNotStarted, err)
		require.Equal(ErrDBNotStarted, kv.Put(_bucket1, _k1, _v1))
		require.Equal(ErrDBNotStarted, kv.WriteBatch(NewBatch()))
	}
}

func TestCreateKVStore(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	cfg.DbPath = ""
	_, err := CreateKVStore(cfg)
	require.Equal(ErrEmptyDBPath, err)

	cfg.DBType = "leveldb"
	_, err = CreateKVStore(cfg)
	require.Equal(ErrInvalid, errors.Cause(err))

	cfg.DBType = DBMemory
	kv, err := CreateKVStore(cfg)
	require.NoError(err)
	require.IsType(&memKVStore{}, kv)

	cfg.DbPath = "path"
	cfg.DBType = DBBolt
	kv, err = CreateKVStore(cfg)
	require.NoError(err)
	require.IsType(&BoltDB{}, kv)

	cfg.DBType = DBPebble
	kv, err = CreateKVStore(cfg)
	require.NoError(err)
	require.IsType(&PebbleDB{}, kv)
}
