// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"syscall"

	"github.com/cockroachdb/pebble"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/pkg/lifecycle"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

const (
	prefixLength = 8
)

var (
	pebbledbMtc = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gluwacoin_pebbledb_metrics",
		Help: "pebbledb metrics.",
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(pebbledbMtc)
}

// PebbleDB is KVStore implementation based on pebble DB
type PebbleDB struct {
	lifecycle.Readiness
	db     *pebble.DB
	path   string
	config Config
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(cfg Config) *PebbleDB {
	return &PebbleDB{
		db:     nil,
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the DB (creates new file if not existing yet)
func (b *PebbleDB) Start(_ context.Context) error {
	db, err := pebble.Open(b.path, &pebble.Options{
		ReadOnly: b.config.ReadOnly,
	})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	b.db = db
	return b.TurnOn()
}

// Stop closes the DB
func (b *PebbleDB) Stop(_ context.Context) error {
	if err := b.TurnOff(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Get retrieves a record
func (b *PebbleDB) Get(ns string, key []byte) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrDBNotStarted
	}
	pebbledbMtc.WithLabelValues("get").Inc()
	v, closer, err := b.db.Get(nsKey(ns, key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist", ns, key)
		}
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	val := bytes.Clone(v)
	return val, closer.Close()
}

// Put inserts a <key, value> record
func (b *PebbleDB) Put(ns string, key, value []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	pebbledbMtc.WithLabelValues("put").Inc()
	if err = b.db.Set(nsKey(ns, key), value, pebble.Sync); err != nil {
		err = b.ioErr("Failed to put db.", err)
	}
	return
}

// Delete deletes a record
func (b *PebbleDB) Delete(ns string, key []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	pebbledbMtc.WithLabelValues("delete").Inc()
	if err = b.db.Delete(nsKey(ns, key), pebble.Sync); err != nil {
		err = b.ioErr("Failed to delete db.", err)
	}
	return
}

// WriteBatch commits a batch
func (b *PebbleDB) WriteBatch(kvsb KVStoreBatch) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	pebbledbMtc.WithLabelValues("writeBatch").Inc()

	kvsb.Lock()
	batch, err := b.dedup(kvsb)
	if err != nil {
		kvsb.Unlock()
		return err
	}
	if err = batch.Commit(pebble.Sync); err != nil {
		kvsb.Unlock()
		return b.ioErr("Failed to write batch db.", err)
	}
	kvsb.ClearAndUnlock()
	return nil
}

// dedup keeps only the last write for each key
func (b *PebbleDB) dedup(kvsb KVStoreBatch) (*pebble.Batch, error) {
	type doubleKey struct {
		ns  string
		key string
	}
	var (
		entryKeySet = make(map[doubleKey]struct{})
		ch          = b.db.NewBatch()
	)
	for i := kvsb.Size() - 1; i >= 0; i-- {
		write, e := kvsb.Entry(i)
		if e != nil {
			return nil, e
		}
		k := doubleKey{ns: write.namespace, key: string(write.key)}
		if _, ok := entryKeySet[k]; ok {
			continue
		}
		entryKeySet[k] = struct{}{}
		var err error
		switch write.writeType {
		case Put:
			err = ch.Set(nsKey(write.namespace, write.key), write.value, nil)
		case Delete:
			err = ch.Delete(nsKey(write.namespace, write.key), nil)
		}
		if err != nil {
			return nil, write.wrapErr(err)
		}
	}
	return ch, nil
}

// ForEach iterates over all <k, v> pairs of a namespace in key order
func (b *PebbleDB) ForEach(ns string, fn func(k, v []byte) error) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	prefix := nsToPrefix(ns)
	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	defer func() {
		if e := iter.Close(); e != nil {
			log.L().Error("Failed to close iterator", zap.Error(e))
		}
	}()
	for iter.First(); iter.Valid(); iter.Next() {
		k, err := decodeKey(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(bytes.Clone(k), bytes.Clone(iter.Value())); err != nil {
			return err
		}
	}
	return nil
}

func (b *PebbleDB) ioErr(msg string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		log.L().Fatal(msg, zap.Error(err))
	}
	return errors.Wrap(ErrIO, err.Error())
}

func nsKey(ns string, key []byte) []byte {
	nk := nsToPrefix(ns)
	return append(nk, key...)
}

func nsToPrefix(ns string) []byte {
	h := hash.Hash160b([]byte(ns))
	return bytes.Clone(h[:prefixLength])
}

// upperBound returns the smallest key greater than every key with the given prefix
func upperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func decodeKey(k []byte) (key []byte, err error) {
	if len(k) < prefixLength {
		return nil, errors.Wrap(ErrInvalid, "key is too short")
	}
	return k[prefixLength:], nil
}
