// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/pkg/lifecycle"
)

var (
	// ErrNotExist indicates certain item does not exist in the database
	ErrNotExist = errors.New("not exist in DB")
	// ErrAlreadyDeleted indicates the key has been deleted
	ErrAlreadyDeleted = errors.New("already deleted from DB")
	// ErrAlreadyExist indicates certain item already exists in the database
	ErrAlreadyExist = errors.New("already exist in DB")
	// ErrIO indicates the generic error of DB I/O operation
	ErrIO = errors.New("DB I/O operation error")
	// ErrInvalid indicates an invalid argument or state
	ErrInvalid = errors.New("invalid DB operation")
	// ErrDBNotStarted indicates the DB has not been started
	ErrDBNotStarted = errors.New("db has not started")
)

// KVStore is the interface of KV store.
type KVStore interface {
	lifecycle.StartStopper

	// Put insert or update a record identified by (namespace, key)
	Put(string, []byte, []byte) error
	// Get gets a record by (namespace, key)
	Get(string, []byte) ([]byte, error)
	// Delete deletes a record by (namespace, key)
	Delete(string, []byte) error
	// WriteBatch commits a batch atomically
	WriteBatch(KVStoreBatch) error
	// ForEach iterates over all <k, v> pairs of a namespace in key order
	ForEach(string, func([]byte, []byte) error) error
}

// memKVStore is the in-memory implementation of KVStore for testing purpose
type memKVStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemKVStore instantiates an in-memory KV store
func NewMemKVStore() KVStore {
	return &memKVStore{
		data: make(map[string]map[string][]byte),
	}
}

func (m *memKVStore) Start(_ context.Context) error { return nil }

func (m *memKVStore) Stop(_ context.Context) error { return nil }

// Put inserts a <key, value> record
func (m *memKVStore) Put(namespace string, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(namespace, key, value)
	return nil
}

// Get retrieves a record
func (m *memKVStore) Get(namespace string, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.data[namespace]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "namespace = %s doesn't exist", namespace)
	}
	value, ok := bucket[string(key)]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
	}
	return bytes.Clone(value), nil
}

// Delete deletes a record
func (m *memKVStore) Delete(namespace string, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bucket, ok := m.data[namespace]; ok {
		delete(bucket, string(key))
	}
	return nil
}

// WriteBatch commits a batch
func (m *memKVStore) WriteBatch(b KVStoreBatch) error {
	b.Lock()
	writes := make([]*writeInfo, 0, b.Size())
	for i := 0; i < b.Size(); i++ {
		write, err := b.Entry(i)
		if err != nil {
			b.Unlock()
			return err
		}
		writes = append(writes, write)
	}

	m.mu.Lock()
	for _, write := range writes {
		switch write.writeType {
		case Put:
			m.put(write.namespace, write.key, write.value)
		case Delete:
			if bucket, ok := m.data[write.namespace]; ok {
				delete(bucket, string(write.key))
			}
		}
	}
	m.mu.Unlock()
	b.ClearAndUnlock()
	return nil
}

// ForEach iterates over all <k, v> pairs of a namespace in key order
func (m *memKVStore) ForEach(namespace string, fn func(k, v []byte) error) error {
	m.mu.RLock()
	bucket := m.data[namespace]
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	values := make(map[string][]byte, len(bucket))
	for _, k := range keys {
		values[k] = bytes.Clone(bucket[k])
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memKVStore) put(namespace string, key, value []byte) {
	bucket, ok := m.data[namespace]
	if !ok {
		bucket = make(map[string][]byte)
		m.data[namespace] = bucket
	}
	bucket[string(key)] = bytes.Clone(value)
}
