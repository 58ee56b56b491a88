// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/byteutil"
	"github.com/gluwa/gluwacoin-ledger/state"
)

var (
	stateDBMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gluwacoin_state_db",
			Help: "Gluwacoin State DB",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(stateDBMtc)
}

type (
	// WorkingSet stages state changes of one operation in a cached batch on top of the store.
	// Nothing reaches the store before Commit.
	WorkingSet interface {
		protocol.StateManager
		// Commit writes all staged changes to the store in a single batch
		Commit() error
		// Discard drops all staged changes
		Discard()
		// PutHeight stages the height of the block being applied
		PutHeight(uint64) error
	}

	workingSet struct {
		dao db.KVStore
		cb  db.CachedBatch
	}
)

func newWorkingSet(dao db.KVStore) *workingSet {
	return &workingSet{
		dao: dao,
		cb:  db.NewCachedBatch(),
	}
}

// State pulls a state, staged changes first
func (ws *workingSet) State(s interface{}, opts ...protocol.StateOption) error {
	stateDBMtc.WithLabelValues("get").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	data, err := ws.cb.Get(cfg.Namespace, cfg.Key)
	switch errors.Cause(err) {
	case nil:
	case db.ErrAlreadyDeleted:
		return errors.Wrapf(state.ErrStateNotExist, "key %x in %s has been deleted", cfg.Key, cfg.Namespace)
	case db.ErrNotExist:
		if data, err = readState(ws.dao, cfg); err != nil {
			return err
		}
	default:
		return err
	}
	return state.Deserialize(s, data)
}

// States returns all states of a namespace with staged changes applied
func (ws *workingSet) States(opts ...protocol.StateOption) (state.Iterator, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return nil, err
	}
	kvs, err := readNamespace(ws.dao, cfg.Namespace)
	if err != nil {
		return nil, err
	}
	for i := 0; i < ws.cb.Size(); i++ {
		write, err := ws.cb.Entry(i)
		if err != nil {
			return nil, err
		}
		if write.Namespace() != cfg.Namespace {
			continue
		}
		switch write.WriteType() {
		case db.Put:
			kvs[string(write.Key())] = write.Value()
		case db.Delete:
			delete(kvs, string(write.Key()))
		}
	}
	return sortedIterator(kvs)
}

// PutState stages a state
func (ws *workingSet) PutState(s interface{}, opts ...protocol.StateOption) error {
	stateDBMtc.WithLabelValues("put").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	ss, err := state.Serialize(s)
	if err != nil {
		return errors.Wrapf(err, "failed to convert state %v to bytes", s)
	}
	ws.cb.Put(cfg.Namespace, cfg.Key, ss, "failed to put state %x in %s", cfg.Key, cfg.Namespace)
	return nil
}

// DelState stages a state deletion
func (ws *workingSet) DelState(opts ...protocol.StateOption) error {
	stateDBMtc.WithLabelValues("delete").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	ws.cb.Delete(cfg.Namespace, cfg.Key, "failed to delete state %x in %s", cfg.Key, cfg.Namespace)
	return nil
}

func (ws *workingSet) Snapshot() int {
	return ws.cb.Snapshot()
}

func (ws *workingSet) Revert(snapshot int) error {
	return ws.cb.Revert(snapshot)
}

// Commit persists all staged changes into the DB
func (ws *workingSet) Commit() error {
	if ws.cb.Size() == 0 {
		return nil
	}
	if err := ws.dao.WriteBatch(ws.cb); err != nil {
		ws.Discard()
		return errors.Wrap(err, "failed to commit all changes to underlying DB in a batch")
	}
	return nil
}

// PutHeight stages the height of the block being applied, committed with the rest of the changes
func (ws *workingSet) PutHeight(height uint64) error {
	ws.cb.Put(SystemNamespace, []byte(_currentHeightKey), byteutil.Uint64ToBytesBigEndian(height), "failed to put height %d", height)
	return nil
}

// Discard drops all staged changes
func (ws *workingSet) Discard() {
	ws.cb.Clear()
}

func readState(dao db.KVStore, cfg *protocol.StateConfig) ([]byte, error) {
	data, err := dao.Get(cfg.Namespace, cfg.Key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return nil, errors.Wrapf(state.ErrStateNotExist, "key %x doesn't exist in namespace %s", cfg.Key, cfg.Namespace)
		}
		return nil, errors.Wrapf(err, "failed to get key %x in namespace %s", cfg.Key, cfg.Namespace)
	}
	return data, nil
}

func readNamespace(dao db.KVStore, ns string) (map[string][]byte, error) {
	kvs := make(map[string][]byte)
	if err := dao.ForEach(ns, func(k, v []byte) error {
		kvs[string(k)] = v
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to read namespace %s", ns)
	}
	return kvs, nil
}

func sortedIterator(kvs map[string][]byte) (state.Iterator, error) {
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var (
		ks = make([][]byte, 0, len(keys))
		vs = make([][]byte, 0, len(keys))
	)
	for _, k := range keys {
		ks = append(ks, []byte(k))
		vs = append(vs, kvs[k])
	}
	return state.NewIterator(ks, vs)
}
