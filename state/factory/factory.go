// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/pkg/lifecycle"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/byteutil"
	"github.com/gluwa/gluwacoin-ledger/state"
)

const (
	// SystemNamespace is the namespace to store system information such as the current height
	SystemNamespace = "System"

	_currentHeightKey = "currentHeight"
)

type (
	// Factory owns the state store. Reads see committed state only, writes go through working sets.
	Factory interface {
		lifecycle.StartStopper
		protocol.StateReader
		// NewWorkingSet returns an empty working set on top of the committed state
		NewWorkingSet() WorkingSet
		// Height returns the height of the last applied block, 0 if none
		Height() (uint64, error)
		// PutHeight records the height of the last applied block
		PutHeight(uint64) error
	}

	factory struct {
		dao db.KVStore
	}
)

// NewFactory creates a state factory on top of the store
func NewFactory(dao db.KVStore) Factory {
	return &factory{dao: dao}
}

func (sf *factory) Start(ctx context.Context) error {
	return sf.dao.Start(ctx)
}

func (sf *factory) Stop(ctx context.Context) error {
	return sf.dao.Stop(ctx)
}

func (sf *factory) NewWorkingSet() WorkingSet {
	return newWorkingSet(sf.dao)
}

// State reads a committed state
func (sf *factory) State(s interface{}, opts ...protocol.StateOption) error {
	stateDBMtc.WithLabelValues("get").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	data, err := readState(sf.dao, cfg)
	if err != nil {
		return err
	}
	return state.Deserialize(s, data)
}

// States returns all committed states of a namespace in key order
func (sf *factory) States(opts ...protocol.StateOption) (state.Iterator, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return nil, err
	}
	kvs, err := readNamespace(sf.dao, cfg.Namespace)
	if err != nil {
		return nil, err
	}
	return sortedIterator(kvs)
}

func (sf *factory) Height() (uint64, error) {
	data, err := sf.dao.Get(SystemNamespace, []byte(_currentHeightKey))
	switch errors.Cause(err) {
	case nil:
		return byteutil.BytesToUint64BigEndian(data), nil
	case db.ErrNotExist:
		return 0, nil
	default:
		return 0, errors.Wrap(err, "failed to read current height")
	}
}

func (sf *factory) PutHeight(height uint64) error {
	if err := sf.dao.Put(SystemNamespace, []byte(_currentHeightKey), byteutil.Uint64ToBytesBigEndian(height)); err != nil {
		return errors.Wrapf(err, "failed to store height %d", height)
	}
	return nil
}
