// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/action"
	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/config"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/pkg/lifecycle"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/state/factory"
	"github.com/gluwa/gluwacoin-ledger/token"
)

var _heightMtc = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "gluwacoin_height",
		Help: "Height of the last applied block.",
	},
)

func init() {
	prometheus.MustRegister(_heightMtc)
}

// ChainService hosts a ledger instance: it owns the store, applies blocks and serves queries.
type ChainService struct {
	lifecycle lifecycle.Lifecycle
	ready     lifecycle.Readiness

	dao         db.KVStore
	factory     factory.Factory
	token       *token.Token
	sink        protocol.EventSink
	deployer    common.Address
	hasDeployer bool
	readCache   *ReadCache
}

// Option sets ChainService construction parameter.
type Option func(*ChainService) error

// WithKVStore replaces the store built from the db config
func WithKVStore(dao db.KVStore) Option {
	return func(cs *ChainService) error {
		cs.dao = dao
		return nil
	}
}

// WithEventSink replaces the default sink, which logs every event
func WithEventSink(sink protocol.EventSink) Option {
	return func(cs *ChainService) error {
		cs.sink = sink
		return nil
	}
}

// New creates a ChainService from config and server options.
func New(cfg config.Config, opts ...Option) (*ChainService, error) {
	contract, err := cfg.Chain.ContractAddress()
	if err != nil {
		return nil, err
	}
	deployer, hasDeployer, err := cfg.Chain.DeployerAddress()
	if err != nil {
		return nil, err
	}
	cs := &ChainService{
		deployer:    deployer,
		hasDeployer: hasDeployer,
		readCache:   NewReadCache(),
	}
	for _, opt := range opts {
		if err := opt(cs); err != nil {
			return nil, err
		}
	}
	if cs.dao == nil {
		if cs.dao, err = db.CreateKVStore(cfg.DB); err != nil {
			return nil, errors.Wrap(err, "failed to create chain store")
		}
	}
	if cs.sink == nil {
		cs.sink = token.NewLogSink()
	}
	cs.factory = factory.NewFactory(cs.dao)
	if cs.token, err = token.New(cs.factory, contract, token.WithEventSink(cs.sink)); err != nil {
		return nil, errors.Wrap(err, "failed to create token")
	}
	cs.lifecycle.Add(cs.factory)
	return cs, nil
}

// Start starts the store and bootstraps the roles of a ledger that was never bootstrapped
func (cs *ChainService) Start(ctx context.Context) error {
	if err := cs.lifecycle.OnStart(ctx); err != nil {
		return errors.Wrap(err, "error when starting chain store")
	}
	if cs.hasDeployer {
		if err := cs.token.Bootstrap(cs.deployer); err != nil {
			return errors.Wrap(err, "error when bootstrapping roles")
		}
	}
	height, err := cs.factory.Height()
	if err != nil {
		return err
	}
	_heightMtc.Set(float64(height))
	log.L().Info("Started chain service.",
		zap.String("contract", cs.token.Contract().Hex()),
		zap.Uint64("height", height))
	return cs.ready.TurnOn()
}

// Stop stops the service
func (cs *ChainService) Stop(ctx context.Context) error {
	if err := cs.ready.TurnOff(); err != nil {
		return err
	}
	if err := cs.lifecycle.OnStop(ctx); err != nil {
		return errors.Wrap(err, "error when stopping chain store")
	}
	return nil
}

// ApplyBlock applies blk on top of the current height and returns one receipt per envelope
func (cs *ChainService) ApplyBlock(ctx context.Context, blk *action.Block) (action.Receipts, error) {
	if err := cs.ready.Check(); err != nil {
		return nil, err
	}
	receipts, err := cs.token.ApplyBlock(ctx, blk)
	if err != nil {
		return nil, err
	}
	_heightMtc.Set(float64(blk.Height()))
	for _, r := range receipts {
		if !r.Succeeded() {
			log.L().Warn("Rejected action.",
				zap.Uint64("height", r.BlockHeight),
				zap.Uint32("index", r.Index),
				zap.String("kind", r.Kind.String()),
				zap.String("errorKind", r.ErrorKind),
				zap.String("reason", r.Reason))
		}
	}
	return receipts, nil
}

// ReceiptsByHeight returns the receipts of the block applied at height
func (cs *ChainService) ReceiptsByHeight(height uint64) (action.Receipts, error) {
	key := receiptsKey(height)
	if b, ok := cs.readCache.Get(key); ok {
		var receipts action.Receipts
		if err := receipts.Deserialize(b); err != nil {
			return nil, err
		}
		return receipts, nil
	}
	receipts, err := cs.token.ReceiptsByHeight(height)
	if err != nil {
		return nil, err
	}
	b, err := receipts.Serialize()
	if err != nil {
		return nil, err
	}
	cs.readCache.Put(key, b)
	return receipts, nil
}

// Height returns the height of the last applied block
func (cs *ChainService) Height() (uint64, error) { return cs.token.Height() }

// ReadCacheStats returns the number of receipt lookups and how many were served from the cache
func (cs *ChainService) ReadCacheStats() (total, hit int) { return cs.readCache.Stats() }

// Token returns the hosted ledger
func (cs *ChainService) Token() *token.Token { return cs.token }

// IsReady returns whether the service accepts blocks
func (cs *ChainService) IsReady() bool { return cs.ready.IsReady() }

// Check returns lifecycle.ErrNotReady unless the service accepts blocks
func (cs *ChainService) Check() error { return cs.ready.Check() }
