// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package itx

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/chainservice"
	"github.com/gluwa/gluwacoin-ledger/config"
	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/pkg/lifecycle"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/pkg/probe"
	"github.com/gluwa/gluwacoin-ledger/pkg/routine"
)

// Server is the ledger server hosting one chain service
type Server struct {
	cfg       config.Config
	cs        *chainservice.ChainService
	lifecycle lifecycle.Lifecycle
}

// NewServer creates a new server
func NewServer(cfg config.Config, opts ...chainservice.Option) (*Server, error) {
	cs, err := chainservice.New(cfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create chain service")
	}
	s := &Server{
		cfg: cfg,
		cs:  cs,
	}
	s.lifecycle.Add(cs)
	return s, nil
}

// NewInMemTestServer creates a server backed by an in-memory store
func NewInMemTestServer(cfg config.Config) (*Server, error) {
	cfg.DB = db.Config{DBType: db.DBMemory}
	return NewServer(cfg)
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	return s.lifecycle.OnStart(ctx)
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.lifecycle.OnStop(ctx)
}

// ChainService returns the hosted chain service
func (s *Server) ChainService() *chainservice.ChainService {
	return s.cs
}

// StartServer starts a server and blocks until ctx is done, then stops it
func StartServer(ctx context.Context, svr *Server, probeSvr *probe.Server, cfg config.Config) error {
	if err := svr.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start server")
	}
	probeSvr.Ready()

	if cfg.System.HeartbeatInterval > 0 {
		task := routine.NewRecurringTask(NewHeartbeatHandler(svr).Log, cfg.System.HeartbeatInterval)
		if err := task.Start(ctx); err != nil {
			return errors.Wrap(err, "failed to start heartbeat routine")
		}
		defer func() {
			if err := task.Stop(ctx); err != nil {
				log.L().Error("Failed to stop heartbeat routine.", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	probeSvr.NotReady()
	// ctx is done at this point
	if err := svr.Stop(context.Background()); err != nil {
		return errors.Wrap(err, "failed to stop server")
	}
	return nil
}
