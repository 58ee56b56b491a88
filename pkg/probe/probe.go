// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/httputil"
)

// Server serves /liveness, /readiness and /health, plus /metrics when enabled
type Server struct {
	ready            atomic.Bool
	metrics          bool
	server           http.Server
	readinessHandler http.Handler
}

// Option sets a probe server parameter
type Option interface {
	SetOption(*Server)
}

// New creates a probe server listening on port
func New(port int, opts ...Option) *Server {
	s := &Server{
		metrics:          true,
		readinessHandler: http.HandlerFunc(successHandleFunc),
	}
	for _, opt := range opts {
		opt.SetOption(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/liveness", successHandleFunc)
	readiness := func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			failureHandleFunc(w, r)
			return
		}
		s.readinessHandler.ServeHTTP(w, r)
	}
	mux.HandleFunc("/readiness", readiness)
	mux.HandleFunc("/health", readiness)
	if s.metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	s.server = httputil.NewServer(fmt.Sprintf(":%d", port), mux)
	return s
}

// Start serves in the background
func (s *Server) Start(_ context.Context) error {
	ln, err := httputil.LimitListener(s.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil {
			log.L().Info("Probe server stopped.", zap.Error(err))
		}
	}()
	return nil
}

// Ready makes the readiness endpoints answer through the readiness handler
func (s *Server) Ready() { s.ready.Store(true) }

// NotReady makes the readiness endpoints fail
func (s *Server) NotReady() { s.ready.Store(false) }

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error { return s.server.Shutdown(ctx) }

// CheckHandler answers 200 when check passes and 503 otherwise
func CheckHandler(check func() error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := check(); err != nil {
			log.L().Debug("Readiness check failed.", zap.Error(err))
			failureHandleFunc(w, r)
			return
		}
		successHandleFunc(w, r)
	})
}

func successHandleFunc(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.L().Warn("Failed to send http response.", zap.Error(err))
	}
}

func failureHandleFunc(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte("FAIL")); err != nil {
		log.L().Warn("Failed to send http response.", zap.Error(err))
	}
}
