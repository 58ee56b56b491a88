// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package itx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

var _heartbeatMtc = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "gluwacoin_heartbeat_status",
		Help: "Ledger heartbeat status.",
	},
	[]string{"status_type"},
)

func init() {
	prometheus.MustRegister(_heartbeatMtc)
}

// HeartbeatHandler is the handler to periodically log the ledger status
type HeartbeatHandler struct {
	s *Server
}

// NewHeartbeatHandler instantiates a HeartbeatHandler instance
func NewHeartbeatHandler(s *Server) *HeartbeatHandler {
	return &HeartbeatHandler{s: s}
}

// Log executes the logging logic
func (h *HeartbeatHandler) Log() {
	cs := h.s.ChainService()
	height, err := cs.Height()
	if err != nil {
		log.L().Error("Failed to read height.", zap.Error(err))
		return
	}
	supply, err := cs.Token().TotalSupply()
	if err != nil {
		log.L().Error("Failed to read total supply.", zap.Error(err))
		return
	}
	total, hit := cs.ReadCacheStats()
	log.L().Info("Ledger status.",
		zap.Uint64("height", height),
		zap.String("totalSupply", supply.String()),
		zap.Bool("ready", cs.IsReady()),
		zap.Int("readCacheLookups", total),
		zap.Int("readCacheHits", hit))

	supplyF, _ := supply.Float64()
	_heartbeatMtc.WithLabelValues("height").Set(float64(height))
	_heartbeatMtc.WithLabelValues("totalSupply").Set(supplyF)
	_heartbeatMtc.WithLabelValues("readCacheHits").Set(float64(hit))
}
