// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package token

import (
	"context"

	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/action/protocol"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

// LogSink writes events to the log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging to the "event" logger
func NewLogSink() *LogSink {
	return &LogSink{logger: log.Logger("event")}
}

// Emit logs e
func (s *LogSink) Emit(_ context.Context, e protocol.Event) {
	fields := make([]zap.Field, 0, len(e.Fields)+2)
	fields = append(fields, zap.String("event", e.Name), zap.Uint64("height", e.Height))
	for _, f := range e.Fields {
		fields = append(fields, zap.String(f.Key, f.Value))
	}
	s.logger.Info("Event.", fields...)
}
