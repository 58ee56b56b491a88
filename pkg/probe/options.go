// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import "net/http"

// WithReadinessHandler answers the readiness endpoints with h once the server is ready
func WithReadinessHandler(h http.Handler) Option {
	return &readinessOption{h}
}

// WithMetrics toggles the /metrics endpoint
func WithMetrics(enabled bool) Option {
	return metricsOption(enabled)
}

type readinessOption struct{ h http.Handler }

func (o *readinessOption) SetOption(s *Server) { s.readinessHandler = o.h }

type metricsOption bool

func (o metricsOption) SetOption(s *Server) { s.metrics = bool(o) }
