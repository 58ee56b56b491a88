// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package itx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gluwa/gluwacoin-ledger/config"
	"github.com/gluwa/gluwacoin-ledger/pkg/probe"
	"github.com/gluwa/gluwacoin-ledger/test/identityset"
	"github.com/gluwa/gluwacoin-ledger/testutil"
)

func testConfig() config.Config {
	cfg := config.Default
	cfg.Chain.Contract = identityset.Address(9).Hex()
	cfg.Chain.Deployer = identityset.Address(0).Hex()
	return cfg
}

func TestNewServer(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.Chain.Contract = ""
	_, err := NewServer(cfg)
	require.Error(err)

	s, err := NewInMemTestServer(testConfig())
	require.NoError(err)
	require.NotNil(s.ChainService())
}

func TestStartStop(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s, err := NewInMemTestServer(testConfig())
	require.NoError(err)
	require.NoError(s.Start(ctx))
	require.True(s.ChainService().IsReady())
	NewHeartbeatHandler(s).Log()
	require.NoError(s.Stop(ctx))
	require.False(s.ChainService().IsReady())
}

func TestStartServer(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.System.HTTPPort = 7790
	cfg.System.HeartbeatInterval = 50 * time.Millisecond
	s, err := NewInMemTestServer(cfg)
	require.NoError(err)

	probeSvr := probe.New(cfg.System.HTTPPort, probe.WithReadinessHandler(probe.CheckHandler(s.ChainService().Check)))
	require.NoError(probeSvr.Start(context.Background()))
	defer func() {
		require.NoError(probeSvr.Stop(context.Background()))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartServer(ctx, s, probeSvr, cfg)
	}()
	health := fmt.Sprintf("http://localhost:%d/health", cfg.System.HTTPPort)
	require.NoError(testutil.WaitUntil(50*time.Millisecond, 2*time.Second, func() (bool, error) {
		resp, err := http.Get(health)
		if err != nil {
			return false, nil
		}
		return resp.StatusCode == http.StatusOK, resp.Body.Close()
	}))

	cancel()
	require.NoError(<-done)
	resp, err := http.Get(health)
	require.NoError(err)
	require.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	require.NoError(resp.Body.Close())
}
