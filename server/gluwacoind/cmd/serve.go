// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gluwa/gluwacoin-ledger/pkg/probe"
	"github.com/gluwa/gluwacoin-ledger/server/itx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ledger and serve /metrics and /health until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svr, err := itx.NewServer(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	probeSvr := probe.New(cfg.System.HTTPPort,
		probe.WithReadinessHandler(probe.CheckHandler(svr.ChainService().Check)),
		probe.WithMetrics(cfg.System.EnableMetrics),
	)
	if cfg.System.HTTPPort > 0 {
		if err := probeSvr.Start(ctx); err != nil {
			return err
		}
		defer func() {
			_ = probeSvr.Stop(context.Background())
		}()
	}
	return itx.StartServer(ctx, svr, probeSvr, cfg)
}
