// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/config"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

var (
	_configPaths []string

	rootCmd = &cobra.Command{
		Use:   "gluwacoind",
		Short: "Gluwacoin ledger server",
		Long:  "Gluwacoin ledger server: applies blocks of ledger actions and serves metrics and health checks",
	}
)

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&_configPaths, "config", "c", nil, "configuration files, later files override earlier ones")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config and initializes the loggers from it
func loadConfig() (config.Config, error) {
	cfg, err := config.New(_configPaths)
	if err != nil {
		return config.Config{}, err
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return config.Config{}, err
	}
	log.L().Info("Loaded config.", zap.Strings("paths", _configPaths))
	return cfg, nil
}
