// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/gluwa/gluwacoin-ledger/db"
	"github.com/gluwa/gluwacoin-ledger/pkg/log"
	"github.com/gluwa/gluwacoin-ledger/pkg/util/addrutil"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		Chain: Chain{
			Contract: "",
			Deployer: "",
		},
		DB: db.DefaultConfig,
		System: System{
			HTTPPort:          8080,
			EnableMetrics:     true,
			HeartbeatInterval: 10 * time.Second,
		},
		SubLogs: make(map[string]log.GlobalConfig),
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateChain,
		ValidateDB,
		ValidateSystem,
	}
)

type (
	// Chain is the config of the ledger instance
	Chain struct {
		// Contract is the identity of the ledger bound into every signed message, in 0x or io1 form
		Contract string `yaml:"contract"`
		// Deployer receives every role when the store is empty. Leave it empty to skip role bootstrap.
		Deployer string `yaml:"deployer"`
	}

	// System is the system config
	System struct {
		// HTTPPort serves /metrics and /health, 0 disables the listener
		HTTPPort      int  `yaml:"httpPort"`
		EnableMetrics bool `yaml:"enableMetrics"`
		// HeartbeatInterval is the period of the status log line, 0 disables it
		HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Chain   Chain                       `yaml:"chain"`
		DB      db.Config                   `yaml:"db"`
		System  System                      `yaml:"system"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ContractAddress returns the parsed ledger identity
func (c Chain) ContractAddress() (common.Address, error) {
	addr, err := addrutil.FromString(c.Contract)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return addr, nil
}

// DeployerAddress returns the parsed deployer. ok is false when no deployer is configured.
func (c Chain) DeployerAddress() (addr common.Address, ok bool, err error) {
	if c.Deployer == "" {
		return common.Address{}, false, nil
	}
	if addr, err = addrutil.FromString(c.Deployer); err != nil {
		return common.Address{}, false, errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return addr, true, nil
}

// ValidateChain validates the ledger identity and the deployer
func ValidateChain(cfg Config) error {
	contract, err := cfg.Chain.ContractAddress()
	if err != nil {
		return errors.Wrap(err, "chain.contract")
	}
	if contract == (common.Address{}) {
		return errors.Wrap(ErrInvalidCfg, "chain.contract cannot be the zero address")
	}
	if _, _, err := cfg.Chain.DeployerAddress(); err != nil {
		return errors.Wrap(err, "chain.deployer")
	}
	return nil
}

// ValidateDB validates the store config
func ValidateDB(cfg Config) error {
	if err := cfg.DB.Validate(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return nil
}

// ValidateSystem validates the system configs
func ValidateSystem(cfg Config) error {
	if cfg.System.HTTPPort < 0 || cfg.System.HTTPPort > 65535 {
		return errors.Wrapf(ErrInvalidCfg, "http port %d is out of range", cfg.System.HTTPPort)
	}
	if cfg.System.HeartbeatInterval < 0 {
		return errors.Wrap(ErrInvalidCfg, "heartbeat interval should not be negative")
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
