// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package addrutil parses account addresses given either in 0x hex or io1 bech32 form.
package addrutil

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
)

// ErrInvalidAddress is returned when a string is neither a hex nor an io1 address
var ErrInvalidAddress = errors.New("invalid address")

// IoAddrToEvmAddr converts an io1 address into an evm address
func IoAddrToEvmAddr(ioAddr string) (common.Address, error) {
	addr, err := address.FromString(ioAddr)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(addr.Bytes()), nil
}

// EvmAddrToIoAddr converts an evm address into its io1 form
func EvmAddrToIoAddr(addr common.Address) (string, error) {
	ioAddr, err := address.FromBytes(addr.Bytes())
	if err != nil {
		return "", err
	}
	return ioAddr.String(), nil
}

// FromString parses an address in either 0x hex or io1 form
func FromString(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, address.MainnetPrefix) || strings.HasPrefix(s, address.TestnetPrefix) {
		addr, err := IoAddrToEvmAddr(s)
		if err != nil {
			return common.Address{}, errors.Wrapf(ErrInvalidAddress, "%s: %v", s, err)
		}
		return addr, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Wrap(ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
