// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package crypto recovers signers of the messages owners sign to authorize reservations and ETH-less transfers.
package crypto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/pkg/errors"
)

// SignatureLength is the length of an r||s||v signature
const SignatureLength = 65

var (
	// ErrInvalidSignature indicates a malformed or unrecoverable signature
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrOutOfRange indicates an integer that does not fit in 256 bits
	ErrOutOfRange = errors.New("integer out of uint256 range")
)

type (
	// Verifier recovers the address that signed a message hash
	Verifier interface {
		Recover(hash common.Hash, sig []byte) (common.Address, error)
	}

	// Secp256k1Verifier recovers secp256k1 signatures
	Secp256k1Verifier struct{}
)

// NewVerifier returns the secp256k1 verifier
func NewVerifier() Verifier {
	return Secp256k1Verifier{}
}

// Recover returns the address that produced sig over hash. v may be 0/1 or 27/28.
func (Secp256k1Verifier) Recover(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature, "signature length %d", len(sig))
	}
	rsv := make([]byte, SignatureLength)
	copy(rsv, sig)
	if rsv[64] >= 27 {
		rsv[64] -= 27
	}
	if rsv[64] > 1 {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature, "recovery id %d", sig[64])
	}
	pk, err := crypto.RecoverPubkey(hash.Bytes(), rsv)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return common.BytesToAddress(pk.Address().Bytes()), nil
}

// IsSignedBy returns whether sig over the personal-message form of hash was produced by signer
func IsSignedBy(v Verifier, hash common.Hash, sig []byte, signer common.Address) bool {
	addr, err := v.Recover(PrefixedHash(hash), sig)
	if err != nil {
		return false
	}
	return addr == signer
}

// PrefixedHash wraps a 32-byte message hash the way wallets sign personal messages
func PrefixedHash(hash common.Hash) common.Hash {
	return common.BytesToHash(accounts.TextHash(hash.Bytes()))
}

// Sign signs the personal-message form of hash with sk, producing an r||s||v signature with v in {27, 28}
func Sign(sk crypto.PrivateKey, hash common.Hash) ([]byte, error) {
	sig, err := sk.Sign(PrefixedHash(hash).Bytes())
	if err != nil {
		return nil, err
	}
	if len(sig) != SignatureLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "signature length %d", len(sig))
	}
	if sig[64] < 27 {
		sig[64] += 27
	}
	return sig, nil
}

// ReservationHash is the hash an owner signs to authorize a reservation
func ReservationHash(contract, owner, recipient, executor common.Address, amount, fee, nonce, expiryBlockNum *big.Int) (common.Hash, error) {
	words, err := packUint256(amount, fee, nonce, expiryBlockNum)
	if err != nil {
		return common.Hash{}, err
	}
	return ethcrypto.Keccak256Hash(packAddresses(contract, owner, recipient, executor), words), nil
}

// TransferHash is the hash an owner signs to authorize an ETH-less transfer
func TransferHash(contract, owner, recipient common.Address, amount, fee, nonce *big.Int) (common.Hash, error) {
	words, err := packUint256(amount, fee, nonce)
	if err != nil {
		return common.Hash{}, err
	}
	return ethcrypto.Keccak256Hash(packAddresses(contract, owner, recipient), words), nil
}

func packAddresses(addrs ...common.Address) []byte {
	b := make([]byte, 0, len(addrs)*common.AddressLength)
	for _, a := range addrs {
		b = append(b, a.Bytes()...)
	}
	return b
}

func packUint256(values ...*big.Int) ([]byte, error) {
	b := make([]byte, 0, len(values)*32)
	for _, v := range values {
		if v == nil || v.Sign() < 0 {
			return nil, ErrOutOfRange
		}
		u, overflow := uint256.FromBig(v)
		if overflow {
			return nil, ErrOutOfRange
		}
		w := u.Bytes32()
		b = append(b, w[:]...)
	}
	return b, nil
}
