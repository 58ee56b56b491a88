// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gluwa/gluwacoin-ledger/action"
)

// Rejection kinds. A rejected operation leaves no state change behind.
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrNotFound                 = errors.New("not found")
	ErrAlreadyExists            = errors.New("already exists")
	ErrAlreadyApproved          = errors.New("already approved")
	ErrAlreadyProcessed         = errors.New("already processed")
	ErrAlreadyMember            = errors.New("already member")
	ErrNotMember                = errors.New("not member")
	ErrNotApproved              = errors.New("not approved")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrNonceReused              = errors.New("nonce reused")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInsufficientUnreserved   = errors.New("insufficient unreserved balance")
	ErrExpired                  = errors.New("expired")
	ErrExpiredParameter         = errors.New("expired parameter")
	ErrInvalidStatus            = errors.New("invalid status")
	ErrZeroExecutor             = errors.New("zero executor")
	ErrZeroAddress              = errors.New("zero address")
	ErrInvalidIdentifier        = errors.New("invalid identifier")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrNotExpiredOrUnauthorized = errors.New("not expired or unauthorized")
	ErrUnsupportedRole          = errors.New("unsupported role")
)

// KindInternal is reported for errors outside the rejection taxonomy, such as store I/O failures
const KindInternal = "Internal"

var _kinds = map[error]string{
	ErrUnauthorized:             "Unauthorized",
	ErrNotFound:                 "NotFound",
	ErrAlreadyExists:            "AlreadyExists",
	ErrAlreadyApproved:          "AlreadyApproved",
	ErrAlreadyProcessed:         "AlreadyProcessed",
	ErrAlreadyMember:            "AlreadyMember",
	ErrNotMember:                "NotMember",
	ErrNotApproved:              "NotApproved",
	ErrInvalidSignature:         "InvalidSignature",
	ErrNonceReused:              "NonceReused",
	ErrInsufficientFunds:        "InsufficientFunds",
	ErrInsufficientUnreserved:   "InsufficientUnreserved",
	ErrExpired:                  "Expired",
	ErrExpiredParameter:         "ExpiredParameter",
	ErrInvalidStatus:            "InvalidStatus",
	ErrZeroExecutor:             "ZeroExecutor",
	ErrZeroAddress:              "ZeroAddress",
	ErrInvalidIdentifier:        "InvalidIdentifier",
	ErrInvalidAmount:            "InvalidAmount",
	ErrNotExpiredOrUnauthorized: "NotExpiredOrUnauthorized",
	ErrUnsupportedRole:          "UnsupportedRole",
	action.ErrInvalidAction:     "InvalidAction",
}

// RejectError is a rejection of a single operation, carrying its kind and a human-readable reason
type RejectError struct {
	kind   error
	reason string
}

// Reject returns a rejection of the given kind
func Reject(kind error, reason string) error {
	return errors.WithStack(&RejectError{kind: kind, reason: reason})
}

// Rejectf returns a rejection of the given kind with a formatted reason
func Rejectf(kind error, format string, args ...interface{}) error {
	return errors.WithStack(&RejectError{kind: kind, reason: fmt.Sprintf(format, args...)})
}

func (e *RejectError) Error() string { return e.reason }

// Cause returns the rejection kind, so errors.Cause(err) can be compared with the sentinels
func (e *RejectError) Cause() error { return e.kind }

// Unwrap returns the rejection kind
func (e *RejectError) Unwrap() error { return e.kind }

// Reason returns the human-readable reason
func (e *RejectError) Reason() string { return e.reason }

// ErrorKind returns the stable kind name of err, or KindInternal
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if kind, ok := _kinds[errors.Cause(err)]; ok {
		return kind
	}
	return KindInternal
}

// Reason returns the reason of a rejection, or the error text for any other error
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var re *RejectError
	if errors.As(err, &re) {
		return re.reason
	}
	return err.Error()
}
