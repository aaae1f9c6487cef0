// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"errors"
	"fmt"
)

// ErrKind categorizes fetch failures.
type ErrKind int

const (
	// ErrKindNetwork covers transport failures, timeouts and malformed JSON.
	ErrKindNetwork ErrKind = iota
	// ErrKindHTTPStatus is a completed request with a non-success status.
	ErrKindHTTPStatus
)

// String returns the kind name used in logs.
func (k ErrKind) String() string {
	switch k {
	case ErrKindHTTPStatus:
		return "http_status"
	case ErrKindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FetchError is returned by Fetch for every failure.
type FetchError struct {
	Kind   ErrKind
	Status int    // HTTP status code, set for ErrKindHTTPStatus
	Detail string // operator-facing detail, never shown to the user
	Cause  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrKindHTTPStatus:
		return fmt.Sprintf("reply endpoint returned HTTP %d", e.Status)
	default:
		if e.Cause != nil {
			return e.Detail + ": " + e.Cause.Error()
		}
		return e.Detail
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

func statusError(code int) *FetchError {
	return &FetchError{Kind: ErrKindHTTPStatus, Status: code, Detail: fmt.Sprintf("status %d", code)}
}

func networkError(detail string, cause error) *FetchError {
	return &FetchError{Kind: ErrKindNetwork, Detail: detail, Cause: cause}
}

// IsHTTPStatus reports whether err is a non-success status from the endpoint.
func IsHTTPStatus(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == ErrKindHTTPStatus
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == ErrKindNetwork
}
