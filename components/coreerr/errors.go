// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package coreerr defines the four failure kinds every asset operation
// reports. Package level errors wrap exactly one of them.
package coreerr

import "errors"

var (
	// ErrAuthority is returned when the actor lacks a required permission,
	// including when a plugin rejects or nobody approves.
	ErrAuthority = errors.New("authority error")
	// ErrLayout is returned on offset arithmetic overflow, overlapping
	// records, or a malformed plugin header/registry chain.
	ErrLayout = errors.New("layout error")
	// ErrNotFound is returned when a required plugin or account is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when a record violates a structural
	// invariant.
	ErrInvalidState = errors.New("invalid state")
)

type Kind string

const (
	KindAuthority    Kind = "authority"
	KindLayout       Kind = "layout"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindUnknown      Kind = "unknown"
)

// KindOf classifies [err] into one of the failure kinds.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAuthority):
		return KindAuthority
	case errors.Is(err, ErrLayout):
		return KindLayout
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	default:
		return KindUnknown
	}
}

// Layout wraps a low level error (packer, arithmetic) as a layout failure.
// Errors that already carry a kind are returned unchanged.
func Layout(err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	return errors.Join(ErrLayout, err)
}
