// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state defines the core records stored at the start of every asset
// and collection account.
package state

import (
	"fmt"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	ErrUnexpectedKey = fmt.Errorf("%w: unexpected account key", coreerr.ErrInvalidState)
	ErrTrailingBytes = fmt.Errorf("%w: trailing bytes after record", coreerr.ErrLayout)
)

// Key is the first byte of every record and identifies what follows.
type Key byte

const (
	KeyUninitialized Key = iota
	KeyAsset
	KeyHashedAsset
	KeyPluginHeader
	KeyPluginRegistry
	KeyCollection
)

func (k Key) String() string {
	switch k {
	case KeyUninitialized:
		return "uninitialized"
	case KeyAsset:
		return "asset"
	case KeyHashedAsset:
		return "hashed_asset"
	case KeyPluginHeader:
		return "plugin_header"
	case KeyPluginRegistry:
		return "plugin_registry"
	case KeyCollection:
		return "collection"
	default:
		return fmt.Sprintf("key(%d)", byte(k))
	}
}

// PeekKey returns the key of the record at the start of [b]. An empty buffer
// is reported as uninitialized.
func PeekKey(b []byte) Key {
	if len(b) == 0 {
		return KeyUninitialized
	}
	return Key(b[0])
}

// ExpectKey unpacks a key byte and records an error on mismatch.
func ExpectKey(p *wrappers.Packer, expected Key) {
	if got := Key(p.UnpackByte()); !p.Errored() && got != expected {
		p.Add(fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedKey, expected, got))
	}
}
