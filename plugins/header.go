// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/wrappers"
)

// HeaderSize is the packed size of a Header.
const HeaderSize = wrappers.ByteLen + wrappers.LongLen

var (
	_ state.Record   = (*Header)(nil)
	_ state.Unpacker = (*Header)(nil)
)

// Header sits directly after the core record and points at the registry.
type Header struct {
	RegistryOffset uint64
}

func (*Header) Size() int {
	return HeaderSize
}

func (h *Header) Pack(p *wrappers.Packer) {
	p.PackByte(byte(state.KeyPluginHeader))
	p.PackLong(h.RegistryOffset)
}

func (h *Header) Unpack(p *wrappers.Packer) {
	state.ExpectKey(p, state.KeyPluginHeader)
	h.RegistryOffset = p.UnpackLong()
}
