// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import "github.com/luxfi/coreasset/utils/wrappers"

var _ Payload = (*Edition)(nil)

// Edition numbers a print of a master asset. It may only be attached at
// creation and can never be removed.
type Edition struct {
	Number uint32
}

func (*Edition) Type() Type {
	return TypeEdition
}

func (*Edition) Size() int {
	return wrappers.IntLen
}

func (e *Edition) Pack(p *wrappers.Packer) {
	p.PackInt(e.Number)
}

func (e *Edition) Unpack(p *wrappers.Packer) {
	e.Number = p.UnpackInt()
}

func (*Edition) Verify() error {
	return nil
}

func (*Edition) validate(ev Event, ctx *ValidationContext) Vote {
	switch ev {
	case EventAddPlugin, EventRemovePlugin:
		if ctx.targets(TypeEdition) {
			return Reject
		}
	}
	return Abstain
}
