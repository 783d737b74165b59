// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	_ Payload = (*Burn)(nil)
	_ Payload = (*Transfer)(nil)
	_ Payload = (*UpdateDelegate)(nil)
)

// Burn lets its authorities burn the asset.
type Burn struct{}

func (*Burn) Type() Type {
	return TypeBurn
}

func (*Burn) Size() int {
	return 0
}

func (*Burn) Pack(*wrappers.Packer) {}

func (*Burn) Unpack(*wrappers.Packer) {}

func (*Burn) Verify() error {
	return nil
}

func (*Burn) validate(ev Event, ctx *ValidationContext) Vote {
	if ev == EventBurn && ctx.hasSelfAuthority() {
		return Approve
	}
	return Abstain
}

// Transfer lets its authorities transfer the asset.
type Transfer struct{}

func (*Transfer) Type() Type {
	return TypeTransfer
}

func (*Transfer) Size() int {
	return 0
}

func (*Transfer) Pack(*wrappers.Packer) {}

func (*Transfer) Unpack(*wrappers.Packer) {}

func (*Transfer) Verify() error {
	return nil
}

func (*Transfer) validate(ev Event, ctx *ValidationContext) Vote {
	if ev == EventTransfer && ctx.hasSelfAuthority() {
		return Approve
	}
	return Abstain
}

// UpdateDelegate lets its authorities act as the update authority: update
// the asset and manage update-authority managed plugins.
type UpdateDelegate struct{}

func (*UpdateDelegate) Type() Type {
	return TypeUpdateDelegate
}

func (*UpdateDelegate) Size() int {
	return 0
}

func (*UpdateDelegate) Pack(*wrappers.Packer) {}

func (*UpdateDelegate) Unpack(*wrappers.Packer) {}

func (*UpdateDelegate) Verify() error {
	return nil
}

func (*UpdateDelegate) validate(ev Event, ctx *ValidationContext) Vote {
	if !ctx.hasSelfAuthority() {
		return Abstain
	}
	switch ev {
	case EventUpdate:
		return Approve
	case EventAddPlugin, EventRemovePlugin, EventUpdatePlugin:
		t, ok := ctx.TargetType()
		if ok && t.Manager().Kind == state.KindUpdateAuthority {
			return Approve
		}
	}
	return Abstain
}
