// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import "github.com/luxfi/coreasset/utils/wrappers"

var (
	_ Payload = (*Freeze)(nil)
	_ Payload = (*PermanentFreeze)(nil)
	_ Payload = (*Delegate)(nil)
)

// Freeze blocks transfer, burn and compression while frozen. It can't be
// removed while frozen.
type Freeze struct {
	Frozen bool
}

func (*Freeze) Type() Type {
	return TypeFreeze
}

func (*Freeze) Size() int {
	return wrappers.BoolLen
}

func (f *Freeze) Pack(p *wrappers.Packer) {
	p.PackBool(f.Frozen)
}

func (f *Freeze) Unpack(p *wrappers.Packer) {
	f.Frozen = p.UnpackBool()
}

func (*Freeze) Verify() error {
	return nil
}

func (f *Freeze) validate(ev Event, ctx *ValidationContext) Vote {
	switch ev {
	case EventTransfer, EventBurn, EventCompress:
		if f.Frozen {
			return Reject
		}
	case EventRemovePlugin:
		if f.Frozen && ctx.targets(TypeFreeze) {
			return Reject
		}
	}
	return Abstain
}

// PermanentFreeze behaves like Freeze but may only be attached when the
// asset is created and can never be removed.
type PermanentFreeze struct {
	Frozen bool
}

func (*PermanentFreeze) Type() Type {
	return TypePermanentFreeze
}

func (*PermanentFreeze) Size() int {
	return wrappers.BoolLen
}

func (f *PermanentFreeze) Pack(p *wrappers.Packer) {
	p.PackBool(f.Frozen)
}

func (f *PermanentFreeze) Unpack(p *wrappers.Packer) {
	f.Frozen = p.UnpackBool()
}

func (*PermanentFreeze) Verify() error {
	return nil
}

func (f *PermanentFreeze) validate(ev Event, ctx *ValidationContext) Vote {
	switch ev {
	case EventTransfer, EventBurn, EventCompress:
		if f.Frozen {
			return Reject
		}
	case EventAddPlugin, EventRemovePlugin:
		if ctx.targets(TypePermanentFreeze) {
			return Reject
		}
	}
	return Abstain
}

// Delegate hands a freeze switch to its authorities. Freezing and thawing are
// custom actions gated only by the plugin's own authority set.
type Delegate struct {
	Frozen bool
}

func (*Delegate) Type() Type {
	return TypeDelegate
}

func (*Delegate) Size() int {
	return wrappers.BoolLen
}

func (d *Delegate) Pack(p *wrappers.Packer) {
	p.PackBool(d.Frozen)
}

func (d *Delegate) Unpack(p *wrappers.Packer) {
	d.Frozen = p.UnpackBool()
}

func (*Delegate) Verify() error {
	return nil
}

func (d *Delegate) validate(ev Event, _ *ValidationContext) Vote {
	switch ev {
	case EventTransfer, EventBurn, EventCompress:
		if d.Frozen {
			return Reject
		}
	}
	return Abstain
}
