// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plugins implements the closed set of attachable plugin variants,
// the registry that indexes them inside an account, and their lifecycle
// votes.
package plugins

import (
	"fmt"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/components/verify"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	ErrUnknownType = fmt.Errorf("%w: unknown plugin type", coreerr.ErrInvalidState)
	errNilPayload  = fmt.Errorf("%w: nil plugin payload", coreerr.ErrInvalidState)

	_ state.Record   = (*Plugin)(nil)
	_ state.Unpacker = (*Plugin)(nil)
)

// Payload is the serialized state of one plugin variant.
type Payload interface {
	verify.Verifiable

	Type() Type
	Size() int
	Pack(p *wrappers.Packer)
	Unpack(p *wrappers.Packer)
}

// Plugin is a tagged union over the plugin variants. On the wire it is the
// type tag followed by the payload.
type Plugin struct {
	Payload Payload
}

// New wraps a payload.
func New(payload Payload) *Plugin {
	return &Plugin{Payload: payload}
}

// NewPayload returns the zero payload of type [t].
func NewPayload(t Type) (Payload, error) {
	switch t {
	case TypeRoyalties:
		return &Royalties{}, nil
	case TypeFreeze:
		return &Freeze{}, nil
	case TypeBurn:
		return &Burn{}, nil
	case TypeTransfer:
		return &Transfer{}, nil
	case TypeUpdateDelegate:
		return &UpdateDelegate{}, nil
	case TypePermanentFreeze:
		return &PermanentFreeze{}, nil
	case TypeAttributes:
		return &Attributes{}, nil
	case TypeEdition:
		return &Edition{}, nil
	case TypeDelegate:
		return &Delegate{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, byte(t))
	}
}

func (p *Plugin) Type() Type {
	return p.Payload.Type()
}

func (p *Plugin) Size() int {
	return wrappers.ByteLen + p.Payload.Size()
}

func (p *Plugin) Pack(pk *wrappers.Packer) {
	pk.PackByte(byte(p.Payload.Type()))
	p.Payload.Pack(pk)
}

func (p *Plugin) Unpack(pk *wrappers.Packer) {
	t := Type(pk.UnpackByte())
	if pk.Errored() {
		return
	}
	payload, err := NewPayload(t)
	if err != nil {
		pk.Add(err)
		return
	}
	payload.Unpack(pk)
	p.Payload = payload
}

func (p *Plugin) Verify() error {
	if p == nil || p.Payload == nil {
		return errNilPayload
	}
	return p.Payload.Verify()
}

// Validate returns this plugin's vote on [ev]. The variant set is closed, so
// the vote is selected by a switch on the payload's type.
func (p *Plugin) Validate(ev Event, ctx *ValidationContext) Vote {
	if ev == EventRevokeAuthority {
		// A plugin only approves a revoke on itself, and only when the actor
		// gives up the address authority delegated to it.
		if ctx.targets(p.Type()) && ctx.revokesSelf() {
			return Approve
		}
		return Abstain
	}

	switch payload := p.Payload.(type) {
	case *Royalties:
		return payload.validate(ev, ctx)
	case *Freeze:
		return payload.validate(ev, ctx)
	case *Burn:
		return payload.validate(ev, ctx)
	case *Transfer:
		return payload.validate(ev, ctx)
	case *UpdateDelegate:
		return payload.validate(ev, ctx)
	case *PermanentFreeze:
		return payload.validate(ev, ctx)
	case *Attributes:
		return Abstain
	case *Edition:
		return payload.validate(ev, ctx)
	case *Delegate:
		return payload.validate(ev, ctx)
	default:
		return Abstain
	}
}
