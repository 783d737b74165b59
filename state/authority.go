// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var errUnknownAuthorityKind = fmt.Errorf("%w: unknown authority kind", coreerr.ErrInvalidState)

// AuthorityKind selects who an Authority designates.
type AuthorityKind byte

const (
	// KindOwner designates the current holder of the asset.
	KindOwner AuthorityKind = iota
	// KindUpdateAuthority designates whoever the entity's update authority
	// resolves to.
	KindUpdateAuthority
	// KindAddress designates one specific address.
	KindAddress
)

// Authority is a credential recognized by a permission check.
type Authority struct {
	Kind    AuthorityKind
	Address ids.ShortID
}

// AddressAuthority returns an authority that designates [addr].
func AddressAuthority(addr ids.ShortID) Authority {
	return Authority{Kind: KindAddress, Address: addr}
}

func (a Authority) Size() int {
	if a.Kind == KindAddress {
		return wrappers.ByteLen + wrappers.ShortIDLen
	}
	return wrappers.ByteLen
}

func (a Authority) Pack(p *wrappers.Packer) {
	p.PackByte(byte(a.Kind))
	if a.Kind == KindAddress {
		p.PackFixedBytes(a.Address[:])
	}
}

func (a *Authority) Unpack(p *wrappers.Packer) {
	a.Kind = AuthorityKind(p.UnpackByte())
	switch a.Kind {
	case KindOwner, KindUpdateAuthority:
		a.Address = ids.ShortEmpty
	case KindAddress:
		copy(a.Address[:], p.UnpackFixedBytes(wrappers.ShortIDLen))
	default:
		p.Add(fmt.Errorf("%w: %d", errUnknownAuthorityKind, a.Kind))
	}
}

func (a Authority) String() string {
	switch a.Kind {
	case KindOwner:
		return "owner"
	case KindUpdateAuthority:
		return "update_authority"
	case KindAddress:
		return "address:" + a.Address.String()
	default:
		return fmt.Sprintf("authority(%d)", byte(a.Kind))
	}
}

// AuthoritiesSize returns the packed size of a length-prefixed list.
func AuthoritiesSize(authorities []Authority) int {
	size := wrappers.IntLen
	for _, a := range authorities {
		size += a.Size()
	}
	return size
}

func PackAuthorities(p *wrappers.Packer, authorities []Authority) {
	p.PackInt(uint32(len(authorities)))
	for _, a := range authorities {
		a.Pack(p)
	}
}

func UnpackAuthorities(p *wrappers.Packer) []Authority {
	n := p.UnpackLen(wrappers.ByteLen)
	if p.Errored() {
		return nil
	}
	authorities := make([]Authority, n)
	for i := range authorities {
		authorities[i].Unpack(p)
	}
	return authorities
}

// UpdateAuthorityKind selects who may update an asset.
type UpdateAuthorityKind byte

const (
	UpdateNone UpdateAuthorityKind = iota
	UpdateAddress
	UpdateCollection
)

// UpdateAuthority is recorded on an asset. It is either nobody, a specific
// address, or the update authority of a named collection.
type UpdateAuthority struct {
	Kind    UpdateAuthorityKind
	Address ids.ShortID
}

func (u UpdateAuthority) Size() int {
	if u.Kind == UpdateNone {
		return wrappers.ByteLen
	}
	return wrappers.ByteLen + wrappers.ShortIDLen
}

func (u UpdateAuthority) Pack(p *wrappers.Packer) {
	p.PackByte(byte(u.Kind))
	if u.Kind != UpdateNone {
		p.PackFixedBytes(u.Address[:])
	}
}

func (u *UpdateAuthority) Unpack(p *wrappers.Packer) {
	u.Kind = UpdateAuthorityKind(p.UnpackByte())
	switch u.Kind {
	case UpdateNone:
		u.Address = ids.ShortEmpty
	case UpdateAddress, UpdateCollection:
		copy(u.Address[:], p.UnpackFixedBytes(wrappers.ShortIDLen))
	default:
		p.Add(fmt.Errorf("%w: update authority %d", errUnknownAuthorityKind, u.Kind))
	}
}

// Collection returns the collection this asset belongs to, if any.
func (u UpdateAuthority) Collection() (ids.ShortID, bool) {
	return u.Address, u.Kind == UpdateCollection
}

func (u UpdateAuthority) String() string {
	switch u.Kind {
	case UpdateNone:
		return "none"
	case UpdateAddress:
		return "address:" + u.Address.String()
	case UpdateCollection:
		return "collection:" + u.Address.String()
	default:
		return fmt.Sprintf("update_authority(%d)", byte(u.Kind))
	}
}
