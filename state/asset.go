// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	_ Entity = (*Asset)(nil)
	_ Entity = (*Collection)(nil)
	_ Entity = (*HashedAsset)(nil)
)

// Entity is a core header stored at offset 0 of an account.
type Entity interface {
	Record
	Unpacker
	Key() Key
}

// Asset is the core header of an asset account.
type Asset struct {
	Owner           ids.ShortID
	UpdateAuthority UpdateAuthority
	Name            string
	URI             string
}

func (*Asset) Key() Key {
	return KeyAsset
}

func (a *Asset) Size() int {
	return wrappers.ByteLen +
		wrappers.ShortIDLen +
		a.UpdateAuthority.Size() +
		wrappers.StringLen(a.Name) +
		wrappers.StringLen(a.URI)
}

func (a *Asset) Pack(p *wrappers.Packer) {
	p.PackByte(byte(KeyAsset))
	p.PackFixedBytes(a.Owner[:])
	a.UpdateAuthority.Pack(p)
	p.PackStr(a.Name)
	p.PackStr(a.URI)
}

func (a *Asset) Unpack(p *wrappers.Packer) {
	ExpectKey(p, KeyAsset)
	copy(a.Owner[:], p.UnpackFixedBytes(wrappers.ShortIDLen))
	a.UpdateAuthority.Unpack(p)
	a.Name = p.UnpackStr()
	a.URI = p.UnpackStr()
}

// Collection is the core header of a collection account. A collection has no
// holder; it is governed by its update authority alone.
type Collection struct {
	UpdateAuthority ids.ShortID
	Name            string
	URI             string
	NumMinted       uint32
	CurrentSize     uint32
}

func (*Collection) Key() Key {
	return KeyCollection
}

func (c *Collection) Size() int {
	return wrappers.ByteLen +
		wrappers.ShortIDLen +
		wrappers.StringLen(c.Name) +
		wrappers.StringLen(c.URI) +
		2*wrappers.IntLen
}

func (c *Collection) Pack(p *wrappers.Packer) {
	p.PackByte(byte(KeyCollection))
	p.PackFixedBytes(c.UpdateAuthority[:])
	p.PackStr(c.Name)
	p.PackStr(c.URI)
	p.PackInt(c.NumMinted)
	p.PackInt(c.CurrentSize)
}

func (c *Collection) Unpack(p *wrappers.Packer) {
	ExpectKey(p, KeyCollection)
	copy(c.UpdateAuthority[:], p.UnpackFixedBytes(wrappers.ShortIDLen))
	c.Name = p.UnpackStr()
	c.URI = p.UnpackStr()
	c.NumMinted = p.UnpackInt()
	c.CurrentSize = p.UnpackInt()
}

// HashedAsset replaces an asset account after compression.
type HashedAsset struct {
	Hash [wrappers.HashLen]byte
}

func (*HashedAsset) Key() Key {
	return KeyHashedAsset
}

func (*HashedAsset) Size() int {
	return wrappers.ByteLen + wrappers.HashLen
}

func (h *HashedAsset) Pack(p *wrappers.Packer) {
	p.PackByte(byte(KeyHashedAsset))
	p.PackFixedBytes(h.Hash[:])
}

func (h *HashedAsset) Unpack(p *wrappers.Packer) {
	ExpectKey(p, KeyHashedAsset)
	copy(h.Hash[:], p.UnpackFixedBytes(wrappers.HashLen))
}
