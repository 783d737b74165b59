// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package authority decides whether an actor holds one of a set of
// authorities over an asset or collection.
package authority

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/state"
)

// Context is the entity an authority check is evaluated against. Asset is nil
// for collection level operations. Collection is set whenever the asset's
// update authority names a collection, or for collection level operations.
type Context struct {
	Asset             *state.Asset
	Collection        *state.Collection
	CollectionAddress ids.ShortID
}

// Holder returns the address that currently holds the asset.
func (c *Context) Holder() (ids.ShortID, bool) {
	if c.Asset == nil {
		return ids.ShortEmpty, false
	}
	return c.Asset.Owner, true
}

// UpdateAuthority resolves the entity's update authority to an address. An
// asset whose update authority is a collection resolves through the
// collection's own update authority, which requires the matching collection
// to be loaded.
func (c *Context) UpdateAuthority() (ids.ShortID, bool) {
	if c.Asset == nil {
		if c.Collection == nil {
			return ids.ShortEmpty, false
		}
		return c.Collection.UpdateAuthority, true
	}

	ua := c.Asset.UpdateAuthority
	switch ua.Kind {
	case state.UpdateAddress:
		return ua.Address, true
	case state.UpdateCollection:
		if c.Collection == nil || c.CollectionAddress != ua.Address {
			return ids.ShortEmpty, false
		}
		return c.Collection.UpdateAuthority, true
	default:
		return ids.ShortEmpty, false
	}
}

// Matches reports whether [actor] is designated by [a].
func (c *Context) Matches(actor ids.ShortID, a state.Authority) bool {
	switch a.Kind {
	case state.KindOwner:
		holder, ok := c.Holder()
		return ok && holder == actor
	case state.KindUpdateAuthority:
		ua, ok := c.UpdateAuthority()
		return ok && ua == actor
	case state.KindAddress:
		return a.Address == actor
	default:
		return false
	}
}

// HasAuthority reports whether [actor] holds any of [required]. Owner is
// checked first, then the update authority, then explicit addresses.
func (c *Context) HasAuthority(actor ids.ShortID, required ...state.Authority) bool {
	for _, kind := range []state.AuthorityKind{
		state.KindOwner,
		state.KindUpdateAuthority,
		state.KindAddress,
	} {
		for _, a := range required {
			if a.Kind == kind && c.Matches(actor, a) {
				return true
			}
		}
	}
	return false
}

// Resolve returns the address [a] currently designates, if any.
func (c *Context) Resolve(a state.Authority) (ids.ShortID, bool) {
	switch a.Kind {
	case state.KindOwner:
		return c.Holder()
	case state.KindUpdateAuthority:
		return c.UpdateAuthority()
	case state.KindAddress:
		return a.Address, true
	default:
		return ids.ShortEmpty, false
	}
}
