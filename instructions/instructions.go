// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instructions defines the typed commands the processor executes.
package instructions

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
)

var (
	_ Instruction = (*Create)(nil)
	_ Instruction = (*CreateCollection)(nil)
	_ Instruction = (*AddPlugin)(nil)
	_ Instruction = (*AddCollectionPlugin)(nil)
	_ Instruction = (*RemovePlugin)(nil)
	_ Instruction = (*RemoveCollectionPlugin)(nil)
	_ Instruction = (*UpdatePlugin)(nil)
	_ Instruction = (*UpdateCollectionPlugin)(nil)
	_ Instruction = (*ApprovePluginAuthority)(nil)
	_ Instruction = (*ApproveCollectionPluginAuthority)(nil)
	_ Instruction = (*RevokePluginAuthority)(nil)
	_ Instruction = (*RevokeCollectionPluginAuthority)(nil)
	_ Instruction = (*Burn)(nil)
	_ Instruction = (*BurnCollection)(nil)
	_ Instruction = (*Transfer)(nil)
	_ Instruction = (*Update)(nil)
	_ Instruction = (*UpdateCollection)(nil)
	_ Instruction = (*Compress)(nil)
	_ Instruction = (*Decompress)(nil)
	_ Instruction = (*Freeze)(nil)
	_ Instruction = (*Thaw)(nil)
)

// Instruction is a decoded command together with the accounts it names.
type Instruction interface {
	// Signers returns the addresses that must have signed the instruction.
	Signers() []ids.ShortID
	Visit(Visitor) error
}

// Base carries the accounts common to every instruction.
type Base struct {
	// Actor is the authority the instruction is executed as.
	Actor ids.ShortID
	// Payer funds account growth. Defaults to the actor.
	Payer ids.ShortID
}

func (b *Base) Signers() []ids.ShortID {
	if b.Payer == ids.ShortEmpty || b.Payer == b.Actor {
		return []ids.ShortID{b.Actor}
	}
	return []ids.ShortID{b.Actor, b.Payer}
}

// PayerOrActor returns the address funding account growth.
func (b *Base) PayerOrActor() ids.ShortID {
	if b.Payer == ids.ShortEmpty {
		return b.Actor
	}
	return b.Payer
}

// PluginInit is a plugin attached when its entity is created. A nil
// Authority attaches the plugin under its type's managing authority.
type PluginInit struct {
	Plugin    *plugins.Plugin
	Authority *state.Authority
}

// Create initializes a new asset account.
type Create struct {
	Base
	Asset ids.ShortID
	// Owner defaults to the actor.
	Owner ids.ShortID
	// Collection, when set, makes the collection the asset's update
	// authority. The actor must be the collection's update authority.
	Collection ids.ShortID
	// UpdateAuthority is used when Collection is empty and defaults to the
	// actor.
	UpdateAuthority ids.ShortID
	Name            string
	URI             string
	Plugins         []PluginInit
}

func (c *Create) Visit(v Visitor) error {
	return v.Create(c)
}

// CreateCollection initializes a new collection account.
type CreateCollection struct {
	Base
	Collection ids.ShortID
	// UpdateAuthority defaults to the actor.
	UpdateAuthority ids.ShortID
	Name            string
	URI             string
	Plugins         []PluginInit
}

func (c *CreateCollection) Visit(v Visitor) error {
	return v.CreateCollection(c)
}

// AssetAccounts names an asset and, when the asset belongs to one, its
// collection.
type AssetAccounts struct {
	Asset      ids.ShortID
	Collection ids.ShortID
}

type AddPlugin struct {
	Base
	AssetAccounts
	Plugin *plugins.Plugin
	// Authority defaults to the plugin type's managing authority.
	Authority *state.Authority
}

func (a *AddPlugin) Visit(v Visitor) error {
	return v.AddPlugin(a)
}

type AddCollectionPlugin struct {
	Base
	Collection ids.ShortID
	Plugin     *plugins.Plugin
	Authority  *state.Authority
}

func (a *AddCollectionPlugin) Visit(v Visitor) error {
	return v.AddCollectionPlugin(a)
}

type RemovePlugin struct {
	Base
	AssetAccounts
	Type plugins.Type
}

func (r *RemovePlugin) Visit(v Visitor) error {
	return v.RemovePlugin(r)
}

type RemoveCollectionPlugin struct {
	Base
	Collection ids.ShortID
	Type       plugins.Type
}

func (r *RemoveCollectionPlugin) Visit(v Visitor) error {
	return v.RemoveCollectionPlugin(r)
}

// UpdatePlugin replaces the payload of an attached plugin of the same type.
type UpdatePlugin struct {
	Base
	AssetAccounts
	Plugin *plugins.Plugin
}

func (u *UpdatePlugin) Visit(v Visitor) error {
	return v.UpdatePlugin(u)
}

type UpdateCollectionPlugin struct {
	Base
	Collection ids.ShortID
	Plugin     *plugins.Plugin
}

func (u *UpdateCollectionPlugin) Visit(v Visitor) error {
	return v.UpdateCollectionPlugin(u)
}

// ApprovePluginAuthority adds [Authority] to the plugin's authority set.
type ApprovePluginAuthority struct {
	Base
	AssetAccounts
	Type      plugins.Type
	Authority state.Authority
}

func (a *ApprovePluginAuthority) Visit(v Visitor) error {
	return v.ApprovePluginAuthority(a)
}

type ApproveCollectionPluginAuthority struct {
	Base
	Collection ids.ShortID
	Type       plugins.Type
	Authority  state.Authority
}

func (a *ApproveCollectionPluginAuthority) Visit(v Visitor) error {
	return v.ApproveCollectionPluginAuthority(a)
}

// RevokePluginAuthority removes [Authority] from the plugin's authority set.
type RevokePluginAuthority struct {
	Base
	AssetAccounts
	Type      plugins.Type
	Authority state.Authority
}

func (r *RevokePluginAuthority) Visit(v Visitor) error {
	return v.RevokePluginAuthority(r)
}

type RevokeCollectionPluginAuthority struct {
	Base
	Collection ids.ShortID
	Type       plugins.Type
	Authority  state.Authority
}

func (r *RevokeCollectionPluginAuthority) Visit(v Visitor) error {
	return v.RevokeCollectionPluginAuthority(r)
}

type Burn struct {
	Base
	AssetAccounts
}

func (b *Burn) Visit(v Visitor) error {
	return v.Burn(b)
}

type BurnCollection struct {
	Base
	Collection ids.ShortID
}

func (b *BurnCollection) Visit(v Visitor) error {
	return v.BurnCollection(b)
}

type Transfer struct {
	Base
	AssetAccounts
	NewOwner ids.ShortID
}

func (t *Transfer) Visit(v Visitor) error {
	return v.Transfer(t)
}

// Update changes the asset's metadata. Nil fields are left unchanged.
type Update struct {
	Base
	AssetAccounts
	NewName            *string
	NewURI             *string
	NewUpdateAuthority *state.UpdateAuthority
}

func (u *Update) Visit(v Visitor) error {
	return v.Update(u)
}

type UpdateCollection struct {
	Base
	Collection         ids.ShortID
	NewName            *string
	NewURI             *string
	NewUpdateAuthority *ids.ShortID
}

func (u *UpdateCollection) Visit(v Visitor) error {
	return v.UpdateCollection(u)
}

// Compress replaces the asset account with the hash of its contents.
type Compress struct {
	Base
	AssetAccounts
}

func (c *Compress) Visit(v Visitor) error {
	return v.Compress(c)
}

// Decompress rebuilds a compressed asset from [Proof].
type Decompress struct {
	Base
	AssetAccounts
	Proof Proof
}

func (d *Decompress) Visit(v Visitor) error {
	return v.Decompress(d)
}

// Freeze sets the frozen flag of the asset's delegate plugin.
type Freeze struct {
	Base
	AssetAccounts
}

func (f *Freeze) Visit(v Visitor) error {
	return v.Freeze(f)
}

// Thaw clears the frozen flag of the asset's delegate plugin.
type Thaw struct {
	Base
	AssetAccounts
}

func (t *Thaw) Visit(v Visitor) error {
	return v.Thaw(t)
}
