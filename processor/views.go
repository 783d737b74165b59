// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/authority"
	"github.com/luxfi/coreasset/instructions"
	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/ledger"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/validation"
)

// collectionView is a decoded collection account staged in the current Tx.
type collectionView struct {
	address    ids.ShortID
	account    *ledger.Account
	collection *state.Collection
	layout     *layout.Layout
	plugins    []layout.Attached
}

// assetView is a decoded asset account staged in the current Tx, together
// with its collection when it belongs to one.
type assetView struct {
	address    ids.ShortID
	account    *ledger.Account
	asset      *state.Asset
	layout     *layout.Layout
	plugins    []layout.Attached
	collection *collectionView
}

func loadAccount(tx *ledger.Tx, addr ids.ShortID) (*ledger.Account, error) {
	acct, err := tx.Account(addr)
	if err != nil {
		return nil, err
	}
	if !acct.Exists() {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, addr)
	}
	return acct, nil
}

func loadCollection(tx *ledger.Tx, addr ids.ShortID) (*collectionView, error) {
	acct, err := loadAccount(tx, addr)
	if err != nil {
		return nil, err
	}
	data := acct.Data()
	if key := state.PeekKey(data); key != state.KeyCollection {
		return nil, fmt.Errorf("%w: %s holds %s, expected %s", state.ErrUnexpectedKey, addr, key, state.KeyCollection)
	}

	c := &state.Collection{}
	l, err := layout.FetchCoreData(data, c)
	if err != nil {
		return nil, err
	}
	attached, err := l.Plugins(data)
	if err != nil {
		return nil, err
	}
	return &collectionView{
		address:    addr,
		account:    acct,
		collection: c,
		layout:     l,
		plugins:    attached,
	}, nil
}

func loadAsset(tx *ledger.Tx, accounts instructions.AssetAccounts) (*assetView, error) {
	acct, err := loadAccount(tx, accounts.Asset)
	if err != nil {
		return nil, err
	}
	data := acct.Data()
	switch key := state.PeekKey(data); key {
	case state.KeyAsset:
	case state.KeyHashedAsset:
		return nil, fmt.Errorf("%w: %s", ErrCompressed, accounts.Asset)
	default:
		return nil, fmt.Errorf("%w: %s holds %s, expected %s", state.ErrUnexpectedKey, accounts.Asset, key, state.KeyAsset)
	}

	a := &state.Asset{}
	l, err := layout.FetchCoreData(data, a)
	if err != nil {
		return nil, err
	}
	attached, err := l.Plugins(data)
	if err != nil {
		return nil, err
	}
	collection, err := loadParent(tx, a, accounts.Collection)
	if err != nil {
		return nil, err
	}
	return &assetView{
		address:    accounts.Asset,
		account:    acct,
		asset:      a,
		layout:     l,
		plugins:    attached,
		collection: collection,
	}, nil
}

// loadParent loads the collection [a] belongs to. [named] must be the
// collection recorded on the asset, or empty when it has none.
func loadParent(tx *ledger.Tx, a *state.Asset, named ids.ShortID) (*collectionView, error) {
	parent, ok := a.UpdateAuthority.Collection()
	switch {
	case !ok && named == ids.ShortEmpty:
		return nil, nil
	case !ok || parent != named:
		return nil, fmt.Errorf("%w: asset has %s, instruction names %s", ErrCollectionMismatch, a.UpdateAuthority, named)
	}
	return loadCollection(tx, parent)
}

func (v *assetView) resolver() *authority.Context {
	ctx := &authority.Context{Asset: v.asset}
	if v.collection != nil {
		ctx.Collection = v.collection.collection
		ctx.CollectionAddress = v.collection.address
	}
	return ctx
}

func (v *assetView) request(ev plugins.Event, actor ids.ShortID) *validation.Request {
	req := &validation.Request{
		Event:        ev,
		Entity:       validation.EntityAsset,
		Actor:        actor,
		Resolver:     v.resolver(),
		AssetPlugins: v.plugins,
	}
	if v.collection != nil {
		req.CollectionPlugins = v.collection.plugins
	}
	return req
}

// targetRequest validates an event that concerns the attached plugin of
// type [t], which is returned with its registry record.
func (v *assetView) targetRequest(ev plugins.Event, actor ids.ShortID, t plugins.Type) (*validation.Request, *layout.Attached, error) {
	attached, err := findAttached(v.plugins, t)
	if err != nil {
		return nil, nil, err
	}
	req := v.request(ev, actor)
	req.Target = attached.Plugin
	req.TargetAuthorities = attached.Record.Authorities
	return req, attached, nil
}

// saveCore writes the asset record back, moving the plugins if its size
// changed.
func (v *assetView) saveCore(payer ids.ShortID) error {
	return v.layout.ResizeCore(v.account, v.asset, payer)
}

// proof returns the canonical content of the asset.
func (v *assetView) proof() *instructions.Proof {
	p := &instructions.Proof{
		Asset:   *v.asset,
		Plugins: make([]instructions.ProofPlugin, len(v.plugins)),
	}
	for i, a := range v.plugins {
		p.Plugins[i] = instructions.ProofPlugin{
			Plugin:      a.Plugin,
			Authorities: a.Record.Authorities,
		}
	}
	return p
}

func (v *collectionView) resolver() *authority.Context {
	return &authority.Context{
		Collection:        v.collection,
		CollectionAddress: v.address,
	}
}

func (v *collectionView) request(ev plugins.Event, actor ids.ShortID) *validation.Request {
	return &validation.Request{
		Event:             ev,
		Entity:            validation.EntityCollection,
		Actor:             actor,
		Resolver:          v.resolver(),
		CollectionPlugins: v.plugins,
	}
}

func (v *collectionView) targetRequest(ev plugins.Event, actor ids.ShortID, t plugins.Type) (*validation.Request, *layout.Attached, error) {
	attached, err := findAttached(v.plugins, t)
	if err != nil {
		return nil, nil, err
	}
	req := v.request(ev, actor)
	req.Target = attached.Plugin
	req.TargetAuthorities = attached.Record.Authorities
	return req, attached, nil
}

func (v *collectionView) saveCore(payer ids.ShortID) error {
	return v.layout.ResizeCore(v.account, v.collection, payer)
}

func findAttached(attached []layout.Attached, t plugins.Type) (*layout.Attached, error) {
	for i := range attached {
		if attached[i].Record.Type == t {
			return &attached[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", plugins.ErrPluginNotFound, t)
}
