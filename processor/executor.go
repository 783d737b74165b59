// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"fmt"
	"slices"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/instructions"
	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/ledger"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/math"
	"github.com/luxfi/coreasset/validation"
)

var (
	_ instructions.Visitor = (*Executor)(nil)

	ErrNotCollectionAuthority = fmt.Errorf("%w: actor is not the collection's update authority", coreerr.ErrAuthority)
	ErrNotDelegate            = fmt.Errorf("%w: actor holds no delegate authority", coreerr.ErrAuthority)

	ErrAccountInUse         = fmt.Errorf("%w: account already initialized", coreerr.ErrInvalidState)
	ErrCompressed           = fmt.Errorf("%w: asset is compressed", coreerr.ErrInvalidState)
	ErrNotCompressed        = fmt.Errorf("%w: asset is not compressed", coreerr.ErrInvalidState)
	ErrProofMismatch        = fmt.Errorf("%w: proof does not match the compressed asset", coreerr.ErrInvalidState)
	ErrCollectionMismatch   = fmt.Errorf("%w: collection does not match the asset", coreerr.ErrInvalidState)
	ErrCollectionNotEmpty   = fmt.Errorf("%w: collection still has assets", coreerr.ErrInvalidState)
	ErrCollectionMembership = fmt.Errorf("%w: update cannot move an asset into or out of a collection", coreerr.ErrInvalidState)
	ErrNameTooLong          = fmt.Errorf("%w: name too long", coreerr.ErrInvalidState)
	ErrURITooLong           = fmt.Errorf("%w: uri too long", coreerr.ErrInvalidState)
	ErrTooManyPlugins       = fmt.Errorf("%w: too many plugins", coreerr.ErrInvalidState)
	ErrTooManyAuthorities   = fmt.Errorf("%w: too many plugin authorities", coreerr.ErrInvalidState)
	ErrAlreadyFrozen        = fmt.Errorf("%w: asset already frozen", coreerr.ErrInvalidState)
	ErrNotFrozen            = fmt.Errorf("%w: asset is not frozen", coreerr.ErrInvalidState)
	ErrEmptyOwner           = fmt.Errorf("%w: new owner is empty", coreerr.ErrInvalidState)
	errNilPlugin            = fmt.Errorf("%w: nil plugin", coreerr.ErrInvalidState)
	errCollectionSize       = fmt.Errorf("%w: collection size", coreerr.ErrInvalidState)
)

// Executor applies one instruction to the accounts staged in Tx.
type Executor struct {
	*Backend
	Tx *ledger.Tx
}

func (e *Executor) Create(c *instructions.Create) error {
	if err := e.verifyMetadata(c.Name, c.URI); err != nil {
		return err
	}
	if len(c.Plugins) > e.Config.MaxPlugins {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPlugins, len(c.Plugins), e.Config.MaxPlugins)
	}
	acct, err := e.freshAccount(c.Asset)
	if err != nil {
		return err
	}
	payer := c.PayerOrActor()

	asset := &state.Asset{
		Owner: c.Owner,
		Name:  c.Name,
		URI:   c.URI,
	}
	if asset.Owner == ids.ShortEmpty {
		asset.Owner = c.Actor
	}
	switch {
	case c.Collection != ids.ShortEmpty:
		col, err := loadCollection(e.Tx, c.Collection)
		if err != nil {
			return err
		}
		if !col.resolver().HasAuthority(c.Actor, state.Authority{Kind: state.KindUpdateAuthority}) {
			return ErrNotCollectionAuthority
		}
		if col.collection.NumMinted, err = math.Add(col.collection.NumMinted, 1); err != nil {
			return fmt.Errorf("%w: %w", errCollectionSize, err)
		}
		if col.collection.CurrentSize, err = math.Add(col.collection.CurrentSize, 1); err != nil {
			return fmt.Errorf("%w: %w", errCollectionSize, err)
		}
		if err := col.saveCore(payer); err != nil {
			return err
		}
		asset.UpdateAuthority = state.UpdateAuthority{
			Kind:    state.UpdateCollection,
			Address: c.Collection,
		}
	case c.UpdateAuthority != ids.ShortEmpty:
		asset.UpdateAuthority = state.UpdateAuthority{
			Kind:    state.UpdateAddress,
			Address: c.UpdateAuthority,
		}
	default:
		asset.UpdateAuthority = state.UpdateAuthority{
			Kind:    state.UpdateAddress,
			Address: c.Actor,
		}
	}

	l, err := layout.Reset(acct, asset, payer)
	if err != nil {
		return err
	}
	return e.attachInitial(acct, l, validation.EntityAsset, c.Plugins, payer)
}

func (e *Executor) CreateCollection(c *instructions.CreateCollection) error {
	if err := e.verifyMetadata(c.Name, c.URI); err != nil {
		return err
	}
	if len(c.Plugins) > e.Config.MaxPlugins {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPlugins, len(c.Plugins), e.Config.MaxPlugins)
	}
	acct, err := e.freshAccount(c.Collection)
	if err != nil {
		return err
	}
	payer := c.PayerOrActor()

	collection := &state.Collection{
		UpdateAuthority: c.UpdateAuthority,
		Name:            c.Name,
		URI:             c.URI,
	}
	if collection.UpdateAuthority == ids.ShortEmpty {
		collection.UpdateAuthority = c.Actor
	}
	l, err := layout.Reset(acct, collection, payer)
	if err != nil {
		return err
	}
	return e.attachInitial(acct, l, validation.EntityCollection, c.Plugins, payer)
}

func (e *Executor) AddPlugin(a *instructions.AddPlugin) error {
	v, err := loadAsset(e.Tx, a.AssetAccounts)
	if err != nil {
		return err
	}
	authorities, err := e.verifyAdd(a.Plugin, a.Authority, validation.EntityAsset, len(v.plugins))
	if err != nil {
		return err
	}
	req := v.request(plugins.EventAddPlugin, a.Actor)
	req.Target = a.Plugin
	req.TargetAuthorities = authorities
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.AddPlugin(v.account, a.Plugin, authorities, a.PayerOrActor())
}

func (e *Executor) AddCollectionPlugin(a *instructions.AddCollectionPlugin) error {
	v, err := loadCollection(e.Tx, a.Collection)
	if err != nil {
		return err
	}
	authorities, err := e.verifyAdd(a.Plugin, a.Authority, validation.EntityCollection, len(v.plugins))
	if err != nil {
		return err
	}
	req := v.request(plugins.EventAddPlugin, a.Actor)
	req.Target = a.Plugin
	req.TargetAuthorities = authorities
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.AddPlugin(v.account, a.Plugin, authorities, a.PayerOrActor())
}

func (e *Executor) RemovePlugin(r *instructions.RemovePlugin) error {
	v, err := loadAsset(e.Tx, r.AssetAccounts)
	if err != nil {
		return err
	}
	req, _, err := v.targetRequest(plugins.EventRemovePlugin, r.Actor, r.Type)
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	_, err = v.layout.RemovePlugin(v.account, r.Type, r.PayerOrActor())
	return err
}

func (e *Executor) RemoveCollectionPlugin(r *instructions.RemoveCollectionPlugin) error {
	v, err := loadCollection(e.Tx, r.Collection)
	if err != nil {
		return err
	}
	req, _, err := v.targetRequest(plugins.EventRemovePlugin, r.Actor, r.Type)
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	_, err = v.layout.RemovePlugin(v.account, r.Type, r.PayerOrActor())
	return err
}

func (e *Executor) UpdatePlugin(u *instructions.UpdatePlugin) error {
	if u.Plugin == nil {
		return errNilPlugin
	}
	v, err := loadAsset(e.Tx, u.AssetAccounts)
	if err != nil {
		return err
	}
	req, _, err := v.targetRequest(plugins.EventUpdatePlugin, u.Actor, u.Plugin.Type())
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.ReplacePlugin(v.account, u.Plugin, u.PayerOrActor())
}

func (e *Executor) UpdateCollectionPlugin(u *instructions.UpdateCollectionPlugin) error {
	if u.Plugin == nil {
		return errNilPlugin
	}
	v, err := loadCollection(e.Tx, u.Collection)
	if err != nil {
		return err
	}
	req, _, err := v.targetRequest(plugins.EventUpdatePlugin, u.Actor, u.Plugin.Type())
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.ReplacePlugin(v.account, u.Plugin, u.PayerOrActor())
}

func (e *Executor) ApprovePluginAuthority(a *instructions.ApprovePluginAuthority) error {
	v, err := loadAsset(e.Tx, a.AssetAccounts)
	if err != nil {
		return err
	}
	req, target, err := v.targetRequest(plugins.EventApproveAuthority, a.Actor, a.Type)
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	return e.approve(v.account, v.layout, target, a.Authority, a.PayerOrActor())
}

func (e *Executor) ApproveCollectionPluginAuthority(a *instructions.ApproveCollectionPluginAuthority) error {
	v, err := loadCollection(e.Tx, a.Collection)
	if err != nil {
		return err
	}
	req, target, err := v.targetRequest(plugins.EventApproveAuthority, a.Actor, a.Type)
	if err != nil {
		return err
	}
	if err := validation.Validate(req); err != nil {
		return err
	}
	return e.approve(v.account, v.layout, target, a.Authority, a.PayerOrActor())
}

func (e *Executor) RevokePluginAuthority(r *instructions.RevokePluginAuthority) error {
	v, err := loadAsset(e.Tx, r.AssetAccounts)
	if err != nil {
		return err
	}
	req, target, err := v.targetRequest(plugins.EventRevokeAuthority, r.Actor, r.Type)
	if err != nil {
		return err
	}
	remaining, err := revoked(target, r.Authority, validation.EntityAsset)
	if err != nil {
		return err
	}
	req.Revoked = r.Authority
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.SetAuthorities(v.account, r.Type, remaining, r.PayerOrActor())
}

func (e *Executor) RevokeCollectionPluginAuthority(r *instructions.RevokeCollectionPluginAuthority) error {
	v, err := loadCollection(e.Tx, r.Collection)
	if err != nil {
		return err
	}
	req, target, err := v.targetRequest(plugins.EventRevokeAuthority, r.Actor, r.Type)
	if err != nil {
		return err
	}
	remaining, err := revoked(target, r.Authority, validation.EntityCollection)
	if err != nil {
		return err
	}
	req.Revoked = r.Authority
	if err := validation.Validate(req); err != nil {
		return err
	}
	return v.layout.SetAuthorities(v.account, r.Type, remaining, r.PayerOrActor())
}

func (e *Executor) Burn(b *instructions.Burn) error {
	v, err := loadAsset(e.Tx, b.AssetAccounts)
	if err != nil {
		return err
	}
	if err := validation.Validate(v.request(plugins.EventBurn, b.Actor)); err != nil {
		return err
	}
	payer := b.PayerOrActor()
	if v.collection != nil {
		col := v.collection.collection
		if col.CurrentSize, err = math.Sub(col.CurrentSize, 1); err != nil {
			return fmt.Errorf("%w: %w", errCollectionSize, err)
		}
		if err := v.collection.saveCore(payer); err != nil {
			return err
		}
	}
	return v.account.Resize(0, payer)
}

func (e *Executor) BurnCollection(b *instructions.BurnCollection) error {
	v, err := loadCollection(e.Tx, b.Collection)
	if err != nil {
		return err
	}
	if err := validation.Validate(v.request(plugins.EventBurn, b.Actor)); err != nil {
		return err
	}
	if v.collection.CurrentSize != 0 {
		return fmt.Errorf("%w: %d remaining", ErrCollectionNotEmpty, v.collection.CurrentSize)
	}
	return v.account.Resize(0, b.PayerOrActor())
}

func (e *Executor) Transfer(t *instructions.Transfer) error {
	if t.NewOwner == ids.ShortEmpty {
		return ErrEmptyOwner
	}
	v, err := loadAsset(e.Tx, t.AssetAccounts)
	if err != nil {
		return err
	}
	req := v.request(plugins.EventTransfer, t.Actor)
	req.NewOwner = t.NewOwner
	if err := validation.Validate(req); err != nil {
		return err
	}

	payer := t.PayerOrActor()
	v.asset.Owner = t.NewOwner
	if err := v.saveCore(payer); err != nil {
		return err
	}

	// Authorities delegated by the previous holder do not carry over.
	owner := []state.Authority{{Kind: state.KindOwner}}
	for _, a := range v.plugins {
		if !a.Record.Type.OwnerManaged() || slices.Equal(a.Record.Authorities, owner) {
			continue
		}
		if err := v.layout.SetAuthorities(v.account, a.Record.Type, owner, payer); err != nil {
			return err
		}
		e.Log.Debug("reset plugin authorities on transfer",
			log.Stringer("asset", v.address),
			log.Stringer("plugin", a.Record.Type),
		)
	}
	return nil
}

func (e *Executor) Update(u *instructions.Update) error {
	v, err := loadAsset(e.Tx, u.AssetAccounts)
	if err != nil {
		return err
	}
	if err := validation.Validate(v.request(plugins.EventUpdate, u.Actor)); err != nil {
		return err
	}

	if u.NewName != nil {
		v.asset.Name = *u.NewName
	}
	if u.NewURI != nil {
		v.asset.URI = *u.NewURI
	}
	if u.NewUpdateAuthority != nil {
		if v.collection != nil || u.NewUpdateAuthority.Kind == state.UpdateCollection {
			return ErrCollectionMembership
		}
		v.asset.UpdateAuthority = *u.NewUpdateAuthority
	}
	if err := e.verifyMetadata(v.asset.Name, v.asset.URI); err != nil {
		return err
	}
	return v.saveCore(u.PayerOrActor())
}

func (e *Executor) UpdateCollection(u *instructions.UpdateCollection) error {
	v, err := loadCollection(e.Tx, u.Collection)
	if err != nil {
		return err
	}
	if err := validation.Validate(v.request(plugins.EventUpdate, u.Actor)); err != nil {
		return err
	}

	if u.NewName != nil {
		v.collection.Name = *u.NewName
	}
	if u.NewURI != nil {
		v.collection.URI = *u.NewURI
	}
	if u.NewUpdateAuthority != nil {
		v.collection.UpdateAuthority = *u.NewUpdateAuthority
	}
	if err := e.verifyMetadata(v.collection.Name, v.collection.URI); err != nil {
		return err
	}
	return v.saveCore(u.PayerOrActor())
}

func (e *Executor) Compress(c *instructions.Compress) error {
	v, err := loadAsset(e.Tx, c.AssetAccounts)
	if err != nil {
		return err
	}
	if err := validation.Validate(v.request(plugins.EventCompress, c.Actor)); err != nil {
		return err
	}
	h, err := v.proof().Hash()
	if err != nil {
		return err
	}
	_, err = layout.Reset(v.account, &state.HashedAsset{Hash: h}, c.PayerOrActor())
	return err
}

func (e *Executor) Decompress(d *instructions.Decompress) error {
	acct, err := loadAccount(e.Tx, d.Asset)
	if err != nil {
		return err
	}
	if key := state.PeekKey(acct.Data()); key != state.KeyHashedAsset {
		return fmt.Errorf("%w: %s holds %s", ErrNotCompressed, d.Asset, key)
	}
	hashed := &state.HashedAsset{}
	if err := state.Unmarshal(acct.Data(), hashed); err != nil {
		return err
	}
	h, err := d.Proof.Hash()
	if err != nil {
		return err
	}
	if h != hashed.Hash {
		return ErrProofMismatch
	}

	asset := d.Proof.Asset
	collection, err := loadParent(e.Tx, &asset, d.Collection)
	if err != nil {
		return err
	}
	v := &assetView{
		address:    d.Asset,
		account:    acct,
		asset:      &asset,
		plugins:    make([]layout.Attached, len(d.Proof.Plugins)),
		collection: collection,
	}
	for i, pp := range d.Proof.Plugins {
		v.plugins[i] = layout.Attached{
			Plugin: pp.Plugin,
			Record: plugins.RegistryRecord{
				Type:        pp.Plugin.Type(),
				Authorities: pp.Authorities,
			},
		}
	}
	if err := validation.Validate(v.request(plugins.EventDecompress, d.Actor)); err != nil {
		return err
	}

	payer := d.PayerOrActor()
	l, err := layout.Reset(acct, &asset, payer)
	if err != nil {
		return err
	}
	for _, pp := range d.Proof.Plugins {
		if err := l.AddPlugin(acct, pp.Plugin, pp.Authorities, payer); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) Freeze(f *instructions.Freeze) error {
	return e.setDelegateFrozen(f.AssetAccounts, f.Actor, f.PayerOrActor(), true)
}

func (e *Executor) Thaw(t *instructions.Thaw) error {
	return e.setDelegateFrozen(t.AssetAccounts, t.Actor, t.PayerOrActor(), false)
}

// setDelegateFrozen is gated by the delegate plugin's authorities alone; the
// holder has no say unless it is one of them.
func (e *Executor) setDelegateFrozen(
	accounts instructions.AssetAccounts,
	actor ids.ShortID,
	payer ids.ShortID,
	frozen bool,
) error {
	v, err := loadAsset(e.Tx, accounts)
	if err != nil {
		return err
	}
	attached, err := findAttached(v.plugins, plugins.TypeDelegate)
	if err != nil {
		return err
	}
	if !v.resolver().HasAuthority(actor, attached.Record.Authorities...) {
		return fmt.Errorf("%w: %s", ErrNotDelegate, actor)
	}

	delegate, ok := attached.Plugin.Payload.(*plugins.Delegate)
	if !ok {
		return layout.ErrTypeMismatch
	}
	switch {
	case frozen && delegate.Frozen:
		return ErrAlreadyFrozen
	case !frozen && !delegate.Frozen:
		return ErrNotFrozen
	}
	delegate.Frozen = frozen
	return v.layout.ReplacePlugin(v.account, attached.Plugin, payer)
}

// freshAccount returns the staged account at [addr], which must be empty.
func (e *Executor) freshAccount(addr ids.ShortID) (*ledger.Account, error) {
	acct, err := e.Tx.Account(addr)
	if err != nil {
		return nil, err
	}
	if acct.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrAccountInUse, addr)
	}
	return acct, nil
}

func (e *Executor) verifyMetadata(name, uri string) error {
	if len(name) > e.Config.MaxNameLen {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), e.Config.MaxNameLen)
	}
	if len(uri) > e.Config.MaxURILen {
		return fmt.Errorf("%w: %d > %d", ErrURITooLong, len(uri), e.Config.MaxURILen)
	}
	return nil
}

// verifyAdd checks [plugin] can be attached next to [attached] other plugins
// and returns the authorities it will be attached with.
func (e *Executor) verifyAdd(
	plugin *plugins.Plugin,
	auth *state.Authority,
	entity validation.Entity,
	attached int,
) ([]state.Authority, error) {
	if plugin == nil {
		return nil, errNilPlugin
	}
	if err := plugin.Verify(); err != nil {
		return nil, err
	}
	if attached >= e.Config.MaxPlugins {
		return nil, fmt.Errorf("%w: %d attached", ErrTooManyPlugins, attached)
	}
	if auth == nil {
		return []state.Authority{validation.Manager(entity, plugin.Type())}, nil
	}
	return []state.Authority{*auth}, nil
}

// attachInitial attaches the plugins an entity is created with. Creation is
// authorized by the creator, so no vote is held.
func (e *Executor) attachInitial(
	acct layout.Account,
	l *layout.Layout,
	entity validation.Entity,
	inits []instructions.PluginInit,
	payer ids.ShortID,
) error {
	for _, pi := range inits {
		authorities, err := e.verifyAdd(pi.Plugin, pi.Authority, entity, 0)
		if err != nil {
			return err
		}
		if err := l.AddPlugin(acct, pi.Plugin, authorities, payer); err != nil {
			return err
		}
	}
	return nil
}

// approve adds [auth] to the target's authorities. Approving an authority
// the plugin already has changes nothing.
func (e *Executor) approve(
	acct layout.Account,
	l *layout.Layout,
	target *layout.Attached,
	auth state.Authority,
	payer ids.ShortID,
) error {
	if target.Record.HasAuthority(auth) {
		return nil
	}
	if len(target.Record.Authorities) >= e.Config.MaxAuthorities {
		return fmt.Errorf("%w: %s has %d", ErrTooManyAuthorities, target.Record.Type, len(target.Record.Authorities))
	}
	authorities := append(slices.Clone(target.Record.Authorities), auth)
	return l.SetAuthorities(acct, target.Record.Type, authorities, payer)
}

// revoked returns the target's authorities without [auth]. Revoking the last
// authority hands the plugin back to its manager, unless the manager itself
// is being revoked.
func revoked(target *layout.Attached, auth state.Authority, entity validation.Entity) ([]state.Authority, error) {
	if !target.Record.HasAuthority(auth) {
		return nil, fmt.Errorf("%w: %s on %s", plugins.ErrAuthorityNotFound, auth, target.Record.Type)
	}
	remaining := slices.DeleteFunc(slices.Clone(target.Record.Authorities), func(a state.Authority) bool {
		return a == auth
	})
	if len(remaining) > 0 {
		return remaining, nil
	}
	manager := validation.Manager(entity, target.Record.Type)
	if manager == auth {
		return nil, fmt.Errorf("%w: %s", plugins.ErrEmptyAuthorities, target.Record.Type)
	}
	return []state.Authority{manager}, nil
}
