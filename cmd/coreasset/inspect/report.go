// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inspect

import (
	"fmt"

	"github.com/luxfi/crypto/address/formatting"

	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/state"
)

var errUnknownKey = fmt.Errorf("%w: not an entity account", state.ErrUnexpectedKey)

// Report is the decoded content of one account buffer.
type Report struct {
	Key             string   `json:"key"`
	Len             int      `json:"len"`
	Owner           string   `json:"owner,omitempty"`
	UpdateAuthority string   `json:"updateAuthority,omitempty"`
	Name            string   `json:"name,omitempty"`
	URI             string   `json:"uri,omitempty"`
	NumMinted       *uint32  `json:"numMinted,omitempty"`
	CurrentSize     *uint32  `json:"currentSize,omitempty"`
	Hash            string   `json:"hash,omitempty"`
	CoreSize        int      `json:"coreSize"`
	RegistryOffset  *int     `json:"registryOffset,omitempty"`
	Plugins         []Plugin `json:"plugins,omitempty"`
}

type Plugin struct {
	Type        string   `json:"type"`
	Offset      uint64   `json:"offset"`
	Size        int      `json:"size"`
	Authorities []string `json:"authorities"`
}

// Decode reads the core record and every attached plugin of [data] and
// verifies that the layout is consistent.
func Decode(data []byte) (*Report, error) {
	key := state.PeekKey(data)
	r := &Report{
		Key: key.String(),
		Len: len(data),
	}

	var core state.Entity
	switch key {
	case state.KeyAsset:
		core = &state.Asset{}
	case state.KeyCollection:
		core = &state.Collection{}
	case state.KeyHashedAsset:
		core = &state.HashedAsset{}
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownKey, key)
	}

	l, err := layout.FetchCoreData(data, core)
	if err != nil {
		return nil, err
	}
	if err := l.Check(data); err != nil {
		return nil, err
	}
	if err := r.setCore(core); err != nil {
		return nil, err
	}
	r.CoreSize = l.CoreSize
	if !l.HasPlugins() {
		return r, nil
	}

	registryOffset := l.RegistryOffset()
	r.RegistryOffset = &registryOffset
	attached, err := l.Plugins(data)
	if err != nil {
		return nil, err
	}
	r.Plugins = make([]Plugin, len(attached))
	for i, a := range attached {
		authorities := make([]string, len(a.Record.Authorities))
		for j, auth := range a.Record.Authorities {
			authorities[j] = auth.String()
		}
		r.Plugins[i] = Plugin{
			Type:        a.Record.Type.String(),
			Offset:      a.Record.Offset,
			Size:        a.Plugin.Size(),
			Authorities: authorities,
		}
	}
	return r, nil
}

func (r *Report) setCore(core state.Entity) error {
	switch core := core.(type) {
	case *state.Asset:
		r.Owner = core.Owner.String()
		r.UpdateAuthority = core.UpdateAuthority.String()
		r.Name = core.Name
		r.URI = core.URI
	case *state.Collection:
		r.UpdateAuthority = core.UpdateAuthority.String()
		r.Name = core.Name
		r.URI = core.URI
		r.NumMinted = &core.NumMinted
		r.CurrentSize = &core.CurrentSize
	case *state.HashedAsset:
		hash, err := formatting.Encode(formatting.Hex, core.Hash[:])
		if err != nil {
			return err
		}
		r.Hash = hash
	}
	return nil
}
