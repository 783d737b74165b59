// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instructions

import (
	"fmt"

	"github.com/luxfi/crypto/hash"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/components/verify"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/wrappers"
)

// smallest packed plugin: type tag and an empty authority list
const minProofPluginSize = wrappers.ByteLen + wrappers.IntLen

var (
	errNilProofPlugin = fmt.Errorf("%w: nil plugin in proof", coreerr.ErrInvalidState)

	_ state.Record   = (*Proof)(nil)
	_ state.Unpacker = (*Proof)(nil)
)

// ProofPlugin is one attached plugin as recorded in a compression proof.
type ProofPlugin struct {
	Plugin      *plugins.Plugin
	Authorities []state.Authority
}

// Proof is the canonical content of a compressed asset: the asset record
// followed by every plugin and its authorities in registry order.
type Proof struct {
	Asset   state.Asset
	Plugins []ProofPlugin
}

func (p *Proof) Size() int {
	size := p.Asset.Size() + wrappers.IntLen
	for _, pp := range p.Plugins {
		size += pp.Plugin.Size() + state.AuthoritiesSize(pp.Authorities)
	}
	return size
}

func (p *Proof) Pack(pk *wrappers.Packer) {
	p.Asset.Pack(pk)
	pk.PackInt(uint32(len(p.Plugins)))
	for _, pp := range p.Plugins {
		pp.Plugin.Pack(pk)
		state.PackAuthorities(pk, pp.Authorities)
	}
}

func (p *Proof) Unpack(pk *wrappers.Packer) {
	p.Asset.Unpack(pk)
	n := pk.UnpackLen(minProofPluginSize)
	if pk.Errored() {
		return
	}
	p.Plugins = make([]ProofPlugin, n)
	for i := range p.Plugins {
		plugin := &plugins.Plugin{}
		plugin.Unpack(pk)
		p.Plugins[i] = ProofPlugin{
			Plugin:      plugin,
			Authorities: state.UnpackAuthorities(pk),
		}
	}
}

func (p *Proof) Verify() error {
	for _, pp := range p.Plugins {
		if pp.Plugin == nil {
			return errNilProofPlugin
		}
		if err := pp.Plugin.Verify(); err != nil {
			return err
		}
		if len(pp.Authorities) == 0 {
			return fmt.Errorf("%w: %s", plugins.ErrEmptyAuthorities, pp.Plugin.Type())
		}
	}
	return verify.Unique(p.Plugins, func(pp ProofPlugin) plugins.Type {
		return pp.Plugin.Type()
	}, plugins.ErrDuplicateType)
}

// Hash returns the SHA-256 of the packed proof.
func (p *Proof) Hash() ([wrappers.HashLen]byte, error) {
	var h [wrappers.HashLen]byte
	if err := p.Verify(); err != nil {
		return h, err
	}
	b, err := state.Marshal(p)
	if err != nil {
		return h, err
	}
	digest := hash.ComputeHash256Array(b)
	copy(h[:], digest[:])
	return h, nil
}
