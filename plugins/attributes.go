// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"fmt"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/components/verify"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	ErrDuplicateAttribute = fmt.Errorf("%w: duplicate attribute key", coreerr.ErrInvalidState)

	_ Payload = (*Attributes)(nil)
)

type Attribute struct {
	Key   string
	Value string
}

// Attributes is a list of on-chain key/value traits.
type Attributes struct {
	List []Attribute
}

func (*Attributes) Type() Type {
	return TypeAttributes
}

func (a *Attributes) Size() int {
	size := wrappers.IntLen
	for _, attr := range a.List {
		size += wrappers.StringLen(attr.Key) + wrappers.StringLen(attr.Value)
	}
	return size
}

func (a *Attributes) Pack(p *wrappers.Packer) {
	p.PackInt(uint32(len(a.List)))
	for _, attr := range a.List {
		p.PackStr(attr.Key)
		p.PackStr(attr.Value)
	}
}

func (a *Attributes) Unpack(p *wrappers.Packer) {
	n := p.UnpackLen(2 * wrappers.IntLen)
	if p.Errored() {
		return
	}
	a.List = make([]Attribute, n)
	for i := range a.List {
		a.List[i].Key = p.UnpackStr()
		a.List[i].Value = p.UnpackStr()
	}
}

func (a *Attributes) Verify() error {
	return verify.Unique(a.List, func(attr Attribute) string {
		return attr.Key
	}, ErrDuplicateAttribute)
}
