// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "github.com/luxfi/coreasset/utils/wrappers"

type authorityList []Authority

func (l authorityList) Size() int {
	return AuthoritiesSize(l)
}

func (l authorityList) Pack(p *wrappers.Packer) {
	PackAuthorities(p, l)
}

func (l *authorityList) Unpack(p *wrappers.Packer) {
	*l = UnpackAuthorities(p)
}
