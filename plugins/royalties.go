// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/utils/wrappers"
)

const (
	MaxBasisPoints   = 10_000
	creatorLen       = wrappers.ShortIDLen + wrappers.ByteLen
	totalPercentage  = 100
	ruleSetTagLength = wrappers.ByteLen
)

var (
	ErrInvalidBasisPoints   = fmt.Errorf("%w: royalty basis points exceed %d", coreerr.ErrInvalidState, MaxBasisPoints)
	ErrInvalidCreatorShares = fmt.Errorf("%w: creator percentages must sum to %d", coreerr.ErrInvalidState, totalPercentage)
	errUnknownRuleSet       = fmt.Errorf("%w: unknown royalty rule set", coreerr.ErrInvalidState)
)

type Creator struct {
	Address    ids.ShortID
	Percentage uint8
}

// RuleSetKind restricts who an asset with royalties may be transferred to.
type RuleSetKind byte

const (
	RuleSetNone RuleSetKind = iota
	RuleSetAllowList
	RuleSetDenyList
)

type RuleSet struct {
	Kind      RuleSetKind
	Addresses []ids.ShortID
}

func (r *RuleSet) size() int {
	if r.Kind == RuleSetNone {
		return ruleSetTagLength
	}
	return ruleSetTagLength + wrappers.IntLen + len(r.Addresses)*wrappers.ShortIDLen
}

func (r *RuleSet) contains(addr ids.ShortID) bool {
	for _, a := range r.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}

// Royalties records creator royalties and an optional transfer rule.
type Royalties struct {
	BasisPoints uint16
	Creators    []Creator
	RuleSet     RuleSet
}

func (*Royalties) Type() Type {
	return TypeRoyalties
}

func (r *Royalties) Size() int {
	return wrappers.ShortLen +
		wrappers.IntLen + len(r.Creators)*creatorLen +
		r.RuleSet.size()
}

func (r *Royalties) Pack(p *wrappers.Packer) {
	p.PackShort(r.BasisPoints)
	p.PackInt(uint32(len(r.Creators)))
	for _, c := range r.Creators {
		p.PackFixedBytes(c.Address[:])
		p.PackByte(c.Percentage)
	}
	p.PackByte(byte(r.RuleSet.Kind))
	if r.RuleSet.Kind != RuleSetNone {
		p.PackInt(uint32(len(r.RuleSet.Addresses)))
		for _, addr := range r.RuleSet.Addresses {
			p.PackFixedBytes(addr[:])
		}
	}
}

func (r *Royalties) Unpack(p *wrappers.Packer) {
	r.BasisPoints = p.UnpackShort()
	n := p.UnpackLen(creatorLen)
	if p.Errored() {
		return
	}
	r.Creators = make([]Creator, n)
	for i := range r.Creators {
		copy(r.Creators[i].Address[:], p.UnpackFixedBytes(wrappers.ShortIDLen))
		r.Creators[i].Percentage = p.UnpackByte()
	}

	r.RuleSet.Kind = RuleSetKind(p.UnpackByte())
	switch r.RuleSet.Kind {
	case RuleSetNone:
		r.RuleSet.Addresses = nil
	case RuleSetAllowList, RuleSetDenyList:
		n := p.UnpackLen(wrappers.ShortIDLen)
		if p.Errored() {
			return
		}
		r.RuleSet.Addresses = make([]ids.ShortID, n)
		for i := range r.RuleSet.Addresses {
			copy(r.RuleSet.Addresses[i][:], p.UnpackFixedBytes(wrappers.ShortIDLen))
		}
	default:
		p.Add(fmt.Errorf("%w: %d", errUnknownRuleSet, r.RuleSet.Kind))
	}
}

func (r *Royalties) Verify() error {
	if r.BasisPoints > MaxBasisPoints {
		return ErrInvalidBasisPoints
	}
	total := 0
	for _, c := range r.Creators {
		total += int(c.Percentage)
	}
	if len(r.Creators) > 0 && total != totalPercentage {
		return ErrInvalidCreatorShares
	}
	switch r.RuleSet.Kind {
	case RuleSetNone, RuleSetAllowList, RuleSetDenyList:
		return nil
	default:
		return errUnknownRuleSet
	}
}

func (r *Royalties) validate(ev Event, ctx *ValidationContext) Vote {
	if ev != EventTransfer {
		return Abstain
	}
	switch r.RuleSet.Kind {
	case RuleSetAllowList:
		if !r.RuleSet.contains(ctx.NewOwner) {
			return Reject
		}
	case RuleSetDenyList:
		if r.RuleSet.contains(ctx.NewOwner) {
			return Reject
		}
	}
	return Abstain
}
