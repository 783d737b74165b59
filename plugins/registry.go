// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"fmt"
	"slices"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/components/verify"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/wrappers"
)

// minRecordSize is a record with a single bare authority.
const minRecordSize = wrappers.ByteLen + wrappers.LongLen + wrappers.IntLen + wrappers.ByteLen

var (
	ErrPluginNotFound    = fmt.Errorf("%w: plugin", coreerr.ErrNotFound)
	ErrDuplicateType     = fmt.Errorf("%w: plugin type already attached", coreerr.ErrInvalidState)
	ErrEmptyAuthorities  = fmt.Errorf("%w: plugin must keep at least one authority", coreerr.ErrInvalidState)
	ErrAuthorityNotFound = fmt.Errorf("%w: plugin authority", coreerr.ErrNotFound)

	_ state.Record   = (*Registry)(nil)
	_ state.Unpacker = (*Registry)(nil)
)

// RegistryRecord locates one attached plugin and lists who manages it.
type RegistryRecord struct {
	Type        Type
	Offset      uint64
	Authorities []state.Authority
}

func (r *RegistryRecord) size() int {
	return wrappers.ByteLen + wrappers.LongLen + state.AuthoritiesSize(r.Authorities)
}

// HasAuthority reports whether [a] is in the record's authority set.
func (r *RegistryRecord) HasAuthority(a state.Authority) bool {
	return slices.Contains(r.Authorities, a)
}

// Registry indexes the plugins attached to an entity in insertion order.
type Registry struct {
	Records []RegistryRecord
}

// Find returns the record of plugin type [t].
func (r *Registry) Find(t Type) (*RegistryRecord, bool) {
	for i := range r.Records {
		if r.Records[i].Type == t {
			return &r.Records[i], true
		}
	}
	return nil, false
}

// Insert appends [record]. Types are unique per registry.
func (r *Registry) Insert(record RegistryRecord) error {
	if _, ok := r.Find(record.Type); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, record.Type)
	}
	if len(record.Authorities) == 0 {
		return ErrEmptyAuthorities
	}
	r.Records = append(r.Records, record)
	return nil
}

// Remove drops the record of plugin type [t] and returns it.
func (r *Registry) Remove(t Type) (RegistryRecord, error) {
	for i, record := range r.Records {
		if record.Type == t {
			r.Records = slices.Delete(r.Records, i, i+1)
			return record, nil
		}
	}
	return RegistryRecord{}, fmt.Errorf("%w: %s", ErrPluginNotFound, t)
}

// Clone returns a deep copy that can be mutated without touching [r].
func (r *Registry) Clone() *Registry {
	records := make([]RegistryRecord, len(r.Records))
	for i, record := range r.Records {
		records[i] = RegistryRecord{
			Type:        record.Type,
			Offset:      record.Offset,
			Authorities: slices.Clone(record.Authorities),
		}
	}
	return &Registry{Records: records}
}

func (r *Registry) Size() int {
	size := wrappers.ByteLen + wrappers.IntLen
	for i := range r.Records {
		size += r.Records[i].size()
	}
	return size
}

func (r *Registry) Pack(p *wrappers.Packer) {
	p.PackByte(byte(state.KeyPluginRegistry))
	p.PackInt(uint32(len(r.Records)))
	for _, record := range r.Records {
		p.PackByte(byte(record.Type))
		p.PackLong(record.Offset)
		state.PackAuthorities(p, record.Authorities)
	}
}

func (r *Registry) Unpack(p *wrappers.Packer) {
	state.ExpectKey(p, state.KeyPluginRegistry)
	n := p.UnpackLen(minRecordSize)
	if p.Errored() {
		return
	}
	r.Records = make([]RegistryRecord, n)
	for i := range r.Records {
		record := &r.Records[i]
		record.Type = Type(p.UnpackByte())
		record.Offset = p.UnpackLong()
		record.Authorities = state.UnpackAuthorities(p)
		if !p.Errored() && !record.Type.Valid() {
			p.Add(fmt.Errorf("%w: %d", ErrUnknownType, byte(record.Type)))
		}
	}
}

// Verify checks that types are known and unique and that every plugin is
// still manageable.
func (r *Registry) Verify() error {
	for _, record := range r.Records {
		if !record.Type.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownType, byte(record.Type))
		}
		if len(record.Authorities) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyAuthorities, record.Type)
		}
	}
	return verify.Unique(r.Records, func(record RegistryRecord) Type {
		return record.Type
	}, ErrDuplicateType)
}
