// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"fmt"
	"slices"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/math"
)

var errInvalidShift = fmt.Errorf("%w: shifted region out of bounds", coreerr.ErrLayout)

// Reset makes [acct] hold only [core].
func Reset(acct Account, core state.Entity, payer ids.ShortID) (*Layout, error) {
	b, err := state.Marshal(core)
	if err != nil {
		return nil, err
	}
	if err := acct.Resize(len(b), payer); err != nil {
		return nil, err
	}
	copy(acct.Data(), b)
	return &Layout{CoreSize: len(b)}, nil
}

// ShiftRegion moves [length] bytes of [data] from [from] to [to]. The
// regions may overlap.
func ShiftRegion(data []byte, from, to, length int) error {
	if from < 0 || to < 0 || length < 0 {
		return errInvalidShift
	}
	fromEnd, err := math.AddInt(from, length)
	if err != nil {
		return coreerr.Layout(err)
	}
	toEnd, err := math.AddInt(to, length)
	if err != nil {
		return coreerr.Layout(err)
	}
	if fromEnd > len(data) || toEnd > len(data) {
		return fmt.Errorf("%w: [%d, %d) -> [%d, %d) in %d bytes", errInvalidShift, from, fromEnd, to, toEnd, len(data))
	}
	copy(data[to:toEnd], data[from:fromEnd])
	return nil
}

// Resize sets the account length. The plugin registry must still fit.
func (l *Layout) Resize(acct Account, newLen int, payer ids.ShortID) error {
	if newLen < l.Len() {
		return fmt.Errorf("%w: %d < %d", ErrTruncatesPlugins, newLen, l.Len())
	}
	return acct.Resize(newLen, payer)
}

// AddPlugin appends [plugin] to the end of the plugin data region and
// records it in the registry, which moves forward by the plugin's size.
func (l *Layout) AddPlugin(acct Account, plugin *plugins.Plugin, authorities []state.Authority, payer ids.ShortID) error {
	if err := plugin.Verify(); err != nil {
		return err
	}
	if len(authorities) == 0 {
		return plugins.ErrEmptyAuthorities
	}
	if _, ok := l.Find(plugin.Type()); ok {
		return fmt.Errorf("%w: %s", plugins.ErrDuplicateType, plugin.Type())
	}
	content, err := state.Marshal(plugin)
	if err != nil {
		return err
	}
	if err := l.ensureHeader(acct, payer); err != nil {
		return err
	}

	registryOffset := l.RegistryOffset()
	registry := l.Registry.Clone()
	err = registry.Insert(plugins.RegistryRecord{
		Type:        plugin.Type(),
		Offset:      uint64(registryOffset),
		Authorities: slices.Clone(authorities),
	})
	if err != nil {
		return err
	}
	return l.splice(acct, registryOffset, 0, content, registry, payer)
}

// RemovePlugin excises the plugin of type [t] and returns it. Everything
// after it moves left by its size.
func (l *Layout) RemovePlugin(acct Account, t plugins.Type, payer ids.ShortID) (*plugins.Plugin, error) {
	record, ok := l.Find(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", plugins.ErrPluginNotFound, t)
	}
	plugin, end, err := l.readAt(acct.Data(), record)
	if err != nil {
		return nil, err
	}
	start := int(record.Offset)

	registry := l.Registry.Clone()
	if _, err := registry.Remove(t); err != nil {
		return nil, err
	}
	if err := l.splice(acct, start, end-start, nil, registry, payer); err != nil {
		return nil, err
	}
	return plugin, nil
}

// ReplacePlugin overwrites the attached plugin of the same type. A size
// change moves every later plugin and the registry.
func (l *Layout) ReplacePlugin(acct Account, plugin *plugins.Plugin, payer ids.ShortID) error {
	if err := plugin.Verify(); err != nil {
		return err
	}
	record, ok := l.Find(plugin.Type())
	if !ok {
		return fmt.Errorf("%w: %s", plugins.ErrPluginNotFound, plugin.Type())
	}
	_, end, err := l.readAt(acct.Data(), record)
	if err != nil {
		return err
	}
	content, err := state.Marshal(plugin)
	if err != nil {
		return err
	}
	start := int(record.Offset)
	return l.splice(acct, start, end-start, content, l.Registry.Clone(), payer)
}

// SetAuthorities replaces the authority set of the plugin of type [t].
func (l *Layout) SetAuthorities(acct Account, t plugins.Type, authorities []state.Authority, payer ids.ShortID) error {
	if len(authorities) == 0 {
		return plugins.ErrEmptyAuthorities
	}
	if _, ok := l.Find(t); !ok {
		return fmt.Errorf("%w: %s", plugins.ErrPluginNotFound, t)
	}
	registry := l.Registry.Clone()
	record, _ := registry.Find(t)
	record.Authorities = slices.Clone(authorities)
	return l.splice(acct, l.RegistryOffset(), 0, nil, registry, payer)
}

// ResizeCore rewrites the core record. When its size changes the plugin
// header, plugin data and registry all move by the difference.
func (l *Layout) ResizeCore(acct Account, core state.Entity, payer ids.ShortID) error {
	content, err := state.Marshal(core)
	if err != nil {
		return err
	}
	if !l.HasPlugins() {
		if err := acct.Resize(len(content), payer); err != nil {
			return err
		}
		copy(acct.Data(), content)
		l.CoreSize = len(content)
		return nil
	}
	return l.splice(acct, 0, l.CoreSize, content, l.Registry.Clone(), payer)
}

// ensureHeader writes an empty plugin header and registry after the core
// record if the account has none yet.
func (l *Layout) ensureHeader(acct Account, payer ids.ShortID) error {
	if l.HasPlugins() {
		return nil
	}
	next := &Layout{
		CoreSize: l.CoreSize,
		Header:   &plugins.Header{RegistryOffset: uint64(l.dataStart())},
		Registry: &plugins.Registry{},
	}
	if err := next.Resize(acct, next.Len(), payer); err != nil {
		return err
	}
	if err := next.Save(acct.Data()); err != nil {
		return err
	}
	*l = *next
	return nil
}

// splice replaces the span [start, start+oldSize) with [content]. The bytes
// between the end of the span and the registry move by the size difference,
// as do the offsets of every record that starts after [start]. [registry]
// becomes the new registry and is owned by the layout afterwards.
func (l *Layout) splice(
	acct Account,
	start int,
	oldSize int,
	content []byte,
	registry *plugins.Registry,
	payer ids.ShortID,
) error {
	registryOffset := l.RegistryOffset()
	oldEnd, err := math.AddInt(start, oldSize)
	if err != nil {
		return coreerr.Layout(err)
	}
	if start < 0 || oldEnd > registryOffset {
		return fmt.Errorf("%w: [%d, %d)", ErrOutOfRegion, start, oldEnd)
	}
	delta, err := math.SubInt(len(content), oldSize)
	if err != nil {
		return coreerr.Layout(err)
	}
	newEnd, err := math.Shift(oldEnd, delta)
	if err != nil {
		return coreerr.Layout(err)
	}
	newRegistryOffset, err := math.Shift(registryOffset, delta)
	if err != nil {
		return coreerr.Layout(err)
	}

	coreSize := l.CoreSize
	if coreSize > start {
		coreSize, err = math.Shift(coreSize, delta)
		if err != nil {
			return coreerr.Layout(err)
		}
	}
	for i := range registry.Records {
		record := &registry.Records[i]
		offset, err := math.Offset(record.Offset)
		if err != nil {
			return coreerr.Layout(err)
		}
		if offset <= start {
			continue
		}
		offset, err = math.Shift(offset, delta)
		if err != nil {
			return coreerr.Layout(err)
		}
		record.Offset = uint64(offset)
	}

	next := &Layout{
		CoreSize: coreSize,
		Header:   &plugins.Header{RegistryOffset: uint64(newRegistryOffset)},
		Registry: registry,
	}
	newLen := next.Len()

	// Grow before moving data right, shrink after moving it left.
	if newLen > len(acct.Data()) {
		if err := next.Resize(acct, newLen, payer); err != nil {
			return err
		}
	}
	data := acct.Data()
	if err := ShiftRegion(data, oldEnd, newEnd, registryOffset-oldEnd); err != nil {
		return err
	}
	copy(data[start:newEnd], content)
	if err := next.Save(data); err != nil {
		return err
	}
	if newLen < len(data) {
		if err := next.Resize(acct, newLen, payer); err != nil {
			return err
		}
	}

	*l = *next
	return nil
}
