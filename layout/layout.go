// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package layout manages the byte layout of an entity account:
//
//	[core record][plugin header][plugin data ...][plugin registry]
//
// The plugin header stores the offset of the registry, and every registry
// record stores the offset of one plugin inside the plugin data region.
package layout

import (
	"fmt"
	"slices"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
	"github.com/luxfi/coreasset/utils/math"
	"github.com/luxfi/coreasset/utils/wrappers"
)

var (
	ErrMissingHeader    = fmt.Errorf("%w: expected plugin header after core record", coreerr.ErrLayout)
	ErrRegistryOffset   = fmt.Errorf("%w: registry offset does not match registry position", coreerr.ErrLayout)
	ErrOutOfRegion      = fmt.Errorf("%w: record outside the plugin data region", coreerr.ErrLayout)
	ErrOverlap          = fmt.Errorf("%w: overlapping plugin records", coreerr.ErrLayout)
	ErrGap              = fmt.Errorf("%w: unindexed bytes in plugin data region", coreerr.ErrLayout)
	ErrTruncatesPlugins = fmt.Errorf("%w: resize would truncate the plugin registry", coreerr.ErrLayout)
	ErrTypeMismatch     = fmt.Errorf("%w: plugin does not match its registry record", coreerr.ErrInvalidState)
)

// Layout is the decoded index of an account. Header and Registry are nil
// until the first plugin is attached.
type Layout struct {
	CoreSize int
	Header   *plugins.Header
	Registry *plugins.Registry
}

// Attached is a decoded plugin together with its registry record.
type Attached struct {
	Plugin *plugins.Plugin
	Record plugins.RegistryRecord
}

// FetchCoreData decodes the core record at the start of [data] into [core]
// and indexes the plugins that follow it.
func FetchCoreData(data []byte, core state.Entity) (*Layout, error) {
	coreSize, err := state.UnmarshalAt(data, 0, core)
	if err != nil {
		return nil, err
	}
	return Load(data, coreSize)
}

// Load indexes the plugin header and registry that follow a core record of
// [coreSize] bytes.
func Load(data []byte, coreSize int) (*Layout, error) {
	l := &Layout{CoreSize: coreSize}
	if coreSize == len(data) {
		return l, nil
	}
	if coreSize > len(data) || state.PeekKey(data[coreSize:]) != state.KeyPluginHeader {
		return nil, ErrMissingHeader
	}

	header := &plugins.Header{}
	if _, err := state.UnmarshalAt(data, coreSize, header); err != nil {
		return nil, err
	}
	registryOffset, err := math.Offset(header.RegistryOffset)
	if err != nil {
		return nil, coreerr.Layout(err)
	}
	if registryOffset < l.dataStart() || registryOffset >= len(data) {
		return nil, fmt.Errorf("%w: %d", ErrRegistryOffset, registryOffset)
	}

	registry := &plugins.Registry{}
	end, err := state.UnmarshalAt(data, registryOffset, registry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryOffset, err)
	}
	if end != len(data) {
		return nil, state.ErrTrailingBytes
	}

	l.Header = header
	l.Registry = registry
	return l, nil
}

// HasPlugins reports whether the account carries a plugin header.
func (l *Layout) HasPlugins() bool {
	return l.Header != nil
}

// RegistryOffset returns the position of the registry.
func (l *Layout) RegistryOffset() int {
	if !l.HasPlugins() {
		return l.dataStart()
	}
	// Bounded by the buffer length when loaded or spliced.
	return int(l.Header.RegistryOffset)
}

// Len returns the account length this layout describes.
func (l *Layout) Len() int {
	if !l.HasPlugins() {
		return l.CoreSize
	}
	return l.RegistryOffset() + l.Registry.Size()
}

func (l *Layout) dataStart() int {
	return l.CoreSize + plugins.HeaderSize
}

// Find returns the registry record of plugin type [t].
func (l *Layout) Find(t plugins.Type) (*plugins.RegistryRecord, bool) {
	if !l.HasPlugins() {
		return nil, false
	}
	return l.Registry.Find(t)
}

// ReadPlugin decodes the attached plugin of type [t].
func (l *Layout) ReadPlugin(data []byte, t plugins.Type) (*plugins.Plugin, *plugins.RegistryRecord, error) {
	record, ok := l.Find(t)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", plugins.ErrPluginNotFound, t)
	}
	plugin, _, err := l.readAt(data, record)
	if err != nil {
		return nil, nil, err
	}
	return plugin, record, nil
}

// Plugins decodes every attached plugin in registry order.
func (l *Layout) Plugins(data []byte) ([]Attached, error) {
	if !l.HasPlugins() {
		return nil, nil
	}
	attached := make([]Attached, 0, len(l.Registry.Records))
	for i := range l.Registry.Records {
		record := &l.Registry.Records[i]
		plugin, _, err := l.readAt(data, record)
		if err != nil {
			return nil, err
		}
		attached = append(attached, Attached{
			Plugin: plugin,
			Record: plugins.RegistryRecord{
				Type:        record.Type,
				Offset:      record.Offset,
				Authorities: slices.Clone(record.Authorities),
			},
		})
	}
	return attached, nil
}

// readAt decodes the plugin [record] points at and returns the end of its
// span. The plugin must lie inside the plugin data region.
func (l *Layout) readAt(data []byte, record *plugins.RegistryRecord) (*plugins.Plugin, int, error) {
	start, err := math.Offset(record.Offset)
	if err != nil {
		return nil, 0, coreerr.Layout(err)
	}
	registryOffset := l.RegistryOffset()
	if start < l.dataStart() || start >= registryOffset || registryOffset > len(data) {
		return nil, 0, fmt.Errorf("%w: %s at %d", ErrOutOfRegion, record.Type, start)
	}

	plugin := &plugins.Plugin{}
	end, err := state.UnmarshalAt(data[:registryOffset], start, plugin)
	if err != nil {
		return nil, 0, err
	}
	if plugin.Type() != record.Type {
		return nil, 0, fmt.Errorf("%w: found %s, expected %s", ErrTypeMismatch, plugin.Type(), record.Type)
	}
	return plugin, end, nil
}

// Save writes the plugin header and registry into [data].
func (l *Layout) Save(data []byte) error {
	if !l.HasPlugins() {
		return nil
	}
	if len(data) < l.Len() {
		return fmt.Errorf("%w: buffer is %d bytes, need %d", ErrTruncatesPlugins, len(data), l.Len())
	}
	if err := writeRecord(data, l.CoreSize, l.Header); err != nil {
		return err
	}
	return writeRecord(data, l.RegistryOffset(), l.Registry)
}

// Check verifies the layout against [data]: the registry is well formed and
// sits where the header says. Every record's span must lie inside
// [CoreSize+plugins.HeaderSize, RegistryOffset), and the spans must tile
// that region without overlapping.
func (l *Layout) Check(data []byte) error {
	if !l.HasPlugins() {
		if len(data) != l.CoreSize {
			return state.ErrTrailingBytes
		}
		return nil
	}
	if len(data) != l.Len() {
		return fmt.Errorf("%w: buffer is %d bytes, layout describes %d", ErrRegistryOffset, len(data), l.Len())
	}
	if err := l.Registry.Verify(); err != nil {
		return err
	}

	type span struct {
		start, end int
		t          plugins.Type
	}
	spans := make([]span, 0, len(l.Registry.Records))
	for i := range l.Registry.Records {
		record := &l.Registry.Records[i]
		plugin, end, err := l.readAt(data, record)
		if err != nil {
			return err
		}
		if err := plugin.Verify(); err != nil {
			return err
		}
		spans = append(spans, span{
			start: int(record.Offset),
			end:   end,
			t:     record.Type,
		})
	}
	slices.SortFunc(spans, func(a, b span) int {
		return a.start - b.start
	})

	next := l.dataStart()
	for _, s := range spans {
		switch {
		case s.start < next:
			return fmt.Errorf("%w: %s at %d", ErrOverlap, s.t, s.start)
		case s.start > next:
			return fmt.Errorf("%w: [%d, %d)", ErrGap, next, s.start)
		}
		next = s.end
	}
	if next != l.RegistryOffset() {
		return fmt.Errorf("%w: [%d, %d)", ErrGap, next, l.RegistryOffset())
	}
	return nil
}

// Check decodes the account in [data] into [core] and verifies its layout.
func Check(data []byte, core state.Entity) error {
	l, err := FetchCoreData(data, core)
	if err != nil {
		return err
	}
	return l.Check(data)
}

// writeRecord packs [r] into [data] at [offset] without growing [data].
func writeRecord(data []byte, offset int, r state.Record) error {
	p := wrappers.NewReader(data, offset)
	r.Pack(p)
	return coreerr.Layout(p.Err)
}
