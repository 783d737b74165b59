// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
)

var (
	payer  = ids.GenerateTestShortID()
	owners = []state.Authority{{Kind: state.KindOwner}}
	uas    = []state.Authority{{Kind: state.KindUpdateAuthority}}
)

func newAsset(name string) *state.Asset {
	return &state.Asset{
		Owner: ids.ShortID{1},
		UpdateAuthority: state.UpdateAuthority{
			Kind:    state.UpdateAddress,
			Address: ids.ShortID{2},
		},
		Name: name,
		URI:  "https://example.com/",
	}
}

func newAccount(t *testing.T, core state.Entity) (*Buffer, *Layout) {
	acct := NewBuffer(nil, 0)
	l, err := Reset(acct, core, payer)
	require.NoError(t, err)
	return acct, l
}

// attributesOfSize returns a plugin that packs to exactly [size] bytes.
func attributesOfSize(size int) *plugins.Plugin {
	// tag + count + key(len + 1) + value(len + n)
	return plugins.New(&plugins.Attributes{List: []plugins.Attribute{{
		Key:   "k",
		Value: strings.Repeat("v", size-1-4-5-4),
	}}})
}

func requireValid(t *testing.T, acct *Buffer) *Layout {
	require := require.New(t)

	l, err := FetchCoreData(acct.Data(), &state.Asset{})
	require.NoError(err)
	require.NoError(l.Check(acct.Data()))
	return l
}

func TestResetWithoutPlugins(t *testing.T) {
	require := require.New(t)

	asset := newAsset("Bread")
	acct, l := newAccount(t, asset)
	require.False(l.HasPlugins())
	require.Equal(asset.Size(), l.Len())
	require.Len(acct.Data(), asset.Size())

	parsed := &state.Asset{}
	loaded, err := FetchCoreData(acct.Data(), parsed)
	require.NoError(err)
	require.Equal(asset, parsed)
	require.Equal(l, loaded)
	require.NoError(loaded.Check(acct.Data()))

	attached, err := loaded.Plugins(acct.Data())
	require.NoError(err)
	require.Empty(attached)
}

func TestAddPluginMovesRegistry(t *testing.T) {
	require := require.New(t)

	// core + header + freeze == 200
	asset := newAsset(strings.Repeat("b", 119))
	require.Equal(189, asset.Size())
	acct, l := newAccount(t, asset)
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Freeze{}), owners, payer))
	require.Equal(200, l.RegistryOffset())
	require.Equal(uint64(189+plugins.HeaderSize), l.Registry.Records[0].Offset)

	lenBefore := len(acct.Data())
	plugin := attributesOfSize(40)
	require.Equal(40, plugin.Size())
	require.NoError(l.AddPlugin(acct, plugin, uas, payer))

	require.Equal(240, l.RegistryOffset())
	require.Equal(uint64(240), l.Header.RegistryOffset)
	require.Equal(uint64(198), l.Registry.Records[0].Offset)
	require.Equal(uint64(200), l.Registry.Records[1].Offset)
	// plugin + (type + offset + authorities)
	require.Equal(lenBefore+40+(1+8+4+1), len(acct.Data()))

	loaded := requireValid(t, acct)
	require.Equal(l, loaded)

	got, record, err := loaded.ReadPlugin(acct.Data(), plugins.TypeAttributes)
	require.NoError(err)
	require.Equal(plugin, got)
	require.Equal(uas, record.Authorities)
}

func TestAddPluginErrors(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer))
	before := append([]byte(nil), acct.Data()...)

	err := l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer)
	require.ErrorIs(err, plugins.ErrDuplicateType)

	err = l.AddPlugin(acct, plugins.New(&plugins.Transfer{}), nil, payer)
	require.ErrorIs(err, plugins.ErrEmptyAuthorities)

	err = l.AddPlugin(acct, plugins.New(&plugins.Royalties{BasisPoints: 10_001}), uas, payer)
	require.ErrorIs(err, plugins.ErrInvalidBasisPoints)

	require.Equal(before, acct.Data())
}

func TestAddPluginAccountTooLarge(t *testing.T) {
	require := require.New(t)

	asset := newAsset("Bread")
	acct := NewBuffer(nil, asset.Size()+plugins.HeaderSize+20)
	l, err := Reset(acct, asset, payer)
	require.NoError(err)

	err = l.AddPlugin(acct, attributesOfSize(40), uas, payer)
	require.ErrorIs(err, ErrAccountTooLarge)
	require.ErrorIs(err, coreerr.ErrLayout)
}

func TestResizeCore(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		delta int
	}{
		{
			name:  "shrink",
			from:  "Bread #0000000001",
			to:    "Bread #1",
			delta: -9,
		},
		{
			name:  "shrink by ten",
			from:  "Sourdough Loaf",
			to:    "Loaf",
			delta: -10,
		},
		{
			name:  "grow",
			from:  "Loaf",
			to:    "Sourdough Loaf",
			delta: 10,
		},
		{
			name:  "same size",
			from:  "Rye",
			to:    "Oat",
			delta: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			asset := newAsset(test.from)
			acct, l := newAccount(t, asset)
			freeze := plugins.New(&plugins.Freeze{Frozen: true})
			edition := plugins.New(&plugins.Edition{Number: 42})
			require.NoError(l.AddPlugin(acct, freeze, owners, payer))
			require.NoError(l.AddPlugin(acct, edition, uas, payer))

			registryOffset := l.RegistryOffset()
			offsets := []uint64{l.Registry.Records[0].Offset, l.Registry.Records[1].Offset}
			lenBefore := len(acct.Data())

			asset.Name = test.to
			require.NoError(l.ResizeCore(acct, asset, payer))

			require.Equal(registryOffset+test.delta, l.RegistryOffset())
			require.Equal(lenBefore+test.delta, len(acct.Data()))
			for i, offset := range offsets {
				require.Equal(int(offset)+test.delta, int(l.Registry.Records[i].Offset))
			}

			parsed := &state.Asset{}
			loaded, err := FetchCoreData(acct.Data(), parsed)
			require.NoError(err)
			require.NoError(loaded.Check(acct.Data()))
			require.Equal(asset, parsed)

			got, _, err := loaded.ReadPlugin(acct.Data(), plugins.TypeFreeze)
			require.NoError(err)
			require.Equal(freeze, got)
			got, _, err = loaded.ReadPlugin(acct.Data(), plugins.TypeEdition)
			require.NoError(err)
			require.Equal(edition, got)
		})
	}
}

func TestResizeCoreWithoutPlugins(t *testing.T) {
	require := require.New(t)

	asset := newAsset("Sourdough Loaf")
	acct, l := newAccount(t, asset)
	asset.Name = "Loaf"
	require.NoError(l.ResizeCore(acct, asset, payer))
	require.Equal(asset.Size(), len(acct.Data()))
	require.Equal(asset.Size(), l.CoreSize)
	requireValid(t, acct)
}

func TestRemovePlugin(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	first := plugins.New(&plugins.Freeze{})
	middle := attributesOfSize(30)
	last := plugins.New(&plugins.Edition{Number: 3})
	require.NoError(l.AddPlugin(acct, first, owners, payer))
	require.NoError(l.AddPlugin(acct, middle, uas, payer))
	require.NoError(l.AddPlugin(acct, last, uas, payer))

	lastOffset := l.Registry.Records[2].Offset
	registryOffset := l.RegistryOffset()

	removed, err := l.RemovePlugin(acct, plugins.TypeAttributes, payer)
	require.NoError(err)
	require.Equal(middle, removed)
	require.Equal(registryOffset-30, l.RegistryOffset())
	require.Len(l.Registry.Records, 2)
	require.Equal(lastOffset-30, l.Registry.Records[1].Offset)

	loaded := requireValid(t, acct)
	got, _, err := loaded.ReadPlugin(acct.Data(), plugins.TypeEdition)
	require.NoError(err)
	require.Equal(last, got)

	_, err = l.RemovePlugin(acct, plugins.TypeAttributes, payer)
	require.ErrorIs(err, plugins.ErrPluginNotFound)

	_, err = l.RemovePlugin(acct, plugins.TypeFreeze, payer)
	require.NoError(err)
	_, err = l.RemovePlugin(acct, plugins.TypeEdition, payer)
	require.NoError(err)

	// the header and an empty registry stay behind
	loaded = requireValid(t, acct)
	require.True(loaded.HasPlugins())
	require.Empty(loaded.Registry.Records)
	require.Equal(loaded.dataStart(), loaded.RegistryOffset())
}

func TestReplacePlugin(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	require.NoError(l.AddPlugin(acct, attributesOfSize(20), uas, payer))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Delegate{}), owners, payer))
	delegateOffset := l.Registry.Records[1].Offset

	for _, size := range []int{35, 14, 20} {
		plugin := attributesOfSize(size)
		require.NoError(l.ReplacePlugin(acct, plugin, payer))

		loaded := requireValid(t, acct)
		require.Equal(int(delegateOffset)+size-20, int(loaded.Registry.Records[1].Offset))

		got, _, err := loaded.ReadPlugin(acct.Data(), plugins.TypeAttributes)
		require.NoError(err)
		require.Equal(plugin, got)
	}

	err := l.ReplacePlugin(acct, plugins.New(&plugins.Burn{}), payer)
	require.ErrorIs(err, plugins.ErrPluginNotFound)
}

func TestSetAuthorities(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Delegate{}), owners, payer))

	delegate := state.AddressAuthority(ids.GenerateTestShortID())
	authorities := []state.Authority{{Kind: state.KindOwner}, delegate}
	require.NoError(l.SetAuthorities(acct, plugins.TypeDelegate, authorities, payer))

	loaded := requireValid(t, acct)
	record, ok := loaded.Find(plugins.TypeDelegate)
	require.True(ok)
	require.Equal(authorities, record.Authorities)

	err := l.SetAuthorities(acct, plugins.TypeDelegate, nil, payer)
	require.ErrorIs(err, plugins.ErrEmptyAuthorities)

	err = l.SetAuthorities(acct, plugins.TypeBurn, owners, payer)
	require.ErrorIs(err, plugins.ErrPluginNotFound)

	require.NoError(l.SetAuthorities(acct, plugins.TypeDelegate, owners, payer))
	loaded = requireValid(t, acct)
	require.Equal(owners, loaded.Registry.Records[0].Authorities)
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	asset := newAsset("Bread")
	acct, l := newAccount(t, asset)
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Royalties{
		BasisPoints: 250,
		Creators:    []plugins.Creator{{Address: ids.ShortID{9}, Percentage: 100}},
	}), uas, payer))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Freeze{Frozen: true}), owners, payer))
	require.NoError(l.AddPlugin(acct, attributesOfSize(25), uas, payer))

	parsed := &state.Asset{}
	loaded, err := FetchCoreData(acct.Data(), parsed)
	require.NoError(err)
	attached, err := loaded.Plugins(acct.Data())
	require.NoError(err)
	require.Len(attached, 3)

	rebuilt, rl := newAccount(t, parsed)
	for _, a := range attached {
		require.NoError(rl.AddPlugin(rebuilt, a.Plugin, a.Record.Authorities, payer))
	}
	require.Equal(acct.Data(), rebuilt.Data())
}

func TestLoadErrors(t *testing.T) {
	asset := newAsset("Bread")
	acct, l := newAccount(t, asset)
	require.NoError(t, l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer))
	headerOffset := asset.Size()

	tests := []struct {
		name        string
		corrupt     func(b []byte) []byte
		expectedErr error
	}{
		{
			name: "missing header",
			corrupt: func(b []byte) []byte {
				b[headerOffset] = byte(state.KeyAsset)
				return b
			},
			expectedErr: ErrMissingHeader,
		},
		{
			name: "registry offset past the end",
			corrupt: func(b []byte) []byte {
				b[headerOffset+1] = 0xff
				b[headerOffset+2] = 0xff
				return b
			},
			expectedErr: ErrRegistryOffset,
		},
		{
			name: "registry offset off by one",
			corrupt: func(b []byte) []byte {
				b[headerOffset+1]++
				return b
			},
			expectedErr: ErrRegistryOffset,
		},
		{
			name: "trailing bytes",
			corrupt: func(b []byte) []byte {
				return append(b, 0)
			},
			expectedErr: state.ErrTrailingBytes,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			corrupt := test.corrupt(append([]byte(nil), acct.Data()...))
			_, err := FetchCoreData(corrupt, &state.Asset{})
			require.ErrorIs(err, test.expectedErr)
			require.ErrorIs(err, coreerr.ErrLayout)
		})
	}
}

func TestCheckErrors(t *testing.T) {
	acct, l := newAccount(t, newAsset("Bread"))
	// the attribute value doubles as a packed Burn plugin
	attributes := plugins.New(&plugins.Attributes{List: []plugins.Attribute{{
		Key:   "k",
		Value: string([]byte{byte(plugins.TypeBurn)}),
	}}})
	require.NoError(t, l.AddPlugin(acct, attributes, uas, payer))
	require.NoError(t, l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer))
	require.NoError(t, l.AddPlugin(acct, plugins.New(&plugins.Delegate{}), owners, payer))
	require.NoError(t, l.Check(acct.Data()))

	tests := []struct {
		name        string
		corrupt     func(r *plugins.Registry)
		expectedErr error
	}{
		{
			name: "overlap",
			corrupt: func(r *plugins.Registry) {
				r.Records[1].Offset = r.Records[0].Offset + uint64(attributes.Size()) - 1
			},
			expectedErr: ErrOverlap,
		},
		{
			name: "type mismatch",
			corrupt: func(r *plugins.Registry) {
				r.Records[2].Offset = r.Records[0].Offset
			},
			expectedErr: ErrTypeMismatch,
		},
		{
			name: "outside plugin data",
			corrupt: func(r *plugins.Registry) {
				r.Records[0].Offset = 1
			},
			expectedErr: ErrOutOfRegion,
		},
		{
			name: "inside plugin header",
			corrupt: func(r *plugins.Registry) {
				r.Records[0].Offset = uint64(l.CoreSize)
			},
			expectedErr: ErrOutOfRegion,
		},
		{
			name: "at registry",
			corrupt: func(r *plugins.Registry) {
				r.Records[2].Offset = uint64(l.RegistryOffset())
			},
			expectedErr: ErrOutOfRegion,
		},
		{
			name: "duplicate type",
			corrupt: func(r *plugins.Registry) {
				r.Records[2].Type = plugins.TypeBurn
			},
			expectedErr: plugins.ErrDuplicateType,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			corrupt := &Layout{
				CoreSize: l.CoreSize,
				Header:   l.Header,
				Registry: l.Registry.Clone(),
			}
			test.corrupt(corrupt.Registry)
			require.ErrorIs(t, corrupt.Check(acct.Data()), test.expectedErr)
		})
	}
}

func TestHeaderPrecedesPluginData(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Delegate{}), owners, payer))

	data := acct.Data()
	require.Equal(state.KeyPluginHeader, state.PeekKey(data[l.CoreSize:]))
	require.Equal(uint64(l.CoreSize+plugins.HeaderSize), l.Registry.Records[0].Offset)
	require.Equal(state.KeyPluginRegistry, state.PeekKey(data[l.RegistryOffset():]))
	require.NoError(l.Check(data))
}

func TestShiftRegion(t *testing.T) {
	require := require.New(t)

	data := []byte{0, 1, 2, 3, 4, 5}
	require.NoError(ShiftRegion(data, 1, 2, 3))
	require.Equal([]byte{0, 1, 1, 2, 3, 5}, data)

	require.NoError(ShiftRegion(data, 2, 0, 3))
	require.Equal([]byte{1, 2, 3, 2, 3, 5}, data)

	require.ErrorIs(ShiftRegion(data, 4, 0, 3), errInvalidShift)
	require.ErrorIs(ShiftRegion(data, 0, -1, 1), errInvalidShift)
}

func TestResizeGuard(t *testing.T) {
	require := require.New(t)

	acct, l := newAccount(t, newAsset("Bread"))
	require.NoError(l.AddPlugin(acct, plugins.New(&plugins.Burn{}), owners, payer))
	err := l.Resize(acct, l.Len()-1, payer)
	require.ErrorIs(err, ErrTruncatesPlugins)
	require.NoError(l.Resize(acct, l.Len(), payer))
}

// TestRandomOperations applies a seeded sequence of mutations and checks the
// layout after every step.
func TestRandomOperations(t *testing.T) {
	require := require.New(t)

	rng := rand.New(rand.NewSource(1337))
	asset := newAsset("Bread")
	acct, l := newAccount(t, asset)

	randomPlugin := func() *plugins.Plugin {
		switch rng.Intn(5) {
		case 0:
			return plugins.New(&plugins.Freeze{Frozen: rng.Intn(2) == 0})
		case 1:
			return plugins.New(&plugins.Edition{Number: rng.Uint32()})
		case 2:
			return plugins.New(&plugins.Delegate{})
		case 3:
			return attributesOfSize(14 + rng.Intn(40))
		default:
			return plugins.New(&plugins.Royalties{
				BasisPoints: uint16(rng.Intn(10_001)),
				Creators:    []plugins.Creator{{Address: ids.ShortID{3}, Percentage: 100}},
			})
		}
	}

	expected := make(map[plugins.Type]*plugins.Plugin)
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			plugin := randomPlugin()
			err := l.AddPlugin(acct, plugin, uas, payer)
			if _, ok := expected[plugin.Type()]; ok {
				require.ErrorIs(err, plugins.ErrDuplicateType)
				break
			}
			require.NoError(err)
			expected[plugin.Type()] = plugin
		case 1:
			plugin := randomPlugin()
			err := l.ReplacePlugin(acct, plugin, payer)
			if _, ok := expected[plugin.Type()]; !ok {
				require.ErrorIs(err, plugins.ErrPluginNotFound)
				break
			}
			require.NoError(err)
			expected[plugin.Type()] = plugin
		case 2:
			plugin := randomPlugin()
			_, err := l.RemovePlugin(acct, plugin.Type(), payer)
			if _, ok := expected[plugin.Type()]; !ok {
				require.ErrorIs(err, plugins.ErrPluginNotFound)
				break
			}
			require.NoError(err)
			delete(expected, plugin.Type())
		default:
			asset.Name = strings.Repeat("b", rng.Intn(32))
			require.NoError(l.ResizeCore(acct, asset, payer))
		}

		loaded := requireValid(t, acct)
		require.Equal(l.Len(), len(acct.Data()))
		attached, err := loaded.Plugins(acct.Data())
		require.NoError(err)
		require.Len(attached, len(expected))
		for _, a := range attached {
			require.Equal(expected[a.Record.Type], a.Plugin)
		}
	}
}
