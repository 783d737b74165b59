// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/authority"
	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
)

var (
	owner        = ids.GenerateTestShortID()
	updater      = ids.GenerateTestShortID()
	collectionUA = ids.GenerateTestShortID()
	delegate     = ids.GenerateTestShortID()
	coDelegate   = ids.GenerateTestShortID()
	stranger     = ids.GenerateTestShortID()
	collectionID = ids.GenerateTestShortID()

	ownerOnly    = []state.Authority{{Kind: state.KindOwner}}
	uaOnly       = []state.Authority{{Kind: state.KindUpdateAuthority}}
	delegateOnly = []state.Authority{state.AddressAuthority(delegate)}

	sharedAttributes = []state.Authority{
		{Kind: state.KindUpdateAuthority},
		state.AddressAuthority(delegate),
		state.AddressAuthority(coDelegate),
	}
)

func assetContext() *authority.Context {
	return &authority.Context{
		Asset: &state.Asset{
			Owner: owner,
			UpdateAuthority: state.UpdateAuthority{
				Kind:    state.UpdateAddress,
				Address: updater,
			},
		},
	}
}

func collectionAssetContext() *authority.Context {
	return &authority.Context{
		Asset: &state.Asset{
			Owner: owner,
			UpdateAuthority: state.UpdateAuthority{
				Kind:    state.UpdateCollection,
				Address: collectionID,
			},
		},
		Collection:        &state.Collection{UpdateAuthority: collectionUA},
		CollectionAddress: collectionID,
	}
}

func attached(payload plugins.Payload, authorities []state.Authority) layout.Attached {
	plugin := plugins.New(payload)
	return layout.Attached{
		Plugin: plugin,
		Record: plugins.RegistryRecord{
			Type:        plugin.Type(),
			Authorities: authorities,
		},
	}
}

func TestTally(t *testing.T) {
	tests := []struct {
		name     string
		votes    []plugins.Vote
		expected Outcome
	}{
		{
			name:     "no votes",
			expected: Denied,
		},
		{
			name:     "all abstain",
			votes:    []plugins.Vote{plugins.Abstain, plugins.Abstain},
			expected: Denied,
		},
		{
			name:     "one approval",
			votes:    []plugins.Vote{plugins.Abstain, plugins.Approve},
			expected: Approved,
		},
		{
			name:     "rejection beats earlier approvals",
			votes:    []plugins.Vote{plugins.Approve, plugins.Approve, plugins.Reject},
			expected: Rejected,
		},
		{
			name:     "rejection beats later approvals",
			votes:    []plugins.Vote{plugins.Reject, plugins.Approve},
			expected: Rejected,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Tally(test.votes...))
		})
	}
}

func TestAccumulatorShortCircuits(t *testing.T) {
	require := require.New(t)

	var acc Accumulator
	require.True(acc.Add(plugins.Approve))
	require.False(acc.Add(plugins.Reject))
	require.False(acc.Add(plugins.Approve))
	require.Equal(Rejected, acc.Outcome())
}

func TestUpdateWithoutPlugins(t *testing.T) {
	tests := []struct {
		name        string
		actor       ids.ShortID
		expectedErr error
	}{
		{
			name:  "update authority",
			actor: updater,
		},
		{
			name:        "owner is not the update authority",
			actor:       owner,
			expectedErr: ErrDenied,
		},
		{
			name:        "random address",
			actor:       stranger,
			expectedErr: ErrDenied,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			decision := Decide(&Request{
				Event:    plugins.EventUpdate,
				Actor:    test.actor,
				Resolver: assetContext(),
			})
			err := decision.Err(plugins.EventUpdate)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				require.Equal(Denied, decision.Outcome)
				require.ErrorIs(err, coreerr.ErrAuthority)
			} else {
				require.Equal(Approved, decision.Outcome)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		req         *Request
		expected    Outcome
		expectedBy  string
		expectedErr error
	}{
		{
			name: "no plugins and no core policy",
			req: &Request{
				Event:    plugins.EventTransfer,
				Entity:   EntityCollection,
				Actor:    collectionUA,
				Resolver: &authority.Context{Collection: &state.Collection{UpdateAuthority: collectionUA}},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "frozen plugin rejects the owner",
			req: &Request{
				Event:        plugins.EventTransfer,
				Actor:        owner,
				Resolver:     assetContext(),
				AssetPlugins: []layout.Attached{attached(&plugins.Freeze{Frozen: true}, ownerOnly)},
			},
			expected:    Rejected,
			expectedBy:  "freeze",
			expectedErr: ErrRejected,
		},
		{
			name: "rejection beats a delegate approval",
			req: &Request{
				Event:    plugins.EventTransfer,
				Actor:    delegate,
				Resolver: assetContext(),
				AssetPlugins: []layout.Attached{
					attached(&plugins.Transfer{}, delegateOnly),
					attached(&plugins.Delegate{Frozen: true}, delegateOnly),
				},
			},
			expected:    Rejected,
			expectedBy:  "delegate",
			expectedErr: ErrRejected,
		},
		{
			name: "transfer delegate approves",
			req: &Request{
				Event:        plugins.EventTransfer,
				Actor:        delegate,
				Resolver:     assetContext(),
				AssetPlugins: []layout.Attached{attached(&plugins.Transfer{}, delegateOnly)},
			},
			expected:   Approved,
			expectedBy: "transfer",
		},
		{
			name: "asset plugin overrides a rejecting collection plugin",
			req: &Request{
				Event:             plugins.EventTransfer,
				Actor:             owner,
				Resolver:          collectionAssetContext(),
				CollectionPlugins: []layout.Attached{attached(&plugins.Freeze{Frozen: true}, uaOnly)},
				AssetPlugins:      []layout.Attached{attached(&plugins.Freeze{}, ownerOnly)},
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "asset plugin overrides an approving collection plugin",
			req: &Request{
				Event:             plugins.EventBurn,
				Actor:             delegate,
				Resolver:          collectionAssetContext(),
				CollectionPlugins: []layout.Attached{attached(&plugins.Burn{}, delegateOnly)},
				AssetPlugins:      []layout.Attached{attached(&plugins.Burn{}, ownerOnly)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "collection plugin applies without an asset override",
			req: &Request{
				Event:             plugins.EventBurn,
				Actor:             owner,
				Resolver:          collectionAssetContext(),
				CollectionPlugins: []layout.Attached{attached(&plugins.PermanentFreeze{Frozen: true}, uaOnly)},
			},
			expected:    Rejected,
			expectedBy:  "collection permanent_freeze",
			expectedErr: ErrRejected,
		},
		{
			name: "update authority resolves through the collection",
			req: &Request{
				Event:    plugins.EventUpdate,
				Actor:    collectionUA,
				Resolver: collectionAssetContext(),
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "edition removal rejected for the update authority",
			req: &Request{
				Event:             plugins.EventRemovePlugin,
				Actor:             updater,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Edition{Number: 1}),
				TargetAuthorities: uaOnly,
				AssetPlugins:      []layout.Attached{attached(&plugins.Edition{Number: 1}, uaOnly)},
			},
			expected:    Rejected,
			expectedBy:  "edition",
			expectedErr: ErrRejected,
		},
		{
			name: "new edition vetoes its own attachment",
			req: &Request{
				Event:             plugins.EventAddPlugin,
				Actor:             updater,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Edition{Number: 2}),
				TargetAuthorities: uaOnly,
			},
			expected:    Rejected,
			expectedBy:  "new edition",
			expectedErr: ErrRejected,
		},
		{
			name: "new update delegate cannot authorize itself",
			req: &Request{
				Event:             plugins.EventAddPlugin,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.UpdateDelegate{}),
				TargetAuthorities: delegateOnly,
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "owner adds an owner managed plugin",
			req: &Request{
				Event:             plugins.EventAddPlugin,
				Actor:             owner,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Freeze{}),
				TargetAuthorities: ownerOnly,
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "update delegate adds an update authority managed plugin",
			req: &Request{
				Event:             plugins.EventAddPlugin,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Attributes{}),
				TargetAuthorities: uaOnly,
				AssetPlugins:      []layout.Attached{attached(&plugins.UpdateDelegate{}, delegateOnly)},
			},
			expected:   Approved,
			expectedBy: "update_delegate",
		},
		{
			name: "delegate revokes its own authority",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Freeze{}),
				TargetAuthorities: delegateOnly,
				Revoked:           state.AddressAuthority(delegate),
				AssetPlugins: []layout.Attached{
					attached(&plugins.Freeze{}, delegateOnly),
					attached(&plugins.Burn{}, delegateOnly),
				},
			},
			expected:   Approved,
			expectedBy: "freeze",
		},
		{
			name: "owner revokes a delegated owner managed plugin",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             owner,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Freeze{}),
				TargetAuthorities: delegateOnly,
				Revoked:           state.AddressAuthority(delegate),
				AssetPlugins:      []layout.Attached{attached(&plugins.Freeze{}, delegateOnly)},
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "stranger cannot revoke",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             stranger,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Freeze{}),
				TargetAuthorities: delegateOnly,
				Revoked:           state.AddressAuthority(delegate),
				AssetPlugins:      []layout.Attached{attached(&plugins.Freeze{}, delegateOnly)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "delegate cannot revoke another delegate",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Attributes{}),
				TargetAuthorities: sharedAttributes,
				Revoked:           state.AddressAuthority(coDelegate),
				AssetPlugins:      []layout.Attached{attached(&plugins.Attributes{}, sharedAttributes)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "delegate cannot revoke the update authority",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Attributes{}),
				TargetAuthorities: sharedAttributes,
				Revoked:           state.Authority{Kind: state.KindUpdateAuthority},
				AssetPlugins:      []layout.Attached{attached(&plugins.Attributes{}, sharedAttributes)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "update authority revokes a delegate",
			req: &Request{
				Event:             plugins.EventRevokeAuthority,
				Actor:             updater,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Attributes{}),
				TargetAuthorities: sharedAttributes,
				Revoked:           state.AddressAuthority(coDelegate),
				AssetPlugins:      []layout.Attached{attached(&plugins.Attributes{}, sharedAttributes)},
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "delegate cannot approve another delegate",
			req: &Request{
				Event:             plugins.EventApproveAuthority,
				Actor:             delegate,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Delegate{}),
				TargetAuthorities: delegateOnly,
				AssetPlugins:      []layout.Attached{attached(&plugins.Delegate{}, delegateOnly)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "owner approves a delegate",
			req: &Request{
				Event:             plugins.EventApproveAuthority,
				Actor:             owner,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Delegate{}),
				TargetAuthorities: delegateOnly,
				AssetPlugins:      []layout.Attached{attached(&plugins.Delegate{}, delegateOnly)},
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "owner cannot update a delegated plugin",
			req: &Request{
				Event:             plugins.EventUpdatePlugin,
				Actor:             owner,
				Resolver:          assetContext(),
				Target:            plugins.New(&plugins.Freeze{Frozen: true}),
				TargetAuthorities: delegateOnly,
				AssetPlugins:      []layout.Attached{attached(&plugins.Freeze{}, delegateOnly)},
			},
			expected:    Denied,
			expectedErr: ErrDenied,
		},
		{
			name: "collection update authority updates the collection",
			req: &Request{
				Event:    plugins.EventUpdate,
				Entity:   EntityCollection,
				Actor:    collectionUA,
				Resolver: &authority.Context{Collection: &state.Collection{UpdateAuthority: collectionUA}},
			},
			expected:   Approved,
			expectedBy: coreParticipant,
		},
		{
			name: "royalties deny list rejects the recipient",
			req: &Request{
				Event:    plugins.EventTransfer,
				Actor:    owner,
				Resolver: assetContext(),
				NewOwner: stranger,
				AssetPlugins: []layout.Attached{attached(&plugins.Royalties{
					RuleSet: plugins.RuleSet{
						Kind:      plugins.RuleSetDenyList,
						Addresses: []ids.ShortID{stranger},
					},
				}, uaOnly)},
			},
			expected:    Rejected,
			expectedBy:  "royalties",
			expectedErr: ErrRejected,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			decision := Decide(test.req)
			require.Equal(test.expected, decision.Outcome)
			require.Equal(test.expectedBy, decision.By)
			require.ErrorIs(Validate(test.req), test.expectedErr)
		})
	}
}

func TestCoreCheck(t *testing.T) {
	require := require.New(t)

	require.Equal(plugins.CheckCanApprove, CoreCheck(EntityAsset, plugins.EventTransfer))
	require.Equal(plugins.CheckNone, CoreCheck(EntityCollection, plugins.EventTransfer))
	require.Equal(plugins.CheckCanApprove, CoreCheck(EntityCollection, plugins.EventBurn))
	require.Equal(state.KindUpdateAuthority, Manager(EntityCollection, plugins.TypeFreeze).Kind)
	require.Equal(state.KindOwner, Manager(EntityAsset, plugins.TypeFreeze).Kind)
}
