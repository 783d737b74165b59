// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validation

import (
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
)

// Entity selects which core policy table applies.
type Entity byte

const (
	EntityAsset Entity = iota
	EntityCollection
)

func (e Entity) String() string {
	if e == EntityCollection {
		return "collection"
	}
	return "asset"
}

// CoreCheck returns the static policy of the core entity for [ev].
func CoreCheck(e Entity, ev plugins.Event) plugins.CheckResult {
	switch ev {
	case plugins.EventAddPlugin,
		plugins.EventRemovePlugin,
		plugins.EventApproveAuthority,
		plugins.EventRevokeAuthority,
		plugins.EventUpdatePlugin,
		plugins.EventUpdate,
		plugins.EventBurn:
		return plugins.CheckCanApprove
	case plugins.EventTransfer, plugins.EventCompress, plugins.EventDecompress:
		if e == EntityAsset {
			return plugins.CheckCanApprove
		}
	}
	return plugins.CheckNone
}

// Manager returns the authority that manages plugins of type [t] on [e].
// Collections have no holder, so their plugins are all managed by the
// update authority.
func Manager(e Entity, t plugins.Type) state.Authority {
	if e == EntityCollection {
		return state.Authority{Kind: state.KindUpdateAuthority}
	}
	return t.Manager()
}

// coreVote is the core entity's own answer for [req]. Failing a check the
// core can only approve is reported as an abstention.
func coreVote(req *Request) plugins.Vote {
	check := CoreCheck(req.Entity, req.Event)
	if !check.Polled() {
		return plugins.Abstain
	}

	var required []state.Authority
	switch req.Event {
	case plugins.EventAddPlugin:
		if req.Target == nil {
			return plugins.Abstain
		}
		required = []state.Authority{Manager(req.Entity, req.Target.Type())}
	case plugins.EventRemovePlugin, plugins.EventUpdatePlugin:
		required = req.TargetAuthorities
	case plugins.EventApproveAuthority, plugins.EventRevokeAuthority:
		if req.Target == nil {
			return plugins.Abstain
		}
		required = []state.Authority{Manager(req.Entity, req.Target.Type())}
	case plugins.EventUpdate:
		required = []state.Authority{{Kind: state.KindUpdateAuthority}}
	case plugins.EventBurn:
		if req.Entity == EntityCollection {
			required = []state.Authority{{Kind: state.KindUpdateAuthority}}
		} else {
			required = []state.Authority{{Kind: state.KindOwner}}
		}
	case plugins.EventTransfer, plugins.EventCompress, plugins.EventDecompress:
		required = []state.Authority{{Kind: state.KindOwner}}
	}

	if req.Resolver.HasAuthority(req.Actor, required...) {
		return plugins.Approve
	}
	if check == plugins.CheckCanReject {
		return plugins.Reject
	}
	return plugins.Abstain
}
