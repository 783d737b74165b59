// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"fmt"
	"slices"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/authority"
	"github.com/luxfi/coreasset/state"
)

// Event is a mutating lifecycle event that plugins may vote on.
type Event byte

const (
	EventAddPlugin Event = iota
	EventRemovePlugin
	EventApproveAuthority
	EventRevokeAuthority
	EventUpdate
	EventUpdatePlugin
	EventTransfer
	EventBurn
	EventCompress
	EventDecompress
)

var eventNames = [...]string{
	EventAddPlugin:        "add_plugin",
	EventRemovePlugin:     "remove_plugin",
	EventApproveAuthority: "approve_authority",
	EventRevokeAuthority:  "revoke_authority",
	EventUpdate:           "update",
	EventUpdatePlugin:     "update_plugin",
	EventTransfer:         "transfer",
	EventBurn:             "burn",
	EventCompress:         "compress",
	EventDecompress:       "decompress",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", byte(e))
}

// CheckResult is the static policy of a participant for an event.
type CheckResult byte

const (
	// CheckNone means the participant is never polled for the event.
	CheckNone CheckResult = iota
	CheckCanApprove
	CheckCanReject
)

// Polled reports whether a participant with this policy votes.
func (c CheckResult) Polled() bool {
	return c == CheckCanApprove || c == CheckCanReject
}

func (c CheckResult) String() string {
	switch c {
	case CheckNone:
		return "none"
	case CheckCanApprove:
		return "can_approve"
	case CheckCanReject:
		return "can_reject"
	default:
		return fmt.Sprintf("check(%d)", byte(c))
	}
}

// Vote is a participant's answer for one event.
type Vote byte

const (
	Abstain Vote = iota
	Approve
	Reject
)

func (v Vote) String() string {
	switch v {
	case Abstain:
		return "abstain"
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("vote(%d)", byte(v))
	}
}

// ValidationContext carries everything a plugin may consult when voting.
type ValidationContext struct {
	Actor ids.ShortID
	// Resolver evaluates authorities against the asset (or collection) being
	// acted on.
	Resolver *authority.Context
	// Self is the authority set of the voting plugin's registry record.
	Self []state.Authority
	// Target is the plugin the event concerns, if any.
	Target *Plugin
	// NewOwner is the destination of a transfer.
	NewOwner ids.ShortID
	// Revoked is the authority a revoke removes from the target.
	Revoked state.Authority
}

// TargetType returns the type of the targeted plugin.
func (c *ValidationContext) TargetType() (Type, bool) {
	if c.Target == nil {
		return 0, false
	}
	return c.Target.Type(), true
}

// targets reports whether the event concerns a plugin of type [t].
func (c *ValidationContext) targets(t Type) bool {
	got, ok := c.TargetType()
	return ok && got == t
}

// revokesSelf reports whether the actor is revoking the address authority
// that designates it on the voting plugin.
func (c *ValidationContext) revokesSelf() bool {
	return c.Revoked == state.AddressAuthority(c.Actor) && slices.Contains(c.Self, c.Revoked)
}

// hasSelfAuthority reports whether the actor holds any authority of the
// voting plugin.
func (c *ValidationContext) hasSelfAuthority() bool {
	return c.Resolver != nil && c.Resolver.HasAuthority(c.Actor, c.Self...)
}
