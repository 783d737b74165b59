// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugins

import (
	"fmt"

	"github.com/luxfi/coreasset/state"
)

// Type tags a plugin variant. At most one plugin of each type may be attached
// to an entity.
type Type byte

const (
	TypeRoyalties Type = iota
	TypeFreeze
	TypeBurn
	TypeTransfer
	TypeUpdateDelegate
	TypePermanentFreeze
	TypeAttributes
	TypeEdition
	TypeDelegate

	numTypes
)

var typeNames = [...]string{
	TypeRoyalties:       "royalties",
	TypeFreeze:          "freeze",
	TypeBurn:            "burn",
	TypeTransfer:        "transfer",
	TypeUpdateDelegate:  "update_delegate",
	TypePermanentFreeze: "permanent_freeze",
	TypeAttributes:      "attributes",
	TypeEdition:         "edition",
	TypeDelegate:        "delegate",
}

func (t Type) Valid() bool {
	return t < numTypes
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", byte(t))
}

// TypeFromString parses the name returned by Type.String.
func TypeFromString(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Manager returns the authority that manages a plugin of this type when no
// other authority was given: the holder for owner-managed plugins and the
// update authority for the rest.
func (t Type) Manager() state.Authority {
	switch t {
	case TypeFreeze, TypeBurn, TypeTransfer, TypeDelegate:
		return state.Authority{Kind: state.KindOwner}
	default:
		return state.Authority{Kind: state.KindUpdateAuthority}
	}
}

// OwnerManaged reports whether the holder manages plugins of this type. Their
// authorities are reset when the asset changes hands.
func (t Type) OwnerManaged() bool {
	return t.Manager().Kind == state.KindOwner
}

// Check returns the static policy of a plugin of this type for [ev].
func (t Type) Check(ev Event) CheckResult {
	if ev == EventRevokeAuthority {
		// Every plugin may approve revoking its own delegated authority.
		return CheckCanApprove
	}

	switch t {
	case TypeRoyalties:
		if ev == EventTransfer {
			return CheckCanReject
		}
	case TypeFreeze:
		switch ev {
		case EventRemovePlugin, EventTransfer, EventBurn, EventCompress:
			return CheckCanReject
		}
	case TypeBurn:
		if ev == EventBurn {
			return CheckCanApprove
		}
	case TypeTransfer:
		if ev == EventTransfer {
			return CheckCanApprove
		}
	case TypeUpdateDelegate:
		switch ev {
		case EventAddPlugin, EventRemovePlugin, EventUpdate, EventUpdatePlugin:
			return CheckCanApprove
		}
	case TypePermanentFreeze:
		switch ev {
		case EventAddPlugin, EventRemovePlugin, EventTransfer, EventBurn, EventCompress:
			return CheckCanReject
		}
	case TypeEdition:
		switch ev {
		case EventAddPlugin, EventRemovePlugin:
			return CheckCanReject
		}
	case TypeDelegate:
		switch ev {
		case EventTransfer, EventBurn, EventCompress:
			return CheckCanReject
		}
	}
	return CheckNone
}
