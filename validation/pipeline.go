// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validation polls the core entity and every attached plugin for a
// lifecycle event and reduces their votes to a single decision.
package validation

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	"github.com/luxfi/coreasset/authority"
	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/plugins"
	"github.com/luxfi/coreasset/state"
)

const coreParticipant = "core"

var (
	ErrRejected = fmt.Errorf("%w: rejected", coreerr.ErrAuthority)
	ErrDenied   = fmt.Errorf("%w: no participant approved", coreerr.ErrAuthority)
)

// Request describes one lifecycle event to validate.
type Request struct {
	Event  plugins.Event
	Entity Entity
	Actor  ids.ShortID
	// Resolver is the entity the event acts on. For asset events it also
	// carries the asset's collection, if any.
	Resolver *authority.Context
	// Target is the plugin the event concerns. On add it is the plugin
	// being attached; otherwise the attached plugin.
	Target *plugins.Plugin
	// TargetAuthorities is the target's registry authority set, or the
	// authorities it will be attached with.
	TargetAuthorities []state.Authority
	NewOwner          ids.ShortID
	// Revoked is the authority a revoke removes from the target.
	Revoked state.Authority

	AssetPlugins      []layout.Attached
	CollectionPlugins []layout.Attached
}

// Decision is the result of a validation.
type Decision struct {
	Outcome Outcome
	// By names the participant that rejected, or the last one that
	// approved.
	By string
}

// Err converts the decision into the error returned to the caller.
func (d Decision) Err(ev plugins.Event) error {
	switch d.Outcome {
	case Approved:
		return nil
	case Rejected:
		return fmt.Errorf("%w: %s by %s", ErrRejected, ev, d.By)
	default:
		return fmt.Errorf("%w: %s", ErrDenied, ev)
	}
}

// Validate polls the core entity, then collection plugins, then asset
// plugins. An asset plugin replaces a collection plugin of the same type.
func Validate(req *Request) error {
	return Decide(req).Err(req.Event)
}

// Decide runs the vote and stops at the first rejection.
func Decide(req *Request) Decision {
	var (
		acc      Accumulator
		decision Decision
	)
	record := func(by string, vote plugins.Vote) bool {
		more := acc.Add(vote)
		if vote != plugins.Abstain {
			decision.By = by
		}
		return more
	}

	if !record(coreParticipant, coreVote(req)) {
		return finish(decision, &acc)
	}

	overridden := set.NewSet[plugins.Type](len(req.AssetPlugins))
	for _, a := range req.AssetPlugins {
		overridden.Add(a.Record.Type)
	}
	for _, a := range req.CollectionPlugins {
		if overridden.Contains(a.Record.Type) {
			continue
		}
		if !record("collection "+a.Record.Type.String(), pluginVote(req, a)) {
			return finish(decision, &acc)
		}
	}
	for _, a := range req.AssetPlugins {
		if !record(a.Record.Type.String(), pluginVote(req, a)) {
			return finish(decision, &acc)
		}
	}

	// A plugin that is being attached may veto its own attachment but can
	// never authorize it.
	if req.Event == plugins.EventAddPlugin && req.Target != nil {
		target := layout.Attached{
			Plugin: req.Target,
			Record: plugins.RegistryRecord{
				Type:        req.Target.Type(),
				Authorities: req.TargetAuthorities,
			},
		}
		if vote := pluginVote(req, target); vote == plugins.Reject {
			record("new "+target.Record.Type.String(), vote)
		}
	}
	return finish(decision, &acc)
}

func finish(decision Decision, acc *Accumulator) Decision {
	decision.Outcome = acc.Outcome()
	return decision
}

func pluginVote(req *Request, a layout.Attached) plugins.Vote {
	if !a.Record.Type.Check(req.Event).Polled() {
		return plugins.Abstain
	}
	return a.Plugin.Validate(req.Event, &plugins.ValidationContext{
		Actor:    req.Actor,
		Resolver: req.Resolver,
		Self:     a.Record.Authorities,
		Target:   req.Target,
		NewOwner: req.NewOwner,
		Revoked:  req.Revoked,
	})
}
