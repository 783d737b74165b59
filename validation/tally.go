// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validation

import (
	"fmt"

	"github.com/luxfi/coreasset/plugins"
)

// Outcome is the terminal state of one validation.
type Outcome byte

const (
	// Denied means nobody approved. Access is denied by default.
	Denied Outcome = iota
	Approved
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Denied:
		return "denied"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", byte(o))
	}
}

// Accumulator folds votes one at a time.
type Accumulator struct {
	outcome Outcome
}

// Add folds [vote] and reports whether more votes can change the outcome.
func (a *Accumulator) Add(vote plugins.Vote) bool {
	switch {
	case a.outcome == Rejected:
		return false
	case vote == plugins.Reject:
		a.outcome = Rejected
		return false
	case vote == plugins.Approve:
		a.outcome = Approved
	}
	return true
}

func (a *Accumulator) Outcome() Outcome {
	return a.outcome
}

// Tally folds [votes] in order. The first rejection is final; otherwise a
// single approval authorizes.
func Tally(votes ...plugins.Vote) Outcome {
	var acc Accumulator
	for _, vote := range votes {
		if !acc.Add(vote) {
			break
		}
	}
	return acc.Outcome()
}
