// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"bytes"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/layout"
	"github.com/luxfi/coreasset/utils/math"
)

var (
	ErrMissingPayer = fmt.Errorf("%w: growing an account requires a payer", coreerr.ErrAuthority)

	_ layout.Account = (*Account)(nil)
)

// Meta is stored next to every non-empty account.
type Meta struct {
	// Payer funded the account's most recent growth.
	Payer ids.ShortID `serialize:"true"`
	// Deposit is the rent held for the account's current length.
	Deposit uint64 `serialize:"true"`
}

// Account is a staged copy of one account buffer. Changes become visible to
// other transactions only when the owning Tx commits.
type Account struct {
	Address ids.ShortID
	Meta    Meta

	data         []byte
	original     []byte
	originalMeta Meta
	maxSize      int
	rentPerByte  uint64
}

func (a *Account) Data() []byte {
	return a.data
}

// Exists reports whether the account holds any data.
func (a *Account) Exists() bool {
	return len(a.data) > 0
}

func (a *Account) Resize(newLen int, payer ids.ShortID) error {
	switch {
	case newLen < 0:
		return layout.ErrNegativeLength
	case newLen > a.maxSize:
		return fmt.Errorf("%w: %s needs %d bytes, max %d", layout.ErrAccountTooLarge, a.Address, newLen, a.maxSize)
	case newLen > len(a.data) && payer == ids.ShortEmpty:
		return ErrMissingPayer
	}

	deposit, err := math.Mul(uint64(newLen), a.rentPerByte)
	if err != nil {
		return coreerr.Layout(err)
	}
	if newLen > len(a.data) {
		a.Meta.Payer = payer
	}
	a.Meta.Deposit = deposit

	if newLen <= len(a.data) {
		a.data = a.data[:newLen]
	} else {
		grown := make([]byte, newLen)
		copy(grown, a.data)
		a.data = grown
	}
	return nil
}

func (a *Account) modified() bool {
	return a.Meta != a.originalMeta || !bytes.Equal(a.data, a.original)
}
