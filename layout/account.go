// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/coreasset/components/coreerr"
)

var (
	ErrAccountTooLarge = fmt.Errorf("%w: account exceeds maximum size", coreerr.ErrLayout)
	ErrNegativeLength  = fmt.Errorf("%w: negative account length", coreerr.ErrLayout)

	_ Account = (*Buffer)(nil)
)

// Account is a resizable byte buffer owned by the host. Data returns the live
// buffer; writes into it are visible to the host.
type Account interface {
	Data() []byte
	// Resize sets the buffer length, zero filling any growth. [payer] funds
	// the additional storage.
	Resize(newLen int, payer ids.ShortID) error
}

// Buffer is an in-memory Account.
type Buffer struct {
	Bytes   []byte
	MaxSize int
}

// NewBuffer wraps [b]. A non-positive [maxSize] means unbounded.
func NewBuffer(b []byte, maxSize int) *Buffer {
	return &Buffer{
		Bytes:   b,
		MaxSize: maxSize,
	}
}

func (b *Buffer) Data() []byte {
	return b.Bytes
}

func (b *Buffer) Resize(newLen int, _ ids.ShortID) error {
	switch {
	case newLen < 0:
		return ErrNegativeLength
	case b.MaxSize > 0 && newLen > b.MaxSize:
		return fmt.Errorf("%w: %d > %d", ErrAccountTooLarge, newLen, b.MaxSize)
	case newLen <= len(b.Bytes):
		clear(b.Bytes[newLen:])
		b.Bytes = b.Bytes[:newLen]
	case newLen <= cap(b.Bytes):
		oldLen := len(b.Bytes)
		b.Bytes = b.Bytes[:newLen]
		clear(b.Bytes[oldLen:])
	default:
		grown := make([]byte, newLen)
		copy(grown, b.Bytes)
		b.Bytes = grown
	}
	return nil
}
