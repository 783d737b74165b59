// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/utils/wrappers"
)

// Record is a value with a deterministic encoding and a known packed size.
type Record interface {
	Size() int
	Pack(p *wrappers.Packer)
}

// Unpacker decodes itself from a packer.
type Unpacker interface {
	Unpack(p *wrappers.Packer)
}

// Marshal packs [r] into a new byte slice of exactly r.Size() bytes.
func Marshal(r Record) ([]byte, error) {
	size := r.Size()
	p := wrappers.NewWriter(size, math.MaxInt)
	r.Pack(p)
	if p.Err != nil {
		return nil, coreerr.Layout(p.Err)
	}
	if len(p.Bytes) != size {
		return nil, coreerr.ErrLayout
	}
	return p.Bytes, nil
}

// UnmarshalAt decodes [u] from [b] starting at [offset] and returns the
// offset of the first byte after it.
func UnmarshalAt(b []byte, offset int, u Unpacker) (int, error) {
	p := wrappers.NewReader(b, offset)
	u.Unpack(p)
	if p.Err != nil {
		return 0, coreerr.Layout(p.Err)
	}
	return p.Offset, nil
}

// Unmarshal decodes [u] from exactly [b].
func Unmarshal(b []byte, u Unpacker) error {
	end, err := UnmarshalAt(b, 0, u)
	if err != nil {
		return err
	}
	if end != len(b) {
		return ErrTrailingBytes
	}
	return nil
}
