// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compression shrinks account buffers before they are written to
// disk.
package compression

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType          = errors.New("unknown compression type")
	ErrInvalidMaxSize       = errors.New("invalid compressor max size")
	ErrMsgTooLarge          = errors.New("msg too large to be compressed")
	ErrDecompressedTooLarge = errors.New("decompressed msg too large")
)

// Compressor compresses and decompresses buffers of at most a fixed size.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

type Type byte

const (
	TypeNone Type = iota
	TypeZstd
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", byte(t))
	}
}

func TypeFromString(s string) (Type, error) {
	switch s {
	case TypeNone.String():
		return TypeNone, nil
	case TypeZstd.String():
		return TypeZstd, nil
	default:
		return TypeNone, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// New returns a compressor of type [t] for buffers of at most [maxSize]
// bytes.
func New(t Type, maxSize int64) (Compressor, error) {
	switch t {
	case TypeNone:
		return &noCompressor{maxSize: maxSize}, nil
	case TypeZstd:
		return NewZstdCompressor(maxSize)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

type noCompressor struct {
	maxSize int64
}

func (n *noCompressor) Compress(msg []byte) ([]byte, error) {
	if int64(len(msg)) > n.maxSize {
		return nil, fmt.Errorf("%w: (%d) > (%d)", ErrMsgTooLarge, len(msg), n.maxSize)
	}
	return msg, nil
}

func (n *noCompressor) Decompress(msg []byte) ([]byte, error) {
	if int64(len(msg)) > n.maxSize {
		return nil, fmt.Errorf("%w: (%d) > (%d)", ErrDecompressedTooLarge, len(msg), n.maxSize)
	}
	return msg, nil
}
