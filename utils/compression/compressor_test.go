// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compression

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const maxSize = 1024

func TestTypeFromString(t *testing.T) {
	require := require.New(t)

	for _, typ := range []Type{TypeNone, TypeZstd} {
		got, err := TypeFromString(typ.String())
		require.NoError(err)
		require.Equal(typ, got)
	}

	_, err := TypeFromString("gzip")
	require.ErrorIs(err, ErrUnknownType)
}

func TestRoundTrip(t *testing.T) {
	msg := bytes.Repeat([]byte{1, 2, 3, 4}, maxSize/4)

	for _, typ := range []Type{TypeNone, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			c, err := New(typ, maxSize)
			require.NoError(t, err)

			compressed, err := c.Compress(msg)
			require.NoError(t, err)
			if typ == TypeZstd {
				require.Less(t, len(compressed), len(msg))
			}

			decompressed, err := c.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, msg, decompressed)

			_, err = c.Compress(make([]byte, maxSize+1))
			require.ErrorIs(t, err, ErrMsgTooLarge)
		})
	}
}

func TestZstdDecompressTooLarge(t *testing.T) {
	require := require.New(t)

	large, err := NewZstdCompressor(2 * maxSize)
	require.NoError(err)
	compressed, err := large.Compress(make([]byte, 2*maxSize))
	require.NoError(err)

	small, err := NewZstdCompressor(maxSize)
	require.NoError(err)
	_, err = small.Decompress(compressed)
	require.Error(err)
}

func TestInvalidMaxSize(t *testing.T) {
	for _, size := range []int64{0, -1, math.MaxInt64} {
		_, err := NewZstdCompressor(size)
		require.ErrorIs(t, err, ErrInvalidMaxSize)
	}
}
