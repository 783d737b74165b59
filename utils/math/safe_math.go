// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"errors"
	"math"
)

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	ErrOverflow  = errors.New("overflow")
	ErrUnderflow = errors.New("underflow")
	ErrNegative  = errors.New("negative offset")
)

// MaxUint returns the maximum value of an unsigned integer of type T.
func MaxUint[T Unsigned]() T {
	return ^T(0)
}

// Add returns:
// 1) a + b
// 2) If there is overflow, an error
func Add[T Unsigned](a, b T) (T, error) {
	if a > MaxUint[T]()-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Sub returns:
// 1) a - b
// 2) If there is underflow, an error
func Sub[T Unsigned](a, b T) (T, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Mul returns:
// 1) a * b
// 2) If there is overflow, an error
func Mul[T Unsigned](a, b T) (T, error) {
	if b != 0 && a > MaxUint[T]()/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

func AbsDiff[T Unsigned](a, b T) T {
	return max(a, b) - min(a, b)
}

// AddInt returns a + b for signed ints, or an error instead of wrapping.
func AddInt(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// SubInt returns a - b for signed ints, or an error instead of wrapping.
func SubInt(a, b int) (int, error) {
	if (b < 0 && a > math.MaxInt+b) || (b > 0 && a < math.MinInt+b) {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// Shift moves the non-negative position [pos] by the signed [delta]. The result
// must stay non-negative.
func Shift(pos, delta int) (int, error) {
	if pos < 0 {
		return 0, ErrNegative
	}
	out, err := AddInt(pos, delta)
	if err != nil {
		return 0, err
	}
	if out < 0 {
		return 0, ErrNegative
	}
	return out, nil
}

// Offset converts an on-account u64 offset into an int position.
func Offset(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, ErrOverflow
	}
	return int(v), nil
}
