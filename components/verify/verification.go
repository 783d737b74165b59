// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verify

import (
	"fmt"

	"github.com/luxfi/math/set"
)

// Verifiable can be verified
type Verifiable interface {
	Verify() error
}

// All returns nil if all the verifiables were verified with no errors
func All[T Verifiable](verifiables ...T) error {
	for _, verifiable := range verifiables {
		if err := verifiable.Verify(); err != nil {
			return err
		}
	}
	return nil
}

// Unique returns [err], annotated with the offending key, if two of [items]
// share a key.
func Unique[E any, K comparable](items []E, key func(E) K, err error) error {
	seen := set.NewSet[K](len(items))
	for _, item := range items {
		k := key(item)
		if seen.Contains(k) {
			return fmt.Errorf("%w: %v", err, k)
		}
		seen.Add(k)
	}
	return nil
}
