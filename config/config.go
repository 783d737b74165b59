// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luxfi/constants"

	"github.com/luxfi/coreasset/utils/compression"
)

var (
	errNonPositiveLimit = errors.New("limit must be positive")

	DefaultConfig = Config{
		MaxNameLen:       32,
		MaxURILen:        200,
		MaxPlugins:       16,
		MaxAuthorities:   8,
		MaxAccountSize:   10 * constants.KiB,
		AccountCacheSize: 1024,
		RentPerByte:      6960,
		Compression:      compression.TypeZstd.String(),
	}
)

// Config bounds what a single asset account may hold.
type Config struct {
	MaxNameLen       int    `json:"max-name-len"`
	MaxURILen        int    `json:"max-uri-len"`
	MaxPlugins       int    `json:"max-plugins"`
	MaxAuthorities   int    `json:"max-authorities"`
	MaxAccountSize   int    `json:"max-account-size"`
	AccountCacheSize int    `json:"account-cache-size"`
	RentPerByte      uint64 `json:"rent-per-byte"`
	// Compression applied to account bytes at rest: "none" or "zstd".
	Compression string `json:"compression"`
}

// GetConfig returns a Config
// input is unmarshalled into a Config previously
// initialized with default values
func GetConfig(b []byte) (*Config, error) {
	c := DefaultConfig

	// if bytes are empty keep default values
	if len(b) == 0 {
		return &c, nil
	}

	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, c.Verify()
}

func (c *Config) Verify() error {
	for _, limit := range []struct {
		name  string
		value int
	}{
		{"max-name-len", c.MaxNameLen},
		{"max-uri-len", c.MaxURILen},
		{"max-plugins", c.MaxPlugins},
		{"max-authorities", c.MaxAuthorities},
		{"max-account-size", c.MaxAccountSize},
		{"account-cache-size", c.AccountCacheSize},
	} {
		if limit.value <= 0 {
			return fmt.Errorf("%w: %s = %d", errNonPositiveLimit, limit.name, limit.value)
		}
	}
	_, err := c.CompressionType()
	return err
}

func (c *Config) CompressionType() (compression.Type, error) {
	return compression.TypeFromString(c.Compression)
}
