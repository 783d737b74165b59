// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inspect

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/luxfi/crypto/address/formatting"
)

const DataKey = "data"

var errMissingData = errors.New("missing account data")

func AddFlags(flags *pflag.FlagSet) {
	flags.String(DataKey, "", "Hex encoded account buffer (required)")
}

type Config struct {
	Data []byte
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	dataStr, err := flags.GetString(DataKey)
	if err != nil {
		return nil, err
	}
	if dataStr == "" {
		return nil, errMissingData
	}

	data, err := formatting.Decode(formatting.Hex, dataStr)
	if err != nil {
		return nil, err
	}
	return &Config{
		Data: data,
	}, nil
}
