// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package check

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/coreasset/cmd/coreasset/inspect"
	"github.com/luxfi/coreasset/config"
)

const ConfigKey = "config"

func AddFlags(flags *pflag.FlagSet) {
	inspect.AddFlags(flags)
	flags.String(ConfigKey, "", "JSON encoded limits, merged over the defaults")
}

type Config struct {
	Data   []byte
	Limits *config.Config
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	data, err := inspect.ParseFlags(flags, args)
	if err != nil {
		return nil, err
	}

	configStr, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}
	limits, err := config.GetConfig([]byte(configStr))
	if err != nil {
		return nil, err
	}
	return &Config{
		Data:   data.Data,
		Limits: limits,
	}, nil
}
