// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package check

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/coreasset/cmd/coreasset/inspect"
	"github.com/luxfi/coreasset/config"
	"github.com/luxfi/coreasset/layout"
)

var (
	ErrAccountTooLarge    = fmt.Errorf("%w: over the configured limit", layout.ErrAccountTooLarge)
	ErrNameTooLong        = errors.New("name too long")
	ErrURITooLong         = errors.New("uri too long")
	ErrTooManyPlugins     = errors.New("too many plugins")
	ErrTooManyAuthorities = errors.New("too many plugin authorities")
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Verifies an account buffer against the configured limits",
		RunE:  checkFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func checkFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	report, err := Check(config.Data, config.Limits)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.OutOrStdout(), "ok: %s, %d bytes, %d plugins\n", report.Key, report.Len, len(report.Plugins))
	return err
}

// Check decodes [data] and verifies it stays within [limits].
func Check(data []byte, limits *config.Config) (*inspect.Report, error) {
	report, err := inspect.Decode(data)
	if err != nil {
		return nil, err
	}
	switch {
	case report.Len > limits.MaxAccountSize:
		return nil, fmt.Errorf("%w: %d > %d", ErrAccountTooLarge, report.Len, limits.MaxAccountSize)
	case len(report.Name) > limits.MaxNameLen:
		return nil, fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(report.Name), limits.MaxNameLen)
	case len(report.URI) > limits.MaxURILen:
		return nil, fmt.Errorf("%w: %d > %d", ErrURITooLong, len(report.URI), limits.MaxURILen)
	case len(report.Plugins) > limits.MaxPlugins:
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPlugins, len(report.Plugins), limits.MaxPlugins)
	}
	for _, p := range report.Plugins {
		if len(p.Authorities) > limits.MaxAuthorities {
			return nil, fmt.Errorf("%w: %s has %d", ErrTooManyAuthorities, p.Type, len(p.Authorities))
		}
	}
	return report, nil
}
