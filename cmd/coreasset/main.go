// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/version"

	"github.com/luxfi/coreasset/cmd/coreasset/check"
	"github.com/luxfi/coreasset/cmd/coreasset/inspect"
)

func main() {
	cmd := &cobra.Command{
		Use:          "coreasset",
		Short:        "Inspects and checks asset account buffers",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		inspect.Command(),
		check.Command(),
		versionCommand(),
	)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "coreasset: %s\n", err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		RunE: func(c *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(c.OutOrStdout(), "coreasset [node=%s]\n", version.Current)
			return err
		},
	}
}
