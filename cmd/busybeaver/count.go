package main

import (
	"fmt"

	"github.com/aretw0/busybeaver/internal/cli"
	"github.com/spf13/cobra"
)

func newCountCmd(a *app) *cobra.Command {
	var space spaceFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the size of an enumeration without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			space.apply(cmd, &a.cfg.Search)
			e, err := cli.Space(a.cfg.Search)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cells:   %d\n", len(e.Cells()))
			fmt.Fprintf(out, "options: %d\n", e.Radix())
			fmt.Fprintf(out, "tables:  %s\n", e.Cardinality())
			return nil
		},
	}

	space.register(cmd.Flags())
	return cmd
}
