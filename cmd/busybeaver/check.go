package main

import (
	"fmt"

	"github.com/aretw0/busybeaver/internal/validator"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <machine|file>",
		Short: "Report unreachable states and missing transitions",
		Long: `Walks the transition graph from the start state. Missing transitions on
reachable states and unreachable states are reported; a machine with no
reachable final state can never halt. Exits non-zero when anything is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := catalog.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := validator.Error(validator.Check(entry.New())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", entry.Name)
			return nil
		},
	}
}
