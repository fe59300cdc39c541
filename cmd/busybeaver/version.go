package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/busybeaver"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of busybeaver",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "busybeaver version %s\n", strings.TrimSpace(busybeaver.Version))
		},
	}
}
