package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/busybeaver"
	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/internal/presentation/tui"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		steps  int
		trace  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run <machine|file>",
		Short: "Run a catalog machine or a machine file under a step budget",
		Example: `  busybeaver run bb3
  busybeaver run ./machines/bb2.yaml --steps 10 --trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := catalog.Resolve(args[0])
			if err != nil {
				return err
			}

			eng := busybeaver.New(busybeaver.WithLogger(a.logger))
			out := cmd.OutOrStdout()
			profile := profileOf(out)
			m := entry.New()

			if trace {
				if err := traceRun(out, eng, m, steps, profile); err != nil {
					return err
				}
			}

			res, err := eng.Run(cmd.Context(), m, steps)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(dto.FromRecord(domain.Record{Result: res}))
			}

			fmt.Fprintf(out, "machine:   %s\n", entry.Name)
			fmt.Fprintf(out, "outcome:   %s\n", res.Outcome)
			fmt.Fprintf(out, "state:     %s\n", res.Machine.State)
			fmt.Fprintf(out, "steps:     %d\n", res.Steps)
			fmt.Fprintf(out, "remaining: %d\n", res.Remaining)
			fmt.Fprintf(out, "non-blank: %d\n", res.Machine.Tape.NonBlank())
			fmt.Fprintf(out, "tape:      %s\n", tui.RenderTape(res.Machine.Tape, profile))
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 100, "step budget")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every configuration before the summary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// traceRun prints one line per configuration, starting with m itself.
func traceRun(w io.Writer, eng *busybeaver.Engine, m domain.Machine, budget int, profile termenv.Profile) error {
	for i := 0; ; i++ {
		fmt.Fprintf(w, "%6d  %-8s %s\n", i, m.State, tui.RenderTape(m.Tape, profile))
		if i == budget {
			return nil
		}
		next, ok, err := eng.Step(m)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		m = next
	}
}
