package main

import (
	"fmt"

	"github.com/aretw0/busybeaver"
	"github.com/aretw0/busybeaver/internal/cli"
	"github.com/aretw0/busybeaver/internal/presentation/graph"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		space spaceFlags
		index uint64
		steps int
	)

	cmd := &cobra.Command{
		Use:   "graph [machine|file]",
		Short: "Export a transition table as a Mermaid diagram",
		Long: `Prints a Mermaid diagram (graph TD) of a catalog machine, a machine file, or,
with --index, of one table of the enumeration. With --steps the machine is run
first and the states it visited are highlighted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m domain.Machine
			switch {
			case len(args) == 1:
				entry, err := catalog.Resolve(args[0])
				if err != nil {
					return err
				}
				m = entry.New()
			case cmd.Flags().Changed("index"):
				space.apply(cmd, &a.cfg.Search)
				e, err := cli.Space(a.cfg.Search)
				if err != nil {
					return err
				}
				def, err := e.AtIndex(index)
				if err != nil {
					return err
				}
				m, err = domain.NewMachine(def, domain.State(a.cfg.Search.Start), domain.Symbol(a.cfg.Search.Initial))
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("name a machine or pass --index")
			}

			var overlay *graph.Overlay
			if steps > 0 {
				overlay = visit(busybeaver.New(busybeaver.WithLogger(a.logger)), m, steps)
			}

			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m.Def, overlay))
			return nil
		},
	}

	space.register(cmd.Flags())
	cmd.Flags().Uint64Var(&index, "index", 0, "enumeration index to draw")
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "run this many steps and highlight the visited states")
	return cmd
}

// visit steps m at most budget times and records the states it passed through.
func visit(eng *busybeaver.Engine, m domain.Machine, budget int) *graph.Overlay {
	overlay := &graph.Overlay{Visited: []domain.State{m.State}}
	for range budget {
		next, ok, err := eng.Step(m)
		if err != nil || !ok {
			break
		}
		m = next
		overlay.Visited = append(overlay.Visited, m.State)
	}
	overlay.Current = m.State
	return overlay
}
