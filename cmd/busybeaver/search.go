package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/busybeaver/internal/cli"
	"github.com/aretw0/busybeaver/internal/config"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/enumerate"
	"github.com/aretw0/busybeaver/pkg/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		space    spaceFlags
		start    string
		initial  string
		steps    int
		workers  int
		offset   uint64
		limit    uint64
		shard    string
		runID    string
		store    string
		redisURL string
		database string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run every transition table of a shape and report the champions",
		Example: `  busybeaver search --states A,B,H --alphabet 0,1 --steps 50
  busybeaver search --states A,B,C,H --shard 0/4 --store redis --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			space.apply(cmd, &cfg.Search)

			flags := cmd.Flags()
			if flags.Changed("start") {
				cfg.Search.Start = start
			}
			if flags.Changed("initial") {
				cfg.Search.Initial = initial
			}
			if flags.Changed("steps") {
				cfg.Search.MaxSteps = steps
			}
			if flags.Changed("workers") {
				cfg.Search.Workers = workers
			}
			if flags.Changed("offset") {
				cfg.Search.Offset = offset
			}
			if flags.Changed("limit") {
				cfg.Search.Limit = limit
			}
			if flags.Changed("store") {
				cfg.Store.Kind = store
			}
			if flags.Changed("redis") {
				cfg.Store.Kind = config.StoreRedis
				cfg.Store.Redis.Addr = redisURL
			}
			if flags.Changed("db") {
				cfg.Store.Kind = config.StoreSQLite
				cfg.Store.Database = database
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			e, err := cli.Space(cfg.Search)
			if err != nil {
				return err
			}

			req := search.Request{
				RunID:    runID,
				Start:    domain.State(cfg.Search.Start),
				Initial:  domain.Symbol(cfg.Search.Initial),
				MaxSteps: cfg.Search.MaxSteps,
				Offset:   cfg.Search.Offset,
				Limit:    cfg.Search.Limit,
			}
			if shard != "" {
				span, ok, err := shardSpan(e, shard, req.Offset, req.Limit)
				if err != nil {
					return err
				}
				if !ok {
					a.logger.Warn("shard is empty", "shard", shard)
					return nil
				}
				req.Offset, req.Limit = span.Start, span.Count
			}

			backend, err := cli.OpenBackend(cfg.Store)
			if err != nil {
				return err
			}
			defer backend.Close()

			eng, err := cli.NewEngine(cfg, a.logger, prometheus.NewRegistry(), backend)
			if err != nil {
				return err
			}

			summary, err := eng.Search(cmd.Context(), e, req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	space.register(cmd.Flags())
	cmd.Flags().StringVar(&start, "start", "", "start state (default: the first state)")
	cmd.Flags().StringVar(&initial, "initial", "", "symbol under the head at start (default: blank)")
	cmd.Flags().IntVarP(&steps, "steps", "n", 100, "step budget of every machine")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent runs (default: GOMAXPROCS)")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "first enumeration index")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "number of tables to run (default: all)")
	cmd.Flags().StringVar(&shard, "shard", "", "run only shard i of n of the selected range, as i/n")
	cmd.Flags().StringVar(&runID, "run-id", "", "run name in the result store (default: generated)")
	cmd.Flags().StringVar(&store, "store", "", "result store: none, memory, file, redis, sqlite")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis address; implies --store redis")
	cmd.Flags().StringVar(&database, "db", "", "SQLite database path; implies --store sqlite")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

// shardSpan narrows [offset, offset+limit) to one shard. A zero limit means
// the rest of the enumeration, which must then fit an index. The range is
// clamped to the enumeration so shards past its end come out empty.
func shardSpan(e *enumerate.Enumerator, shard string, offset, limit uint64) (enumerate.Span, bool, error) {
	idx, total, err := parseShard(shard)
	if err != nil {
		return enumerate.Span{}, false, err
	}

	count := limit
	size, fits := e.Size()
	if fits {
		if offset >= size {
			return enumerate.Span{}, false, nil
		}
		if count == 0 || count > size-offset {
			count = size - offset
		}
	} else if count == 0 {
		return enumerate.Span{}, false, fmt.Errorf("enumeration of %s tables is too large to shard without --limit", e.Cardinality())
	}

	spans := enumerate.Partition(offset, count, total)
	if idx >= len(spans) {
		return enumerate.Span{}, false, nil
	}
	return spans[idx], true, nil
}

func printSummary(w io.Writer, s *search.Summary) {
	fmt.Fprintf(w, "run:        %s\n", s.RunID)
	fmt.Fprintf(w, "budget:     %d\n", s.MaxSteps)
	fmt.Fprintf(w, "machines:   %d\n", s.Total)
	fmt.Fprintf(w, "halted:     %d\n", s.Halted)
	fmt.Fprintf(w, "stuck:      %d\n", s.Stuck)
	fmt.Fprintf(w, "exhausted:  %d\n", s.Exhausted)
	if s.Failed > 0 {
		fmt.Fprintf(w, "failed:     %d\n", s.Failed)
	}
	if s.MostSteps != nil {
		fmt.Fprintf(w, "most steps: #%d (%d steps)\n", s.MostSteps.Index, s.MostSteps.Steps)
	}
	if s.MostSymbols != nil {
		fmt.Fprintf(w, "most ones:  #%d (%d non-blank)\n", s.MostSymbols.Index, s.MostSymbols.Symbols)
	}
}
