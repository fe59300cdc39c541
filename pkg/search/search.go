package search

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/enumerate"
	"golang.org/x/sync/errgroup"
)

// DefaultLockTTL bounds how long a crashed search can keep its run locked.
const DefaultLockTTL = 10 * time.Minute

// Request describes one enumeration search.
type Request struct {
	// RunID names the run in the result store. Generated when empty.
	RunID string
	// Start and Initial set up every enumerated machine.
	Start   domain.State
	Initial domain.Symbol
	// MaxSteps is the budget of every run.
	MaxSteps int
	// Offset is the first enumeration index; Limit caps how many tables are
	// run. A zero Limit runs to the end of the enumeration.
	Offset uint64
	Limit  uint64
}

// Search runs the machines of e described by req and summarises the results.
//
// Workers pull indexes straight from a shared enumeration cursor, so every
// table is built and run exactly once. With a store configured each record is
// saved under the run ID as soon as it is produced; a store failure aborts the
// search.
func (o *Orchestrator) Search(ctx context.Context, e *enumerate.Enumerator, req Request) (*Summary, error) {
	if req.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrNegativeBudget, req.MaxSteps)
	}
	if _, err := domain.NewMachine(e.Frame(), req.Start, req.Initial); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = math.MaxUint64
	}

	summary := NewSummary(req.RunID)
	summary.MaxSteps = req.MaxSteps
	if summary.RunID == "" {
		summary.RunID = "run-" + time.Now().UTC().Format("20060102T150405.000")
	}

	if o.store != nil && o.locker != nil {
		unlock, err := o.locker.Lock(ctx, summary.RunID, DefaultLockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock run %s: %w", summary.RunID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				o.logger.Warn("failed to unlock run", "run_id", summary.RunID, "error", err)
			}
		}()
	}

	cursor, err := e.NewCursor(req.Offset)
	if err != nil {
		return nil, err
	}

	o.logger.Info("search started",
		"run_id", summary.RunID,
		"cardinality", e.Cardinality().String(),
		"offset", req.Offset,
		"max_steps", req.MaxSteps,
		"workers", o.workers,
	)
	began := time.Now()

	var (
		mu    sync.Mutex
		taken atomic.Uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	for range o.workers {
		g.Go(func() error {
			for {
				if taken.Add(1) > limit {
					return nil
				}
				index, def, ok := cursor.Next()
				if !ok {
					return nil
				}
				o.observe(1)

				m := domain.Machine{Def: def, State: req.Start, Tape: domain.NewTape(def.Blank, req.Initial)}
				rec, err := o.run(gctx, index, m, req.MaxSteps)
				if err != nil {
					return err
				}
				if o.store != nil {
					if err := o.store.Save(gctx, summary.RunID, rec); err != nil {
						return fmt.Errorf("failed to save record %d: %w", index, err)
					}
				}

				mu.Lock()
				summary.Add(rec)
				mu.Unlock()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Info("search finished",
		"run_id", summary.RunID,
		"total", summary.Total,
		"halted", summary.Halted,
		"stuck", summary.Stuck,
		"exhausted", summary.Exhausted,
		"failed", summary.Failed,
		"elapsed", time.Since(began),
	)
	return summary, nil
}
