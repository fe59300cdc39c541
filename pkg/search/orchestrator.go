package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/aretw0/busybeaver/internal/logging"
	engine "github.com/aretw0/busybeaver/internal/runtime"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Observer is notified as machines are pulled from the input.
type Observer interface {
	ObserveEnumerated(n int)
}

// Orchestrator fans bounded runs out to a pool of workers.
type Orchestrator struct {
	engine   *engine.Engine
	workers  int
	logger   *slog.Logger
	store    ports.ResultStore
	locker   ports.RunLocker
	observer Observer
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the pool size. Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEngine sets the engine used for every run.
func WithEngine(e *engine.Engine) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithStore persists every record produced by Search.
func WithStore(store ports.ResultStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithLocker makes Search hold a lock on its run ID while it writes.
func WithLocker(locker ports.RunLocker) Option {
	return func(o *Orchestrator) {
		o.locker = locker
	}
}

// WithObserver registers an observer for enumeration progress.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// New creates an orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.engine == nil {
		o.engine = engine.NewEngine(engine.WithLogger(o.logger))
	}
	return o
}

// Workers returns the pool size.
func (o *Orchestrator) Workers() int {
	return o.workers
}

type job struct {
	seq   int
	index uint64
	m     domain.Machine
}

type slot struct {
	seq int
	rec domain.Record
}

// RunAll runs every machine of the sequence with the same budget and returns
// one record per machine, ordered by index.
//
// A run that fails is reported on its own record and does not affect the
// others. Only cancellation of ctx aborts the whole call. Machines sharing an
// index keep their input order.
func (o *Orchestrator) RunAll(ctx context.Context, machines iter.Seq2[uint64, domain.Machine], maxSteps int) ([]domain.Record, error) {
	if maxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrNegativeBudget, maxSteps)
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job)

	// The only goroutine that touches the input sequence.
	g.Go(func() error {
		defer close(jobs)
		seq := 0
		for index, m := range machines {
			select {
			case jobs <- job{seq: seq, index: index, m: m}:
			case <-gctx.Done():
				return gctx.Err()
			}
			seq++
			o.observe(1)
		}
		return nil
	})

	var mu sync.Mutex
	results := make(map[uint64][]slot)

	for range o.workers {
		g.Go(func() error {
			for j := range jobs {
				rec, err := o.run(gctx, j.index, j.m, maxSteps)
				if err != nil {
					return err
				}
				mu.Lock()
				results[j.index] = append(results[j.index], slot{seq: j.seq, rec: rec})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	indices := make([]uint64, 0, len(results))
	for index := range results {
		indices = append(indices, index)
	}
	slices.Sort(indices)

	out := make([]domain.Record, 0, len(indices))
	for _, index := range indices {
		slots := results[index]
		slices.SortFunc(slots, func(a, b slot) int { return cmp.Compare(a.seq, b.seq) })
		for _, s := range slots {
			out = append(out, s.rec)
		}
	}
	return out, nil
}

// run executes one machine. The error return is reserved for cancellation of
// the whole batch; anything else ends up on the record.
func (o *Orchestrator) run(ctx context.Context, index uint64, m domain.Machine, maxSteps int) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	if m.Def == nil {
		return domain.Record{
			Index:  index,
			Result: domain.RunResult{Machine: m, Remaining: maxSteps},
			Err:    fmt.Errorf("machine %d: %w: missing definition", index, domain.ErrMalformedDefinition),
		}, nil
	}

	result, err := o.engine.Run(ctx, m, maxSteps)
	if err != nil && ctx.Err() != nil && isContextErr(err) {
		return domain.Record{}, err
	}
	if err != nil {
		o.logger.Warn("run failed", "index", index, "error", err)
	}
	return domain.Record{Index: index, Result: result, Err: err}, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (o *Orchestrator) observe(n int) {
	if o.observer != nil {
		o.observer.ObserveEnumerated(n)
	}
}
