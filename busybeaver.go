package busybeaver

import (
	"context"
	"iter"
	"log/slog"

	"github.com/aretw0/busybeaver/internal/logging"
	"github.com/aretw0/busybeaver/internal/runtime"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/enumerate"
	"github.com/aretw0/busybeaver/pkg/observability"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/aretw0/busybeaver/pkg/search"
)

// Engine is the high-level entry point of the library.
// It wraps the transition engine and the search orchestrator behind one set of options.
type Engine struct {
	runtime      *runtime.Engine
	orchestrator *search.Orchestrator

	logger  *slog.Logger
	hooks   domain.RunHooks
	workers int
	store   ports.ResultStore
	locker  ports.RunLocker
	metrics *observability.Metrics
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls accumulate.
func WithHooks(hooks domain.RunHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithWorkers sets the size of the search worker pool (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithStore persists search records.
func WithStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker guards concurrent writers of the same run.
func WithLocker(locker ports.RunLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithMetrics feeds run outcomes and enumeration progress into metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	hooks := eng.hooks
	searchOpts := []search.Option{
		search.WithWorkers(eng.workers),
		search.WithLogger(eng.logger),
		search.WithStore(eng.store),
		search.WithLocker(eng.locker),
	}
	if eng.metrics != nil {
		hooks = hooks.Merge(eng.metrics.Hooks())
		searchOpts = append(searchOpts, search.WithObserver(eng.metrics))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithHooks(hooks),
	)
	eng.orchestrator = search.New(append(searchOpts, search.WithEngine(eng.runtime))...)
	return eng
}

// Enumerate prepares the enumeration of every transition table over the given
// states, alphabet and final states.
func Enumerate(states []domain.State, alphabet []domain.Symbol, finals []domain.State, blank domain.Symbol) (*enumerate.Enumerator, error) {
	return enumerate.New(states, alphabet, finals, blank)
}

// IsTerminal reports whether m can take no further step, and why.
func (e *Engine) IsTerminal(m domain.Machine) (bool, domain.Outcome) {
	return e.runtime.IsTerminal(m)
}

// Step computes the successor configuration of m.
func (e *Engine) Step(m domain.Machine) (domain.Machine, bool, error) {
	return e.runtime.Step(m)
}

// Run steps m until it halts, gets stuck or uses up maxSteps.
func (e *Engine) Run(ctx context.Context, m domain.Machine, maxSteps int) (domain.RunResult, error) {
	return e.runtime.Run(ctx, m, maxSteps)
}

// RunAll runs a sequence of indexed machines concurrently; records come back in index order.
func (e *Engine) RunAll(ctx context.Context, machines iter.Seq2[uint64, domain.Machine], maxSteps int) ([]domain.Record, error) {
	return e.orchestrator.RunAll(ctx, machines, maxSteps)
}

// Search runs a slice of an enumeration and summarises it.
func (e *Engine) Search(ctx context.Context, space *enumerate.Enumerator, req search.Request) (*search.Summary, error) {
	return e.orchestrator.Search(ctx, space, req)
}

// Store returns the configured result store, if any.
func (e *Engine) Store() ports.ResultStore {
	return e.store
}
