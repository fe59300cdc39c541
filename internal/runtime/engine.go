package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/busybeaver/internal/logging"
	"github.com/aretw0/busybeaver/pkg/domain"
)

// DefaultCheckEvery is how many steps Run takes between context checks.
const DefaultCheckEvery = 1024

// Engine is the transition engine: single-step semantics and the bounded run loop.
// An Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger     *slog.Logger
	hooks      domain.RunHooks
	checkEvery int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.RunHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithCheckEvery sets how often (in steps) Run polls its context.
func WithCheckEvery(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.checkEvery = n
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:     logging.NewNop(),
		checkEvery: DefaultCheckEvery,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsTerminal reports whether m can take no further step, and why.
// A machine in a final state is halted; a machine with no transition for
// (state, symbol) is stuck. Both stop a run.
func (e *Engine) IsTerminal(m domain.Machine) (bool, domain.Outcome) {
	if m.IsFinal() {
		return true, domain.OutcomeHalted
	}
	if _, ok := m.Def.Lookup(m.State, m.Tape.Read()); !ok {
		return true, domain.OutcomeStuck
	}
	return false, ""
}

// Step computes the successor configuration of m.
//
// ok is false when m is terminal; m is then returned unchanged, so a terminal
// configuration is a fixed point. An error is only returned for an action
// whose movement is neither Left nor Right, which NewDefinition rejects.
func (e *Engine) Step(m domain.Machine) (next domain.Machine, ok bool, err error) {
	if m.IsFinal() {
		return m, false, nil
	}
	sym := m.Tape.Read()
	action, found := m.Def.Lookup(m.State, sym)
	if !found {
		return m, false, nil
	}

	tape, err := m.Tape.Write(action.Write).Move(action.Move)
	if err != nil {
		return m, false, &StepError{State: m.State, Symbol: sym, Cause: err}
	}

	return domain.Machine{
		Def:   m.Def,
		State: action.Next,
		Tape:  tape,
	}, true, nil
}

// Run steps m until it halts, gets stuck or maxSteps transitions have been taken.
//
// Run always terminates for a finite budget. The returned result carries the
// last configuration reached and the unused budget. An error is returned for a
// negative budget, a StepError, or when ctx is cancelled; in the latter two
// cases the result still describes the last configuration reached.
func (e *Engine) Run(ctx context.Context, m domain.Machine, maxSteps int) (domain.RunResult, error) {
	if maxSteps < 0 {
		return domain.RunResult{Machine: m}, fmt.Errorf("%w: %d", domain.ErrNegativeBudget, maxSteps)
	}

	e.emitStart(ctx, m, maxSteps)

	remaining := maxSteps
	var runErr error
	for remaining > 0 {
		if steps := maxSteps - remaining; steps > 0 && steps%e.checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
		}

		next, ok, err := e.Step(m)
		if err != nil {
			runErr = err
			break
		}
		if !ok {
			break
		}
		m = next
		remaining--
	}

	result := domain.RunResult{
		Machine:   m,
		Remaining: remaining,
		Steps:     maxSteps - remaining,
		Outcome:   domain.OutcomeExhausted,
	}
	if runErr != nil {
		result.Outcome = domain.OutcomeFailed
	} else if terminal, outcome := e.IsTerminal(m); terminal {
		result.Outcome = outcome
	}

	e.logger.Debug("run finished",
		"state", m.State,
		"outcome", result.Outcome,
		"steps", result.Steps,
		"remaining", result.Remaining,
	)
	e.emitComplete(ctx, m, maxSteps, &result, runErr)

	return result, runErr
}

func (e *Engine) emitStart(ctx context.Context, m domain.Machine, maxSteps int) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		State:     m.State,
		MaxSteps:  maxSteps,
	})
}

func (e *Engine) emitComplete(ctx context.Context, m domain.Machine, maxSteps int, result *domain.RunResult, err error) {
	if e.hooks.OnRunComplete == nil {
		return
	}
	e.hooks.OnRunComplete(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		State:     m.State,
		MaxSteps:  maxSteps,
		Result:    result,
		Err:       err,
	})
}
