package domain

import (
	"context"
	"time"
)

// RunEvent describes a bounded run for observers.
type RunEvent struct {
	Timestamp time.Time
	State     State
	MaxSteps  int
	// Result is only set on completion.
	Result *RunResult
	Err    error
}

// RunHooks defines callbacks for engine observability.
type RunHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnRunComplete func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h RunHooks) Merge(other RunHooks) RunHooks {
	return RunHooks{
		OnRunStart:    chain(h.OnRunStart, other.OnRunStart),
		OnRunComplete: chain(h.OnRunComplete, other.OnRunComplete),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
