package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/busybeaver/internal/runtime"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// looper runs right forever over blanks.
func looper(t *testing.T) domain.Machine {
	t.Helper()
	m, err := dsl.New().
		States("A", "H").
		Alphabet("0", "1").
		Finals("H").
		Rule("A", "0", "1", domain.Right, "A").
		Machine()
	require.NoError(t, err)
	return m
}

func TestEngine_Run_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		machine       domain.Machine
		maxSteps      int
		wantState     domain.State
		wantSteps     int
		wantRemaining int
		wantOutcome   domain.Outcome
		wantOnes      int
	}{
		{
			name:          "Three-state busy beaver",
			machine:       catalog.BusyBeaver3(),
			maxSteps:      100,
			wantState:     "HALT",
			wantSteps:     13,
			wantRemaining: 87,
			wantOutcome:   domain.OutcomeHalted,
			wantOnes:      6,
		},
		{
			name:          "Two-state busy beaver",
			machine:       catalog.BusyBeaver2(),
			maxSteps:      100,
			wantState:     "HALT",
			wantSteps:     6,
			wantRemaining: 94,
			wantOutcome:   domain.OutcomeHalted,
			wantOnes:      4,
		},
		{
			name:          "No transition",
			machine:       catalog.NoTransition(),
			maxSteps:      100,
			wantState:     "0",
			wantSteps:     0,
			wantRemaining: 100,
			wantOutcome:   domain.OutcomeStuck,
		},
		{
			name:          "Already final",
			machine:       catalog.AlreadyFinal(),
			maxSteps:      25,
			wantState:     "HALT",
			wantSteps:     0,
			wantRemaining: 25,
			wantOutcome:   domain.OutcomeHalted,
			wantOnes:      1,
		},
		{
			name:          "Busy beaver with too small a budget",
			machine:       catalog.BusyBeaver3(),
			maxSteps:      5,
			wantState:     "A",
			wantSteps:     5,
			wantRemaining: 0,
			wantOutcome:   domain.OutcomeExhausted,
			wantOnes:      4,
		},
		{
			name:          "Zero budget",
			machine:       catalog.BusyBeaver3(),
			maxSteps:      0,
			wantState:     "A",
			wantSteps:     0,
			wantRemaining: 0,
			wantOutcome:   domain.OutcomeExhausted,
		},
	}

	engine := runtime.NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Run(context.Background(), tt.machine, tt.maxSteps)
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, res.Machine.State)
			assert.Equal(t, tt.wantSteps, res.Steps)
			assert.Equal(t, tt.wantRemaining, res.Remaining)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.Equal(t, tt.wantOnes, res.Machine.Tape.Count("1"))
		})
	}
}

func TestEngine_Run_TerminalInputIsUntouched(t *testing.T) {
	engine := runtime.NewEngine()

	for _, m := range []domain.Machine{catalog.AlreadyFinal(), catalog.NoTransition()} {
		for _, n := range []int{0, 1, 17} {
			res, err := engine.Run(context.Background(), m, n)
			require.NoError(t, err)
			assert.Equal(t, n, res.Remaining)
			assert.Equal(t, m.State, res.Machine.State)
			assert.True(t, m.Tape.Equal(res.Machine.Tape))
			assert.Same(t, m.Def, res.Machine.Def)
		}
	}
}

func TestEngine_Run_ZeroBudgetReturnsInput(t *testing.T) {
	m := catalog.BusyBeaver2()
	res, err := runtime.NewEngine().Run(context.Background(), m, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, m.State, res.Machine.State)
	assert.True(t, m.Tape.Equal(res.Machine.Tape))
}

func TestEngine_Run_NegativeBudget(t *testing.T) {
	_, err := runtime.NewEngine().Run(context.Background(), catalog.BusyBeaver2(), -1)
	assert.ErrorIs(t, err, domain.ErrNegativeBudget)
}

func TestEngine_Run_BudgetBounds(t *testing.T) {
	engine := runtime.NewEngine()
	machines := []domain.Machine{
		catalog.BusyBeaver2(),
		catalog.BusyBeaver3(),
		catalog.NoTransition(),
		looper(t),
	}

	for _, m := range machines {
		for n := 0; n <= 30; n++ {
			res, err := engine.Run(context.Background(), m, n)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Remaining, 0)
			assert.LessOrEqual(t, res.Remaining, n)
			assert.Equal(t, n, res.Steps+res.Remaining)
		}
	}
}

func TestEngine_Run_Monotonicity(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()

	for _, m := range []domain.Machine{catalog.BusyBeaver2(), catalog.BusyBeaver3()} {
		base, err := engine.Run(ctx, m, 50)
		require.NoError(t, err)
		require.True(t, base.Halted())
		used := 50 - base.Remaining

		for _, n := range []int{used, used + 1, used + 10, 500} {
			res, err := engine.Run(ctx, m, n)
			require.NoError(t, err)
			assert.True(t, res.Halted())
			assert.Equal(t, n-used, res.Remaining)
			assert.Equal(t, base.Machine.State, res.Machine.State)
			assert.True(t, base.Machine.Tape.Equal(res.Machine.Tape))
		}
	}
}

func TestEngine_Run_Exhausted(t *testing.T) {
	res, err := runtime.NewEngine().Run(context.Background(), looper(t), 40)
	require.NoError(t, err)
	assert.True(t, res.Inconclusive())
	assert.Equal(t, 0, res.Remaining)
	assert.False(t, res.Machine.IsFinal())
	assert.Equal(t, 40, res.Machine.Tape.Count("1"))
}

func TestEngine_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := runtime.NewEngine(runtime.WithCheckEvery(1))
	res, err := engine.Run(ctx, looper(t), 1_000_000)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Positive(t, res.Remaining)
}

func TestEngine_Hooks(t *testing.T) {
	var started, completed int
	var last *domain.RunEvent

	engine := runtime.NewEngine(runtime.WithHooks(domain.RunHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			started++
			assert.Nil(t, e.Result)
		},
		OnRunComplete: func(ctx context.Context, e *domain.RunEvent) {
			completed++
			last = e
		},
	}))

	_, err := engine.Run(context.Background(), catalog.BusyBeaver2(), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, completed)
	require.NotNil(t, last.Result)
	assert.Equal(t, domain.OutcomeHalted, last.Result.Outcome)
	assert.Equal(t, 10, last.MaxSteps)
}
