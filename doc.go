/*
Package busybeaver simulates single-tape Turing machines and searches the space
of their transition tables.

# Concept

A machine is a Definition (states, alphabet, blank, final states and a partial
transition table) plus a configuration: the current state and a tape. Stepping
is pure: every step returns a new configuration and leaves the old one intact.
A run is bounded by a step budget, so it always terminates. It ends halted (a
final state was reached), stuck (no transition for the current state and
symbol) or exhausted (the budget ran out while the machine could still move).

The enumerator lists every legal transition table for a fixed (Q, Γ, blank, F)
in a documented, deterministic order, lazily and by index. The search
orchestrator runs those tables concurrently and ranks the halting ones by steps
taken and symbols written, the classic busy-beaver scores.

# Usage

	eng := busybeaver.New(busybeaver.WithWorkers(8))

	m, _ := catalog.Lookup("bb3")
	result, _ := eng.Run(ctx, m, 100)
	fmt.Println(result.Outcome, result.Steps, result.Machine.Tape)

	space, _ := busybeaver.Enumerate(
		[]domain.State{"A", "B", "HALT"},
		[]domain.Symbol{"0", "1"},
		[]domain.State{"HALT"},
		"0",
	)
	summary, _ := eng.Search(ctx, space, search.Request{Start: "A", Initial: "0", MaxSteps: 100})
	fmt.Println(summary.MostSteps.Index, summary.MostSteps.Steps)

Results can be persisted through any ports.ResultStore (memory, local files or
Redis) and served over HTTP by pkg/adapters/http.
*/
package busybeaver
