package domain

// Outcome classifies how a bounded run stopped.
type Outcome string

const (
	OutcomeHalted    Outcome = "halted"    // Reached a final state
	OutcomeStuck     Outcome = "stuck"     // No transition defined for (state, symbol)
	OutcomeExhausted Outcome = "exhausted" // Step budget used up, still running
	OutcomeFailed    Outcome = "failed"    // Stopped by an error before any of the above
)

// Terminal reports whether the outcome means the machine cannot step any further.
func (o Outcome) Terminal() bool {
	return o == OutcomeHalted || o == OutcomeStuck
}

// RunResult is the product of a bounded run.
//
// Remaining is the unused part of the step budget. Remaining == 0 with a
// non-final state means the run was inconclusive; Remaining > 0 means the
// machine stopped early. Exhausting the budget is ordinary data, not an error.
// A run cut short by an error reports OutcomeFailed.
type RunResult struct {
	Machine   Machine
	Remaining int
	Steps     int
	Outcome   Outcome
}

// Halted reports whether the run ended in a final state.
func (r RunResult) Halted() bool {
	return r.Outcome == OutcomeHalted
}

// Inconclusive reports whether the budget ran out before the machine stopped.
func (r RunResult) Inconclusive() bool {
	return r.Outcome == OutcomeExhausted
}

// Record is a run result tagged with the machine's position in the input sequence.
// Err is set when that single run failed; it never affects other records.
type Record struct {
	Index  uint64
	Result RunResult
	Err    error
}
