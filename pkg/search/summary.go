package search

import "github.com/aretw0/busybeaver/pkg/domain"

// Champion is the best halting machine found for one score.
type Champion struct {
	Index   uint64         `json:"index"`
	Steps   int            `json:"steps"`
	Symbols int            `json:"symbols"`
	Record  *domain.Record `json:"-"`
}

// Summary folds run records into outcome counts and busy-beaver champions.
//
// Only halting machines compete. The step champion is the S(n) candidate, the
// symbol champion (most non-blank cells left on the tape) the Σ(n) candidate.
// Ties go to the lowest index, so the summary does not depend on the order in
// which records are added.
type Summary struct {
	RunID     string `json:"run_id"`
	MaxSteps  int    `json:"max_steps"`
	Total     uint64 `json:"total"`
	Halted    uint64 `json:"halted"`
	Stuck     uint64 `json:"stuck"`
	Exhausted uint64 `json:"exhausted"`
	Failed    uint64 `json:"failed"`

	MostSteps   *Champion `json:"most_steps,omitempty"`
	MostSymbols *Champion `json:"most_symbols,omitempty"`
}

// NewSummary returns an empty summary for runID.
func NewSummary(runID string) *Summary {
	return &Summary{RunID: runID}
}

// Summarize folds recs into a new summary.
func Summarize(runID string, recs []domain.Record) *Summary {
	s := NewSummary(runID)
	for _, rec := range recs {
		s.Add(rec)
	}
	return s
}

// Add counts one record. It is not safe for concurrent use.
func (s *Summary) Add(rec domain.Record) {
	s.Total++
	if rec.Err != nil {
		s.Failed++
		return
	}

	switch rec.Result.Outcome {
	case domain.OutcomeHalted:
		s.Halted++
	case domain.OutcomeStuck:
		s.Stuck++
		return
	default:
		s.Exhausted++
		return
	}

	c := &Champion{
		Index:   rec.Index,
		Steps:   rec.Result.Steps,
		Symbols: rec.Result.Machine.Tape.NonBlank(),
		Record:  &rec,
	}
	if better(c, s.MostSteps, c.Steps, stepsOf(s.MostSteps)) {
		s.MostSteps = c
	}
	if better(c, s.MostSymbols, c.Symbols, symbolsOf(s.MostSymbols)) {
		s.MostSymbols = c
	}
}

func better(c, cur *Champion, score, curScore int) bool {
	if cur == nil {
		return true
	}
	if score != curScore {
		return score > curScore
	}
	return c.Index < cur.Index
}

func stepsOf(c *Champion) int {
	if c == nil {
		return 0
	}
	return c.Steps
}

func symbolsOf(c *Champion) int {
	if c == nil {
		return 0
	}
	return c.Symbols
}
