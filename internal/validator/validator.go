// Package validator inspects a machine's transition graph for problems a run
// would only reveal late, such as states nothing can reach.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Kind classifies an issue.
type Kind string

const (
	Unreachable Kind = "unreachable" // No path from the start state
	Missing     Kind = "missing"     // Reachable cell with no transition; the machine gets stuck there
	NoHalt      Kind = "no-halt"     // No final state is reachable; the machine can never halt
)

// Issue is one finding.
type Issue struct {
	Kind   Kind
	State  domain.State
	Symbol domain.Symbol
}

func (i Issue) String() string {
	switch i.Kind {
	case Missing:
		return fmt.Sprintf("%s: no transition for (%s, %s)", i.Kind, i.State, i.Symbol)
	case NoHalt:
		return fmt.Sprintf("%s: no final state is reachable from %s", i.Kind, i.State)
	}
	return fmt.Sprintf("%s: state %s", i.Kind, i.State)
}

// Check walks the transition graph of m breadth-first from its current state.
// Issues come back in definition order: missing cells, then unreachable
// states, then a single NoHalt when it applies. Missing cells are reported
// only for reachable states; they are legal but make the machine stuck.
func Check(m domain.Machine) []Issue {
	def := m.Def
	visited := map[domain.State]bool{m.State: true}
	queue := []domain.State{m.State}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, s := range def.Alphabet {
			a, ok := def.Lookup(current, s)
			if !ok || visited[a.Next] {
				continue
			}
			visited[a.Next] = true
			queue = append(queue, a.Next)
		}
	}

	var issues []Issue
	halts := false
	for _, q := range def.States {
		if !visited[q] {
			continue
		}
		if def.IsFinal(q) {
			halts = true
			continue
		}
		for _, s := range def.Alphabet {
			if _, ok := def.Lookup(q, s); !ok {
				issues = append(issues, Issue{Kind: Missing, State: q, Symbol: s})
			}
		}
	}
	for _, q := range def.States {
		if !visited[q] {
			issues = append(issues, Issue{Kind: Unreachable, State: q})
		}
	}
	if !halts {
		issues = append(issues, Issue{Kind: NoHalt, State: m.State})
	}
	return issues
}

// Error joins issues into one error, or returns nil when there are none.
func Error(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d issues:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
