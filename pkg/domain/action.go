package domain

import "fmt"

// Action is what the machine does when a given state reads a given symbol.
type Action struct {
	Write Symbol `json:"write" yaml:"write"`
	Move  Move   `json:"move" yaml:"move"`
	Next  State  `json:"next" yaml:"next"`
}

func (a Action) String() string {
	return fmt.Sprintf("%s%s%s", a.Write, a.Move, a.Next)
}

// Key addresses one cell of a transition table.
type Key struct {
	State  State
	Symbol Symbol
}

// Table is a partial transition function. A missing key means no transition
// is defined for that (state, symbol) pair, which is distinct from a
// transition into a final state.
type Table map[Key]Action

// Clone returns a shallow copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
