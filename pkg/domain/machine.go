package domain

import "fmt"

// Machine is one configuration of a Turing machine: its definition, the
// current state and the tape. Machines are values; stepping one produces a
// new Machine and never modifies the old one.
type Machine struct {
	Def   *Definition
	State State
	Tape  Tape
}

// NewMachine places a machine in start with a blank tape whose head cell holds initial.
func NewMachine(def *Definition, start State, initial Symbol) (Machine, error) {
	if def == nil {
		return Machine{}, malformed("nil definition")
	}
	if !def.HasState(start) {
		return Machine{}, malformed("start state %q is not in the state set", start)
	}
	if !def.HasSymbol(initial) {
		return Machine{}, malformed("initial symbol %q is not in the alphabet", initial)
	}
	return Machine{
		Def:   def,
		State: start,
		Tape:  NewTape(def.Blank, initial),
	}, nil
}

// IsFinal reports whether the machine sits in a final state.
func (m Machine) IsFinal() bool {
	return m.Def.IsFinal(m.State)
}

func (m Machine) String() string {
	return fmt.Sprintf("%s: %s", m.State, m.Tape)
}
