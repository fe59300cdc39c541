package domain

import (
	"fmt"
	"sort"
)

// Definition is the static part of a machine. It is immutable once built and
// may be shared read-only by any number of machines and goroutines.
//
// Build definitions with NewDefinition (or WithTable on an existing one) so that
// the invariants are checked once, up front, instead of inside the step loop.
type Definition struct {
	States   []State
	Alphabet []Symbol
	Blank    Symbol
	Finals   []State
	Table    Table

	states  map[State]struct{}
	symbols map[Symbol]struct{}
	finals  map[State]struct{}
}

// NewDefinition validates and builds a machine definition.
// It returns a *MalformedDefinitionError when any invariant is violated.
func NewDefinition(states []State, alphabet []Symbol, blank Symbol, finals []State, table Table) (*Definition, error) {
	frame, err := newFrame(states, alphabet, blank, finals)
	if err != nil {
		return nil, err
	}
	return frame.WithTable(table)
}

// newFrame validates everything but the transition table.
func newFrame(states []State, alphabet []Symbol, blank Symbol, finals []State) (*Definition, error) {
	if len(states) == 0 {
		return nil, malformed("state set is empty")
	}
	if len(alphabet) == 0 {
		return nil, malformed("alphabet is empty")
	}

	d := &Definition{
		States:   append([]State(nil), states...),
		Alphabet: append([]Symbol(nil), alphabet...),
		Blank:    blank,
		Finals:   append([]State(nil), finals...),
		states:   make(map[State]struct{}, len(states)),
		symbols:  make(map[Symbol]struct{}, len(alphabet)),
		finals:   make(map[State]struct{}, len(finals)),
	}

	for _, q := range states {
		if _, dup := d.states[q]; dup {
			return nil, malformed("duplicate state %q", q)
		}
		d.states[q] = struct{}{}
	}
	for _, s := range alphabet {
		if _, dup := d.symbols[s]; dup {
			return nil, malformed("duplicate symbol %q", s)
		}
		d.symbols[s] = struct{}{}
	}
	if _, ok := d.symbols[blank]; !ok {
		return nil, malformed("blank symbol %q is not in the alphabet", blank)
	}
	for _, f := range finals {
		if _, ok := d.states[f]; !ok {
			return nil, malformed("final state %q is not in the state set", f)
		}
		if _, dup := d.finals[f]; dup {
			return nil, malformed("duplicate final state %q", f)
		}
		d.finals[f] = struct{}{}
	}
	return d, nil
}

// WithTable returns a new definition sharing d's states, alphabet, blank and
// final states, with the given transition table. Only the table is validated.
// The table is owned by the returned definition and must not be modified afterwards.
func (d *Definition) WithTable(table Table) (*Definition, error) {
	if d.states == nil {
		// Hand-built literal: rebuild the lookup sets first.
		frame, err := newFrame(d.States, d.Alphabet, d.Blank, d.Finals)
		if err != nil {
			return nil, err
		}
		d = frame
	}

	for k, a := range table {
		if _, ok := d.states[k.State]; !ok {
			return nil, malformed("transition from unknown state %q", k.State)
		}
		if _, ok := d.symbols[k.Symbol]; !ok {
			return nil, malformed("transition on unknown symbol %q", k.Symbol)
		}
		if _, ok := d.finals[k.State]; ok {
			return nil, malformed("final state %q has an outgoing transition", k.State)
		}
		if _, ok := d.symbols[a.Write]; !ok {
			return nil, malformed("transition (%s, %s) writes unknown symbol %q", k.State, k.Symbol, a.Write)
		}
		if _, ok := d.states[a.Next]; !ok {
			return nil, malformed("transition (%s, %s) targets unknown state %q", k.State, k.Symbol, a.Next)
		}
		if err := a.Move.Validate(); err != nil {
			return nil, &MalformedDefinitionError{
				Reason: fmt.Sprintf("transition (%s, %s)", k.State, k.Symbol),
				Cause:  err,
			}
		}
	}

	if table == nil {
		table = Table{}
	}

	return &Definition{
		States:   d.States,
		Alphabet: d.Alphabet,
		Blank:    d.Blank,
		Finals:   d.Finals,
		Table:    table,
		states:   d.states,
		symbols:  d.symbols,
		finals:   d.finals,
	}, nil
}

// IsFinal reports whether q is a final state.
func (d *Definition) IsFinal(q State) bool {
	if d.finals != nil {
		_, ok := d.finals[q]
		return ok
	}
	for _, f := range d.Finals {
		if f == q {
			return true
		}
	}
	return false
}

// HasState reports whether q belongs to the state set.
func (d *Definition) HasState(q State) bool {
	if d.states != nil {
		_, ok := d.states[q]
		return ok
	}
	for _, s := range d.States {
		if s == q {
			return true
		}
	}
	return false
}

// HasSymbol reports whether s belongs to the alphabet.
func (d *Definition) HasSymbol(s Symbol) bool {
	if d.symbols != nil {
		_, ok := d.symbols[s]
		return ok
	}
	for _, a := range d.Alphabet {
		if a == s {
			return true
		}
	}
	return false
}

// Lookup returns the action for (q, s), if one is defined.
func (d *Definition) Lookup(q State, s Symbol) (Action, bool) {
	a, ok := d.Table[Key{State: q, Symbol: s}]
	return a, ok
}

// NonFinal returns the states that may carry outgoing transitions, in definition order.
func (d *Definition) NonFinal() []State {
	out := make([]State, 0, len(d.States))
	for _, q := range d.States {
		if !d.IsFinal(q) {
			out = append(out, q)
		}
	}
	return out
}

// Keys returns the defined table entries ordered by state then symbol, following
// the definition's own orderings.
func (d *Definition) Keys() []Key {
	stateRank := make(map[State]int, len(d.States))
	for i, q := range d.States {
		stateRank[q] = i
	}
	symbolRank := make(map[Symbol]int, len(d.Alphabet))
	for i, s := range d.Alphabet {
		symbolRank[s] = i
	}

	keys := make([]Key, 0, len(d.Table))
	for k := range d.Table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := stateRank[keys[i].State], stateRank[keys[j].State]
		if si != sj {
			return si < sj
		}
		return symbolRank[keys[i].Symbol] < symbolRank[keys[j].Symbol]
	})
	return keys
}
