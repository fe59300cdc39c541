// Package catalog provides the named example machines and loads literal
// machine definitions from YAML or JSON files.
//
// Every constructor returns a freshly built value; nothing in this package is
// shared mutable state.
package catalog

import (
	"fmt"
	"sort"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/dsl"
)

// Entry describes a named machine.
type Entry struct {
	Name        string
	Description string
	New         func() domain.Machine
}

var entries = map[string]Entry{
	"bb2": {
		Name:        "bb2",
		Description: "two-state, two-symbol busy beaver champion (6 steps, 4 ones)",
		New:         BusyBeaver2,
	},
	"bb3": {
		Name:        "bb3",
		Description: "three-state, two-symbol busy beaver (13 steps, 6 ones)",
		New:         BusyBeaver3,
	},
	"no-transition": {
		Name:        "no-transition",
		Description: "empty transition table; stuck before the first step",
		New:         NoTransition,
	},
	"already-final": {
		Name:        "already-final",
		Description: "starts in its final state; never steps",
		New:         AlreadyFinal,
	},
}

// Names returns the registered machine names, sorted.
func Names() []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the entry registered under name.
func Get(name string) (Entry, error) {
	e, ok := entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", domain.ErrUnknownMachine, name)
	}
	return e, nil
}

// Lookup builds the machine registered under name.
func Lookup(name string) (domain.Machine, error) {
	e, err := Get(name)
	if err != nil {
		return domain.Machine{}, err
	}
	return e.New(), nil
}

// BusyBeaver2 is the two-state busy beaver.
func BusyBeaver2() domain.Machine {
	return must(dsl.New().
		States("A", "B", "HALT").
		Alphabet("0", "1").
		Blank("0").
		Finals("HALT").
		Start("A").
		On("A", "0").Write("1").Right().Goto("B").
		On("A", "1").Write("1").Left().Goto("B").
		On("B", "0").Write("1").Left().Goto("A").
		On("B", "1").Write("1").Right().Goto("HALT").
		Machine())
}

// BusyBeaver3 is a three-state, two-symbol machine that halts with six ones on the tape.
func BusyBeaver3() domain.Machine {
	return must(dsl.New().
		States("A", "B", "C", "HALT").
		Alphabet("0", "1").
		Blank("0").
		Finals("HALT").
		Start("A").
		On("A", "0").Write("1").Right().Goto("B").
		On("B", "0").Write("1").Left().Goto("A").
		On("C", "0").Write("1").Left().Goto("B").
		On("A", "1").Write("1").Left().Goto("C").
		On("B", "1").Write("1").Right().Goto("B").
		On("C", "1").Write("1").Right().Goto("HALT").
		Machine())
}

// NoTransition has an empty table: it is stuck in its start state.
func NoTransition() domain.Machine {
	return must(dsl.New().
		States("0", "1").
		Alphabet("0", "1").
		Blank("0").
		Finals("1").
		Start("0").
		Machine())
}

// AlreadyFinal starts in a final state with a non-blank head cell.
func AlreadyFinal() domain.Machine {
	return must(dsl.New().
		States("A", "HALT").
		Alphabet("0", "1").
		Blank("0").
		Finals("HALT").
		Start("HALT").
		Initial("1").
		On("A", "0").Write("1").Right().Goto("HALT").
		Machine())
}

func must(m domain.Machine, err error) domain.Machine {
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in machine: %v", err))
	}
	return m
}
