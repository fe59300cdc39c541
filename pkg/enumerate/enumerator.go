package enumerate

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/big"
	"slices"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// ErrIndexOutOfRange is returned for an index at or beyond the cardinality.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrIncompatibleDefinition is returned by IndexOf for a definition built on a
// different state set, alphabet, blank or final-state set.
var ErrIncompatibleDefinition = errors.New("definition does not belong to this enumeration")

// Enumerator generates every legal transition table for one (Q, Γ, blank, F).
// It is immutable and safe for concurrent use.
type Enumerator struct {
	frame   *domain.Definition
	cells   []domain.Key
	options []domain.Action
	option  map[domain.Action]int
	radix   int
	size    *big.Int
}

// New validates the frame and prepares the enumeration.
func New(states []domain.State, alphabet []domain.Symbol, finals []domain.State, blank domain.Symbol) (*Enumerator, error) {
	frame, err := domain.NewDefinition(states, alphabet, blank, finals, nil)
	if err != nil {
		return nil, err
	}

	e := &Enumerator{frame: frame}

	nonFinal := frame.NonFinal()
	for _, s := range frame.Alphabet {
		for _, q := range nonFinal {
			e.cells = append(e.cells, domain.Key{State: q, Symbol: s})
		}
	}

	e.option = make(map[domain.Action]int)
	for _, w := range frame.Alphabet {
		for _, m := range domain.Moves {
			for _, n := range frame.States {
				a := domain.Action{Write: w, Move: m, Next: n}
				e.options = append(e.options, a)
				e.option[a] = len(e.options)
			}
		}
	}
	e.radix = len(e.options) + 1

	e.size = new(big.Int).Exp(big.NewInt(int64(e.radix)), big.NewInt(int64(len(e.cells))), nil)
	return e, nil
}

// Frame returns the definition with an empty table that every generated
// definition shares its states, alphabet, blank and final states with.
func (e *Enumerator) Frame() *domain.Definition {
	return e.frame
}

// Cells returns the table cells in digit order.
func (e *Enumerator) Cells() []domain.Key {
	return slices.Clone(e.cells)
}

// Radix is the number of options per cell, including "no transition".
func (e *Enumerator) Radix() int {
	return e.radix
}

// Cardinality returns the number of distinct tables.
func (e *Enumerator) Cardinality() *big.Int {
	return new(big.Int).Set(e.size)
}

// Size returns the cardinality if it fits in a uint64.
func (e *Enumerator) Size() (uint64, bool) {
	if !e.size.IsUint64() {
		return 0, false
	}
	return e.size.Uint64(), true
}

// At returns the definition with the given index.
func (e *Enumerator) At(index *big.Int) (*domain.Definition, error) {
	if index.Sign() < 0 || index.Cmp(e.size) >= 0 {
		return nil, fmt.Errorf("%w: %s (cardinality %s)", ErrIndexOutOfRange, index, e.size)
	}

	digits := make([]int, len(e.cells))
	rest := new(big.Int).Set(index)
	radix := big.NewInt(int64(e.radix))
	mod := new(big.Int)
	for i := len(digits) - 1; i >= 0; i-- {
		rest.DivMod(rest, radix, mod)
		digits[i] = int(mod.Int64())
	}
	return e.build(digits), nil
}

// AtIndex is At for indexes that fit in a uint64.
func (e *Enumerator) AtIndex(index uint64) (*domain.Definition, error) {
	return e.At(new(big.Int).SetUint64(index))
}

// IndexOf returns the position of def in the enumeration.
func (e *Enumerator) IndexOf(def *domain.Definition) (*big.Int, error) {
	if !e.compatible(def) {
		return nil, ErrIncompatibleDefinition
	}

	index := new(big.Int)
	radix := big.NewInt(int64(e.radix))
	matched := 0
	for _, k := range e.cells {
		digit := 0
		if a, ok := def.Table[k]; ok {
			d, legal := e.option[a]
			if !legal {
				return nil, fmt.Errorf("%w: action %s at (%s, %s)", ErrIncompatibleDefinition, a, k.State, k.Symbol)
			}
			digit = d
			matched++
		}
		index.Mul(index, radix)
		index.Add(index, big.NewInt(int64(digit)))
	}
	if matched != len(def.Table) {
		return nil, fmt.Errorf("%w: table has entries outside the enumerated cells", ErrIncompatibleDefinition)
	}
	return index, nil
}

func (e *Enumerator) compatible(def *domain.Definition) bool {
	return def != nil &&
		def.Blank == e.frame.Blank &&
		slices.Equal(def.States, e.frame.States) &&
		slices.Equal(def.Alphabet, e.frame.Alphabet) &&
		slices.Equal(def.Finals, e.frame.Finals)
}

// build turns one digit per cell into a definition.
func (e *Enumerator) build(digits []int) *domain.Definition {
	table := make(domain.Table, len(digits))
	for i, d := range digits {
		if d == 0 {
			continue
		}
		table[e.cells[i]] = e.options[d-1]
	}
	def, err := e.frame.WithTable(table)
	if err != nil {
		// Every option is drawn from the validated frame.
		panic(fmt.Sprintf("enumerate: generated an invalid table: %v", err))
	}
	return def
}

// All iterates over every definition in order. Calling All again restarts
// the enumeration from index 0.
func (e *Enumerator) All() iter.Seq2[uint64, *domain.Definition] {
	return e.Range(0, math.MaxUint64)
}

// Range iterates over at most count definitions starting at index start.
// It yields nothing if start is out of range.
func (e *Enumerator) Range(start, count uint64) iter.Seq2[uint64, *domain.Definition] {
	return func(yield func(uint64, *domain.Definition) bool) {
		if count == 0 {
			return
		}
		c, err := e.NewCursor(start)
		if err != nil {
			return
		}
		for n := uint64(0); n < count; n++ {
			index, def, ok := c.Next()
			if !ok || !yield(index, def) {
				return
			}
		}
	}
}

// Machines iterates over runnable machines for the definitions in
// [from, from+count), each starting in start with initial under the head.
func (e *Enumerator) Machines(from, count uint64, start domain.State, initial domain.Symbol) (iter.Seq2[uint64, domain.Machine], error) {
	if _, err := domain.NewMachine(e.frame, start, initial); err != nil {
		return nil, err
	}
	return func(yield func(uint64, domain.Machine) bool) {
		for index, def := range e.Range(from, count) {
			m := domain.Machine{
				Def:   def,
				State: start,
				Tape:  domain.NewTape(def.Blank, initial),
			}
			if !yield(index, m) {
				return
			}
		}
	}, nil
}
