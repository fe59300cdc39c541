package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Builder manages the construction of a machine definition.
type Builder struct {
	states   []domain.State
	alphabet []domain.Symbol
	blank    *domain.Symbol
	finals   []domain.State
	table    domain.Table

	start   *domain.State
	initial *domain.Symbol

	errs []error
}

// New creates a new definition builder.
func New() *Builder {
	return &Builder{
		table: make(domain.Table),
	}
}

// States appends to the state set, in enumeration order.
func (b *Builder) States(states ...domain.State) *Builder {
	b.states = append(b.states, states...)
	return b
}

// Alphabet appends to the alphabet, in enumeration order.
func (b *Builder) Alphabet(symbols ...domain.Symbol) *Builder {
	b.alphabet = append(b.alphabet, symbols...)
	return b
}

// Blank sets the blank symbol. It defaults to the first symbol of the alphabet.
func (b *Builder) Blank(s domain.Symbol) *Builder {
	b.blank = &s
	return b
}

// Finals appends to the set of final states.
func (b *Builder) Finals(states ...domain.State) *Builder {
	b.finals = append(b.finals, states...)
	return b
}

// Start sets the start state used by Machine. It defaults to the first state.
func (b *Builder) Start(q domain.State) *Builder {
	b.start = &q
	return b
}

// Initial sets the symbol under the head at start. It defaults to the blank.
func (b *Builder) Initial(s domain.Symbol) *Builder {
	b.initial = &s
	return b
}

// On starts a rule for the given state and read symbol.
func (b *Builder) On(q domain.State, read domain.Symbol) *RuleBuilder {
	return &RuleBuilder{
		builder: b,
		key:     domain.Key{State: q, Symbol: read},
	}
}

// Rule adds a complete rule in one call.
func (b *Builder) Rule(q domain.State, read, write domain.Symbol, move domain.Move, next domain.State) *Builder {
	return b.On(q, read).Write(write).Move(move).Goto(next)
}

func (b *Builder) add(k domain.Key, a domain.Action) {
	if _, dup := b.table[k]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate rule for (%s, %s)", k.State, k.Symbol))
		return
	}
	b.table[k] = a
}

// Build validates and compiles the definition.
func (b *Builder) Build() (*domain.Definition, error) {
	if len(b.errs) > 0 {
		return nil, &domain.MalformedDefinitionError{Reason: "builder", Cause: errors.Join(b.errs...)}
	}

	blank := domain.Symbol("")
	switch {
	case b.blank != nil:
		blank = *b.blank
	case len(b.alphabet) > 0:
		blank = b.alphabet[0]
	}

	def, err := domain.NewDefinition(b.states, b.alphabet, blank, b.finals, b.table.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to build definition: %w", err)
	}
	return def, nil
}

// Machine builds the definition and places it in its start configuration.
func (b *Builder) Machine() (domain.Machine, error) {
	def, err := b.Build()
	if err != nil {
		return domain.Machine{}, err
	}

	start := def.States[0]
	if b.start != nil {
		start = *b.start
	}
	initial := def.Blank
	if b.initial != nil {
		initial = *b.initial
	}
	return domain.NewMachine(def, start, initial)
}
