package dto

import (
	"fmt"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Transition is the flat, file-friendly form of one table entry.
// It uses "mapstructure" tags so that YAML and JSON documents decode the same way.
type Transition struct {
	State string `json:"state" yaml:"state" mapstructure:"state"`
	Read  string `json:"read" yaml:"read" mapstructure:"read"`
	Write string `json:"write" yaml:"write" mapstructure:"write"`
	Move  string `json:"move" yaml:"move" mapstructure:"move"`
	Next  string `json:"next" yaml:"next" mapstructure:"next"`
}

// Definition is the serialisable form of domain.Definition.
type Definition struct {
	States      []string     `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet    []string     `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Blank       string       `json:"blank" yaml:"blank" mapstructure:"blank"`
	Finals      []string     `json:"finals" yaml:"finals" mapstructure:"finals"`
	Transitions []Transition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// Machine is a definition plus its start configuration, as stored in machine files.
type Machine struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Definition  `yaml:",inline" mapstructure:",squash"`
	Start       string `json:"start" yaml:"start" mapstructure:"start"`
	Initial     string `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
}

// FromDefinition flattens a definition. Transitions follow the definition's
// state and symbol orderings so the output is stable.
func FromDefinition(def *domain.Definition) Definition {
	out := Definition{
		States:      make([]string, len(def.States)),
		Alphabet:    make([]string, len(def.Alphabet)),
		Blank:       string(def.Blank),
		Finals:      make([]string, len(def.Finals)),
		Transitions: make([]Transition, 0, len(def.Table)),
	}
	for i, q := range def.States {
		out.States[i] = string(q)
	}
	for i, s := range def.Alphabet {
		out.Alphabet[i] = string(s)
	}
	for i, f := range def.Finals {
		out.Finals[i] = string(f)
	}
	for _, k := range def.Keys() {
		a := def.Table[k]
		out.Transitions = append(out.Transitions, Transition{
			State: string(k.State),
			Read:  string(k.Symbol),
			Write: string(a.Write),
			Move:  a.Move.String(),
			Next:  string(a.Next),
		})
	}
	return out
}

// ToDomain validates and builds the definition.
func (d Definition) ToDomain() (*domain.Definition, error) {
	table := make(domain.Table, len(d.Transitions))
	for i, t := range d.Transitions {
		move, err := domain.ParseMove(t.Move)
		if err != nil {
			return nil, &domain.MalformedDefinitionError{
				Reason: fmt.Sprintf("transition #%d (%s, %s)", i, t.State, t.Read),
				Cause:  err,
			}
		}
		k := domain.Key{State: domain.State(t.State), Symbol: domain.Symbol(t.Read)}
		if _, dup := table[k]; dup {
			return nil, &domain.MalformedDefinitionError{
				Reason: fmt.Sprintf("duplicate transition for (%s, %s)", t.State, t.Read),
			}
		}
		table[k] = domain.Action{
			Write: domain.Symbol(t.Write),
			Move:  move,
			Next:  domain.State(t.Next),
		}
	}

	blank := domain.Symbol(d.Blank)
	if d.Blank == "" && len(d.Alphabet) > 0 {
		blank = domain.Symbol(d.Alphabet[0])
	}

	return domain.NewDefinition(states(d.States), symbols(d.Alphabet), blank, states(d.Finals), table)
}

// ToDomain builds the machine in its start configuration.
// Start defaults to the first state and Initial to the blank symbol.
func (m Machine) ToDomain() (domain.Machine, error) {
	def, err := m.Definition.ToDomain()
	if err != nil {
		return domain.Machine{}, err
	}
	start := domain.State(m.Start)
	if m.Start == "" {
		start = def.States[0]
	}
	initial := domain.Symbol(m.Initial)
	if m.Initial == "" {
		initial = def.Blank
	}
	return domain.NewMachine(def, start, initial)
}

func states(in []string) []domain.State {
	out := make([]domain.State, len(in))
	for i, s := range in {
		out[i] = domain.State(s)
	}
	return out
}

func symbols(in []string) []domain.Symbol {
	out := make([]domain.Symbol, len(in))
	for i, s := range in {
		out[i] = domain.Symbol(s)
	}
	return out
}
