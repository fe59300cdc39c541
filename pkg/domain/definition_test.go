package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binary() ([]State, []Symbol) {
	return []State{"A", "B", "H"}, []Symbol{"0", "1"}
}

func TestNewDefinition_Valid(t *testing.T) {
	states, alphabet := binary()
	def, err := NewDefinition(states, alphabet, "0", []State{"H"}, Table{
		{"A", "0"}: {Write: "1", Move: Right, Next: "B"},
		{"B", "1"}: {Write: "0", Move: Left, Next: "H"},
	})
	require.NoError(t, err)

	assert.True(t, def.IsFinal("H"))
	assert.False(t, def.IsFinal("A"))
	assert.Equal(t, []State{"A", "B"}, def.NonFinal())

	a, ok := def.Lookup("A", "0")
	assert.True(t, ok)
	assert.Equal(t, State("B"), a.Next)

	_, ok = def.Lookup("A", "1")
	assert.False(t, ok, "missing entries mean no transition")

	assert.Equal(t, []Key{{"A", "0"}, {"B", "1"}}, def.Keys())
}

func TestNewDefinition_Malformed(t *testing.T) {
	states, alphabet := binary()
	finals := []State{"H"}

	tests := []struct {
		name     string
		states   []State
		alphabet []Symbol
		blank    Symbol
		finals   []State
		table    Table
		movement bool
	}{
		{name: "empty states", alphabet: alphabet, blank: "0"},
		{name: "empty alphabet", states: states, blank: "0"},
		{name: "duplicate state", states: []State{"A", "A"}, alphabet: alphabet, blank: "0"},
		{name: "duplicate symbol", states: states, alphabet: []Symbol{"0", "0"}, blank: "0"},
		{name: "blank outside alphabet", states: states, alphabet: alphabet, blank: "_"},
		{name: "final outside states", states: states, alphabet: alphabet, blank: "0", finals: []State{"Z"}},
		{
			name: "unknown origin state", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table: Table{{"Z", "0"}: {Write: "1", Move: Right, Next: "A"}},
		},
		{
			name: "unknown read symbol", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table: Table{{"A", "2"}: {Write: "1", Move: Right, Next: "A"}},
		},
		{
			name: "transition out of final", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table: Table{{"H", "0"}: {Write: "1", Move: Right, Next: "A"}},
		},
		{
			name: "unknown write symbol", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table: Table{{"A", "0"}: {Write: "7", Move: Right, Next: "A"}},
		},
		{
			name: "unknown next state", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table: Table{{"A", "0"}: {Write: "1", Move: Right, Next: "Q"}},
		},
		{
			name: "invalid movement", states: states, alphabet: alphabet, blank: "0", finals: finals,
			table:    Table{{"A", "0"}: {Write: "1", Move: Move(5), Next: "A"}},
			movement: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefinition(tt.states, tt.alphabet, tt.blank, tt.finals, tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDefinition)

			var mde *MalformedDefinitionError
			assert.True(t, errors.As(err, &mde))
			assert.Equal(t, tt.movement, errors.Is(err, ErrInvalidMovement))
		})
	}
}

func TestDefinition_WithTableSharesFrame(t *testing.T) {
	states, alphabet := binary()
	frame, err := NewDefinition(states, alphabet, "0", []State{"H"}, nil)
	require.NoError(t, err)
	assert.Empty(t, frame.Table)

	def, err := frame.WithTable(Table{{"A", "1"}: {Write: "1", Move: Left, Next: "H"}})
	require.NoError(t, err)
	assert.Len(t, def.Table, 1)
	assert.Empty(t, frame.Table, "frame must not change")

	_, err = frame.WithTable(Table{{"H", "1"}: {Write: "1", Move: Left, Next: "A"}})
	assert.ErrorIs(t, err, ErrMalformedDefinition)
}

func TestDefinition_LiteralWithoutConstructor(t *testing.T) {
	lit := &Definition{
		States:   []State{"A", "H"},
		Alphabet: []Symbol{"0"},
		Blank:    "0",
		Finals:   []State{"H"},
	}
	assert.True(t, lit.IsFinal("H"))
	assert.True(t, lit.HasState("A"))
	assert.False(t, lit.HasSymbol("1"))

	def, err := lit.WithTable(Table{{"A", "0"}: {Write: "0", Move: Right, Next: "H"}})
	require.NoError(t, err)
	assert.True(t, def.IsFinal("H"))
}

func TestNewMachine(t *testing.T) {
	states, alphabet := binary()
	def, err := NewDefinition(states, alphabet, "0", []State{"H"}, nil)
	require.NoError(t, err)

	m, err := NewMachine(def, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, State("A"), m.State)
	assert.Equal(t, Symbol("1"), m.Tape.Read())
	assert.Equal(t, Symbol("0"), m.Tape.Blank())
	assert.False(t, m.IsFinal())

	_, err = NewMachine(def, "Z", "0")
	assert.ErrorIs(t, err, ErrMalformedDefinition)
	_, err = NewMachine(def, "A", "x")
	assert.ErrorIs(t, err, ErrMalformedDefinition)
	_, err = NewMachine(nil, "A", "0")
	assert.ErrorIs(t, err, ErrMalformedDefinition)
}
