package dto

import (
	"errors"
	"testing"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const machineYAML = `
name: flip
description: writes a one and halts
states: [A, H]
alphabet: [0, 1]
blank: 0
finals: [H]
start: A
transitions:
  - {state: A, read: 0, write: 1, move: R, next: H}
`

func TestDecode_WeaklyTypedYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(machineYAML), &doc))

	var m Machine
	require.NoError(t, Decode(doc, &m))
	assert.Equal(t, "flip", m.Name)
	assert.Equal(t, []string{"0", "1"}, m.Alphabet)
	assert.Equal(t, "0", m.Blank)
	require.Len(t, m.Transitions, 1)
	assert.Equal(t, Transition{State: "A", Read: "0", Write: "1", Move: "R", Next: "H"}, m.Transitions[0])

	machine, err := m.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.State("A"), machine.State)
	assert.Equal(t, domain.Symbol("0"), machine.Tape.Read())
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	var m Machine
	err := Decode(map[string]any{"name": "x", "stat": []string{"A"}}, &m)
	assert.Error(t, err)
}

func TestDefinition_RoundTrip(t *testing.T) {
	def, err := domain.NewDefinition(
		[]domain.State{"A", "B", "H"},
		[]domain.Symbol{"0", "1"},
		"0",
		[]domain.State{"H"},
		domain.Table{
			{State: "B", Symbol: "1"}: {Write: "0", Move: domain.Left, Next: "H"},
			{State: "A", Symbol: "0"}: {Write: "1", Move: domain.Right, Next: "B"},
		},
	)
	require.NoError(t, err)

	flat := FromDefinition(def)
	assert.Equal(t, "A", flat.Transitions[0].State, "transitions are ordered by state")
	assert.Equal(t, "R", flat.Transitions[0].Move)

	back, err := flat.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, def.Table, back.Table)
	assert.Equal(t, def.States, back.States)
}

func TestDefinition_ToDomainErrors(t *testing.T) {
	base := Definition{States: []string{"A"}, Alphabet: []string{"0"}}

	bad := base
	bad.Transitions = []Transition{{State: "A", Read: "0", Write: "0", Move: "up", Next: "A"}}
	_, err := bad.ToDomain()
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)

	dup := base
	dup.Transitions = []Transition{
		{State: "A", Read: "0", Write: "0", Move: "L", Next: "A"},
		{State: "A", Read: "0", Write: "0", Move: "R", Next: "A"},
	}
	_, err = dup.ToDomain()
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
}

func TestRecord_RoundTrip(t *testing.T) {
	def, err := domain.NewDefinition([]domain.State{"A"}, []domain.Symbol{"0", "1"}, "0", nil, nil)
	require.NoError(t, err)
	m, err := domain.NewMachine(def, "A", "1")
	require.NoError(t, err)
	m.Tape = m.Tape.MoveLeft()

	rec := domain.Record{
		Index: 42,
		Result: domain.RunResult{
			Machine:   m,
			Remaining: 7,
			Steps:     3,
			Outcome:   domain.OutcomeStuck,
		},
		Err: errors.New("boom"),
	}

	back, err := FromRecord(rec).ToDomain()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), back.Index)
	assert.Equal(t, rec.Result.Outcome, back.Result.Outcome)
	assert.Equal(t, 7, back.Result.Remaining)
	assert.True(t, m.Tape.Equal(back.Result.Machine.Tape))
	assert.EqualError(t, back.Err, "boom")
	require.NotNil(t, back.Result.Machine.Def)
	assert.Equal(t, def.Alphabet, back.Result.Machine.Def.Alphabet)
}
