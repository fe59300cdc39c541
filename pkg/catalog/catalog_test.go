package catalog

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"already-final", "bb2", "bb3", "no-transition"}, Names())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			m, err := Lookup(name)
			require.NoError(t, err)
			require.NotNil(t, m.Def)
			assert.True(t, m.Def.HasState(m.State))
		})
	}

	_, err := Lookup("bb99")
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)
}

func TestConstructorsReturnFreshDefinitions(t *testing.T) {
	a, b := BusyBeaver3(), BusyBeaver3()
	assert.NotSame(t, a.Def, b.Def)
	assert.Equal(t, a.Def.Table, b.Def.Table)
}

func TestFixtures(t *testing.T) {
	bb3 := BusyBeaver3()
	assert.Len(t, bb3.Def.Table, 6)
	assert.Equal(t, domain.State("A"), bb3.State)
	assert.Equal(t, []domain.State{"HALT"}, bb3.Def.Finals)

	nt := NoTransition()
	assert.Empty(t, nt.Def.Table)
	assert.Equal(t, domain.State("0"), nt.State)
	assert.True(t, nt.Def.IsFinal("1"))

	af := AlreadyFinal()
	assert.True(t, af.IsFinal())
	assert.Equal(t, domain.Symbol("1"), af.Tape.Read())
}

func TestLoad(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		e, err := Load(filepath.Join("testdata", "bb3.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "bb3-file", e.Name)

		m := e.New()
		assert.Equal(t, BusyBeaver3().Def.Table, m.Def.Table)
		assert.Equal(t, domain.State("A"), m.State)
	})

	t.Run("JSON with defaults", func(t *testing.T) {
		e, err := Load(filepath.Join("testdata", "flip.json"))
		require.NoError(t, err)
		assert.Equal(t, "flip", e.Name, "name falls back to the file name")

		m := e.New()
		assert.Equal(t, domain.State("A"), m.State)
		assert.Equal(t, domain.Symbol("_"), m.Tape.Read())
		a, ok := m.Def.Lookup("A", "_")
		require.True(t, ok)
		assert.Equal(t, domain.Left, a.Move)
	})

	t.Run("Malformed table is rejected at load time", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "final-out.yaml"))
		assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	e, err := Resolve("bb2")
	require.NoError(t, err)
	assert.Equal(t, "bb2", e.Name)

	e, err = Resolve(filepath.Join("testdata", "bb3.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "bb3-file", e.Name)

	_, err = Resolve("does-not-exist")
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	data, err := Marshal("bb2", BusyBeaver2())
	require.NoError(t, err)

	e, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "bb2", e.Name)
	assert.Equal(t, BusyBeaver2().Def.Table, e.New().Def.Table)
}
