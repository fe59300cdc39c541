package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTape_ReadPastEndsIsBlank(t *testing.T) {
	tape := NewTape("0", "0")

	left := tape
	for range 5 {
		left = left.MoveLeft()
		assert.Equal(t, Symbol("0"), left.Read())
	}

	right := tape
	for range 5 {
		right = right.MoveRight()
		assert.Equal(t, Symbol("0"), right.Read())
	}
}

func TestTape_WriteThenRead(t *testing.T) {
	tape := NewTape("_", "_").Write("a").MoveRight().Write("b")
	for _, sym := range []Symbol{"x", "y", "_"} {
		assert.Equal(t, sym, tape.Write(sym).Read())
	}
}

func TestTape_MoveRoundTrip(t *testing.T) {
	writes := [][]Symbol{
		nil,
		{"1"},
		{"1", "0", "1"},
		{"1", "1", "1", "1", "0"},
	}

	for _, seq := range writes {
		// Lay the sequence out to the right, then come back a few cells.
		tape := NewTape("0", "0")
		for _, s := range seq {
			tape = tape.Write(s).MoveRight()
		}
		for range len(seq) / 2 {
			tape = tape.MoveLeft()
		}

		assert.Equal(t, tape.Read(), tape.MoveLeft().MoveRight().Read(), "L then R, writes %v", seq)
		assert.Equal(t, tape.Read(), tape.MoveRight().MoveLeft().Read(), "R then L, writes %v", seq)
		assert.True(t, tape.Equal(tape.MoveLeft().MoveRight()))
		assert.True(t, tape.Equal(tape.MoveRight().MoveLeft()))
	}
}

func TestTape_MoveLeftOnEmptyPushesCurrentRight(t *testing.T) {
	tape := NewTape("0", "1").MoveLeft()

	cells, head := tape.Cells()
	assert.Equal(t, []Symbol{"0", "1"}, cells)
	assert.Equal(t, 0, head)
	assert.Equal(t, "[0] 1", tape.String())
}

func TestTape_IsAValue(t *testing.T) {
	base := NewTape("0", "0").Write("1").MoveRight()

	a := base.Write("a").MoveLeft()
	b := base.Write("b").MoveLeft()

	// Both branches grew the right stack from the same parent.
	assert.Equal(t, "[1] a", a.String())
	assert.Equal(t, "[1] b", b.String())
	assert.Equal(t, "1 [0]", base.String())
}

func TestTape_Move(t *testing.T) {
	tape := NewTape("0", "1")

	moved, err := tape.Move(Left)
	require.NoError(t, err)
	assert.True(t, moved.Equal(tape.MoveLeft()))

	moved, err = tape.Move(Right)
	require.NoError(t, err)
	assert.True(t, moved.Equal(tape.MoveRight()))

	_, err = tape.Move(Move(0))
	assert.ErrorIs(t, err, ErrInvalidMovement)
	_, err = tape.Move(Move(9))
	assert.ErrorIs(t, err, ErrInvalidMovement)
}

func TestTape_CountAndNonBlank(t *testing.T) {
	tape := NewTape("0", "0")
	for range 3 {
		tape = tape.Write("1").MoveLeft()
	}

	assert.Equal(t, 4, tape.Len())
	assert.Equal(t, 3, tape.Count("1"))
	assert.Equal(t, 3, tape.NonBlank())
}

func TestTapeSnapshot_Restore(t *testing.T) {
	tape := NewTape("0", "0").Write("1").MoveRight().Write("1").MoveRight().MoveLeft().MoveLeft().MoveLeft()

	snap := tape.Snapshot()
	assert.Equal(t, []Symbol{"0", "1", "1", "0"}, snap.Cells)
	assert.Equal(t, 0, snap.Head)

	restored := snap.Restore()
	assert.True(t, tape.Equal(restored))
	assert.Equal(t, tape.String(), restored.String())

	assert.Equal(t, "[_]", TapeSnapshot{Blank: "_"}.Restore().String())
}

func TestTape_EqualIgnoresVisitedBlanks(t *testing.T) {
	tape := NewTape("0", "1")
	wider := tape.MoveLeft().MoveRight().MoveRight().MoveLeft()

	assert.Greater(t, wider.Len(), tape.Len())
	assert.True(t, tape.Equal(wider))
	assert.False(t, tape.Equal(wider.Write("0")))
	assert.False(t, tape.Equal(NewTape("_", "1")))
}
