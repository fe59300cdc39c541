package domain

import "strings"

// cell is a node of an immutable stack. Stacks are shared freely between
// tapes; nothing ever writes to a cell after it is created.
type cell struct {
	sym  Symbol
	next *cell
}

// Tape is a doubly-infinite band of symbols with a read/write head.
//
// Only the visited window is stored: left and right are stacks holding the
// cells on either side of the head, nearest cell on top. Positions beyond
// either stack read as the blank symbol. Tape is a value type; every operation
// returns a new tape and leaves the receiver untouched, so snapshots can be
// kept and branched from at no cost.
type Tape struct {
	left    *cell
	right   *cell
	current Symbol
	blank   Symbol
	lenL    int
	lenR    int
}

// NewTape returns a tape whose head sits on initial and every other cell is blank.
func NewTape(blank, initial Symbol) Tape {
	return Tape{current: initial, blank: blank}
}

// Read returns the symbol under the head.
func (t Tape) Read() Symbol {
	return t.current
}

// Blank returns the symbol of unvisited cells.
func (t Tape) Blank() Symbol {
	return t.blank
}

// Write returns a tape identical to t except that the head cell holds s.
func (t Tape) Write(s Symbol) Tape {
	t.current = s
	return t
}

// MoveLeft shifts the head one cell to the left.
func (t Tape) MoveLeft() Tape {
	next := t.blank
	if t.left != nil {
		next = t.left.sym
		t.left = t.left.next
		t.lenL--
	}
	t.right = &cell{sym: t.current, next: t.right}
	t.lenR++
	t.current = next
	return t
}

// MoveRight shifts the head one cell to the right.
func (t Tape) MoveRight() Tape {
	next := t.blank
	if t.right != nil {
		next = t.right.sym
		t.right = t.right.next
		t.lenR--
	}
	t.left = &cell{sym: t.current, next: t.left}
	t.lenL++
	t.current = next
	return t
}

// Move applies m. Movements other than Left and Right are rejected with
// ErrInvalidMovement and never coerced.
func (t Tape) Move(m Move) (Tape, error) {
	switch m {
	case Left:
		return t.MoveLeft(), nil
	case Right:
		return t.MoveRight(), nil
	}
	return t, m.Validate()
}

// Cells materialises the visited window from left to right and returns the
// position of the head within it.
func (t Tape) Cells() ([]Symbol, int) {
	out := make([]Symbol, t.lenL+1+t.lenR)
	i := t.lenL - 1
	for c := t.left; c != nil; c = c.next {
		out[i] = c.sym
		i--
	}
	out[t.lenL] = t.current
	i = t.lenL + 1
	for c := t.right; c != nil; c = c.next {
		out[i] = c.sym
		i++
	}
	return out, t.lenL
}

// Len returns the size of the visited window.
func (t Tape) Len() int {
	return t.lenL + 1 + t.lenR
}

// Count returns how many cells of the visited window hold s.
func (t Tape) Count(s Symbol) int {
	n := 0
	if t.current == s {
		n++
	}
	for c := t.left; c != nil; c = c.next {
		if c.sym == s {
			n++
		}
	}
	for c := t.right; c != nil; c = c.next {
		if c.sym == s {
			n++
		}
	}
	return n
}

// NonBlank returns how many cells hold a symbol other than blank.
func (t Tape) NonBlank() int {
	return t.Len() - t.Count(t.blank)
}

// Equal reports whether both tapes hold the same symbol at every position
// relative to the head. A visited blank cell and an unvisited one are
// indistinguishable, so the size of the stored windows does not matter.
func (t Tape) Equal(o Tape) bool {
	if t.blank != o.blank || t.current != o.current {
		return false
	}
	return sameSide(t.left, o.left, t.blank) && sameSide(t.right, o.right, t.blank)
}

func sameSide(a, b *cell, blank Symbol) bool {
	for a != nil || b != nil {
		if a == b {
			return true
		}
		sa, sb := blank, blank
		if a != nil {
			sa, a = a.sym, a.next
		}
		if b != nil {
			sb, b = b.sym, b.next
		}
		if sa != sb {
			return false
		}
	}
	return true
}

// String renders the visited window with the head cell in brackets.
func (t Tape) String() string {
	cells, head := t.Cells()
	var sb strings.Builder
	for i, s := range cells {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == head {
			sb.WriteByte('[')
			sb.WriteString(string(s))
			sb.WriteByte(']')
			continue
		}
		sb.WriteString(string(s))
	}
	return sb.String()
}

// TapeSnapshot is a serialisable view of a tape.
type TapeSnapshot struct {
	Blank Symbol   `json:"blank" yaml:"blank"`
	Cells []Symbol `json:"cells" yaml:"cells"`
	Head  int      `json:"head" yaml:"head"`
}

// Snapshot captures the tape's visited window.
func (t Tape) Snapshot() TapeSnapshot {
	cells, head := t.Cells()
	return TapeSnapshot{Blank: t.blank, Cells: cells, Head: head}
}

// Restore rebuilds the tape described by the snapshot. An empty snapshot
// yields a blank tape; a head outside the window is clamped to it.
func (s TapeSnapshot) Restore() Tape {
	if len(s.Cells) == 0 {
		return NewTape(s.Blank, s.Blank)
	}
	head := min(max(s.Head, 0), len(s.Cells)-1)

	t := Tape{blank: s.Blank, current: s.Cells[head]}
	for i := 0; i < head; i++ {
		t.left = &cell{sym: s.Cells[i], next: t.left}
		t.lenL++
	}
	for i := len(s.Cells) - 1; i > head; i-- {
		t.right = &cell{sym: s.Cells[i], next: t.right}
		t.lenR++
	}
	return t
}
