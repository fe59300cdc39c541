package domain

import (
	"fmt"
	"strings"
)

// Move is the head movement performed after a write.
// The zero value is not a valid movement.
type Move int8

const (
	Left Move = iota + 1
	Right
)

// Moves lists the valid movements in enumeration order.
var Moves = []Move{Left, Right}

// Validate returns ErrInvalidMovement for anything other than Left or Right.
func (m Move) Validate() error {
	switch m {
	case Left, Right:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidMovement, int8(m))
}

func (m Move) String() string {
	switch m {
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return fmt.Sprintf("Move(%d)", int8(m))
}

// ParseMove accepts "L", "R", "left" and "right" (case-insensitive).
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMovement, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Move) MarshalText() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
