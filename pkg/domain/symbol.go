package domain

// Symbol is a tape symbol drawn from a finite alphabet.
type Symbol string

// State names a configuration of the control unit.
type State string
