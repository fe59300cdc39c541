/*
Package domain contains the core data model of the busybeaver engine.

It defines the fundamental entities of a single-tape Turing machine: symbols and
states, the transition table, the immutable machine definition, the tape and the
per-step machine configuration. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Definition: the static machine (states, alphabet, blank, final states, table).
  - Tape: a doubly-infinite band of symbols; only the visited window is stored.
  - Machine: a Definition plus the current state and tape. Machines are values.
  - RunResult: the last configuration reached by a bounded run and its remaining budget.
  - Record: a RunResult tagged with its position in an enumeration.
*/
package domain
