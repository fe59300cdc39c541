/*
Package enumerate generates every transition table for a fixed state set,
alphabet and set of final states.

# Order

A table is a choice of one option per cell. Cells are ordered symbol-major:
for each symbol of the alphabet (in the given order), every non-final state (in
the given order). Each cell has |Γ|·2·|Q| + 1 options:

	0                       no transition
	1 + (w·2 + m)·|Q| + n   write Γ[w], move Moves[m] (Left, Right), go to Q[n]

Tables are numbered as mixed-radix integers whose most significant digit is
the first cell, which is the order a nested Cartesian product would produce:
the last cell varies fastest. Index 0 is the empty table.

The space has (|Γ|·2·|Q| + 1)^(|Γ|·|Q−F|) elements, so nothing is materialised:
definitions are built on demand from an index or by advancing a cursor.
*/
package enumerate
