/*
Package dsl provides a fluent Go builder for literal Turing machine definitions.

It lets callers spell out a transition table in code instead of loading it from a
YAML or JSON file. Everything is validated once, when Build is called, so a
definition that comes out of the builder is safe to run.

Example usage:

	def, err := dsl.New().
		States("A", "B", "HALT").
		Alphabet("0", "1").
		Blank("0").
		Finals("HALT").
		On("A", "0").Write("1").Right().Goto("B").
		On("A", "1").Write("1").Left().Goto("B").
		On("B", "0").Write("1").Left().Goto("A").
		On("B", "1").Write("1").Right().Goto("HALT").
		Build()
*/
package dsl
