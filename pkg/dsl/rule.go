package dsl

import "github.com/aretw0/busybeaver/pkg/domain"

// RuleBuilder provides a fluent API for one transition table entry.
// The rule is committed to the table by Goto.
type RuleBuilder struct {
	builder *Builder
	key     domain.Key
	action  domain.Action
	written bool
}

// Write sets the symbol written before moving.
// If omitted, the rule writes back the symbol it read.
func (r *RuleBuilder) Write(s domain.Symbol) *RuleBuilder {
	r.action.Write = s
	r.written = true
	return r
}

// Left moves the head left after writing.
func (r *RuleBuilder) Left() *RuleBuilder {
	r.action.Move = domain.Left
	return r
}

// Right moves the head right after writing.
func (r *RuleBuilder) Right() *RuleBuilder {
	r.action.Move = domain.Right
	return r
}

// Move sets the movement explicitly.
func (r *RuleBuilder) Move(m domain.Move) *RuleBuilder {
	r.action.Move = m
	return r
}

// Goto sets the next state and commits the rule.
func (r *RuleBuilder) Goto(next domain.State) *Builder {
	r.action.Next = next
	if !r.written {
		r.action.Write = r.key.Symbol
	}
	r.builder.add(r.key, r.action)
	return r.builder
}
