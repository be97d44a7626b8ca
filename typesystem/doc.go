// Package typesystem implements ECMA-335 I.8.7's compatibility and
// assignability operations over type signatures: the reduced/verification/
// intermediate type projections, direct base class and interface lookup
// with generic substitution, and the directly-compatible/compatible/
// assignable-to predicates §4.3 specifies. Every operation that needs to
// resolve a reference takes a resolver so this package never imports
// runtimectx (the same cycle-avoidance shape comparer.Context uses).
package typesystem
