// Package comparer implements §4.2: structural equality and hashing of
// metadata entities and type signatures, with configurable strictness
// controlled by a Flags bitset. A Comparer is immutable once constructed
// (§5: "Signature comparers are immutable once constructed; sharing across
// threads is safe") and optionally carries a Context so exported-type
// forwarding participates transparently in comparison.
package comparer
