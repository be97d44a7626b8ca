package comparer

// Flags is the strictness bitset §4.2 defines.
type Flags uint32

// Flag bits. ExactVersion is the default (the zero value): all four
// version fields must match. VersionAgnostic and AllowNewerVersions loosen
// that; §9's open question about whether they are mutually exclusive or
// additive is resolved here as additive, with VersionAgnostic taking
// precedence when both are set (the stricter combination's loosest member
// wins is the wrong reading — VersionAgnostic is strictly looser than
// AllowNewerVersions, so testing it first never silently picks the
// stricter behavior a caller asked for).
const (
	ExactVersion       Flags = 0
	VersionAgnostic    Flags = 1 << 0
	AllowNewerVersions Flags = 1 << 1
)

// Has reports whether f sets all bits in other.
func (f Flags) Has(other Flags) bool { return f&other == other }
