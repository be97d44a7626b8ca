package identity

// AssemblyFlags is the bitmask carried in the Assembly/AssemblyRef table's
// Flags column (ECMA-335 §II.23.1.2).
type AssemblyFlags uint32

// Assembly flags.
const (
	// AssemblyFlagPublicKey marks that PublicKeyOrToken carries a full key
	// rather than a token.
	AssemblyFlagPublicKey AssemblyFlags = 0x0001
	// AssemblyFlagRetargetable marks the reference as retargetable: the
	// runtime may bind it to a different version/publisher at load time.
	AssemblyFlagRetargetable AssemblyFlags = 0x0100
	// AssemblyFlagDisableJITcompileOptimizer disables the JIT optimizer.
	AssemblyFlagDisableJITcompileOptimizer AssemblyFlags = 0x4000
	// AssemblyFlagEnableJITcompileTracking enables JIT tracking for the
	// debugger.
	AssemblyFlagEnableJITcompileTracking AssemblyFlags = 0x8000
)

// HasFullKey reports whether flags indicate PublicKeyOrToken carries a full
// public key.
func (f AssemblyFlags) HasFullKey() bool {
	return f&AssemblyFlagPublicKey != 0
}

// Identity is the `(name, version, culture, publicKeyOrToken, hasFullKey,
// flags)` tuple §3 defines. It is the value type compared by the default and
// version-agnostic comparers below, and it is what an AssemblyReference or
// AssemblyDefinition embeds to describe itself.
type Identity struct {
	Name    Utf8String        `json:"name"`
	Version Version           `json:"version"`
	Culture OptionalString    `json:"culture"`
	Key     PublicKeyOrToken  `json:"public_key_or_token"`
	Flags   AssemblyFlags     `json:"flags"`
}

// DefaultEqual compares two identities under the default (ExactVersion)
// comparer: name, version, culture and public-key-token must all match.
func DefaultEqual(a, b Identity) bool {
	return a.Name == b.Name &&
		a.Version == b.Version &&
		a.Culture.Equal(b.Culture) &&
		a.Key.Equal(b.Key)
}

// VersionAgnosticEqual compares two identities ignoring the version field —
// the comparison the runtime context's loaded-assembly table keys on.
func VersionAgnosticEqual(a, b Identity) bool {
	return a.Name == b.Name &&
		a.Culture.Equal(b.Culture) &&
		a.Key.Equal(b.Key)
}

// AllowNewerEqual compares two identities where a candidate `have` satisfies
// a reference `want` if all fields but version match and have.Version is at
// least want.Version (the AllowNewerVersions comparer flag).
func AllowNewerEqual(want, have Identity) bool {
	return want.Name == have.Name &&
		want.Culture.Equal(have.Culture) &&
		want.Key.Equal(have.Key) &&
		have.Version.GreaterOrEqual(want.Version)
}

// VersionAgnosticKey is the map key type the loaded-assembly table uses: an
// identity with its version field erased, so two identities differing only
// in version collide onto the same key (§3's "unique under the
// version-agnostic comparer" invariant becomes a Go map invariant for free).
type VersionAgnosticKey struct {
	Name    Utf8String
	Culture OptionalString
	Token   string // PublicKeyOrToken.Token(), as a comparable string.
}

// Key derives the version-agnostic cache key for an identity.
func (id Identity) Key() VersionAgnosticKey {
	return VersionAgnosticKey{
		Name:    id.Name,
		Culture: id.Culture,
		Token:   string(id.Key.Token()),
	}
}

// String renders a display-name-like form, e.g. "Foo, Version=1.0.0.0,
// Culture=neutral, PublicKeyToken=null".
func (id Identity) String() string {
	culture := "neutral"
	if id.Culture.Valid() && id.Culture.Value() != "" {
		culture = string(id.Culture.Value())
	}
	token := "null"
	if !id.Key.Empty() {
		token = hexString(id.Key.Token())
	}
	return string(id.Name) + ", Version=" + id.Version.String() +
		", Culture=" + culture + ", PublicKeyToken=" + token
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}
