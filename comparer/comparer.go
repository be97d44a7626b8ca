package comparer

import (
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// Context is the narrow slice of a runtime context a Comparer needs: the
// ability to follow an exported-type forwarder to its eventual target, so
// "exported-type references are resolved before comparing" (§4.2) without
// this package importing runtimectx (which itself binds a Comparer to
// itself — the dependency must run the other way).
type Context interface {
	// NormalizeTypeDefOrRef follows t through any exported-type forwarding
	// chain and returns the terminal definition. ok is false when t could
	// not be resolved (a failed lookup degrades to comparing t as-is,
	// matching §4.3's "failure during resolution yields a conservative
	// false rather than an error" posture carried into comparison, too).
	NormalizeTypeDefOrRef(t metadata.TypeDefOrRef) (metadata.TypeDefOrRef, bool)
}

// Comparer decides semantic equality of types and members across
// references and definitions (§4.2).
type Comparer struct {
	Flags   Flags
	Context Context
}

// New constructs a Comparer. ctx may be nil, in which case comparisons are
// structural as-written (§4.2: "When absent, comparisons are structural
// as-written").
func New(flags Flags, ctx Context) *Comparer {
	return &Comparer{Flags: flags, Context: ctx}
}

// EqualIdentity compares two assembly identities under c's Flags.
func (c *Comparer) EqualIdentity(a, b identity.Identity) bool {
	switch {
	case c.Flags.Has(VersionAgnostic):
		return identity.VersionAgnosticEqual(a, b)
	case c.Flags.Has(AllowNewerVersions):
		return identity.AllowNewerEqual(a, b)
	default:
		return identity.DefaultEqual(a, b)
	}
}

func (c *Comparer) normalize(t metadata.TypeDefOrRef) metadata.TypeDefOrRef {
	if c.Context == nil {
		return t
	}
	if n, ok := c.Context.NormalizeTypeDefOrRef(t); ok {
		return n
	}
	return t
}

// scopeIdentity extracts a comparable key for a resolution scope: an
// assembly identity for an AssemblyReference scope (compared under c's
// Flags), or the module pointer itself for a ModuleScope/free-standing
// TypeDefinition (same-module references are identity-equal only when they
// name literally the same module).
func (c *Comparer) scopeIdentity(scope metadata.ResolutionScope) (identity.Identity, *metadata.ModuleDefinition, bool) {
	switch s := scope.(type) {
	case *metadata.AssemblyReference:
		return s.Identity, nil, true
	case metadata.ModuleScope:
		return identity.Identity{}, s.Target, true
	case *metadata.TypeReference:
		// A nested-type parent scope; two such scopes compare equal only
		// through the enclosing TypeDefOrRef equality check, handled by the
		// caller (EqualTypeDefOrRef recurses into the parent reference
		// directly rather than trying to reduce it to an identity here).
		return identity.Identity{}, nil, false
	default:
		return identity.Identity{}, nil, false
	}
}

// EqualTypeDefOrRef compares two TypeDefOrRef values by (scope, namespace,
// name) after exported-type redirection (§4.2).
func (c *Comparer) EqualTypeDefOrRef(a, b metadata.TypeDefOrRef) bool {
	a = c.normalize(a)
	b = c.normalize(b)
	if a == b {
		return true
	}
	aNs, aName := a.TypeName()
	bNs, bName := b.TypeName()
	if aName != bName || !aNs.Equal(bNs) {
		return false
	}
	return c.equalOwningScope(a, b)
}

// equalOwningScope compares the effective declaring scope of two
// TypeDefOrRef values once their names already matched: a TypeDefinition's
// scope is its declaring module's assembly; a TypeReference's scope is its
// own explicit ResolutionScope; a TypeSpecification has no owning scope of
// its own (class/value-type equality never reaches one directly, since
// TypeSpecification wraps a signature, not a name) and so is treated as
// equal whenever the names already matched, mirroring "structural as
// written" comparison for unresolved cases.
func (c *Comparer) equalOwningScope(a, b metadata.TypeDefOrRef) bool {
	aScope, aOK := c.scopeOf(a)
	bScope, bOK := c.scopeOf(b)
	if !aOK || !bOK {
		return true
	}
	return c.equalScope(aScope, bScope)
}

func (c *Comparer) scopeOf(t metadata.TypeDefOrRef) (metadata.ResolutionScope, bool) {
	switch v := t.(type) {
	case *metadata.TypeDefinition:
		m := v.Module()
		if m == nil {
			return nil, false
		}
		return metadata.ModuleScope{Target: m}, true
	case *metadata.TypeReference:
		return v.Scope(), true
	default:
		return nil, false
	}
}

func (c *Comparer) equalScope(a, b metadata.ResolutionScope) bool {
	if nestedA, ok := a.(*metadata.TypeReference); ok {
		nestedB, ok := b.(*metadata.TypeReference)
		if !ok {
			return false
		}
		return c.EqualTypeDefOrRef(nestedA, nestedB)
	}
	aID, aMod, aOK := c.scopeIdentity(a)
	bID, bMod, bOK := c.scopeIdentity(b)
	if !aOK || !bOK {
		return false
	}
	if aMod != nil || bMod != nil {
		return aMod == bMod
	}
	return c.EqualIdentity(aID, bID)
}
