package metadata

import "github.com/saferwall/clrmeta/identity"

// ResolutionScope is the root of a type reference (§3 "Resolution scope"):
// an assembly reference, the current module, another module in the same
// assembly, or a type reference acting as a nested-type parent. It is a
// closed sum type; isResolutionScope is the unexported marker every
// implementation carries so no package outside metadata can add a new kind.
type ResolutionScope interface {
	isResolutionScope()
}

// AssemblyReference is a resolution scope naming another assembly by
// identity. It is also valid as the root implementation of an ExportedType
// (§4.4.2) and as a MemberReference parent is reached only through a
// TypeReference, never directly.
type AssemblyReference struct {
	identity.Identity

	// owner is the module this reference was read from (for cache-key and
	// importer bookkeeping); it is nil for a free-floating reference the
	// caller constructed directly.
	owner *ModuleDefinition
}

func (*AssemblyReference) isResolutionScope()  {}
func (*AssemblyReference) isImplementation()   {}

// NewAssemblyReference builds a free-floating assembly reference.
func NewAssemblyReference(id identity.Identity) *AssemblyReference {
	return &AssemblyReference{Identity: id}
}

// Module returns the module this reference was read from, or nil.
func (r *AssemblyReference) Module() *ModuleDefinition { return r.owner }

// ModuleScope is a resolution scope naming "the current module" or another
// module belonging to the same assembly (§3 distinguishes "the current
// module" from "another module in the same assembly"; both resolve to a
// *ModuleDefinition so they share this wrapper).
type ModuleScope struct {
	Target *ModuleDefinition
}

func (ModuleScope) isResolutionScope() {}

// TypeReference is a resolution scope (when used as a nested-type parent),
// a TypeDefOrRef, and a MemberReference parent. scope is TypeReference's own
// root scope; it may itself be another TypeReference (nested within
// nested), an AssemblyReference, or a ModuleScope.
type TypeReference struct {
	scope     ResolutionScope
	Namespace identity.OptionalString
	Name      identity.Utf8String

	owner *ModuleDefinition
}

func (*TypeReference) isResolutionScope() {}
func (*TypeReference) isTypeDefOrRef()    {}
func (*TypeReference) isMemberParent()    {}

// NewTypeReference builds a type reference rooted at scope. scope must not
// be nil and must not be tr itself (§3's "every reference names a valid
// resolution scope that is not the reference itself" invariant is the
// caller's to uphold; NewTypeReference cannot self-reference before
// construction completes).
func NewTypeReference(scope ResolutionScope, ns identity.OptionalString, name identity.Utf8String) *TypeReference {
	return &TypeReference{scope: scope, Namespace: ns, Name: name}
}

// Scope returns the reference's root resolution scope.
func (r *TypeReference) Scope() ResolutionScope { return r.scope }

// Module returns the module this reference was read from, or nil for a
// free-floating reference.
func (r *TypeReference) Module() *ModuleDefinition { return r.owner }

// IsTypeOf reports whether the reference's (namespace, name) match ns/name
// exactly (byte-exact UTF-8 equality, per §4.4.1's "search inside a
// module"). An absent namespace compares equal to the empty string.
func (r *TypeReference) IsTypeOf(ns, name string) bool {
	return string(r.Name) == name && string(r.Namespace.Value()) == ns
}

// TypeName implements TypeDefOrRef.
func (r *TypeReference) TypeName() (identity.OptionalString, identity.Utf8String) {
	return r.Namespace, r.Name
}
