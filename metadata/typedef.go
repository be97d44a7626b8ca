package metadata

import "github.com/saferwall/clrmeta/identity"

// TypeDefOrRef is the coded-index target every class/value-type signature,
// every TypeReference scope-of-nesting, and every TypeSpecification's
// element ultimately names: a type definition, a type reference, or a type
// specification. It is the closed sum type §9 calls for ("the set of kinds
// is fixed by ECMA-335").
type TypeDefOrRef interface {
	isTypeDefOrRef()
	// TypeName returns the (namespace, name) pair used for byte-exact
	// comparisons during resolution and structural comparison.
	TypeName() (namespace identity.OptionalString, name identity.Utf8String)
}

// TypeAttributes is the TypeDef table's Flags column (ECMA-335 §II.23.1.15):
// visibility, layout and semantics bits.
type TypeAttributes uint32

// Visibility sub-field (low 3 bits, plus nested-visibility values 1-7).
const (
	VisibilityNotPublic           TypeAttributes = 0x0
	VisibilityPublic              TypeAttributes = 0x1
	VisibilityNestedPublic        TypeAttributes = 0x2
	VisibilityNestedPrivate       TypeAttributes = 0x3
	VisibilityNestedFamily        TypeAttributes = 0x4
	VisibilityNestedAssembly      TypeAttributes = 0x5
	VisibilityNestedFamANDAssem   TypeAttributes = 0x6
	VisibilityNestedFamORAssem    TypeAttributes = 0x7
	visibilityMask                TypeAttributes = 0x7
)

// Layout sub-field.
const (
	LayoutAuto      TypeAttributes = 0x00000000
	LayoutSequential TypeAttributes = 0x00000008
	LayoutExplicit  TypeAttributes = 0x00000010
	layoutMask      TypeAttributes = 0x00000018
)

// Semantics bits relevant to compatibility/assignability (§4.3).
const (
	SemanticsInterface TypeAttributes = 0x00000020
	SemanticsAbstract  TypeAttributes = 0x00000080
	SemanticsSealed    TypeAttributes = 0x00000100
)

// Visibility extracts the visibility sub-field.
func (f TypeAttributes) Visibility() TypeAttributes { return f & visibilityMask }

// IsPublic reports whether the type is visible outside its assembly
// (top-level public, or a chain of nested-public visibilities — callers
// walking nesting must check each level themselves; this reports only this
// type's own flag).
func (f TypeAttributes) IsPublic() bool { return f.Visibility() == VisibilityPublic }

// IsNested reports whether the visibility sub-field denotes a nested type.
func (f TypeAttributes) IsNested() bool {
	switch f.Visibility() {
	case VisibilityNestedPublic, VisibilityNestedPrivate, VisibilityNestedFamily,
		VisibilityNestedAssembly, VisibilityNestedFamANDAssem, VisibilityNestedFamORAssem:
		return true
	default:
		return false
	}
}

// IsInterface reports the Interface semantics bit — §4.3's
// directBaseClass returns System.Object for interfaces.
func (f TypeAttributes) IsInterface() bool { return f&SemanticsInterface != 0 }

// IsAbstract reports the Abstract semantics bit.
func (f TypeAttributes) IsAbstract() bool { return f&SemanticsAbstract != 0 }

// IsSealed reports the Sealed semantics bit.
func (f TypeAttributes) IsSealed() bool { return f&SemanticsSealed != 0 }

// GenericParameter is one entry of a generic type or method's parameter
// list (ECMA-335 §II.22.20); Variance matters to §4.3's variance-aware
// compatibility check.
type GenericParameter struct {
	Index    uint16
	Name     identity.Utf8String
	Variance Variance
	Constraints []TypeDefOrRef
}

// Variance is a generic parameter's declared variance (ECMA-335
// §II.23.1.13 CorGenericParamAttr low 2 bits).
type Variance byte

// Variance values. Unknown variance (any value outside these three) is
// treated as NonVariant per §4.3 "unknown variance is treated as
// non-variant".
const (
	NonVariant   Variance = 0
	Covariant    Variance = 1
	Contravariant Variance = 2
)

// TypeDefinition is a type declared in some module: the full metadata model
// entity §3 describes ("adds visibility/layout/semantics flags, base type,
// declared fields/methods/properties/events/nested types/interfaces/generic
// parameters, and a back-reference to its declaring module").
type TypeDefinition struct {
	Namespace identity.OptionalString
	Name      identity.Utf8String
	Attributes TypeAttributes

	// BaseType is nil for System.Object and for interfaces (whose effective
	// base, per §4.3, is System.Object even though this field is nil on
	// disk).
	BaseType TypeDefOrRef

	Fields       []*FieldDefinition
	Methods      []*MethodDefinition
	Interfaces   []TypeDefOrRef
	NestedTypes  []*TypeDefinition
	GenericParameters []*GenericParameter

	module          *ModuleDefinition
	declaringType   *TypeDefinition // non-nil for a nested type
}

func (*TypeDefinition) isTypeDefOrRef() {}
func (*TypeDefinition) isMemberParent() {}

// NewTypeDefinition constructs a type with no members yet.
func NewTypeDefinition(ns identity.OptionalString, name identity.Utf8String, attrs TypeAttributes) *TypeDefinition {
	return &TypeDefinition{Namespace: ns, Name: name, Attributes: attrs}
}

// TypeName implements TypeDefOrRef.
func (t *TypeDefinition) TypeName() (identity.OptionalString, identity.Utf8String) {
	return t.Namespace, t.Name
}

// Module returns the declaring module.
func (t *TypeDefinition) Module() *ModuleDefinition { return t.module }

// DeclaringType returns the enclosing type for a nested type, or nil for a
// top-level type.
func (t *TypeDefinition) DeclaringType() *TypeDefinition { return t.declaringType }

// IsTypeOf reports byte-exact (namespace, name) equality, the comparison
// §4.4.1's module search and §4.2's class/value-type equality both need.
func (t *TypeDefinition) IsTypeOf(ns, name string) bool {
	return string(t.Name) == name && string(t.Namespace.Value()) == ns
}

// AddNestedType appends a nested type and stamps its declaring-type and
// declaring-module back-pointers (a nested type belongs to the same module
// as its enclosing type).
func (t *TypeDefinition) AddNestedType(n *TypeDefinition) {
	n.declaringType = t
	n.module = t.module
	t.NestedTypes = append(t.NestedTypes, n)
}

// FindNestedType performs the byte-exact search §4.4.1 "search nested types
// of the result" describes.
func (t *TypeDefinition) FindNestedType(ns, name string) *TypeDefinition {
	for _, n := range t.NestedTypes {
		if n.IsTypeOf(ns, name) {
			return n
		}
	}
	return nil
}

// AddField appends a field and stamps its declaring-type back-pointer.
func (t *TypeDefinition) AddField(f *FieldDefinition) {
	f.declaringType = t
	t.Fields = append(t.Fields, f)
}

// AddMethod appends a method and stamps its declaring-type back-pointer.
func (t *TypeDefinition) AddMethod(m *MethodDefinition) {
	m.declaringType = t
	t.Methods = append(t.Methods, m)
}

// TypeSpecification wraps a TypeSignature so it can appear anywhere a
// TypeDefOrRef is expected (e.g. as a MemberReference's parent, or the base
// type of a generic instantiation). §3's "a type-specification's embedded
// signature is immutable through its identity hash" invariant is enforced
// by never exposing a setter for Signature once constructed.
type TypeSpecification struct {
	signature TypeSignature
}

func (*TypeSpecification) isTypeDefOrRef() {}
func (*TypeSpecification) isMemberParent() {}

// NewTypeSpecification wraps sig.
func NewTypeSpecification(sig TypeSignature) *TypeSpecification {
	return &TypeSpecification{signature: sig}
}

// Signature returns the wrapped type signature.
func (s *TypeSpecification) Signature() TypeSignature { return s.signature }

// TypeName delegates to the wrapped signature's own notion of a display
// name when it has a class/value-type identity, or returns (None, "") for
// structural signatures (pointers, arrays, etc.) that have no name.
func (s *TypeSpecification) TypeName() (identity.OptionalString, identity.Utf8String) {
	if named, ok := s.signature.(interface {
		TypeName() (identity.OptionalString, identity.Utf8String)
	}); ok {
		return named.TypeName()
	}
	return identity.None, ""
}
