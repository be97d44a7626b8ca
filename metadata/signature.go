package metadata

import "github.com/saferwall/clrmeta/identity"

// TypeSignature is the tree-shaped, blob-encoded type expression §3/§4.1
// describe: a closed sum type with one struct per ECMA-335 §II.23.2.12
// variant. isTypeSignature is the unexported marker that closes the set;
// Visitor (signature_visitor.go) is the sanctioned exhaustive-dispatch mechanism §4.1 calls
// for ("the visitor is the only sanctioned walker for consumers needing
// exhaustive case analysis").
type TypeSignature interface {
	isTypeSignature()
	// ElementType returns the tag this variant would serialize with first.
	ElementType() ElementType
	// Accept dispatches to the matching Visitor method.
	Accept(v Visitor) any
}

// CorLibTypeSignature is a primitive/corlib element type named by its
// ElementType byte alone (ECMA-335's "primitive" encoding: no further blob
// content follows the tag).
type CorLibTypeSignature struct {
	Element ElementType
}

func (*CorLibTypeSignature) isTypeSignature()            {}
func (s *CorLibTypeSignature) ElementType() ElementType  { return s.Element }
func (s *CorLibTypeSignature) Accept(v Visitor) any      { return v.VisitCorLibType(s) }

// TypeDefOrRefSignature wraps a coded-index reference to a TypeDef/TypeRef
// (ECMA-335's CLASS/VALUETYPE encoding): a named class or value type.
type TypeDefOrRefSignature struct {
	Type        TypeDefOrRef
	IsValueType bool
}

func (*TypeDefOrRefSignature) isTypeSignature() {}
func (s *TypeDefOrRefSignature) ElementType() ElementType {
	if s.IsValueType {
		return ElementTypeValueType
	}
	return ElementTypeClass
}
func (s *TypeDefOrRefSignature) Accept(v Visitor) any { return v.VisitTypeDefOrRef(s) }

// TypeName exposes the wrapped TypeDefOrRef's name, so a TypeSpecification
// around a class/value-type signature can report a display name (§4.2
// compares class/value types "by (scope, namespace, name)").
func (s *TypeDefOrRefSignature) TypeName() (identity.OptionalString, identity.Utf8String) {
	return s.Type.TypeName()
}

// PointerSignature is an unmanaged pointer to an inner type
// (ELEMENT_TYPE_PTR). Any custom modifiers ECMA-335 allows between PTR and
// its inner type are represented as CustomModifierSignature nodes wrapping
// Inner, not as a separate field — the grammar "PTR CustomMod* Type" is
// exactly "PTR Type'" where Type' recurses through CustomModifierSignature.
type PointerSignature struct {
	Inner TypeSignature
}

func (*PointerSignature) isTypeSignature()           {}
func (*PointerSignature) ElementType() ElementType    { return ElementTypePtr }
func (s *PointerSignature) Accept(v Visitor) any      { return v.VisitPointer(s) }

// ByReferenceSignature is a managed reference to an inner type
// (ELEMENT_TYPE_BYREF).
type ByReferenceSignature struct {
	Inner TypeSignature
}

func (*ByReferenceSignature) isTypeSignature()        {}
func (*ByReferenceSignature) ElementType() ElementType { return ElementTypeByRef }
func (s *ByReferenceSignature) Accept(v Visitor) any   { return v.VisitByReference(s) }

// PinnedSignature marks a local variable's type as pinned
// (ELEMENT_TYPE_PINNED); it only legally appears in a local-variable
// signature, never in a field/parameter/return signature, but is modeled
// generically since the core does not parse method bodies.
type PinnedSignature struct {
	Inner TypeSignature
}

func (*PinnedSignature) isTypeSignature()        {}
func (*PinnedSignature) ElementType() ElementType { return ElementTypePinned }
func (s *PinnedSignature) Accept(v Visitor) any   { return v.VisitPinned(s) }

// SzArraySignature is a single-dimension, zero-based array
// (ELEMENT_TYPE_SZARRAY) — what C#'s `T[]` compiles to. As with
// PointerSignature, any custom modifiers are represented as
// CustomModifierSignature nodes wrapping Element.
type SzArraySignature struct {
	Element TypeSignature
}

func (*SzArraySignature) isTypeSignature()        {}
func (*SzArraySignature) ElementType() ElementType { return ElementTypeSzArray }
func (s *SzArraySignature) Accept(v Visitor) any   { return v.VisitSzArray(s) }

// ArraySignature is a general multi-dimensional array
// (ELEMENT_TYPE_ARRAY) with explicit rank and optional per-dimension
// bounds/sizes (ECMA-335 §II.23.2.13).
type ArraySignature struct {
	Element     TypeSignature
	Rank        uint32
	Sizes       []uint32 // length <= Rank; missing entries are 0 (§4.2).
	LowerBounds []int32  // length <= Rank; missing entries are 0 (§4.2).
}

func (*ArraySignature) isTypeSignature()        {}
func (*ArraySignature) ElementType() ElementType { return ElementTypeArray }
func (s *ArraySignature) Accept(v Visitor) any   { return v.VisitArray(s) }

// GenericInstanceSignature is a closed generic type instantiation
// (ELEMENT_TYPE_GENERICINST): an open generic type plus concrete type
// arguments, each itself a TypeSignature (possibly another generic
// instance, recursively).
type GenericInstanceSignature struct {
	GenericType   TypeDefOrRef
	IsValueType   bool
	TypeArguments []TypeSignature
}

func (*GenericInstanceSignature) isTypeSignature() {}
func (*GenericInstanceSignature) ElementType() ElementType { return ElementTypeGenericInst }
func (s *GenericInstanceSignature) Accept(v Visitor) any   { return v.VisitGenericInstance(s) }

// TypeName exposes the open generic type's own name.
func (s *GenericInstanceSignature) TypeName() (identity.OptionalString, identity.Utf8String) {
	return s.GenericType.TypeName()
}

// GenericParameterSignature is an unbound generic parameter
// (ELEMENT_TYPE_VAR for a type parameter, ELEMENT_TYPE_MVAR for a method
// parameter), named by index into the declaring type's or method's
// GenericParameters.
type GenericParameterSignature struct {
	IsMethodParameter bool
	Index             uint32
}

func (*GenericParameterSignature) isTypeSignature() {}
func (s *GenericParameterSignature) ElementType() ElementType {
	if s.IsMethodParameter {
		return ElementTypeMVar
	}
	return ElementTypeVar
}
func (s *GenericParameterSignature) Accept(v Visitor) any { return v.VisitGenericParameter(s) }

// FunctionPointerSignature wraps a full method signature
// (ELEMENT_TYPE_FNPTR) — `delegate* <calling-convention> <ret>(<args>)` in
// C# 9+ terms.
type FunctionPointerSignature struct {
	Signature *MethodSignature
}

func (*FunctionPointerSignature) isTypeSignature() {}
func (*FunctionPointerSignature) ElementType() ElementType { return ElementTypeFnPtr }
func (s *FunctionPointerSignature) Accept(v Visitor) any   { return v.VisitFunctionPointer(s) }

// CustomModifierSignature is a required (modreq) or optional (modopt)
// custom modifier wrapping an inner type (ECMA-335 §II.23.2.7).
type CustomModifierSignature struct {
	Required     bool
	ModifierType TypeDefOrRef
	Inner        TypeSignature
}

func (*CustomModifierSignature) isTypeSignature() {}
func (s *CustomModifierSignature) ElementType() ElementType {
	if s.Required {
		return ElementTypeCModReqD
	}
	return ElementTypeCModOpt
}
func (s *CustomModifierSignature) Accept(v Visitor) any { return v.VisitCustomModifier(s) }

// SentinelSignature marks the vararg boundary within a method signature's
// parameter list (ELEMENT_TYPE_SENTINEL); it carries no inner type and only
// ever appears as a parameter placeholder, never as a standalone type.
type SentinelSignature struct{}

func (*SentinelSignature) isTypeSignature()        {}
func (*SentinelSignature) ElementType() ElementType { return ElementTypeSentinel }
func (s *SentinelSignature) Accept(v Visitor) any   { return v.VisitSentinel(s) }

// InvalidReason names why an InvalidSignature placeholder was substituted
// during parsing (§7).
type InvalidReason int

// Invalid-signature reasons.
const (
	InvalidReasonUnknown InvalidReason = iota
	InvalidReasonCodedIndexOutOfRange
	InvalidReasonDisallowedTypeSpecTarget
	InvalidReasonMalformedArrayShape
	InvalidReasonUnresolvedCodedIndex
	InvalidReasonTruncatedBlob
)

// InvalidSignature is the §7 "invalid type-def-or-ref placeholder": a
// typed, interned-by-reason-code, non-importable stand-in substituted into
// a parsed signature when the blob-level parse hit a diagnostic condition.
// Its display name is a sentinel string safe to show but never equal to any
// real type name, and resolving it always yields InvalidReference.
type InvalidSignature struct {
	Reason InvalidReason
}

func (*InvalidSignature) isTypeSignature()        {}
func (*InvalidSignature) ElementType() ElementType { return ElementTypeEnd }
func (s *InvalidSignature) Accept(v Visitor) any   { return v.VisitInvalid(s) }

var invalidSignatures = map[InvalidReason]*InvalidSignature{}

// InternInvalidSignature returns the single interned InvalidSignature for
// reason, constructing it on first use (§7: "interned by reason code").
func InternInvalidSignature(reason InvalidReason) *InvalidSignature {
	if s, ok := invalidSignatures[reason]; ok {
		return s
	}
	s := &InvalidSignature{Reason: reason}
	invalidSignatures[reason] = s
	return s
}

// DisplayName returns the sentinel display string for an invalid
// signature — safe to show in diagnostics, never equal to a real type name.
func (s *InvalidSignature) DisplayName() string {
	return "<invalid-type-signature>"
}

// isTypeDefOrRef lets an InvalidSignature stand in anywhere a TypeDefOrRef
// is expected (e.g. as the resolved target of a malformed coded index),
// consistent with §7's "substitutes an invalid type-def-or-ref placeholder
// into the parsed signature".
func (*InvalidSignature) isTypeDefOrRef() {}
func (s *InvalidSignature) TypeName() (identity.OptionalString, identity.Utf8String) {
	return identity.None, identity.Utf8String(s.DisplayName())
}
