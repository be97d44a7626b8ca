package metadata

import "github.com/saferwall/clrmeta/identity"

// MemberParent is the closed set of things a MemberReference's parent may
// be (§3: "Parent is one of: type-def, type-ref, type-specification,
// method-def (for vararg call sites), or the current module (for
// module-scoped members)").
type MemberParent interface {
	isMemberParent()
}

func (ModuleScope) isMemberParent() {}
func (*MethodDefinition) isMemberParent() {}

// FieldAttributes is the Field table's Flags column (ECMA-335 §II.23.1.5).
type FieldAttributes uint16

// Field visibility/semantics bits relevant to member resolution and display.
const (
	FieldStatic   FieldAttributes = 0x0010
	FieldLiteral  FieldAttributes = 0x0040
	FieldInitOnly FieldAttributes = 0x0020
)

// FieldDefinition is a field declared on a TypeDefinition.
type FieldDefinition struct {
	Name       identity.Utf8String
	Attributes FieldAttributes
	Signature  *FieldSignature

	declaringType *TypeDefinition
}

// NewFieldDefinition constructs a field with the given name/signature.
func NewFieldDefinition(name identity.Utf8String, attrs FieldAttributes, sig *FieldSignature) *FieldDefinition {
	return &FieldDefinition{Name: name, Attributes: attrs, Signature: sig}
}

// DeclaringType returns the owning type.
func (f *FieldDefinition) DeclaringType() *TypeDefinition { return f.declaringType }

// IsStatic reports the Static attribute bit.
func (f *FieldDefinition) IsStatic() bool { return f.Attributes&FieldStatic != 0 }

// MethodAttributes is the MethodDef table's Flags column (ECMA-335
// §II.23.1.10).
type MethodAttributes uint16

// Method visibility/semantics bits relevant to member resolution.
const (
	MethodStatic MethodAttributes = 0x0010
	MethodVirtual MethodAttributes = 0x0040
	MethodAbstract MethodAttributes = 0x0400
)

// MethodDefinition is a method declared on a TypeDefinition. It is also a
// valid MemberReference parent (§3), used for vararg call sites where a
// MemberRef's parent is the MethodDef that declared the vararg method
// itself, naming the extra arguments passed at a particular call.
type MethodDefinition struct {
	Name       identity.Utf8String
	Attributes MethodAttributes
	Signature  *MethodSignature
	GenericParameters []*GenericParameter

	declaringType *TypeDefinition
}

// NewMethodDefinition constructs a method with the given name/signature.
func NewMethodDefinition(name identity.Utf8String, attrs MethodAttributes, sig *MethodSignature) *MethodDefinition {
	return &MethodDefinition{Name: name, Attributes: attrs, Signature: sig}
}

// DeclaringType returns the owning type.
func (m *MethodDefinition) DeclaringType() *TypeDefinition { return m.declaringType }

// IsStatic reports the Static attribute bit.
func (m *MethodDefinition) IsStatic() bool { return m.Attributes&MethodStatic != 0 }

// MemberReference is `(parent, name, signature)` (§3). The signature's own
// kind (FieldSignature vs MethodSignature) disambiguates field vs method,
// matching §3's "the signature's kind disambiguates field vs method".
type MemberReference struct {
	Parent    MemberParent
	Name      identity.Utf8String
	Signature MemberSignature

	owner *ModuleDefinition
}

// MemberSignature is implemented by *FieldSignature and *MethodSignature;
// it exists only so MemberReference.Signature can hold either without an
// interface{} escape hatch.
type MemberSignature interface {
	isMemberSignature()
}

// NewMemberReference builds a free-floating member reference.
func NewMemberReference(parent MemberParent, name identity.Utf8String, sig MemberSignature) *MemberReference {
	return &MemberReference{Parent: parent, Name: name, Signature: sig}
}

// IsField reports whether the reference's signature denotes a field
// (disambiguating per §3, "the signature's kind disambiguates field vs
// method").
func (r *MemberReference) IsField() bool {
	_, ok := r.Signature.(*FieldSignature)
	return ok
}

// IsMethod reports the complement of IsField.
func (r *MemberReference) IsMethod() bool {
	_, ok := r.Signature.(*MethodSignature)
	return ok
}

// Module returns the module this reference was read from, or nil.
func (r *MemberReference) Module() *ModuleDefinition { return r.owner }
