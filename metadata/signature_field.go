package metadata

// FieldSignature is a FIELD-calling-convention signature: a single type
// naming a field's declared type. Leading custom modifiers, when present,
// are represented as CustomModifierSignature nodes wrapping Type.
type FieldSignature struct {
	Type TypeSignature
}

func (*FieldSignature) isMemberSignature() {}

// NewFieldSignature wraps typ as a field signature.
func NewFieldSignature(typ TypeSignature) *FieldSignature {
	return &FieldSignature{Type: typ}
}
