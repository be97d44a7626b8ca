package metadata

// ElementType is the one-byte tag ECMA-335 §II.23.1.16 prefixes every
// encoded type expression with. It is the discriminator §4.1 step 1 reads
// before dispatching to a TypeSignature variant constructor.
type ElementType byte

// Element type tags, ECMA-335 §II.23.1.16 Table 23.1.16-style numbering.
const (
	ElementTypeEnd ElementType = 0x00

	ElementTypeVoid    ElementType = 0x01
	ElementTypeBoolean ElementType = 0x02
	ElementTypeChar    ElementType = 0x03
	ElementTypeI1      ElementType = 0x04
	ElementTypeU1      ElementType = 0x05
	ElementTypeI2      ElementType = 0x06
	ElementTypeU2      ElementType = 0x07
	ElementTypeI4      ElementType = 0x08
	ElementTypeU4      ElementType = 0x09
	ElementTypeI8      ElementType = 0x0A
	ElementTypeU8      ElementType = 0x0B
	ElementTypeR4      ElementType = 0x0C
	ElementTypeR8      ElementType = 0x0D
	ElementTypeString  ElementType = 0x0E

	ElementTypePtr       ElementType = 0x0F
	ElementTypeByRef     ElementType = 0x10
	ElementTypeValueType ElementType = 0x11
	ElementTypeClass     ElementType = 0x12
	ElementTypeVar       ElementType = 0x13 // generic type parameter
	ElementTypeArray     ElementType = 0x14 // general multi-dim array
	ElementTypeGenericInst ElementType = 0x15
	ElementTypeTypedByRef  ElementType = 0x16

	ElementTypeI  ElementType = 0x18 // native int
	ElementTypeU  ElementType = 0x19 // native unsigned int
	ElementTypeFnPtr ElementType = 0x1B
	ElementTypeObject  ElementType = 0x1C
	ElementTypeSzArray ElementType = 0x1D // single-dim, zero-based array
	ElementTypeMVar    ElementType = 0x1E // generic method parameter

	ElementTypeCModReqD ElementType = 0x1F // required custom modifier
	ElementTypeCModOpt  ElementType = 0x20 // optional custom modifier

	ElementTypeInternal ElementType = 0x21 // runtime-internal, non-standard
	ElementTypeModifier ElementType = 0x40 // or'd with ElementTypeSentinel/Pinned
	ElementTypeSentinel ElementType = 0x41 // vararg parameter-list separator
	ElementTypePinned   ElementType = 0x45

	// ElementTypeBoxed and ElementTypeEnum appear only in the custom
	// attribute field-or-prop type grammar (§4.1 "Custom-attribute
	// field-or-prop type encoding"), not in ordinary signature blobs.
	ElementTypeBoxed ElementType = 0x51
	ElementTypeEnum  ElementType = 0x55
)

// IsCorLibPrimitive reports whether e denotes one of the primitive/corlib
// element types §4.2 compares "by element-type byte" — every tag from Void
// through Object excluding the structural wrapper tags.
func (e ElementType) IsCorLibPrimitive() bool {
	switch e {
	case ElementTypeVoid, ElementTypeBoolean, ElementTypeChar,
		ElementTypeI1, ElementTypeU1, ElementTypeI2, ElementTypeU2,
		ElementTypeI4, ElementTypeU4, ElementTypeI8, ElementTypeU8,
		ElementTypeR4, ElementTypeR8, ElementTypeString,
		ElementTypeI, ElementTypeU, ElementTypeObject,
		ElementTypeTypedByRef:
		return true
	default:
		return false
	}
}

var elementTypeNames = map[ElementType]string{
	ElementTypeVoid: "Void", ElementTypeBoolean: "Boolean", ElementTypeChar: "Char",
	ElementTypeI1: "SByte", ElementTypeU1: "Byte", ElementTypeI2: "Int16", ElementTypeU2: "UInt16",
	ElementTypeI4: "Int32", ElementTypeU4: "UInt32", ElementTypeI8: "Int64", ElementTypeU8: "UInt64",
	ElementTypeR4: "Single", ElementTypeR8: "Double", ElementTypeString: "String",
	ElementTypeI: "IntPtr", ElementTypeU: "UIntPtr", ElementTypeObject: "Object",
	ElementTypeTypedByRef: "TypedReference",
}

// CorLibTypeName returns the System.* short name for a primitive element
// type, or "" when e is not a corlib primitive.
func (e ElementType) CorLibTypeName() string {
	return elementTypeNames[e]
}

func (e ElementType) String() string {
	if n, ok := elementTypeNames[e]; ok {
		return n
	}
	return "ElementType(0x" + hexByte(byte(e)) + ")"
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}
