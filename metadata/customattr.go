package metadata

import "fmt"

// Custom-attribute field-or-prop type tags (ECMA-335 §II.23.3 "FieldOrPropType"),
// a grammar distinct from ordinary type signatures: it adds ELEMENT_TYPE_TYPE
// ("boxed System.Type") and ELEMENT_TYPE_ENUM (an enum named by a serialized
// string rather than a coded index), on top of the primitive element types
// and SZARRAY.
const (
	caTagSystemType ElementType = 0x50 // a literal System.Type value
)

// TypeNameParser resolves the serialized enum type name a CustomAttribute's
// ENUM-tagged field-or-prop type carries (e.g. "MyNamespace.MyEnum,
// MyAssembly, Version=1.0.0.0, ..."). It is injected so this package never
// parses a display-name string into a TypeDefOrRef itself.
type TypeNameParser interface {
	ParseTypeName(s string) (TypeDefOrRef, bool)
}

// CustomAttributeArgumentType is the closed sum type the field-or-prop
// grammar produces: a primitive, an array of another such type, a boxed
// System.Type value, a boxed System.Object ("tagged object"), or a named
// enum.
type CustomAttributeArgumentType interface {
	isCustomAttributeArgumentType()
}

// PrimitiveArgumentType is one of the primitive element types (Boolean
// through String) used directly as a custom-attribute argument's type.
type PrimitiveArgumentType struct {
	Element ElementType
}

func (*PrimitiveArgumentType) isCustomAttributeArgumentType() {}

// SzArrayArgumentType is an array of another field-or-prop type.
type SzArrayArgumentType struct {
	Element CustomAttributeArgumentType
}

func (*SzArrayArgumentType) isCustomAttributeArgumentType() {}

// SystemTypeArgumentType is a boxed System.Type value (ELEMENT_TYPE_TYPE).
type SystemTypeArgumentType struct{}

func (SystemTypeArgumentType) isCustomAttributeArgumentType() {}

// TaggedObjectArgumentType is a boxed System.Object value whose runtime
// type is recorded alongside each actual argument value rather than in the
// type signature itself (ELEMENT_TYPE_BOXED, §II.23.3 "TaggedObject").
type TaggedObjectArgumentType struct{}

func (TaggedObjectArgumentType) isCustomAttributeArgumentType() {}

// EnumArgumentType is a named enum type (ELEMENT_TYPE_ENUM), serialized as
// a length-prefixed UTF-8 type name rather than a coded index. TypeName is
// always populated; Resolved is populated only when the injected
// TypeNameParser recognized it.
type EnumArgumentType struct {
	TypeName string
	Resolved TypeDefOrRef
}

func (*EnumArgumentType) isCustomAttributeArgumentType() {}

// ReadCustomAttributeArgumentType parses the field-or-prop type grammar
// (§4.1 "Custom-attribute field-or-prop type encoding"): read one element
// tag, dispatch to SZARRAY (recurse), TYPE, BOXED/tagged-object, ENUM (read
// a serialized string and resolve it via parser), or a bare primitive.
func ReadCustomAttributeArgumentType(r BlobReader, parser TypeNameParser) (CustomAttributeArgumentType, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	et := ElementType(tag)
	switch et {
	case ElementTypeSzArray:
		inner, err := ReadCustomAttributeArgumentType(r, parser)
		if err != nil {
			return nil, err
		}
		return &SzArrayArgumentType{Element: inner}, nil
	case caTagSystemType:
		return SystemTypeArgumentType{}, nil
	case ElementTypeBoxed:
		return TaggedObjectArgumentType{}, nil
	case ElementTypeEnum:
		name, err := readSerString(r)
		if err != nil {
			return nil, err
		}
		arg := &EnumArgumentType{TypeName: name}
		if parser != nil {
			if t, ok := parser.ParseTypeName(name); ok {
				arg.Resolved = t
			}
		}
		return arg, nil
	default:
		if !et.IsCorLibPrimitive() {
			return nil, fmt.Errorf("metadata: unsupported custom-attribute field-or-prop type tag 0x%02x", tag)
		}
		return &PrimitiveArgumentType{Element: et}, nil
	}
}

// readSerString reads a SerString (ECMA-335 §II.23.3): a compressed-length
// prefix followed by UTF-8 bytes, with the all-ones length byte meaning an
// absent (null) string.
func readSerString(r BlobReader) (string, error) {
	first, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	if first == 0xFF {
		return "", nil
	}
	n, err := decodeLenFromFirstByte(r, first)
	if err != nil {
		return "", err
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeLenFromFirstByte continues a compressed-uint32 read whose first
// byte has already been consumed (readSerString must inspect that byte for
// the 0xFF null marker before committing to the general compressed-integer
// decoding ReadCompressedUint32 performs).
func decodeLenFromFirstByte(r BlobReader, first byte) (uint32, error) {
	switch {
	case first&0x80 == 0:
		return uint32(first), nil
	case first&0xC0 == 0x80:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint32(first&0x3F)<<8 | uint32(b), nil
	case first&0xE0 == 0xC0:
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		return uint32(first&0x1F)<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2]), nil
	default:
		return 0, fmt.Errorf("metadata: invalid compressed length prefix 0x%02x", first)
	}
}

// WriteCustomAttributeArgumentType is the symmetric inverse of
// ReadCustomAttributeArgumentType.
func WriteCustomAttributeArgumentType(w BlobWriter, t CustomAttributeArgumentType) error {
	switch v := t.(type) {
	case *PrimitiveArgumentType:
		return w.WriteByte(byte(v.Element))
	case *SzArrayArgumentType:
		if err := w.WriteByte(byte(ElementTypeSzArray)); err != nil {
			return err
		}
		return WriteCustomAttributeArgumentType(w, v.Element)
	case SystemTypeArgumentType:
		return w.WriteByte(byte(caTagSystemType))
	case TaggedObjectArgumentType:
		return w.WriteByte(byte(ElementTypeBoxed))
	case *EnumArgumentType:
		if err := w.WriteByte(byte(ElementTypeEnum)); err != nil {
			return err
		}
		return writeSerString(w, v.TypeName)
	default:
		return fmt.Errorf("metadata: unknown CustomAttributeArgumentType %T", t)
	}
}

func writeSerString(w BlobWriter, s string) error {
	if err := w.WriteCompressedUint32(uint32(len(s))); err != nil {
		return err
	}
	w.WriteBytes([]byte(s))
	return nil
}
