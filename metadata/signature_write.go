package metadata

import (
	"fmt"
)

// BlobWriter is the write-side counterpart to BlobReader; blob.Writer
// already satisfies it.
type BlobWriter interface {
	WriteByte(b byte) error
	WriteBytes(b []byte)
	WriteCompressedUint32(v uint32) error
}

// WriteTypeSignature is the symmetric inverse of ReadTypeSignature (§4.1
// "Serializing is the symmetric inverse"): it writes sig's ElementType tag
// followed by whatever content that variant carries, obtaining coded
// indices from ctx.Index rather than any particular table buffer.
func WriteTypeSignature(w BlobWriter, sig TypeSignature, ctx *BlobSerializationContext) error {
	switch s := sig.(type) {
	case *CorLibTypeSignature:
		return w.WriteByte(byte(s.Element))

	case *TypeDefOrRefSignature:
		if err := w.WriteByte(byte(s.ElementType())); err != nil {
			return err
		}
		return writeTypeDefOrRefIndex(w, s.Type, ctx)

	case *PointerSignature:
		if err := w.WriteByte(byte(ElementTypePtr)); err != nil {
			return err
		}
		return WriteTypeSignature(w, s.Inner, ctx)

	case *ByReferenceSignature:
		if err := w.WriteByte(byte(ElementTypeByRef)); err != nil {
			return err
		}
		return WriteTypeSignature(w, s.Inner, ctx)

	case *PinnedSignature:
		if err := w.WriteByte(byte(ElementTypePinned)); err != nil {
			return err
		}
		return WriteTypeSignature(w, s.Inner, ctx)

	case *SzArraySignature:
		if err := w.WriteByte(byte(ElementTypeSzArray)); err != nil {
			return err
		}
		return WriteTypeSignature(w, s.Element, ctx)

	case *ArraySignature:
		return writeArraySignature(w, s, ctx)

	case *GenericInstanceSignature:
		return writeGenericInstanceSignature(w, s, ctx)

	case *GenericParameterSignature:
		et := ElementTypeVar
		if s.IsMethodParameter {
			et = ElementTypeMVar
		}
		if err := w.WriteByte(byte(et)); err != nil {
			return err
		}
		return w.WriteCompressedUint32(s.Index)

	case *FunctionPointerSignature:
		if err := w.WriteByte(byte(ElementTypeFnPtr)); err != nil {
			return err
		}
		return WriteMethodSignature(w, s.Signature, ctx)

	case *CustomModifierSignature:
		et := ElementTypeCModOpt
		if s.Required {
			et = ElementTypeCModReqD
		}
		if err := w.WriteByte(byte(et)); err != nil {
			return err
		}
		if err := writeTypeDefOrRefIndex(w, s.ModifierType, ctx); err != nil {
			return err
		}
		return WriteTypeSignature(w, s.Inner, ctx)

	case *SentinelSignature:
		return w.WriteByte(byte(ElementTypeSentinel))

	case *InvalidSignature:
		report(ctx.Errors, s.Reason, "refusing to serialize an invalid type signature")
		return fmt.Errorf("metadata: cannot serialize an invalid type signature (reason %d)", s.Reason)

	default:
		return fmt.Errorf("metadata: unknown TypeSignature variant %T", sig)
	}
}

func writeTypeDefOrRefIndex(w BlobWriter, t TypeDefOrRef, ctx *BlobSerializationContext) error {
	value, err := ctx.Index.GetTypeDefOrRefIndex(t)
	if err != nil {
		return err
	}
	return w.WriteCompressedUint32(value)
}

func writeArraySignature(w BlobWriter, s *ArraySignature, ctx *BlobSerializationContext) error {
	if err := w.WriteByte(byte(ElementTypeArray)); err != nil {
		return err
	}
	if err := WriteTypeSignature(w, s.Element, ctx); err != nil {
		return err
	}
	if err := w.WriteCompressedUint32(s.Rank); err != nil {
		return err
	}
	if err := w.WriteCompressedUint32(uint32(len(s.Sizes))); err != nil {
		return err
	}
	for _, sz := range s.Sizes {
		if err := w.WriteCompressedUint32(sz); err != nil {
			return err
		}
	}
	if err := w.WriteCompressedUint32(uint32(len(s.LowerBounds))); err != nil {
		return err
	}
	for _, lb := range s.LowerBounds {
		if err := w.WriteCompressedUint32(zigzagEncode(lb)); err != nil {
			return err
		}
	}
	return nil
}

func writeGenericInstanceSignature(w BlobWriter, s *GenericInstanceSignature, ctx *BlobSerializationContext) error {
	if err := w.WriteByte(byte(ElementTypeGenericInst)); err != nil {
		return err
	}
	tag := ElementTypeClass
	if s.IsValueType {
		tag = ElementTypeValueType
	}
	if err := w.WriteByte(byte(tag)); err != nil {
		return err
	}
	if err := writeTypeDefOrRefIndex(w, s.GenericType, ctx); err != nil {
		return err
	}
	if err := w.WriteCompressedUint32(uint32(len(s.TypeArguments))); err != nil {
		return err
	}
	for _, arg := range s.TypeArguments {
		if err := WriteTypeSignature(w, arg, ctx); err != nil {
			return err
		}
	}
	return nil
}

// WriteMethodSignature is the symmetric inverse of ReadMethodSignature.
func WriteMethodSignature(w BlobWriter, sig *MethodSignature, ctx *BlobSerializationContext) error {
	if err := w.WriteByte(byte(sig.CallingConvention)); err != nil {
		return err
	}
	if sig.CallingConvention.IsGeneric() {
		if err := w.WriteCompressedUint32(sig.GenericParamCount); err != nil {
			return err
		}
	}
	if err := w.WriteCompressedUint32(uint32(len(sig.ParameterTypes))); err != nil {
		return err
	}
	if err := WriteTypeSignature(w, sig.ReturnType, ctx); err != nil {
		return err
	}
	for i, p := range sig.ParameterTypes {
		if sig.HasSentinel() && i == sig.SentinelIndex {
			if err := w.WriteByte(byte(ElementTypeSentinel)); err != nil {
				return err
			}
		}
		if err := WriteTypeSignature(w, p, ctx); err != nil {
			return err
		}
	}
	return nil
}

// WriteFieldSignature is the symmetric inverse of ReadFieldSignature.
func WriteFieldSignature(w BlobWriter, sig *FieldSignature, ctx *BlobSerializationContext) error {
	if err := w.WriteByte(byte(CallingConventionField)); err != nil {
		return err
	}
	return WriteTypeSignature(w, sig.Type, ctx)
}
