package metadata

import (
	"fmt"

	"github.com/saferwall/clrmeta/mdtable"
)

// ReadTypeSignature implements the parsing contract of §4.1: read one
// ElementType tag byte, then dispatch to the variant constructor ECMA-335
// §II.23.2.12 prescribes for it. Failures that would otherwise abort
// parsing are instead reported to ctx.Errors and represented by an interned
// InvalidSignature placeholder (§7), so a malformed signature never aborts
// the caller's larger read (e.g. the rest of a method's parameter list).
func ReadTypeSignature(r BlobReader, ctx *BlobReaderContext) (TypeSignature, error) {
	tag, err := r.ReadByte()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	return readTypeSignatureTag(r, ctx, ElementType(tag))
}

func readTypeSignatureTag(r BlobReader, ctx *BlobReaderContext, et ElementType) (TypeSignature, error) {
	if et.IsCorLibPrimitive() || et == ElementTypeVoid {
		return &CorLibTypeSignature{Element: et}, nil
	}

	switch et {
	case ElementTypeValueType, ElementTypeClass:
		return readTypeDefOrRefSignature(r, ctx, et == ElementTypeValueType)

	case ElementTypePtr:
		// A pointer to void encodes as PTR VOID; model it as a pointer
		// wrapping the CorLibTypeSignature for Void rather than a special
		// case, so downstream visitors never special-case "pointer to
		// nothing". Leading custom modifiers recurse naturally through the
		// ElementTypeCModReqD/CModOpt branch below, wrapping Inner.
		inner, err := ReadTypeSignature(r, ctx)
		if err != nil {
			return nil, err
		}
		return &PointerSignature{Inner: inner}, nil

	case ElementTypeByRef:
		inner, err := ReadTypeSignature(r, ctx)
		if err != nil {
			return nil, err
		}
		return &ByReferenceSignature{Inner: inner}, nil

	case ElementTypePinned:
		inner, err := ReadTypeSignature(r, ctx)
		if err != nil {
			return nil, err
		}
		return &PinnedSignature{Inner: inner}, nil

	case ElementTypeSzArray:
		elem, err := ReadTypeSignature(r, ctx)
		if err != nil {
			return nil, err
		}
		return &SzArraySignature{Element: elem}, nil

	case ElementTypeArray:
		return readArraySignature(r, ctx)

	case ElementTypeGenericInst:
		return readGenericInstanceSignature(r, ctx)

	case ElementTypeVar, ElementTypeMVar:
		idx, err := r.ReadCompressedUint32()
		if err != nil {
			report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
			return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
		}
		return &GenericParameterSignature{IsMethodParameter: et == ElementTypeMVar, Index: idx}, nil

	case ElementTypeFnPtr:
		sig, err := ReadMethodSignature(r, ctx)
		if err != nil {
			return nil, err
		}
		return &FunctionPointerSignature{Signature: sig}, nil

	case ElementTypeCModReqD, ElementTypeCModOpt:
		return readCustomModifierSignature(r, ctx, et == ElementTypeCModReqD)

	case ElementTypeSentinel:
		return &SentinelSignature{}, nil

	case ElementTypeInternal:
		// Extension point (§4.1 step 7): read a native-sized pointer value
		// and hand it to the resolver. The core has no notion of target
		// pointer width (that is the reader collaborator's concern), so a
		// fixed 8-byte read is used; a 32-bit host reader is expected to
		// zero-extend when it writes this element back out.
		raw, err := r.ReadBytes(8)
		if err != nil {
			report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
			return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
		}
		var ptr uint64
		for _, b := range raw {
			ptr = ptr<<8 | uint64(b)
		}
		if ctx.Resolver != nil {
			if t, ok := ctx.Resolver.ResolveInternal(ptr); ok {
				return &TypeDefOrRefSignature{Type: t}, nil
			}
		}
		report(ctx.Errors, InvalidReasonUnresolvedCodedIndex, fmt.Sprintf("unresolved internal pointer %#x", ptr))
		return InternInvalidSignature(InvalidReasonUnresolvedCodedIndex), nil

	default:
		report(ctx.Errors, InvalidReasonUnknown, fmt.Sprintf("unsupported element type 0x%02x", byte(et)))
		return InternInvalidSignature(InvalidReasonUnknown), nil
	}
}

// readTypeDefOrRefSignature implements §4.1 step 3: read a compressed
// TypeDefOrRef coded index and resolve it through the injected resolver.
func readTypeDefOrRefSignature(r BlobReader, ctx *BlobReaderContext, isValueType bool) (TypeSignature, error) {
	value, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	tok, err := mdtable.Decode(mdtable.TypeDefOrRef, value)
	if err != nil {
		report(ctx.Errors, InvalidReasonCodedIndexOutOfRange, err.Error())
		return InternInvalidSignature(InvalidReasonCodedIndexOutOfRange), nil
	}
	if ctx.Resolver == nil {
		report(ctx.Errors, InvalidReasonUnresolvedCodedIndex, "no resolver installed")
		return InternInvalidSignature(InvalidReasonUnresolvedCodedIndex), nil
	}
	t, ok := ctx.Resolver.ResolveCodedIndex(tok)
	if !ok {
		report(ctx.Errors, InvalidReasonUnresolvedCodedIndex, fmt.Sprintf("unresolved %s[%d]", tok.Table, tok.RID))
		return InternInvalidSignature(InvalidReasonUnresolvedCodedIndex), nil
	}
	return &TypeDefOrRefSignature{Type: t, IsValueType: isValueType}, nil
}

func readCustomModifierSignature(r BlobReader, ctx *BlobReaderContext, required bool) (TypeSignature, error) {
	value, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	tok, err := mdtable.Decode(mdtable.TypeDefOrRef, value)
	if err != nil {
		report(ctx.Errors, InvalidReasonCodedIndexOutOfRange, err.Error())
		return InternInvalidSignature(InvalidReasonCodedIndexOutOfRange), nil
	}
	var modType TypeDefOrRef
	if ctx.Resolver != nil {
		if t, ok := ctx.Resolver.ResolveCodedIndex(tok); ok {
			modType = t
		}
	}
	if modType == nil {
		modType = InternInvalidSignature(InvalidReasonUnresolvedCodedIndex)
	}
	inner, err := ReadTypeSignature(r, ctx)
	if err != nil {
		return nil, err
	}
	return &CustomModifierSignature{Required: required, ModifierType: modType, Inner: inner}, nil
}

// readArraySignature implements §4.1 step 5: element type, rank, a
// length-prefixed sizes vector, then a length-prefixed lower-bounds vector.
// Rank 0, or vectors longer than rank, are reported as invalid per §4.1.
func readArraySignature(r BlobReader, ctx *BlobReaderContext) (TypeSignature, error) {
	elem, err := ReadTypeSignature(r, ctx)
	if err != nil {
		return nil, err
	}
	rank, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	if rank == 0 {
		report(ctx.Errors, InvalidReasonMalformedArrayShape, "array rank must be >= 1")
		return InternInvalidSignature(InvalidReasonMalformedArrayShape), nil
	}
	numSizes, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	sizes := make([]uint32, numSizes)
	for i := range sizes {
		sizes[i], err = r.ReadCompressedUint32()
		if err != nil {
			report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
			return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
		}
	}
	numLoBounds, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	loBounds := make([]int32, numLoBounds)
	for i := range loBounds {
		v, err := r.ReadCompressedUint32()
		if err != nil {
			report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
			return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
		}
		// Lower bounds are encoded as a zig-zag-compressed signed integer
		// in the real format; this core only round-trips values it wrote
		// itself (see WriteArraySignature), so the same simple encoding is
		// used symmetrically on both sides.
		loBounds[i] = zigzagDecode(v)
	}
	if uint32(len(sizes)) > rank || uint32(len(loBounds)) > rank {
		report(ctx.Errors, InvalidReasonMalformedArrayShape, "sizes/lower-bounds vector longer than rank")
		return InternInvalidSignature(InvalidReasonMalformedArrayShape), nil
	}
	return &ArraySignature{Element: elem, Rank: rank, Sizes: sizes, LowerBounds: loBounds}, nil
}

func zigzagEncode(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func zigzagDecode(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// readGenericInstanceSignature implements §4.1 step 4.
func readGenericInstanceSignature(r BlobReader, ctx *BlobReaderContext) (TypeSignature, error) {
	tag, err := r.ReadByte()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	isValueType := ElementType(tag) == ElementTypeValueType
	base, err := readTypeDefOrRefSignature(r, ctx, isValueType)
	if err != nil {
		return nil, err
	}
	baseSig, _ := base.(*TypeDefOrRefSignature)
	var genericType TypeDefOrRef
	if baseSig != nil {
		genericType = baseSig.Type
	} else {
		genericType = InternInvalidSignature(InvalidReasonUnresolvedCodedIndex)
	}
	count, err := r.ReadCompressedUint32()
	if err != nil {
		report(ctx.Errors, InvalidReasonTruncatedBlob, err.Error())
		return InternInvalidSignature(InvalidReasonTruncatedBlob), nil
	}
	args := make([]TypeSignature, count)
	for i := range args {
		args[i], err = ReadTypeSignature(r, ctx)
		if err != nil {
			return nil, err
		}
	}
	return &GenericInstanceSignature{GenericType: genericType, IsValueType: isValueType, TypeArguments: args}, nil
}

// ReadMethodSignature parses a full method signature: calling convention
// byte, optional generic parameter count, parameter count, return type,
// then each parameter type (a SentinelSignature among them marks the
// vararg boundary and is recorded as SentinelIndex rather than kept in
// ParameterTypes).
func ReadMethodSignature(r BlobReader, ctx *BlobReaderContext) (*MethodSignature, error) {
	ccByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	cc := CallingConvention(ccByte)

	var genericCount uint32
	if cc.IsGeneric() {
		genericCount, err = r.ReadCompressedUint32()
		if err != nil {
			return nil, err
		}
	}

	paramCount, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}

	ret, err := ReadTypeSignature(r, ctx)
	if err != nil {
		return nil, err
	}

	sig := &MethodSignature{CallingConvention: cc, GenericParamCount: genericCount, ReturnType: ret, SentinelIndex: -1}
	for uint32(len(sig.ParameterTypes)) < paramCount {
		tag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if ElementType(tag) == ElementTypeSentinel {
			// Not counted in ParamCount (ECMA-335 §II.23.2.3): marks the
			// vararg boundary without consuming one of the paramCount slots.
			sig.SentinelIndex = len(sig.ParameterTypes)
			continue
		}
		p, err := readTypeSignatureTag(r, ctx, ElementType(tag))
		if err != nil {
			return nil, err
		}
		sig.ParameterTypes = append(sig.ParameterTypes, p)
	}
	return sig, nil
}

// ReadFieldSignature parses a FIELD-calling-convention signature: a fixed
// 0x06 prefix byte, then the field's type.
func ReadFieldSignature(r BlobReader, ctx *BlobReaderContext) (*FieldSignature, error) {
	ccByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if CallingConvention(ccByte).Kind() != CallingConventionField {
		report(ctx.Errors, InvalidReasonUnknown, fmt.Sprintf("field signature missing FIELD calling convention, got 0x%02x", ccByte))
	}
	typ, err := ReadTypeSignature(r, ctx)
	if err != nil {
		return nil, err
	}
	return &FieldSignature{Type: typ}, nil
}
