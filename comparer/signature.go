package comparer

import "github.com/saferwall/clrmeta/metadata"

// EqualTypeSignature compares two type signatures structurally (§4.2):
// primitives by element-type byte; class/value types by (scope, namespace,
// name) after exported-type redirection, with modifiers and pinning
// stripped from both sides first; generic instances by the same open type
// plus pairwise-equal arguments; arrays by rank and per-dimension
// size/lower-bound equality (a missing entry is zero on both sides);
// function pointers by method-signature equality.
func (c *Comparer) EqualTypeSignature(a, b metadata.TypeSignature) bool {
	a = metadata.StripModifiers(a)
	b = metadata.StripModifiers(b)
	if a.ElementType() != b.ElementType() {
		return false
	}

	switch x := a.(type) {
	case *metadata.CorLibTypeSignature:
		y := b.(*metadata.CorLibTypeSignature)
		return x.Element == y.Element

	case *metadata.TypeDefOrRefSignature:
		y, ok := b.(*metadata.TypeDefOrRefSignature)
		if !ok || x.IsValueType != y.IsValueType {
			return false
		}
		return c.EqualTypeDefOrRef(x.Type, y.Type)

	case *metadata.PointerSignature:
		return c.EqualTypeSignature(x.Inner, b.(*metadata.PointerSignature).Inner)

	case *metadata.ByReferenceSignature:
		return c.EqualTypeSignature(x.Inner, b.(*metadata.ByReferenceSignature).Inner)

	case *metadata.SzArraySignature:
		return c.EqualTypeSignature(x.Element, b.(*metadata.SzArraySignature).Element)

	case *metadata.ArraySignature:
		y := b.(*metadata.ArraySignature)
		if x.Rank != y.Rank {
			return false
		}
		for i := uint32(0); i < x.Rank; i++ {
			if dimAt(x.Sizes, i) != dimAt(y.Sizes, i) {
				return false
			}
			if signedDimAt(x.LowerBounds, i) != signedDimAt(y.LowerBounds, i) {
				return false
			}
		}
		return c.EqualTypeSignature(x.Element, y.Element)

	case *metadata.GenericInstanceSignature:
		y, ok := b.(*metadata.GenericInstanceSignature)
		if !ok || x.IsValueType != y.IsValueType || len(x.TypeArguments) != len(y.TypeArguments) {
			return false
		}
		if !c.EqualTypeDefOrRef(x.GenericType, y.GenericType) {
			return false
		}
		for i := range x.TypeArguments {
			if !c.EqualTypeSignature(x.TypeArguments[i], y.TypeArguments[i]) {
				return false
			}
		}
		return true

	case *metadata.GenericParameterSignature:
		y := b.(*metadata.GenericParameterSignature)
		return x.IsMethodParameter == y.IsMethodParameter && x.Index == y.Index

	case *metadata.FunctionPointerSignature:
		y := b.(*metadata.FunctionPointerSignature)
		return c.EqualMethodSignature(x.Signature, y.Signature)

	case *metadata.SentinelSignature:
		return true

	case *metadata.InvalidSignature:
		// §7: an invalid placeholder compares equal only to itself, never
		// to another invalid placeholder with a different reason;
		// same-reason placeholders are the same interned instance, so the
		// ElementType-tag check above combined with this case only needs to
		// guard against two distinct reasons reaching here by pointer
		// inequality.
		return a == b

	default:
		return false
	}
}

func dimAt(sizes []uint32, i uint32) uint32 {
	if int(i) < len(sizes) {
		return sizes[i]
	}
	return 0
}

func signedDimAt(bounds []int32, i uint32) int32 {
	if int(i) < len(bounds) {
		return bounds[i]
	}
	return 0
}

// EqualMethodSignature compares two method signatures (§4.2): calling
// convention, HasThis/ExplicitThis/vararg-ness and generic arity must match
// exactly; return type and parameters compare pairwise with
// EqualTypeSignature.
func (c *Comparer) EqualMethodSignature(a, b *metadata.MethodSignature) bool {
	if a.CallingConvention != b.CallingConvention {
		return false
	}
	if a.CallingConvention.IsGeneric() && a.GenericParamCount != b.GenericParamCount {
		return false
	}
	if len(a.ParameterTypes) != len(b.ParameterTypes) {
		return false
	}
	if !c.EqualTypeSignature(a.ReturnType, b.ReturnType) {
		return false
	}
	for i := range a.ParameterTypes {
		if !c.EqualTypeSignature(a.ParameterTypes[i], b.ParameterTypes[i]) {
			return false
		}
	}
	return true
}
