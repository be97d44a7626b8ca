package metadata

import (
	"testing"

	"github.com/saferwall/clrmeta/blob"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata/testutil"
)

// equalSignature is a structural equality check sufficient for the
// round-trip property in §8 ("parse(serialize(S)) ≡ S... for all variants
// that have a unique encoding"); comparer.Comparer provides the full
// configurable notion of equality other packages use, but this package
// cannot import it (comparer imports metadata, not the reverse).
func equalSignature(t *testing.T, a, b TypeSignature) bool {
	t.Helper()
	if a.ElementType() != b.ElementType() {
		return false
	}
	switch x := a.(type) {
	case *CorLibTypeSignature:
		y := b.(*CorLibTypeSignature)
		return x.Element == y.Element
	case *TypeDefOrRefSignature:
		y := b.(*TypeDefOrRefSignature)
		return x.IsValueType == y.IsValueType && x.Type == y.Type
	case *PointerSignature:
		return equalSignature(t, x.Inner, b.(*PointerSignature).Inner)
	case *ByReferenceSignature:
		return equalSignature(t, x.Inner, b.(*ByReferenceSignature).Inner)
	case *PinnedSignature:
		return equalSignature(t, x.Inner, b.(*PinnedSignature).Inner)
	case *SzArraySignature:
		return equalSignature(t, x.Element, b.(*SzArraySignature).Element)
	case *ArraySignature:
		y := b.(*ArraySignature)
		if x.Rank != y.Rank || len(x.Sizes) != len(y.Sizes) || len(x.LowerBounds) != len(y.LowerBounds) {
			return false
		}
		for i := range x.Sizes {
			if x.Sizes[i] != y.Sizes[i] {
				return false
			}
		}
		for i := range x.LowerBounds {
			if x.LowerBounds[i] != y.LowerBounds[i] {
				return false
			}
		}
		return equalSignature(t, x.Element, y.Element)
	case *GenericInstanceSignature:
		y := b.(*GenericInstanceSignature)
		if x.IsValueType != y.IsValueType || x.GenericType != y.GenericType || len(x.TypeArguments) != len(y.TypeArguments) {
			return false
		}
		for i := range x.TypeArguments {
			if !equalSignature(t, x.TypeArguments[i], y.TypeArguments[i]) {
				return false
			}
		}
		return true
	case *GenericParameterSignature:
		y := b.(*GenericParameterSignature)
		return x.IsMethodParameter == y.IsMethodParameter && x.Index == y.Index
	case *FunctionPointerSignature:
		y := b.(*FunctionPointerSignature)
		return equalMethodSignature(t, x.Signature, y.Signature)
	case *CustomModifierSignature:
		y := b.(*CustomModifierSignature)
		return x.Required == y.Required && x.ModifierType == y.ModifierType && equalSignature(t, x.Inner, y.Inner)
	case *SentinelSignature:
		return true
	case *InvalidSignature:
		return x.Reason == b.(*InvalidSignature).Reason
	default:
		t.Fatalf("unhandled TypeSignature variant %T", a)
		return false
	}
}

func equalMethodSignature(t *testing.T, a, b *MethodSignature) bool {
	t.Helper()
	if a.CallingConvention != b.CallingConvention || a.GenericParamCount != b.GenericParamCount ||
		a.SentinelIndex != b.SentinelIndex || len(a.ParameterTypes) != len(b.ParameterTypes) {
		return false
	}
	if !equalSignature(t, a.ReturnType, b.ReturnType) {
		return false
	}
	for i := range a.ParameterTypes {
		if !equalSignature(t, a.ParameterTypes[i], b.ParameterTypes[i]) {
			return false
		}
	}
	return true
}

// roundTrip serializes sig with a fresh SequentialIndexProvider, then
// parses the bytes back with a MapResolver seeded from that provider's
// assignments — exactly §8 scenario 7's recipe.
func roundTrip(t *testing.T, sig TypeSignature) TypeSignature {
	t.Helper()
	provider := testutil.NewSequentialIndexProvider()
	w := blob.NewWriter()
	serCtx := NewBlobSerializationContext(provider, nil)
	if err := WriteTypeSignature(w, sig, serCtx); err != nil {
		t.Fatalf("WriteTypeSignature: %v", err)
	}

	resolver := testutil.NewMapResolver()
	walkTypeDefOrRefs(sig, func(tdr TypeDefOrRef) {
		if tok, ok := provider.TokenOf(tdr); ok {
			resolver.ByToken[tok] = tdr
		}
	})

	r := blob.NewReader(w.Bytes())
	readCtx := NewBlobReaderContext(nil, nil, resolver)
	got, err := ReadTypeSignature(r, readCtx)
	if err != nil {
		t.Fatalf("ReadTypeSignature: %v", err)
	}
	return got
}

// walkTypeDefOrRefs visits every TypeDefOrRef embedded anywhere in sig, so
// roundTrip can seed the resolver for every coded index the writer emitted.
func walkTypeDefOrRefs(sig TypeSignature, visit func(TypeDefOrRef)) {
	switch s := sig.(type) {
	case *TypeDefOrRefSignature:
		visit(s.Type)
	case *PointerSignature:
		walkTypeDefOrRefs(s.Inner, visit)
	case *ByReferenceSignature:
		walkTypeDefOrRefs(s.Inner, visit)
	case *PinnedSignature:
		walkTypeDefOrRefs(s.Inner, visit)
	case *SzArraySignature:
		walkTypeDefOrRefs(s.Element, visit)
	case *ArraySignature:
		walkTypeDefOrRefs(s.Element, visit)
	case *GenericInstanceSignature:
		visit(s.GenericType)
		for _, a := range s.TypeArguments {
			walkTypeDefOrRefs(a, visit)
		}
	case *CustomModifierSignature:
		visit(s.ModifierType)
		walkTypeDefOrRefs(s.Inner, visit)
	case *FunctionPointerSignature:
		walkTypeDefOrRefs(s.Signature.ReturnType, visit)
		for _, p := range s.Signature.ParameterTypes {
			walkTypeDefOrRefs(p, visit)
		}
	}
}

func i4() TypeSignature  { return &CorLibTypeSignature{Element: ElementTypeI4} }
func i8() TypeSignature  { return &CorLibTypeSignature{Element: ElementTypeI8} }
func void() TypeSignature { return &CorLibTypeSignature{Element: ElementTypeVoid} }

func TestRoundTripGenericInstance(t *testing.T) {
	corlib := testutil.NewCorLib("mscorlib")
	listRef := NewTypeReference(corlib, identity.Some("System.Collections.Generic"), "List`1")
	sig := &GenericInstanceSignature{GenericType: listRef, TypeArguments: []TypeSignature{i4()}}

	got := roundTrip(t, sig)
	gotGI, ok := got.(*GenericInstanceSignature)
	if !ok {
		t.Fatalf("got %T, want *GenericInstanceSignature", got)
	}
	if !equalSignature(t, sig.TypeArguments[0], gotGI.TypeArguments[0]) {
		t.Fatal("type argument mismatch after round trip")
	}
	if ns, name := gotGI.GenericType.TypeName(); name != "List`1" || ns.Value() != "System.Collections.Generic" {
		t.Fatalf("generic type name mismatch: %v.%v", ns, name)
	}
}

func TestRoundTripMultiDimArrayOfSzArray(t *testing.T) {
	// C#'s int32[,][]: an sz-array of a 2-dimensional array of int32.
	sig := &SzArraySignature{Element: &ArraySignature{Element: i4(), Rank: 2}}
	got := roundTrip(t, sig)
	if !equalSignature(t, sig, got) {
		t.Fatalf("round trip mismatch: got %#v", got)
	}
}

func TestRoundTripMethodSignatureWithSentinel(t *testing.T) {
	sig := NewMethodSignature(CallingConventionVarArg, 0, void(), []TypeSignature{i4(), i8()})
	sig.SentinelIndex = 1

	provider := testutil.NewSequentialIndexProvider()
	w := blob.NewWriter()
	serCtx := NewBlobSerializationContext(provider, nil)
	if err := WriteMethodSignature(w, sig, serCtx); err != nil {
		t.Fatalf("WriteMethodSignature: %v", err)
	}

	r := blob.NewReader(w.Bytes())
	readCtx := NewBlobReaderContext(nil, nil, testutil.NewMapResolver())
	got, err := ReadMethodSignature(r, readCtx)
	if err != nil {
		t.Fatalf("ReadMethodSignature: %v", err)
	}

	if len(got.ParameterTypes) != 2 {
		t.Fatalf("ParameterTypes = %d entries, want 2 (the sentinel must not consume a param slot)", len(got.ParameterTypes))
	}
	if got.SentinelIndex != 1 {
		t.Fatalf("SentinelIndex = %d, want 1", got.SentinelIndex)
	}
	if !equalSignature(t, got.ParameterTypes[0], i4()) || !equalSignature(t, got.ParameterTypes[1], i8()) {
		t.Fatalf("ParameterTypes = %#v, want [i4, i8]", got.ParameterTypes)
	}
}

func TestRoundTripFunctionPointer(t *testing.T) {
	sig := &FunctionPointerSignature{Signature: NewMethodSignature(CallingConventionDefault, 0, void(), []TypeSignature{i4(), i8()})}
	got := roundTrip(t, sig)
	if !equalSignature(t, sig, got) {
		t.Fatalf("round trip mismatch: got %#v", got)
	}
}

func TestRoundTripRequiredCustomModifier(t *testing.T) {
	corlib := testutil.NewCorLib("mscorlib")
	isVolatile := NewTypeReference(corlib, identity.Some("System.Runtime.CompilerServices"), "IsVolatile")
	sig := &CustomModifierSignature{Required: true, ModifierType: isVolatile, Inner: i4()}

	got := roundTrip(t, sig)
	gotMod, ok := got.(*CustomModifierSignature)
	if !ok {
		t.Fatalf("got %T, want *CustomModifierSignature", got)
	}
	if !gotMod.Required {
		t.Fatal("Required bit lost across round trip")
	}
	if !equalSignature(t, sig.Inner, gotMod.Inner) {
		t.Fatal("inner type mismatch after round trip")
	}
}

func TestStripModifiersStripsPinnedAndCustomModifier(t *testing.T) {
	inner := i4()
	wrapped := &PinnedSignature{Inner: &CustomModifierSignature{Required: false, ModifierType: nil, Inner: inner}}
	stripped := StripModifiers(wrapped)
	if stripped != inner {
		t.Fatalf("StripModifiers did not reach the innermost signature: got %#v", stripped)
	}
}

func TestSubstituteEmptyContextReturnsSameInstance(t *testing.T) {
	corlib := testutil.NewCorLib("mscorlib")
	actionRef := NewTypeReference(corlib, identity.Some("System"), "Action`1")
	g := &GenericInstanceSignature{GenericType: actionRef, TypeArguments: []TypeSignature{i4()}}

	got := Substitute(g, GenericContext{})
	if got != g {
		t.Fatal("Substitute with an empty context must return the same instance")
	}
}

func TestSubstituteGenericParameter(t *testing.T) {
	param := &GenericParameterSignature{Index: 0}
	arg := i4()
	ctx := GenericContext{TypeArguments: []TypeSignature{arg}}
	got := Substitute(param, ctx)
	if got != arg {
		t.Fatalf("Substitute(param, ctx) = %#v, want the ctx argument instance itself", got)
	}
}

