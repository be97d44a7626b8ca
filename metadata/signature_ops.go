package metadata

// StripModifiers strips outer CustomModifierSignature and PinnedSignature
// wrappers, the canonical step §4.2/§9 require before comparing two type
// signatures ("modifier and pinned wrappers should not participate in
// equality by default"). It returns sig unchanged (same instance) when sig
// is not itself wrapped in either.
func StripModifiers(sig TypeSignature) TypeSignature {
	for {
		switch s := sig.(type) {
		case *CustomModifierSignature:
			sig = s.Inner
		case *PinnedSignature:
			sig = s.Inner
		default:
			return sig
		}
	}
}

// GenericContext carries the concrete type arguments a generic type
// instance or a generic method call site supplies for GenericParameterSignature
// substitution (§4.1 "Operations... generic-context extraction from a
// generic instance type").
type GenericContext struct {
	TypeArguments   []TypeSignature
	MethodArguments []TypeSignature
}

// Empty reports whether neither type nor method arguments are present — the
// context Substitute treats as a no-op (§8: "G.substitute(emptyContext) ==
// G (by identity, not re-allocated)").
func (c GenericContext) Empty() bool {
	return len(c.TypeArguments) == 0 && len(c.MethodArguments) == 0
}

// ExtractGenericContext builds the GenericContext a generic instance's own
// type arguments supply, for substituting into its generic type's declared
// members (base type, interfaces, fields) per §4.3.
func ExtractGenericContext(g *GenericInstanceSignature) GenericContext {
	return GenericContext{TypeArguments: g.TypeArguments}
}

// Substitute replaces each GenericParameterSignature reachable within sig
// with the corresponding entry of ctx, returning a newly built signature
// tree wherever a substitution actually occurred, or the same sig instance
// (by identity) when ctx is empty or sig contains no generic parameter,
// including inside the type arguments of nested generic instances
// (§8's round-trip/identity property).
func Substitute(sig TypeSignature, ctx GenericContext) TypeSignature {
	if ctx.Empty() {
		return sig
	}
	switch s := sig.(type) {
	case *GenericParameterSignature:
		if s.IsMethodParameter {
			if int(s.Index) < len(ctx.MethodArguments) {
				return ctx.MethodArguments[s.Index]
			}
		} else {
			if int(s.Index) < len(ctx.TypeArguments) {
				return ctx.TypeArguments[s.Index]
			}
		}
		return sig
	case *PointerSignature:
		inner := Substitute(s.Inner, ctx)
		if inner == s.Inner {
			return sig
		}
		return &PointerSignature{Inner: inner}
	case *ByReferenceSignature:
		inner := Substitute(s.Inner, ctx)
		if inner == s.Inner {
			return sig
		}
		return &ByReferenceSignature{Inner: inner}
	case *PinnedSignature:
		inner := Substitute(s.Inner, ctx)
		if inner == s.Inner {
			return sig
		}
		return &PinnedSignature{Inner: inner}
	case *SzArraySignature:
		elem := Substitute(s.Element, ctx)
		if elem == s.Element {
			return sig
		}
		return &SzArraySignature{Element: elem}
	case *ArraySignature:
		elem := Substitute(s.Element, ctx)
		if elem == s.Element {
			return sig
		}
		cp := *s
		cp.Element = elem
		return &cp
	case *CustomModifierSignature:
		inner := Substitute(s.Inner, ctx)
		if inner == s.Inner {
			return sig
		}
		return &CustomModifierSignature{Required: s.Required, ModifierType: s.ModifierType, Inner: inner}
	case *GenericInstanceSignature:
		changed := false
		args := make([]TypeSignature, len(s.TypeArguments))
		for i, a := range s.TypeArguments {
			args[i] = Substitute(a, ctx)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return sig
		}
		return &GenericInstanceSignature{GenericType: s.GenericType, IsValueType: s.IsValueType, TypeArguments: args}
	case *FunctionPointerSignature:
		substituted := substituteMethodSignature(s.Signature, ctx)
		if substituted == s.Signature {
			return sig
		}
		return &FunctionPointerSignature{Signature: substituted}
	default:
		// CorLibTypeSignature, TypeDefOrRefSignature, SentinelSignature and
		// InvalidSignature carry no nested TypeSignature a substitution
		// could reach.
		return sig
	}
}

func substituteMethodSignature(sig *MethodSignature, ctx GenericContext) *MethodSignature {
	ret := Substitute(sig.ReturnType, ctx)
	changed := ret != sig.ReturnType
	params := make([]TypeSignature, len(sig.ParameterTypes))
	for i, p := range sig.ParameterTypes {
		params[i] = Substitute(p, ctx)
		if params[i] != p {
			changed = true
		}
	}
	if !changed {
		return sig
	}
	return &MethodSignature{
		CallingConvention: sig.CallingConvention,
		GenericParamCount: sig.GenericParamCount,
		ReturnType:        ret,
		ParameterTypes:    params,
		SentinelIndex:     sig.SentinelIndex,
	}
}

// SubstituteMethodSignature is the exported form of substituteMethodSignature,
// used by typesystem when projecting a member of a generic instance.
func SubstituteMethodSignature(sig *MethodSignature, ctx GenericContext) *MethodSignature {
	return substituteMethodSignature(sig, ctx)
}
