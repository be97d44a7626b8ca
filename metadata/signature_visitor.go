package metadata

// Visitor is the exhaustive-dispatch interface §4.1 mandates: one method
// per TypeSignature variant, returning any so callers that want a typed
// result wrap it in a generic helper (see VisitTypeSignature below) rather
// than this package committing to one result type for every caller.
type Visitor interface {
	VisitCorLibType(*CorLibTypeSignature) any
	VisitTypeDefOrRef(*TypeDefOrRefSignature) any
	VisitPointer(*PointerSignature) any
	VisitByReference(*ByReferenceSignature) any
	VisitPinned(*PinnedSignature) any
	VisitSzArray(*SzArraySignature) any
	VisitArray(*ArraySignature) any
	VisitGenericInstance(*GenericInstanceSignature) any
	VisitGenericParameter(*GenericParameterSignature) any
	VisitFunctionPointer(*FunctionPointerSignature) any
	VisitCustomModifier(*CustomModifierSignature) any
	VisitSentinel(*SentinelSignature) any
	VisitInvalid(*InvalidSignature) any
}

// VisitTypeSignature dispatches sig to v and type-asserts the result to R,
// giving call sites the §4.1 "Visit(variant) → R" shape without every
// Visitor implementation having to be written generically.
func VisitTypeSignature[R any](sig TypeSignature, v Visitor) R {
	result := sig.Accept(v)
	if result == nil {
		var zero R
		return zero
	}
	return result.(R)
}

// VisitorWithState is the stateful twin §4.1 calls "Visit(variant, state) →
// R": the same exhaustive case set, each method additionally receiving an
// opaque state value threaded by the caller (e.g. a generic-substitution
// context, or a recursion-depth guard).
type VisitorWithState[S any] interface {
	VisitCorLibType(*CorLibTypeSignature, S) any
	VisitTypeDefOrRef(*TypeDefOrRefSignature, S) any
	VisitPointer(*PointerSignature, S) any
	VisitByReference(*ByReferenceSignature, S) any
	VisitPinned(*PinnedSignature, S) any
	VisitSzArray(*SzArraySignature, S) any
	VisitArray(*ArraySignature, S) any
	VisitGenericInstance(*GenericInstanceSignature, S) any
	VisitGenericParameter(*GenericParameterSignature, S) any
	VisitFunctionPointer(*FunctionPointerSignature, S) any
	VisitCustomModifier(*CustomModifierSignature, S) any
	VisitSentinel(*SentinelSignature, S) any
	VisitInvalid(*InvalidSignature, S) any
}

// AcceptWithState dispatches sig to v with state, the way Accept dispatches
// to a stateless Visitor. It lives here (rather than as a TypeSignature
// interface method) so adding VisitorWithState never requires touching the
// closed TypeSignature sum type's own method set.
func AcceptWithState[S any](sig TypeSignature, v VisitorWithState[S], state S) any {
	switch s := sig.(type) {
	case *CorLibTypeSignature:
		return v.VisitCorLibType(s, state)
	case *TypeDefOrRefSignature:
		return v.VisitTypeDefOrRef(s, state)
	case *PointerSignature:
		return v.VisitPointer(s, state)
	case *ByReferenceSignature:
		return v.VisitByReference(s, state)
	case *PinnedSignature:
		return v.VisitPinned(s, state)
	case *SzArraySignature:
		return v.VisitSzArray(s, state)
	case *ArraySignature:
		return v.VisitArray(s, state)
	case *GenericInstanceSignature:
		return v.VisitGenericInstance(s, state)
	case *GenericParameterSignature:
		return v.VisitGenericParameter(s, state)
	case *FunctionPointerSignature:
		return v.VisitFunctionPointer(s, state)
	case *CustomModifierSignature:
		return v.VisitCustomModifier(s, state)
	case *SentinelSignature:
		return v.VisitSentinel(s, state)
	case *InvalidSignature:
		return v.VisitInvalid(s, state)
	default:
		panic("metadata: unknown TypeSignature variant")
	}
}
