package typesystem

import "github.com/saferwall/clrmeta/metadata"

// IsDirectlyCompatibleWith is comparer-equality by default; generic
// instances additionally honor per-parameter variance declared on the open
// generic type (§4.3). Unknown variance (a parameter index the resolver
// cannot account for) is treated as non-variant, the conservative default
// §4.3 calls for.
func (s *System) IsDirectlyCompatibleWith(a, b metadata.TypeSignature) bool {
	a = metadata.StripModifiers(a)
	b = metadata.StripModifiers(b)

	ga, aOK := a.(*metadata.GenericInstanceSignature)
	gb, bOK := b.(*metadata.GenericInstanceSignature)
	if aOK && bOK {
		return s.compatibleGenericInstances(ga, gb)
	}
	return s.Comparer.EqualTypeSignature(a, b)
}

func (s *System) compatibleGenericInstances(a, b *metadata.GenericInstanceSignature) bool {
	if !s.Comparer.EqualTypeDefOrRef(a.GenericType, b.GenericType) || len(a.TypeArguments) != len(b.TypeArguments) {
		return false
	}
	variances := s.genericParameterVariances(a.GenericType, len(a.TypeArguments))
	for i := range a.TypeArguments {
		switch variances[i] {
		case metadata.Covariant:
			if !s.IsCompatibleWith(a.TypeArguments[i], b.TypeArguments[i]) {
				return false
			}
		case metadata.Contravariant:
			if !s.IsCompatibleWith(b.TypeArguments[i], a.TypeArguments[i]) {
				return false
			}
		default:
			if !s.Comparer.EqualTypeSignature(a.TypeArguments[i], b.TypeArguments[i]) {
				return false
			}
		}
	}
	return true
}

// genericParameterVariances returns the declared variance for each of the
// first n generic parameters of openType, defaulting every entry to
// NonVariant when openType cannot be resolved (§4.3's "unknown variance is
// treated as non-variant").
func (s *System) genericParameterVariances(openType metadata.TypeDefOrRef, n int) []metadata.Variance {
	out := make([]metadata.Variance, n)
	if s.Resolver == nil {
		return out
	}
	def, ok := s.Resolver.ResolveTypeDefinition(openType)
	if !ok {
		return out
	}
	for i, gp := range def.GenericParameters {
		if i >= n {
			break
		}
		out[i] = gp.Variance
	}
	return out
}

// IsCompatibleWith achieves transitivity by walking up directBaseClass
// chains and checking each implemented interface recursively, returning
// true as soon as any level is directly compatible (§4.3). A visited-name
// guard bounds the walk against a malformed cyclic hierarchy, yielding the
// conservative false §4.3 asks for on failure rather than looping forever.
func (s *System) IsCompatibleWith(a, b metadata.TypeSignature) bool {
	return s.isCompatibleWith(a, b, map[string]bool{})
}

func (s *System) isCompatibleWith(a, b metadata.TypeSignature, visited map[string]bool) bool {
	if s.IsDirectlyCompatibleWith(a, b) {
		return true
	}
	tdr, inst, ok := asTypeDefOrRefAndInstance(a)
	if !ok {
		return false
	}
	key := nameKey(tdr)
	if visited[key] {
		return false
	}
	visited[key] = true

	if base, ok := s.DirectBaseClass(tdr, inst); ok {
		if s.isCompatibleWith(wrapAsSignature(base), b, visited) {
			return true
		}
	}
	for _, iface := range s.DirectlyImplementedInterfaces(tdr, inst) {
		if s.isCompatibleWith(wrapAsSignature(iface), b, visited) {
			return true
		}
	}
	return false
}

// IsAssignableTo is true when the intermediate types already match, when
// one side is native-int and the other a 32-bit integer, or when
// compatibility holds (§4.3).
func (s *System) IsAssignableTo(a, b metadata.TypeSignature) bool {
	ia, ib := s.IntermediateType(a), s.IntermediateType(b)
	if s.Comparer.EqualTypeSignature(ia, ib) {
		return true
	}
	if isNativeIntPair(ia, ib) {
		return true
	}
	return s.IsCompatibleWith(a, b)
}

func isNativeIntPair(a, b metadata.TypeSignature) bool {
	ca, aOK := a.(*metadata.CorLibTypeSignature)
	cb, bOK := b.(*metadata.CorLibTypeSignature)
	if !aOK || !bOK {
		return false
	}
	isNativeOrI4 := func(e metadata.ElementType) (native, i4 bool) {
		return e == metadata.ElementTypeI, e == metadata.ElementTypeI4
	}
	aNative, aI4 := isNativeOrI4(ca.Element)
	bNative, bI4 := isNativeOrI4(cb.Element)
	return (aNative && bI4) || (aI4 && bNative)
}

func asTypeDefOrRefAndInstance(sig metadata.TypeSignature) (metadata.TypeDefOrRef, *metadata.GenericInstanceSignature, bool) {
	switch s := sig.(type) {
	case *metadata.TypeDefOrRefSignature:
		return s.Type, nil, true
	case *metadata.GenericInstanceSignature:
		return s.GenericType, s, true
	default:
		return nil, nil, false
	}
}

// wrapAsSignature turns a resolved base-class/interface TypeDefOrRef back
// into a TypeSignature for recursion. A TypeSpecification already wraps
// one; any other kind is assumed a class reference (no base class or
// implemented interface is ever itself a value type under ECMA-335's
// single-inheritance-from-object rule), consistent with §4.3's use of
// directBaseClass purely for class/interface compatibility walks.
func wrapAsSignature(t metadata.TypeDefOrRef) metadata.TypeSignature {
	if spec, ok := t.(*metadata.TypeSpecification); ok {
		return spec.Signature()
	}
	return &metadata.TypeDefOrRefSignature{Type: t}
}

func nameKey(t metadata.TypeDefOrRef) string {
	ns, name := t.TypeName()
	return string(ns.Value()) + "\x00" + string(name)
}
