package typesystem

import (
	"github.com/saferwall/clrmeta/comparer"
	"github.com/saferwall/clrmeta/metadata"
)

// Resolver is the narrow slice of a runtime context this package needs:
// turning a TypeDefOrRef into its TypeDefinition, and naming System.Object
// for the "interfaces compare directly compatible with Object" rule.
// Declaring it here (rather than importing runtimectx) keeps the
// dependency pointed the right way, the same shape comparer.Context uses.
type Resolver interface {
	ResolveTypeDefinition(t metadata.TypeDefOrRef) (*metadata.TypeDefinition, bool)
	SystemObject() metadata.TypeDefOrRef
}

// System bundles the resolver and comparer every §4.3 operation needs.
type System struct {
	Resolver Resolver
	Comparer *comparer.Comparer
}

// New builds a System.
func New(resolver Resolver, cmp *comparer.Comparer) *System {
	return &System{Resolver: resolver, Comparer: cmp}
}

var integralCanon = map[metadata.ElementType]metadata.ElementType{
	metadata.ElementTypeI1: metadata.ElementTypeI1,
	metadata.ElementTypeU1: metadata.ElementTypeI1,
	metadata.ElementTypeI2: metadata.ElementTypeI2,
	metadata.ElementTypeU2: metadata.ElementTypeI2,
	metadata.ElementTypeI4: metadata.ElementTypeI4,
	metadata.ElementTypeU4: metadata.ElementTypeI4,
	metadata.ElementTypeI8: metadata.ElementTypeI8,
	metadata.ElementTypeU8: metadata.ElementTypeI8,
	metadata.ElementTypeI:  metadata.ElementTypeI,
	metadata.ElementTypeU:  metadata.ElementTypeI,
}

func corlib(e metadata.ElementType) metadata.TypeSignature {
	return &metadata.CorLibTypeSignature{Element: e}
}

// ReducedType collapses an enum to its underlying integral type and
// collapses signed/unsigned integers of equal width onto one canonical
// representative (§4.3).
func (s *System) ReducedType(sig metadata.TypeSignature) metadata.TypeSignature {
	sig = metadata.StripModifiers(sig)

	if cl, ok := sig.(*metadata.CorLibTypeSignature); ok {
		if canon, ok := integralCanon[cl.Element]; ok {
			return corlib(canon)
		}
		return sig
	}

	if tdr, ok := sig.(*metadata.TypeDefOrRefSignature); ok && tdr.IsValueType {
		if underlying, ok := s.enumUnderlyingType(tdr.Type); ok {
			return s.ReducedType(underlying)
		}
	}
	return sig
}

// enumUnderlyingType resolves t and, if it derives directly from
// System.Enum, returns the signature of its single instance field (the
// ECMA-335 "value__" field every enum type declares).
func (s *System) enumUnderlyingType(t metadata.TypeDefOrRef) (metadata.TypeSignature, bool) {
	if s.Resolver == nil {
		return nil, false
	}
	def, ok := s.Resolver.ResolveTypeDefinition(t)
	if !ok || def.BaseType == nil {
		return nil, false
	}
	baseNs, baseName := def.BaseType.TypeName()
	if string(baseName) != "Enum" || baseNs.Value() != "System" {
		return nil, false
	}
	for _, f := range def.Fields {
		if f.IsStatic() || f.Signature == nil {
			continue
		}
		return f.Signature.Type, true
	}
	return nil, false
}

// VerificationType additionally collapses bool and char onto their
// reduced integral representatives, and projects through a managed
// reference to its inner verification type (§4.3).
func (s *System) VerificationType(sig metadata.TypeSignature) metadata.TypeSignature {
	sig = metadata.StripModifiers(sig)
	if byref, ok := sig.(*metadata.ByReferenceSignature); ok {
		return &metadata.ByReferenceSignature{Inner: s.VerificationType(byref.Inner)}
	}
	if cl, ok := sig.(*metadata.CorLibTypeSignature); ok {
		switch cl.Element {
		case metadata.ElementTypeBoolean:
			return corlib(metadata.ElementTypeI1)
		case metadata.ElementTypeChar:
			return corlib(metadata.ElementTypeI2)
		}
	}
	return s.ReducedType(sig)
}

// IntermediateType is the evaluation-stack projection: it defaults to the
// verification type, further promoting any integral type narrower than
// 4 bytes to int32 (§4.3).
func (s *System) IntermediateType(sig metadata.TypeSignature) metadata.TypeSignature {
	v := s.VerificationType(sig)
	cl, ok := v.(*metadata.CorLibTypeSignature)
	if !ok {
		return v
	}
	switch cl.Element {
	case metadata.ElementTypeI1, metadata.ElementTypeI2:
		return corlib(metadata.ElementTypeI4)
	default:
		return v
	}
}

// DirectBaseClass returns System.Object for interfaces; otherwise the
// declared base type, with any generic substitution performed via inst's
// generic context when inst is a closed generic instance (§4.3). ok is
// false when t has no base type (System.Object itself) or cannot be
// resolved.
func (s *System) DirectBaseClass(t metadata.TypeDefOrRef, inst *metadata.GenericInstanceSignature) (metadata.TypeDefOrRef, bool) {
	if s.Resolver == nil {
		return nil, false
	}
	def, ok := s.Resolver.ResolveTypeDefinition(t)
	if !ok {
		return nil, false
	}
	if def.Attributes.IsInterface() {
		obj := s.Resolver.SystemObject()
		if obj == nil {
			return nil, false
		}
		return obj, true
	}
	if def.BaseType == nil {
		return nil, false
	}
	if inst == nil {
		return def.BaseType, true
	}
	return substituteTypeDefOrRef(def.BaseType, metadata.ExtractGenericContext(inst)), true
}

// DirectlyImplementedInterfaces returns t's declared interfaces, with
// generic substitution applied when inst is non-nil (§4.3).
func (s *System) DirectlyImplementedInterfaces(t metadata.TypeDefOrRef, inst *metadata.GenericInstanceSignature) []metadata.TypeDefOrRef {
	if s.Resolver == nil {
		return nil
	}
	def, ok := s.Resolver.ResolveTypeDefinition(t)
	if !ok {
		return nil
	}
	if inst == nil {
		return def.Interfaces
	}
	ctx := metadata.ExtractGenericContext(inst)
	out := make([]metadata.TypeDefOrRef, len(def.Interfaces))
	for i, iface := range def.Interfaces {
		out[i] = substituteTypeDefOrRef(iface, ctx)
	}
	return out
}

// substituteTypeDefOrRef applies ctx to t's signature when t is a
// TypeSpecification (the only TypeDefOrRef kind that wraps a signature
// generic parameters can occur in); any other kind passes through
// unchanged, since a plain TypeDefinition/TypeReference names a type by
// identity, not by a substitutable expression.
func substituteTypeDefOrRef(t metadata.TypeDefOrRef, ctx metadata.GenericContext) metadata.TypeDefOrRef {
	spec, ok := t.(*metadata.TypeSpecification)
	if !ok {
		return t
	}
	substituted := metadata.Substitute(spec.Signature(), ctx)
	if substituted == spec.Signature() {
		return t
	}
	return metadata.NewTypeSpecification(substituted)
}
