package importer

import "github.com/saferwall/clrmeta/metadata"

// corlibPrimitives enumerates the element types CorLibTypeFactory.Get
// recognizes, so importTypeReference can recognize a TypeReference that
// names one of them by (namespace, name) and substitute the target
// module's own corlib factory instead of copying the source's corlib
// AssemblyReference (§4.7 "for corlib primitive types, the importer
// substitutes the target module's corlib type factory regardless of the
// source's corlib version").
var corlibPrimitives = []metadata.ElementType{
	metadata.ElementTypeVoid, metadata.ElementTypeBoolean, metadata.ElementTypeChar,
	metadata.ElementTypeI1, metadata.ElementTypeU1, metadata.ElementTypeI2, metadata.ElementTypeU2,
	metadata.ElementTypeI4, metadata.ElementTypeU4, metadata.ElementTypeI8, metadata.ElementTypeU8,
	metadata.ElementTypeR4, metadata.ElementTypeR8, metadata.ElementTypeString,
	metadata.ElementTypeI, metadata.ElementTypeU, metadata.ElementTypeObject,
	metadata.ElementTypeTypedByRef,
}

// Importer roots foreign descriptors, read against some other module, in
// Target's own scopes (§4.7).
type Importer struct {
	Target *metadata.ModuleDefinition
}

// New builds an Importer that roots everything it imports in target.
func New(target *metadata.ModuleDefinition) *Importer {
	return &Importer{Target: target}
}

// ImportAssemblyReference returns src unchanged when it already belongs to
// the target module, and otherwise copies src's identity into a fresh,
// free-floating reference (§4.7 "assembly references by identity copy").
func (im *Importer) ImportAssemblyReference(src *metadata.AssemblyReference) *metadata.AssemblyReference {
	if im.Target != nil && src.Module() == im.Target {
		return src
	}
	return metadata.NewAssemblyReference(src.Identity)
}

// ImportScope imports a resolution scope, promoting another module's own
// ModuleScope to an AssemblyReference naming that module's assembly when
// the module isn't the import target itself (§4.7 "walking the scope
// chain, promoting another module's own module-scope to an assembly
// reference of that module's assembly").
func (im *Importer) ImportScope(scope metadata.ResolutionScope) metadata.ResolutionScope {
	switch s := scope.(type) {
	case *metadata.AssemblyReference:
		return im.ImportAssemblyReference(s)
	case metadata.ModuleScope:
		if s.Target == im.Target {
			return s
		}
		if s.Target != nil && s.Target.Assembly() != nil {
			return im.ImportAssemblyReference(metadata.NewAssemblyReference(s.Target.Assembly().Identity))
		}
		return s
	case *metadata.TypeReference:
		return im.ImportTypeReference(s)
	default:
		return scope
	}
}

// ImportTypeReference imports a type reference's (scope, namespace, name)
// into one rooted at Target, substituting the target's corlib factory when
// r names a corlib primitive. A reference already owned by Target is
// returned unchanged (§4.7's identity-preserving shortcut).
func (im *Importer) ImportTypeReference(r *metadata.TypeReference) *metadata.TypeReference {
	if r.Module() == im.Target {
		return r
	}
	if factory := im.Target.CorLibTypeFactory(); factory != nil {
		ns, name := r.TypeName()
		if string(ns.Value()) == "System" {
			for _, et := range corlibPrimitives {
				if et.CorLibTypeName() == string(name) {
					if substituted := factory.Get(et); substituted != nil {
						return substituted
					}
				}
			}
		}
	}
	return metadata.NewTypeReference(im.ImportScope(r.Scope()), r.Namespace, r.Name)
}

// importDefinitionAsReference turns a foreign TypeDefinition into a
// TypeReference rooted at Target, walking DeclaringType outward to build a
// nested-type scope chain, or an assembly reference to the definition's own
// assembly for a top-level type.
func (im *Importer) importDefinitionAsReference(t *metadata.TypeDefinition) *metadata.TypeReference {
	ns, name := t.TypeName()
	var scope metadata.ResolutionScope
	switch {
	case t.DeclaringType() != nil:
		scope = im.importDefinitionAsReference(t.DeclaringType())
	case t.Module() != nil && t.Module().Assembly() != nil:
		scope = im.ImportAssemblyReference(metadata.NewAssemblyReference(t.Module().Assembly().Identity))
	}
	return metadata.NewTypeReference(scope, ns, name)
}

// ImportTypeDefOrRef imports any TypeDefOrRef: a definition already owned
// by Target is returned unchanged, a foreign definition is turned into a
// reference, a reference is imported via ImportTypeReference, and a
// specification's wrapped signature is imported recursively.
func (im *Importer) ImportTypeDefOrRef(t metadata.TypeDefOrRef) metadata.TypeDefOrRef {
	switch v := t.(type) {
	case *metadata.TypeDefinition:
		if v.Module() == im.Target {
			return v
		}
		return im.importDefinitionAsReference(v)
	case *metadata.TypeReference:
		return im.ImportTypeReference(v)
	case *metadata.TypeSpecification:
		return metadata.NewTypeSpecification(im.ImportTypeSignature(v.Signature()))
	default:
		// InvalidSignature and any other marker is not importable;
		// handed back as-is rather than panicking (§7: an invalid
		// placeholder propagates, it never blocks an otherwise-valid
		// import).
		return t
	}
}

// ImportTypeSignature recursively imports every TypeDefOrRef a signature
// tree references, leaving structural shape (pointer/array rank/generic
// argument count/etc.) untouched (§4.7 "type signatures recursively").
func (im *Importer) ImportTypeSignature(sig metadata.TypeSignature) metadata.TypeSignature {
	switch s := sig.(type) {
	case *metadata.CorLibTypeSignature:
		// A bare element-type tag carries no scope of its own; nothing to
		// substitute (§4.7's corlib substitution applies to a named
		// TypeReference, not this tag-only encoding).
		return s
	case *metadata.TypeDefOrRefSignature:
		return &metadata.TypeDefOrRefSignature{Type: im.ImportTypeDefOrRef(s.Type), IsValueType: s.IsValueType}
	case *metadata.PointerSignature:
		return &metadata.PointerSignature{Inner: im.ImportTypeSignature(s.Inner)}
	case *metadata.ByReferenceSignature:
		return &metadata.ByReferenceSignature{Inner: im.ImportTypeSignature(s.Inner)}
	case *metadata.PinnedSignature:
		return &metadata.PinnedSignature{Inner: im.ImportTypeSignature(s.Inner)}
	case *metadata.SzArraySignature:
		return &metadata.SzArraySignature{Element: im.ImportTypeSignature(s.Element)}
	case *metadata.ArraySignature:
		return &metadata.ArraySignature{
			Element:     im.ImportTypeSignature(s.Element),
			Rank:        s.Rank,
			Sizes:       s.Sizes,
			LowerBounds: s.LowerBounds,
		}
	case *metadata.GenericInstanceSignature:
		args := make([]metadata.TypeSignature, len(s.TypeArguments))
		for i, a := range s.TypeArguments {
			args[i] = im.ImportTypeSignature(a)
		}
		return &metadata.GenericInstanceSignature{
			GenericType:   im.ImportTypeDefOrRef(s.GenericType),
			IsValueType:   s.IsValueType,
			TypeArguments: args,
		}
	case *metadata.GenericParameterSignature:
		// Indexed by position, not by any scope; nothing to root.
		return s
	case *metadata.FunctionPointerSignature:
		return &metadata.FunctionPointerSignature{Signature: im.ImportMethodSignature(s.Signature)}
	case *metadata.CustomModifierSignature:
		return &metadata.CustomModifierSignature{
			Required:     s.Required,
			ModifierType: im.ImportTypeDefOrRef(s.ModifierType),
			Inner:        im.ImportTypeSignature(s.Inner),
		}
	case *metadata.SentinelSignature, *metadata.InvalidSignature:
		return s
	default:
		return sig
	}
}

// ImportMethodSignature imports a method signature's return type and every
// parameter type, preserving calling convention, generic parameter count
// and sentinel index (§4.7 "method/field signatures by recursion over
// their types").
func (im *Importer) ImportMethodSignature(sig *metadata.MethodSignature) *metadata.MethodSignature {
	params := make([]metadata.TypeSignature, len(sig.ParameterTypes))
	for i, p := range sig.ParameterTypes {
		params[i] = im.ImportTypeSignature(p)
	}
	return &metadata.MethodSignature{
		CallingConvention: sig.CallingConvention,
		GenericParamCount: sig.GenericParamCount,
		ReturnType:        im.ImportTypeSignature(sig.ReturnType),
		ParameterTypes:    params,
		SentinelIndex:     sig.SentinelIndex,
	}
}

// ImportFieldSignature imports a field signature's declared type.
func (im *Importer) ImportFieldSignature(sig *metadata.FieldSignature) *metadata.FieldSignature {
	return &metadata.FieldSignature{Type: im.ImportTypeSignature(sig.Type)}
}
