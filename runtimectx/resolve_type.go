package runtimectx

import (
	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// resolutionState carries the per-query cycle-detection stacks §4.4.1 and
// §4.4.2 each call for: a scope stack (assembly/module/type-reference
// scopes already pushed) and an implementation stack (exported-type
// implementations already pushed). Both algorithms can recurse into each
// other — following a forwarder out of a module search re-enters exported
// type resolution, which can itself search a module and hit another
// TypeReference scope — so one shared state threads through both, which is
// at least as conservative as two independently-scoped stacks.
type resolutionState struct {
	scopes map[any]bool
	impls  map[any]bool
}

func newResolutionState() *resolutionState {
	return &resolutionState{scopes: map[any]bool{}, impls: map[any]bool{}}
}

// typeCacheKey identifies a previously-resolved type descriptor: the
// descriptor's own identity (always a pointer, hence comparable) plus the
// originModule it was resolved relative to, since the same TypeReference
// can resolve differently depending on the caller's origin (§4.4.1 step 2,
// AssemblyReference case).
type typeCacheKey struct {
	descriptor any
	origin     *metadata.ModuleDefinition
}

// ResolveType implements §4.4's "Type resolution (typeDescriptor,
// originModule)". descriptor must be one of *metadata.TypeDefinition,
// *metadata.TypeReference, *metadata.TypeSpecification, *metadata.ExportedType,
// or a metadata.TypeSignature.
func (c *Context) ResolveType(descriptor any, originModule *metadata.ModuleDefinition) clrerr.Result[*metadata.TypeDefinition] {
	key := typeCacheKey{descriptor: descriptor, origin: originModule}
	if cached, ok := c.typeCache.Load(key); ok {
		def := cached.(*metadata.TypeDefinition)
		if consistentWithDescriptor(descriptor, def) {
			c.metrics.TypeCacheHit()
			return clrerr.Ok(def)
		}
		c.typeCache.Delete(key)
	}
	c.metrics.TypeCacheMiss()

	res := c.resolveTypeUncached(descriptor, originModule, newResolutionState())
	if res.Status.Ok() {
		c.typeCache.Store(key, res.Value)
	}
	c.metrics.TypeResolved(res.Status.String())
	return res
}

// consistentWithDescriptor implements the cache-hit verification step: "on
// cache hit, verifies the cached definition still has the descriptor's
// (namespace, name); on mismatch, evicts the entry and re-resolves."
// Descriptors with no (namespace, name) of their own (bare signatures) are
// trusted as-is, since only TypeDefOrRef/ExportedType kinds carry one.
func consistentWithDescriptor(descriptor any, def *metadata.TypeDefinition) bool {
	named, ok := descriptor.(interface {
		TypeName() (identity.OptionalString, identity.Utf8String)
	})
	if !ok {
		return true
	}
	ns, name := named.TypeName()
	return def.IsTypeOf(string(ns.Value()), string(name))
}

func (c *Context) resolveTypeUncached(descriptor any, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	switch d := descriptor.(type) {
	case *metadata.TypeDefinition:
		if d.Module() == originModule {
			return clrerr.Ok(d)
		}
		return c.resolveForeignDefinition(d, originModule)
	case *metadata.TypeReference:
		return c.resolveTypeReference(d, originModule, state)
	case *metadata.TypeSpecification:
		return c.resolveTypeUncached(d.Signature(), originModule, state)
	case *metadata.ExportedType:
		return c.resolveExportedType(d, originModule, state)
	case metadata.TypeSignature:
		return c.resolveSignatureTypeDefOrRef(d, originModule, state)
	default:
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}
}

// resolveForeignDefinition handles a TypeDefinition that is not in
// originModule: it looks up the same (namespace, name) among the top-level
// types of the definition's own declaring module and returns that match,
// or d itself when d has no module or no top-level match exists. It does
// not consult this context's loaded assemblies, so a definition that
// belongs to another context's copy of an assembly resolves to that other
// copy's instance, not to one loaded in this context.
func (c *Context) resolveForeignDefinition(d *metadata.TypeDefinition, originModule *metadata.ModuleDefinition) clrerr.Result[*metadata.TypeDefinition] {
	module := d.Module()
	if module == nil {
		return clrerr.Ok(d)
	}
	ns, name := d.TypeName()
	if found := module.FindTopLevelType(string(ns.Value()), string(name)); found != nil {
		return clrerr.Ok(found)
	}
	if parent := d.DeclaringType(); parent != nil {
		return clrerr.Ok(d)
	}
	return clrerr.Ok(d)
}

func (c *Context) resolveSignatureTypeDefOrRef(sig metadata.TypeSignature, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	switch s := metadata.StripModifiers(sig).(type) {
	case *metadata.TypeDefOrRefSignature:
		return c.resolveTypeUncached(s.Type, originModule, state)
	case *metadata.GenericInstanceSignature:
		return c.resolveTypeUncached(s.GenericType, originModule, state)
	case *metadata.CorLibTypeSignature:
		if originModule == nil || originModule.CorLibTypeFactory() == nil {
			return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
		}
		ref := originModule.CorLibTypeFactory().Get(s.Element)
		if ref == nil {
			return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
		}
		return c.resolveTypeUncached(ref, originModule, state)
	default:
		// Pointer, ByReference, SzArray, Array, GenericParameter,
		// FunctionPointer, CustomModifier, Sentinel, Invalid: none of these
		// name a type-def-or-ref of their own (§4.4 "fail when none
		// exists, e.g., generic parameter, pointer element").
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}
}

// resolveTypeReference implements §4.4.1.
func (c *Context) resolveTypeReference(ref *metadata.TypeReference, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	scope := ref.Scope()
	if scope == nil {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}
	if state.scopes[scope] {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.CircularResolutionScope)
	}
	state.scopes[scope] = true
	defer delete(state.scopes, scope)

	ns, name := ref.Namespace, ref.Name
	if name == "" {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}

	switch s := scope.(type) {
	case *metadata.AssemblyReference:
		ownModule := ref.Module()
		if ownModule != nil && ownModule.Assembly() != nil && identity.DefaultEqual(ownModule.Assembly().Identity, s.Identity) {
			return c.searchModule(ownModule, ns, name, originModule, state)
		}
		if originModule != nil && originModule.Assembly() != nil && identity.DefaultEqual(originModule.Assembly().Identity, s.Identity) {
			return c.searchModule(originModule, ns, name, originModule, state)
		}
		asmRes := c.ResolveAssembly(s.Identity, originModule)
		if !asmRes.Status.Ok() {
			return clrerr.Fail[*metadata.TypeDefinition](asmRes.Status)
		}
		return c.searchAssembly(asmRes.Value, ns, name, originModule, state)
	case metadata.ModuleScope:
		return c.searchModule(s.Target, ns, name, originModule, state)
	case *metadata.TypeReference:
		parentRes := c.resolveTypeReference(s, originModule, state)
		if !parentRes.Status.Ok() {
			return parentRes
		}
		if nested := parentRes.Value.FindNestedType(string(ns.Value()), string(name)); nested != nil {
			return clrerr.Ok(nested)
		}
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.TypeNotFound)
	default:
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}
}

// searchAssembly searches every module of asm in declaration order — the
// manifest module first — since a TypeReference rooted at an
// AssemblyReference names a type somewhere in that assembly, not
// necessarily in its manifest module alone.
func (c *Context) searchAssembly(asm *metadata.AssemblyDefinition, ns identity.OptionalString, name identity.Utf8String, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	for _, m := range asm.Modules() {
		if res := c.searchModule(m, ns, name, originModule, state); res.Status.Ok() {
			return res
		}
	}
	return clrerr.Fail[*metadata.TypeDefinition](clrerr.TypeNotFound)
}

// searchModule implements "search inside a module: walk top-level types
// ...; if not found, walk exported types ... recursively resolve the
// exported type" (§4.4.1).
func (c *Context) searchModule(module *metadata.ModuleDefinition, ns identity.OptionalString, name identity.Utf8String, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	if module == nil {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.ModuleNotFound)
	}
	nsStr := string(ns.Value())
	nameStr := string(name)
	if t := module.FindTopLevelType(nsStr, nameStr); t != nil {
		return clrerr.Ok(t)
	}
	if e := module.FindExportedType(nsStr, nameStr); e != nil {
		return c.resolveExportedType(e, originModule, state)
	}
	return clrerr.Fail[*metadata.TypeDefinition](clrerr.TypeNotFound)
}
