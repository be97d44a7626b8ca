package runtimectx

import (
	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/metadata"
)

// resolveExportedType implements §4.4.2: a mirror of §4.4.1 with an
// implementation stack for cycle protection instead of a scope stack.
func (c *Context) resolveExportedType(e *metadata.ExportedType, originModule *metadata.ModuleDefinition, state *resolutionState) clrerr.Result[*metadata.TypeDefinition] {
	impl := e.Implementation
	if impl == nil {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.InvalidReference)
	}
	if state.impls[impl] {
		return clrerr.Fail[*metadata.TypeDefinition](clrerr.CircularResolutionScope)
	}
	state.impls[impl] = true
	defer delete(state.impls, impl)

	ns, name := e.Namespace, e.Name
	switch v := impl.(type) {
	case *metadata.AssemblyReference:
		asmRes := c.ResolveAssembly(v.Identity, originModule)
		if !asmRes.Status.Ok() {
			return clrerr.Fail[*metadata.TypeDefinition](asmRes.Status)
		}
		return c.searchAssembly(asmRes.Value, ns, name, originModule, state)
	case *metadata.FileReference:
		declaringAssembly := e.Module().Assembly()
		if declaringAssembly == nil {
			return clrerr.Fail[*metadata.TypeDefinition](clrerr.ModuleNotFound)
		}
		target := declaringAssembly.FindModule(v.Name)
		if target == nil {
			return clrerr.Fail[*metadata.TypeDefinition](clrerr.ModuleNotFound)
		}
		return c.searchModule(target, ns, name, originModule, state)
	case *metadata.ExportedType:
		parentRes := c.resolveExportedType(v, originModule, state)
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
