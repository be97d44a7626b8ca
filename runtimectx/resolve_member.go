package runtimectx

import (
	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/metadata"
)

// moduleMemberTypeName is the pseudo top-level type ECMA-335 declares in
// every module for module-scoped globals (fields/methods not nested in any
// class); a ModuleScope member-reference parent resolves against it.
const moduleMemberTypeName = "<Module>"

// ResolveMember implements §4.4.3: resolve the declaring type, then scan
// its members for a name-and-signature match under the context's
// comparer. The result is either a *metadata.FieldDefinition or a
// *metadata.MethodDefinition, depending on which kind ref.Signature names.
func (c *Context) ResolveMember(ref *metadata.MemberReference, originModule *metadata.ModuleDefinition) clrerr.Result[any] {
	declaring, status := c.resolveMemberParent(ref.Parent, originModule)
	if status != clrerr.Success {
		c.metrics.MemberResolved(status.String())
		return clrerr.Fail[any](status)
	}

	if ref.IsField() {
		fieldSig := ref.Signature.(*metadata.FieldSignature)
		for _, f := range declaring.Fields {
			if f.Name == ref.Name && f.Signature != nil &&
				c.cmp.EqualTypeSignature(f.Signature.Type, fieldSig.Type) {
				c.metrics.MemberResolved(clrerr.Success.String())
				return clrerr.Ok[any](f)
			}
		}
	} else if ref.IsMethod() {
		methodSig := ref.Signature.(*metadata.MethodSignature)
		for _, m := range declaring.Methods {
			if m.Name == ref.Name && m.Signature != nil &&
				c.cmp.EqualMethodSignature(m.Signature, methodSig) {
				c.metrics.MemberResolved(clrerr.Success.String())
				return clrerr.Ok[any](m)
			}
		}
	}

	c.metrics.MemberResolved(clrerr.MemberNotFound.String())
	return clrerr.Fail[any](clrerr.MemberNotFound)
}

// resolveMemberParent resolves a MemberReference's parent to the concrete
// TypeDefinition whose Fields/Methods the scan walks.
func (c *Context) resolveMemberParent(parent metadata.MemberParent, originModule *metadata.ModuleDefinition) (*metadata.TypeDefinition, clrerr.Status) {
	switch p := parent.(type) {
	case *metadata.MethodDefinition:
		// A vararg call-site parent: the declaring type is already
		// concrete, no reference resolution needed (§3).
		if p.DeclaringType() == nil {
			return nil, clrerr.TypeNotFound
		}
		return p.DeclaringType(), clrerr.Success
	case metadata.ModuleScope:
		if found := p.Target.FindTopLevelType("", moduleMemberTypeName); found != nil {
			return found, clrerr.Success
		}
		return nil, clrerr.TypeNotFound
	default:
		res := c.ResolveType(parent, originModule)
		if !res.Status.Ok() {
			return nil, res.Status
		}
		return res.Value, clrerr.Success
	}
}
