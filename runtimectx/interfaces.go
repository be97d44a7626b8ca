package runtimectx

import (
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// NormalizeTypeDefOrRef implements comparer.Context: it follows t through
// any exported-type forwarding chain by resolving it to its terminal
// TypeDefinition and handing back a TypeDefinition the comparer can name
// (namespace, name, module) directly. A failed lookup returns (t, false),
// degrading to structural-as-written comparison of the unresolved
// reference (§4.2/§4.3's "failure yields a conservative false" posture).
func (c *Context) NormalizeTypeDefOrRef(t metadata.TypeDefOrRef) (metadata.TypeDefOrRef, bool) {
	res := c.ResolveType(t, nil)
	if !res.Status.Ok() {
		return t, false
	}
	return res.Value, true
}

// ResolveTypeDefinition implements typesystem.Resolver.
func (c *Context) ResolveTypeDefinition(t metadata.TypeDefOrRef) (*metadata.TypeDefinition, bool) {
	res := c.ResolveType(t, nil)
	if !res.Status.Ok() {
		return nil, false
	}
	return res.Value, true
}

// SystemObject implements typesystem.Resolver: it returns a TypeReference
// naming System.Object rooted at this context's configured corlib, memoized
// after first construction (System.Object's identity never changes for the
// lifetime of a context).
func (c *Context) SystemObject() metadata.TypeDefOrRef {
	c.systemObjectOnce.Do(func() {
		corlibRef := metadata.NewAssemblyReference(c.corlib)
		c.systemObject = metadata.NewTypeReference(corlibRef, identity.Some("System"), "Object")
	})
	return c.systemObject
}

// CustomAttributeSource is the §4.6 prober's optional collaborator: it
// supplies the raw TargetFrameworkAttribute argument the object model
// itself does not retain, since custom-attribute table rows are a
// PE/metadata-reader concern (§1, §6) this module does not otherwise model.
type CustomAttributeSource interface {
	// TargetFrameworkMoniker returns the first serialized string argument
	// of a TargetFrameworkAttribute directly applied to asm's
	// assembly-definition row, if one exists.
	TargetFrameworkMoniker(asm *metadata.AssemblyDefinition) (string, bool)
}
