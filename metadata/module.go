package metadata

import "github.com/saferwall/clrmeta/identity"

// AssemblyDefinition is an assembly as loaded into a runtime context: an
// identity plus the modules it owns. §3's "every definition is owned by
// exactly one module and one assembly" invariant starts here — an assembly
// owns its modules directly; a type/member is owned by a module
// transitively.
type AssemblyDefinition struct {
	identity.Identity

	modules []*ModuleDefinition

	// context is set exactly once, by runtimectx.Context.Add, enforcing
	// §4.4's "asserts the assembly has no prior context" precondition. It is
	// stored as an opaque pointer (any) so this package does not import
	// runtimectx, which would close the identity/metadata/runtimectx import
	// cycle the layering in SPEC_FULL.md §2 depends on not existing.
	context any
}

// NewAssemblyDefinition creates a free-floating assembly definition with no
// modules and no owning context yet.
func NewAssemblyDefinition(id identity.Identity) *AssemblyDefinition {
	return &AssemblyDefinition{Identity: id}
}

// Context returns the opaque context handle a runtime context stamped via
// SetContext, or nil if the assembly has not been added to one.
func (a *AssemblyDefinition) Context() any { return a.context }

// SetContext stamps the owning-context back-pointer. It panics if the
// assembly already has a different context — §4.4's "Add: asserts the
// assembly has no prior context" is a programmer error, not a recoverable
// resolution outcome, so it is enforced here rather than via a Status.
func (a *AssemblyDefinition) SetContext(ctx any) {
	if a.context != nil && a.context != ctx {
		panic("metadata: assembly already belongs to a runtime context")
	}
	a.context = ctx
}

// AddModule appends a module to the assembly and stamps its back-pointer.
func (a *AssemblyDefinition) AddModule(m *ModuleDefinition) {
	m.assembly = a
	a.modules = append(a.modules, m)
}

// Modules returns the assembly's modules, manifest module first.
func (a *AssemblyDefinition) Modules() []*ModuleDefinition { return a.modules }

// ManifestModule returns the first (manifest) module, or nil if none was
// added yet.
func (a *AssemblyDefinition) ManifestModule() *ModuleDefinition {
	if len(a.modules) == 0 {
		return nil
	}
	return a.modules[0]
}

// FindModule returns the module named name within this assembly (§4.4.2
// "file entry implementation named a module not present in the declaring
// assembly" needs exactly this lookup), or nil.
func (a *AssemblyDefinition) FindModule(name identity.Utf8String) *ModuleDefinition {
	for _, m := range a.modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModuleDefinition is a single metadata container: its own name, the types
// it declares at the top level, the exported types it forwards, and the
// assembly-references/other-modules its own TypeReferences may point at.
// It is the "arena" §9 describes: every TypeDefinition/MethodDefinition this
// module owns is reachable only by walking from here.
type ModuleDefinition struct {
	Name identity.Utf8String
	GUID [16]byte

	assembly     *AssemblyDefinition
	topLevel     []*TypeDefinition
	exported     []*ExportedType
	corLibTypes  *CorLibTypeFactory
}

// NewModuleDefinition creates a module with no assembly, types or exported
// types yet; the caller (or a reader) populates it before use.
func NewModuleDefinition(name identity.Utf8String) *ModuleDefinition {
	return &ModuleDefinition{Name: name}
}

// Assembly returns the owning assembly, or nil for a detached module.
func (m *ModuleDefinition) Assembly() *AssemblyDefinition { return m.assembly }

// AddTopLevelType appends a top-level (non-nested) type definition and
// stamps its declaring-module back-pointer.
func (m *ModuleDefinition) AddTopLevelType(t *TypeDefinition) {
	t.module = m
	m.topLevel = append(m.topLevel, t)
}

// TopLevelTypes returns the module's top-level type definitions.
func (m *ModuleDefinition) TopLevelTypes() []*TypeDefinition { return m.topLevel }

// FindTopLevelType performs the byte-exact (namespace, name) search §4.4.1
// "search inside a module: walk top-level types" describes.
func (m *ModuleDefinition) FindTopLevelType(ns, name string) *TypeDefinition {
	for _, t := range m.topLevel {
		if t.IsTypeOf(ns, name) {
			return t
		}
	}
	return nil
}

// AddExportedType appends an exported-type forwarder declared by this
// module's assembly.
func (m *ModuleDefinition) AddExportedType(e *ExportedType) {
	e.owner = m
	m.exported = append(m.exported, e)
}

// ExportedTypes returns the module's exported types.
func (m *ModuleDefinition) ExportedTypes() []*ExportedType { return m.exported }

// FindExportedType performs the byte-exact (namespace, name) search §4.4.1
// "if not found, walk exported types" describes.
func (m *ModuleDefinition) FindExportedType(ns, name string) *ExportedType {
	for _, e := range m.exported {
		if e.IsTypeOf(ns, name) {
			return e
		}
	}
	return nil
}

// SetCorLibTypeFactory installs the factory the importer substitutes
// through (§4.7 "for corlib primitive types, the importer substitutes the
// target module's corlib type factory"). A module targeting a corlib
// defines its own primitive TypeReferences through this factory so every
// CorLibTypeSignature in the module resolves consistently.
func (m *ModuleDefinition) SetCorLibTypeFactory(f *CorLibTypeFactory) { m.corLibTypes = f }

// CorLibTypeFactory returns the module's installed corlib type factory, or
// nil if none was set.
func (m *ModuleDefinition) CorLibTypeFactory() *CorLibTypeFactory { return m.corLibTypes }

// CorLibTypeFactory vends the TypeReference a module uses to name each
// primitive element type in its own corlib (e.g. "mscorlib" vs
// "System.Private.CoreLib" both declare System.Int32, but as distinct
// TypeReference instances rooted at distinct AssemblyReferences).
type CorLibTypeFactory struct {
	CorLib *AssemblyReference
	refs   map[ElementType]*TypeReference
}

// NewCorLibTypeFactory builds a factory that mints TypeReferences rooted at
// corLib for each corlib primitive element type on first request.
func NewCorLibTypeFactory(corLib *AssemblyReference) *CorLibTypeFactory {
	return &CorLibTypeFactory{CorLib: corLib, refs: make(map[ElementType]*TypeReference)}
}

// Get returns (creating and memoizing on first use) the TypeReference this
// factory's corlib uses to name et, or nil if et is not a corlib primitive.
func (f *CorLibTypeFactory) Get(et ElementType) *TypeReference {
	name := et.CorLibTypeName()
	if name == "" {
		return nil
	}
	if r, ok := f.refs[et]; ok {
		return r
	}
	r := NewTypeReference(f.CorLib, identity.Some("System"), identity.Utf8String(name))
	f.refs[et] = r
	return r
}
