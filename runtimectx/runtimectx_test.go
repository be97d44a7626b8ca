package runtimectx

import (
	"testing"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// noResolver fails every resolution; tests that pre-load every assembly
// they need via Add never reach it.
type noResolver struct{}

func (noResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyNotFound)
}

func newTestContext() *Context {
	return New(DefaultNetFramework40, Options{Resolver: noResolver{}, Corlib: identity.Identity{Name: "mscorlib"}})
}

func mscorlibAssembly() (*metadata.AssemblyDefinition, *metadata.ModuleDefinition) {
	asm := metadata.NewAssemblyDefinition(identity.Identity{Name: "mscorlib"})
	mod := metadata.NewModuleDefinition("mscorlib.dll")
	asm.AddModule(mod)
	object := metadata.NewTypeDefinition(identity.Some("System"), "Object", 0)
	mod.AddTopLevelType(object)
	return asm, mod
}

func TestResolveTypeDefinitionSelf(t *testing.T) {
	ctx := newTestContext()
	asm, mod := mscorlibAssembly()
	ctx.Add(asm)

	object := mod.TopLevelTypes()[0]
	res := ctx.ResolveType(object, mod)
	if res.Status != clrerr.Success || res.Value != object {
		t.Fatalf("expected self-resolution, got status=%v value=%v", res.Status, res.Value)
	}
}

func TestResolveTypeReferenceAcrossAssemblies(t *testing.T) {
	ctx := newTestContext()
	corlibAsm, corlibMod := mscorlibAssembly()
	ctx.Add(corlibAsm)

	appAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "App"})
	appMod := metadata.NewModuleDefinition("App.dll")
	appAsm.AddModule(appMod)
	ctx.Add(appAsm)

	corlibRef := metadata.NewAssemblyReference(corlibAsm.Identity)
	typeRef := metadata.NewTypeReference(corlibRef, identity.Some("System"), "Object")

	res := ctx.ResolveType(typeRef, appMod)
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
	if res.Value != corlibMod.TopLevelTypes()[0] {
		t.Fatalf("resolved to wrong definition")
	}
}

func TestResolveTypeReferenceCacheHit(t *testing.T) {
	ctx := newTestContext()
	corlibAsm, _ := mscorlibAssembly()
	ctx.Add(corlibAsm)
	appAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "App"})
	appMod := metadata.NewModuleDefinition("App.dll")
	appAsm.AddModule(appMod)
	ctx.Add(appAsm)

	corlibRef := metadata.NewAssemblyReference(corlibAsm.Identity)
	typeRef := metadata.NewTypeReference(corlibRef, identity.Some("System"), "Object")

	first := ctx.ResolveType(typeRef, appMod)
	second := ctx.ResolveType(typeRef, appMod)
	if first.Status != clrerr.Success || second.Status != clrerr.Success {
		t.Fatalf("expected both resolutions to succeed")
	}
	if first.Value != second.Value {
		t.Fatalf("expected identical cached instance across calls")
	}
}

func TestResolveExportedTypeForwarder(t *testing.T) {
	ctx := newTestContext()
	implAsm, implMod := mscorlibAssembly()
	stringType := metadata.NewTypeDefinition(identity.Some("System"), "String", 0)
	implMod.AddTopLevelType(stringType)
	ctx.Add(implAsm)

	facadeAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "netstandard"})
	facadeMod := metadata.NewModuleDefinition("netstandard.dll")
	facadeAsm.AddModule(facadeMod)
	implRef := metadata.NewAssemblyReference(implAsm.Identity)
	forwarder := metadata.NewExportedType(identity.Some("System"), "String", implRef)
	facadeMod.AddExportedType(forwarder)
	ctx.Add(facadeAsm)

	facadeRef := metadata.NewAssemblyReference(facadeAsm.Identity)
	typeRef := metadata.NewTypeReference(facadeRef, identity.Some("System"), "String")

	appMod := metadata.NewModuleDefinition("App.dll")
	res := ctx.ResolveType(typeRef, appMod)
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
	if res.Value != stringType {
		t.Fatalf("expected forwarder to resolve to the implementation's String type")
	}
}

func TestResolveExportedTypeCycleIsCircular(t *testing.T) {
	ctx := newTestContext()
	facadeAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "Facade"})
	facadeMod := metadata.NewModuleDefinition("Facade.dll")
	facadeAsm.AddModule(facadeMod)

	a := metadata.NewExportedType(identity.Some("NS"), "Cyclic", nil)
	b := metadata.NewExportedType(identity.Some("NS"), "Cyclic", a)
	a.Implementation = b
	facadeMod.AddExportedType(a)
	facadeMod.AddExportedType(b)
	ctx.Add(facadeAsm)

	res := ctx.resolveExportedType(a, nil, newResolutionState())
	if res.Status != clrerr.CircularResolutionScope {
		t.Fatalf("status = %v, want CircularResolutionScope", res.Status)
	}
}

func TestGetOrAddDeduplicatesVersionAgnostic(t *testing.T) {
	ctx := newTestContext()
	v1 := metadata.NewAssemblyDefinition(identity.Identity{Name: "Foo", Version: identity.Version{Major: 1}})
	v2 := metadata.NewAssemblyDefinition(identity.Identity{Name: "Foo", Version: identity.Version{Major: 2}})

	first := ctx.GetOrAdd(v1)
	second := ctx.GetOrAdd(v2)
	if first != second {
		t.Fatalf("expected the second registration to be discarded in favor of the first")
	}
	if len(ctx.GetLoadedAssemblies()) != 1 {
		t.Fatalf("expected exactly one loaded assembly")
	}
}

func TestResolveMemberField(t *testing.T) {
	ctx := newTestContext()
	asm, mod := mscorlibAssembly()
	owner := metadata.NewTypeDefinition(identity.Some("App"), "Widget", 0)
	fieldSig := &metadata.FieldSignature{Type: &metadata.CorLibTypeSignature{Element: metadata.ElementTypeI4}}
	owner.AddField(metadata.NewFieldDefinition("Count", 0, fieldSig))
	mod.AddTopLevelType(owner)
	ctx.Add(asm)

	ref := metadata.NewMemberReference(owner, "Count", &metadata.FieldSignature{Type: &metadata.CorLibTypeSignature{Element: metadata.ElementTypeI4}})
	res := ctx.ResolveMember(ref, mod)
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
	if _, ok := res.Value.(*metadata.FieldDefinition); !ok {
		t.Fatalf("expected a *metadata.FieldDefinition, got %T", res.Value)
	}
}

func TestProbeTargetRuntimeFromCorlibIdentity(t *testing.T) {
	ctx := newTestContext()
	asm := metadata.NewAssemblyDefinition(identity.Identity{Name: "mscorlib", Version: identity.Version{Major: 4}})
	target := ctx.ProbeTargetRuntime(asm, nil)
	if target.Family != FamilyNetFramework || target.Version.Major != 4 {
		t.Fatalf("target = %+v, want net-framework 4.x", target)
	}
}

func TestProbeTargetRuntimeDefaultsWhenUnknown(t *testing.T) {
	ctx := newTestContext()
	asm := metadata.NewAssemblyDefinition(identity.Identity{Name: "Unknown"})
	target := ctx.ProbeTargetRuntime(asm, nil)
	if target != DefaultNetFramework40 {
		t.Fatalf("target = %+v, want DefaultNetFramework40", target)
	}
}

func TestParseFrameworkMoniker(t *testing.T) {
	target, ok := parseFrameworkMoniker(".NETCoreApp,Version=v3.1")
	if !ok || target.Family != FamilyNetCoreApp || target.Version.Major != 3 || target.Version.Minor != 1 {
		t.Fatalf("parsed = %+v, ok=%v", target, ok)
	}
}

func TestProbeTargetRuntimeFromNetstandardIdentity(t *testing.T) {
	ctx := newTestContext()
	asm := metadata.NewAssemblyDefinition(identity.Identity{Name: "netstandard", Version: identity.Version{Major: 2}})
	target := ctx.ProbeTargetRuntime(asm, nil)
	if target.Family != FamilyNetStandard || target.Version.Major != 2 {
		t.Fatalf("target = %+v, want net-standard 2.0", target)
	}
}

type fixedAssemblyRefs []identity.Identity

func (f fixedAssemblyRefs) AssemblyReferences(*metadata.AssemblyDefinition) []identity.Identity { return f }

type fixedTFM string

func (f fixedTFM) TargetFrameworkMoniker(*metadata.AssemblyDefinition) (string, bool) {
	return string(f), true
}

func TestProbeTargetRuntimeSystemRuntimeRefWithCoreTFM(t *testing.T) {
	ctx := New(DefaultNetFramework40, Options{
		Resolver:         noResolver{},
		Corlib:           identity.Identity{Name: "mscorlib"},
		CustomAttributes: fixedTFM(".NETCoreApp,Version=v3.1"),
	})
	asm := metadata.NewAssemblyDefinition(identity.Identity{Name: "App"})
	refs := fixedAssemblyRefs{{Name: "System.Runtime", Version: identity.Version{Major: 4, Minor: 2, Build: 1}}}

	target := ctx.ProbeTargetRuntime(asm, refs)
	if target.Family != FamilyNetCoreApp || target.Version.Major != 3 || target.Version.Minor != 1 {
		t.Fatalf("target = %+v, want core 3.1", target)
	}
}
