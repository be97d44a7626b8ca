package importer

import (
	"reflect"
	"testing"

	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

func TestImportAssemblyReferenceCopiesIdentity(t *testing.T) {
	target := metadata.NewModuleDefinition("Target.dll")
	im := New(target)

	src := metadata.NewAssemblyReference(identity.Identity{Name: "mscorlib", Version: identity.Version{Major: 4}})
	got := im.ImportAssemblyReference(src)
	if got == src {
		t.Fatalf("expected a fresh instance, not the same pointer")
	}
	if !reflect.DeepEqual(got.Identity, src.Identity) {
		t.Fatalf("expected identical identity, got %+v want %+v", got.Identity, src.Identity)
	}
}

func TestImportTypeDefOrRefAlreadyInTarget(t *testing.T) {
	target := metadata.NewModuleDefinition("Target.dll")
	widget := metadata.NewTypeDefinition(identity.Some("App"), "Widget", 0)
	target.AddTopLevelType(widget)

	im := New(target)
	got := im.ImportTypeDefOrRef(widget)
	if got != widget {
		t.Fatalf("expected the already-owned definition back unchanged when Module() == target")
	}
}

func TestImportModuleScopePromotesToAssemblyReference(t *testing.T) {
	sourceAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "Source"})
	sourceMod := metadata.NewModuleDefinition("Source.dll")
	sourceAsm.AddModule(sourceMod)

	target := metadata.NewModuleDefinition("Target.dll")
	im := New(target)

	scope := im.ImportScope(metadata.ModuleScope{Target: sourceMod})
	asmRef, ok := scope.(*metadata.AssemblyReference)
	if !ok {
		t.Fatalf("expected a promoted *metadata.AssemblyReference, got %T", scope)
	}
	if !reflect.DeepEqual(asmRef.Identity, sourceAsm.Identity) {
		t.Fatalf("promoted reference identity = %+v, want %+v", asmRef.Identity, sourceAsm.Identity)
	}
}

func TestImportTypeReferenceSubstitutesCorlibFactory(t *testing.T) {
	targetCorlib := metadata.NewAssemblyReference(identity.Identity{Name: "System.Private.CoreLib"})
	target := metadata.NewModuleDefinition("Target.dll")
	target.SetCorLibTypeFactory(metadata.NewCorLibTypeFactory(targetCorlib))

	sourceCorlibRef := metadata.NewAssemblyReference(identity.Identity{Name: "mscorlib"})
	sourceInt32 := metadata.NewTypeReference(sourceCorlibRef, identity.Some("System"), "Int32")

	im := New(target)
	got := im.ImportTypeReference(sourceInt32)

	if !reflect.DeepEqual(got.Scope().(*metadata.AssemblyReference).Identity, targetCorlib.Identity) {
		t.Fatalf("expected substitution to target's corlib, got scope %+v", got.Scope())
	}
}

func TestImportTypeSignatureRecursesThroughArray(t *testing.T) {
	sourceAsm := metadata.NewAssemblyDefinition(identity.Identity{Name: "Source"})
	sourceMod := metadata.NewModuleDefinition("Source.dll")
	sourceAsm.AddModule(sourceMod)
	widget := metadata.NewTypeDefinition(identity.Some("App"), "Widget", 0)
	sourceMod.AddTopLevelType(widget)

	target := metadata.NewModuleDefinition("Target.dll")
	im := New(target)

	sig := &metadata.SzArraySignature{
		Element: &metadata.TypeDefOrRefSignature{Type: widget},
	}
	imported := im.ImportTypeSignature(sig).(*metadata.SzArraySignature)
	inner := imported.Element.(*metadata.TypeDefOrRefSignature)
	ref, ok := inner.Type.(*metadata.TypeReference)
	if !ok {
		t.Fatalf("expected the foreign definition to import as a *metadata.TypeReference, got %T", inner.Type)
	}
	ns, name := ref.TypeName()
	if string(ns.Value()) != "App" || string(name) != "Widget" {
		t.Fatalf("imported reference names (%q, %q), want (App, Widget)", ns.Value(), name)
	}
}

func TestImportMethodSignaturePreservesShape(t *testing.T) {
	target := metadata.NewModuleDefinition("Target.dll")
	im := New(target)

	sig := metadata.NewMethodSignature(metadata.CallingConventionHasThis, 0,
		&metadata.CorLibTypeSignature{Element: metadata.ElementTypeVoid},
		[]metadata.TypeSignature{&metadata.CorLibTypeSignature{Element: metadata.ElementTypeI4}})

	imported := im.ImportMethodSignature(sig)
	if imported.CallingConvention != sig.CallingConvention || len(imported.ParameterTypes) != 1 {
		t.Fatalf("expected shape to be preserved, got %+v", imported)
	}
}
