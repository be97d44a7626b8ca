package comparer

import (
	"testing"

	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
	"github.com/saferwall/clrmeta/metadata/testutil"
)

func i4() metadata.TypeSignature {
	return &metadata.CorLibTypeSignature{Element: metadata.ElementTypeI4}
}

func TestEqualIdentityExactVersion(t *testing.T) {
	c := New(ExactVersion, nil)
	a := identity.Identity{Name: "System", Version: identity.Version{Major: 4}}
	b := identity.Identity{Name: "System", Version: identity.Version{Major: 4, Minor: 1}}
	if c.EqualIdentity(a, b) {
		t.Fatal("exact-version comparer must not tolerate a minor-version mismatch")
	}
}

func TestEqualIdentityVersionAgnostic(t *testing.T) {
	c := New(VersionAgnostic, nil)
	a := identity.Identity{Name: "System", Version: identity.Version{Major: 4}}
	b := identity.Identity{Name: "System", Version: identity.Version{Major: 99, Minor: 9}}
	if !c.EqualIdentity(a, b) {
		t.Fatal("version-agnostic comparer must ignore the version tuple entirely")
	}
}

func TestEqualTypeDefOrRefSameAssemblySameName(t *testing.T) {
	c := New(ExactVersion, nil)
	corlib := testutil.NewCorLib("mscorlib")
	a := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	b := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	if !c.EqualTypeDefOrRef(a, b) {
		t.Fatal("two distinct TypeReference instances naming the same (scope, namespace, name) must compare equal")
	}
}

func TestEqualTypeDefOrRefDifferentName(t *testing.T) {
	c := New(ExactVersion, nil)
	corlib := testutil.NewCorLib("mscorlib")
	a := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	b := metadata.NewTypeReference(corlib, identity.Some("System"), "String")
	if c.EqualTypeDefOrRef(a, b) {
		t.Fatal("references naming different type names must not compare equal")
	}
}

func TestEqualTypeDefOrRefDifferentScope(t *testing.T) {
	c := New(ExactVersion, nil)
	mscorlib := testutil.NewCorLib("mscorlib")
	coreLib := testutil.NewCorLib("System.Private.CoreLib")
	a := metadata.NewTypeReference(mscorlib, identity.Some("System"), "Object")
	b := metadata.NewTypeReference(coreLib, identity.Some("System"), "Object")
	if c.EqualTypeDefOrRef(a, b) {
		t.Fatal("same name under different assembly scopes must not compare equal under ExactVersion")
	}
}

func TestEqualTypeDefOrRefVersionAgnosticScope(t *testing.T) {
	c := New(VersionAgnostic, nil)
	a := metadata.NewTypeReference(
		metadata.NewAssemblyReference(identity.Identity{Name: "mscorlib", Version: identity.Version{Major: 4}}),
		identity.Some("System"), "Object")
	b := metadata.NewTypeReference(
		metadata.NewAssemblyReference(identity.Identity{Name: "mscorlib", Version: identity.Version{Major: 2}}),
		identity.Some("System"), "Object")
	if !c.EqualTypeDefOrRef(a, b) {
		t.Fatal("version-agnostic scope comparison must ignore version differences")
	}
}

func TestEqualTypeSignatureStripsModifiers(t *testing.T) {
	c := New(ExactVersion, nil)
	corlib := testutil.NewCorLib("mscorlib")
	modType := metadata.NewTypeReference(corlib, identity.Some("System.Runtime.CompilerServices"), "IsVolatile")
	a := &metadata.PinnedSignature{Inner: &metadata.CustomModifierSignature{Required: true, ModifierType: modType, Inner: i4()}}
	b := i4()
	if !c.EqualTypeSignature(a, b) {
		t.Fatal("modifier/pinned wrappers must not participate in equality")
	}
}

func TestEqualTypeSignatureGenericInstanceVariance(t *testing.T) {
	// §8 scenario 5: Action<string> vs Action<object> are NOT structurally
	// equal signatures (variance-aware assignability is typesystem's job,
	// not the comparer's — the comparer reports the literal, non-variant
	// truth that these are different closed generic instantiations).
	c := New(ExactVersion, nil)
	corlib := testutil.NewCorLib("mscorlib")
	actionRef := metadata.NewTypeReference(corlib, identity.Some("System"), "Action`1")

	str := &metadata.TypeDefOrRefSignature{Type: metadata.NewTypeReference(corlib, identity.Some("System"), "String")}
	obj := &metadata.TypeDefOrRefSignature{Type: metadata.NewTypeReference(corlib, identity.Some("System"), "Object")}

	a := &metadata.GenericInstanceSignature{GenericType: actionRef, TypeArguments: []metadata.TypeSignature{str}}
	b := &metadata.GenericInstanceSignature{GenericType: actionRef, TypeArguments: []metadata.TypeSignature{obj}}
	if c.EqualTypeSignature(a, b) {
		t.Fatal("Action<string> and Action<object> must not compare structurally equal")
	}

	c2 := &metadata.GenericInstanceSignature{GenericType: actionRef, TypeArguments: []metadata.TypeSignature{str}}
	if !c.EqualTypeSignature(a, c2) {
		t.Fatal("two identical closed generic instantiations must compare equal")
	}
}

func TestEqualTypeSignatureArrayMissingBoundsAreZero(t *testing.T) {
	c := New(ExactVersion, nil)
	a := &metadata.ArraySignature{Element: i4(), Rank: 2, Sizes: nil, LowerBounds: nil}
	b := &metadata.ArraySignature{Element: i4(), Rank: 2, Sizes: []uint32{0, 0}, LowerBounds: []int32{0, 0}}
	if !c.EqualTypeSignature(a, b) {
		t.Fatal("an absent per-dimension entry must compare equal to an explicit zero entry")
	}
}

func TestHashConsistentWithEqual(t *testing.T) {
	c := New(ExactVersion, nil)
	corlib := testutil.NewCorLib("mscorlib")
	a := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	b := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	if !c.EqualTypeDefOrRef(a, b) {
		t.Fatal("precondition: a and b must compare equal")
	}
	if c.HashTypeDefOrRef(a) != c.HashTypeDefOrRef(b) {
		t.Fatal("equal TypeDefOrRef values must hash equal")
	}

	sigA := &metadata.SzArraySignature{Element: i4()}
	sigB := &metadata.SzArraySignature{Element: i4()}
	if !c.EqualTypeSignature(sigA, sigB) {
		t.Fatal("precondition: sigA and sigB must compare equal")
	}
	if c.HashTypeSignature(sigA) != c.HashTypeSignature(sigB) {
		t.Fatal("equal type signatures must hash equal")
	}
}

func TestEqualMethodSignatureGenericArity(t *testing.T) {
	c := New(ExactVersion, nil)
	a := metadata.NewMethodSignature(metadata.CallingConventionDefault|metadata.CallingConventionGeneric, 1, i4(), nil)
	b := metadata.NewMethodSignature(metadata.CallingConventionDefault|metadata.CallingConventionGeneric, 2, i4(), nil)
	if c.EqualMethodSignature(a, b) {
		t.Fatal("differing generic parameter counts must not compare equal")
	}
}
