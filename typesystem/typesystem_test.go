package typesystem

import (
	"testing"

	"github.com/saferwall/clrmeta/comparer"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
	"github.com/saferwall/clrmeta/metadata/testutil"
)

// fakeResolver resolves every reference to a fixed table of definitions
// keyed by (namespace, name), enough to exercise directBaseClass/interface
// walks and variance lookups without a runtime context.
type fakeResolver struct {
	defs   map[string]*metadata.TypeDefinition
	object metadata.TypeDefOrRef
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{defs: make(map[string]*metadata.TypeDefinition)}
}

func (r *fakeResolver) add(t metadata.TypeDefOrRef, def *metadata.TypeDefinition) {
	r.defs[nameKey(t)] = def
}

func (r *fakeResolver) ResolveTypeDefinition(t metadata.TypeDefOrRef) (*metadata.TypeDefinition, bool) {
	def, ok := r.defs[nameKey(t)]
	return def, ok
}

func (r *fakeResolver) SystemObject() metadata.TypeDefOrRef { return r.object }

func TestGenericVarianceActionCompatibility(t *testing.T) {
	corlib := testutil.NewCorLib("mscorlib")
	actionRef := metadata.NewTypeReference(corlib, identity.Some("System"), "Action`1")

	resolver := newFakeResolver()
	actionDef := metadata.NewTypeDefinition(identity.Some("System"), "Action`1", 0)
	actionDef.GenericParameters = []*metadata.GenericParameter{
		{Index: 0, Variance: metadata.Contravariant},
	}
	resolver.add(actionRef, actionDef)

	stringRef := metadata.NewTypeReference(corlib, identity.Some("System"), "String")
	objectRef := metadata.NewTypeReference(corlib, identity.Some("System"), "Object")
	stringDef := metadata.NewTypeDefinition(identity.Some("System"), "String", 0)
	stringDef.BaseType = objectRef
	resolver.add(stringRef, stringDef)
	objectDef := metadata.NewTypeDefinition(identity.Some("System"), "Object", 0)
	resolver.add(objectRef, objectDef)

	sys := New(resolver, comparer.New(comparer.ExactVersion, nil))

	actionOfString := &metadata.GenericInstanceSignature{
		GenericType:   actionRef,
		TypeArguments: []metadata.TypeSignature{&metadata.TypeDefOrRefSignature{Type: stringRef}},
	}
	actionOfObject := &metadata.GenericInstanceSignature{
		GenericType:   actionRef,
		TypeArguments: []metadata.TypeSignature{&metadata.TypeDefOrRefSignature{Type: objectRef}},
	}

	if !sys.IsCompatibleWith(actionOfObject, actionOfString) {
		t.Fatal("Action<object>.isCompatibleWith(Action<string>) must be true under contravariance")
	}
	if sys.IsCompatibleWith(actionOfString, actionOfObject) {
		t.Fatal("Action<string>.isCompatibleWith(Action<object>) must be false")
	}
}

func TestReducedTypeCollapsesUnsignedToSigned(t *testing.T) {
	sys := New(newFakeResolver(), comparer.New(comparer.ExactVersion, nil))
	u4 := &metadata.CorLibTypeSignature{Element: metadata.ElementTypeU4}
	got := sys.ReducedType(u4)
	cl, ok := got.(*metadata.CorLibTypeSignature)
	if !ok || cl.Element != metadata.ElementTypeI4 {
		t.Fatalf("ReducedType(U4) = %#v, want I4", got)
	}
}

func TestIsAssignableToNativeIntAndInt32(t *testing.T) {
	sys := New(newFakeResolver(), comparer.New(comparer.ExactVersion, nil))
	native := &metadata.CorLibTypeSignature{Element: metadata.ElementTypeI}
	i4 := &metadata.CorLibTypeSignature{Element: metadata.ElementTypeI4}
	if !sys.IsAssignableTo(native, i4) {
		t.Fatal("native int must be assignable to/from int32")
	}
}
