package resolve

import (
	"io"
	"testing"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// stubReader treats any non-empty byte content as a valid image, returning
// an AssemblyDefinition named after the bytes it was given (tests write
// the expected name as the file's entire content).
type stubReader struct{}

func (stubReader) ReadAssembly(r io.ReaderAt, size int64) (*metadata.AssemblyDefinition, error) {
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return metadata.NewAssemblyDefinition(identity.Identity{Name: identity.Utf8String(buf)}), nil
}

func TestDirectoryProbingResolverFindsDll(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{
		"/app/Foo.dll": []byte("Foo"),
	})
	r := NewDirectoryProbingResolver(fs, stubReader{}, "", nil)
	res := r.Resolve(identity.Identity{Name: "Foo"}, "/app")
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
	if string(res.Value.Name) != "Foo" {
		t.Fatalf("resolved name = %q, want Foo", res.Value.Name)
	}
}

func TestDirectoryProbingResolverTriesExeAfterDll(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{
		"/app/Foo.exe": []byte("Foo"),
	})
	r := NewDirectoryProbingResolver(fs, stubReader{}, "", nil)
	res := r.Resolve(identity.Identity{Name: "Foo"}, "/app")
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
}

func TestDirectoryProbingResolverNotFound(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{})
	r := NewDirectoryProbingResolver(fs, stubReader{}, "", nil)
	res := r.Resolve(identity.Identity{Name: "Missing"}, "/app")
	if res.Status != clrerr.AssemblyNotFound {
		t.Fatalf("status = %v, want AssemblyNotFound", res.Status)
	}
}

func TestCultureSpecificDirectoryProbedFirst(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{
		"/app/fr-FR/Foo.dll": []byte("Foo"),
		"/app/Foo.dll":       []byte("Neutral"),
	})
	r := NewDirectoryProbingResolver(fs, stubReader{}, "", nil)
	ref := identity.Identity{Name: "Foo", Culture: identity.Some("fr-FR")}
	res := r.Resolve(ref, "/app")
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success (culture-specific subdirectory)", res.Status)
	}
	if string(res.Value.Name) != "Foo" {
		t.Fatalf("resolved name = %q, want Foo from the culture-specific subdirectory", res.Value.Name)
	}
}

func TestFrameworkResolverReturnsMscorlibFromInstallDir(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{
		"/framework/v4.0.30319/mscorlib.dll": []byte("mscorlib"),
	})
	r := NewFrameworkResolver(fs, stubReader{}, "/framework/v4.0.30319", []string{})
	res := r.Resolve(identity.Identity{Name: "mscorlib", Version: identity.Version{Major: 4}}, "")
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
	if string(res.Value.Name) != "mscorlib" {
		t.Fatalf("resolved name = %q, want mscorlib", res.Value.Name)
	}
}

func TestFrameworkResolverSkipsGACWithoutPublicKeyToken(t *testing.T) {
	// An unsigned reference must never be satisfied by a GAC hit, even if
	// one happens to exist at the computed path; here the configured GAC
	// root holds no file and the reference has no public key token, so only
	// a miss is possible, and the test asserts the resolver falls through
	// to AssemblyNotFound rather than panicking on an absent GAC probe.
	fs := NewByteFileService(map[string][]byte{})
	r := NewFrameworkResolver(fs, stubReader{}, "", []string{"/gac"})
	res := r.Resolve(identity.Identity{Name: "Unsigned"}, "")
	if res.Status != clrerr.AssemblyNotFound {
		t.Fatalf("status = %v, want AssemblyNotFound", res.Status)
	}
}

func TestCoreResolverProbesConfiguredFrameworkDirectory(t *testing.T) {
	fs := NewByteFileService(map[string][]byte{
		"/dotnet/shared/Microsoft.NETCore.App/3.1.0/System.Private.CoreLib.dll": []byte("System.Private.CoreLib"),
	})
	cfg := &RuntimeConfig{Frameworks: []FrameworkReference{{Name: "Microsoft.NETCore.App", Version: "3.1.0"}}}
	r := NewCoreResolver(fs, stubReader{}, "/dotnet/shared", cfg)
	res := r.Resolve(identity.Identity{Name: "System.Private.CoreLib"}, "")
	if res.Status != clrerr.Success {
		t.Fatalf("status = %v, want Success", res.Status)
	}
}

func TestBundleResolverMatchesEmbeddedByNameThenFallsBack(t *testing.T) {
	bundle := NewBundleResolver([]BundleEntry{
		{RelativePath: "Foo.dll", Data: []byte("Foo")},
	}, stubReader{}, NewDirectoryProbingResolver(
		NewByteFileService(map[string][]byte{"/app/Bar.dll": []byte("Bar")}), stubReader{}, "", nil))

	res := bundle.Resolve(identity.Identity{Name: "Foo"}, "/app")
	if res.Status != clrerr.Success || string(res.Value.Name) != "Foo" {
		t.Fatalf("expected embedded Foo to resolve, got %v", res.Status)
	}

	res = bundle.Resolve(identity.Identity{Name: "Bar"}, "/app")
	if res.Status != clrerr.Success || string(res.Value.Name) != "Bar" {
		t.Fatalf("expected fallback to resolve Bar, got %v", res.Status)
	}
}
