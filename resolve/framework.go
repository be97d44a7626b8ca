package resolve

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// FrameworkResolver is the §4.5 "runtime-library resolver for the Framework
// family": it probes a Global Assembly Cache layout (architecture-specific
// and MSIL roots, version-prefix naming) and the runtime install
// directory, returning mscorlib directly from the install directory and
// restricting GAC probing to references that carry a public-key token.
type FrameworkResolver struct {
	base        *DirectoryProbingResolver
	installDir  string
	gacRoots    []string
	corlibNames map[string]bool
}

// NewFrameworkResolver builds a Framework-family resolver. installDir is
// the runtime install directory (e.g. the directory containing mscorlib.dll
// for the targeted version); gacRoots overrides GAC root discovery for
// testing — pass nil to use frameworkGACRoots().
func NewFrameworkResolver(fs FileService, reader AssemblyReader, installDir string, gacRoots []string) *FrameworkResolver {
	if gacRoots == nil {
		gacRoots = frameworkGACRoots()
	}
	return &FrameworkResolver{
		base:        NewDirectoryProbingResolver(fs, reader, "", nil),
		installDir:  installDir,
		gacRoots:    gacRoots,
		corlibNames: map[string]bool{"mscorlib": true},
	}
}

// Resolve implements AssemblyResolver.
func (r *FrameworkResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	if r.corlibNames[string(ref.Name)] && r.installDir != "" {
		if res := r.base.resolveIn(ref, []string{r.installDir}); res.Status == clrerr.Success {
			return res
		}
	}

	// GAC probing is restricted to references carrying a public-key token
	// (§4.5): an unsigned reference cannot name a GAC-installed assembly.
	if !ref.Key.Empty() {
		for _, root := range r.gacRoots {
			dir := gacAssemblyDirectory(root, ref)
			if res := r.base.resolveIn(ref, []string{dir}); res.Status == clrerr.Success {
				return res
			}
		}
	}

	return r.base.Resolve(ref, originDir)
}

// gacAssemblyDirectory builds the version-prefixed GAC subdirectory for
// ref under root, e.g. "<root>/Foo/v4.0_1.2.3.4__<publicKeyToken>".
func gacAssemblyDirectory(root string, ref identity.Identity) string {
	token := hexToken(ref.Key.Token())
	versioned := "v4.0_" + ref.Version.String() + "__" + token
	return filepath.Join(root, string(ref.Name), versioned)
}

func hexToken(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

// frameworkGACRoots returns the GAC roots to probe. It always includes
// %WINDIR%\Microsoft.NET\assembly\GAC_MSIL (WINDIR defaulting to
// C:\Windows); on Windows it also puts the registry InstallRoot's
// assembly\GAC_MSIL first when that value is present, and appends the
// architecture-specific GAC_32 and GAC_64 roots (§4.5 expansion: a .NET
// Framework GAC essentially never exists off Windows, so the resolver
// degrades to "not found" there rather than failing to build).
func frameworkGACRoots() []string {
	return frameworkGACRootsForGOOS(runtime.GOOS, os.Getenv("WINDIR"))
}

func frameworkGACRootsForGOOS(goos, windir string) []string {
	if windir == "" {
		windir = `C:\Windows`
	}
	roots := []string{
		filepath.Join(windir, "Microsoft.NET", "assembly", "GAC_MSIL"),
	}
	if goos == "windows" {
		if installRoot, ok := registryInstallRoot(); ok {
			roots = append([]string{filepath.Join(installRoot, "assembly", "GAC_MSIL")}, roots...)
		}
		roots = append(roots,
			filepath.Join(windir, "Microsoft.NET", "assembly", "GAC_32"),
			filepath.Join(windir, "Microsoft.NET", "assembly", "GAC_64"))
	}
	return roots
}
