package resolve

import (
	"os"
	"path/filepath"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// FrameworkReference names one shared-framework dependency a
// .runtimeconfig.json declares (e.g. "Microsoft.NETCore.App", "3.1.0").
type FrameworkReference struct {
	Name    string
	Version string
}

// RuntimeConfig is the parsed subset of a .runtimeconfig.json this
// resolver needs: the framework roll-forward chain and any additional
// probing paths the app declared. Parsing the JSON file itself is a
// caller concern (§1 excludes ".runtimeconfig.json parsing" from the
// core); this struct is the boundary the caller hands a parsed result
// across.
type RuntimeConfig struct {
	Frameworks             []FrameworkReference
	AdditionalProbingPaths []string
}

// CoreResolver is the §4.5 "runtime-library resolver for the Core family":
// it probes the configured runtime directories from a RuntimeConfig when
// present, otherwise a fallback version, with the principal app framework
// ordered ahead of the core framework.
type CoreResolver struct {
	base          *DirectoryProbingResolver
	sharedRoot    string // e.g. "/usr/share/dotnet/shared" or DOTNET_ROOT/shared
	config        *RuntimeConfig
	fallbackFwk   FrameworkReference
}

// DefaultCoreFallback is used when no RuntimeConfig is supplied.
var DefaultCoreFallback = FrameworkReference{Name: "Microsoft.NETCore.App", Version: "3.1.0"}

// NewCoreResolver builds a Core-family resolver. config may be nil, in
// which case DefaultCoreFallback's directory is the only shared-framework
// directory probed, ahead of the origin and base search directories.
func NewCoreResolver(fs FileService, reader AssemblyReader, sharedRoot string, config *RuntimeConfig) *CoreResolver {
	if sharedRoot == "" {
		sharedRoot = defaultSharedRoot()
	}
	return &CoreResolver{
		base:        NewDirectoryProbingResolver(fs, reader, "", nil),
		sharedRoot:  sharedRoot,
		config:      config,
		fallbackFwk: DefaultCoreFallback,
	}
}

func defaultSharedRoot() string {
	if root := os.Getenv("DOTNET_ROOT"); root != "" {
		return filepath.Join(root, "shared")
	}
	return filepath.Join(string(filepath.Separator), "usr", "share", "dotnet", "shared")
}

// Resolve implements AssemblyResolver.
func (r *CoreResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	dirs := r.frameworkDirectories()
	dirs = append(dirs, r.additionalProbingPaths()...)
	dirs = append(dirs, r.base.SearchDirectories(originDir)...)
	return r.base.resolveIn(ref, dirs)
}

// frameworkDirectories returns the shared-framework directories to probe,
// in declaration order (the principal app framework — listed first in a
// .runtimeconfig.json — ahead of the core framework it depends on).
func (r *CoreResolver) frameworkDirectories() []string {
	if r.config == nil || len(r.config.Frameworks) == 0 {
		return []string{filepath.Join(r.sharedRoot, r.fallbackFwk.Name, r.fallbackFwk.Version)}
	}
	dirs := make([]string, len(r.config.Frameworks))
	for i, fwk := range r.config.Frameworks {
		dirs[i] = filepath.Join(r.sharedRoot, fwk.Name, fwk.Version)
	}
	return dirs
}

func (r *CoreResolver) additionalProbingPaths() []string {
	if r.config == nil {
		return nil
	}
	return r.config.AdditionalProbingPaths
}
