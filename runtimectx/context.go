package runtimectx

import (
	"io"
	"sync"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/comparer"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/log"
	"github.com/saferwall/clrmeta/metadata"
	"github.com/saferwall/clrmeta/metrics"
	"github.com/saferwall/clrmeta/resolve"
	"github.com/saferwall/clrmeta/typesystem"
)

// Family is the broad runtime family a TargetRuntime names (§4.4/§4.6).
type Family int

// Runtime families.
const (
	FamilyNetFramework Family = iota
	FamilyNetStandard
	FamilyNetCoreApp
)

func (f Family) String() string {
	switch f {
	case FamilyNetFramework:
		return "net-framework"
	case FamilyNetStandard:
		return "net-standard"
	case FamilyNetCoreApp:
		return "net-core-app"
	default:
		return "unknown"
	}
}

// TargetRuntime is the `(family, version)` pair a Context is bound to.
type TargetRuntime struct {
	Family  Family
	Version identity.Version
}

// DefaultNetFramework40 is the target the §4.6 prober falls back to "if the
// prober fails completely".
var DefaultNetFramework40 = TargetRuntime{Family: FamilyNetFramework, Version: identity.Version{Major: 4}}

// Options configures a Context, mirroring the teacher's pe.Options
// constructor-with-defaults shape: every field is optional except Resolver,
// and New fills in a sensible default for anything else left zero.
type Options struct {
	// Resolver locates and reads assemblies this context does not already
	// hold. Required; New panics if nil (a context with no resolver can
	// never satisfy a cache miss, a caller configuration error rather than
	// a resolvable runtime condition).
	Resolver resolve.AssemblyResolver

	// Corlib is this runtime's expected implementation-corlib identity
	// (§4.4 "Corlib descriptor"), used to mint System.Object.
	Corlib identity.Identity

	// ComparerFlags configures the bound signature comparer (§4.2/§4.4).
	ComparerFlags comparer.Flags

	// Logger receives structured log records. Defaults to log.Default().
	Logger log.Logger

	// Metrics records cache/resolution outcomes. A nil Metrics is valid —
	// every call site goes through the nil-safe *metrics.Recorder methods,
	// so instrumentation stays opt-in the way the teacher's Options.Logger
	// pattern is.
	Metrics *metrics.Recorder

	// CustomAttributes supplies the §4.6 prober's TargetFrameworkAttribute
	// lookup. Optional; when nil, prober step 3 is skipped and the prober
	// relies solely on corlib/assembly-reference version walking.
	CustomAttributes CustomAttributeSource
}

// Context is the §4.4 runtime context: the bound resolver, comparer, type
// system, loaded-assembly table and type cache for one target runtime.
type Context struct {
	Target TargetRuntime

	resolver resolve.AssemblyResolver
	corlib   identity.Identity
	logger   *log.Helper
	metrics  *metrics.Recorder
	caSource CustomAttributeSource

	cmp *comparer.Comparer
	ts  *typesystem.System

	mu        sync.Mutex
	assembles map[identity.VersionAgnosticKey]*metadata.AssemblyDefinition
	// origins tracks the directory every module's assembly was loaded
	// from, recovered separately from the metadata model (which carries no
	// file paths of its own, §1) so §4.4.1's "caller's originModule"
	// precedence step has something to probe relative to.
	origins map[*metadata.ModuleDefinition]string

	typeCache sync.Map // typeCacheKey -> *metadata.TypeDefinition

	systemObjectOnce sync.Once
	systemObject     metadata.TypeDefOrRef
}

// New builds a Context bound to target, panicking if opts.Resolver is nil
// (see Options.Resolver).
func New(target TargetRuntime, opts Options) *Context {
	if opts.Resolver == nil {
		panic("runtimectx: Options.Resolver is required")
	}
	helper := opts.Logger
	c := &Context{
		Target:    target,
		resolver:  opts.Resolver,
		corlib:    opts.Corlib,
		metrics:   opts.Metrics,
		caSource:  opts.CustomAttributes,
		assembles: make(map[identity.VersionAgnosticKey]*metadata.AssemblyDefinition),
		origins:   make(map[*metadata.ModuleDefinition]string),
	}
	if helper != nil {
		c.logger = log.NewHelper(helper)
	} else {
		c.logger = log.Default()
	}
	c.cmp = comparer.New(opts.ComparerFlags, c)
	c.ts = typesystem.New(c, c.cmp)
	return c
}

// Comparer returns the signature comparer bound to this context.
func (c *Context) Comparer() *comparer.Comparer { return c.cmp }

// TypeSystem returns the §4.3 compatibility/assignability operations bound
// to this context.
func (c *Context) TypeSystem() *typesystem.System { return c.ts }

// Corlib returns the configured implementation-corlib identity.
func (c *Context) Corlib() identity.Identity { return c.corlib }

// Add registers assembly under this context (§4.4's assembly registration
// protocol): it asserts the assembly has no prior (different) context —
// AssemblyDefinition.SetContext already panics for that — and asserts no
// existing entry under the same version-agnostic identity, panicking if
// one exists, the same "programmer error, not a recoverable resolution
// outcome" posture SetContext itself uses. Callers racing to register the
// same identity concurrently should use GetOrAdd instead.
func (c *Context) Add(assembly *metadata.AssemblyDefinition) {
	c.AddWithOrigin(assembly, "")
}

// AddWithOrigin is Add plus recording originDir as the directory every
// module of assembly was loaded from, consulted by later §4.4.1
// resolutions that need "the caller's originModule" precedence step.
func (c *Context) AddWithOrigin(assembly *metadata.AssemblyDefinition, originDir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := assembly.Identity.Key()
	if _, exists := c.assembles[key]; exists {
		panic("runtimectx: assembly already registered under an equivalent identity: " + assembly.Identity.String())
	}
	assembly.SetContext(c)
	c.assembles[key] = assembly
	if originDir != "" {
		for _, m := range assembly.Modules() {
			c.origins[m] = originDir
		}
	}
	c.noteLoadedAssemblyCountLocked()
}

// GetOrAdd returns the assembly already registered under candidate's
// version-agnostic identity if present — discarding candidate — otherwise
// it registers candidate and returns it. Exactly one of the two ends up
// attached to the context, implementing §4.4's "first wins, second is
// discarded" duplicate-identity policy for concurrent LoadAssembly callers
// (§9).
func (c *Context) GetOrAdd(candidate *metadata.AssemblyDefinition) *metadata.AssemblyDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := candidate.Identity.Key()
	if existing, ok := c.assembles[key]; ok {
		return existing
	}
	candidate.SetContext(c)
	c.assembles[key] = candidate
	c.noteLoadedAssemblyCountLocked()
	return candidate
}

func (c *Context) noteLoadedAssemblyCountLocked() {
	if c.metrics != nil {
		c.metrics.SetLoadedAssemblies(len(c.assembles))
	}
}

// GetLoadedAssemblies snapshots the loaded-assembly table under its lock
// (§4.4 "Enumeration snapshots the table under its lock").
func (c *Context) GetLoadedAssemblies() []*metadata.AssemblyDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*metadata.AssemblyDefinition, 0, len(c.assembles))
	for _, a := range c.assembles {
		out = append(out, a)
	}
	return out
}

// LoadAssembly reads source via reader using the context's default
// parameters, then GetOrAdds the result: if an equivalent identity already
// exists, the previously cached instance is returned and the freshly read
// one is discarded (§4.4).
func (c *Context) LoadAssembly(reader resolve.AssemblyReader, source io.ReaderAt, size int64) (*metadata.AssemblyDefinition, error) {
	def, err := reader.ReadAssembly(source, size)
	if err != nil {
		return nil, err
	}
	return c.GetOrAdd(def), nil
}

// ResolveAssembly implements §4.4's "Assembly resolution (ref,
// originModule)": cache check under lock, delegate to the resolver (the
// reference implementation's choice: probe under the same lock, to
// preserve single-instance semantics per §5's ordering guarantee), Add on
// success, propagate the resolver's status on failure.
func (c *Context) ResolveAssembly(ref identity.Identity, originModule *metadata.ModuleDefinition) clrerr.Result[*metadata.AssemblyDefinition] {
	key := ref.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.assembles[key]; ok {
		c.metrics.AssemblyResolved(clrerr.Success.String())
		return clrerr.Ok(cached)
	}

	originDir := c.origins[originModule]
	res := c.resolver.Resolve(ref, originDir)
	if !res.Status.Ok() {
		c.metrics.AssemblyResolved(res.Status.String())
		c.logger.Warnw("msg", "assembly resolution failed", "identity", ref.String(), "status", res.Status.String())
		return res
	}
	res.Value.SetContext(c)
	c.assembles[res.Value.Identity.Key()] = res.Value
	c.noteLoadedAssemblyCountLocked()
	c.metrics.AssemblyResolved(clrerr.Success.String())
	return res
}
