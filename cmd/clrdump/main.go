// clrdump is a small CLI, in the shape of the teacher's pedumper, that
// loads a directory of assembly fixtures into a runtime context and
// exercises one of its resolution algorithms, printing the result as
// indented JSON.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/comparer"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/log"
	"github.com/saferwall/clrmeta/metadata"
	"github.com/saferwall/clrmeta/resolve"
	"github.com/saferwall/clrmeta/runtimectx"
)

var (
	fixtureDir   string
	corlibName   string
	verbose      bool
	versionAgnos bool
	allowNewer   bool
)

// prettyPrint mirrors pedumper.go's prettyPrint: indent whatever JSON bytes
// are handed in, falling back to the raw bytes on a parse error.
func prettyPrint(buf []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return out.String()
}

// colorForStatus renders status green on success and red otherwise, gated
// on the output actually being a terminal.
func colorForStatus(status clrerr.Status) string {
	text := status.String()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return text
	}
	if status.Ok() {
		return color.GreenString(text)
	}
	return color.RedString(text)
}

// noopResolver never finds anything further: every assembly clrdump works
// with is preloaded from fixtureDir up front.
type noopResolver struct{}

func (noopResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyNotFound)
}

func buildContext() (*runtimectx.Context, []*metadata.AssemblyDefinition, error) {
	if fixtureDir == "" {
		return nil, nil, fmt.Errorf("--dir is required")
	}
	asms, discoveredCorlib, err := loadFixtureDir(fixtureDir)
	if err != nil {
		return nil, nil, err
	}

	corlib := discoveredCorlib
	if corlibName != "" {
		corlib = identity.Identity{Name: identity.Utf8String(corlibName)}
	}

	var flags comparer.Flags
	if versionAgnos {
		flags |= comparer.VersionAgnostic
	}
	if allowNewer {
		flags |= comparer.AllowNewerVersions
	}

	logLevel := log.LevelError
	if verbose {
		logLevel = log.LevelInfo
	}
	logger := log.NewFilter(log.NewStdLogger(os.Stderr), logLevel)

	ctx := runtimectx.New(runtimectx.DefaultNetFramework40, runtimectx.Options{
		Resolver:      noopResolver{},
		Corlib:        corlib,
		ComparerFlags: flags,
		Logger:        logger,
		// Metrics is left nil: a standalone CLI invocation has no
		// Prometheus registry to publish to, and every Recorder method is
		// nil-safe (see metrics.Recorder's doc comment).
	})
	for _, asm := range asms {
		ctx.Add(asm)
	}
	return ctx, asms, nil
}

func findAssembly(asms []*metadata.AssemblyDefinition, name string) *metadata.AssemblyDefinition {
	for _, a := range asms {
		if string(a.Identity.Name) == name {
			return a
		}
	}
	return nil
}

func findModule(asm *metadata.AssemblyDefinition, name string) *metadata.ModuleDefinition {
	if name == "" {
		return asm.ManifestModule()
	}
	return asm.FindModule(identity.Utf8String(name))
}

// describeTypeDefOrRef renders just enough of a resolved type to be useful
// in JSON output, avoiding marshaling the full graph of back-pointers a
// *metadata.TypeDefinition carries.
func describeTypeDefOrRef(t metadata.TypeDefOrRef) map[string]any {
	ns, name := t.TypeName()
	out := map[string]any{
		"namespace": ns.Value(),
		"name":      name,
		"kind":      fmt.Sprintf("%T", t),
	}
	if def, ok := t.(*metadata.TypeDefinition); ok && def.Module() != nil && def.Module().Assembly() != nil {
		out["assembly"] = def.Module().Assembly().Identity.String()
	}
	return out
}

func describeMember(m any) map[string]any {
	switch v := m.(type) {
	case *metadata.FieldDefinition:
		return map[string]any{"kind": "field", "name": v.Name}
	case *metadata.MethodDefinition:
		return map[string]any{"kind": "method", "name": v.Name}
	default:
		return map[string]any{"kind": fmt.Sprintf("%T", m)}
	}
}

func newResolveTypeCmd() *cobra.Command {
	var assembly, module, scopeAssembly, namespace, name string
	cmd := &cobra.Command{
		Use:   "resolve-type",
		Short: "Resolve a type reference against a loaded fixture set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, asms, err := buildContext()
			if err != nil {
				return err
			}
			origin := findAssembly(asms, assembly)
			if origin == nil {
				return fmt.Errorf("assembly %q not found in %s", assembly, fixtureDir)
			}
			originMod := findModule(origin, module)

			var scope metadata.ResolutionScope = metadata.ModuleScope{Target: originMod}
			if scopeAssembly != "" {
				scope = metadata.NewAssemblyReference(identity.Identity{Name: identity.Utf8String(scopeAssembly)})
			}
			ref := metadata.NewTypeReference(scope, optionalNamespace(namespace), identity.Utf8String(name))

			res := ctx.ResolveType(ref, originMod)
			fmt.Println(colorForStatus(res.Status))
			payload := map[string]any{"status": res.Status.String()}
			if res.Status.Ok() {
				payload["type"] = describeTypeDefOrRef(res.Value)
			}
			buf, _ := json.Marshal(payload)
			fmt.Println(prettyPrint(buf))
			return nil
		},
	}
	cmd.Flags().StringVar(&assembly, "assembly", "", "the originating assembly's name (required)")
	cmd.Flags().StringVar(&module, "module", "", "the originating module's name (defaults to the manifest module)")
	cmd.Flags().StringVar(&scopeAssembly, "scope-assembly", "", "the referenced assembly's name (omit to resolve within the origin module)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "the referenced type's namespace")
	cmd.Flags().StringVar(&name, "name", "", "the referenced type's name (required)")
	cmd.MarkFlagRequired("assembly")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newResolveMemberCmd() *cobra.Command {
	var assembly, module, scopeAssembly, namespace, typeName, memberName, fieldType string
	cmd := &cobra.Command{
		Use:   "resolve-member",
		Short: "Resolve a field reference against a loaded fixture set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, asms, err := buildContext()
			if err != nil {
				return err
			}
			origin := findAssembly(asms, assembly)
			if origin == nil {
				return fmt.Errorf("assembly %q not found in %s", assembly, fixtureDir)
			}
			originMod := findModule(origin, module)

			var scope metadata.ResolutionScope = metadata.ModuleScope{Target: originMod}
			if scopeAssembly != "" {
				scope = metadata.NewAssemblyReference(identity.Identity{Name: identity.Utf8String(scopeAssembly)})
			}
			typeRef := metadata.NewTypeReference(scope, optionalNamespace(namespace), identity.Utf8String(typeName))
			fieldSig := metadata.NewFieldSignature(parseSignature(fieldType))
			memberRef := metadata.NewMemberReference(typeRef, identity.Utf8String(memberName), fieldSig)

			res := ctx.ResolveMember(memberRef, originMod)
			fmt.Println(colorForStatus(res.Status))
			payload := map[string]any{"status": res.Status.String()}
			if res.Status.Ok() {
				payload["member"] = describeMember(res.Value)
			}
			buf, _ := json.Marshal(payload)
			fmt.Println(prettyPrint(buf))
			return nil
		},
	}
	cmd.Flags().StringVar(&assembly, "assembly", "", "the originating assembly's name (required)")
	cmd.Flags().StringVar(&module, "module", "", "the originating module's name (defaults to the manifest module)")
	cmd.Flags().StringVar(&scopeAssembly, "scope-assembly", "", "the declaring type's assembly name")
	cmd.Flags().StringVar(&namespace, "namespace", "", "the declaring type's namespace")
	cmd.Flags().StringVar(&typeName, "type", "", "the declaring type's name (required)")
	cmd.Flags().StringVar(&memberName, "member", "", "the field's name (required)")
	cmd.Flags().StringVar(&fieldType, "field-type", "Object", "the field's type, a corlib primitive name or Namespace.Name@Assembly")
	cmd.MarkFlagRequired("assembly")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("member")
	return cmd
}

func newProbeRuntimeCmd() *cobra.Command {
	var assembly string
	cmd := &cobra.Command{
		Use:   "probe-runtime",
		Short: "Probe the target runtime an assembly was built against",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, asms, err := buildContext()
			if err != nil {
				return err
			}
			asm := findAssembly(asms, assembly)
			if asm == nil {
				return fmt.Errorf("assembly %q not found in %s", assembly, fixtureDir)
			}
			target := ctx.ProbeTargetRuntime(asm, nil)
			buf, _ := json.Marshal(map[string]any{
				"family":  target.Family.String(),
				"version": target.Version.String(),
			})
			fmt.Println(prettyPrint(buf))
			return nil
		},
	}
	cmd.Flags().StringVar(&assembly, "assembly", "", "the assembly's name (required)")
	cmd.MarkFlagRequired("assembly")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "clrdump",
		Short: "Inspects managed-assembly metadata resolution",
		Long:  "clrdump builds a runtime context from a directory of assembly fixtures and dumps a single resolution as JSON.",
	}
	root.PersistentFlags().StringVar(&fixtureDir, "dir", "", "directory of assembly fixture JSON files")
	root.PersistentFlags().StringVar(&corlibName, "corlib", "", "override the corlib identity name (defaults to the fixture flagged \"corlib\": true)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log info-level resolution events to stderr")
	root.PersistentFlags().BoolVar(&versionAgnos, "version-agnostic", false, "compare assembly identities ignoring version")
	root.PersistentFlags().BoolVar(&allowNewer, "allow-newer-versions", false, "accept a reference satisfied by a newer loaded version")

	root.AddCommand(newResolveTypeCmd(), newResolveMemberCmd(), newProbeRuntimeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}

var _ resolve.AssemblyReader = fixtureReader{}
