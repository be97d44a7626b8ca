package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// This module's §1 Non-goals exclude PE file I/O and CIL/metadata-table
// parsing — a real AssemblyReader (resolve.AssemblyReader) reading an
// actual managed image is out of scope here. fixtureReader instead reads a
// small JSON description of an assembly's shape, enough to exercise every
// resolution algorithm clrdump demonstrates without a PE parser. A real
// deployment swaps this reader for one backed by an actual metadata
// reader; nothing else in this module depends on the swap.
type fixtureReader struct{}

type fixtureFile struct {
	Assembly      fixtureIdentity     `json:"assembly"`
	Module        string              `json:"module"`
	Corlib        bool                `json:"corlib"`
	Types         []fixtureType       `json:"types"`
	ExportedTypes []fixtureExportType `json:"exportedTypes"`
}

type fixtureIdentity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Culture string `json:"culture"`
}

type fixtureType struct {
	Namespace string        `json:"namespace"`
	Name      string        `json:"name"`
	Fields    []fixtureField  `json:"fields"`
	Methods   []fixtureMethod `json:"methods"`
	Nested    []fixtureType   `json:"nested"`
}

type fixtureField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type fixtureMethod struct {
	Name       string   `json:"name"`
	ReturnType string   `json:"returnType"`
	Params     []string `json:"params"`
}

type fixtureExportType struct {
	Namespace   string `json:"namespace"`
	Name        string `json:"name"`
	ForwardsTo  string `json:"forwardsToAssembly"`
}

func (fixtureReader) ReadAssembly(r io.ReaderAt, size int64) (*metadata.AssemblyDefinition, error) {
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	var f fixtureFile
	if err := json.Unmarshal(buf, &f); err != nil {
		return nil, err
	}
	return buildFixtureAssembly(f), nil
}

func buildFixtureAssembly(f fixtureFile) *metadata.AssemblyDefinition {
	version, _ := parseVersion(f.Assembly.Version)
	id := identity.Identity{Name: identity.Utf8String(f.Assembly.Name), Version: version}
	if f.Assembly.Culture != "" {
		id.Culture = identity.Some(identity.Utf8String(f.Assembly.Culture))
	}

	asm := metadata.NewAssemblyDefinition(id)
	mod := metadata.NewModuleDefinition(identity.Utf8String(f.Module))
	asm.AddModule(mod)

	for _, t := range f.Types {
		mod.AddTopLevelType(buildFixtureType(t))
	}
	for _, e := range f.ExportedTypes {
		impl := metadata.NewAssemblyReference(identity.Identity{Name: identity.Utf8String(e.ForwardsTo)})
		mod.AddExportedType(metadata.NewExportedType(optionalNamespace(e.Namespace), identity.Utf8String(e.Name), impl))
	}
	return asm
}

func buildFixtureType(t fixtureType) *metadata.TypeDefinition {
	def := metadata.NewTypeDefinition(optionalNamespace(t.Namespace), identity.Utf8String(t.Name), 0)
	for _, f := range t.Fields {
		def.AddField(metadata.NewFieldDefinition(identity.Utf8String(f.Name), 0, metadata.NewFieldSignature(parseSignature(f.Type))))
	}
	for _, m := range t.Methods {
		params := make([]metadata.TypeSignature, len(m.Params))
		for i, p := range m.Params {
			params[i] = parseSignature(p)
		}
		sig := metadata.NewMethodSignature(metadata.CallingConventionHasThis, 0, parseSignature(m.ReturnType), params)
		def.AddMethod(metadata.NewMethodDefinition(identity.Utf8String(m.Name), 0, sig))
	}
	for _, n := range t.Nested {
		def.AddNestedType(buildFixtureType(n))
	}
	return def
}

func optionalNamespace(ns string) identity.OptionalString {
	if ns == "" {
		return identity.None
	}
	return identity.Some(identity.Utf8String(ns))
}

// parseSignature parses the fixture type-reference grammar: a corlib
// primitive's short name ("Int32", "String", "Void", ...), or
// "Namespace.Name@Assembly" for a reference to another assembly's type.
// Anything else degrades to a corlib Object reference rather than
// failing the whole fixture load.
func parseSignature(spec string) metadata.TypeSignature {
	if el, ok := corlibElementByName(spec); ok {
		return &metadata.CorLibTypeSignature{Element: el}
	}

	assembly := ""
	if at := strings.LastIndex(spec, "@"); at >= 0 {
		assembly = spec[at+1:]
		spec = spec[:at]
	} else {
		// No assembly named: not enough to build a reference, degrade to
		// Object rather than fail the whole fixture load.
		return &metadata.CorLibTypeSignature{Element: metadata.ElementTypeObject}
	}

	ns, name := "", spec
	if dot := strings.LastIndex(spec, "."); dot >= 0 {
		ns, name = spec[:dot], spec[dot+1:]
	}
	scope := metadata.ResolutionScope(metadata.NewAssemblyReference(identity.Identity{Name: identity.Utf8String(assembly)}))
	ref := metadata.NewTypeReference(scope, optionalNamespace(ns), identity.Utf8String(name))
	return &metadata.TypeDefOrRefSignature{Type: ref}
}

var corlibElementNames = map[string]metadata.ElementType{
	"Void": metadata.ElementTypeVoid, "Boolean": metadata.ElementTypeBoolean, "Char": metadata.ElementTypeChar,
	"SByte": metadata.ElementTypeI1, "Byte": metadata.ElementTypeU1, "Int16": metadata.ElementTypeI2, "UInt16": metadata.ElementTypeU2,
	"Int32": metadata.ElementTypeI4, "UInt32": metadata.ElementTypeU4, "Int64": metadata.ElementTypeI8, "UInt64": metadata.ElementTypeU8,
	"Single": metadata.ElementTypeR4, "Double": metadata.ElementTypeR8, "String": metadata.ElementTypeString,
	"IntPtr": metadata.ElementTypeI, "UIntPtr": metadata.ElementTypeU, "Object": metadata.ElementTypeObject,
}

func corlibElementByName(name string) (metadata.ElementType, bool) {
	el, ok := corlibElementNames[name]
	return el, ok
}

func parseVersion(s string) (identity.Version, bool) {
	var v identity.Version
	if s == "" {
		return v, true
	}
	n, err := fmt.Sscanf(s, "%d.%d.%d.%d", &v.Major, &v.Minor, &v.Build, &v.Revision)
	return v, err == nil && n > 0
}

// loadFixtureDir reads every *.json file in dir and parses it into an
// AssemblyDefinition, returning them alongside the corlib-flagged one (if
// any) so the caller can pick a default Corlib identity.
func loadFixtureDir(dir string) ([]*metadata.AssemblyDefinition, identity.Identity, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, identity.Identity{}, err
	}
	var asms []*metadata.AssemblyDefinition
	var corlib identity.Identity
	reader := fixtureReader{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, identity.Identity{}, fmt.Errorf("reading %s: %w", path, err)
		}
		asm, err := reader.ReadAssembly(byteReaderAt(data), int64(len(data)))
		if err != nil {
			return nil, identity.Identity{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		var raw fixtureFile
		_ = json.Unmarshal(data, &raw)
		if raw.Corlib {
			corlib = asm.Identity
		}
		asms = append(asms, asm)
	}
	return asms, corlib, nil
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
