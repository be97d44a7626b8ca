package resolve

import (
	"io"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// AssemblyReader turns located bytes into a parsed assembly definition.
// This is the §1 "out of scope" PE/metadata reader collaborator: resolve
// never parses an image itself, it only locates one and hands the bytes
// off. Every implementation must read with the equivalent of
// createRuntimeContext: false (§4.5's load-path contract) — it returns a
// free-floating AssemblyDefinition the caller (runtimectx) attaches itself,
// never one already bound to a context of its own.
type AssemblyReader interface {
	ReadAssembly(r io.ReaderAt, size int64) (*metadata.AssemblyDefinition, error)
}

// AssemblyResolver is the one operation §4.5 specifies: locate and read
// the assembly ref names, searching relative to originDir (the directory
// the referencing module itself was loaded from, or "" if unknown).
type AssemblyResolver interface {
	Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition]
}
