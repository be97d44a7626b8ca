// Package resolve implements §4.5: the AssemblyResolver contract and the
// directory-probing, Framework-family, Core-family and bundle
// implementations. A resolver turns an assembly identity reference into
// candidate bytes and reads them, through its injected AssemblyReader, into
// a free-floating metadata.AssemblyDefinition; attaching that definition to
// a runtime context is always the caller's responsibility (the
// createRuntimeContext: false load-path contract), never the resolver's.
package resolve
