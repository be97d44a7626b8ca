package resolve

import (
	"path/filepath"
	"strings"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// BundleEntry is one file embedded in a single-file bundle's file table,
// keyed by its original relative path.
type BundleEntry struct {
	RelativePath string
	Data         []byte
}

// BundleResolver is the §4.5 bundle resolver: it walks the embedded file
// table of a single-file host bundle first, matching by filename without
// extension, and falls back to a Core-family resolver for anything not
// embedded. Embedded assemblies are read with createRuntimeContext: false
// and attached to the caller's context via Add, same as every other
// resolver in this package.
type BundleResolver struct {
	entries map[string]BundleEntry // filename without extension -> entry
	reader  AssemblyReader
	fs      *ByteFileService
	fallback AssemblyResolver
}

// NewBundleResolver builds a bundle resolver over entries, falling back to
// fallback (typically a *CoreResolver) for names the bundle does not embed.
func NewBundleResolver(entries []BundleEntry, reader AssemblyReader, fallback AssemblyResolver) *BundleResolver {
	files := make(map[string][]byte, len(entries))
	byKey := make(map[string]BundleEntry, len(entries))
	for _, e := range entries {
		key := strings.TrimSuffix(filepath.Base(e.RelativePath), filepath.Ext(e.RelativePath))
		byKey[key] = e
		files[e.RelativePath] = e.Data
	}
	return &BundleResolver{
		entries:  byKey,
		reader:   reader,
		fs:       NewByteFileService(files),
		fallback: fallback,
	}
}

// Resolve implements AssemblyResolver.
func (b *BundleResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	if entry, ok := b.entries[string(ref.Name)]; ok {
		rs, size, err := b.fs.Open(entry.RelativePath)
		if err != nil {
			return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyNotFound)
		}
		def, err := b.reader.ReadAssembly(rs, size)
		if err != nil {
			return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyBadImage)
		}
		return clrerr.Ok(def)
	}
	if b.fallback == nil {
		return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyNotFound)
	}
	return b.fallback.Resolve(ref, originDir)
}
