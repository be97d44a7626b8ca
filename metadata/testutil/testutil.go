// Package testutil builds small synthetic metadata object graphs for
// package tests across this module, standing in for a PE reader — real PE
// parsing is out of scope (§1), so every test in this module constructs its
// module/assembly/type graph directly instead of loading bytes.
package testutil

import (
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/mdtable"
	"github.com/saferwall/clrmeta/metadata"
)

// SequentialIndexProvider is the metadata.CodedIndexProvider §8 scenario 7
// asks for: "serialize the signature using an index provider that assigns
// sequential indices". Each distinct TypeDefOrRef seen gets the next RID in
// the TypeRef table, in first-use order; a repeated instance gets back the
// same token.
type SequentialIndexProvider struct {
	next   uint32
	tokens map[metadata.TypeDefOrRef]mdtable.Token
}

// NewSequentialIndexProvider returns an empty provider.
func NewSequentialIndexProvider() *SequentialIndexProvider {
	return &SequentialIndexProvider{tokens: make(map[metadata.TypeDefOrRef]mdtable.Token)}
}

// GetTypeDefOrRefIndex implements metadata.CodedIndexProvider.
func (p *SequentialIndexProvider) GetTypeDefOrRefIndex(t metadata.TypeDefOrRef) (uint32, error) {
	tok, ok := p.tokens[t]
	if !ok {
		p.next++
		tok = mdtable.Token{Table: mdtable.TypeRef, RID: p.next}
		p.tokens[t] = tok
	}
	return mdtable.Encode(mdtable.TypeDefOrRef, tok)
}

// TokenOf returns the token previously assigned to t, for a test to hand
// to MapResolver.
func (p *SequentialIndexProvider) TokenOf(t metadata.TypeDefOrRef) (mdtable.Token, bool) {
	tok, ok := p.tokens[t]
	return tok, ok
}

// MapResolver is the metadata.TypeSignatureResolver counterpart: a fixed
// token→TypeDefOrRef map a test populates from a SequentialIndexProvider's
// assignments before re-parsing the serialized blob, so "parse back with a
// resolver returning the original descriptors" (§8 scenario 7) holds.
type MapResolver struct {
	ByToken map[mdtable.Token]metadata.TypeDefOrRef
}

// NewMapResolver returns an empty resolver.
func NewMapResolver() *MapResolver {
	return &MapResolver{ByToken: make(map[mdtable.Token]metadata.TypeDefOrRef)}
}

// ResolveCodedIndex implements metadata.TypeSignatureResolver.
func (m *MapResolver) ResolveCodedIndex(tok mdtable.Token) (metadata.TypeDefOrRef, bool) {
	t, ok := m.ByToken[tok]
	return t, ok
}

// ResolveInternal implements metadata.TypeSignatureResolver; this module's
// tests never exercise ELEMENT_TYPE_INTERNAL, so it always fails.
func (m *MapResolver) ResolveInternal(uint64) (metadata.TypeDefOrRef, bool) {
	return nil, false
}

// RoundTripContext builds a reader context bound to resolver, for the
// parsing half of the common "serialize then parse back" test shape; the
// serialization half comes from SerializationContext.
func RoundTripContext(resolver *MapResolver) *metadata.BlobReaderContext {
	return metadata.NewBlobReaderContext(nil, nil, resolver)
}

// SerializationContext builds a serialization context bound to provider.
func SerializationContext(provider *SequentialIndexProvider) *metadata.BlobSerializationContext {
	return metadata.NewBlobSerializationContext(provider, nil)
}

// NewCorLib builds a minimal AssemblyReference suitable for use as a
// corlib scope in tests (e.g. "mscorlib" or "System.Private.CoreLib").
func NewCorLib(name string) *metadata.AssemblyReference {
	return metadata.NewAssemblyReference(CorLibIdentity(name))
}

// CorLibIdentity returns a bare identity.Identity carrying only a name,
// enough for tests that do not exercise version/culture/key comparisons.
func CorLibIdentity(name string) identity.Identity {
	return identity.Identity{Name: identity.Utf8String(name)}
}
