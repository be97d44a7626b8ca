package metadata

import "github.com/saferwall/clrmeta/mdtable"

// ErrorListener receives non-fatal, blob-level diagnostics encountered
// while parsing or serializing a signature (§7: "the signature-parsing
// layer reports blob-level errors to the injected error listener"). A nil
// ErrorListener is valid; diagnostics are simply dropped.
type ErrorListener interface {
	ReportError(reason InvalidReason, detail string)
}

// NopErrorListener discards every diagnostic; it is the default used when a
// caller does not supply one.
type NopErrorListener struct{}

// ReportError implements ErrorListener by doing nothing.
func (NopErrorListener) ReportError(InvalidReason, string) {}

func report(l ErrorListener, reason InvalidReason, detail string) {
	if l != nil {
		l.ReportError(reason, detail)
	}
}

// TypeSignatureResolver turns a decoded TypeDefOrRef coded index, or a
// runtime-internal pointer value (ELEMENT_TYPE_INTERNAL), into a concrete
// TypeDefOrRef. It is injected so the blob parser never depends on a
// particular metadata table buffer directly (§4.1 step 3).
type TypeSignatureResolver interface {
	// ResolveCodedIndex maps a decoded TypeDefOrRef token to a TypeDefOrRef.
	// ok is false when tok does not address a row this resolver knows
	// about; the caller substitutes an InvalidSignature placeholder.
	ResolveCodedIndex(tok mdtable.Token) (TypeDefOrRef, bool)
	// ResolveInternal maps a raw native-sized pointer value read for
	// ELEMENT_TYPE_INTERNAL to a TypeDefOrRef. This is the extension point
	// §4.1 step 7 describes; most readers never see this element type and
	// may return (nil, false) unconditionally.
	ResolveInternal(pointerValue uint64) (TypeDefOrRef, bool)
}

// CodedIndexProvider is the write-side inverse of TypeSignatureResolver: it
// returns the coded-index value to serialize for a given TypeDefOrRef,
// without the writer needing to know which table buffer the def-or-ref
// belongs to.
type CodedIndexProvider interface {
	GetTypeDefOrRefIndex(t TypeDefOrRef) (uint32, error)
}

// BlobReaderContext carries everything §4.1/§6 says a type-signature parse
// needs beyond the bytes themselves: the parent module (for the corlib
// type factory §4.7 references), an error listener, and the injected
// type-signature resolver.
type BlobReaderContext struct {
	Module   *ModuleDefinition
	Errors   ErrorListener
	Resolver TypeSignatureResolver
}

// NewBlobReaderContext builds a context, defaulting a nil Errors to
// NopErrorListener so call sites never need a nil check.
func NewBlobReaderContext(module *ModuleDefinition, errs ErrorListener, resolver TypeSignatureResolver) *BlobReaderContext {
	if errs == nil {
		errs = NopErrorListener{}
	}
	return &BlobReaderContext{Module: module, Errors: errs, Resolver: resolver}
}

// BlobSerializationContext carries what §6 says a type-signature write
// needs: the coded-index provider and an error listener. (The writer
// itself is passed directly to the Write functions, not carried here, so
// one context can serialize into multiple blobs.)
type BlobSerializationContext struct {
	Index  CodedIndexProvider
	Errors ErrorListener
}

// NewBlobSerializationContext builds a context, defaulting a nil Errors to
// NopErrorListener.
func NewBlobSerializationContext(index CodedIndexProvider, errs ErrorListener) *BlobSerializationContext {
	if errs == nil {
		errs = NopErrorListener{}
	}
	return &BlobSerializationContext{Index: index, Errors: errs}
}
