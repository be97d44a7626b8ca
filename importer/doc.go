// Package importer implements §4.7: rooting a foreign descriptor — an
// assembly reference, type reference, type signature, or member signature
// read against one module — in a different target module's own scopes, so
// it can be embedded in a TypeSpecification, MemberReference or signature
// the target module owns.
//
// An Importer is cheap and disposable: construct one per target module,
// call its Import* methods as needed, discard it. Outputs are freshly
// constructed on every call (never cached) except when the source already
// belongs to the target module, in which case the same instance is handed
// back unchanged (§4.7 "not cached... except when the source is already in
// the target module").
package importer
