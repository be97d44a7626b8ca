// Package metadata is the typed entity layer §4 (Metadata Model) and §4.1
// (Signature Model) describe: resolution scopes, type/member definitions and
// references, exported types, and the blob-encoded type/method signature
// trees. Signatures and TypeDefOrRef are mutually recursive — a
// TypeSpecification wraps a signature, and a class/value-type signature
// wraps a TypeDefOrRef — so, the way go/types keeps its mutually-recursive
// Type/Object sum types in one package, this module keeps them in one
// package too rather than forcing an import cycle across a two-package
// split.
//
// This package models the object graph only: it does not resolve a
// reference to a definition across assemblies (that is runtimectx's job) and
// it does not compare two entities for semantic equality (that is
// comparer's job).
package metadata
