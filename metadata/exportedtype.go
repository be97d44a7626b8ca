package metadata

import "github.com/saferwall/clrmeta/identity"

// Implementation is the closed set of things an ExportedType's
// Implementation column may reference (§3): an assembly reference, a file
// entry, or another exported type (for a nested-type forwarder).
type Implementation interface {
	isImplementation()
}

func (*FileReference) isImplementation()   {}
func (*ExportedType) isImplementation()    {}

// FileReference is a row of the File table: a module name within the
// current assembly's manifest, used as an ExportedType.Implementation when
// the forwarded type lives in a non-manifest module of the same assembly.
type FileReference struct {
	Name identity.Utf8String
}

// ExportedType is `(namespace, name, implementation)` (§3): a declared
// forwarder from one assembly to another, to a non-manifest module of the
// same assembly, or (when nested) to another exported type.
type ExportedType struct {
	Namespace      identity.OptionalString
	Name           identity.Utf8String
	Implementation Implementation

	owner *ModuleDefinition
}

// NewExportedType builds a free-floating exported type.
func NewExportedType(ns identity.OptionalString, name identity.Utf8String, impl Implementation) *ExportedType {
	return &ExportedType{Namespace: ns, Name: name, Implementation: impl}
}

// Module returns the manifest module this exported type was declared in.
func (e *ExportedType) Module() *ModuleDefinition { return e.owner }

// IsTypeOf reports byte-exact (namespace, name) equality.
func (e *ExportedType) IsTypeOf(ns, name string) bool {
	return string(e.Name) == name && string(e.Namespace.Value()) == ns
}

// IsNestedForwarder reports whether Implementation is another ExportedType,
// i.e. this entry forwards a type nested within an already-forwarded type.
func (e *ExportedType) IsNestedForwarder() bool {
	_, ok := e.Implementation.(*ExportedType)
	return ok
}
