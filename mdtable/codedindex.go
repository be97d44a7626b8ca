package mdtable

import "fmt"

// CodedIndexKind names one of the coded-index spaces ECMA-335 §II.24.2.6
// defines: a small tag selects which of several tables a row lives in.
type CodedIndexKind int

// Coded-index kinds, ordered as ECMA-335 §II.24.2.6 lists them.
const (
	TypeDefOrRef CodedIndexKind = iota
	HasConstant
	HasCustomAttribute
	HasFieldMarshal
	HasDeclSecurity
	MemberRefParent
	HasSemantics
	MethodDefOrRef
	MemberForwarded
	Implementation
	CustomAttributeType
	ResolutionScope
	TypeOrMethodDef
)

// codedIndex describes the tag width and the ordered table list a coded
// index's tag bits select among.
type codedIndex struct {
	tagBits uint
	tables  []TableIndex
}

// unusedTag marks a reserved tag value within a coded index that ECMA-335
// defines bits for but assigns no table to.
const unusedTag TableIndex = -1

var codedIndices = map[CodedIndexKind]codedIndex{
	TypeDefOrRef:         {tagBits: 2, tables: []TableIndex{TypeDef, TypeRef, TypeSpec}},
	HasConstant:          {tagBits: 2, tables: []TableIndex{Field, Param, Property}},
	HasCustomAttribute:   {tagBits: 5, tables: []TableIndex{MethodDef, Field, TypeRef, TypeDef, Param, InterfaceImpl, MemberRef, Module, DeclSecurity, Property, Event, StandAloneSig, ModuleRef, TypeSpec, Assembly, AssemblyRef, File, ExportedType, ManifestResource, GenericParam, GenericParamConstraint, MethodSpec}},
	HasFieldMarshal:      {tagBits: 1, tables: []TableIndex{Field, Param}},
	HasDeclSecurity:      {tagBits: 2, tables: []TableIndex{TypeDef, MethodDef, Assembly}},
	MemberRefParent:      {tagBits: 3, tables: []TableIndex{TypeDef, TypeRef, ModuleRef, MethodDef, TypeSpec}},
	HasSemantics:         {tagBits: 1, tables: []TableIndex{Event, Property}},
	MethodDefOrRef:       {tagBits: 1, tables: []TableIndex{MethodDef, MemberRef}},
	MemberForwarded:      {tagBits: 1, tables: []TableIndex{Field, MethodDef}},
	Implementation:       {tagBits: 2, tables: []TableIndex{File, AssemblyRef, ExportedType}},
	CustomAttributeType:  {tagBits: 3, tables: []TableIndex{unusedTag, unusedTag, MethodDef, MemberRef, unusedTag, unusedTag, unusedTag, unusedTag}},
	ResolutionScope:      {tagBits: 2, tables: []TableIndex{Module, ModuleRef, AssemblyRef, TypeRef}},
	TypeOrMethodDef:      {tagBits: 1, tables: []TableIndex{TypeDef, MethodDef}},
}

// Encode packs a token into a coded-index value: the low tagBits select the
// table, the remaining bits hold the 1-based RID.
func Encode(kind CodedIndexKind, tok Token) (uint32, error) {
	ci, ok := codedIndices[kind]
	if !ok {
		return 0, fmt.Errorf("mdtable: unknown coded index kind %d", kind)
	}
	tag := -1
	for i, t := range ci.tables {
		if t == tok.Table {
			tag = i
			break
		}
	}
	if tag < 0 {
		return 0, fmt.Errorf("mdtable: table %s is not a member of coded index %d", tok.Table, kind)
	}
	return tok.RID<<ci.tagBits | uint32(tag), nil
}

// Decode unpacks a coded-index value into the table it addresses and the RID
// within that table. For kinds whose tag 0 names a table, a zero value
// decodes to a token with RID 0, matching the on-disk convention that RID 0
// means "no row"; a tag that names no table (such as tag 0 of
// CustomAttributeType) is an error.
func Decode(kind CodedIndexKind, value uint32) (Token, error) {
	ci, ok := codedIndices[kind]
	if !ok {
		return Token{}, fmt.Errorf("mdtable: unknown coded index kind %d", kind)
	}
	mask := uint32(1)<<ci.tagBits - 1
	tag := int(value & mask)
	if tag >= len(ci.tables) || ci.tables[tag] == unusedTag {
		return Token{}, fmt.Errorf("mdtable: tag %d out of range for coded index %d", tag, kind)
	}
	return Token{Table: ci.tables[tag], RID: value >> ci.tagBits}, nil
}

// TagBits returns the number of bits the coded index reserves for its table
// tag. MaxRowsFor16BitIndex reports one more than the largest row count
// whose coded index value (tag plus RID) still fits in 16 bits
// — the same threshold the teacher's GetMetadataStreamIndexSize uses to
// decide whether a heap or table index is 2 or 4 bytes wide.
func TagBits(kind CodedIndexKind) uint {
	return codedIndices[kind].tagBits
}

// MaxRowsFor16BitIndex returns the row-count threshold at or above which a
// coded index of this kind must be encoded on 4 bytes instead of 2.
func MaxRowsFor16BitIndex(kind CodedIndexKind) uint32 {
	return 1 << (16 - codedIndices[kind].tagBits)
}
