package metadata

import "github.com/saferwall/clrmeta/mdtable"

// The interfaces below are the §6 "External Interfaces" contracts the core
// requires from the PE/metadata reader collaborator. This package never
// implements them against real PE bytes — that remains the reader's job —
// but every resolution algorithm in runtimectx and every signature parse in
// this package is written against these shapes so a real reader can be
// substituted without touching core logic.

// Row is the constraint every metadata table row type satisfies: nothing,
// in practice, but the type parameter keeps GetTable's call sites
// self-documenting about which row kind they expect.
type Row any

// TablesStream is the `#~`/`#-` stream collaborator: ordered, 1-based access
// to a table's rows, plus binary search on a table's sorted key column.
type TablesStream interface {
	// RowCount returns the number of rows table holds.
	RowCount(table mdtable.TableIndex) uint32
	// GetIndexEncoder returns the coded-index codec for kind, so callers
	// never hardcode tag widths themselves.
	GetIndexEncoder(kind mdtable.CodedIndexKind) CodedIndexCodec
	// TryGetRidByKey performs the binary search ECMA-335 sorted tables
	// support: find the RID in table whose columnIndex-th column equals
	// value. Ok is false when no row matches.
	TryGetRidByKey(table mdtable.TableIndex, columnIndex int, value uint32) (rid uint32, ok bool)
}

// CodedIndexCodec is the per-kind encode/decode pair TablesStream hands out;
// mdtable.Encode/mdtable.Decode provide that encoding for a given kind (they
// are package functions taking the kind, not an implementation of this
// interface), and a reader may supply its own (e.g. one that caches tag-bit
// widths per stream generation).
type CodedIndexCodec interface {
	Encode(tok mdtable.Token) (uint32, error)
	Decode(value uint32) (mdtable.Token, error)
}

// StringsStream is the `#Strings` heap collaborator.
type StringsStream interface {
	GetStringByIndex(heapOffset uint32) (string, error)
}

// BlobReader is a cursor positioned at a blob-heap offset; blob.Reader
// already satisfies the subset of this interface the signature parser uses.
type BlobReader interface {
	ReadByte() (byte, error)
	ReadBytes(n int) ([]byte, error)
	ReadCompressedUint32() (uint32, error)
	Len() int
}

// BlobStream is the `#Blob` heap collaborator.
type BlobStream interface {
	TryGetBlobReaderByIndex(heapOffset uint32) (BlobReader, bool)
}

// GuidStream is the `#GUID` heap collaborator.
type GuidStream interface {
	GetGUIDByIndex(heapOffset uint32) ([16]byte, error)
}

// UserStringsStream is the `#US` heap collaborator.
type UserStringsStream interface {
	GetUserStringByIndex(heapOffset uint32) (string, error)
}

// StreamSelector exposes per-heap handles together with their original
// stream order indices, so a round-tripping writer can preserve the
// heap-ordering decisions the source image made.
type StreamSelector interface {
	Tables() (TablesStream, int)
	Strings() (StringsStream, int)
	Blob() (BlobStream, int)
	Guid() (GuidStream, int)
	UserStrings() (UserStringsStream, int)
}
