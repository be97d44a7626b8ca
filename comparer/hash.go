package comparer

import (
	"hash/fnv"

	"github.com/saferwall/clrmeta/metadata"
)

// HashTypeDefOrRef returns a hash consistent with EqualTypeDefOrRef: equal
// references always hash equal, though the converse need not hold.
func (c *Comparer) HashTypeDefOrRef(t metadata.TypeDefOrRef) uint64 {
	t = c.normalize(t)
	ns, name := t.TypeName()
	h := fnv.New64a()
	h.Write([]byte(ns.Value()))
	h.Write([]byte{0})
	h.Write([]byte(name))
	return h.Sum64()
}

// HashTypeSignature returns a hash consistent with EqualTypeSignature.
func (c *Comparer) HashTypeSignature(sig metadata.TypeSignature) uint64 {
	sig = metadata.StripModifiers(sig)
	h := fnv.New64a()
	writeByte(h, byte(sig.ElementType()))

	switch s := sig.(type) {
	case *metadata.TypeDefOrRefSignature:
		writeUint64(h, c.HashTypeDefOrRef(s.Type))
	case *metadata.PointerSignature:
		writeUint64(h, c.HashTypeSignature(s.Inner))
	case *metadata.ByReferenceSignature:
		writeUint64(h, c.HashTypeSignature(s.Inner))
	case *metadata.SzArraySignature:
		writeUint64(h, c.HashTypeSignature(s.Element))
	case *metadata.ArraySignature:
		writeUint64(h, uint64(s.Rank))
		writeUint64(h, c.HashTypeSignature(s.Element))
	case *metadata.GenericInstanceSignature:
		writeUint64(h, c.HashTypeDefOrRef(s.GenericType))
		for _, arg := range s.TypeArguments {
			writeUint64(h, c.HashTypeSignature(arg))
		}
	case *metadata.GenericParameterSignature:
		writeByte(h, boolByte(s.IsMethodParameter))
		writeUint64(h, uint64(s.Index))
	case *metadata.FunctionPointerSignature:
		writeUint64(h, c.HashMethodSignature(s.Signature))
	case *metadata.InvalidSignature:
		writeUint64(h, uint64(s.Reason))
	}
	return h.Sum64()
}

// HashMethodSignature returns a hash consistent with EqualMethodSignature.
func (c *Comparer) HashMethodSignature(m *metadata.MethodSignature) uint64 {
	h := fnv.New64a()
	writeByte(h, byte(m.CallingConvention))
	if m.CallingConvention.IsGeneric() {
		writeUint64(h, uint64(m.GenericParamCount))
	}
	writeUint64(h, c.HashTypeSignature(m.ReturnType))
	for _, p := range m.ParameterTypes {
		writeUint64(h, c.HashTypeSignature(p))
	}
	return h.Sum64()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeByte(h interface{ Write([]byte) (int, error) }, b byte) {
	h.Write([]byte{b})
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
