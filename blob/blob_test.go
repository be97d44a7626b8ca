package blob

import "testing"

func TestCompressedUint32RoundTrip(t *testing.T) {
	values := []uint32{0, 0x03, 0x7F, 0x80, 0x2E57, 0x3FFF, 0x4000, 0x1FFF_FFFF}
	for _, v := range values {
		w := NewWriter()
		if err := w.WriteCompressedUint32(v); err != nil {
			t.Fatalf("WriteCompressedUint32(%#x): %v", v, err)
		}
		r := NewReader(w.Bytes())
		got, err := r.ReadCompressedUint32()
		if err != nil {
			t.Fatalf("ReadCompressedUint32() for %#x: %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %#x => %#x", v, got)
		}
		if r.Len() != 0 {
			t.Errorf("leftover bytes after reading %#x: %d", v, r.Len())
		}
	}
}

func TestCompressedUint32KnownEncodings(t *testing.T) {
	// Values lifted from ECMA-335 §II.23.2 examples.
	tests := []struct {
		value   uint32
		encoded []byte
	}{
		{0x03, []byte{0x03}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x80, 0x80}},
		{0x2E57, []byte{0xAE, 0x57}},
		{0x3FFF, []byte{0xBF, 0xFF}},
		{0x4000, []byte{0xC0, 0x00, 0x40, 0x00}},
		{0x1FFFFFFF, []byte{0xDF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		w := NewWriter()
		_ = w.WriteCompressedUint32(tt.value)
		got := w.Bytes()
		if len(got) != len(tt.encoded) {
			t.Fatalf("value %#x: encoded length = %d, want %d", tt.value, len(got), len(tt.encoded))
		}
		for i := range got {
			if got[i] != tt.encoded[i] {
				t.Errorf("value %#x byte %d = %#x, want %#x", tt.value, i, got[i], tt.encoded[i])
			}
		}
	}
}

func TestUTF8StringRoundTrip(t *testing.T) {
	w := NewWriter()
	if err := w.WriteUTF8String("System.Object"); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	s, ok, err := r.ReadUTF8String()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || s != "System.Object" {
		t.Fatalf("got (%q, %v), want (\"System.Object\", true)", s, ok)
	}
}

func TestUTF8StringNull(t *testing.T) {
	r := NewReader([]byte{0xFF})
	s, ok, err := r.ReadUTF8String()
	if err != nil {
		t.Fatal(err)
	}
	if ok || s != "" {
		t.Fatalf("got (%q, %v), want (\"\", false)", s, ok)
	}
}

func TestReadPastEndIsError(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.ReadByte(); err != ErrUnexpectedEOF {
		t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
	}
}
