package identity

import (
	"bytes"
	"testing"
)

func mscorlibKey() PublicKeyOrToken {
	return PublicKeyOrToken{Bytes: []byte{0xb7, 0x7a, 0x5c, 0x56, 0x19, 0x34, 0xe0, 0x89}}
}

func TestPublicKeyTokenFromFullKey(t *testing.T) {
	// A real strong-name key is 160 bytes; only the SHA-1 tail matters here,
	// so a short placeholder stands in to exercise the reversal logic.
	full := PublicKeyOrToken{Bytes: []byte("some public key blob"), HasFullKey: true}
	token := full.Token()
	if len(token) != 8 {
		t.Fatalf("Token() length = %d, want 8", len(token))
	}
	// Recomputing must be deterministic.
	if !bytes.Equal(token, full.Token()) {
		t.Fatal("Token() not deterministic")
	}
}

func TestPublicKeyEqualAcrossFullKeyAndToken(t *testing.T) {
	full := PublicKeyOrToken{Bytes: []byte("some public key blob"), HasFullKey: true}
	tokenOnly := PublicKeyOrToken{Bytes: full.Token()}
	if !full.Equal(tokenOnly) {
		t.Fatal("full key and its derived token should compare equal")
	}
}

func TestVersionAgnosticSingleInstance(t *testing.T) {
	foo1 := Identity{Name: "Foo", Version: Version{1, 0, 0, 0}}
	foo2 := Identity{Name: "Foo", Version: Version{2, 0, 0, 0}}

	if DefaultEqual(foo1, foo2) {
		t.Fatal("DefaultEqual must distinguish differing versions")
	}
	if !VersionAgnosticEqual(foo1, foo2) {
		t.Fatal("VersionAgnosticEqual must ignore version differences")
	}
	if foo1.Key() != foo2.Key() {
		t.Fatal("version-agnostic keys must collide for differing versions of the same identity")
	}
}

func TestAllowNewerVersions(t *testing.T) {
	want := Identity{Name: "Foo", Version: Version{1, 0, 0, 0}}
	older := Identity{Name: "Foo", Version: Version{0, 9, 0, 0}}
	newer := Identity{Name: "Foo", Version: Version{1, 5, 0, 0}}

	if AllowNewerEqual(want, older) {
		t.Fatal("an older candidate must not satisfy AllowNewerVersions")
	}
	if !AllowNewerEqual(want, newer) {
		t.Fatal("a newer candidate must satisfy AllowNewerVersions")
	}
	if !AllowNewerEqual(want, want) {
		t.Fatal("an exact match must satisfy AllowNewerVersions")
	}
}

func TestCultureNoneVsEmpty(t *testing.T) {
	withNone := Identity{Name: "Foo", Culture: None}
	withEmpty := Identity{Name: "Foo", Culture: Some("")}
	if VersionAgnosticEqual(withNone, withEmpty) {
		t.Fatal("absent culture must not equal a present-but-empty culture")
	}
}
