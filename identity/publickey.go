package identity

import "crypto/sha1" //nolint:gosec // the CLR's short-token derivation mandates SHA-1, not a choice this code makes.

// PublicKeyOrToken carries either a full public key blob (when HasFullKey is
// true) or an 8-byte token already reduced from one. A strong-name-signed
// reference always records the full key; an ordinary reference usually
// records only the token.
type PublicKeyOrToken struct {
	Bytes      []byte `json:"bytes"`
	HasFullKey bool   `json:"has_full_key"`
}

// Empty reports whether no key material is present at all (an unsigned
// assembly reference).
func (p PublicKeyOrToken) Empty() bool {
	return len(p.Bytes) == 0
}

// Token returns the 8-byte public key token, computing it from the full key
// via SHA-1 when HasFullKey is set. Per the CLR's strong-name scheme the
// token is the last 8 bytes of the key's SHA-1 hash, reversed.
func (p PublicKeyOrToken) Token() []byte {
	if !p.HasFullKey {
		return p.Bytes
	}
	sum := sha1.Sum(p.Bytes)
	tail := sum[len(sum)-8:]
	token := make([]byte, 8)
	for i, b := range tail {
		token[len(token)-1-i] = b
	}
	return token
}

// Equal compares two key-or-token values by their token form, so a full key
// and its already-reduced token compare equal.
func (p PublicKeyOrToken) Equal(other PublicKeyOrToken) bool {
	a, b := p.Token(), other.Token()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
