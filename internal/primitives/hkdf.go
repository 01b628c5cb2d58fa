package primitives

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDFSHA256 derives outLen bytes of keying material from ikm using
// HKDF-SHA256 (RFC 5869) with the given salt and info.
func HKDFSHA256(ikm, salt, info []byte, outLen int) ([]byte, error) {
	kdf := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, err
	}
	return out, nil
}
