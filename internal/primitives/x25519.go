package primitives

import (
	"crypto/rand"

	"github.com/cloudflare/circl/dh/x25519"
)

// X25519KeySize is the byte length of every X25519 public or private key.
const X25519KeySize = x25519.Size

// X25519Keygen generates a new X25519 keypair using the CSPRNG (RFC 7748).
func X25519Keygen() (priv32, pub32 []byte, err error) {
	var sk, pk x25519.Key
	if _, err := rand.Read(sk[:]); err != nil {
		return nil, nil, err
	}
	x25519.KeyGen(&pk, &sk)

	priv32 = make([]byte, X25519KeySize)
	pub32 = make([]byte, X25519KeySize)
	copy(priv32, sk[:])
	copy(pub32, pk[:])
	Zero(sk[:])
	return priv32, pub32, nil
}

// X25519Shared computes the X25519 shared secret between a local private key
// and a remote public key. circl's x25519.Shared rejects low-order and
// non-canonical public keys by returning ok=false, which this function
// coarsens to ErrCryptoFailure: no caller-visible distinction between causes.
func X25519Shared(priv32, pub32 []byte) (secret32 []byte, err error) {
	if len(priv32) != X25519KeySize || len(pub32) != X25519KeySize {
		return nil, ErrCryptoFailure
	}

	var sk, pk, shared x25519.Key
	copy(sk[:], priv32)
	copy(pk[:], pub32)

	ok := x25519.Shared(&shared, &sk, &pk)
	Zero(sk[:])
	if !ok {
		Zero(shared[:])
		return nil, ErrCryptoFailure
	}

	secret32 = make([]byte, X25519KeySize)
	copy(secret32, shared[:])
	Zero(shared[:])
	return secret32, nil
}
