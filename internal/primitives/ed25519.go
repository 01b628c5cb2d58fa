package primitives

import (
	"crypto/ed25519"
	"crypto/rand"
)

// Ed25519PublicKeySize and Ed25519SignatureSize follow RFC 8032.
const (
	Ed25519PublicKeySize  = ed25519.PublicKeySize
	Ed25519PrivateKeySize = ed25519.PrivateKeySize
	Ed25519SignatureSize  = ed25519.SignatureSize
)

// Ed25519Keygen generates a new Ed25519 keypair.
func Ed25519Keygen() (priv, pub []byte, err error) {
	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return []byte(privKey), []byte(pubKey), nil
}

// Ed25519Sign produces a deterministic Ed25519 signature over msg (RFC 8032).
func Ed25519Sign(priv, msg []byte) ([]byte, error) {
	if len(priv) != Ed25519PrivateKeySize {
		return nil, ErrCryptoFailure
	}
	sig := ed25519.Sign(ed25519.PrivateKey(priv), msg)
	return sig, nil
}

// Ed25519Verify reports whether sig is a valid Ed25519 signature over msg
// under pub. Returns false (never an error) on any malformed input so
// callers cannot distinguish "bad key" from "bad signature".
func Ed25519Verify(pub, msg, sig []byte) bool {
	if len(pub) != Ed25519PublicKeySize || len(sig) != Ed25519SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}
