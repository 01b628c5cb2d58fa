// Package primitives provides a narrow, auditable layer of cryptographic
// building blocks: X25519 key agreement, Ed25519 signatures, AES-256-GCM
// AEAD, HKDF-SHA256, HMAC-SHA256, SHA-256, a CSPRNG, constant-time
// comparison, and memory zeroization.
//
// All outputs use a single opaque byte-sequence type ([]byte); this layer
// never leaks base64 or hex encodings — that belongs to the HTTP boundary.
//
// Primitives never retry. Every function that materializes a DEK, KEK, ECDH
// output, or session key is obligated to zero it on every exit path,
// including error paths.
package primitives

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// ErrCryptoFailure is the single failure kind this layer ever surfaces to
// callers: authentication tag mismatch, invalid/low-order X25519 point,
// wrong key length, or invalid signature all coarsen to this one error so
// that no side channel distinguishes the specific cause.
var ErrCryptoFailure = apperrors.Wrap(apperrors.ErrInvalidInput, "crypto failure")
