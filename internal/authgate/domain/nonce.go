// Package domain defines the identity and replay-protection records
// AuthGate reads and writes: which principal kind signed a request, and the
// nonce record that lets at most one request ever use a given signature.
package domain

import "time"

// IdentityKind distinguishes the two principal kinds AuthGate authenticates.
type IdentityKind string

const (
	// IdentityAgent identifies a paired agent via the X-Agent-Id header.
	IdentityAgent IdentityKind = "agent"
	// IdentityPhone identifies a paired phone via the X-Phone-Id header.
	IdentityPhone IdentityKind = "phone"
)

// Identity is the authenticated principal bound to a request context after
// AuthGate succeeds.
type Identity struct {
	Kind     IdentityKind
	ID       string
	TenantID string
}

// NonceRecord marks one observed request signature as spent. Its presence in
// the store is the entire replay-protection contract: a row means "this
// exact signature has been observed".
type NonceRecord struct {
	SignatureDigest []byte // SHA-256 of the raw signature bytes, 32 bytes
	ExpiresAt       time.Time
}
