// Package service provides cryptographic signing for audit entries, so an
// operator reading the audit log can prove it has not been altered after
// the fact.
package service

import (
	"encoding/binary"

	"github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/primitives"
)

const signingKeyInfo = "clavum-audit-signing-v1"

// Signer derives a signing key from a tenant's long-lived key material and
// HMAC-signs the canonical encoding of an audit entry.
type Signer struct{}

// NewSigner constructs a Signer.
func NewSigner() *Signer {
	return &Signer{}
}

func (s *Signer) deriveKey(tenantKey []byte) ([]byte, error) {
	return primitives.HKDFSHA256(tenantKey, nil, []byte(signingKeyInfo), 32)
}

// canonicalize builds a length-prefixed, unambiguous byte encoding of an
// entry's signable fields. It excludes Signature itself.
func canonicalize(e *domain.Entry) []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, e.ID[:]...)
	buf = append(buf, e.AgentID[:]...)
	buf = append(buf, e.SecretID[:]...)
	buf = appendLengthPrefixed(buf, []byte(e.Reason))
	buf = appendLengthPrefixed(buf, []byte(e.Tier))
	buf = appendLengthPrefixed(buf, []byte(e.Result))

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(e.CreatedAt.UnixNano()))
	buf = append(buf, ts...)

	var latency int64
	if e.LatencyMs != nil {
		latency = *e.LatencyMs
	}
	lat := make([]byte, 8)
	binary.BigEndian.PutUint64(lat, uint64(latency))
	buf = append(buf, lat...)

	buf = appendLengthPrefixed(buf, e.Proof)
	return buf
}

func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign derives a per-tenant signing key and computes the HMAC-SHA256 over
// e's canonical encoding. tenantKey is zeroized before returning, on every
// path including error.
func (s *Signer) Sign(tenantKey []byte, e *domain.Entry) ([]byte, error) {
	defer primitives.Zero(tenantKey)

	signingKey, err := s.deriveKey(tenantKey)
	if err != nil {
		return nil, err
	}
	defer primitives.Zero(signingKey)

	return primitives.HMACSHA256(signingKey, canonicalize(e)), nil
}

// Verify reports whether e.Signature matches the HMAC computed over its
// canonical encoding under tenantKey. tenantKey is zeroized before
// returning, on every path including error.
func (s *Signer) Verify(tenantKey []byte, e *domain.Entry) bool {
	defer primitives.Zero(tenantKey)

	signingKey, err := s.deriveKey(tenantKey)
	if err != nil {
		return false
	}
	defer primitives.Zero(signingKey)

	expected := primitives.HMACSHA256(signingKey, canonicalize(e))
	return primitives.CTEqual(expected, e.Signature)
}
