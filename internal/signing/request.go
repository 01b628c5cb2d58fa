// Package signing builds and verifies the two byte payloads the rest of the
// system signs with Ed25519: the canonical request-signature payload and the
// context-bound approval challenge.
package signing

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// DefaultMaxAgeMillis is the default request-signature freshness window.
const DefaultMaxAgeMillis = 60_000

// RequestPayload builds the canonical byte sequence signed by a request:
//
//	TIMESTAMP_ASCII || ":" || METHOD || ":" || PATH || ":" || HEX_LOWER(SHA256(BODY))
//
// method is expected uppercase and path without a query string; callers are
// responsible for that normalization before this function is invoked so
// signing and verification canonicalize identically.
func RequestPayload(timestampMillis int64, method, path string, body []byte) []byte {
	ts := strconv.FormatInt(timestampMillis, 10)
	bodyHash := hex.EncodeToString(primitives.SHA256(body))

	buf := make([]byte, 0, len(ts)+1+len(method)+1+len(path)+1+len(bodyHash))
	buf = append(buf, ts...)
	buf = append(buf, ':')
	buf = append(buf, method...)
	buf = append(buf, ':')
	buf = append(buf, path...)
	buf = append(buf, ':')
	buf = append(buf, bodyHash...)
	return buf
}

// SignRequest signs the canonical payload for (timestampMillis, method,
// path, body) with priv.
func SignRequest(priv []byte, timestampMillis int64, method, path string, body []byte) ([]byte, error) {
	return primitives.Ed25519Sign(priv, RequestPayload(timestampMillis, method, path, body))
}

// VerifyRequest reports whether sig is a valid, fresh Ed25519 signature over
// the canonical payload. It returns false — never an error — if the
// timestamp is unparseable, stale, in the future beyond maxAgeMillis, or the
// Ed25519 check fails; callers must not distinguish among these causes.
func VerifyRequest(pub []byte, timestampMillis int64, method, path string, body, sig []byte, now time.Time, maxAgeMillis int64) bool {
	age := now.UnixMilli() - timestampMillis
	if age < 0 {
		age = -age
	}
	if age > maxAgeMillis {
		return false
	}
	return primitives.Ed25519Verify(pub, RequestPayload(timestampMillis, method, path, body), sig)
}

// ParseTimestampMillis parses the ASCII decimal-milliseconds timestamp
// header. It rejects negative values and non-numeric input, returning ok=false
// rather than an error so the caller can fold it into a single verification
// failure.
func ParseTimestampMillis(s string) (ms int64, ok bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
