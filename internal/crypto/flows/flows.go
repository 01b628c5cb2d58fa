// Package flows composes internal/primitives into the tier-specific
// operations that move a DEK from the agent's local vault, through a
// per-retrieval KEK, and back, without the server ever persisting either.
package flows

import (
	"github.com/dennisMeeQ/clavum/internal/primitives"
	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// kekInfoPrefix is the HKDF info-string prefix for all KEK derivations.
// Bumping it (e.g. to "clavum-kek-v2") changes every derived KEK and MUST
// accompany a coordinated wire-format version bump.
const kekInfoPrefix = "clavum-kek-v1"

// kekInfo builds INFO(secret_id) = "clavum-kek-v1" || secret_id.
func kekInfo(secretID string) []byte {
	return append([]byte(kekInfoPrefix), secretID...)
}

// AAD builds the fixed additional-authenticated-data byte string shared by
// DEK wrapping and secret encryption: secret_id || tier || agent_id.
func AAD(secretID string, tier domain.Tier, agentID string) []byte {
	buf := make([]byte, 0, len(secretID)+len(tier)+len(agentID))
	buf = append(buf, secretID...)
	buf = append(buf, string(tier)...)
	buf = append(buf, agentID...)
	return buf
}

// GreenKEK derives the routine-tier KEK from an ECDH shared secret and a
// per-secret random salt. Called symmetrically by client (eph_priv,
// server_pub) and server (server_priv, eph_pub); both sides land on the same
// 32-byte output. kekSalt must be 32 bytes and is supplied by the requester,
// then echoed back at retrieval time so the server can re-derive.
//
// eph is zeroized before returning, on every path including error.
func GreenKEK(priv, pub, kekSalt []byte, secretID string) (kek []byte, err error) {
	shared, err := primitives.X25519Shared(priv, pub)
	if err != nil {
		return nil, err
	}
	defer primitives.Zero(shared)

	kek, err = primitives.HKDFSHA256(shared, kekSalt, kekInfo(secretID), primitives.AESGCMKeySize)
	if err != nil {
		return nil, err
	}
	return kek, nil
}

// RedKEK derives the critical-tier KEK from the server's two ECDH outputs
// with the agent and the phone, keyed on the approval challenge so every
// retrieval yields a fresh KEK even for the same secret.
//
// Both intermediate shared secrets and their concatenation are zeroized
// before returning, on every path including error.
func RedKEK(serverPriv, agentPub, phonePub, challenge []byte, secretID string) (kek []byte, err error) {
	kAgent, err := primitives.X25519Shared(serverPriv, agentPub)
	if err != nil {
		return nil, err
	}
	defer primitives.Zero(kAgent)

	kPhone, err := primitives.X25519Shared(serverPriv, phonePub)
	if err != nil {
		return nil, err
	}
	defer primitives.Zero(kPhone)

	ikm := make([]byte, 0, len(kAgent)+len(kPhone))
	ikm = append(ikm, kAgent...)
	ikm = append(ikm, kPhone...)
	defer primitives.Zero(ikm)

	kek, err = primitives.HKDFSHA256(ikm, challenge, kekInfo(secretID), primitives.AESGCMKeySize)
	if err != nil {
		return nil, err
	}
	return kek, nil
}

// WrapDEK seals dek under kek with a fresh random IV. kek is zeroized before
// returning, on every path including error.
func WrapDEK(kek, dek, aad []byte) (ciphertext, iv, tag []byte, err error) {
	defer primitives.Zero(kek)
	return primitives.AESGCMEncrypt(kek, dek, aad, nil)
}

// UnwrapDEK opens a wrapped DEK. kek is zeroized before returning, on every
// path including error. A mismatch on kek, ciphertext, iv, aad, or tag fails
// atomically with ErrCryptoFailure.
func UnwrapDEK(kek, ciphertext, iv, aad, tag []byte) (dek []byte, err error) {
	defer primitives.Zero(kek)
	return primitives.AESGCMDecrypt(kek, ciphertext, iv, aad, tag)
}

// EncryptSecret seals plaintext under dek with a fresh random IV. dek is
// zeroized before returning, on every path including error.
func EncryptSecret(dek, plaintext, aad []byte) (ciphertext, iv, tag []byte, err error) {
	defer primitives.Zero(dek)
	return primitives.AESGCMEncrypt(dek, plaintext, aad, nil)
}

// DecryptSecret recovers plaintext from a sealed secret. dek is zeroized
// before returning, on every path including error.
func DecryptSecret(dek, ciphertext, iv, aad, tag []byte) (plaintext []byte, err error) {
	defer primitives.Zero(dek)
	return primitives.AESGCMDecrypt(dek, ciphertext, iv, aad, tag)
}

// WrapSessionKEK seals a freshly derived KEK under the stable agent↔server
// session key for transport back to the agent. sessionKey is zeroized
// before returning, on every path including error. AAD is empty per the
// auto-granted and human-approved transport contract.
func WrapSessionKEK(sessionKey, kek []byte) (ciphertext, iv, tag []byte, err error) {
	defer primitives.Zero(sessionKey)
	return primitives.AESGCMEncrypt(sessionKey, kek, nil, nil)
}
