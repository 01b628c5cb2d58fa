package signing

import (
	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// ChallengeNonceSize is the length of the random portion of an approval
// challenge.
const ChallengeNonceSize = 32

// BuildChallenge constructs the context-bound byte string a phone signs to
// approve a retrieval: random32 || secret_id || SHA256(reason_utf8). nonce
// must be exactly ChallengeNonceSize bytes when provided; pass nil to draw
// one from the CSPRNG.
func BuildChallenge(nonce []byte, secretID, reason string) ([]byte, error) {
	if nonce == nil {
		n, err := primitives.CSPRNG(ChallengeNonceSize)
		if err != nil {
			return nil, err
		}
		nonce = n
	} else if len(nonce) != ChallengeNonceSize {
		return nil, primitives.ErrCryptoFailure
	}

	reasonHash := primitives.SHA256([]byte(reason))

	buf := make([]byte, 0, len(nonce)+len(secretID)+len(reasonHash))
	buf = append(buf, nonce...)
	buf = append(buf, secretID...)
	buf = append(buf, reasonHash...)
	return buf, nil
}

// SignApproval signs a challenge with the phone's Ed25519 private key.
func SignApproval(phonePriv, challenge []byte) ([]byte, error) {
	return primitives.Ed25519Sign(phonePriv, challenge)
}

// VerifyApproval verifies an approval signature against the phone's
// registered public key.
func VerifyApproval(phonePub, challenge, sig []byte) bool {
	return primitives.Ed25519Verify(phonePub, challenge, sig)
}
