package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
)

// AESGCMNonceSize and AESGCMTagSize fix the IV/tag lengths this layer requires.
const (
	AESGCMNonceSize = 12
	AESGCMTagSize   = 16
	AESGCMKeySize   = 32
)

// newGCM builds a standard-library AES-256-GCM AEAD, rejecting any key that
// is not exactly 32 bytes.
func newGCM(key32 []byte) (cipher.AEAD, error) {
	if len(key32) != AESGCMKeySize {
		return nil, ErrCryptoFailure
	}
	block, err := aes.NewCipher(key32)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	aead, err := cipher.NewGCMWithNonceSize(block, AESGCMNonceSize)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	return aead, nil
}

// AESGCMEncrypt encrypts plaintext under key32 with the given aad. If iv12 is
// nil, a fresh 12-byte IV is drawn from the CSPRNG. The authentication tag is
// split out from the sealed output and returned separately (tag16), per
// as a separate field, instead of left appended to ciphertext.
func AESGCMEncrypt(key32, plaintext, aad, iv12 []byte) (ciphertext, iv, tag []byte, err error) {
	aead, err := newGCM(key32)
	if err != nil {
		return nil, nil, nil, err
	}

	if iv12 == nil {
		iv = make([]byte, AESGCMNonceSize)
		if _, err := rand.Read(iv); err != nil {
			return nil, nil, nil, err
		}
	} else {
		if len(iv12) != AESGCMNonceSize {
			return nil, nil, nil, ErrCryptoFailure
		}
		iv = iv12
	}

	sealed := aead.Seal(nil, iv, plaintext, aad)
	split := len(sealed) - AESGCMTagSize
	if split < 0 {
		return nil, nil, nil, ErrCryptoFailure
	}
	ciphertext = sealed[:split]
	tag = sealed[split:]
	return ciphertext, iv, tag, nil
}

// AESGCMDecrypt inverts AESGCMEncrypt. It fails atomically — returning
// ErrCryptoFailure and no partial plaintext — on any tampering of key,
// ciphertext, aad, iv, or tag.
func AESGCMDecrypt(key32, ciphertext, iv12, aad, tag16 []byte) ([]byte, error) {
	aead, err := newGCM(key32)
	if err != nil {
		return nil, err
	}
	if len(iv12) != AESGCMNonceSize || len(tag16) != AESGCMTagSize {
		return nil, ErrCryptoFailure
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag16))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag16...)

	plaintext, err := aead.Open(nil, iv12, sealed, aad)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	return plaintext, nil
}
