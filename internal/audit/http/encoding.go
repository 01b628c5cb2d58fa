package http

import "encoding/base64"

func proofBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
