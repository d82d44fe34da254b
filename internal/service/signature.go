package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature reports whether signature is a valid base64 HMAC-SHA256 of
// the registered notification URL concatenated with the raw request body.
// The comparison is constant time, and a malformed claimed signature is a
// failed verification, not an error.
func VerifySignature(notificationURL string, body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	claimed, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(notificationURL))
	mac.Write(body)

	return hmac.Equal(claimed, mac.Sum(nil))
}
