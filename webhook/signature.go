package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureHeader carries the HMAC-SHA256 of the request body.
const SignatureHeader = "X-Hub-Signature-256"

// VerifySignature checks an HMAC-SHA256 signature of body keyed with secret.
// signature is hex, with or without the "sha256=" prefix. The returned error
// never includes the expected digest.
func VerifySignature(secret, body []byte, signature string) error {
	if signature == "" {
		return ErrSignatureMissing
	}

	signatureBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureMalformed, err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	if subtle.ConstantTimeCompare(mac.Sum(nil), signatureBytes) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign returns the signature header value for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
