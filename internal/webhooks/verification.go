package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// VerificationResult contains the result of webhook signature verification.
type VerificationResult struct {
	Valid bool   // Whether signature is valid
	Error string // Error message if verification failed
}

// Sign returns the X-Webhook-Signature value for payload: "sha256=" followed
// by the lowercase hex HMAC-SHA256 of payload keyed with secret.
func Sign(secret string, payload []byte) string {
	return SignaturePrefix + hex.EncodeToString(computeMAC(secret, payload))
}

// Verify checks a signature header against body the same way the receiving
// endpoint does. Both "sha256=<hex>" and bare "<hex>" are accepted.
func Verify(secret string, body []byte, signature string) *VerificationResult {
	if signature == "" {
		return &VerificationResult{Error: "missing signature"}
	}

	actualHex := strings.TrimPrefix(strings.TrimSpace(signature), SignaturePrefix)

	actualMAC, err := hex.DecodeString(actualHex)
	if err != nil {
		return &VerificationResult{Error: fmt.Sprintf("invalid signature format: %v", err)}
	}

	// Constant-time comparison to prevent timing attacks
	if !hmac.Equal(computeMAC(secret, body), actualMAC) {
		return &VerificationResult{Error: "signature mismatch"}
	}

	return &VerificationResult{Valid: true}
}

func computeMAC(secret string, payload []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return h.Sum(nil)
}
