package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signatureHeader = "X-Hub-Signature-256"

// VerifySignature checks the X-Hub-Signature-256 header value against the
// HMAC-SHA256 of the raw body keyed by the app secret. Comparison is
// constant-time.
func VerifySignature(body []byte, header, appSecret string) bool {
	if appSecret == "" || header == "" {
		return false
	}

	provided, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
