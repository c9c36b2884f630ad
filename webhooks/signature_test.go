package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)
	secret := "app-secret"

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, VerifySignature(body, signBody(body, secret), secret))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(body, signBody(body, "other-secret"), secret))
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		header := signBody(body, secret)
		tampered := []byte(`{"object":"page","entry":[{}]}`)
		assert.False(t, VerifySignature(tampered, header, secret))
	})

	t.Run("missing prefix rejected", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		bare := hex.EncodeToString(mac.Sum(nil))
		assert.False(t, VerifySignature(body, bare, secret))
	})

	t.Run("empty header rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(body, "", secret))
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(body, signBody(body, ""), ""))
	})
}
