// Package signing implements the shared-secret body signing used on the
// provider call boundary. Each direction (provider->gateway and
// gateway->provider) carries its own secret; a Signer holds exactly one.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes and verifies HMAC-SHA256 signatures over canonical
// request/response bodies.
type Signer struct {
	secret []byte
}

// New creates a signer for one signing direction
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 of body
func (s *Signer) Sign(body []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over body and compares it to the
// supplied hex signature in constant time. An empty signature never
// verifies.
func (s *Signer) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	// hmac.Equal is constant time
	return hmac.Equal(expected, supplied)
}
