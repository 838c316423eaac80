// Package pkce implements the code-challenge verification half of RFC 7636.
// The client half (verifier generation, challenge derivation for the
// authorization URL) is handled by golang.org/x/oauth2 on the BFF side.
package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/oauthlab/go-bff-server/oauthmodel"
)

// ChallengeS256 derives the S256 code challenge for a verifier:
// BASE64URL(SHA256(verifier)), unpadded.
func ChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// Verify recomputes the challenge from the presented verifier and compares
// it to the stored challenge in constant time. Unknown methods fail closed.
func Verify(challenge, verifier string, method oauthmodel.CodeMethodType) bool {
	switch method {
	case oauthmodel.CodeMethodS256:
		return constantTimeEqual(ChallengeS256(verifier), challenge)
	case oauthmodel.CodeMethodPlain:
		return constantTimeEqual(verifier, challenge)
	}
	return false
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
